package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-market-api/internal/market"
)

type userKey struct{}

type UserFetcher interface {
	GetByID(ctx context.Context, id string) (market.User, error)
}

type ProductLister interface {
	ListByOwner(ctx context.Context, userID string) ([]market.Product, error)
}

// RequireUser resolves the caller from the Authorization header and
// stashes the full user record, owned products included, on the request
// context. Anything short of a valid token for an existing user is a
// 403, matching the API contract (there is no 401 in this surface).
func RequireUser(tokens *TokenService, users UserFetcher, products ProductLister) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				http.Error(w, "you must provide an Authorization header", http.StatusForbidden)
				return
			}
			token := strings.TrimSpace(stripBearer(raw))

			claims, err := tokens.Decode(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusForbidden)
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				http.Error(w, "invalid token", http.StatusForbidden)
				return
			}

			owned, err := products.ListByOwner(r.Context(), user.ID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if owned == nil {
				owned = []market.Product{}
			}
			user.Products = owned

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
		})
	}
}

func UserFromContext(ctx context.Context) (market.User, bool) {
	u, ok := ctx.Value(userKey{}).(market.User)
	return u, ok
}

func stripBearer(raw string) string {
	for _, prefix := range []string{"Bearer ", "bearer "} {
		if strings.HasPrefix(raw, prefix) {
			return raw[len(prefix):]
		}
	}
	return raw
}
