package httpx

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/ariefcatur/go-market-api/internal/auth"
	"github.com/ariefcatur/go-market-api/internal/market"
)

type fakeUsers struct {
	byID  map[string]market.User
	owned map[string][]market.Product
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (market.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return market.User{}, market.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (market.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return market.User{}, market.ErrUserNotFound
}

func (f *fakeUsers) ListByOwner(ctx context.Context, userID string) ([]market.Product, error) {
	return f.owned[userID], nil
}

// authFixture wires a real token service and middleware over fake users:
// u1/alice (who owns one product) and u2/bob.
func authFixture() (*auth.TokenService, *fakeUsers, func(http.Handler) http.Handler) {
	tokens := &auth.TokenService{Secret: []byte("test-secret"), TTL: time.Hour}
	users := &fakeUsers{
		byID: map[string]market.User{
			"u1": {ID: "u1", Email: "alice@example.com", HashedPassword: "hash"},
			"u2": {ID: "u2", Email: "bob@example.com", HashedPassword: "hash"},
		},
		owned: map[string][]market.Product{
			"u1": {{ID: "p1", Title: "Walkman", PriceCents: 500, Published: true, UserID: "u1"}},
		},
	}
	return tokens, users, auth.RequireUser(tokens, users, users)
}

func tokenFor(t *testing.T, tokens *auth.TokenService, userID string) string {
	t.Helper()
	token, err := tokens.Encode(userID, "")
	if err != nil {
		t.Fatalf("encode token: %v", err)
	}
	return token
}
