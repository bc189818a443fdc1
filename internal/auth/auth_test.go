package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/go-market-api/internal/market"
)

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("plaintext leaked into hash")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatalf("expected matching password")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected mismatch")
	}

	other, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if other == hash {
		t.Fatalf("expected per-hash salt, got identical hashes")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := &TokenService{Secret: []byte("test-secret"), TTL: time.Hour}

	token, err := svc.Encode("u1", "alice@example.com")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	claims, err := svc.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("expected user id u1, got %s", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("expected email, got %s", claims.Email)
	}
}

func TestTokenRejections(t *testing.T) {
	t.Parallel()

	svc := &TokenService{Secret: []byte("test-secret"), TTL: time.Hour}

	t.Run("garbage", func(t *testing.T) {
		if _, err := svc.Decode("not-a-token"); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &TokenService{Secret: []byte("different"), TTL: time.Hour}
		token, err := other.Encode("u1", "")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if _, err := svc.Decode(token); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("expired", func(t *testing.T) {
		short := &TokenService{Secret: []byte("test-secret"), TTL: -time.Minute}
		token, err := short.Encode("u1", "")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if _, err := svc.Decode(token); err == nil {
			t.Fatalf("expected error")
		}
	})
}

type fakeUserFetcher struct {
	users    map[string]market.User
	products map[string][]market.Product
}

func (f *fakeUserFetcher) GetByID(ctx context.Context, id string) (market.User, error) {
	u, ok := f.users[id]
	if !ok {
		return market.User{}, market.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserFetcher) ListByOwner(ctx context.Context, userID string) ([]market.Product, error) {
	return f.products[userID], nil
}

func TestRequireUser(t *testing.T) {
	t.Parallel()

	tokens := &TokenService{Secret: []byte("test-secret"), TTL: time.Hour}
	users := &fakeUserFetcher{
		users: map[string]market.User{
			"u1": {ID: "u1", Email: "alice@example.com"},
		},
		products: map[string][]market.Product{
			"u1": {{ID: "p1", Title: "Walkman", PriceCents: 500, UserID: "u1"}},
		},
	}

	var gotUser market.User
	handler := RequireUser(tokens, users, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	do := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing header", func(t *testing.T) {
		if rec := do(""); rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		if rec := do("junk"); rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		token, err := tokens.Encode("ghost", "")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if rec := do(token); rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("raw token accepted", func(t *testing.T) {
		token, err := tokens.Encode("u1", "alice@example.com")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if rec := do(token); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotUser.ID != "u1" {
			t.Fatalf("expected context user u1, got %+v", gotUser)
		}
	})

	t.Run("bearer prefix accepted", func(t *testing.T) {
		token, err := tokens.Encode("u1", "alice@example.com")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if rec := do("Bearer " + token); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("owned products loaded", func(t *testing.T) {
		token, err := tokens.Encode("u1", "alice@example.com")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if rec := do(token); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(gotUser.Products) != 1 || gotUser.Products[0].ID != "p1" {
			t.Fatalf("expected context user to carry p1, got %+v", gotUser.Products)
		}
	})

	t.Run("no products yields empty slice", func(t *testing.T) {
		users.users["u2"] = market.User{ID: "u2", Email: "bob@example.com"}
		token, err := tokens.Encode("u2", "bob@example.com")
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if rec := do(token); rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotUser.Products == nil || len(gotUser.Products) != 0 {
			t.Fatalf("expected empty products slice, got %+v", gotUser.Products)
		}
	})
}
