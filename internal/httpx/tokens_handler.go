package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-market-api/internal/auth"
	"github.com/ariefcatur/go-market-api/internal/market"
)

type userByEmail interface {
	GetByEmail(ctx context.Context, email string) (market.User, error)
}

type TokensHandler struct {
	Users  userByEmail
	Tokens *auth.TokenService
}

func (h *TokensHandler) Register(r chi.Router) {
	r.Post("/tokens", h.create)
}

// create trades email+password for a signed token. Unknown email and bad
// password are the same 400, so the endpoint doesn't confirm which
// addresses have accounts.
func (h *TokensHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.HashedPassword, req.Password) {
		writeDomainError(w, market.ErrInvalidCredentials)
		return
	}

	token, err := h.Tokens.Encode(user.ID, user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
