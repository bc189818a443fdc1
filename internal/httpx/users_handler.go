package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-market-api/internal/auth"
	"github.com/ariefcatur/go-market-api/internal/market"
)

type UserStore interface {
	Create(ctx context.Context, u *market.User) error
	Update(ctx context.Context, u *market.User) error
	Delete(ctx context.Context, id string) error
}

type UsersHandler struct {
	Users UserStore
}

func (h *UsersHandler) Register(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Post("/users", h.create)
	r.Group(func(g chi.Router) {
		g.Use(requireUser)
		g.Get("/users/{userID}", h.show)
		g.Put("/users/{userID}", h.update)
		g.Delete("/users/{userID}", h.destroy)
	})
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"password": "is required"},
		})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := market.User{Email: req.Email, HashedPassword: hashed, Products: []market.Product{}}
	if err := h.Users.Create(r.Context(), &user); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Users can only see, change and delete themselves; any other id is a 403.
func (h *UsersHandler) show(w http.ResponseWriter, r *http.Request) {
	current, ok := self(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	current, ok := self(w, r)
	if !ok {
		return
	}

	var req struct {
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email != nil {
		current.Email = *req.Email
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		current.HashedPassword = hashed
	}

	if err := h.Users.Update(r.Context(), &current); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) destroy(w http.ResponseWriter, r *http.Request) {
	current, ok := self(w, r)
	if !ok {
		return
	}
	if err := h.Users.Delete(r.Context(), current.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func self(w http.ResponseWriter, r *http.Request) (market.User, bool) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden")
		return market.User{}, false
	}
	if chi.URLParam(r, "userID") != current.ID {
		writeError(w, http.StatusForbidden, "forbidden")
		return market.User{}, false
	}
	return current, true
}
