package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-market-api/internal/market"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeDomainError maps domain sentinels onto the API's status taxonomy:
// validation 400, foreign resource 403, missing resource 404.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr market.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verr})
	case errors.Is(err, market.ErrEmptyOrder):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"products": "should be a non-empty array of {id, quantity}"},
		})
	case errors.Is(err, market.ErrEmailTaken):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"email": "is already taken"},
		})
	case errors.Is(err, market.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "invalid credentials")
	case errors.Is(err, market.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, market.ErrUserNotFound),
		errors.Is(err, market.ErrProductNotFound),
		errors.Is(err, market.ErrOrderNotFound),
		errors.Is(err, market.ErrPlacementNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
