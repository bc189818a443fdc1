package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-market-api/internal/auth"
	"github.com/ariefcatur/go-market-api/internal/market"
	"github.com/ariefcatur/go-market-api/internal/pagination"
)

type OrderStore interface {
	Get(ctx context.Context, id string) (market.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]market.Order, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	ListPlacements(ctx context.Context, orderID string) ([]market.Placement, error)
}

type checkoutService interface {
	CreateOrder(ctx context.Context, userID string, items []market.OrderItemInput) (market.Order, error)
}

// viewCache caches the serialized order detail; the order service
// invalidates entries when placements change.
type viewCache interface {
	Get(ctx context.Context, orderID string) ([]byte, bool)
	Set(ctx context.Context, orderID string, body []byte)
}

type OrdersHandler struct {
	Orders   OrderStore
	Checkout checkoutService
	Views    viewCache // optional
}

func (h *OrdersHandler) Register(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Group(func(g chi.Router) {
		g.Use(requireUser)
		g.Get("/orders", h.index)
		g.Post("/orders", h.create)
		g.Get("/orders/{orderID}", h.show)
	})
}

// index lists only the caller's orders.
func (h *OrdersHandler) index(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	q := r.URL.Query()
	page := pagination.ParsePage(q)

	count, err := h.Orders.CountByUser(r.Context(), current.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	orders, err := h.Orders.ListByUser(r.Context(), current.ID, pagination.PerPage, pagination.Offset(page))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if orders == nil {
		orders = []market.Order{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  orders,
		"links": pagination.BuildLinks(r.URL.Path, q, page, count),
	})
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req struct {
		Products []market.OrderItemInput `json:"products"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	order, err := h.Checkout.CreateOrder(r.Context(), current.ID, req.Products)
	if err != nil {
		// A vanished product aborts the checkout; surface it as a bad
		// request rather than a 404 on the order route.
		if errors.Is(err, market.ErrProductNotFound) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"errors": map[string]string{"products": "references a product that does not exist"},
			})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) show(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	order, err := h.Orders.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if order.UserID != current.ID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	// Ownership is checked above, so serving the cached view is safe.
	if h.Views != nil {
		if body, ok := h.Views.Get(r.Context(), order.ID); ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(body)
			return
		}
	}

	placements, err := h.Orders.ListPlacements(r.Context(), order.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if placements == nil {
		placements = []market.Placement{}
	}

	body, err := json.Marshal(map[string]any{
		"id":          order.ID,
		"user_id":     order.UserID,
		"total_cents": order.TotalCents,
		"created_at":  order.CreatedAt,
		"updated_at":  order.UpdatedAt,
		"placements":  placements,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if h.Views != nil {
		h.Views.Set(r.Context(), order.ID, body)
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
