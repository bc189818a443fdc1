package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-market-api/internal/auth"
	"github.com/ariefcatur/go-market-api/internal/market"
	"github.com/ariefcatur/go-market-api/internal/pagination"
)

type ProductStore interface {
	Create(ctx context.Context, p *market.Product) error
	GetByID(ctx context.Context, id string) (market.Product, error)
	Update(ctx context.Context, p *market.Product) error
	Delete(ctx context.Context, id string) error
	SearchPublished(ctx context.Context, f market.SearchFilters, limit, offset int) ([]market.Product, error)
	CountPublished(ctx context.Context, f market.SearchFilters) (int, error)
}

// pageCache is a read-through cache for the published-products listing.
type pageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
}

type ProductsHandler struct {
	Products ProductStore
	Cache    pageCache // optional
}

func (h *ProductsHandler) Register(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Get("/products", h.index)
	r.Get("/products/{productID}", h.show)
	r.Group(func(g chi.Router) {
		g.Use(requireUser)
		g.Post("/products", h.create)
		g.Put("/products/{productID}", h.update)
		g.Delete("/products/{productID}", h.destroy)
	})
}

func (h *ProductsHandler) index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if h.Cache != nil {
		if body, ok := h.Cache.Get(r.Context(), r.URL.RawQuery); ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(body)
			return
		}
	}

	filters := parseSearchFilters(q)
	page := pagination.ParsePage(q)

	count, err := h.Products.CountPublished(r.Context(), filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	products, err := h.Products.SearchPublished(r.Context(), filters, pagination.PerPage, pagination.Offset(page))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if products == nil {
		products = []market.Product{}
	}

	body, err := json.Marshal(map[string]any{
		"data":  products,
		"links": pagination.BuildLinks(r.URL.Path, q, page, count),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if h.Cache != nil {
		h.Cache.Set(r.Context(), r.URL.RawQuery, body)
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (h *ProductsHandler) show(w http.ResponseWriter, r *http.Request) {
	product, err := h.Products.GetByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req struct {
		Title      string `json:"title"`
		PriceCents int    `json:"price_cents"`
		Published  bool   `json:"published"`
		Quantity   int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	product := market.Product{
		Title:      req.Title,
		PriceCents: req.PriceCents,
		Published:  req.Published,
		Quantity:   req.Quantity,
		UserID:     current.ID,
	}
	if err := h.Products.Create(r.Context(), &product); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	product, ok := h.owned(w, r)
	if !ok {
		return
	}

	var req struct {
		Title      *string `json:"title"`
		PriceCents *int    `json:"price_cents"`
		Published  *bool   `json:"published"`
		Quantity   *int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.Published != nil {
		product.Published = *req.Published
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}

	if err := h.Products.Update(r.Context(), &product); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductsHandler) destroy(w http.ResponseWriter, r *http.Request) {
	product, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := h.Products.Delete(r.Context(), product.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// owned loads the path product and checks the caller owns it.
func (h *ProductsHandler) owned(w http.ResponseWriter, r *http.Request) (market.Product, bool) {
	current, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden")
		return market.Product{}, false
	}
	product, err := h.Products.GetByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeDomainError(w, err)
		return market.Product{}, false
	}
	if product.UserID != current.ID {
		writeError(w, http.StatusForbidden, "forbidden")
		return market.Product{}, false
	}
	return product, true
}

func parseSearchFilters(q url.Values) market.SearchFilters {
	f := market.SearchFilters{Title: q.Get("title")}
	if v, err := strconv.Atoi(q.Get("priceMin")); err == nil {
		f.PriceMin = &v
	}
	if v, err := strconv.Atoi(q.Get("priceMax")); err == nil {
		f.PriceMax = &v
	}
	return f
}
