package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/electro-atlas/storefront/internal/storefront"
)

type ProductHandler struct {
	svc     *storefront.Service
	timeout time.Duration
}

func NewProductHandler(svc *storefront.Service, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		svc:     svc,
		timeout: timeout,
	}
}

type SearchHistoryResponse struct {
	Queries []string `json:"queries"`
}

// GET /api/v1/products?search=&page=
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		var err error
		page, err = strconv.Atoi(raw)
		if err != nil || page <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return
		}
	}

	v := visitorFrom(r.Context())
	res, err := h.svc.Search(ctx, v.GuestID, r.URL.Query().Get("search"), page)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.svc.Product(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// GET /api/v1/search/history
func (h *ProductHandler) History(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())
	queries, err := h.svc.History(v.GuestID).List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SearchHistoryResponse{Queries: queries})
}

// DELETE /api/v1/search/history
func (h *ProductHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())
	if err := h.svc.History(v.GuestID).Clear(r.Context()); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
