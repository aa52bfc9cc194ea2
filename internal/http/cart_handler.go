package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/electro-atlas/storefront/internal/storefront"
)

type CartHandler struct {
	svc      *storefront.Service
	validate *validator.Validate
	timeout  time.Duration
}

func NewCartHandler(svc *storefront.Service, validate *validator.Validate, timeout time.Duration) *CartHandler {
	return &CartHandler{
		svc:      svc,
		validate: validate,
		timeout:  timeout,
	}
}

// Quantity is checked by the cart itself so zero and negative values come
// back as a typed validation error.
type AddItemRequestDTO struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type AvailabilityResponse struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	v := visitorFrom(r.Context())
	view, err := h.svc.Cart(v.Session, v.GuestID).Snapshot(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !decodeJSON(w, r, h.validate, &req) {
		return
	}

	v := visitorFrom(r.Context())
	view, err := h.svc.AddToCart(ctx, v.Session, v.GuestID, req.ProductID, req.Quantity)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// PATCH /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, h.validate, &req) {
		return
	}

	v := visitorFrom(r.Context())
	view, err := h.svc.Cart(v.Session, v.GuestID).UpdateItem(ctx, chi.URLParam(r, "product_id"), req.Quantity)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	v := visitorFrom(r.Context())
	view, err := h.svc.Cart(v.Session, v.GuestID).RemoveItem(ctx, chi.URLParam(r, "product_id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	v := visitorFrom(r.Context())
	view, err := h.svc.Cart(v.Session, v.GuestID).Clear(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GET /api/v1/cart/items/{product_id}/available
func (h *CartHandler) Available(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	v := visitorFrom(r.Context())
	available, err := h.svc.MaxAvailable(ctx, v.Session, v.GuestID, productID)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, AvailabilityResponse{
		ProductID: productID,
		Available: max(available, 0),
	})
}
