package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/electro-atlas/storefront/internal/storefront"
)

type WishlistHandler struct {
	svc      *storefront.Service
	validate *validator.Validate
	timeout  time.Duration
}

func NewWishlistHandler(svc *storefront.Service, validate *validator.Validate, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{
		svc:      svc,
		validate: validate,
		timeout:  timeout,
	}
}

type AddWishlistItemRequestDTO struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
}

// GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	v := visitorFrom(r.Context())
	view, err := h.svc.Wishlist(v.Session, v.GuestID).Snapshot(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddWishlistItemRequestDTO
	if !decodeJSON(w, r, h.validate, &req) {
		return
	}

	v := visitorFrom(r.Context())
	view, err := h.svc.AddToWishlist(ctx, v.Session, v.GuestID, req.ProductID)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// DELETE /api/v1/wishlist/items/{product_id}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	v := visitorFrom(r.Context())
	view, err := h.svc.Wishlist(v.Session, v.GuestID).RemoveItem(ctx, chi.URLParam(r, "product_id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// DELETE /api/v1/wishlist
func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	v := visitorFrom(r.Context())
	view, err := h.svc.Wishlist(v.Session, v.GuestID).Clear(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
