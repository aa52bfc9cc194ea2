package http

import (
	"context"
	"net/http"
	"time"

	"github.com/electro-atlas/storefront/internal/storefront"
)

type CheckoutHandler struct {
	svc     *storefront.Service
	timeout time.Duration
}

func NewCheckoutHandler(svc *storefront.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		svc:     svc,
		timeout: timeout,
	}
}

// POST /api/v1/checkout
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.svc.Checkout(ctx, visitorFrom(r.Context()).Session)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}
