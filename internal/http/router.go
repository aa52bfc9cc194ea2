package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/electro-atlas/storefront/internal/storefront"
)

type RouterConfig struct {
	Service            *storefront.Service
	Sessions           *Sessions
	Logger             *zap.Logger
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())

	cartHandler := NewCartHandler(cfg.Service, validate, cfg.RequestTimeout)
	wishlistHandler := NewWishlistHandler(cfg.Service, validate, cfg.RequestTimeout)
	authHandler := NewAuthHandler(cfg.Sessions, validate, cfg.RequestTimeout)
	productHandler := NewProductHandler(cfg.Service, cfg.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(cfg.Service, cfg.RequestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(LimitBody(cfg.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/docs", ServeDocs)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cfg.Sessions.Middleware)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Patch("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Get("/items/{product_id}/available", cartHandler.Available)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Delete("/", wishlistHandler.ClearWishlist)
			r.Post("/items", wishlistHandler.AddItem)
			r.Delete("/items/{product_id}", wishlistHandler.RemoveItem)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/status", authHandler.Status)
			r.Post("/session", authHandler.SignIn)
			r.Delete("/session", authHandler.SignOut)
		})

		r.Get("/products", productHandler.Search)
		r.Get("/products/{id}", productHandler.Get)
		r.Get("/search/history", productHandler.History)
		r.Delete("/search/history", productHandler.ClearHistory)

		r.Post("/checkout", checkoutHandler.InitiateCheckout)
	})

	return r
}
