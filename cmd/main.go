package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/electro-atlas/storefront/internal/auth"
	"github.com/electro-atlas/storefront/internal/cache"
	"github.com/electro-atlas/storefront/internal/commerce"
	"github.com/electro-atlas/storefront/internal/config"
	"github.com/electro-atlas/storefront/internal/domain"
	"github.com/electro-atlas/storefront/internal/events"
	h "github.com/electro-atlas/storefront/internal/http"
	"github.com/electro-atlas/storefront/internal/localstore"
	"github.com/electro-atlas/storefront/internal/remote"
	"github.com/electro-atlas/storefront/internal/storefront"
	"github.com/electro-atlas/storefront/pkg/circuitbreaker"
	"github.com/electro-atlas/storefront/pkg/logger"
)

const cleanupInterval = 10 * time.Minute

func main() {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Electro Atlas storefront gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		log.Fatalf("storefront: %v", err)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply guest state migrations to the SQLite database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			backend, err := localstore.NewSQLiteBackend(cfg.SQLitePath, cfg.GuestStateTTL)
			if err != nil {
				return err
			}
			defer backend.Close()
			if err := backend.RunMigrations(); err != nil {
				return err
			}
			log.Printf("migrations applied to %s", cfg.SQLitePath)
			return nil
		},
	}
}

func serve(cfg *config.Config) error {
	zl, flush, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer flush()

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.GuestStore == config.StoreRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		zl.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))
	}

	backend, closeBackend, err := openGuestBackend(cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeBackend()
	store := localstore.New(backend, cfg.GuestNamespace)

	breaker := circuitbreaker.DefaultConfig()
	breaker.MaxFailures = cfg.BreakerMaxFailures
	breaker.OpenTimeout = cfg.BreakerOpenTimeout
	client := commerce.NewClient(cfg.CommerceAPIURL, cfg.CommerceAPITimeout, commerce.WithBreaker(breaker))

	var (
		cartCache     cache.Cache[domain.CartView]
		wishlistCache cache.Cache[domain.WishlistView]
		verdictCache  cache.Cache[commerce.AuthStatus]
	)
	if redisClient != nil {
		cartCache = cache.NewRedisCache[domain.CartView](redisClient, "cart", cfg.CartCacheTTL)
		wishlistCache = cache.NewRedisCache[domain.WishlistView](redisClient, "wishlist", cfg.WishlistCacheTTL)
		verdictCache = cache.NewRedisCache[commerce.AuthStatus](redisClient, "auth", cfg.AuthCacheTTL)
	} else {
		cartCache = cache.NewMemoryCache[domain.CartView](cfg.CartCacheTTL)
		wishlistCache = cache.NewMemoryCache[domain.WishlistView](cfg.WishlistCacheTTL)
		verdictCache = cache.NewMemoryCache[commerce.AuthStatus](cfg.AuthCacheTTL)
	}

	carts := remote.NewCartAccessor(client, cartCache)
	svc := storefront.NewService(storefront.Deps{
		Store:        store,
		Carts:        carts,
		Wishlists:    remote.NewWishlistAccessor(client, wishlistCache),
		Catalog:      client,
		Checkout:     client,
		HistoryLimit: cfg.SearchHistoryLimit,
	})

	cookies := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	}
	resolver := auth.NewResolver(client, verdictCache)

	router := h.NewRouter(h.RouterConfig{
		Service:            svc,
		Sessions:           h.NewSessions(cookies, cfg.SessionCookieName, resolver),
		Logger:             zl,
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	listenerCtx, stopListener := context.WithCancel(ctx)
	defer stopListener()
	if len(cfg.KafkaBrokers) > 0 {
		listener := events.NewKafkaListener(cfg.KafkaBrokers, cfg.CheckoutTopic, cfg.KafkaGroupID, carts)
		defer func() {
			stopListener()
			listener.Close()
		}()
		go listener.Run(listenerCtx)
		zl.Info("checkout events listener started", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info("storefront gateway starting",
			zap.String("port", cfg.HTTPPort),
			zap.String("guest_store", cfg.GuestStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	zl.Info("server exited")
	return nil
}

func openGuestBackend(cfg *config.Config, redisClient *redis.Client) (localstore.Backend, func(), error) {
	switch cfg.GuestStore {
	case config.StoreRedis:
		return localstore.NewRedisBackend(redisClient, cfg.GuestStateTTL), func() {}, nil
	case config.StoreSQLite:
		backend, err := localstore.NewSQLiteBackend(cfg.SQLitePath, cfg.GuestStateTTL)
		if err != nil {
			return nil, nil, err
		}
		if err := backend.RunMigrations(); err != nil {
			backend.Close()
			return nil, nil, err
		}
		backend.StartCleanup(cleanupInterval)
		return backend, func() { backend.Close() }, nil
	default:
		backend := localstore.NewMemoryBackend(cfg.GuestStateTTL)
		return backend, func() { backend.Close() }, nil
	}
}
