package http

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/electro-atlas/storefront/internal/auth"
	"github.com/electro-atlas/storefront/pkg/logger"
)

const (
	guestIDValue = "guest_id"
	tokenValue   = "access_token"
)

// SessionResolver turns an access token into an authentication verdict.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) auth.Session
	Forget(ctx context.Context, token string)
}

type visitorKey struct{}

// visitor is who a request acts for: always a guest id, plus the
// authentication verdict for the request's token.
type visitor struct {
	GuestID string
	Session auth.Session
}

func visitorFrom(ctx context.Context) visitor {
	if v, ok := ctx.Value(visitorKey{}).(visitor); ok {
		return v
	}
	return visitor{Session: auth.Anonymous()}
}

// Sessions keeps the guest id and access token in a signed cookie.
type Sessions struct {
	store    sessions.Store
	name     string
	resolver SessionResolver
}

func NewSessions(store sessions.Store, name string, resolver SessionResolver) *Sessions {
	return &Sessions{
		store:    store,
		name:     name,
		resolver: resolver,
	}
}

// Middleware assigns a guest id on first visit and resolves the session.
// An Authorization bearer token takes precedence over the cookie token.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := s.store.Get(r, s.name)
		if err != nil {
			// a tampered or stale cookie still yields a fresh session
			log.Printf("session cookie rejected: %v", err)
		}

		guestID, _ := cookie.Values[guestIDValue].(string)
		if guestID == "" {
			guestID = uuid.NewString()
			cookie.Values[guestIDValue] = guestID
			if err := cookie.Save(r, w); err != nil {
				log.Printf("session save error: %v", err)
			}
		}

		token := bearerToken(r)
		if token == "" {
			token, _ = cookie.Values[tokenValue].(string)
		}

		ctx := context.WithValue(r.Context(), visitorKey{}, visitor{
			GuestID: guestID,
			Session: s.resolver.Resolve(r.Context(), token),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Sessions) saveToken(w http.ResponseWriter, r *http.Request, token string) error {
	cookie, _ := s.store.Get(r, s.name)
	if token == "" {
		delete(cookie.Values, tokenValue)
	} else {
		cookie.Values[tokenValue] = token
	}
	return cookie.Save(r, w)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// RequestIDMiddleware echoes the chi request id back to the caller.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestID := middleware.GetReqID(r.Context()); requestID != "" {
			w.Header().Set(middleware.RequestIDHeader, requestID)
		}
		next.ServeHTTP(w, r)
	})
}

// LimitBody caps request bodies at n bytes.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequestLogger(l *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.WithContext(r.Context(), l).Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
