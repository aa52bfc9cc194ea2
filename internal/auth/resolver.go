// Package auth decides whether a request belongs to a signed-in user.
//
// A session with no token is unauthenticated straight away. A token is
// validated against the commerce API; errors count as unauthenticated, so a
// flaky auth endpoint degrades the visitor to guest mode instead of failing
// the page.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/electro-atlas/storefront/internal/cache"
	"github.com/electro-atlas/storefront/internal/commerce"
	"github.com/golang-jwt/jwt/v5"
)

// Validator checks a token with the commerce API.
type Validator interface {
	AuthStatus(ctx context.Context, token string) (*commerce.AuthStatus, error)
}

type Resolver struct {
	validator Validator
	verdicts  cache.Cache[commerce.AuthStatus]
	parser    *jwt.Parser
	now       func() time.Time
}

func NewResolver(validator Validator, verdicts cache.Cache[commerce.AuthStatus]) *Resolver {
	return &Resolver{
		validator: validator,
		verdicts:  verdicts,
		parser:    jwt.NewParser(),
		now:       time.Now,
	}
}

func (r *Resolver) Resolve(ctx context.Context, token string) Session {
	token = strings.TrimSpace(token)
	if token == "" {
		return Anonymous()
	}

	if r.expired(token) {
		return Anonymous()
	}

	id := verdictKey(token)
	if status, err := r.verdicts.Get(ctx, id); err == nil {
		return sessionFor(token, status)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("auth verdict cache get error: %v", err)
	}

	status, err := r.validator.AuthStatus(ctx, token)
	if err != nil {
		if ctx.Err() != nil {
			return Session{State: StateUnknown, Token: token}
		}
		log.Printf("auth status check failed, treating as guest: %v", err)
		return Anonymous()
	}

	if errSet := r.verdicts.Set(ctx, id, status); errSet != nil {
		log.Printf("auth verdict cache set error: %v", errSet)
	}
	return sessionFor(token, status)
}

// Forget drops the cached verdict for token, e.g. on sign-out.
func (r *Resolver) Forget(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := r.verdicts.Delete(ctx, verdictKey(token)); err != nil {
		log.Printf("auth verdict cache delete error: %v", err)
	}
}

// expired reports a JWT whose exp claim has passed. The signature is not
// checked here; the commerce API stays the authority. Opaque tokens are
// never considered expired.
func (r *Resolver) expired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := r.parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !r.now().Before(claims.ExpiresAt.Time)
}

func sessionFor(token string, status *commerce.AuthStatus) Session {
	if !status.Authenticated || status.User == nil || status.User.ID == "" {
		return Anonymous()
	}
	user := *status.User
	return Session{
		State: StateAuthenticated,
		User:  &user,
		Token: token,
	}
}

func verdictKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
