package router

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aquashop.ca/storefront/api/pkg/auth"
	"aquashop.ca/storefront/api/pkg/global"
)

// IdempotencyHeader names the client-chosen key that marks a repeated submission.
const IdempotencyHeader = "Idempotency-Key"

// Authenticator turns a bearer token into a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

// IdempotencyGuard claims a key once per scope until it is released or expires.
type IdempotencyGuard interface {
	Acquire(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
}

// Authenticate attaches the caller's session to the request context when an
// Authorization header is present. Requests without one continue anonymously;
// a bad token is rejected outright.
func Authenticate(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, global.ErrorResponse("Authorization header must be a Bearer token", []global.ValidationError{
				{Field: "Authorization", Message: "expected 'Bearer <token>'", Code: "invalid_format"},
			}))
			return
		}

		session, err := authenticator.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			respondError(c, err, "Failed to verify token")
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// RequireAuth rejects anonymous requests before the body is read.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.RequireSession(c.Request.Context()); err != nil {
			respondError(c, err, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := auth.RequireSession(c.Request.Context())
		if err != nil {
			respondError(c, err, "")
			c.Abort()
			return
		}
		if !session.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, global.ErrorResponse("Admin access required", nil))
			return
		}
		c.Next()
	}
}

// Idempotent claims the request's Idempotency-Key for the calling user. A key
// that is already held is refused with 409. The claim is dropped again when
// the request fails so the user can retry the action.
func Idempotent(guard IdempotencyGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
		if key == "" || guard == nil {
			c.Next()
			return
		}
		session, err := auth.RequireSession(c.Request.Context())
		if err != nil {
			respondError(c, err, "")
			c.Abort()
			return
		}

		scope := session.UserID.Hex()
		ctx := c.Request.Context()
		acquired, err := guard.Acquire(ctx, scope, key)
		if err != nil {
			log.Printf("Warning: idempotency check unavailable, continuing without it: %v", err)
			c.Next()
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, global.ErrorResponse("This request is already being processed", []global.ValidationError{
				{Field: IdempotencyHeader, Message: "A request with this key was already submitted", Code: "duplicate_request"},
			}))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := guard.Release(context.WithoutCancel(ctx), scope, key); err != nil {
				log.Printf("Warning: failed to release idempotency key: %v", err)
			}
		}
	}
}
