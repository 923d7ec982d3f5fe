// Package auth issues and verifies bearer tokens and carries the
// authenticated session through request contexts.
package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

// Session is the authenticated caller of one request.
type Session struct {
	UserID    bson.ObjectID
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in ctx, if any.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// RequireSession is SessionFrom that reports a missing session as ErrUnauthorized.
func RequireSession(ctx context.Context) (*Session, error) {
	s, ok := SessionFrom(ctx)
	if !ok {
		return nil, global.NewUnauthorizedError("Please log in to continue")
	}
	return s, nil
}
