package service

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/auth"
	"aquashop.ca/storefront/api/pkg/global"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// parseObjectID turns a hex id from a path or body into an ObjectID.
func parseObjectID(field, hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, &global.AppError{
			Kind:    global.ErrValidation,
			Message: "Invalid " + field + " format",
			Field:   field,
			Code:    "invalid_format",
		}
	}
	return id, nil
}

// NormalizePage clamps page to >= 1 and limit to 1..MaxPageSize.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return page, limit
}

func requireAdmin(ctx context.Context) (*auth.Session, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !session.IsAdmin() {
		return nil, global.NewForbiddenError("Access denied: admin only")
	}
	return session, nil
}

// notFound maps a store-level ErrNotFound to a user-facing message and
// passes other errors through.
func notFound(err error, field, message string) error {
	if errors.Is(err, global.ErrNotFound) {
		return global.NewNotFoundError(field, message)
	}
	return err
}

func warn(format string, args ...interface{}) {
	log.Printf("Warning: "+format, args...)
}
