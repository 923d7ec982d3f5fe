package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/auth"
	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

var fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func customerCtx(userID bson.ObjectID) context.Context {
	return auth.WithSession(context.Background(), &auth.Session{
		UserID:    userID,
		Email:     "diver@example.com",
		Role:      models.RoleCustomer,
		TokenID:   "tok-customer",
		ExpiresAt: fixedNow.Add(time.Hour),
	})
}

func adminCtx() context.Context {
	return auth.WithSession(context.Background(), &auth.Session{
		UserID:    bson.NewObjectID(),
		Email:     "admin@example.com",
		Role:      models.RoleAdmin,
		TokenID:   "tok-admin",
		ExpiresAt: fixedNow.Add(time.Hour),
	})
}

func testProduct(price float64, stock int) *models.Product {
	return &models.Product{
		ID:     bson.NewObjectID(),
		Name:   "Neon Tetra",
		Price:  price,
		Stock:  stock,
		Images: []string{"https://cdn.example.com/tetra.jpg"},
		Status: models.ProductStatusActive,
	}
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("error = %v, want kind %v", err, kind)
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, DefaultPageSize},
		{-3, 5, 1, 5},
		{2, MaxPageSize + 1, 2, DefaultPageSize},
		{4, MaxPageSize, 4, MaxPageSize},
	}
	for _, tt := range tests {
		page, limit := NormalizePage(tt.page, tt.limit)
		if page != tt.wantPage || limit != tt.wantLimit {
			t.Errorf("NormalizePage(%d, %d) = %d, %d; want %d, %d", tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
		}
	}
}

func TestParseObjectIDRejectsGarbage(t *testing.T) {
	_, err := parseObjectID("id", "not-an-id")
	assertKind(t, err, global.ErrValidation)

	var appErr *global.AppError
	if !errors.As(err, &appErr) || appErr.Code != "invalid_format" {
		t.Fatalf("want invalid_format app error, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	if _, err := requireAdmin(context.Background()); !errors.Is(err, global.ErrUnauthorized) {
		t.Errorf("anonymous: got %v", err)
	}
	if _, err := requireAdmin(customerCtx(bson.NewObjectID())); !errors.Is(err, global.ErrForbidden) {
		t.Errorf("customer: got %v", err)
	}
	if _, err := requireAdmin(adminCtx()); err != nil {
		t.Errorf("admin: got %v", err)
	}
}
