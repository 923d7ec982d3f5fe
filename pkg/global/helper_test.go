package global

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.MongoDatabase != "aquashop" {
		t.Errorf("MongoDatabase = %q", cfg.MongoDatabase)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.IsProduction() {
		t.Error("default env should not be production")
	}
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGODB_URI", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error without MONGODB_URI")
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL", "forever")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for invalid TOKEN_TTL")
	}
	t.Setenv("TOKEN_TTL", "-1h")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for negative TOKEN_TTL")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b,c ")
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("splitList = %v", got)
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage[int](nil, 2, 10, 21)
	if p.Items == nil {
		t.Fatal("items should be an empty slice, not nil")
	}
	if p.Pagination.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.Pagination.TotalPages)
	}
	if Skip(3, 10) != 20 || Skip(0, 10) != 0 {
		t.Errorf("Skip gave unexpected offsets")
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := error(NewNotFoundError("id", "Order not found"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected ErrNotFound kind")
	}
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Message != "Order not found" {
		t.Fatalf("unexpected AppError %+v", appErr)
	}
	if d := appErr.Details(); len(d) != 1 || d[0].Code != "not_found" {
		t.Fatalf("Details = %+v", d)
	}
	if NewForbiddenError("nope").Details() != nil {
		t.Fatal("forbidden errors carry no field details")
	}
}
