package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

func writeJSON(w http.ResponseWriter, status int, body global.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestAuthenticatedCallsNeedToken(t *testing.T) {
	srv, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
	c := New(srv.URL)
	ctx := context.Background()

	if _, err := c.AddToCart(ctx, bson.NewObjectID().Hex(), 1); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("AddToCart err = %v", err)
	}
	if _, err := c.PlaceOrder(ctx, models.PlaceOrderRequest{}); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("PlaceOrder err = %v", err)
	}
	if err := c.DeleteReview(ctx, "x"); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("DeleteReview err = %v", err)
	}
	if err := c.Logout(ctx); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("Logout err = %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("%d requests sent, want none", calls.Load())
	}
}

func TestSearchBlankKeywordIsLocal(t *testing.T) {
	srv, calls := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	c := New(srv.URL)

	page, err := c.SearchProducts(context.Background(), "  ", 1, 12)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(page.Items) != 0 || page.Pagination.Total != 0 || calls.Load() != 0 {
		t.Errorf("page = %+v, calls = %d", page, calls.Load())
	}
}

func TestLoginStoresTokenAndSendsIt(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/login":
			writeJSON(w, http.StatusOK, global.SuccessResponse(models.AuthResponse{Token: "tok-1"}))
		case "/users/profile":
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("Authorization = %q", got)
			}
			writeJSON(w, http.StatusOK, global.SuccessResponse(models.User{Email: "ada@example.com"}))
		}
	})
	c := New(srv.URL)
	ctx := context.Background()

	if _, err := c.Login(ctx, "ada@example.com", "password1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !c.IsAuthenticated() {
		t.Fatal("client should hold the token")
	}
	user, err := c.Profile(ctx)
	if err != nil || user.Email != "ada@example.com" {
		t.Fatalf("Profile = %v, %v", user, err)
	}
}

func TestAPIErrorCarriesEnvelope(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "quantity", Message: "quantity failed on the 'min' rule", Code: "min"},
		}))
	})
	c := New(srv.URL, WithToken("tok"))

	_, err := c.AddToCart(context.Background(), bson.NewObjectID().Hex(), 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Invalid request data" || len(apiErr.Errors) != 1 {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestFailedCartMutationKeepsConfirmedCart(t *testing.T) {
	userID := bson.NewObjectID()
	var fail atomic.Bool
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeJSON(w, http.StatusConflict, global.ErrorResponse("Not enough stock", nil))
			return
		}
		cart := models.NewCart(userID)
		cart.Items = []models.CartItem{{ProductID: bson.NewObjectID(), Name: "Java Fern", Price: 7.5, Quantity: 2}}
		cart.Recalculate()
		writeJSON(w, http.StatusOK, global.SuccessResponse(cart))
	})
	c := New(srv.URL, WithToken("tok"))
	ctx := context.Background()

	if _, err := c.Cart(ctx); err != nil {
		t.Fatalf("Cart: %v", err)
	}
	confirmed := c.LastCart()

	fail.Store(true)
	if _, err := c.AddToCart(ctx, bson.NewObjectID().Hex(), 99); err == nil {
		t.Fatal("AddToCart should fail")
	}
	if c.LastCart() != confirmed || confirmed.TotalPrice != 15 {
		t.Errorf("held cart changed after failure: %+v", c.LastCart())
	}
}

func TestCancelOrderRefusesLocally(t *testing.T) {
	orderID := bson.NewObjectID()
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("cancel should not be sent, got %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, global.SuccessResponse(models.Order{ID: orderID, Status: models.StatusShipping}))
	})
	c := New(srv.URL, WithToken("tok"))

	_, err := c.CancelOrder(context.Background(), orderID.Hex())
	if !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("err = %v, want ErrNotCancellable", err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("local refusal reported as server error %v", apiErr)
	}
	if !strings.Contains(err.Error(), models.CancelRefusal(models.StatusShipping)) {
		t.Errorf("message = %q", err.Error())
	}
}

func TestOrdersSendFreshIdempotencyKeys(t *testing.T) {
	var mu sync.Mutex
	keys := map[string]bool{}
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys[r.Header.Get(idempotencyHeader)] = true
		mu.Unlock()
		writeJSON(w, http.StatusCreated, global.SuccessResponse(models.Order{ID: bson.NewObjectID()}))
	})
	c := New(srv.URL, WithToken("tok"))
	ctx := context.Background()

	if _, err := c.PlaceOrder(ctx, models.PlaceOrderRequest{PaymentMethod: models.PaymentCOD}); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if _, err := c.BuyNow(ctx, models.BuyNowRequest{Quantity: 1, PaymentMethod: models.PaymentCOD}); err != nil {
		t.Fatalf("BuyNow: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(keys) != 2 || keys[""] {
		t.Errorf("idempotency keys = %v", keys)
	}
}

func TestTransportFailureIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL)

	_, err := c.Categories(context.Background())
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if err.Error() != "unable to reach the server, please try again" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestLogoutForgetsToken(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, global.APIResponse{Success: true, Message: "Logged out"})
	})
	c := New(srv.URL, WithToken("tok"))

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if c.IsAuthenticated() || c.LastCart() != nil {
		t.Error("logout should drop the token and cart")
	}
}
