// Package client is a Go client for the storefront API. It holds the session
// token and the last cart the server confirmed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

// ErrAuthRequired is returned, without contacting the server, by operations
// that need a logged-in user when the client holds no token.
var ErrAuthRequired = errors.New("please log in to continue")

// ErrNotCancellable is returned, without sending the cancel, when the order
// has already left the pending state.
var ErrNotCancellable = errors.New("order can no longer be cancelled")

// APIError is a failure reported by the server in its response envelope.
type APIError struct {
	Status  int
	Message string
	Errors  []global.ValidationError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// TransportError means the request never produced a server answer.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "unable to reach the server, please try again"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
	cart  *models.Cart
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API mounted at baseURL, e.g.
// "https://shop.example.com/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	if token == "" {
		c.cart = nil
	}
}

// IsAuthenticated reports whether a token is held.
func (c *Client) IsAuthenticated() bool {
	return c.Token() != ""
}

// LastCart is the cart from the most recent successful cart call, or nil.
func (c *Client) LastCart() *models.Cart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart
}

func (c *Client) setCart(cart *models.Cart) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart = cart
}

type envelope struct {
	Success bool                     `json:"success"`
	Data    json.RawMessage          `json:"data"`
	Message string                   `json:"message"`
	Errors  []global.ValidationError `json:"errors"`
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	out     any
	auth    bool
	headers map[string]string
}

// do sends one request and decodes the envelope's data into r.out. Requests
// marked auth fail with ErrAuthRequired when no token is held.
func (c *Client) do(ctx context.Context, r request) error {
	token := c.Token()
	if r.auth && token == "" {
		return ErrAuthRequired
	}

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: message, Errors: env.Errors}
	}

	if r.out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, r.out)
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	return q
}
