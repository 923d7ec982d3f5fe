package client

import (
	"context"
	"net/http"
	"net/url"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

// Register creates an account and keeps the returned token.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/users/register", req)
}

// Login keeps the returned token on success; a failed login leaves the
// current token untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/users/login", models.LoginRequest{Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body, out: &resp}); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Logout revokes the token server-side and then forgets it.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/logout", auth: true}); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/profile", out: &user, auth: true}); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/users/profile", body: req, out: &user, auth: true}); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/users/change-password",
		body:   models.ChangePasswordRequest{CurrentPassword: current, NewPassword: next},
		auth:   true,
	})
}

func (c *Client) ProductReviews(ctx context.Context, productID string, page, limit int) (*global.Page[models.Review], error) {
	var reviews global.Page[models.Review]
	path := "/reviews/products/" + url.PathEscape(productID) + "/reviews"
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: pageQuery(page, limit), out: &reviews}); err != nil {
		return nil, err
	}
	return &reviews, nil
}

func (c *Client) ReviewSummary(ctx context.Context, productID string) (*models.ReviewSummary, error) {
	var summary models.ReviewSummary
	path := "/reviews/products/" + url.PathEscape(productID) + "/summary"
	if err := c.do(ctx, request{method: http.MethodGet, path: path, out: &summary}); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) CreateReview(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error) {
	var review models.Review
	if err := c.do(ctx, request{method: http.MethodPost, path: "/reviews", body: req, out: &review, auth: true}); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) UpdateReview(ctx context.Context, id string, req models.UpdateReviewRequest) (*models.Review, error) {
	var review models.Review
	if err := c.do(ctx, request{method: http.MethodPut, path: "/reviews/" + url.PathEscape(id), body: req, out: &review, auth: true}); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/reviews/" + url.PathEscape(id), auth: true})
}

func (c *Client) Blogs(ctx context.Context, tag string, page, limit int) (*global.Page[models.Blog], error) {
	q := pageQuery(page, limit)
	if tag != "" {
		q.Set("tag", tag)
	}
	var blogs global.Page[models.Blog]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/blogs", query: q, out: &blogs}); err != nil {
		return nil, err
	}
	return &blogs, nil
}

func (c *Client) Blog(ctx context.Context, slug string) (*models.Blog, error) {
	var blog models.Blog
	if err := c.do(ctx, request{method: http.MethodGet, path: "/blogs/" + url.PathEscape(slug), out: &blog}); err != nil {
		return nil, err
	}
	return &blog, nil
}
