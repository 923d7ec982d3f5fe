package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

type BlogService struct {
	blogs BlogStore
	now   func() time.Time
}

func NewBlogService(blogs BlogStore) *BlogService {
	return &BlogService{blogs: blogs, now: time.Now}
}

func (s *BlogService) List(ctx context.Context, tag string, page, limit int) (global.Page[models.Blog], error) {
	page, limit = NormalizePage(page, limit)
	blogs, total, err := s.blogs.List(ctx, strings.TrimSpace(tag), page, limit)
	if err != nil {
		return global.Page[models.Blog]{}, err
	}
	return global.NewPage(blogs, page, limit, total), nil
}

func (s *BlogService) Get(ctx context.Context, slug string) (*models.Blog, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, global.NewValidationError("slug", "Slug is required")
	}
	blog, err := s.blogs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "slug", "Blog post not found")
	}
	return blog, nil
}

func (s *BlogService) Create(ctx context.Context, req models.CreateBlogRequest) (*models.Blog, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	blog := req.ToBlog(s.now())
	if blog.Slug == "" {
		return nil, global.NewValidationError("slug", "Title must contain letters or digits")
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		if errors.Is(err, global.ErrConflict) {
			return nil, global.NewConflictError("slug", "A post with this slug already exists")
		}
		return nil, err
	}
	return blog, nil
}
