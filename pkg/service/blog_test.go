package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/mock/gomock"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
	"aquashop.ca/storefront/api/pkg/service/mocks"
)

func TestCreateBlogDerivesSlug(t *testing.T) {
	ctrl := gomock.NewController(t)
	blogs := mocks.NewMockBlogStore(ctrl)
	blogs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	blog, err := NewBlogService(blogs).Create(adminCtx(), models.CreateBlogRequest{Title: "Cycling a New Tank", Content: "..."})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if blog.Slug != "cycling-a-new-tank" {
		t.Errorf("slug = %q", blog.Slug)
	}
}

func TestCreateBlogDuplicateSlug(t *testing.T) {
	ctrl := gomock.NewController(t)
	blogs := mocks.NewMockBlogStore(ctrl)
	blogs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(global.ErrConflict)

	_, err := NewBlogService(blogs).Create(adminCtx(), models.CreateBlogRequest{Title: "Cycling a New Tank", Content: "..."})
	assertKind(t, err, global.ErrConflict)
}

func TestCreateBlogAdminOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := NewBlogService(mocks.NewMockBlogStore(ctrl)).Create(customerCtx(bson.NewObjectID()), models.CreateBlogRequest{Title: "x"})
	assertKind(t, err, global.ErrForbidden)
}

func TestGetBlogNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	blogs := mocks.NewMockBlogStore(ctrl)
	blogs.EXPECT().GetBySlug(gomock.Any(), "missing").Return(nil, global.ErrNotFound)

	_, err := NewBlogService(blogs).Get(context.Background(), " missing ")
	assertKind(t, err, global.ErrNotFound)
}
