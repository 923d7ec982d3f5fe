package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/mock/gomock"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
	"aquashop.ca/storefront/api/pkg/service/mocks"
)

type reviewMocks struct {
	reviews    *mocks.MockReviewStore
	products   *mocks.MockProductStore
	cache      *mocks.MockProductCache
	users      *mocks.MockUserStore
	summarizer *mocks.MockReviewSummarizer
	service    *ReviewService
}

func newReviewMocks(t *testing.T) *reviewMocks {
	ctrl := gomock.NewController(t)
	m := &reviewMocks{
		reviews:    mocks.NewMockReviewStore(ctrl),
		products:   mocks.NewMockProductStore(ctrl),
		cache:      mocks.NewMockProductCache(ctrl),
		users:      mocks.NewMockUserStore(ctrl),
		summarizer: mocks.NewMockReviewSummarizer(ctrl),
	}
	m.service = NewReviewService(m.reviews, m.products, m.cache, m.users, m.summarizer)
	m.service.now = func() time.Time { return fixedNow }
	return m
}

func (m *reviewMocks) expectRatingsRefresh(productID bson.ObjectID, ratings models.Ratings) {
	m.reviews.EXPECT().Stats(gomock.Any(), productID).Return(ratings, nil)
	m.products.EXPECT().UpdateRatings(gomock.Any(), productID, ratings).Return(nil)
	m.cache.EXPECT().InvalidateProduct(gomock.Any(), productID.Hex()).Return(nil)
}

func TestCreateReviewRefreshesRatings(t *testing.T) {
	m := newReviewMocks(t)
	userID := bson.NewObjectID()
	product := testProduct(20, 3)

	m.products.EXPECT().GetByID(gomock.Any(), product.ID).Return(product, nil)
	m.users.EXPECT().GetByID(gomock.Any(), userID).Return(&models.User{ID: userID, Name: "Ada"}, nil)
	m.reviews.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	m.expectRatingsRefresh(product.ID, models.Ratings{Average: 5, Count: 1})

	review, err := m.service.Create(customerCtx(userID), models.CreateReviewRequest{ProductID: product.ID.Hex(), Rating: 5, Comment: "Healthy fish"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if review.UserName != "Ada" || review.UserID != userID || !review.CreatedAt.Equal(fixedNow) {
		t.Errorf("review = %+v", review)
	}
}

func TestCreateReviewDuplicate(t *testing.T) {
	m := newReviewMocks(t)
	userID := bson.NewObjectID()
	product := testProduct(20, 3)

	m.products.EXPECT().GetByID(gomock.Any(), product.ID).Return(product, nil)
	m.users.EXPECT().GetByID(gomock.Any(), userID).Return(nil, global.ErrNotFound)
	m.reviews.EXPECT().Create(gomock.Any(), gomock.Any()).Return(global.ErrConflict)

	_, err := m.service.Create(customerCtx(userID), models.CreateReviewRequest{ProductID: product.ID.Hex(), Rating: 4})
	assertKind(t, err, global.ErrConflict)
}

func TestCreateReviewRequiresSession(t *testing.T) {
	m := newReviewMocks(t)
	_, err := m.service.Create(context.Background(), models.CreateReviewRequest{ProductID: bson.NewObjectID().Hex(), Rating: 4})
	assertKind(t, err, global.ErrUnauthorized)
}

func TestUpdateReviewOfAnotherUserIsForbidden(t *testing.T) {
	m := newReviewMocks(t)
	review := &models.Review{ID: bson.NewObjectID(), UserID: bson.NewObjectID(), Rating: 3}
	m.reviews.EXPECT().GetByID(gomock.Any(), review.ID).Return(review, nil)

	rating := 1
	_, err := m.service.Update(customerCtx(bson.NewObjectID()), review.ID.Hex(), models.UpdateReviewRequest{Rating: &rating})
	assertKind(t, err, global.ErrForbidden)
}

func TestUpdateOwnReview(t *testing.T) {
	m := newReviewMocks(t)
	userID := bson.NewObjectID()
	review := &models.Review{ID: bson.NewObjectID(), ProductID: bson.NewObjectID(), UserID: userID, Rating: 3}
	m.reviews.EXPECT().GetByID(gomock.Any(), review.ID).Return(review, nil)
	m.reviews.EXPECT().Update(gomock.Any(), review).Return(nil)
	m.expectRatingsRefresh(review.ProductID, models.Ratings{Average: 2, Count: 1})

	rating := 2
	got, err := m.service.Update(customerCtx(userID), review.ID.Hex(), models.UpdateReviewRequest{Rating: &rating})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Rating != 2 {
		t.Errorf("rating = %d", got.Rating)
	}
	if !got.UpdatedAt.Equal(fixedNow) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, fixedNow)
	}
}

func TestDeleteOwnReview(t *testing.T) {
	m := newReviewMocks(t)
	userID := bson.NewObjectID()
	review := &models.Review{ID: bson.NewObjectID(), ProductID: bson.NewObjectID(), UserID: userID, Rating: 3}
	m.reviews.EXPECT().GetByID(gomock.Any(), review.ID).Return(review, nil)
	m.reviews.EXPECT().Delete(gomock.Any(), review.ID).Return(nil)
	m.expectRatingsRefresh(review.ProductID, models.Ratings{})

	if err := m.service.Delete(customerCtx(userID), review.ID.Hex()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestSummaryWithoutSummarizer(t *testing.T) {
	m := newReviewMocks(t)
	product := testProduct(20, 3)
	m.products.EXPECT().GetByID(gomock.Any(), product.ID).Return(product, nil)
	m.reviews.EXPECT().Stats(gomock.Any(), product.ID).Return(models.Ratings{Average: 4.5, Count: 2}, nil)
	m.summarizer.EXPECT().Enabled().Return(false)

	summary, err := m.service.Summary(context.Background(), product.ID.Hex())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.AIEnabled || summary.Summary != "" || summary.Ratings.Count != 2 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestSummaryReportsSummarizerFailure(t *testing.T) {
	m := newReviewMocks(t)
	product := testProduct(20, 3)
	reviews := []models.Review{{Rating: 5, Comment: "great"}}
	m.products.EXPECT().GetByID(gomock.Any(), product.ID).Return(product, nil)
	m.reviews.EXPECT().Stats(gomock.Any(), product.ID).Return(models.Ratings{Average: 5, Count: 1}, nil)
	m.reviews.EXPECT().ListByProduct(gomock.Any(), product.ID, 1, summaryReviewLimit).Return(reviews, int64(1), nil)
	m.summarizer.EXPECT().Enabled().Return(true)
	m.summarizer.EXPECT().Summarize(gomock.Any(), product, reviews).Return("", errors.New("rate limited"))

	summary, err := m.service.Summary(context.Background(), product.ID.Hex())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !summary.AIEnabled || summary.Error == "" {
		t.Errorf("summary = %+v", summary)
	}
}
