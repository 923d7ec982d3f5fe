package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/auth"
	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

// summaryReviewLimit is how many recent reviews are handed to the summarizer.
const summaryReviewLimit = 20

type ReviewService struct {
	reviews    ReviewStore
	products   ProductStore
	cache      ProductCache
	users      UserStore
	summarizer ReviewSummarizer
	now        func() time.Time
}

func NewReviewService(reviews ReviewStore, products ProductStore, cache ProductCache, users UserStore, summarizer ReviewSummarizer) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		products:   products,
		cache:      cache,
		users:      users,
		summarizer: summarizer,
		now:        time.Now,
	}
}

func (s *ReviewService) ListByProduct(ctx context.Context, productIDHex string, page, limit int) (global.Page[models.Review], error) {
	productID, err := parseObjectID("id", productIDHex)
	if err != nil {
		return global.Page[models.Review]{}, err
	}
	page, limit = NormalizePage(page, limit)
	reviews, total, err := s.reviews.ListByProduct(ctx, productID, page, limit)
	if err != nil {
		return global.Page[models.Review]{}, err
	}
	return global.NewPage(reviews, page, limit, total), nil
}

func (s *ReviewService) Create(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateRating(req.Rating); err != nil {
		return nil, err
	}
	productID, err := parseObjectID("product_id", req.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, notFound(err, "product_id", "Product not found")
	}

	userName := session.Email
	if user, err := s.users.GetByID(ctx, session.UserID); err == nil && user.Name != "" {
		userName = user.Name
	}

	now := s.now()
	review := &models.Review{
		ID:        bson.NewObjectID(),
		ProductID: productID,
		UserID:    session.UserID,
		UserName:  userName,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, global.ErrConflict) {
			return nil, global.NewConflictError("product_id", "You have already reviewed this product")
		}
		return nil, err
	}

	s.refreshRatings(ctx, productID)
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, idHex string, req models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.ownedReview(ctx, idHex)
	if err != nil {
		return nil, err
	}
	if err := review.Apply(req, s.now()); err != nil {
		return nil, err
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, notFound(err, "id", "Review not found")
	}

	s.refreshRatings(ctx, review.ProductID)
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, idHex string) error {
	review, err := s.ownedReview(ctx, idHex)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return notFound(err, "id", "Review not found")
	}

	s.refreshRatings(ctx, review.ProductID)
	return nil
}

// Summary returns rating statistics plus a generated summary when the
// summarizer is configured.
func (s *ReviewService) Summary(ctx context.Context, productIDHex string) (*models.ReviewSummary, error) {
	productID, err := parseObjectID("id", productIDHex)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "id", "Product not found")
	}
	ratings, err := s.reviews.Stats(ctx, productID)
	if err != nil {
		return nil, err
	}

	summary := &models.ReviewSummary{
		ProductID: productID,
		Ratings:   ratings,
		AIEnabled: s.summarizer != nil && s.summarizer.Enabled(),
	}
	if !summary.AIEnabled || ratings.Count == 0 {
		return summary, nil
	}

	reviews, _, err := s.reviews.ListByProduct(ctx, productID, 1, summaryReviewLimit)
	if err != nil {
		return nil, err
	}
	text, err := s.summarizer.Summarize(ctx, product, reviews)
	if err != nil {
		summary.Error = "AI analysis failed: " + err.Error()
		return summary, nil
	}
	summary.Summary = text
	return summary, nil
}

// ownedReview loads a review and checks that the caller wrote it.
func (s *ReviewService) ownedReview(ctx context.Context, idHex string) (*models.Review, error) {
	session, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseObjectID("id", idHex)
	if err != nil {
		return nil, err
	}
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "id", "Review not found")
	}
	if !review.IsOwnedBy(session.UserID) {
		return nil, global.NewForbiddenError("You can only modify your own reviews")
	}
	return review, nil
}

// refreshRatings recomputes the product's rating stats. Failures are logged;
// the review change itself has already been stored.
func (s *ReviewService) refreshRatings(ctx context.Context, productID bson.ObjectID) {
	ratings, err := s.reviews.Stats(ctx, productID)
	if err != nil {
		warn("failed to compute ratings for product %s: %v", productID.Hex(), err)
		return
	}
	if err := s.products.UpdateRatings(ctx, productID, ratings); err != nil {
		warn("failed to update ratings for product %s: %v", productID.Hex(), err)
		return
	}
	if err := s.cache.InvalidateProduct(ctx, productID.Hex()); err != nil {
		warn("failed to invalidate cached product %s: %v", productID.Hex(), err)
	}
}
