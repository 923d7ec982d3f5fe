package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/global"
)

// Review represents a customer review for a product
type Review struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID bson.ObjectID `json:"product_id" bson:"product_id"`
	UserID    bson.ObjectID `json:"user_id" bson:"user_id"`
	UserName  string        `json:"user_name" bson:"user_name"`
	Rating    int           `json:"rating" bson:"rating"`
	Comment   string        `json:"comment" bson:"comment"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// ReviewSummary is rating statistics with an optional generated summary.
type ReviewSummary struct {
	ProductID bson.ObjectID `json:"product_id"`
	Ratings   Ratings       `json:"ratings"`
	Summary   string        `json:"summary,omitempty"`
	AIEnabled bool          `json:"ai_enabled"`
	Error     string        `json:"error,omitempty"`
}

// IsOwnedBy compares the review author with userID.
func (r *Review) IsOwnedBy(userID bson.ObjectID) bool {
	return !userID.IsZero() && r.UserID == userID
}

// Apply merges a partial update into the review and stamps it with now.
func (r *Review) Apply(req UpdateReviewRequest, now time.Time) error {
	if req.Rating == nil && req.Comment == nil {
		return global.NewValidationError("body", "Request body must contain rating or comment")
	}
	if req.Rating != nil {
		if err := ValidateRating(*req.Rating); err != nil {
			return err
		}
		r.Rating = *req.Rating
	}
	if req.Comment != nil {
		r.Comment = *req.Comment
	}
	r.UpdatedAt = now
	return nil
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return global.NewValidationError("rating", "Rating must be between 1 and 5")
	}
	return nil
}
