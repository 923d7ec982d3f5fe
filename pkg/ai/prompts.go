package ai

import (
	"fmt"
	"strings"

	"aquashop.ca/storefront/api/pkg/models"
)

// ReviewSummarySystemPrompt frames the model as a shop assistant summarising
// what buyers say about one product.
const ReviewSummarySystemPrompt = `You are a product specialist at an aquarium supply store.
Summarise customer reviews for shoppers deciding whether to buy. Focus on:
- What buyers consistently like
- Recurring complaints or compatibility issues (tank size, water parameters, livestock)
- Who the product suits best
Write plain, friendly prose. Keep responses to 2 short paragraphs maximum.
Never invent details that are not in the reviews.`

// maxCommentRunes caps each review comment so one long review cannot crowd
// out the rest of the prompt.
const maxCommentRunes = 400

// formatReviewsPrompt renders the product and its reviews as the user message.
func formatReviewsPrompt(product *models.Product, reviews []models.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s (%s, %s)\n", product.Name, product.Brand, product.Category)
	fmt.Fprintf(&b, "Average rating: %.2f from %d reviews\n\n", product.Ratings.Average, product.Ratings.Count)
	b.WriteString("Reviews:\n")
	for i, r := range reviews {
		comment := strings.TrimSpace(r.Comment)
		if comment == "" {
			comment = "(no comment)"
		}
		fmt.Fprintf(&b, "%d. %d/5 - %s\n", i+1, r.Rating, truncate(comment, maxCommentRunes))
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
