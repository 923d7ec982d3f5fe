package ai

import (
	"context"
	"log"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"aquashop.ca/storefront/api/pkg/global"
	"aquashop.ca/storefront/api/pkg/models"
)

const (
	maxTokens   = 600
	temperature = 0.4
)

// Summarizer writes short review digests through Azure OpenAI. A Summarizer
// built without credentials is disabled and never calls out.
type Summarizer struct {
	client     *openai.Client
	deployment string
}

// NewSummarizer builds a Summarizer from the AZURE_OPENAI_* settings.
func NewSummarizer(cfg *global.Config) *Summarizer {
	if cfg.AIEndpoint == "" || cfg.AIAPIKey == "" {
		log.Println("AI service disabled - Azure OpenAI credentials not provided")
		log.Println("Required: AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY environment variables")
		return &Summarizer{}
	}

	client := openai.NewClient(
		option.WithBaseURL(cfg.AIEndpoint),
		option.WithAPIKey(cfg.AIAPIKey),
	)
	log.Println("AI service initialized with Azure OpenAI")
	return &Summarizer{client: &client, deployment: cfg.AIDeployment}
}

// Enabled returns whether the summarizer has a client to call.
func (s *Summarizer) Enabled() bool {
	return s != nil && s.client != nil
}

// Summarize asks the model for a digest of the given reviews.
func (s *Summarizer) Summarize(ctx context.Context, product *models.Product, reviews []models.Review) (string, error) {
	if !s.Enabled() {
		return "", &AIError{Message: "AI service is not enabled"}
	}
	if len(reviews) == 0 {
		return "", &AIError{Message: "no reviews to summarize"}
	}
	return s.generateCompletion(ctx, ReviewSummarySystemPrompt, formatReviewsPrompt(product, reviews))
}

func (s *Summarizer) generateCompletion(ctx context.Context, systemMessage, userMessage string) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemMessage),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userMessage),
					},
				},
			},
		},
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		log.Printf("AI API Error: %v", err)
		return "", &AIError{Message: "Failed to generate AI response", Cause: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{Message: "AI returned empty response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// AIError represents an AI service error
type AIError struct {
	Message string
	Cause   error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AIError) Unwrap() error {
	return e.Cause
}
