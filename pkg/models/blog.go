package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Blog is an article in the care-guide section of the shop
type Blog struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Slug        string        `json:"slug" bson:"slug"`
	Title       string        `json:"title" bson:"title"`
	Excerpt     string        `json:"excerpt" bson:"excerpt"`
	Content     string        `json:"content" bson:"content"`
	CoverImage  string        `json:"cover_image" bson:"cover_image"`
	Tags        []string      `json:"tags" bson:"tags"`
	Author      string        `json:"author" bson:"author"`
	Published   bool          `json:"published" bson:"published"`
	PublishedAt time.Time     `json:"published_at" bson:"published_at"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

type CreateBlogRequest struct {
	Slug       string   `json:"slug" validate:"omitempty,max=120"`
	Title      string   `json:"title" validate:"required,min=3,max=200"`
	Excerpt    string   `json:"excerpt" validate:"max=500"`
	Content    string   `json:"content" validate:"required"`
	CoverImage string   `json:"cover_image" validate:"omitempty,url"`
	Tags       []string `json:"tags" validate:"dive,min=2,max=50"`
	Author     string   `json:"author" validate:"max=100"`
	Published  bool     `json:"published"`
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL slug: "Neon Tetra Care!" -> "neon-tetra-care".
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(slug, "-")
}

func (req *CreateBlogRequest) ToBlog(now time.Time) *Blog {
	slug := req.Slug
	if slug == "" {
		slug = req.Title
	}
	blog := &Blog{
		ID:         bson.NewObjectID(),
		Slug:       Slugify(slug),
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Author:     req.Author,
		Published:  req.Published,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}
	if blog.Published {
		blog.PublishedAt = now
	}
	return blog
}
