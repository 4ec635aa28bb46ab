package models

import "time"

// Article represents a news article. It is stored in Firestore ("news")
// or MongoDB ("articles") depending on the store driver.
type Article struct {
	ID          string    `json:"id" firestore:"-" bson:"_id,omitempty"`
	Title       string    `json:"title" firestore:"title" bson:"title"`
	Content     string    `json:"content" firestore:"content" bson:"content"` // HTML from the rich-text editor
	Excerpt     string    `json:"excerpt" firestore:"excerpt" bson:"excerpt"`
	Category    string    `json:"category" firestore:"category" bson:"category"`
	Author      string    `json:"author" firestore:"author" bson:"author"`
	ImageURL    string    `json:"imageUrl,omitempty" firestore:"imageUrl" bson:"image_url,omitempty"`
	Slug        string    `json:"slug,omitempty" firestore:"slug" bson:"slug,omitempty"` // immutable once assigned
	PublishedAt string    `json:"publishedAt,omitempty" firestore:"publishedAt" bson:"published_at,omitempty"`
	UpdatedAt   string    `json:"updatedAt,omitempty" firestore:"updatedAt" bson:"updated_at,omitempty"`
	Year        string    `json:"year,omitempty" firestore:"year" bson:"year,omitempty"`
	Month       string    `json:"month,omitempty" firestore:"month" bson:"month,omitempty"`
	Day         string    `json:"day,omitempty" firestore:"day" bson:"day,omitempty"`
	Timestamp   time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp" bson:"timestamp"`
}

// HasCanonicalURL reports whether the article can be addressed by date and slug.
// Articles created before slugs existed only have their store id.
func (a *Article) HasCanonicalURL() bool {
	return a.Slug != "" && a.PublishedAt != ""
}

// ArticleSummary is an article as listed in the public feed.
type ArticleSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	ImageURL    string `json:"imageUrl,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
	URL         string `json:"url"`
}

// CreateArticleRequest defines the request body for publishing an article
type CreateArticleRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=300"`
	Content     string `json:"content" validate:"required,notblank"`
	Excerpt     string `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=100"`
	Author      string `json:"author,omitempty" validate:"omitempty,max=100"`
	ImageURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	PublishedAt string `json:"publishedAt,omitempty" validate:"omitempty,isodate"`
}

// UpdateArticleRequest defines the request body for editing an article.
// Slug and publication date cannot be changed.
type UpdateArticleRequest struct {
	Title    string `json:"title,omitempty" validate:"omitempty,notblank,max=300"`
	Content  string `json:"content,omitempty" validate:"omitempty,notblank"`
	Excerpt  string `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Category string `json:"category,omitempty" validate:"omitempty,max=100"`
	Author   string `json:"author,omitempty" validate:"omitempty,max=100"`
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}
