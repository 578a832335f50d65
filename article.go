package richtext

import (
	"context"
	"time"
)

// Article is a titled document stored for publishing.
type Article struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Content     *Document `json:"content"`
	ContentHash string    `json:"contentHash"`
	HasPaywall  bool      `json:"hasPaywall"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.Title == "" {
		return Errorf(EINVALID, "article title required")
	}
	if a.Slug == "" {
		return Errorf(EINVALID, "article slug required")
	}
	if a.Content == nil {
		return Errorf(EINVALID, "article content required")
	}
	return a.Content.Validate()
}

// Slugify derives a URL-safe slug from a title.
func Slugify(title string) string {
	return generateAnchor(title)
}

// ArticleService represents a service for managing articles.
type ArticleService interface {
	// CreateArticle creates a new article. An empty slug is derived from
	// the title. Returns ECONFLICT if the slug is taken.
	CreateArticle(ctx context.Context, article *Article) error

	// FindArticleByID retrieves an article by ID.
	// Returns ENOTFOUND if article does not exist.
	FindArticleByID(ctx context.Context, id string) (*Article, error)

	// FindArticleBySlug retrieves an article by slug.
	// Returns ENOTFOUND if article does not exist.
	FindArticleBySlug(ctx context.Context, slug string) (*Article, error)

	// FindArticles retrieves articles matching the filter.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// UpdateArticle updates an existing article.
	// Returns ENOTFOUND if article does not exist.
	UpdateArticle(ctx context.Context, id string, upd ArticleUpdate) (*Article, error)

	// DeleteArticle permanently removes an article.
	// Returns ENOTFOUND if article does not exist.
	DeleteArticle(ctx context.Context, id string) error
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	ID         *string `json:"id"`
	Slug       *string `json:"slug"`
	HasPaywall *bool   `json:"hasPaywall"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ArticleUpdate represents fields that can be updated on an article.
type ArticleUpdate struct {
	Title   *string   `json:"title"`
	Slug    *string   `json:"slug"`
	Content *Document `json:"content"`
}
