package mock

import (
	"context"

	"github.com/remarkablejames/richtext"
)

var _ richtext.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of richtext.ArticleService.
type ArticleService struct {
	CreateArticleFn     func(ctx context.Context, article *richtext.Article) error
	FindArticleByIDFn   func(ctx context.Context, id string) (*richtext.Article, error)
	FindArticleBySlugFn func(ctx context.Context, slug string) (*richtext.Article, error)
	FindArticlesFn      func(ctx context.Context, filter richtext.ArticleFilter) ([]*richtext.Article, error)
	UpdateArticleFn     func(ctx context.Context, id string, upd richtext.ArticleUpdate) (*richtext.Article, error)
	DeleteArticleFn     func(ctx context.Context, id string) error
}

func (s *ArticleService) CreateArticle(ctx context.Context, article *richtext.Article) error {
	return s.CreateArticleFn(ctx, article)
}

func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*richtext.Article, error) {
	return s.FindArticleByIDFn(ctx, id)
}

func (s *ArticleService) FindArticleBySlug(ctx context.Context, slug string) (*richtext.Article, error) {
	return s.FindArticleBySlugFn(ctx, slug)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter richtext.ArticleFilter) ([]*richtext.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) UpdateArticle(ctx context.Context, id string, upd richtext.ArticleUpdate) (*richtext.Article, error) {
	return s.UpdateArticleFn(ctx, id, upd)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	return s.DeleteArticleFn(ctx, id)
}
