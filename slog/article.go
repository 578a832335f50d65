package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/remarkablejames/richtext"
)

// Ensure LoggingArticleService implements richtext.ArticleService.
var _ richtext.ArticleService = (*LoggingArticleService)(nil)

// LoggingArticleService wraps an ArticleService, logging every write.
// Reads are delegated silently.
type LoggingArticleService struct {
	next   richtext.ArticleService
	logger *slog.Logger
}

// NewLoggingArticleService creates a new LoggingArticleService.
func NewLoggingArticleService(next richtext.ArticleService, logger *slog.Logger) *LoggingArticleService {
	return &LoggingArticleService{next: next, logger: logger}
}

func (s *LoggingArticleService) CreateArticle(ctx context.Context, article *richtext.Article) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("article create",
			"id", article.ID,
			"slug", article.Slug,
			"paywall", article.HasPaywall,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateArticle(ctx, article)
}

func (s *LoggingArticleService) FindArticleByID(ctx context.Context, id string) (*richtext.Article, error) {
	return s.next.FindArticleByID(ctx, id)
}

func (s *LoggingArticleService) FindArticleBySlug(ctx context.Context, slug string) (*richtext.Article, error) {
	return s.next.FindArticleBySlug(ctx, slug)
}

func (s *LoggingArticleService) FindArticles(ctx context.Context, filter richtext.ArticleFilter) ([]*richtext.Article, error) {
	return s.next.FindArticles(ctx, filter)
}

func (s *LoggingArticleService) UpdateArticle(ctx context.Context, id string, upd richtext.ArticleUpdate) (article *richtext.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Info("article update",
			"id", id,
			"content_changed", upd.Content != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateArticle(ctx, id, upd)
}

func (s *LoggingArticleService) DeleteArticle(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("article delete",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteArticle(ctx, id)
}
