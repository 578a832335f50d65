package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/remarkablejames/richtext"
	"github.com/remarkablejames/richtext/mock"
	rtslog "github.com/remarkablejames/richtext/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingArticleService(t *testing.T) {
	t.Parallel()

	t.Run("logs created article", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		svc := rtslog.NewLoggingArticleService(&mock.ArticleService{
			CreateArticleFn: func(_ context.Context, a *richtext.Article) error {
				a.ID = "a1"
				a.Slug = "hello"
				a.HasPaywall = true
				return nil
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		err := svc.CreateArticle(context.Background(), &richtext.Article{Title: "Hello"})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "article create")
		assert.Contains(t, output, "id=a1")
		assert.Contains(t, output, "slug=hello")
		assert.Contains(t, output, "paywall=true")
	})

	t.Run("logs delete errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		svc := rtslog.NewLoggingArticleService(&mock.ArticleService{
			DeleteArticleFn: func(context.Context, string) error {
				return richtext.Errorf(richtext.ENOTFOUND, "article not found")
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		err := svc.DeleteArticle(context.Background(), "missing")

		assert.Equal(t, richtext.ENOTFOUND, richtext.ErrorCode(err))
		assert.Contains(t, buf.String(), "article delete")
		assert.Contains(t, buf.String(), "id=missing")
	})

	t.Run("delegates reads", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		want := &richtext.Article{ID: "a1"}
		svc := rtslog.NewLoggingArticleService(&mock.ArticleService{
			FindArticleBySlugFn: func(context.Context, string) (*richtext.Article, error) {
				return want, nil
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		got, err := svc.FindArticleBySlug(context.Background(), "post")

		require.NoError(t, err)
		assert.Same(t, want, got)
		assert.Empty(t, buf.String())
	})
}
