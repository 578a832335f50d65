package sqlite_test

import (
	"context"
	"testing"

	"github.com/remarkablejames/richtext"
	"github.com/remarkablejames/richtext/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func paragraph(s string) *richtext.Node {
	return &richtext.Node{
		Type:    richtext.NodeParagraph,
		Content: []*richtext.Node{{Type: richtext.NodeText, Text: s}},
	}
}

func paywalledDoc() *richtext.Document {
	return richtext.NewDocument(paragraph("free"), richtext.NewPaywallSeparator(), paragraph("paid"))
}

func ptr[T any](v T) *T {
	return &v
}

func TestArticleService_CreateArticle(t *testing.T) {
	t.Parallel()

	t.Run("sets generated fields", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		article := &richtext.Article{Title: "Hello World", Content: paywalledDoc()}

		err := svc.CreateArticle(context.Background(), article)

		require.NoError(t, err)
		assert.NotEmpty(t, article.ID)
		assert.Equal(t, "hello-world", article.Slug)
		assert.Len(t, article.ContentHash, 16)
		assert.True(t, article.HasPaywall)
		assert.False(t, article.CreatedAt.IsZero())
		assert.Equal(t, article.CreatedAt, article.UpdatedAt)
	})

	t.Run("keeps explicit slug", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		article := &richtext.Article{Title: "Hello", Slug: "custom", Content: richtext.NewDocument()}

		require.NoError(t, svc.CreateArticle(context.Background(), article))

		assert.Equal(t, "custom", article.Slug)
		assert.False(t, article.HasPaywall)
	})

	t.Run("returns ECONFLICT for duplicate slug", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, svc.CreateArticle(ctx, &richtext.Article{Title: "Same", Content: richtext.NewDocument()}))

		err := svc.CreateArticle(ctx, &richtext.Article{Title: "Same", Content: richtext.NewDocument()})

		assert.Equal(t, richtext.ECONFLICT, richtext.ErrorCode(err))
	})

	t.Run("returns EINVALID for missing content", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))

		err := svc.CreateArticle(context.Background(), &richtext.Article{Title: "No content"})

		assert.Equal(t, richtext.EINVALID, richtext.ErrorCode(err))
	})

	t.Run("returns EINVALID when title yields no slug", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))

		err := svc.CreateArticle(context.Background(), &richtext.Article{Title: "!!!", Content: richtext.NewDocument()})

		assert.Equal(t, richtext.EINVALID, richtext.ErrorCode(err))
	})
}

func TestArticleService_Find(t *testing.T) {
	t.Parallel()

	t.Run("finds by ID and slug with content intact", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		ctx := context.Background()
		article := &richtext.Article{Title: "Deep Dive", Content: paywalledDoc()}
		require.NoError(t, svc.CreateArticle(ctx, article))

		byID, err := svc.FindArticleByID(ctx, article.ID)
		require.NoError(t, err)
		bySlug, err := svc.FindArticleBySlug(ctx, "deep-dive")
		require.NoError(t, err)

		assert.Equal(t, article.ID, bySlug.ID)
		assert.Equal(t, article.ContentHash, byID.ContentHash)
		assert.Equal(t, "free\n\npaid", richtext.PlainText(byID.Content.Content))
		assert.True(t, richtext.HasPaywallSeparator(byID.Content))
		assert.True(t, article.CreatedAt.Equal(byID.CreatedAt))
	})

	t.Run("returns ENOTFOUND for unknown article", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))

		_, err := svc.FindArticleByID(context.Background(), "missing")
		assert.Equal(t, richtext.ENOTFOUND, richtext.ErrorCode(err))

		_, err = svc.FindArticleBySlug(context.Background(), "missing")
		assert.Equal(t, richtext.ENOTFOUND, richtext.ErrorCode(err))
	})

	t.Run("filters and paginates newest first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, svc.CreateArticle(ctx, &richtext.Article{Title: "First", Content: paywalledDoc()}))
		require.NoError(t, svc.CreateArticle(ctx, &richtext.Article{Title: "Second", Content: richtext.NewDocument()}))
		require.NoError(t, svc.CreateArticle(ctx, &richtext.Article{Title: "Third", Content: paywalledDoc()}))

		all, err := svc.FindArticles(ctx, richtext.ArticleFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "third", all[0].Slug)

		paywalled, err := svc.FindArticles(ctx, richtext.ArticleFilter{HasPaywall: ptr(true)})
		require.NoError(t, err)
		assert.Len(t, paywalled, 2)

		page, err := svc.FindArticles(ctx, richtext.ArticleFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "second", page[0].Slug)

		bySlug, err := svc.FindArticles(ctx, richtext.ArticleFilter{Slug: ptr("first")})
		require.NoError(t, err)
		require.Len(t, bySlug, 1)
	})
}

func TestArticleService_UpdateArticle(t *testing.T) {
	t.Parallel()

	t.Run("updates content and recomputes derived fields", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		ctx := context.Background()
		article := &richtext.Article{Title: "Post", Content: richtext.NewDocument(paragraph("draft"))}
		require.NoError(t, svc.CreateArticle(ctx, article))

		updated, err := svc.UpdateArticle(ctx, article.ID, richtext.ArticleUpdate{
			Title:   ptr("Post v2"),
			Content: paywalledDoc(),
		})

		require.NoError(t, err)
		assert.Equal(t, "Post v2", updated.Title)
		assert.Equal(t, "post", updated.Slug)
		assert.True(t, updated.HasPaywall)
		assert.NotEqual(t, article.ContentHash, updated.ContentHash)

		found, err := svc.FindArticleByID(ctx, article.ID)
		require.NoError(t, err)
		assert.Equal(t, "Post v2", found.Title)
		assert.True(t, found.HasPaywall)
	})

	t.Run("returns ECONFLICT when slug is taken", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		ctx := context.Background()
		a := &richtext.Article{Title: "A", Content: richtext.NewDocument()}
		b := &richtext.Article{Title: "B", Content: richtext.NewDocument()}
		require.NoError(t, svc.CreateArticle(ctx, a))
		require.NoError(t, svc.CreateArticle(ctx, b))

		_, err := svc.UpdateArticle(ctx, b.ID, richtext.ArticleUpdate{Slug: ptr("a")})

		assert.Equal(t, richtext.ECONFLICT, richtext.ErrorCode(err))
	})

	t.Run("returns EINVALID for empty title", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))
		ctx := context.Background()
		a := &richtext.Article{Title: "A", Content: richtext.NewDocument()}
		require.NoError(t, svc.CreateArticle(ctx, a))

		_, err := svc.UpdateArticle(ctx, a.ID, richtext.ArticleUpdate{Title: ptr("")})

		assert.Equal(t, richtext.EINVALID, richtext.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown article", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewArticleService(setupTestDB(t))

		_, err := svc.UpdateArticle(context.Background(), "missing", richtext.ArticleUpdate{})

		assert.Equal(t, richtext.ENOTFOUND, richtext.ErrorCode(err))
	})
}

func TestArticleService_DeleteArticle(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewArticleService(setupTestDB(t))
	ctx := context.Background()
	article := &richtext.Article{Title: "Gone", Content: richtext.NewDocument()}
	require.NoError(t, svc.CreateArticle(ctx, article))

	require.NoError(t, svc.DeleteArticle(ctx, article.ID))

	_, err := svc.FindArticleByID(ctx, article.ID)
	assert.Equal(t, richtext.ENOTFOUND, richtext.ErrorCode(err))
	assert.Equal(t, richtext.ENOTFOUND, richtext.ErrorCode(svc.DeleteArticle(ctx, article.ID)))
}
