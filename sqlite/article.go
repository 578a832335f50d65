package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
	"github.com/remarkablejames/richtext"
)

// Compile-time interface verification.
var _ richtext.ArticleService = (*ArticleService)(nil)

const articleColumns = "id, slug, title, content, content_hash, has_paywall, created_at, updated_at"

// ArticleService implements richtext.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// hashContent computes the xxHash of encoded content as a hex string.
func hashContent(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}

// CreateArticle creates a new article. The ID, hash, paywall flag and
// timestamps are set on article.
func (s *ArticleService) CreateArticle(ctx context.Context, article *richtext.Article) error {
	if article.Slug == "" {
		article.Slug = richtext.Slugify(article.Title)
	}
	if err := article.Validate(); err != nil {
		return err
	}

	content, err := json.Marshal(article.Content)
	if err != nil {
		return err
	}

	article.ID = uuid.New().String()
	article.ContentHash = hashContent(content)
	article.HasPaywall = richtext.HasPaywallSeparator(article.Content)
	now := time.Now().UTC().Truncate(time.Second)
	article.CreatedAt = now
	article.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, article.ID, article.Slug, article.Title, string(content), article.ContentHash,
		article.HasPaywall, article.CreatedAt.Format(time.RFC3339), article.UpdatedAt.Format(time.RFC3339))

	return slugConflict(err, article.Slug)
}

// FindArticleByID retrieves an article by ID.
func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*richtext.Article, error) {
	return s.findOne(ctx, "id", id)
}

// FindArticleBySlug retrieves an article by slug.
func (s *ArticleService) FindArticleBySlug(ctx context.Context, slug string) (*richtext.Article, error) {
	return s.findOne(ctx, "slug", slug)
}

func (s *ArticleService) findOne(ctx context.Context, column, value string) (*richtext.Article, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE "+column+" = ?", value)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, richtext.Errorf(richtext.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// FindArticles retrieves articles matching the filter, newest first.
func (s *ArticleService) FindArticles(ctx context.Context, filter richtext.ArticleFilter) ([]*richtext.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Slug != nil {
		query.WriteString(" AND slug = ?")
		args = append(args, *filter.Slug)
	}
	if filter.HasPaywall != nil {
		query.WriteString(" AND has_paywall = ?")
		args = append(args, *filter.HasPaywall)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*richtext.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, rows.Err()
}

// UpdateArticle updates an existing article. Changing the content
// recomputes the hash and paywall flag.
func (s *ArticleService) UpdateArticle(ctx context.Context, id string, upd richtext.ArticleUpdate) (*richtext.Article, error) {
	article, err := s.FindArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		article.Title = *upd.Title
	}
	if upd.Slug != nil {
		article.Slug = *upd.Slug
	}
	if upd.Content != nil {
		article.Content = upd.Content
	}

	if err := article.Validate(); err != nil {
		return nil, err
	}

	content, err := json.Marshal(article.Content)
	if err != nil {
		return nil, err
	}
	article.ContentHash = hashContent(content)
	article.HasPaywall = richtext.HasPaywallSeparator(article.Content)
	article.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	_, err = s.db.ExecContext(ctx, `
		UPDATE articles
		SET slug = ?, title = ?, content = ?, content_hash = ?, has_paywall = ?, updated_at = ?
		WHERE id = ?
	`, article.Slug, article.Title, string(content), article.ContentHash, article.HasPaywall,
		article.UpdatedAt.Format(time.RFC3339), id)
	if err := slugConflict(err, article.Slug); err != nil {
		return nil, err
	}

	return article, nil
}

// DeleteArticle permanently removes an article.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return richtext.Errorf(richtext.ENOTFOUND, "article not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*richtext.Article, error) {
	var article richtext.Article
	var content, createdAt, updatedAt string

	if err := row.Scan(&article.ID, &article.Slug, &article.Title, &content, &article.ContentHash,
		&article.HasPaywall, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	doc, err := richtext.ParseDocument([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode content of article %s: %w", article.ID, err)
	}
	article.Content = doc

	if article.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if article.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &article, nil
}

// slugConflict translates unique constraint violations into ECONFLICT.
func slugConflict(err error, slug string) error {
	if errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
		return richtext.Errorf(richtext.ECONFLICT, "article slug %q already exists", slug)
	}
	return err
}
