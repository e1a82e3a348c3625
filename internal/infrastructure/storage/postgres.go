package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"aiview/internal/domain"
	"aiview/internal/ports"
)

// ErrDuplicateURL reports an insert that violated the unique URL constraint.
// The pipeline pre-checks by URL; this constraint is the backstop.
var ErrDuplicateURL = errors.New("article url already stored")

const uniqueViolation = pq.ErrorCode("23505")

const schema = `
CREATE TABLE IF NOT EXISTS articles (
    id             BIGSERIAL PRIMARY KEY,
    title          TEXT        NOT NULL,
    url            TEXT        NOT NULL UNIQUE,
    published_date TIMESTAMPTZ NOT NULL,
    summary        TEXT,
    skills         TEXT,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_articles_published_date ON articles (published_date DESC);
`

// PostgresStore persists articles into Postgres. Skills are stored as a
// JSON-encoded text column and decoded leniently on the way out.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ArticleStore = (*PostgresStore)(nil)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return New(db), nil
}

// New wires an existing sql.DB.
func New(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// EnsureSchema creates the articles table if it does not exist. Safe to run
// on every startup.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ExistsByURL answers the dedupe lookup used by the pipeline.
func (s *PostgresStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	query, args, err := s.builder.
		Select("1").
		From("articles").
		Where(sq.Eq{"url": url}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query article by url: %w", err)
	}
	return true, nil
}

// Insert persists a new article. A duplicate URL returns ErrDuplicateURL so
// callers can tell the constraint backstop apart from other failures.
func (s *PostgresStore) Insert(ctx context.Context, article domain.Article) error {
	skills, err := encodeSkills(article.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}

	query, args, err := s.builder.
		Insert("articles").
		Columns("title", "url", "published_date", "summary", "skills").
		Values(article.Title, article.URL, article.PublishedDate, article.Summary, skills).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateURL, article.URL)
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// List returns stored articles ordered by published date descending, with
// offset-based pagination.
func (s *PostgresStore) List(ctx context.Context, skip, limit int) ([]domain.Article, error) {
	query, args, err := s.builder.
		Select("id", "title", "url", "published_date", "summary", "skills", "created_at").
		From("articles").
		OrderBy("published_date DESC").
		Offset(uint64(skip)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var (
			article domain.Article
			summary sql.NullString
			skills  sql.NullString
		)
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.URL,
			&article.PublishedDate,
			&summary,
			&skills,
			&article.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		article.Summary = summary.String
		article.Skills = decodeSkills(skills.String)
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

// Purge deletes every stored article. Administrative operation only; the
// pipeline never calls it.
func (s *PostgresStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles`)
	if err != nil {
		return 0, fmt.Errorf("purge articles: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func encodeSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	raw, err := json.Marshal(skills)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeSkills turns the stored JSON text back into an ordered slice.
// A missing or corrupt value degrades to an empty list so the read surface
// never reflects a malformed record.
func decodeSkills(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var skills []string
	if err := json.Unmarshal([]byte(raw), &skills); err != nil || skills == nil {
		return []string{}
	}
	return skills
}
