// Package postgres provides a Postgres-backed document sink.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corpuskit/harvester/internal/crawler"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for document rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// Store upserts crawl documents into Postgres, keyed by content hash so a
// re-crawl of unchanged pages stays idempotent.
type Store struct {
	pool  execCloser
	table string
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("storage.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "documents"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool, table: table}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(pool execCloser, table string) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "documents"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store{pool: pool, table: table}, nil
}

// Emit upserts one document row.
func (s *Store) Emit(ctx context.Context, doc crawler.Document) error {
	headings, err := json.Marshal(doc.Headings)
	if err != nil {
		return fmt.Errorf("marshal headings for %s: %w", doc.ID, err)
	}
	extra, err := json.Marshal(doc.ExtraMetadata)
	if err != nil {
		return fmt.Errorf("marshal extra metadata for %s: %w", doc.ID, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, url, source_domain, crawl_depth, parent_url, title,
			body_text, content_type, language, word_count, char_count,
			estimated_reading_time_min, headings, num_headings,
			topical_tags, extra_metadata, fetched_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17
		)
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			fetched_at = EXCLUDED.fetched_at
	`, s.table)

	if _, err := s.pool.Exec(ctx, query,
		doc.ID,
		doc.URL,
		doc.SourceDomain,
		doc.CrawlDepth,
		doc.ParentURL,
		doc.Title,
		doc.BodyText,
		doc.ContentType,
		doc.Language,
		doc.WordCount,
		doc.CharCount,
		doc.EstimatedReadingTimeMin,
		headings,
		doc.NumHeadings,
		doc.TopicalTags,
		extra,
		doc.FetchedAt,
	); err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.ID, err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}
