package sink

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firasmosbehi/about-us-team-extractor/internal/extractor"
)

// execer is the slice of pgxpool.Pool the Postgres sink needs. Narrow so
// tests can substitute a mock pool.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres inserts output records into a configurable table,
// people_records by default. Expected schema:
//
//	CREATE TABLE people_records (
//	    id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//	    company_domain TEXT NOT NULL,
//	    company_url    TEXT NOT NULL,
//	    source_url     TEXT NOT NULL,
//	    name           TEXT,
//	    title          TEXT,
//	    email          TEXT,
//	    profile_url    TEXT,
//	    linkedin_url   TEXT,
//	    twitter_url    TEXT,
//	    github_url     TEXT,
//	    bluesky_url    TEXT,
//	    emails_on_page TEXT[] NOT NULL DEFAULT '{}',
//	    extracted_at   TIMESTAMPTZ NOT NULL,
//	    notes          TEXT NOT NULL DEFAULT '',
//	    created_at     TIMESTAMPTZ DEFAULT NOW()
//	);
type Postgres struct {
	db        execer
	insertSQL string
}

// DefaultPostgresTable is used when no table name is configured.
const DefaultPostgresTable = "people_records"

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// NewPostgres creates a Postgres sink on top of an existing pool,
// writing into the named table.
func NewPostgres(db execer, table string) (*Postgres, error) {
	if db == nil {
		return nil, fmt.Errorf("database pool is required")
	}
	if table == "" {
		table = DefaultPostgresTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Postgres{
		db:        db,
		insertSQL: fmt.Sprintf(insertRecordSQL, table),
	}, nil
}

// NewPostgresPool connects a pgx pool and verifies it with a ping.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

const insertRecordSQL = `
	INSERT INTO %s (
		id, company_domain, company_url, source_url,
		name, title, email, profile_url,
		linkedin_url, twitter_url, github_url, bluesky_url,
		emails_on_page, extracted_at, notes
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

// Emit inserts rec as one row.
func (s *Postgres) Emit(ctx context.Context, rec extractor.OutputRecord) error {
	emails := rec.EmailsOnPage
	if emails == nil {
		emails = []string{}
	}
	_, err := s.db.Exec(ctx, s.insertSQL,
		rec.ID,
		rec.CompanyDomain,
		rec.CompanyURL,
		rec.SourceURL,
		rec.Name,
		rec.Title,
		rec.Email,
		rec.ProfileURL,
		rec.LinkedinURL,
		rec.TwitterURL,
		rec.GithubURL,
		rec.BlueskyURL,
		emails,
		rec.ExtractedAt,
		rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}
