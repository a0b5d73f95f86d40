// Package postgres loads the submissions table from a Postgres database,
// the alternative to the CSV/XLSX export for deployments that keep the
// editorial database online.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"pubreport/domain/submission"
	"pubreport/internal/errors"
)

// Source reads submissions from a configured table
type Source struct {
	db    *sqlx.DB
	table string
}

// NewSource connects to the database and verifies the connection
func NewSource(dsn, table string) (*Source, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return &Source{db: db, table: table}, nil
}

// Close releases the connection pool
func (s *Source) Close() error {
	return s.db.Close()
}

type submissionRow struct {
	ID          string         `db:"id"`
	Title       sql.NullString `db:"title"`
	Track       sql.NullString `db:"track"`
	Language    sql.NullString `db:"language"`
	Repository  sql.NullString `db:"repository"`
	DOI         sql.NullString `db:"doi"`
	ReviewIssue sql.NullInt64  `db:"review_issue"`
	Submitted   time.Time      `db:"submitted"`
	Accepted    sql.NullTime   `db:"accepted"`
}

// Load reads every submission row ordered by submission date
func (s *Source) Load(ctx context.Context) ([]submission.Submission, error) {
	query := fmt.Sprintf(
		`SELECT id, title, track, language, repository, doi, review_issue, submitted, accepted
		 FROM %s ORDER BY submitted, id`, s.table)

	var rows []submissionRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrapf(err, "failed to load submissions from %s", s.table)
	}

	subs := make([]submission.Submission, 0, len(rows))
	for _, r := range rows {
		sub := submission.Submission{
			ID:             r.ID,
			Title:          r.Title.String,
			Track:          r.Track.String,
			Language:       r.Language.String,
			Repository:     r.Repository.String,
			DOI:            r.DOI.String,
			ReviewIssue:    int(r.ReviewIssue.Int64),
			Submitted:      r.Submitted.UTC(),
			ReviewComments: -1,
			Citations:      -1,
		}
		if r.Accepted.Valid {
			sub.Accepted = r.Accepted.Time.UTC()
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
