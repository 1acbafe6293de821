package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/minwook-byun/recpool/internal/canon"
)

const selectColumns = `
	SELECT id, submitted_at, company_name, contact_person, contact_email, contact_phone,
	       sector, investment_stage, intro_url, reason, canonical_key
	FROM recommendations`

// FindByKey returns the recommendation stored under key, if any.
// The answer is advisory: only TryInsert decides uniqueness.
func (s *Store) FindByKey(ctx context.Context, key canon.Key) (Recommendation, bool, error) {
	if key.IsEmpty() {
		return Recommendation{}, false, nil
	}

	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE canonical_key = ?`, string(key))
	rec, err := scanRecommendation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Recommendation{}, false, nil
	}
	if err != nil {
		return Recommendation{}, false, unavailable("find by key", err)
	}
	return rec, true, nil
}

// ListAll returns every recommendation, newest first.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListAll(ctx context.Context) ([]Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		return nil, unavailable("list all", err)
	}
	return collect(rows, "list all")
}

// ListRecent returns at most n recommendations, newest first.
// n <= 0 yields an empty slice.
func (s *Store) ListRecent(ctx context.Context, n int) ([]Recommendation, error) {
	if n <= 0 {
		return []Recommendation{}, nil
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY submitted_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, unavailable("list recent", err)
	}
	return collect(rows, "list recent")
}

// Count returns the number of stored recommendations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recommendations`).Scan(&n); err != nil {
		return 0, unavailable("count", err)
	}
	return n, nil
}

// Visits returns the current value of the shared visit counter.
func (s *Store) Visits(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT count FROM visit_counter WHERE id = 1`).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("visits", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row scanner) (Recommendation, error) {
	var (
		rec         Recommendation
		submittedAt string
		key         string
	)
	err := row.Scan(
		&rec.ID,
		&submittedAt,
		&rec.CompanyName,
		&rec.ContactPerson,
		&rec.ContactEmail,
		&rec.ContactPhone,
		&rec.Sector,
		&rec.InvestmentStage,
		&rec.IntroURL,
		&rec.Reason,
		&key,
	)
	if err != nil {
		return Recommendation{}, err
	}

	rec.SubmittedAt, err = parseTime(submittedAt)
	if err != nil {
		return Recommendation{}, fmt.Errorf("parse submitted_at %q: %w", submittedAt, err)
	}
	rec.CanonicalKey = canon.Key(key)
	return rec, nil
}

func collect(rows *sql.Rows, op string) ([]Recommendation, error) {
	defer rows.Close()

	recs := []Recommendation{}
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, unavailable(op, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	return recs, nil
}
