package store

import (
	"context"
	"fmt"

	"github.com/minwook-byun/recpool/internal/canon"
)

// TryInsert stores rec unless a recommendation with the same canonical key
// already exists, in which case it returns ErrDuplicateKey.
//
// The uniqueness check and the insert are one statement
// (ON CONFLICT(canonical_key) DO NOTHING), so of N concurrent calls carrying
// the same key exactly one succeeds, whichever Store handle they use.
//
// rec.ID is ignored; the returned Recommendation carries the assigned ID.
func (s *Store) TryInsert(ctx context.Context, rec Recommendation) (Recommendation, error) {
	if rec.CanonicalKey.IsEmpty() {
		return Recommendation{}, ErrEmptyKey
	}
	if canon.Normalize(rec.CompanyName) != rec.CanonicalKey {
		return Recommendation{}, fmt.Errorf("%w: %q vs %q", ErrKeyMismatch, rec.CompanyName, rec.CanonicalKey)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO recommendations
		(submitted_at, company_name, contact_person, contact_email, contact_phone,
		 sector, investment_stage, intro_url, reason, canonical_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(canonical_key) DO NOTHING
	`,
		formatTime(rec.SubmittedAt),
		rec.CompanyName,
		rec.ContactPerson,
		rec.ContactEmail,
		rec.ContactPhone,
		rec.Sector,
		rec.InvestmentStage,
		rec.IntroURL,
		rec.Reason,
		string(rec.CanonicalKey),
	)
	if err != nil {
		return Recommendation{}, unavailable("try insert", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return Recommendation{}, unavailable("try insert: rows affected", err)
	}
	if rowsAffected == 0 {
		return Recommendation{}, ErrDuplicateKey
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Recommendation{}, unavailable("try insert: last insert id", err)
	}

	rec.ID = id
	rec.SubmittedAt = rec.SubmittedAt.UTC()
	return rec, nil
}

// IncrementVisits adds one to the shared visit counter.
// The addition happens inside the database in a single statement.
func (s *Store) IncrementVisits(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `UPDATE visit_counter SET count = count + 1 WHERE id = 1`)
	if err != nil {
		return unavailable("increment visits", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return unavailable("increment visits: rows affected", err)
	}
	if n != 1 {
		return fmt.Errorf("increment visits: %w: counter row missing", ErrStorageUnavailable)
	}
	return nil
}
