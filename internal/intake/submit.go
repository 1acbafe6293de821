package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minwook-byun/recpool/internal/canon"
	"github.com/minwook-byun/recpool/internal/store"
)

// Fields are the details a submitter supplies after a successful Search.
type Fields struct {
	ContactPerson   string `json:"contact_person"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone"`
	Sector          string `json:"sector"`
	SectorDetail    string `json:"sector_detail,omitempty"`
	InvestmentStage string `json:"investment_stage,omitempty"`
	IntroURL        string `json:"intro_url,omitempty"`
	Reason          string `json:"reason"`
}

// Submit validates f and stores a recommendation for companyName.
//
// Checks run in this order, and the first failing step decides the error:
//  1. EMPTY_NAME when companyName has no usable key
//  2. REJECTED_HISTORICAL when the company took part in a past cycle
//  3. REJECTED_DUPLICATE when a recommendation already exists
//  4. VALIDATION listing every invalid field at once
//  5. REJECTED_DUPLICATE when the store's atomic insert finds the key taken
//
// Fields are only examined for a company that may still be recommended.
//
// Storage failures are returned wrapped with ErrStorageUnavailable.
// A rejected submission leaves the store untouched and may be resubmitted.
func (s *Service) Submit(ctx context.Context, companyName string, f Fields) (store.Recommendation, error) {
	name := strings.TrimSpace(companyName)
	key := canon.Normalize(name)
	if key.IsEmpty() {
		return store.Recommendation{}, NewEmptyNameError()
	}

	if entry, ok := s.registry.FindCycle(key); ok {
		s.logger.Info("submission rejected: historical participant",
			"key", key,
			"cycle", entry.Cycle,
		)
		return store.Recommendation{}, NewHistoricalError(entry.Cycle, entry.DisplayName)
	}

	// Pre-check for a friendlier message; TryInsert below is authoritative.
	existing, found, err := s.store.FindByKey(ctx, key)
	if err != nil {
		return store.Recommendation{}, fmt.Errorf("submit %q: %w", name, err)
	}
	if found {
		s.logger.Info("submission rejected: already recommended",
			"key", key,
			"existing_id", existing.ID,
		)
		return store.Recommendation{}, NewDuplicateError(existing.CompanyName)
	}

	rec, fieldErrs := s.buildRecommendation(name, key, f)
	if len(fieldErrs) > 0 {
		s.logger.Info("submission rejected: invalid fields",
			"key", key,
			"fields", len(fieldErrs),
		)
		return store.Recommendation{}, NewValidationError(fieldErrs)
	}

	rec.SubmittedAt = s.now()
	stored, err := s.store.TryInsert(ctx, rec)
	if errors.Is(err, store.ErrDuplicateKey) {
		s.logger.Info("submission lost insert race", "key", key)
		return store.Recommendation{}, NewDuplicateError(s.existingName(ctx, key, name))
	}
	if err != nil {
		s.logger.Error("failed to store recommendation", "key", key, "error", err)
		return store.Recommendation{}, fmt.Errorf("submit %q: %w", name, err)
	}

	s.logger.Info("recommendation stored",
		"id", stored.ID,
		"company", stored.CompanyName,
		"key", key,
	)
	return stored, nil
}

// existingName looks up the stored name after a lost insert race.
// Falls back to the submitted name if the winner cannot be read.
func (s *Service) existingName(ctx context.Context, key canon.Key, fallback string) string {
	existing, found, err := s.store.FindByKey(ctx, key)
	if err != nil {
		s.logger.Warn("failed to read winning recommendation", "key", key, "error", err)
		return fallback
	}
	if !found {
		return fallback
	}
	return existing.CompanyName
}

// buildRecommendation trims every field and collects all validation problems.
func (s *Service) buildRecommendation(name string, key canon.Key, f Fields) (store.Recommendation, []FieldError) {
	var errs []FieldError
	required := func(field, value string) string {
		v := strings.TrimSpace(value)
		if v == "" {
			errs = append(errs, FieldError{Field: field, Problem: ProblemRequired})
		}
		return v
	}

	person := required(FieldContactPerson, f.ContactPerson)
	email := required(FieldContactEmail, f.ContactEmail)
	phone := required(FieldContactPhone, f.ContactPhone)
	sector := required(FieldSector, f.Sector)

	if sector != "" && len(s.form.Sectors) > 0 && !contains(s.form.Sectors, sector) {
		errs = append(errs, FieldError{Field: FieldSector, Problem: ProblemUnknownOption})
	}
	if sector == s.form.OtherSector {
		sector = required(FieldSectorDetail, f.SectorDetail)
	}

	stage := strings.TrimSpace(f.InvestmentStage)
	if stage != "" && len(s.form.Stages) > 0 && !contains(s.form.Stages, stage) {
		errs = append(errs, FieldError{Field: FieldInvestmentStage, Problem: ProblemUnknownOption})
	}

	reason := required(FieldReason, f.Reason)

	return store.Recommendation{
		CompanyName:     name,
		ContactPerson:   person,
		ContactEmail:    email,
		ContactPhone:    phone,
		Sector:          sector,
		InvestmentStage: stage,
		IntroURL:        strings.TrimSpace(f.IntroURL),
		Reason:          reason,
		CanonicalKey:    key,
	}, errs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
