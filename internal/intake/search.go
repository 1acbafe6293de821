package intake

import (
	"context"
	"fmt"

	"github.com/minwook-byun/recpool/internal/canon"
)

// Outcome is the result of checking a name.
type Outcome string

const (
	// OutcomeAccepted means the name is new; the caller may collect details.
	OutcomeAccepted Outcome = "accepted_new"

	// OutcomeHistorical means the company took part in a past cycle.
	OutcomeHistorical Outcome = "rejected_historical"

	// OutcomeDuplicate means the company is already recommended.
	OutcomeDuplicate Outcome = "rejected_duplicate"
)

// SearchResult describes where a searched name stands.
type SearchResult struct {
	Outcome Outcome   `json:"outcome"`
	Query   string    `json:"query"`
	Key     canon.Key `json:"key"`

	// Set when Outcome is OutcomeHistorical.
	Cycle       string `json:"cycle,omitempty"`
	DisplayName string `json:"display_name,omitempty"`

	// Set when Outcome is OutcomeDuplicate.
	ExistingName string `json:"existing_name,omitempty"`
}

// FormOpen reports whether the caller should go on to collect details.
func (r SearchResult) FormOpen() bool {
	return r.Outcome == OutcomeAccepted
}

// Search checks raw against the historical registry and stored
// recommendations, in that order.
//
// A name with no usable key returns an EMPTY_NAME rejection error. Historical
// and duplicate matches are ordinary outcomes, not errors.
func (s *Service) Search(ctx context.Context, raw string) (SearchResult, error) {
	key := canon.Normalize(raw)
	if key.IsEmpty() {
		return SearchResult{}, NewEmptyNameError()
	}

	result := SearchResult{Query: raw, Key: key}

	if entry, ok := s.registry.FindCycle(key); ok {
		result.Outcome = OutcomeHistorical
		result.Cycle = entry.Cycle
		result.DisplayName = entry.DisplayName
		s.logger.Debug("search matched historical participant",
			"key", key,
			"cycle", entry.Cycle,
		)
		return result, nil
	}

	existing, found, err := s.store.FindByKey(ctx, key)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search %q: %w", raw, err)
	}
	if found {
		result.Outcome = OutcomeDuplicate
		result.ExistingName = existing.CompanyName
		s.logger.Debug("search matched existing recommendation",
			"key", key,
			"id", existing.ID,
		)
		return result, nil
	}

	result.Outcome = OutcomeAccepted
	s.logger.Debug("search accepted new company", "key", key)
	return result, nil
}
