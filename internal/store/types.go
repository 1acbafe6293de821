package store

import (
	"time"

	"github.com/minwook-byun/recpool/internal/canon"
)

// Recommendation is one accepted submission.
// Created once by TryInsert and never mutated or deleted.
type Recommendation struct {
	ID              int64     `json:"id"`
	SubmittedAt     time.Time `json:"submitted_at"`
	CompanyName     string    `json:"company_name"`
	ContactPerson   string    `json:"contact_person"`
	ContactEmail    string    `json:"contact_email"`
	ContactPhone    string    `json:"contact_phone"`
	Sector          string    `json:"sector"`
	InvestmentStage string    `json:"investment_stage,omitempty"`
	IntroURL        string    `json:"intro_url,omitempty"`
	Reason          string    `json:"reason"`
	CanonicalKey    canon.Key `json:"canonical_key"`
}

// timeLayout is fixed-width so that lexical order of submitted_at matches
// chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.UTC)
}
