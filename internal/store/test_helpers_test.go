package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/minwook-byun/recpool/internal/canon"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// baseTime is the submission time used by createTestRecommendation.
var baseTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// createTestRecommendation creates a recommendation with minimal required fields.
// offset shifts SubmittedAt so tests can control ordering.
func createTestRecommendation(companyName string, offset time.Duration) Recommendation {
	return Recommendation{
		SubmittedAt:   baseTime.Add(offset),
		CompanyName:   companyName,
		ContactPerson: "홍길동",
		ContactEmail:  "hong@example.com",
		ContactPhone:  "010-1234-5678",
		Sector:        "복지",
		Reason:        "돌봄 공백을 메우는 서비스",
		CanonicalKey:  canon.Normalize(companyName),
	}
}
