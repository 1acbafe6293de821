package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minwook-byun/recpool/internal/canon"
)

func TestFindByKey(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	stored, err := s.TryInsert(ctx, createTestRecommendation("에이트테크", 0))
	require.NoError(t, err)

	got, ok, err := s.FindByKey(ctx, canon.Normalize("에이트 테크 (주)"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored, got)
	assert.True(t, got.SubmittedAt.Equal(baseTime))

	_, ok, err = s.FindByKey(ctx, canon.Normalize("에이트스튜디오"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindByKey_EmptyKey(t *testing.T) {
	s := createTestStore(t)

	_, ok, err := s.FindByKey(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListAll_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	names := []string{"알파", "베타", "감마"}
	for i, name := range names {
		_, err := s.TryInsert(ctx, createTestRecommendation(name, time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "감마", all[0].CompanyName)
	assert.Equal(t, "베타", all[1].CompanyName)
	assert.Equal(t, "알파", all[2].CompanyName)
}

func TestListAll_SameTimestampOrderedByID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.TryInsert(ctx, createTestRecommendation("알파", 0))
	require.NoError(t, err)
	second, err := s.TryInsert(ctx, createTestRecommendation("베타", 0))
	require.NoError(t, err)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestListAll_Empty(t *testing.T) {
	s := createTestStore(t)

	all, err := s.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestListRecent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		name := string(rune('가' + i))
		_, err := s.TryInsert(ctx, createTestRecommendation(name, time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	recent, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, string(rune('가'+11)), recent[0].CompanyName)
	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].SubmittedAt.After(recent[i-1].SubmittedAt))
	}

	all, err := s.ListRecent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 12)

	none, err := s.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestSubmittedAt_StoredAsUTC(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seoul := time.FixedZone("KST", 9*60*60)
	rec := createTestRecommendation("알밤", 0)
	rec.SubmittedAt = time.Date(2025, 6, 11, 18, 0, 0, 0, seoul)

	stored, err := s.TryInsert(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, stored.SubmittedAt.Location())

	got, ok, err := s.FindByKey(ctx, rec.CanonicalKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.SubmittedAt.Equal(rec.SubmittedAt))
	assert.Equal(t, 9, got.SubmittedAt.Hour())
}
