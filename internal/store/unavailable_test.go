package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskIO = errors.New("disk I/O error")

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newWithDB(db), mock
}

func TestTryInsert_StorageUnavailable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO recommendations").WillReturnError(errDiskIO)

	_, err := s.TryInsert(context.Background(), createTestRecommendation("다나씨엠", 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, errDiskIO)
	assert.NotErrorIs(t, err, ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryInsert_MockConflict(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO recommendations").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.TryInsert(context.Background(), createTestRecommendation("다나씨엠", 0))
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryInsert_MockAccepted(t *testing.T) {
	s, mock := newMockStore(t)

	rec := createTestRecommendation("다나씨엠", 0)
	mock.ExpectExec("INSERT INTO recommendations").
		WithArgs(
			"2025-06-01T09:00:00.000000000Z",
			rec.CompanyName,
			rec.ContactPerson,
			rec.ContactEmail,
			rec.ContactPhone,
			rec.Sector,
			"",
			"",
			rec.Reason,
			"다나씨엠",
		).
		WillReturnResult(sqlmock.NewResult(7, 1))

	stored, err := s.TryInsert(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReads_StorageUnavailable(t *testing.T) {
	ctx := context.Background()

	t.Run("find by key", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM recommendations").WillReturnError(errDiskIO)

		_, _, err := s.FindByKey(ctx, "다나씨엠")
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})

	t.Run("list all", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM recommendations").WillReturnError(errDiskIO)

		_, err := s.ListAll(ctx)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})

	t.Run("list recent", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM recommendations").WillReturnError(errDiskIO)

		_, err := s.ListRecent(ctx, 5)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})

	t.Run("count", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT COUNT").WillReturnError(errDiskIO)

		_, err := s.Count(ctx)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})

	t.Run("visits", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT count FROM visit_counter").WillReturnError(errDiskIO)

		_, err := s.Visits(ctx)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestIncrementVisits_StorageUnavailable(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("UPDATE visit_counter").WillReturnError(errDiskIO)

	err := s.IncrementVisits(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestIncrementVisits_MissingRow(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("UPDATE visit_counter").WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.IncrementVisits(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestClosedStore_StorageUnavailable(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.TryInsert(context.Background(), createTestRecommendation("다나씨엠", 0))
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	assert.ErrorIs(t, s.Ping(context.Background()), ErrStorageUnavailable)
}
