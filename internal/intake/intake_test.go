package intake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/minwook-byun/recpool/internal/config"
)

func TestNew_Defaults(t *testing.T) {
	svc := New(openTestStore(t), testRegistry(t))

	assert.Equal(t, config.DefaultOtherSector, svc.Form().OtherSector)
	assert.Empty(t, svc.Form().Sectors)
	assert.NotNil(t, svc.Pool())
	assert.Empty(t, svc.Pool())
}

func TestNew_WithConfig(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	svc := New(openTestStore(t), testRegistry(t), WithConfig(cfg))

	assert.Equal(t, cfg.Sectors, svc.Form().Sectors)
	assert.Equal(t, cfg.Stages, svc.Form().Stages)
	assert.Equal(t, cfg.Pool, svc.Pool())
}

func TestPool_ReturnsCopy(t *testing.T) {
	svc, _ := newTestService(t, openTestStore(t))

	pool := svc.Pool()
	require.Len(t, pool, 2)
	pool[0] = "changed"
	assert.Equal(t, "유니크굿컴퍼니", svc.Pool()[0])
}

func TestPool_StillRecommendable(t *testing.T) {
	svc, _ := newTestService(t, openTestStore(t))

	res, err := svc.Search(context.Background(), "유니크굿컴퍼니")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, res.Outcome)
}

func TestListRecentAndCount(t *testing.T) {
	svc, _ := newTestService(t, openTestStore(t))
	ctx := context.Background()

	for _, name := range []string{"알파랩", "베타랩", "감마랩"} {
		_, err := svc.Submit(ctx, name, validFields())
		require.NoError(t, err)
	}

	recent, err := svc.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "감마랩", recent[0].CompanyName)
	assert.Equal(t, "베타랩", recent[1].CompanyName)
	assert.True(t, recent[0].SubmittedAt.After(recent[1].SubmittedAt))

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRecordVisit(t *testing.T) {
	svc, _ := newTestService(t, openTestStore(t))
	ctx := context.Background()

	before, err := svc.Visits(ctx)
	require.NoError(t, err)
	assert.Zero(t, before)

	var g errgroup.Group
	for i := 0; i < 25; i++ {
		g.Go(func() error { return svc.RecordVisit(ctx) })
	}
	require.NoError(t, g.Wait())

	after, err := svc.Visits(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(25), after)
}

func TestRecordVisit_StorageUnavailable(t *testing.T) {
	svc := New(brokenStore{}, testRegistry(t), WithClock(time.Now))

	assert.True(t, IsStorageUnavailable(svc.RecordVisit(context.Background())))
	_, err := svc.Visits(context.Background())
	assert.True(t, IsStorageUnavailable(err))
}
