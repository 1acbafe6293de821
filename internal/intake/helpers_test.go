package intake

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/minwook-byun/recpool/internal/canon"
	"github.com/minwook-byun/recpool/internal/config"
	"github.com/minwook-byun/recpool/internal/registry"
	"github.com/minwook-byun/recpool/internal/store"
	"github.com/minwook-byun/recpool/internal/testutil"
)

var testSectors = []string{"복지", "보건의료", "고용", "교육", "주거", "문화", "환경", "기타"}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "intake.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]config.Cycle{
		{Name: "2023", Companies: []string{"다나씨엠", "씽즈", "효돌"}},
		{Name: "2024", Companies: []string{"아이앤나", "하이"}},
	})
	require.NoError(t, err)
	return reg
}

// newTestService wires a Service to a fresh store with a deterministic clock.
func newTestService(t *testing.T, st Store) (*Service, *testutil.DeterministicClock) {
	t.Helper()
	clock := testutil.NewDeterministicClock(time.Time{}, time.Second)
	svc := New(st, testRegistry(t),
		WithClock(clock.Now),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithFormOptions(FormOptions{
			Sectors:     testSectors,
			OtherSector: "기타",
			Stages:      []string{"Seed", "Pre-A", "Series A"},
		}),
		WithPool([]string{"유니크굿컴퍼니", "에이트테크"}),
	)
	return svc, clock
}

func validFields() Fields {
	return Fields{
		ContactPerson: "김담당",
		ContactEmail:  "contact@example.com",
		ContactPhone:  "010-1234-5678",
		Sector:        "복지",
		Reason:        "AI 기반 돌봄 매칭으로 접근성을 높임",
	}
}

func fakeFields(f *gofakeit.Faker) Fields {
	return Fields{
		ContactPerson:   f.Name(),
		ContactEmail:    f.Email(),
		ContactPhone:    f.Phone(),
		Sector:          testSectors[f.Number(0, len(testSectors)-2)],
		InvestmentStage: f.RandomString([]string{"", "Seed", "Pre-A", "Series A"}),
		IntroURL:        f.URL(),
		Reason:          f.Sentence(8),
	}
}

// storeRec builds a complete record for direct store inserts.
func storeRec(name string) store.Recommendation {
	f := validFields()
	return store.Recommendation{
		SubmittedAt:   testutil.DefaultStart,
		CompanyName:   name,
		ContactPerson: f.ContactPerson,
		ContactEmail:  f.ContactEmail,
		ContactPhone:  f.ContactPhone,
		Sector:        f.Sector,
		Reason:        f.Reason,
		CanonicalKey:  canon.Normalize(name),
	}
}

// staleStore answers every pre-check with "not found", as if another
// submitter inserted between the pre-check and the insert.
type staleStore struct {
	*store.Store
}

func (s staleStore) FindByKey(ctx context.Context, key canon.Key) (store.Recommendation, bool, error) {
	return store.Recommendation{}, false, nil
}

// brokenStore fails every operation as an unreachable database would.
type brokenStore struct{}

func (brokenStore) TryInsert(context.Context, store.Recommendation) (store.Recommendation, error) {
	return store.Recommendation{}, errBroken("try insert")
}

func (brokenStore) FindByKey(context.Context, canon.Key) (store.Recommendation, bool, error) {
	return store.Recommendation{}, false, errBroken("find by key")
}

func (brokenStore) ListAll(context.Context) ([]store.Recommendation, error) {
	return nil, errBroken("list all")
}

func (brokenStore) ListRecent(context.Context, int) ([]store.Recommendation, error) {
	return nil, errBroken("list recent")
}

func (brokenStore) Count(context.Context) (int, error) {
	return 0, errBroken("count")
}

func (brokenStore) IncrementVisits(context.Context) error {
	return errBroken("increment visits")
}

func (brokenStore) Visits(context.Context) (int64, error) {
	return 0, errBroken("visits")
}

func errBroken(op string) error {
	return &opError{op: op}
}

type opError struct{ op string }

func (e *opError) Error() string { return e.op + ": " + store.ErrStorageUnavailable.Error() }
func (e *opError) Unwrap() error { return store.ErrStorageUnavailable }
