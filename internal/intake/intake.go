// Package intake runs one recommendation attempt: normalize the name, check
// the historical registry, check existing recommendations, then validate and
// store the submitter's details.
//
// Search reports whether a name may be recommended. Its answer is a value
// (SearchResult.FormOpen), not state kept by the service; callers carry it
// through their own request/response cycle. Submit repeats every check, so a
// stale or skipped Search can never let a historical or duplicate company in.
// The store's atomic insert has the final word on duplicates.
package intake

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/minwook-byun/recpool/internal/canon"
	"github.com/minwook-byun/recpool/internal/config"
	"github.com/minwook-byun/recpool/internal/registry"
	"github.com/minwook-byun/recpool/internal/store"
)

// Store is the persistence the workflow needs. *store.Store implements it.
type Store interface {
	TryInsert(ctx context.Context, rec store.Recommendation) (store.Recommendation, error)
	FindByKey(ctx context.Context, key canon.Key) (store.Recommendation, bool, error)
	ListAll(ctx context.Context) ([]store.Recommendation, error)
	ListRecent(ctx context.Context, n int) ([]store.Recommendation, error)
	Count(ctx context.Context) (int, error)
	IncrementVisits(ctx context.Context) error
	Visits(ctx context.Context) (int64, error)
}

// Service is the intake workflow. Safe for concurrent use.
type Service struct {
	store    Store
	registry *registry.Registry
	form     FormOptions
	pool     []string
	now      func() time.Time
	logger   *slog.Logger
}

// FormOptions lists the choices offered for constrained fields.
type FormOptions struct {
	// Sectors accepted for Fields.Sector. Empty accepts any non-blank value.
	Sectors []string

	// OtherSector is the sector whose SectorDetail is stored instead.
	OtherSector string

	// Stages accepted for Fields.InvestmentStage. Empty accepts any value.
	Stages []string
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the source of submission timestamps. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the service logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithFormOptions sets the sector and stage choices.
func WithFormOptions(f FormOptions) Option {
	return func(s *Service) {
		s.form = f
	}
}

// WithPool sets the operator-pooled company list returned by Pool.
func WithPool(names []string) Option {
	return func(s *Service) {
		s.pool = append([]string(nil), names...)
	}
}

// WithConfig applies the form options and pool list of a loaded configuration.
func WithConfig(cfg *config.Registry) Option {
	return func(s *Service) {
		WithFormOptions(FormOptions{
			Sectors:     cfg.Sectors,
			OtherSector: cfg.OtherSector,
			Stages:      cfg.Stages,
		})(s)
		WithPool(cfg.Pool)(s)
	}
}

// New creates a Service.
func New(st Store, reg *registry.Registry, opts ...Option) *Service {
	s := &Service{
		store:    st,
		registry: reg,
		form:     FormOptions{OtherSector: config.DefaultOtherSector},
		pool:     []string{},
		now:      time.Now,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.form.OtherSector == "" {
		s.form.OtherSector = config.DefaultOtherSector
	}

	return s
}

// Form returns the configured form options.
func (s *Service) Form() FormOptions {
	return s.form
}

// Pool returns the operator-pooled company names. Display only: pooled
// companies can still be recommended.
func (s *Service) Pool() []string {
	out := make([]string, len(s.pool))
	copy(out, s.pool)
	return out
}

// ListRecent returns at most n recommendations, newest first.
func (s *Service) ListRecent(ctx context.Context, n int) ([]store.Recommendation, error) {
	return s.store.ListRecent(ctx, n)
}

// ListAll returns every recommendation, newest first.
func (s *Service) ListAll(ctx context.Context) ([]store.Recommendation, error) {
	return s.store.ListAll(ctx)
}

// Count returns the number of stored recommendations.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Visits returns the shared visit counter.
func (s *Service) Visits(ctx context.Context) (int64, error) {
	return s.store.Visits(ctx)
}

// RecordVisit increments the shared visit counter. Callers invoke it once
// per session.
func (s *Service) RecordVisit(ctx context.Context) error {
	if err := s.store.IncrementVisits(ctx); err != nil {
		return err
	}
	s.logger.Debug("visit recorded")
	return nil
}
