// Package registry answers whether a company already took part in a past
// program cycle.
package registry

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/minwook-byun/recpool/internal/canon"
	"github.com/minwook-byun/recpool/internal/config"
)

// Entry is one historical participant.
type Entry struct {
	DisplayName string `json:"display_name"`
	Cycle       string `json:"cycle"`
}

// Registry is an immutable index of historical participants keyed by
// canon.Key. Safe for concurrent use.
type Registry struct {
	byKey  map[canon.Key]Entry
	cycles []string
	size   int
}

// Option configures New.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report overlapping cycles.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New indexes the given cycles in order. Keys are computed with
// canon.Normalize, the same function used for lookups.
//
// When a key appears in more than one cycle the earliest listed cycle wins.
// A name that normalizes to the empty key is rejected.
func New(cycles []config.Cycle, opts ...Option) (*Registry, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		byKey:  make(map[canon.Key]Entry),
		cycles: make([]string, 0, len(cycles)),
	}

	for _, c := range cycles {
		r.cycles = append(r.cycles, c.Name)
		for _, name := range c.Companies {
			key := canon.Normalize(name)
			if key.IsEmpty() {
				return nil, fmt.Errorf("cycle %s: company %q has no usable name", c.Name, name)
			}

			if prev, ok := r.byKey[key]; ok {
				if prev.Cycle != c.Name {
					o.logger.Warn("company listed in more than one cycle",
						"key", key,
						"kept_cycle", prev.Cycle,
						"ignored_cycle", c.Name,
					)
				}
				continue
			}

			r.byKey[key] = Entry{DisplayName: name, Cycle: c.Name}
			r.size++
		}
	}

	return r, nil
}

// FromConfig builds a Registry from a loaded configuration.
func FromConfig(cfg *config.Registry, opts ...Option) (*Registry, error) {
	return New(cfg.Cycles, opts...)
}

// FindCycle returns the historical entry whose name normalizes to key.
// The empty key never matches.
func (r *Registry) FindCycle(key canon.Key) (Entry, bool) {
	if key.IsEmpty() {
		return Entry{}, false
	}
	e, ok := r.byKey[key]
	return e, ok
}

// Lookup normalizes raw and calls FindCycle.
func (r *Registry) Lookup(raw string) (Entry, bool) {
	return r.FindCycle(canon.Normalize(raw))
}

// Cycles returns cycle labels in matching order.
func (r *Registry) Cycles() []string {
	out := make([]string, len(r.cycles))
	copy(out, r.cycles)
	return out
}

// Len returns the number of distinct historical keys.
func (r *Registry) Len() int {
	return r.size
}
