package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/minwook-byun/recpool/internal/config"
	"github.com/minwook-byun/recpool/internal/intake"
	"github.com/minwook-byun/recpool/internal/registry"
	"github.com/minwook-byun/recpool/internal/store"
	"github.com/minwook-byun/recpool/internal/testutil"
)

// Output cases for successful steps. Searches complete with their
// intake.Outcome and rejected steps with their intake.ErrorCode.
const (
	CaseStored   = "stored"
	CaseRecorded = "recorded"
	CaseListed   = "listed"
)

// Harness executes scenario steps against one intake.Service.
type Harness struct {
	svc    *intake.Service
	logger *slog.Logger
	seq    int64
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a deterministic
// clock. A returned error means the scenario could not execute; failed
// expectations are reported in Result.Errors instead.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with step logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	cfg, err := config.Default()
	if err != nil {
		return nil, err
	}
	cycles := cfg.Cycles
	if len(scenario.Cycles) > 0 {
		cycles = scenario.Cycles
	}
	reg, err := registry.New(cycles, registry.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}

	clock := testutil.NewDeterministicClock(time.Time{}, time.Second)
	h := &Harness{
		svc: intake.New(st, reg,
			intake.WithConfig(cfg),
			intake.WithClock(clock.Now),
			intake.WithLogger(logger),
		),
		logger: logger,
	}

	ctx := context.Background()
	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	actx := &AssertionContext{
		Service: h.svc,
		Ctx:     ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

func (h *Harness) nextSeq() int64 {
	h.seq++
	return h.seq
}

// executeSteps runs every step, records the trace and checks expect clauses.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		action := step.Action()
		args := stepArgs(step)
		result.AddInvocationTrace(action, args, h.nextSeq())

		outputCase, out, err := h.execute(ctx, step)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, action, err)
		}
		result.AddCompletionTrace(outputCase, out, h.nextSeq())

		if step.Expect != nil {
			for _, msg := range checkExpect(step.Expect, outputCase, out) {
				result.AddError(fmt.Sprintf("steps[%d] %s: %s", i, action, msg))
			}
		}

		h.logger.Info("step completed",
			"step", i,
			"action", action,
			"output_case", outputCase,
		)
	}
	return nil
}

// execute runs one step. Rejections become output cases; other errors abort.
func (h *Harness) execute(ctx context.Context, step Step) (string, map[string]any, error) {
	switch step.Action() {
	case ActionSearch:
		res, err := h.svc.Search(ctx, *step.Search)
		if err != nil {
			return rejection(err)
		}
		return string(res.Outcome), searchResult(res), nil

	case ActionSubmit:
		rec, err := h.svc.Submit(ctx, step.Submit.CompanyName, step.Submit.fields())
		if err != nil {
			return rejection(err)
		}
		return CaseStored, recommendationRow(rec), nil

	case ActionVisit:
		if err := h.svc.RecordVisit(ctx); err != nil {
			return "", nil, err
		}
		n, err := h.svc.Visits(ctx)
		if err != nil {
			return "", nil, err
		}
		return CaseRecorded, map[string]any{"count": int(n)}, nil

	case ActionList:
		recs, err := h.svc.ListRecent(ctx, *step.List)
		if err != nil {
			return "", nil, err
		}
		total, err := h.svc.Count(ctx)
		if err != nil {
			return "", nil, err
		}
		names := make([]any, len(recs))
		for i, r := range recs {
			names[i] = r.CompanyName
		}
		return CaseListed, map[string]any{"total": total, "items": names}, nil
	}

	return "", nil, fmt.Errorf("unknown action")
}

func (a *SubmitArgs) fields() intake.Fields {
	return intake.Fields{
		ContactPerson:   a.ContactPerson,
		ContactEmail:    a.ContactEmail,
		ContactPhone:    a.ContactPhone,
		Sector:          a.Sector,
		SectorDetail:    a.SectorDetail,
		InvestmentStage: a.InvestmentStage,
		IntroURL:        a.IntroURL,
		Reason:          a.Reason,
	}
}

// rejection converts a RejectionError into an output case and result.
func rejection(err error) (string, map[string]any, error) {
	var re *intake.RejectionError
	if !errors.As(err, &re) {
		return "", nil, err
	}

	out := map[string]any{"message": re.Message}
	if re.Cycle != "" {
		out["cycle"] = re.Cycle
	}
	if re.DisplayName != "" {
		out["display_name"] = re.DisplayName
	}
	if re.ExistingName != "" {
		out["existing_name"] = re.ExistingName
	}
	if len(re.Fields) > 0 {
		fields := make([]any, len(re.Fields))
		for i, f := range re.Fields {
			fields[i] = f.Field + " " + f.Problem
		}
		out["fields"] = fields
	}
	return string(re.Code), out, nil
}

func searchResult(res intake.SearchResult) map[string]any {
	out := map[string]any{"key": res.Key.String()}
	if res.Cycle != "" {
		out["cycle"] = res.Cycle
	}
	if res.DisplayName != "" {
		out["display_name"] = res.DisplayName
	}
	if res.ExistingName != "" {
		out["existing_name"] = res.ExistingName
	}
	return out
}

// recommendationRow renders a stored row with its column names.
func recommendationRow(rec store.Recommendation) map[string]any {
	return map[string]any{
		"id":               int(rec.ID),
		"submitted_at":     rec.SubmittedAt.UTC().Format(time.RFC3339Nano),
		"company_name":     rec.CompanyName,
		"contact_person":   rec.ContactPerson,
		"contact_email":    rec.ContactEmail,
		"contact_phone":    rec.ContactPhone,
		"sector":           rec.Sector,
		"investment_stage": rec.InvestmentStage,
		"intro_url":        rec.IntroURL,
		"reason":           rec.Reason,
		"canonical_key":    rec.CanonicalKey.String(),
	}
}

// stepArgs renders the invocation arguments recorded in the trace.
func stepArgs(step Step) map[string]any {
	switch step.Action() {
	case ActionSearch:
		return map[string]any{"name": *step.Search}
	case ActionSubmit:
		a := step.Submit
		args := map[string]any{}
		for k, v := range map[string]string{
			"company_name":     a.CompanyName,
			"contact_person":   a.ContactPerson,
			"contact_email":    a.ContactEmail,
			"contact_phone":    a.ContactPhone,
			"sector":           a.Sector,
			"sector_detail":    a.SectorDetail,
			"investment_stage": a.InvestmentStage,
			"intro_url":        a.IntroURL,
			"reason":           a.Reason,
		} {
			if v != "" {
				args[k] = v
			}
		}
		return args
	case ActionList:
		return map[string]any{"limit": *step.List}
	}
	return nil
}

// checkExpect compares a completion against an expect clause.
func checkExpect(expect *ExpectClause, outputCase string, out map[string]any) []string {
	var msgs []string
	if expect.Case != outputCase {
		msgs = append(msgs, fmt.Sprintf("expected case %q, got %q", expect.Case, outputCase))
	}
	for _, key := range sortedKeys(expect.Result) {
		actual, ok := out[key]
		if !ok {
			msgs = append(msgs, fmt.Sprintf("result field %q missing", key))
			continue
		}
		if !valuesEqual(actual, expect.Result[key]) {
			msgs = append(msgs, fmt.Sprintf("result field %q = %v, want %v", key, actual, expect.Result[key]))
		}
	}
	return msgs
}
