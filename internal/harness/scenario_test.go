package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: parse_all_actions
description: "Every step kind parses"
cycles:
  - name: "2030"
    companies: [알파]
steps:
  - search: 알파
    expect:
      case: rejected_historical
      result: { cycle: "2030" }
  - submit:
      company_name: 베타
      contact_person: 김담당
      contact_email: kim@example.com
      contact_phone: 010-0000-0000
      sector: 복지
      sector_detail: ignored
      investment_stage: Seed
      intro_url: https://example.com
      reason: 이유
  - visit: true
  - list: 3
assertions:
  - type: row_count
    table: recommendations
    count: 1
`))
	require.NoError(t, err)

	assert.Equal(t, "parse_all_actions", scenario.Name)
	require.Len(t, scenario.Cycles, 1)
	assert.Equal(t, []string{"알파"}, scenario.Cycles[0].Companies)

	require.Len(t, scenario.Steps, 4)
	assert.Equal(t, ActionSearch, scenario.Steps[0].Action())
	assert.Equal(t, "2030", scenario.Steps[0].Expect.Result["cycle"])
	assert.Equal(t, ActionSubmit, scenario.Steps[1].Action())
	assert.Equal(t, "https://example.com", scenario.Steps[1].Submit.IntroURL)
	assert.Equal(t, ActionVisit, scenario.Steps[2].Action())
	assert.Equal(t, ActionList, scenario.Steps[3].Action())
	assert.Equal(t, 3, *scenario.Steps[3].List)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: x\ndescription: y\nstep: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "description: y\nsteps:\n  - visit: true\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: x\nsteps:\n  - visit: true\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: x\ndescription: y\n",
			wantErr: "steps list is required",
		},
		{
			name:    "two actions in one step",
			yaml:    "name: x\ndescription: y\nsteps:\n  - visit: true\n    search: a\n",
			wantErr: "exactly one of",
		},
		{
			name:    "empty step",
			yaml:    "name: x\ndescription: y\nsteps:\n  - expect: { case: stored }\n",
			wantErr: "exactly one of",
		},
		{
			name:    "negative list",
			yaml:    "name: x\ndescription: y\nsteps:\n  - list: -1\n",
			wantErr: "list must be non-negative",
		},
		{
			name:    "expect without case",
			yaml:    "name: x\ndescription: y\nsteps:\n  - visit: true\n    expect: { result: { count: 1 } }\n",
			wantErr: "case is required",
		},
		{
			name:    "unnamed cycle",
			yaml:    "name: x\ndescription: y\ncycles:\n  - companies: [a]\nsteps:\n  - visit: true\n",
			wantErr: "cycles[0]: name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAssertion(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"missing type", Assertion{}, "type is required"},
		{"unknown type", Assertion{Type: "bogus"}, "unknown assertion type"},
		{"contains without action", Assertion{Type: AssertTraceContains}, "action is required"},
		{"order without actions", Assertion{Type: AssertTraceOrder}, "actions list is required"},
		{"count without action", Assertion{Type: AssertTraceCount}, "action is required"},
		{"count negative", Assertion{Type: AssertTraceCount, Action: "visit", Count: -1}, "non-negative"},
		{"state without table", Assertion{Type: AssertFinalState, Expect: map[string]any{"a": 1}}, "table is required"},
		{"state unknown table", Assertion{Type: AssertFinalState, Table: "users", Expect: map[string]any{"a": 1}}, "unknown table"},
		{"state without where", Assertion{Type: AssertFinalState, Table: TableRecommendations, Expect: map[string]any{"a": 1}}, "where is required"},
		{"state without expect", Assertion{Type: AssertFinalState, Table: TableVisitCounter}, "expect is required"},
		{"row count wrong table", Assertion{Type: AssertRowCount, Table: TableVisitCounter}, "row_count supports only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAssertion(0, &tt.assertion)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	valid := []Assertion{
		{Type: AssertTraceContains, Action: ActionSearch},
		{Type: AssertTraceOrder, Actions: []string{ActionSearch, ActionSubmit}},
		{Type: AssertTraceCount, Action: ActionVisit},
		{Type: AssertFinalState, Table: TableVisitCounter, Expect: map[string]any{"count": 1}},
		{Type: AssertFinalState, Table: TableRecommendations, Where: map[string]any{"id": 1}, Expect: map[string]any{"sector": "복지"}},
		{Type: AssertRowCount, Table: TableRecommendations},
	}
	for i, a := range valid {
		assert.NoError(t, validateAssertion(i, &a))
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: one\ndescription: d\nsteps:\n  - visit: true\n"), 0o644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "one", scenario.Name)

	_, err = LoadScenario(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
