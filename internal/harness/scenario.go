package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/minwook-byun/recpool/internal/config"
)

// Step actions.
const (
	ActionSearch = "search"
	ActionSubmit = "submit"
	ActionVisit  = "visit"
	ActionList   = "list"
)

// Cycle is one historical cycle of a scenario-local registry.
type Cycle = config.Cycle

// Scenario describes a sequence of intake steps and the expected results.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Cycles replaces the default historical registry when non-empty.
	Cycles []Cycle `yaml:"cycles,omitempty"`

	// Steps run in order against one service instance.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and store contents.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is exactly one action with an optional expectation.
type Step struct {
	// Search checks a company name.
	Search *string `yaml:"search,omitempty"`

	// Submit stores a recommendation.
	Submit *SubmitArgs `yaml:"submit,omitempty"`

	// Visit records one session visit when true.
	Visit bool `yaml:"visit,omitempty"`

	// List reads the N most recent recommendations.
	List *int `yaml:"list,omitempty"`

	// Expect validates the completion. If nil, any non-error completion passes.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// SubmitArgs are the form fields of a submit step.
type SubmitArgs struct {
	CompanyName     string `yaml:"company_name"`
	ContactPerson   string `yaml:"contact_person"`
	ContactEmail    string `yaml:"contact_email"`
	ContactPhone    string `yaml:"contact_phone"`
	Sector          string `yaml:"sector"`
	SectorDetail    string `yaml:"sector_detail,omitempty"`
	InvestmentStage string `yaml:"investment_stage,omitempty"`
	IntroURL        string `yaml:"intro_url,omitempty"`
	Reason          string `yaml:"reason"`
}

// ExpectClause specifies the expected completion.
type ExpectClause struct {
	// Case is the expected output case or rejection code.
	Case string `yaml:"case"`

	// Result is a subset match against the completion result.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Action is used by trace_contains and trace_count.
	Action string `yaml:"action,omitempty"`

	// Args are matched as a subset by trace_contains.
	Args map[string]any `yaml:"args,omitempty"`

	// Table is "recommendations" or "visit_counter" (final_state, row_count).
	Table string `yaml:"table,omitempty"`

	// Where selects exactly one recommendation row (final_state).
	Where map[string]any `yaml:"where,omitempty"`

	// Expect is matched as a subset against the selected row (final_state).
	Expect map[string]any `yaml:"expect,omitempty"`

	// Count is used by trace_count and row_count.
	Count int `yaml:"count,omitempty"`

	// Actions is the expected order for trace_order.
	Actions []string `yaml:"actions,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertRowCount      = "row_count"
)

// State tables addressable by assertions.
const (
	TableRecommendations = "recommendations"
	TableVisitCounter    = "visit_counter"
)

// Action returns the step's action name, or "" if none or several are set.
func (s Step) Action() string {
	var actions []string
	if s.Search != nil {
		actions = append(actions, ActionSearch)
	}
	if s.Submit != nil {
		actions = append(actions, ActionSubmit)
	}
	if s.Visit {
		actions = append(actions, ActionVisit)
	}
	if s.List != nil {
		actions = append(actions, ActionList)
	}
	if len(actions) != 1 {
		return ""
	}
	return actions[0]
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, c := range s.Cycles {
		if c.Name == "" {
			return fmt.Errorf("cycles[%d]: name is required", i)
		}
	}

	for i, step := range s.Steps {
		if step.Action() == "" {
			return fmt.Errorf("steps[%d]: exactly one of search, submit, visit or list is required", i)
		}
		if step.List != nil && *step.List < 0 {
			return fmt.Errorf("steps[%d]: list must be non-negative", i)
		}
		if step.Expect != nil && step.Expect.Case == "" {
			return fmt.Errorf("steps[%d].expect: case is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		switch a.Table {
		case TableRecommendations:
			if len(a.Where) == 0 {
				return fmt.Errorf("assertions[%d]: where is required for final_state on %s", index, a.Table)
			}
		case TableVisitCounter:
		case "":
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		default:
			return fmt.Errorf("assertions[%d]: unknown table %q", index, a.Table)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertRowCount:
		if a.Table != TableRecommendations {
			return fmt.Errorf("assertions[%d]: row_count supports only table %s", index, TableRecommendations)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
