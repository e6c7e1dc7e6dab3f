package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/hexleg/internal/ik"
)

// Scenario is a sequence of body poses solved against one robot.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Robot is a CUE robot directory. Empty selects the built-in Phoenix.
	// Relative paths resolve against the scenario file.
	Robot string `yaml:"robot,omitempty"`

	// RunToken fixes the run token for golden output.
	// Defaults to "test-run-default".
	RunToken string `yaml:"run_token,omitempty"`

	// Stance holds the default foot target of each leg, in body space.
	Stance map[string]Point `yaml:"stance,omitempty"`

	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one body pose.
type Step struct {
	Name        string         `yaml:"name"`
	Orientation ik.Orientation `yaml:"orientation,omitempty"`

	// Offset shifts the body; every foot target moves by -Offset.
	Offset Point `yaml:"offset,omitempty"`

	// Targets override the stance for individual legs.
	Targets map[string]Point `yaml:"targets,omitempty"`

	// Expect checks individual legs. Legs not listed are not checked.
	Expect map[string]Expect `yaml:"expect,omitempty"`
}

// Expect is the expected outcome of one leg in one step.
type Expect struct {
	// Angles are coxa, femur, tibia in degrees.
	Angles *Point `yaml:"angles,omitempty"`

	// Tolerance applies to each angle. Defaults to DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Unreachable is "geometric" or "range".
	Unreachable string `yaml:"unreachable,omitempty"`

	// Joint optionally names the failing joint of a range failure.
	Joint string `yaml:"joint,omitempty"`
}

// DefaultTolerance is the angle tolerance in degrees when none is given.
const DefaultTolerance = 1e-6

// Assertion validates the whole trace.
type Assertion struct {
	// Type is one of outcome_count, all_reachable, within_range, deterministic.
	Type string `yaml:"type"`

	// Leg restricts the assertion to one leg.
	Leg string `yaml:"leg,omitempty"`

	// Outcome is ok, geometric, or range (used by outcome_count).
	Outcome string `yaml:"outcome,omitempty"`

	// Count is the expected number of matching solves (used by outcome_count).
	Count int `yaml:"count"`
}

// Assertion type constants.
const (
	AssertOutcomeCount  = "outcome_count"
	AssertAllReachable  = "all_reachable"
	AssertWithinRange   = "within_range"
	AssertDeterministic = "deterministic"
)

// Short outcome names used in scenarios.
const (
	OutcomeOK        = "ok"
	OutcomeGeometric = "geometric"
	OutcomeRange     = "range"
)

const outcomeOK = "OK"

// OutcomeCode maps a short outcome name to the recorded outcome.
func OutcomeCode(name string) (string, bool) {
	switch name {
	case OutcomeOK:
		return outcomeOK, true
	case OutcomeGeometric:
		return string(ik.ErrCodeGeometricallyUnreachable), true
	case OutcomeRange:
		return string(ik.ErrCodeOutOfMechanicalRange), true
	default:
		return "", false
	}
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative robot path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Robot != "" && !filepath.IsAbs(scenario.Robot) {
		scenario.Robot = filepath.Join(filepath.Dir(path), scenario.Robot)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML with strict field validation.
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
// Leg names are checked against the robot at run time.
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

	seen := make(map[string]bool)
	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if seen[step.Name] {
			return fmt.Errorf("steps[%d]: duplicate step name %q", i, step.Name)
		}
		seen[step.Name] = true

		if len(step.Targets) == 0 && len(s.Stance) == 0 {
			return fmt.Errorf("steps[%d]: no targets and no stance", i)
		}
		for _, leg := range sortedKeys(step.Expect) {
			if err := validateExpect(step.Expect[leg]); err != nil {
				return fmt.Errorf("steps[%d].expect.%s: %w", i, leg, err)
			}
			if _, ok := step.Targets[leg]; !ok {
				if _, ok := s.Stance[leg]; !ok {
					return fmt.Errorf("steps[%d].expect.%s: leg has no target", i, leg)
				}
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateExpect(e Expect) error {
	switch {
	case e.Angles == nil && e.Unreachable == "":
		return fmt.Errorf("one of angles or unreachable is required")
	case e.Angles != nil && e.Unreachable != "":
		return fmt.Errorf("angles and unreachable are mutually exclusive")
	case e.Tolerance < 0:
		return fmt.Errorf("tolerance must be non-negative")
	}
	if e.Unreachable != "" && e.Unreachable != OutcomeGeometric && e.Unreachable != OutcomeRange {
		return fmt.Errorf("unreachable must be %q or %q, got %q", OutcomeGeometric, OutcomeRange, e.Unreachable)
	}
	if e.Joint != "" {
		if e.Unreachable != OutcomeRange {
			return fmt.Errorf("joint is only meaningful for range failures")
		}
		if !validJoint(e.Joint) {
			return fmt.Errorf("unknown joint %q", e.Joint)
		}
	}
	return nil
}

func validJoint(name string) bool {
	for _, j := range ik.Joints {
		if j.String() == name {
			return true
		}
	}
	return false
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertOutcomeCount:
		if _, ok := OutcomeCode(a.Outcome); !ok {
			return fmt.Errorf("assertions[%d]: outcome must be ok, geometric, or range for outcome_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for outcome_count", index)
		}
	case AssertAllReachable, AssertWithinRange, AssertDeterministic:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
