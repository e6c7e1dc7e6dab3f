package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/hexleg/internal/ir"
)

// Snapshot renders a result as canonical JSON for golden comparison.
//
// Numbers are fixed-point decimal strings with nine places so golden files
// stay readable and stable across platforms whose last-bit rounding differs.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	trace := make(ir.Array, len(result.Trace))
	for i, e := range result.Trace {
		ev := ir.Object{
			"step":        ir.String(e.Step),
			"leg":         ir.String(e.Leg),
			"seq":         ir.Int(e.Seq),
			"target":      decimals(e.Target.X, e.Target.Y, e.Target.Z),
			"orientation": decimals(e.Orientation.Roll, e.Orientation.Pitch, e.Orientation.Yaw),
			"outcome":     ir.String(e.Outcome),
		}
		if e.OK() {
			ev["angles"] = decimals(e.Angles.Coxa, e.Angles.Femur, e.Angles.Tibia)
		}
		if e.Joint != "" {
			ev["joint"] = ir.String(e.Joint)
		}
		trace[i] = ev
	}

	snapshot := ir.Object{
		"scenario_name": ir.String(scenarioName),
		"run_token":     ir.String(result.RunToken),
		"robot_hash":    ir.String(result.RobotHash),
		"trace":         trace,
	}
	data, err := ir.MarshalCanonical(snapshot)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", scenarioName, err)
	}
	return data, nil
}

func decimals(xs ...float64) ir.Array {
	arr := make(ir.Array, len(xs))
	for i, x := range xs {
		arr[i] = ir.String(formatDecimal(x))
	}
	return arr
}

// formatDecimal prints x with nine places, folding negative zero into zero.
func formatDecimal(x float64) string {
	s := fmt.Sprintf("%.9f", x)
	if s == "-0.000000000" {
		return "0.000000000"
	}
	return s
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
