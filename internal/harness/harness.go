package harness

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/roach88/hexleg/internal/ik"
	"github.com/roach88/hexleg/internal/robot"
	"github.com/roach88/hexleg/internal/store"
	"github.com/roach88/hexleg/internal/testutil"
)

// Harness executes one scenario against one robot.
type Harness struct {
	store  *store.Store
	robot  *robot.Robot
	rec    *store.Recorder
	logger *slog.Logger
}

// Run executes a scenario against the robot it names and returns the result.
func Run(scenario *Scenario) (*Result, error) {
	r, err := robot.LoadOrDefault(scenario.Robot)
	if err != nil {
		return nil, fmt.Errorf("failed to load robot: %w", err)
	}
	return RunWithRobot(scenario, r)
}

// RunWithRobot executes a scenario against r, ignoring the scenario's robot.
//
// Each scenario runs in a fresh in-memory solve log for isolation.
// Execution flow:
//  1. Start a run with a fixed token and deterministic clock
//  2. Solve every step with ik.SolveBody and record the outcomes
//  3. Read the trace back from the log
//  4. Check per-leg expectations, then assertions
func RunWithRobot(scenario *Scenario, r *robot.Robot) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	rec, err := st.StartRun(ctx,
		testutil.NewFixedTokenGenerator(scenario.RunToken),
		testutil.NewDeterministicClock(),
		r.Name, r.Legs)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	h := &Harness{
		store:  st,
		robot:  r,
		rec:    rec,
		logger: slog.Default().With("scenario", scenario.Name),
	}

	result := NewResult()
	result.RunToken = rec.Run().Token
	result.RobotHash = rec.Run().RobotHash

	var stepOf []string
	for _, step := range scenario.Steps {
		legs, err := h.executeStep(ctx, scenario, step)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", step.Name, err)
		}
		for range legs {
			stepOf = append(stepOf, step.Name)
		}
	}

	if err := h.readTrace(ctx, stepOf, result); err != nil {
		return nil, err
	}

	for _, step := range scenario.Steps {
		for _, msg := range checkExpectations(step, result.Trace) {
			result.AddError(msg)
		}
	}

	actx := &AssertionContext{Store: st, Robot: r, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// executeStep solves one pose for every leg with a target, in robot order.
func (h *Harness) executeStep(ctx context.Context, scenario *Scenario, step Step) ([]string, error) {
	targets := make(map[string]Point, len(scenario.Stance))
	for leg, p := range scenario.Stance {
		targets[leg] = p
	}
	for leg, p := range step.Targets {
		targets[leg] = p
	}

	for _, leg := range sortedKeys(targets) {
		if _, ok := h.robot.Leg(leg); !ok {
			return nil, fmt.Errorf("unknown leg %q", leg)
		}
	}

	var legs []ik.Leg
	var reqs []ik.Request
	var names []string
	for _, leg := range h.robot.Legs {
		p, ok := targets[leg.Name]
		if !ok {
			continue
		}
		legs = append(legs, leg)
		names = append(names, leg.Name)
		reqs = append(reqs, ik.Request{
			Target:      ik.ApplyOffset(p.Vector(), step.Offset.Vector()),
			Orientation: step.Orientation,
		})
	}

	outcomes, err := ik.SolveBody(legs, reqs)
	if err != nil {
		return nil, err
	}
	if err := h.rec.Record(ctx, reqs, outcomes); err != nil {
		return nil, err
	}

	h.logger.Debug("step solved", "step", step.Name, "legs", len(legs))
	return names, nil
}

// readTrace rebuilds the trace from the solve log.
func (h *Harness) readTrace(ctx context.Context, stepOf []string, result *Result) error {
	_, solves, err := h.store.ReadRun(ctx, result.RunToken)
	if err != nil {
		return fmt.Errorf("failed to read trace: %w", err)
	}
	if len(solves) != len(stepOf) {
		return fmt.Errorf("trace has %d solves, expected %d", len(solves), len(stepOf))
	}

	for i, sv := range solves {
		result.Trace = append(result.Trace, TraceEvent{
			Step:        stepOf[i],
			Leg:         sv.Leg,
			Seq:         sv.Seq,
			Target:      sv.Request.Target,
			Orientation: sv.Request.Orientation,
			Outcome:     sv.Outcome,
			Angles:      sv.Angles,
			Joint:       sv.Joint,
		})
	}
	return nil
}

// checkExpectations compares a step's per-leg expectations with the trace.
func checkExpectations(step Step, trace []TraceEvent) []string {
	var errs []string
	for _, leg := range sortedKeys(step.Expect) {
		want := step.Expect[leg]
		got, ok := findEvent(trace, step.Name, leg)
		if !ok {
			errs = append(errs, fmt.Sprintf("step %q leg %s: no solve recorded", step.Name, leg))
			continue
		}
		if msg := compareExpect(want, got); msg != "" {
			errs = append(errs, fmt.Sprintf("step %q leg %s: %s", step.Name, leg, msg))
		}
	}
	return errs
}

func findEvent(trace []TraceEvent, step, leg string) (TraceEvent, bool) {
	for _, e := range trace {
		if e.Step == step && e.Leg == leg {
			return e, true
		}
	}
	return TraceEvent{}, false
}

func compareExpect(want Expect, got TraceEvent) string {
	if want.Unreachable != "" {
		code, _ := OutcomeCode(want.Unreachable)
		if got.Outcome != code {
			return fmt.Sprintf("expected %s, got %s", code, describeEvent(got))
		}
		if want.Joint != "" && got.Joint != want.Joint {
			return fmt.Sprintf("expected failing joint %s, got %s", want.Joint, got.Joint)
		}
		return ""
	}

	if !got.OK() {
		return fmt.Sprintf("expected angles %v, got %s", *want.Angles, describeEvent(got))
	}
	tol := want.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	for i, j := range ik.Joints {
		if diff := math.Abs(got.Angles.Get(j) - want.Angles[i]); !(diff <= tol) {
			return fmt.Sprintf("%s expected %.9f±%g, got %.9f", j, want.Angles[i], tol, got.Angles.Get(j))
		}
	}
	return ""
}

func describeEvent(e TraceEvent) string {
	if e.OK() {
		return e.Angles.String()
	}
	if e.Joint != "" {
		return e.Outcome + " (" + e.Joint + ")"
	}
	return e.Outcome
}
