package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/hexleg/internal/ik"
	"github.com/roach88/hexleg/internal/robot"
	"github.com/roach88/hexleg/internal/store"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, event)
		}
	}
	return buf.String()
}

// AssertionContext carries what assertions need beyond the trace.
type AssertionContext struct {
	Store *store.Store
	Robot *robot.Robot
	Ctx   context.Context
}

// EvaluateAssertions runs every assertion and returns failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertOutcomeCount:
		return assertOutcomeCount(result.Trace, a)
	case AssertAllReachable:
		return assertAllReachable(result.Trace, a)
	case AssertWithinRange:
		return assertWithinRange(result.Trace, a, actx.Robot)
	case AssertDeterministic:
		return assertDeterministic(actx, result.RunToken)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func forLeg(trace []TraceEvent, leg string) []TraceEvent {
	if leg == "" {
		return trace
	}
	var out []TraceEvent
	for _, e := range trace {
		if e.Leg == leg {
			out = append(out, e)
		}
	}
	return out
}

func subject(a Assertion) string {
	if a.Leg == "" {
		return "all legs"
	}
	return "leg " + a.Leg
}

// assertOutcomeCount checks the number of solves that ended with an outcome.
func assertOutcomeCount(trace []TraceEvent, a Assertion) error {
	code, _ := OutcomeCode(a.Outcome)
	events := forLeg(trace, a.Leg)

	count := 0
	for _, e := range events {
		if e.Outcome == code {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertOutcomeCount,
			Expected: fmt.Sprintf("%d %s solves for %s", a.Count, a.Outcome, subject(a)),
			Actual:   fmt.Sprintf("%d", count),
			Trace:    events,
		}
	}
	return nil
}

// assertAllReachable checks that no solve failed.
func assertAllReachable(trace []TraceEvent, a Assertion) error {
	events := forLeg(trace, a.Leg)
	if len(events) == 0 {
		return &AssertionError{
			Type:     AssertAllReachable,
			Expected: fmt.Sprintf("solves for %s", subject(a)),
			Actual:   "none recorded",
		}
	}
	for _, e := range events {
		if !e.OK() {
			return &AssertionError{
				Type:     AssertAllReachable,
				Expected: fmt.Sprintf("every solve for %s reachable", subject(a)),
				Actual:   e.String(),
				Trace:    events,
			}
		}
	}
	return nil
}

// assertWithinRange checks every solved angle against its joint range.
func assertWithinRange(trace []TraceEvent, a Assertion, r *robot.Robot) error {
	for _, e := range forLeg(trace, a.Leg) {
		if !e.OK() {
			continue
		}
		leg, ok := r.Leg(e.Leg)
		if !ok {
			return fmt.Errorf("leg %q not in robot", e.Leg)
		}
		for _, j := range ik.Joints {
			rg := leg.Ranges.For(j)
			if deg := e.Angles.Get(j); !rg.Contains(deg) {
				return &AssertionError{
					Type:     AssertWithinRange,
					Expected: fmt.Sprintf("%s %s within %s", e.Leg, j, rg),
					Actual:   fmt.Sprintf("%.9f at step %q", deg, e.Step),
				}
			}
		}
	}
	return nil
}

// assertDeterministic replays the recorded run and requires bit-identical outcomes.
func assertDeterministic(actx *AssertionContext, token string) error {
	res, err := actx.Store.Replay(actx.Ctx, token, nil)
	if err != nil {
		return err
	}
	if !res.Deterministic() {
		d := res.Diverged[0]
		return &AssertionError{
			Type:     AssertDeterministic,
			Expected: fmt.Sprintf("%d solves replay identically", res.Total),
			Actual:   fmt.Sprintf("%d diverged, first %s seq %d: recorded %s, replayed %s", len(res.Diverged), d.Leg, d.Seq, d.Recorded, d.Replayed),
		}
	}
	return nil
}
