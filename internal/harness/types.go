package harness

import (
	"fmt"

	"github.com/roach88/hexleg/internal/geom"
	"github.com/roach88/hexleg/internal/ik"
)

// Point is a compact YAML triple, written [x, y, z].
type Point [3]float64

// Vector converts p to a body-space vector.
func (p Point) Vector() geom.Vector3 {
	return geom.V(p[0], p[1], p[2])
}

// TraceEvent is one leg solve within a scenario run.
type TraceEvent struct {
	Step string `json:"step"`
	Leg  string `json:"leg"`
	Seq  int64  `json:"seq"`

	// Target is the body-space target after the step's offset is applied.
	Target      geom.Vector3   `json:"target"`
	Orientation ik.Orientation `json:"orientation"`

	// Outcome is "OK" or an ik error code.
	Outcome string         `json:"outcome"`
	Angles  ik.JointAngles `json:"angles"`
	Joint   string         `json:"joint,omitempty"`
}

// OK reports whether the leg was solved.
func (e TraceEvent) OK() bool {
	return e.Outcome == outcomeOK
}

func (e TraceEvent) String() string {
	if e.OK() {
		return fmt.Sprintf("%s/%s: %s", e.Step, e.Leg, e.Angles)
	}
	if e.Joint != "" {
		return fmt.Sprintf("%s/%s: %s (%s)", e.Step, e.Leg, e.Outcome, e.Joint)
	}
	return fmt.Sprintf("%s/%s: %s", e.Step, e.Leg, e.Outcome)
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	RunToken  string `json:"run_token"`
	RobotHash string `json:"robot_hash"`

	// Trace lists every leg solve in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors is empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
