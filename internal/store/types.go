package store

import "github.com/roach88/hexleg/internal/ik"

// OutcomeOK marks a solve that produced angles. Failed solves record the
// ik error code instead.
const OutcomeOK = "OK"

// Run is one recorded session of solves against a fixed robot.
type Run struct {
	Token     string
	RobotName string

	// RobotHash is ir.RobotHash of the canonical robot object.
	RobotHash string
	Legs      []ik.Leg

	Seq             int64
	SolverVersion   string
	EncodingVersion string
}

// Leg returns the recorded leg with the given name.
func (r Run) Leg(name string) (ik.Leg, bool) {
	for _, l := range r.Legs {
		if l.Name == name {
			return l, true
		}
	}
	return ik.Leg{}, false
}

// Solve is one logged leg solve.
type Solve struct {
	ID       string
	RunToken string
	Leg      string
	Request  ik.Request

	// Outcome is OutcomeOK or an ik.ErrorCode.
	Outcome string

	// Angles is set when Outcome is OutcomeOK.
	Angles ik.JointAngles

	// Joint names the failing joint for OUT_OF_MECHANICAL_RANGE.
	Joint string

	Seq int64
}

// OK reports whether the solve produced angles.
func (s Solve) OK() bool {
	return s.Outcome == OutcomeOK
}
