package store

import (
	"context"
	"fmt"
	"math"

	"github.com/roach88/hexleg/internal/ik"
	"github.com/roach88/hexleg/internal/ir"
)

// Divergence is a logged solve whose replay did not match bit for bit.
type Divergence struct {
	SolveID  string `json:"solve_id"`
	Leg      string `json:"leg"`
	Seq      int64  `json:"seq"`
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

// ReplayResult summarizes a determinism replay.
type ReplayResult struct {
	RunToken  string
	RobotHash string
	Total     int
	Diverged  []Divergence
}

// Deterministic reports whether every solve replayed identically.
func (r ReplayResult) Deterministic() bool {
	return len(r.Diverged) == 0
}

// Replay re-solves every logged request of a run and compares the outcome
// with what was recorded. Angles must match bit for bit; failures must match
// in code and joint.
//
// legs overrides the recorded robot when non-nil, which checks a changed
// description against an old log. Otherwise the stored robot is used and its
// hash is verified first.
func (s *Store) Replay(ctx context.Context, token string, legs []ik.Leg) (ReplayResult, error) {
	run, solves, err := s.ReadRun(ctx, token)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	if legs == nil {
		hash, err := ir.RobotHash(RobotObject(run.RobotName, run.Legs))
		if err != nil {
			return ReplayResult{}, fmt.Errorf("replay: %w", err)
		}
		if hash != run.RobotHash {
			return ReplayResult{}, fmt.Errorf("replay: stored robot hash %s does not match contents %s", run.RobotHash, hash)
		}
		legs = run.Legs
	}

	byName := make(map[string]ik.Leg, len(legs))
	for _, l := range legs {
		byName[l.Name] = l
	}

	result := ReplayResult{RunToken: run.Token, RobotHash: run.RobotHash, Total: len(solves)}
	for _, sv := range solves {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("replay: %w", err)
		}

		leg, ok := byName[sv.Leg]
		if !ok {
			result.Diverged = append(result.Diverged, Divergence{
				SolveID: sv.ID, Leg: sv.Leg, Seq: sv.Seq,
				Recorded: describe(sv), Replayed: "leg not in robot",
			})
			continue
		}

		angles, err := ik.Solve(sv.Request, leg)
		replayed, err := NewSolve(sv.RunToken, sv.Leg, sv.Request, angles, err, sv.Seq)
		if err != nil {
			return result, fmt.Errorf("replay: %w", err)
		}
		if !sameOutcome(sv, replayed) {
			result.Diverged = append(result.Diverged, Divergence{
				SolveID: sv.ID, Leg: sv.Leg, Seq: sv.Seq,
				Recorded: describe(sv), Replayed: describe(replayed),
			})
		}
	}
	return result, nil
}

func sameOutcome(a, b Solve) bool {
	if a.Outcome != b.Outcome || a.Joint != b.Joint {
		return false
	}
	return bitsEqual(a.Angles.Coxa, b.Angles.Coxa) &&
		bitsEqual(a.Angles.Femur, b.Angles.Femur) &&
		bitsEqual(a.Angles.Tibia, b.Angles.Tibia)
}

func bitsEqual(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

func describe(sv Solve) string {
	if sv.OK() {
		return sv.Angles.String() + fmt.Sprintf(" [%s %s %s]",
			ir.FloatString(sv.Angles.Coxa), ir.FloatString(sv.Angles.Femur), ir.FloatString(sv.Angles.Tibia))
	}
	if sv.Joint != "" {
		return sv.Outcome + " (" + sv.Joint + ")"
	}
	return sv.Outcome
}
