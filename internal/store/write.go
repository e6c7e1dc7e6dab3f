package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/hexleg/internal/ik"
	"github.com/roach88/hexleg/internal/ir"
)

// NewRun builds a run record for the given robot, stamping it with token
// and seq and computing the robot hash.
func NewRun(token, robotName string, legs []ik.Leg, seq int64) (Run, error) {
	hash, err := ir.RobotHash(RobotObject(robotName, legs))
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}
	return Run{
		Token:           token,
		RobotName:       robotName,
		RobotHash:       hash,
		Legs:            legs,
		Seq:             seq,
		SolverVersion:   ir.SolverVersion,
		EncodingVersion: ir.EncodingVersion,
	}, nil
}

// NewSolve builds a solve record from one leg's outcome. err must be nil or
// an *ik.UnreachableError.
func NewSolve(runToken, leg string, req ik.Request, angles ik.JointAngles, err error, seq int64) (Solve, error) {
	id, idErr := ir.SolveID(runToken, leg, RequestObject(req), seq)
	if idErr != nil {
		return Solve{}, fmt.Errorf("new solve: %w", idErr)
	}

	s := Solve{
		ID:       id,
		RunToken: runToken,
		Leg:      leg,
		Request:  req,
		Outcome:  OutcomeOK,
		Angles:   angles,
		Seq:      seq,
	}
	if err != nil {
		code := ik.CodeOf(err)
		if code == "" {
			return Solve{}, fmt.Errorf("new solve: leg %s: unexpected error: %w", leg, err)
		}
		s.Outcome = string(code)
		s.Angles = ik.JointAngles{}
		var ue *ik.UnreachableError
		if errors.As(err, &ue) && code == ik.ErrCodeOutOfMechanicalRange {
			s.Joint = ue.Joint.String()
		}
	}
	return s, nil
}

// WriteRun inserts a run record.
// Uses ON CONFLICT(token) DO NOTHING for idempotency.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	robotJSON, err := marshalObject(RobotObject(run.RobotName, run.Legs))
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(token, robot_name, robot_hash, robot, seq, solver_version, encoding_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.RobotName,
		run.RobotHash,
		robotJSON,
		run.Seq,
		run.SolverVersion,
		run.EncodingVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteSolve inserts a solve record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
//
// Note: The run referenced by RunToken must exist (foreign key constraint).
func (s *Store) WriteSolve(ctx context.Context, sv Solve) error {
	reqJSON, err := marshalObject(RequestObject(sv.Request))
	if err != nil {
		return fmt.Errorf("write solve: %w", err)
	}
	result := ResultObject(sv.Angles, nil)
	if !sv.OK() {
		result = ir.Object{"code": ir.String(sv.Outcome)}
		if sv.Joint != "" {
			result["joint"] = ir.String(sv.Joint)
		}
	}
	resultJSON, err := marshalObject(result)
	if err != nil {
		return fmt.Errorf("write solve: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO solves
		(id, run_token, leg, request, outcome, result, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sv.ID,
		sv.RunToken,
		sv.Leg,
		reqJSON,
		sv.Outcome,
		resultJSON,
		sv.Seq,
	)
	if err != nil {
		return fmt.Errorf("write solve: %w", err)
	}
	return nil
}

// Recorder logs body solves into one run.
type Recorder struct {
	store *Store
	clock Sequencer
	run   Run
}

// StartRun writes a new run for the robot and returns a recorder for it.
func (s *Store) StartRun(ctx context.Context, gen TokenGenerator, clock Sequencer, robotName string, legs []ik.Leg) (*Recorder, error) {
	run, err := NewRun(gen.Generate(), robotName, legs, clock.Next())
	if err != nil {
		return nil, err
	}
	if err := s.WriteRun(ctx, run); err != nil {
		return nil, err
	}
	slog.Info("run recorded", "token", run.Token, "robot", robotName, "legs", len(legs))
	return &Recorder{store: s, clock: clock, run: run}, nil
}

// Run returns the run being recorded.
func (r *Recorder) Run() Run {
	return r.run
}

// Record logs each outcome with its request. reqs[i] belongs to outcomes[i].
func (r *Recorder) Record(ctx context.Context, reqs []ik.Request, outcomes []ik.Outcome) error {
	if len(reqs) != len(outcomes) {
		return fmt.Errorf("record: %d requests but %d outcomes", len(reqs), len(outcomes))
	}
	for i, o := range outcomes {
		sv, err := NewSolve(r.run.Token, o.Leg, reqs[i], o.Angles, o.Err, r.clock.Next())
		if err != nil {
			return fmt.Errorf("record: %w", err)
		}
		if err := r.store.WriteSolve(ctx, sv); err != nil {
			return fmt.Errorf("record: %w", err)
		}
	}
	return nil
}
