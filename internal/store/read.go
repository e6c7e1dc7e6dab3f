package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ReadRun returns a run and its solves.
// Solves are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns sql.ErrNoRows (wrapped) if the run does not exist.
func (s *Store) ReadRun(ctx context.Context, token string) (Run, []Solve, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token, robot_name, robot_hash, robot, seq, solver_version, encoding_version
		FROM runs
		WHERE token = ?
	`, token)
	run, err := scanRun(row)
	if err != nil {
		return Run{}, nil, fmt.Errorf("read run %s: %w", token, err)
	}

	solves, err := s.readSolves(ctx, token)
	if err != nil {
		return Run{}, nil, fmt.Errorf("read run %s: %w", token, err)
	}
	return run, solves, nil
}

// ListRuns returns every run, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, robot_name, robot_hash, robot, seq, solver_version, encoding_version
		FROM runs
		ORDER BY seq ASC, token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadSolve retrieves a single solve by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadSolve(ctx context.Context, id string) (Solve, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, run_token, leg, request, outcome, result, seq
		FROM solves
		WHERE id = ?
	`, id)
	return scanSolve(row)
}

func (s *Store) readSolves(ctx context.Context, token string) ([]Solve, error) {
	return s.QuerySolves(ctx, SolveFilter{RunToken: token})
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var robot string
	if err := sc.Scan(&run.Token, &run.RobotName, &run.RobotHash, &robot, &run.Seq, &run.SolverVersion, &run.EncodingVersion); err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	_, legs, err := unmarshalRobot(robot)
	if err != nil {
		return Run{}, err
	}
	run.Legs = legs
	return run, nil
}

func scanSolve(sc scanner) (Solve, error) {
	var sv Solve
	var req, result string
	if err := sc.Scan(&sv.ID, &sv.RunToken, &sv.Leg, &req, &sv.Outcome, &result, &sv.Seq); err != nil {
		if err == sql.ErrNoRows {
			return Solve{}, err
		}
		return Solve{}, fmt.Errorf("scan solve: %w", err)
	}

	var err error
	if sv.Request, err = unmarshalRequest(req); err != nil {
		return Solve{}, err
	}
	if sv.Angles, sv.Joint, err = unmarshalResult(result); err != nil {
		return Solve{}, err
	}
	return sv, nil
}

// LastSeq returns the highest seq stamped on any run or solve, or 0 for an
// empty log. Pass it to NewClockAt to continue a log across processes.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM (
			SELECT seq FROM runs
			UNION ALL
			SELECT seq FROM solves
		)
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("read last seq: %w", err)
	}
	return seq, nil
}
