package store

import (
	"context"
	"fmt"
	"strings"
)

// SolveFilter selects solves from the log. Empty fields match everything.
type SolveFilter struct {
	RunToken string
	Leg      string

	// Outcome is OutcomeOK or an ik error code.
	Outcome string

	// Limit caps the number of rows; 0 means no limit.
	Limit int
}

// compile converts the filter to parameterized SQL. Values are never
// interpolated and every query carries the log's stable ORDER BY.
func (f SolveFilter) compile() (string, []any, error) {
	if f.Limit < 0 {
		return "", nil, fmt.Errorf("limit must not be negative, got %d", f.Limit)
	}

	var preds []string
	var params []any
	eq := func(column, value string) {
		if value == "" {
			return
		}
		preds = append(preds, column+" = ?")
		params = append(params, value)
	}
	eq("run_token", f.RunToken)
	eq("leg", f.Leg)
	eq("outcome", f.Outcome)

	var b strings.Builder
	b.WriteString("SELECT id, run_token, leg, request, outcome, result, seq FROM solves")
	if len(preds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(preds, " AND "))
	}
	b.WriteString(" ORDER BY seq ASC, id COLLATE BINARY ASC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, f.Limit)
	}
	return b.String(), params, nil
}

// QuerySolves returns the solves matching f in seq order.
func (s *Store) QuerySolves(ctx context.Context, f SolveFilter) ([]Solve, error) {
	query, params, err := f.compile()
	if err != nil {
		return nil, fmt.Errorf("query solves: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query solves: %w", err)
	}
	defer rows.Close()

	solves := []Solve{}
	for rows.Next() {
		sv, err := scanSolve(rows)
		if err != nil {
			return nil, err
		}
		solves = append(solves, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate solves: %w", err)
	}
	return solves, nil
}
