package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/hexleg/internal/geom"
	"github.com/roach88/hexleg/internal/ik"
	"github.com/roach88/hexleg/internal/robot"
	"github.com/roach88/hexleg/internal/testutil"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// frontPair returns the Phoenix r1 and l1 legs.
func frontPair(t *testing.T) []ik.Leg {
	t.Helper()
	r := robot.Phoenix()
	r1, _ := r.Leg("r1")
	l1, _ := r.Leg("l1")
	return []ik.Leg{r1, l1}
}

// Requests for frontPair: both reachable.
var homeRequests = []ik.Request{
	{Target: geom.V(11.25, -4, 12.15)},
	{Target: geom.V(-11.25, -4, 12.15)},
}

// Requests for frontPair: r1 coxa out of range, l1 geometrically unreachable.
var failingRequests = []ik.Request{
	{Target: geom.V(11.25, -4, 4)},
	{Target: geom.V(-60, -4, 12.15)},
}

// recordRun solves and records each request set as one body solve.
func recordRun(t *testing.T, s *Store, token string, legs []ik.Leg, sets ...[]ik.Request) Run {
	t.Helper()
	ctx := context.Background()

	rec, err := s.StartRun(ctx, testutil.NewFixedTokenGenerator(token), testutil.NewDeterministicClock(), "phoenix", legs)
	if err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	for _, reqs := range sets {
		outcomes, err := ik.SolveBody(legs, reqs)
		if err != nil {
			t.Fatalf("SolveBody() failed: %v", err)
		}
		if err := rec.Record(ctx, reqs, outcomes); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}
	return rec.Run()
}
