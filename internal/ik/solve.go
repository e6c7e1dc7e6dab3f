package ik

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Solve runs the full pipeline for one leg: body-pose transform, analytic
// solve, and range resolution. On any failure the returned angles are zero
// and err is an *UnreachableError naming the leg.
func Solve(req Request, leg Leg) (JointAngles, error) {
	local := ToLegFrame(req.Target, leg.Geometry.Origin, req.Orientation)

	raw, err := SolveLocal(local, leg.Geometry)
	if err != nil {
		return JointAngles{}, withLeg(err, leg.Name)
	}

	angles, err := Resolve(raw, leg.Ranges)
	if err != nil {
		return JointAngles{}, withLeg(err, leg.Name)
	}
	return angles, nil
}

// Outcome is the per-leg result of SolveBody.
type Outcome struct {
	Leg    string
	Angles JointAngles

	// Err is nil or an *UnreachableError. A failed leg carries no angles.
	Err error
}

// OK reports whether the leg was solved.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// SolveBody solves every leg against its request. reqs[i] belongs to legs[i].
// Legs are independent and are solved concurrently, at most GOMAXPROCS at a
// time; outcomes are returned in leg order. One leg failing never affects
// another.
//
// The returned error is non-nil only when the inputs are mismatched.
func SolveBody(legs []Leg, reqs []Request) ([]Outcome, error) {
	if len(legs) != len(reqs) {
		return nil, fmt.Errorf("solve body: %d legs but %d requests", len(legs), len(reqs))
	}

	out := make([]Outcome, len(legs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range legs {
		g.Go(func() error {
			angles, err := Solve(reqs[i], legs[i])
			out[i] = Outcome{Leg: legs[i].Name, Angles: angles, Err: err}
			return nil
		})
	}
	// Workers never return errors; Wait is only a barrier.
	_ = g.Wait()

	return out, nil
}

func withLeg(err error, name string) error {
	var ue *UnreachableError
	if name == "" || !errors.As(err, &ue) {
		return err
	}
	tagged := *ue
	tagged.Leg = name
	return &tagged
}
