package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/hexleg/internal/geom"
	"github.com/roach88/hexleg/internal/ik"
)

// Request is a body pose request.
type Request struct {
	ID          string                `json:"id"`
	Orientation ik.Orientation        `json:"orientation"`
	Offset      [3]float64            `json:"offset"`
	Targets     map[string][3]float64 `json:"targets"`
}

// LegReply is the result for one leg. Exactly one of Angles or Unreachable
// is set.
type LegReply struct {
	*ik.JointAngles
	Unreachable ik.ErrorCode `json:"unreachable,omitempty"`
	Joint       string       `json:"joint,omitempty"`
}

// Reply answers a Request.
type Reply struct {
	ID   string              `json:"id"`
	Legs map[string]LegReply `json:"legs"`
}

// DecodeRequest parses and checks a request payload.
func DecodeRequest(payload []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if len(req.Targets) == 0 {
		return nil, fmt.Errorf("invalid request %q: no targets", req.ID)
	}
	if !geom.V(req.Orientation.Roll, req.Orientation.Pitch, req.Orientation.Yaw).IsFinite() {
		return nil, fmt.Errorf("invalid request %q: orientation not finite", req.ID)
	}
	if !vec(req.Offset).IsFinite() {
		return nil, fmt.Errorf("invalid request %q: offset not finite", req.ID)
	}
	for leg, t := range req.Targets {
		if !vec(t).IsFinite() {
			return nil, fmt.Errorf("invalid request %q: target for %s not finite", req.ID, leg)
		}
	}
	return &req, nil
}

func vec(a [3]float64) geom.Vector3 {
	return geom.V(a[0], a[1], a[2])
}

func replyFor(o ik.Outcome) LegReply {
	if o.OK() {
		angles := o.Angles
		return LegReply{JointAngles: &angles}
	}
	lr := LegReply{Unreachable: ik.CodeOf(o.Err)}
	var ue *ik.UnreachableError
	if errors.As(o.Err, &ue) && ue.Code == ik.ErrCodeOutOfMechanicalRange {
		lr.Joint = ue.Joint.String()
	}
	return lr
}
