package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/hexleg/internal/geom"
	"github.com/roach88/hexleg/internal/ik"
	"github.com/roach88/hexleg/internal/ir"
)

// RequestObject converts a request to its canonical form.
func RequestObject(req ik.Request) ir.Object {
	t, o := req.Target, req.Orientation
	return ir.Object{
		"target":      ir.Floats(t.X, t.Y, t.Z),
		"orientation": ir.Floats(o.Roll, o.Pitch, o.Yaw),
	}
}

// LegObject converts a leg to its canonical form.
func LegObject(leg ik.Leg) ir.Object {
	g, r := leg.Geometry, leg.Ranges
	return ir.Object{
		"name":     ir.String(leg.Name),
		"origin":   ir.Floats(g.Origin.X, g.Origin.Y, g.Origin.Z),
		"links":    ir.Floats(g.FemurLength, g.TibiaLength),
		"mirrored": ir.Bool(g.Mirrored),
		"coxa":     ir.Floats(r.Coxa.Min, r.Coxa.Max),
		"femur":    ir.Floats(r.Femur.Min, r.Femur.Max),
		"tibia":    ir.Floats(r.Tibia.Min, r.Tibia.Max),
	}
}

// RobotObject converts a named leg set to its canonical form.
// Leg order is significant.
func RobotObject(name string, legs []ik.Leg) ir.Object {
	arr := make(ir.Array, len(legs))
	for i, l := range legs {
		arr[i] = LegObject(l)
	}
	return ir.Object{
		"name": ir.String(name),
		"legs": arr,
	}
}

// ResultObject converts a solve outcome to its canonical form.
func ResultObject(angles ik.JointAngles, err error) ir.Object {
	var ue *ik.UnreachableError
	if errors.As(err, &ue) {
		obj := ir.Object{"code": ir.String(string(ue.Code))}
		if ue.Code == ik.ErrCodeOutOfMechanicalRange {
			obj["joint"] = ir.String(ue.Joint.String())
			obj["degrees"] = ir.Float(ue.Degrees)
		}
		return obj
	}
	return ir.Object{"angles": ir.Floats(angles.Coxa, angles.Femur, angles.Tibia)}
}

func marshalObject(obj ir.Object) (string, error) {
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type requestJSON struct {
	Target      []string `json:"target"`
	Orientation []string `json:"orientation"`
}

type legJSON struct {
	Name     string   `json:"name"`
	Origin   []string `json:"origin"`
	Links    []string `json:"links"`
	Mirrored bool     `json:"mirrored"`
	Coxa     []string `json:"coxa"`
	Femur    []string `json:"femur"`
	Tibia    []string `json:"tibia"`
}

type robotJSON struct {
	Name string    `json:"name"`
	Legs []legJSON `json:"legs"`
}

type resultJSON struct {
	Angles []string `json:"angles"`
	Code   string   `json:"code"`
	Joint  string   `json:"joint"`
}

// parseFloats decodes exactly n canonical floats.
func parseFloats(field string, ss []string, n int) ([]float64, error) {
	if len(ss) != n {
		return nil, fmt.Errorf("%s: expected %d values, got %d", field, n, len(ss))
	}
	out := make([]float64, n)
	for i, s := range ss {
		f, err := ir.ParseFloatString(s)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		out[i] = f
	}
	return out, nil
}

func unmarshalRequest(data string) (ik.Request, error) {
	var rj requestJSON
	if err := json.Unmarshal([]byte(data), &rj); err != nil {
		return ik.Request{}, fmt.Errorf("unmarshal request: %w", err)
	}
	t, err := parseFloats("target", rj.Target, 3)
	if err != nil {
		return ik.Request{}, fmt.Errorf("unmarshal request: %w", err)
	}
	o, err := parseFloats("orientation", rj.Orientation, 3)
	if err != nil {
		return ik.Request{}, fmt.Errorf("unmarshal request: %w", err)
	}
	return ik.Request{
		Target:      geom.V(t[0], t[1], t[2]),
		Orientation: ik.Orientation{Roll: o[0], Pitch: o[1], Yaw: o[2]},
	}, nil
}

func unmarshalRobot(data string) (string, []ik.Leg, error) {
	var rj robotJSON
	if err := json.Unmarshal([]byte(data), &rj); err != nil {
		return "", nil, fmt.Errorf("unmarshal robot: %w", err)
	}
	legs := make([]ik.Leg, 0, len(rj.Legs))
	for _, lj := range rj.Legs {
		leg, err := lj.leg()
		if err != nil {
			return "", nil, fmt.Errorf("unmarshal robot: leg %q: %w", lj.Name, err)
		}
		legs = append(legs, leg)
	}
	return rj.Name, legs, nil
}

func (lj legJSON) leg() (ik.Leg, error) {
	origin, err := parseFloats("origin", lj.Origin, 3)
	if err != nil {
		return ik.Leg{}, err
	}
	links, err := parseFloats("links", lj.Links, 2)
	if err != nil {
		return ik.Leg{}, err
	}
	var ranges [3]ik.JointRange
	for i, raw := range [][]string{lj.Coxa, lj.Femur, lj.Tibia} {
		b, err := parseFloats(ik.Joints[i].String(), raw, 2)
		if err != nil {
			return ik.Leg{}, err
		}
		ranges[i] = ik.JointRange{Min: b[0], Max: b[1]}
	}
	return ik.Leg{
		Name: lj.Name,
		Geometry: ik.LegGeometry{
			Origin:      geom.V(origin[0], origin[1], origin[2]),
			FemurLength: links[0],
			TibiaLength: links[1],
			Mirrored:    lj.Mirrored,
		},
		Ranges: ik.JointRanges{Coxa: ranges[0], Femur: ranges[1], Tibia: ranges[2]},
	}, nil
}

// unmarshalResult decodes angles and the failing joint name.
func unmarshalResult(data string) (ik.JointAngles, string, error) {
	var rj resultJSON
	if err := json.Unmarshal([]byte(data), &rj); err != nil {
		return ik.JointAngles{}, "", fmt.Errorf("unmarshal result: %w", err)
	}
	if rj.Angles == nil {
		return ik.JointAngles{}, rj.Joint, nil
	}
	a, err := parseFloats("angles", rj.Angles, 3)
	if err != nil {
		return ik.JointAngles{}, "", fmt.Errorf("unmarshal result: %w", err)
	}
	return ik.JointAngles{Coxa: a[0], Femur: a[1], Tibia: a[2]}, "", nil
}
