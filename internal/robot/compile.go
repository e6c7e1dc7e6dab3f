package robot

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/hexleg/internal/geom"
	"github.com/roach88/hexleg/internal/ik"
)

// Robot is a compiled robot description.
type Robot struct {
	Name string
	Legs []ik.Leg

	// pos holds the CUE position of each leg, parallel to Legs.
	pos []token.Pos
}

// Leg returns the leg with the given name.
func (r *Robot) Leg(name string) (ik.Leg, bool) {
	for _, l := range r.Legs {
		if l.Name == name {
			return l, true
		}
	}
	return ik.Leg{}, false
}

// Names returns the leg names in declaration order.
func (r *Robot) Names() []string {
	names := make([]string, len(r.Legs))
	for i, l := range r.Legs {
		names[i] = l.Name
	}
	return names
}

// CompileError is a structural problem in a robot description.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

//go:embed phoenix.cue
var phoenixSource string

// Phoenix returns the built-in Lynxmotion Phoenix description.
func Phoenix() *Robot {
	r, err := CompileString(phoenixSource)
	if err != nil {
		panic(fmt.Sprintf("robot: embedded phoenix description: %v", err))
	}
	return r
}

// PhoenixSource returns the CUE text of the built-in description.
func PhoenixSource() string {
	return phoenixSource
}

// CompileString compiles a CUE document containing a top-level robot field.
func CompileString(src string) (*Robot, error) {
	v := cuecontext.New().CompileString(src, cue.Filename("robot.cue"))
	return Compile(v)
}

// Compile parses the robot field of a CUE value.
//
//	v := cuecontext.New().CompileString(src)
//	r, err := robot.Compile(v)
func Compile(v cue.Value) (*Robot, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	rv := v.LookupPath(cue.ParsePath("robot"))
	if !rv.Exists() {
		return nil, &CompileError{Field: "robot", Message: "robot is required", Pos: v.Pos()}
	}

	r := &Robot{}
	nameVal := rv.LookupPath(cue.ParsePath("name"))
	if nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		r.Name = name
	}

	defaults, err := parseLinks(rv, nil)
	if err != nil {
		return nil, err
	}

	legsVal := rv.LookupPath(cue.ParsePath("leg"))
	if !legsVal.Exists() {
		return r, nil
	}
	iter, err := legsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		leg, err := parseLeg(iter.Label(), iter.Value(), defaults)
		if err != nil {
			return nil, err
		}
		r.Legs = append(r.Legs, leg)
		r.pos = append(r.pos, iter.Value().Pos())
	}
	return r, nil
}

type links struct {
	femur, tibia float64
}

// parseLinks reads an optional links struct, falling back to def.
func parseLinks(v cue.Value, def *links) (*links, error) {
	lv := v.LookupPath(cue.ParsePath("links"))
	if !lv.Exists() {
		return def, nil
	}
	out := &links{}
	if def != nil {
		*out = *def
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"femur", &out.femur}, {"tibia", &out.tibia}} {
		fv := lv.LookupPath(cue.ParsePath(f.name))
		if !fv.Exists() {
			if def == nil {
				return nil, &CompileError{Field: "links." + f.name, Message: "link length is required", Pos: lv.Pos()}
			}
			continue
		}
		n, err := fv.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		*f.dst = n
	}
	return out, nil
}

func parseLeg(name string, v cue.Value, defaults *links) (ik.Leg, error) {
	leg := ik.Leg{Name: name}
	field := "leg." + name

	l, err := parseLinks(v, defaults)
	if err != nil {
		return leg, err
	}
	if l == nil {
		return leg, &CompileError{Field: field + ".links", Message: "no link lengths for leg and no robot default", Pos: v.Pos()}
	}
	leg.Geometry.FemurLength = l.femur
	leg.Geometry.TibiaLength = l.tibia

	origin, err := parseNumbers(v, "origin", 3)
	if err != nil {
		return leg, prefixField(err, field)
	}
	leg.Geometry.Origin = geom.V(origin[0], origin[1], origin[2])

	if mv := v.LookupPath(cue.ParsePath("mirrored")); mv.Exists() {
		m, err := mv.Bool()
		if err != nil {
			return leg, formatCUEError(err)
		}
		leg.Geometry.Mirrored = m
	}

	for _, j := range ik.Joints {
		bounds, err := parseNumbers(v, j.String(), 2)
		if err != nil {
			return leg, prefixField(err, field)
		}
		r := ik.JointRange{Min: bounds[0], Max: bounds[1]}
		switch j {
		case ik.Coxa:
			leg.Ranges.Coxa = r
		case ik.Femur:
			leg.Ranges.Femur = r
		case ik.Tibia:
			leg.Ranges.Tibia = r
		}
	}
	return leg, nil
}

// parseNumbers reads a list of exactly n numbers at label.
func parseNumbers(v cue.Value, label string, n int) ([]float64, error) {
	lv := v.LookupPath(cue.ParsePath(label))
	if !lv.Exists() {
		return nil, &CompileError{Field: label, Message: label + " is required", Pos: v.Pos()}
	}
	iter, err := lv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []float64
	for iter.Next() {
		f, err := iter.Value().Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, f)
	}
	if len(out) != n {
		return nil, &CompileError{
			Field:   label,
			Message: fmt.Sprintf("expected %d numbers, got %d", n, len(out)),
			Pos:     lv.Pos(),
		}
	}
	return out, nil
}

func prefixField(err error, prefix string) error {
	if ce, ok := err.(*CompileError); ok {
		ce.Field = prefix + "." + ce.Field
	}
	return err
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
