package ik

import (
	"fmt"

	"github.com/roach88/hexleg/internal/geom"
)

// Orientation is the body attitude in radians.
// It is applied as roll about Z, then pitch about X, then yaw about Y.
type Orientation struct {
	Roll  float64 `json:"roll" yaml:"roll"`
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Yaw   float64 `json:"yaw" yaml:"yaw"`
}

// IsZero reports whether no rotation is applied.
func (o Orientation) IsZero() bool {
	return o.Roll == 0 && o.Pitch == 0 && o.Yaw == 0
}

// LegGeometry is the fixed mechanical description of one leg.
type LegGeometry struct {
	// Origin is the hip mounting point relative to the body center.
	Origin geom.Vector3 `json:"origin"`

	FemurLength float64 `json:"femur_length"`
	TibiaLength float64 `json:"tibia_length"`

	// Mirrored marks a leg built as the mirror image of the canonical leg.
	// The femur length is signed negative before the law-of-cosines solve,
	// which reflects the femur and tibia angles to their supplements.
	Mirrored bool `json:"mirrored,omitempty"`
}

// side returns +1 for a canonical leg and -1 for a mirrored one.
func (g LegGeometry) side() float64 {
	if g.Mirrored {
		return -1
	}
	return 1
}

// Reach returns the longest distance from the hip the foot can be placed at.
func (g LegGeometry) Reach() float64 {
	return g.FemurLength + g.TibiaLength
}

// JointRange is a closed interval of permitted joint angles in degrees.
type JointRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether deg lies within [Min, Max].
func (r JointRange) Contains(deg float64) bool {
	return r.Min <= deg && deg <= r.Max
}

func (r JointRange) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Joint identifies one of the three joints of a leg.
type Joint int

const (
	Coxa Joint = iota
	Femur
	Tibia
)

// Joints lists the joints in solve order.
var Joints = [3]Joint{Coxa, Femur, Tibia}

func (j Joint) String() string {
	switch j {
	case Coxa:
		return "coxa"
	case Femur:
		return "femur"
	case Tibia:
		return "tibia"
	default:
		return fmt.Sprintf("joint(%d)", int(j))
	}
}

// JointRanges holds the permitted range of each joint of one leg.
type JointRanges struct {
	Coxa  JointRange `json:"coxa"`
	Femur JointRange `json:"femur"`
	Tibia JointRange `json:"tibia"`
}

// For returns the range of joint j.
func (r JointRanges) For(j Joint) JointRange {
	switch j {
	case Femur:
		return r.Femur
	case Tibia:
		return r.Tibia
	default:
		return r.Coxa
	}
}

// JointAngles is a resolved leg pose in degrees.
type JointAngles struct {
	Coxa  float64 `json:"coxa"`
	Femur float64 `json:"femur"`
	Tibia float64 `json:"tibia"`
}

// Get returns the angle of joint j.
func (a JointAngles) Get(j Joint) float64 {
	switch j {
	case Femur:
		return a.Femur
	case Tibia:
		return a.Tibia
	default:
		return a.Coxa
	}
}

func (a *JointAngles) set(j Joint, deg float64) {
	switch j {
	case Femur:
		a.Femur = deg
	case Tibia:
		a.Tibia = deg
	default:
		a.Coxa = deg
	}
}

func (a JointAngles) String() string {
	return fmt.Sprintf("coxa=%+.2f° femur=%+.2f° tibia=%+.2f°", a.Coxa, a.Femur, a.Tibia)
}

// RawAngles are the unresolved solver outputs in radians.
type RawAngles struct {
	Coxa  float64
	Femur float64
	Tibia float64
}

// Get returns the raw angle of joint j.
func (a RawAngles) Get(j Joint) float64 {
	switch j {
	case Femur:
		return a.Femur
	case Tibia:
		return a.Tibia
	default:
		return a.Coxa
	}
}

// Request asks for one leg's foot to be placed at Target (body space) while
// the body holds Orientation. It lives for a single solve.
type Request struct {
	Target      geom.Vector3 `json:"target"`
	Orientation Orientation  `json:"orientation"`
}

// Leg binds a name to its geometry and joint ranges.
type Leg struct {
	Name     string      `json:"name"`
	Geometry LegGeometry `json:"geometry"`
	Ranges   JointRanges `json:"ranges"`
}
