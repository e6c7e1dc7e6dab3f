package ik

import (
	"math"

	"github.com/roach88/hexleg/internal/geom"
)

// domainTolerance absorbs rounding in law-of-cosines arguments computed at
// exactly full extension or full fold. Arguments within this distance of ±1
// are clamped; anything farther out is unreachable.
const domainTolerance = 1e-9

// SolveLocal computes raw joint angles, in radians, that place the foot of a
// leg with geometry g at the leg-local target.
//
// The coxa angle is atan(z/x) and is deliberately left single-quadrant; see
// ResolveAngle. The only failure is ErrCodeGeometricallyUnreachable.
func SolveLocal(target geom.Vector3, g LegGeometry) (RawAngles, error) {
	if !target.IsFinite() {
		return RawAngles{}, newGeometricError("leg-local target %v is not finite", target)
	}

	xd, yd, zd := target.X, target.Y, target.Z

	hypot3d := math.Sqrt(xd*xd + yd*yd + zd*zd)
	hypot2d := math.Sqrt(xd*xd + zd*zd)
	if hypot2d == 0 {
		// On the coxa axis: no bearing, and the elevation term divides by zero.
		return RawAngles{}, newGeometricError("target %v lies on the coxa axis", target)
	}

	side := g.side()
	femur := side * g.FemurLength
	tibia := g.TibiaLength

	femurArg, ok := cosineArg(femur*femur+hypot3d*hypot3d-tibia*tibia, 2*femur*hypot3d)
	if !ok {
		return RawAngles{}, newGeometricError(
			"target distance %.4f outside reach [%.4f, %.4f]",
			hypot3d, math.Abs(g.FemurLength-g.TibiaLength), g.Reach())
	}
	tibiaArg, ok := cosineArg(femur*femur+tibia*tibia-hypot3d*hypot3d, 2*femur*tibia)
	if !ok {
		return RawAngles{}, newGeometricError(
			"target distance %.4f outside reach [%.4f, %.4f]",
			hypot3d, math.Abs(g.FemurLength-g.TibiaLength), g.Reach())
	}

	raw := RawAngles{
		Coxa:  math.Atan(zd / xd),
		Femur: math.Acos(femurArg) + side*math.Sin(yd/hypot2d),
		Tibia: math.Acos(tibiaArg),
	}
	if !isFinite(raw.Coxa) || !isFinite(raw.Femur) || !isFinite(raw.Tibia) {
		return RawAngles{}, newGeometricError("solve for target %v is not finite", target)
	}
	return raw, nil
}

// cosineArg returns num/den when it lies in the arccosine domain, clamping
// values within domainTolerance of ±1. A zero denominator or NaN is rejected.
func cosineArg(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	arg := num / den
	if math.IsNaN(arg) || arg > 1+domainTolerance || arg < -1-domainTolerance {
		return 0, false
	}
	return math.Max(-1, math.Min(1, arg)), true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
