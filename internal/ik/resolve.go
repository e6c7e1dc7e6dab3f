package ik

import "github.com/roach88/hexleg/internal/geom"

// Candidates returns, in preference order, the angles in degrees that are
// physically equivalent to deg for range resolution: the angle itself, the
// opposite heading (+180°), and the opposite heading the other way (-180°).
//
// The ±180° candidates exist because atan(z/x) folds a bearing and its
// reverse onto one branch, and because mirrored legs may have their joint
// zero on the other side.
func Candidates(deg float64) [3]float64 {
	return [3]float64{deg, deg + 180, deg - 180}
}

// ResolveAngle converts a raw solved angle in radians to degrees and returns
// the first candidate inside r. The unshifted angle always wins when it is in
// range. ok is false when no candidate fits.
func ResolveAngle(raw float64, r JointRange) (deg float64, ok bool) {
	for _, c := range Candidates(geom.Deg(raw)) {
		if r.Contains(c) {
			return c, true
		}
	}
	return 0, false
}

// Resolve maps every raw angle into its joint's range.
// On failure it returns ErrCodeOutOfMechanicalRange for the first joint, in
// coxa, femur, tibia order, that has no candidate.
func Resolve(raw RawAngles, ranges JointRanges) (JointAngles, error) {
	var out JointAngles
	for _, j := range Joints {
		r := ranges.For(j)
		deg, ok := ResolveAngle(raw.Get(j), r)
		if !ok {
			return JointAngles{}, newRangeError(j, geom.Deg(raw.Get(j)), r)
		}
		out.set(j, deg)
	}
	return out, nil
}
