package ik

import "github.com/roach88/hexleg/internal/geom"

// Apply rotates v by the body attitude: roll about Z, then pitch about X,
// then yaw about Y. The order is part of the contract.
func (o Orientation) Apply(v geom.Vector3) geom.Vector3 {
	if o.IsZero() {
		return v
	}
	v = geom.RotateZ(v, o.Roll)
	v = geom.RotateX(v, o.Pitch)
	return geom.RotateY(v, o.Yaw)
}

// ToLegFrame expresses a body-space foot target relative to a leg's hip,
// with the body attitude applied to both the target and the hip origin.
// With a zero orientation the result is exactly target - origin.
func ToLegFrame(target, origin geom.Vector3, o Orientation) geom.Vector3 {
	return o.Apply(target).Sub(o.Apply(origin))
}

// ApplyOffset returns the body-space foot target seen by a body that has
// been translated by offset while the foot stays planted.
func ApplyOffset(target, offset geom.Vector3) geom.Vector3 {
	return target.Sub(offset)
}
