// Package ik solves leg inverse kinematics for a six-legged walker.
//
// A solve maps a foot target in body space to the coxa, femur, and tibia
// angles of one leg. It runs in three stages:
//
//  1. ToLegFrame applies the body attitude (roll about Z, then pitch about X,
//     then yaw about Y) to both the target and the leg's mounting origin and
//     returns the target relative to that origin.
//  2. SolveLocal computes raw joint angles in radians from the leg-local
//     target and the two link lengths, using the law of cosines.
//  3. ResolveAngle maps each raw angle into the joint's mechanical range,
//     trying the unshifted angle first, then +180°, then -180°.
//
// Every function in this package is pure. There is no package state, no
// logging, and no I/O; identical inputs give bit-identical outputs, and legs
// may be solved concurrently (see SolveBody).
//
// # Failure
//
// A leg that cannot reach its target yields a zero JointAngles and an
// *UnreachableError carrying one of two codes:
//
//   - ErrCodeGeometricallyUnreachable: a law-of-cosines argument left [-1, 1]
//     (the target is farther than femur+tibia or closer than |femur-tibia|),
//     or the target is degenerate (on the hip axis, non-finite).
//   - ErrCodeOutOfMechanicalRange: an angle exists but none of its three
//     candidates lies inside the joint's range.
//
// Callers must treat either as "leave this leg where it is". Angles are never
// clamped and never NaN.
//
// # Known approximations
//
// The coxa bearing is atan(z/x), a single-quadrant arctangent. Targets behind
// the hip collapse onto the same branch as targets in front; the resolver's
// +180° candidate is what disambiguates them against the coxa range.
//
// The femur elevation correction is sin(y/hypot2d), the sine of a ratio rather
// than an elevation angle. It is close to asin/atan only for small ratios.
// Calibration data in the field was tuned against this exact term, so it is
// kept numerically as is.
package ik
