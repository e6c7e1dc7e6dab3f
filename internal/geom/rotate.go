package geom

import "math"

// RotateX rotates v about the X axis by theta radians (right-handed).
func RotateX(v Vector3, theta float64) Vector3 {
	s, c := math.Sincos(theta)
	return Vector3{
		X: v.X,
		Y: v.Y*c - v.Z*s,
		Z: v.Y*s + v.Z*c,
	}
}

// RotateY rotates v about the Y axis by theta radians (right-handed).
func RotateY(v Vector3, theta float64) Vector3 {
	s, c := math.Sincos(theta)
	return Vector3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

// RotateZ rotates v about the Z axis by theta radians (right-handed).
func RotateZ(v Vector3, theta float64) Vector3 {
	s, c := math.Sincos(theta)
	return Vector3{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
		Z: v.Z,
	}
}

// Deg converts radians to degrees.
func Deg(rad float64) float64 {
	return rad / math.Pi * 180
}

// Rad converts degrees to radians.
func Rad(deg float64) float64 {
	return deg / 180 * math.Pi
}
