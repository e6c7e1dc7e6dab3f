package ik

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes why a leg could not be solved.
type ErrorCode string

const (
	// ErrCodeGeometricallyUnreachable indicates no configuration of the two
	// links can place the foot at the target.
	ErrCodeGeometricallyUnreachable ErrorCode = "GEOMETRICALLY_UNREACHABLE"

	// ErrCodeOutOfMechanicalRange indicates a joint angle exists but none of
	// its candidates lies inside the joint's range.
	ErrCodeOutOfMechanicalRange ErrorCode = "OUT_OF_MECHANICAL_RANGE"
)

// UnreachableError is the typed "no value" result of a solve.
type UnreachableError struct {
	Code ErrorCode

	// Leg is the leg name, empty when the leg is anonymous.
	Leg string

	// Joint and Degrees identify the joint that failed range resolution and
	// its unshifted angle. Only set for ErrCodeOutOfMechanicalRange.
	Joint   Joint
	Degrees float64
	Range   JointRange

	Message string
}

// Error implements the error interface.
func (e *UnreachableError) Error() string {
	if e.Leg != "" {
		return fmt.Sprintf("%s: %s (leg=%s)", e.Code, e.Message, e.Leg)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnreachable reports whether err is an *UnreachableError of any code.
func IsUnreachable(err error) bool {
	var ue *UnreachableError
	return errors.As(err, &ue)
}

// IsGeometricallyUnreachable reports whether err is a geometric failure.
func IsGeometricallyUnreachable(err error) bool {
	var ue *UnreachableError
	if errors.As(err, &ue) {
		return ue.Code == ErrCodeGeometricallyUnreachable
	}
	return false
}

// IsOutOfRange reports whether err is a mechanical range failure.
func IsOutOfRange(err error) bool {
	var ue *UnreachableError
	if errors.As(err, &ue) {
		return ue.Code == ErrCodeOutOfMechanicalRange
	}
	return false
}

// CodeOf returns the error code of err, or "" if err is not unreachable.
func CodeOf(err error) ErrorCode {
	var ue *UnreachableError
	if errors.As(err, &ue) {
		return ue.Code
	}
	return ""
}

func newGeometricError(format string, args ...any) *UnreachableError {
	return &UnreachableError{
		Code:    ErrCodeGeometricallyUnreachable,
		Message: fmt.Sprintf(format, args...),
	}
}

func newRangeError(j Joint, deg float64, r JointRange) *UnreachableError {
	return &UnreachableError{
		Code:    ErrCodeOutOfMechanicalRange,
		Joint:   j,
		Degrees: deg,
		Range:   r,
		Message: fmt.Sprintf("%s angle %.4f° has no candidate in %s", j, deg, r),
	}
}
