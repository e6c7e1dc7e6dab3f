package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/hexleg/internal/geom"
	"github.com/roach88/hexleg/internal/robot"
)

// Error codes reported by commands, on top of the robot load codes.
const (
	ErrCodeBadFlag          = "E020" // flag value malformed
	ErrCodeUnknownLeg       = "E021" // leg not in robot
	ErrCodeUnreachable      = "E022" // a leg could not be solved
	ErrCodeDatabase         = "E030" // solve log unreadable
	ErrCodeNotDeterministic = "E031" // replay diverged
	ErrCodeTestFailed       = "E040" // scenario failed
)

// loadRobot returns the robot in dir, or the built-in Phoenix when dir is
// empty. Any load or validation error is a command error.
func loadRobot(dir string) (*robot.Robot, error) {
	if dir == "" {
		return robot.Phoenix(), nil
	}
	r, errs := robot.LoadDir(dir)
	if len(errs) == 0 {
		return r, nil
	}
	var loadErr *robot.LoadError
	if errors.As(errs[0], &loadErr) {
		return nil, WrapExitError(ExitCommandError, "failed to load robot", loadErr)
	}
	return nil, WrapExitError(ExitCommandError,
		fmt.Sprintf("robot %s is invalid (run hexleg validate)", dir), errors.Join(errs...))
}

// errorCode returns the coded form of a command error for the JSON envelope.
func errorCode(err error) string {
	var loadErr *robot.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	var ve robot.ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return robot.ErrCodeGeneric
}

// parseVector parses "x,y,z".
func parseVector(s string) (geom.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geom.Vector3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Vector3{}, fmt.Errorf("expected x,y,z, got %q: %w", s, err)
		}
		xyz[i] = f
	}
	v := geom.V(xyz[0], xyz[1], xyz[2])
	if !v.IsFinite() {
		return geom.Vector3{}, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}

// parseLegTarget parses "leg=x,y,z".
func parseLegTarget(s string) (string, geom.Vector3, error) {
	leg, xyz, ok := strings.Cut(s, "=")
	if !ok || leg == "" {
		return "", geom.Vector3{}, fmt.Errorf("expected leg=x,y,z, got %q", s)
	}
	v, err := parseVector(xyz)
	if err != nil {
		return "", geom.Vector3{}, fmt.Errorf("leg %s: %w", leg, err)
	}
	return leg, v, nil
}

func flagError(flag string, err error) *ExitError {
	return WrapExitError(ExitCommandError, "invalid --"+flag, err)
}
