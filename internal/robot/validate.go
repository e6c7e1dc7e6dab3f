package robot

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/hexleg/internal/ik"
)

// Validation error codes (E100-E199)
const (
	ErrNoLegs          = "E101" // robot must declare at least one leg
	ErrLinkLength      = "E102" // link lengths must be positive and finite
	ErrRangeInverted   = "E103" // joint range min must not exceed max
	ErrRangeNotFinite  = "E104" // joint range bounds must be finite
	ErrOriginNotFinite = "E105" // hip origin must be finite
	ErrLegName         = "E106" // leg name empty, not NFC, or has whitespace
	ErrDuplicateLeg    = "E107" // two legs share a normalized name
)

// ValidationError represents a semantic error in a robot description.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled robot. Returns all errors found.
func Validate(r *Robot) []ValidationError {
	var errs []ValidationError

	if len(r.Legs) == 0 {
		errs = append(errs, ValidationError{
			Field:   "leg",
			Message: "at least one leg is required",
			Code:    ErrNoLegs,
		})
	}

	seen := make(map[string]string)
	for i, leg := range r.Legs {
		line := 0
		if i < len(r.pos) && r.pos[i].IsValid() {
			line = r.pos[i].Line()
		}
		add := func(field, code, format string, args ...any) {
			errs = append(errs, ValidationError{
				Field:   "leg." + leg.Name + field,
				Message: fmt.Sprintf(format, args...),
				Code:    code,
				Line:    line,
			})
		}

		switch {
		case leg.Name == "":
			add("", ErrLegName, "leg name must be non-empty")
		case !norm.NFC.IsNormalString(leg.Name):
			add("", ErrLegName, "leg name %q is not NFC-normalized", leg.Name)
		case strings.ContainsFunc(leg.Name, unicode.IsSpace):
			add("", ErrLegName, "leg name %q contains whitespace", leg.Name)
		}

		key := norm.NFC.String(leg.Name)
		if prev, ok := seen[key]; ok {
			add("", ErrDuplicateLeg, "leg name collides with %q", prev)
		} else {
			seen[key] = leg.Name
		}

		g := leg.Geometry
		if !positive(g.FemurLength) {
			add(".links.femur", ErrLinkLength, "femur length must be positive, got %g", g.FemurLength)
		}
		if !positive(g.TibiaLength) {
			add(".links.tibia", ErrLinkLength, "tibia length must be positive, got %g", g.TibiaLength)
		}
		if !g.Origin.IsFinite() {
			add(".origin", ErrOriginNotFinite, "origin %s is not finite", g.Origin)
		}

		for _, j := range ik.Joints {
			rg := leg.Ranges.For(j)
			switch {
			case !finite(rg.Min) || !finite(rg.Max):
				add("."+j.String(), ErrRangeNotFinite, "range %s is not finite", rg)
			case rg.Min > rg.Max:
				add("."+j.String(), ErrRangeInverted, "range %s has min greater than max", rg)
			}
		}
	}

	return errs
}

func positive(f float64) bool {
	return f > 0 && finite(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
