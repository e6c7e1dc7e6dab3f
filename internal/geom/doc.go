// Package geom provides the 3-D vector and axis-rotation primitives used by
// the leg solver.
//
// All operations are value-in, value-out. Nothing here validates input:
// non-finite components propagate unchanged, and callers that need a
// guarantee check IsFinite themselves.
package geom
