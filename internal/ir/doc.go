// Package ir provides the canonical value encoding and content-addressed
// identities used to log and replay solves.
//
// This package imports nothing internal. Other packages convert their own
// types into ir values at the boundary.
//
// Key design constraints:
//   - Floats are encoded by their exact IEEE-754 bit pattern, never by a
//     decimal rendering, so two solves share an identity only if their inputs
//     are bit-identical
//   - Object keys are ordered by UTF-16 code units (RFC 8785)
//   - Strings are NFC normalized before encoding
//   - No null
package ir
