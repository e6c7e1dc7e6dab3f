package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows the algorithm to change without collisions.
const (
	DomainSolve = "hexleg/solve/v1"
	DomainRobot = "hexleg/robot/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SolveID computes the content-addressed ID of one logged solve.
// It is stable across replays given bit-identical inputs.
func SolveID(runToken, leg string, request Object, seq int64) (string, error) {
	obj := Object{
		"run_token": String(runToken),
		"leg":       String(leg),
		"request":   request,
		"seq":       Int(seq),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("SolveID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSolve, canonical), nil
}

// RobotHash identifies a robot description (legs, geometry, ranges).
// Runs record it so a replay can refuse a different robot.
func RobotHash(robot Object) (string, error) {
	canonical, err := MarshalCanonical(robot)
	if err != nil {
		return "", fmt.Errorf("RobotHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRobot, canonical), nil
}

// MustSolveID is like SolveID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSolveID(runToken, leg string, request Object, seq int64) string {
	id, err := SolveID(runToken, leg, request, seq)
	if err != nil {
		panic(err)
	}
	return id
}
