package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() Object {
	return Object{
		"target":      Floats(11.25, -4, 12.15),
		"orientation": Floats(0, 0, 0),
	}
}

func TestSolveIDStable(t *testing.T) {
	a := MustSolveID("run-1", "r1", testRequest(), 1)
	b := MustSolveID("run-1", "r1", testRequest(), 1)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestSolveIDSensitivity(t *testing.T) {
	base := MustSolveID("run-1", "r1", testRequest(), 1)

	assert.NotEqual(t, base, MustSolveID("run-2", "r1", testRequest(), 1))
	assert.NotEqual(t, base, MustSolveID("run-1", "l1", testRequest(), 1))
	assert.NotEqual(t, base, MustSolveID("run-1", "r1", testRequest(), 2))

	shifted := testRequest()
	shifted["target"] = Floats(11.25, -4, 12.150000000000002)
	assert.NotEqual(t, base, MustSolveID("run-1", "r1", shifted, 1))
}

func TestDomainSeparation(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain(DomainSolve, data), hashWithDomain(DomainRobot, data))
}

func TestRobotHash(t *testing.T) {
	h1, err := RobotHash(Object{"legs": Array{String("r1")}})
	require.NoError(t, err)
	h2, err := RobotHash(Object{"legs": Array{String("r2")}})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	_, err = RobotHash(Object{"bad": nil})
	assert.Error(t, err)
}
