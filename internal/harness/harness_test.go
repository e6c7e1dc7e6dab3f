package harness

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hexleg/internal/robot"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return s
}

func TestRun_TraceFollowsRobotOrder(t *testing.T) {
	s := mustParse(t, `
name: order
description: "targets listed out of robot order"
steps:
  - name: one
    targets:
      l1: [-11.25, -4, 12.15]
      r1: [11.25, -4, 12.15]
  - name: two
    targets:
      r1: [11.25, -4, 12.15]
`)
	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 3)
	assert.Equal(t, "r1", result.Trace[0].Leg)
	assert.Equal(t, "l1", result.Trace[1].Leg)
	assert.Equal(t, "two", result.Trace[2].Step)
	assert.Equal(t, []int64{2, 3, 4}, []int64{result.Trace[0].Seq, result.Trace[1].Seq, result.Trace[2].Seq})
	assert.Equal(t, "test-run-default", result.RunToken)
	assert.Len(t, result.RobotHash, 64)
}

func TestRun_OffsetMovesFeetOpposite(t *testing.T) {
	s := mustParse(t, `
name: offset
description: "body raised by 1.5"
steps:
  - name: raised
    offset: [0, 1.5, 0]
    targets:
      r1: [11.25, -4, 12.15]
`)
	result, err := Run(s)
	require.NoError(t, err)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, -5.5, result.Trace[0].Target.Y)
}

func TestRun_StepTargetsOverrideStance(t *testing.T) {
	s := mustParse(t, `
name: override
description: "step replaces one stance target"
stance:
  r1: [11.25, -4, 12.15]
  l1: [-11.25, -4, 12.15]
steps:
  - name: reach
    targets:
      r1: [40, -4, 12.15]
    expect:
      r1: {unreachable: geometric}
      l1: {angles: [150.255118703, 204.227417097, 250.119689365]}
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, 40.0, result.Trace[0].Target.X)
}

func TestRun_ReportsExpectationMismatch(t *testing.T) {
	s := mustParse(t, `
name: mismatch
description: "wrong expectations"
steps:
  - name: home
    targets:
      r1: [11.25, -4, 12.15]
      l1: [-60, -4, 12.15]
    expect:
      r1: {angles: [30, 24.227417097, -109.880310635], tolerance: 0.01}
      l1: {unreachable: range}
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], `step "home" leg l1: expected OUT_OF_MECHANICAL_RANGE, got GEOMETRICALLY_UNREACHABLE`)
	assert.Contains(t, result.Errors[1], `step "home" leg r1: coxa expected 30.000000000`)
}

func TestRun_ReportsWrongJoint(t *testing.T) {
	s := mustParse(t, `
name: joint
description: "coxa fails, tibia expected"
steps:
  - name: behind
    targets:
      r1: [11.25, -4, 4]
    expect:
      r1: {unreachable: range, joint: tibia}
`)
	result, err := Run(s)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected failing joint tibia, got coxa")
}

func TestRun_UnknownLeg(t *testing.T) {
	s := mustParse(t, `
name: unknown
description: "leg not on the robot"
steps:
  - name: a
    targets:
      r9: [1, 2, 3]
`)
	_, err := Run(s)
	assert.ErrorContains(t, err, `unknown leg "r9"`)
}

func TestRun_MissingRobotDir(t *testing.T) {
	s := mustParse(t, minimalScenario)
	s.Robot = filepath.Join(t.TempDir(), "missing")

	_, err := Run(s)
	assert.ErrorContains(t, err, "failed to load robot")
}

func TestRun_RobotFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "robot.cue"), []byte(`package robot

robot: {
	name: "mirror"
	links: {femur: 7.6125, tibia: 10.4}
	leg: m1: {
		origin: [4.25, 2.875, 8.15]
		mirrored: true
		coxa: [-360, 360]
		femur: [-360, 360]
		tibia: [-360, 360]
	}
}
`), 0644))

	s := mustParse(t, `
name: mirrored
description: "mirrored leg reflects femur and tibia"
steps:
  - name: home
    targets:
      m1: [11.25, -4, 12.15]
    expect:
      m1: {angles: [29.744881297, 155.772582903, 109.880310635]}
`)
	s.Robot = dir

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRunWithRobot_IgnoresScenarioRobot(t *testing.T) {
	s := mustParse(t, minimalScenario)
	s.Robot = "/does/not/exist"

	result, err := RunWithRobot(s, robot.Phoenix())
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRun_LogsStepsToDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	s := mustParse(t, `
name: logged
description: "one step"
steps:
  - name: home
    targets:
      r1: [11.25, -4, 12.15]
`)
	_, err := Run(s)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "step solved")
	assert.Contains(t, out, "scenario=logged")
	assert.Contains(t, out, "step=home")
}
