package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hexleg/internal/store"
)

func TestSolveCommand_Text(t *testing.T) {
	out, err := execute(t, "solve", "--target", "r1=11.25,-4,12.15")
	require.NoError(t, err)
	assert.Equal(t, "✓ r1  coxa=+29.74° femur=+24.23° tibia=-109.88°\n", out)
}

func TestSolveCommand_JSONInRobotOrder(t *testing.T) {
	out, err := execute(t, "--format", "json", "solve",
		"--target", "l2=-13.25,-4,0",
		"--target", "r1=11.25,-4,12.15")
	require.NoError(t, err)

	var result SolveResult
	resp := decode(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "phoenix", result.Robot)
	assert.Equal(t, 2, result.Solved)
	require.Len(t, result.Legs, 2)

	assert.Equal(t, "r1", result.Legs[0].Leg)
	require.NotNil(t, result.Legs[0].Angles)
	assert.InDelta(t, 29.744881297, result.Legs[0].Angles.Coxa, 1e-9)
	assert.InDelta(t, 24.227417097, result.Legs[0].Angles.Femur, 1e-9)
	assert.InDelta(t, -109.880310635, result.Legs[0].Angles.Tibia, 1e-9)

	assert.Equal(t, "l2", result.Legs[1].Leg)
	require.NotNil(t, result.Legs[1].Angles)
	assert.InDelta(t, 180, result.Legs[1].Angles.Coxa, 1e-9)
}

func TestSolveCommand_Unreachable(t *testing.T) {
	out, err := execute(t, "--format", "json", "solve",
		"--target", "r1=11.25,-4,4",
		"--target", "l1=-60,-4,12.15")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result SolveResult
	resp := decode(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeUnreachable, resp.Error.Code)
	assert.Equal(t, "2 of 2 leg(s) unreachable", resp.Error.Message)

	require.Len(t, result.Legs, 2)
	assert.Nil(t, result.Legs[0].Angles)
	assert.Equal(t, "OUT_OF_MECHANICAL_RANGE", string(result.Legs[0].Unreachable))
	assert.Equal(t, "coxa", result.Legs[0].Joint)
	assert.Equal(t, "GEOMETRICALLY_UNREACHABLE", string(result.Legs[1].Unreachable))
}

func TestSolveCommand_UnreachableText(t *testing.T) {
	out, err := execute(t, "solve", "--target", "l1=-60,-4,12.15")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "✗ l1  GEOMETRICALLY_UNREACHABLE\n", out)
}

func TestSolveCommand_CommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantOut string
	}{
		{"bad target", []string{"solve", "--target", "r1=1,2"}, "Error [E020]"},
		{"bad offset", []string{"solve", "--target", "r1=1,2,3", "--offset", "up"}, "Error [E020]"},
		{"unknown leg", []string{"solve", "--target", "m9=1,2,3"}, "Error [E021]"},
		{"missing robot", []string{"solve", "--robot", "/nonexistent/robot", "--target", "r1=1,2,3"}, "Error [E005]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestSolveCommand_RequiresTarget(t *testing.T) {
	_, err := execute(t, "solve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "target" not set`)
}

func TestSolveCommand_RecordsRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "solves.db")

	out, err := execute(t, "--format", "json", "solve", "--db", db,
		"--target", "r1=11.25,-4,12.15", "--pitch", "0.1")
	require.NoError(t, err)
	var first SolveResult
	decode(t, out, &first)
	require.NotEmpty(t, first.RunToken)

	out, err = execute(t, "--format", "json", "solve", "--db", db,
		"--target", "l1=-11.25,-4,12.15", "--offset", "0,1.5,0")
	require.NoError(t, err)
	var second SolveResult
	decode(t, out, &second)
	require.NotEqual(t, first.RunToken, second.RunToken)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.RunToken, runs[0].Token, "second run continues the clock")
	assert.Greater(t, runs[1].Seq, runs[0].Seq)

	_, solves, err := st.ReadRun(ctx, second.RunToken)
	require.NoError(t, err)
	require.Len(t, solves, 1)
	assert.Equal(t, "l1", solves[0].Leg)
	assert.InDelta(t, -5.5, solves[0].Request.Target.Y, 1e-12)
}
