package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyScenario copies a harness scenario, and optionally its golden file,
// into a fresh scenarios directory.
func copyScenario(t *testing.T, name string, withGolden bool) string {
	t.Helper()
	dir := t.TempDir()

	data, err := os.ReadFile(filepath.Join("..", "harness", "testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), data, 0644))

	if withGolden {
		golden, err := os.ReadFile(filepath.Join("..", "harness", "testdata", "golden", name+".golden"))
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", name+".golden"), golden, 0644))
	}
	return dir
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "test", t.TempDir())
	require.NoError(t, err)

	var result TestResult
	resp := decode(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Scenarios)
}

func TestTestCommandMatchesGolden(t *testing.T) {
	dir := copyScenario(t, "reach_limits", true)

	out, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ reach_limits")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := copyScenario(t, "reach_limits", true)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "reach_limits.golden"), []byte("{}"), 0644))

	out, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result TestResult
	resp := decode(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	require.Len(t, result.Scenarios, 1)
	assert.Contains(t, result.Scenarios[0].Errors[0], "does not match golden file")
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	dir := copyScenario(t, "phoenix_stance", false)

	out, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ phoenix_stance (golden updated)")

	written, err := os.ReadFile(filepath.Join(dir, "golden", "phoenix_stance.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("..", "harness", "testdata", "golden", "phoenix_stance.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(written))

	_, err = execute(t, "test", dir)
	require.NoError(t, err)
}

func TestTestCommandFilter(t *testing.T) {
	dir := copyScenario(t, "reach_limits", false)
	data, err := os.ReadFile(filepath.Join("..", "harness", "testdata", "scenarios", "phoenix_stance.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "phoenix_stance.yaml"), data, 0644))

	out, err := execute(t, "--format", "json", "test", dir, "--filter", "reach_*")
	require.NoError(t, err)

	var result TestResult
	decode(t, out, &result)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "reach_limits", result.Scenarios[0].Name)
	assert.Equal(t, 6, result.Scenarios[0].Solves)
}

func TestTestCommandReportsLoadErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\nsteps: []\nbogus: 1\n"), 0644))

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ bad.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandRobotOverride(t *testing.T) {
	dir := copyScenario(t, "reach_limits", false)

	out, err := execute(t, "test", dir, "--robot", phoenixDir(t))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ reach_limits")

	_, err = execute(t, "test", dir, "--robot", "/nonexistent/robot")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
