package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/hexleg/internal/robot"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decode parses a JSON envelope, moving Data into data when non-nil.
func decode(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), out)
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data), out)
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}
}

// writeRobot writes src as a one-file CUE package and returns its directory.
func writeRobot(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "robot.cue"), []byte("package robot\n\n"+src), 0644))
	return dir
}

func phoenixDir(t *testing.T) string {
	t.Helper()
	return writeRobot(t, robot.PhoenixSource())
}

const invalidRobot = `robot: {
	name: "broken"
	links: {femur: -1, tibia: 1}
	leg: a: {
		origin: [0, 0, 0]
		coxa: [90, 0]
		femur: [0, 90]
		tibia: [0, 90]
	}
}
`
