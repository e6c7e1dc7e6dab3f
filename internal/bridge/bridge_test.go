package bridge

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hexleg/internal/geom"
	"github.com/roach88/hexleg/internal/ik"
	"github.com/roach88/hexleg/internal/robot"
	"github.com/roach88/hexleg/internal/store"
	"github.com/roach88/hexleg/internal/testutil"
)

func TestConfig_Topics(t *testing.T) {
	assert.Equal(t, "hexleg/request", Config{}.RequestTopic())
	assert.Equal(t, "hexleg/angles", Config{}.AnglesTopic())

	cfg := Config{Prefix: "bot7"}
	assert.Equal(t, "bot7/request", cfg.RequestTopic())
	assert.Equal(t, "bot7/angles", cfg.AnglesTopic())
}

func TestHandle_LevelStance(t *testing.T) {
	b := New(robot.Phoenix().Legs, nil)

	out, err := b.Handle(context.Background(), []byte(`{
		"id": "42",
		"targets": {"r1": [11.25, -4, 12.15], "l2": [-13.25, -4, 0]}
	}`))
	require.NoError(t, err)

	var reply Reply
	require.NoError(t, json.Unmarshal(out, &reply))
	assert.Equal(t, "42", reply.ID)
	require.Len(t, reply.Legs, 2)

	r1 := reply.Legs["r1"]
	require.NotNil(t, r1.JointAngles)
	assert.InDelta(t, 29.744881297, r1.Coxa, 1e-6)
	assert.InDelta(t, 24.227417097, r1.Femur, 1e-6)
	assert.InDelta(t, -109.880310635, r1.Tibia, 1e-6)
	assert.Empty(t, r1.Unreachable)

	l2 := reply.Legs["l2"]
	require.NotNil(t, l2.JointAngles)
	assert.InDelta(t, 180, l2.Coxa, 1e-9)
}

func TestHandle_UnreachableLegsCarryNoAngles(t *testing.T) {
	b := New(robot.Phoenix().Legs, nil)

	out, err := b.Handle(context.Background(), []byte(`{
		"id": "x",
		"targets": {"r1": [11.25, -4, 4], "l1": [-60, -4, 12.15]}
	}`))
	require.NoError(t, err)

	var raw struct {
		Legs map[string]map[string]any `json:"legs"`
	}
	require.NoError(t, json.Unmarshal(out, &raw))

	assert.Equal(t, map[string]any{"unreachable": "GEOMETRICALLY_UNREACHABLE"}, raw.Legs["l1"])
	assert.Equal(t, map[string]any{"unreachable": "OUT_OF_MECHANICAL_RANGE", "joint": "coxa"}, raw.Legs["r1"])
}

func TestHandle_OffsetShiftsTargets(t *testing.T) {
	legs := robot.Phoenix().Legs
	b := New(legs, nil)
	o := ik.Orientation{Pitch: 0.05}

	reply, err := b.Solve(context.Background(), &Request{
		ID:          "raised",
		Orientation: o,
		Offset:      [3]float64{0, 1.5, 0},
		Targets:     map[string][3]float64{"r2": {13.25, -4, 0}},
	})
	require.NoError(t, err)

	want, err := ik.Solve(ik.Request{Target: geom.V(13.25, -5.5, 0), Orientation: o}, legs[2])
	require.NoError(t, err)
	require.NotNil(t, reply.Legs["r2"].JointAngles)
	assert.Equal(t, want, *reply.Legs["r2"].JointAngles)
}

func TestHandle_Rejects(t *testing.T) {
	b := New(robot.Phoenix().Legs, nil)

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"malformed", `{"id":`, "invalid request"},
		{"no targets", `{"id": "a", "targets": {}}`, "no targets"},
		{"unknown leg", `{"id": "a", "targets": {"m9": [1, 2, 3]}}`, `unknown leg "m9"`},
		{"wrong type", `{"id": "a", "targets": {"r1": "home"}}`, "invalid request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := b.Handle(context.Background(), []byte(tt.payload))
			require.Error(t, err)
			assert.Nil(t, out)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHandle_RecordsToSolveLog(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	r := robot.Phoenix()
	rec, err := st.StartRun(ctx,
		testutil.NewFixedTokenGenerator("bridge-run"),
		testutil.NewDeterministicClock(),
		r.Name, r.Legs)
	require.NoError(t, err)

	b := New(r.Legs, rec)
	_, err = b.Handle(ctx, []byte(`{"id": "1", "targets": {"l1": [-11.25, -4, 12.15], "r1": [11.25, -4, 12.15]}}`))
	require.NoError(t, err)
	_, err = b.Handle(ctx, []byte(`{"id": "2", "targets": {"l1": [-60, -4, 12.15]}}`))
	require.NoError(t, err)

	_, solves, err := st.ReadRun(ctx, "bridge-run")
	require.NoError(t, err)
	require.Len(t, solves, 3)

	// Robot order within a request, request order across requests.
	assert.Equal(t, "r1", solves[0].Leg)
	assert.Equal(t, "l1", solves[1].Leg)
	assert.Equal(t, "l1", solves[2].Leg)
	assert.False(t, solves[2].OK())

	res, err := st.Replay(ctx, "bridge-run", nil)
	require.NoError(t, err)
	assert.True(t, res.Deterministic())
}
