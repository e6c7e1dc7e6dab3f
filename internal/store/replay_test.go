package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hexleg/internal/ik"
)

func TestReplay_Deterministic(t *testing.T) {
	s := createTestStore(t)
	recordRun(t, s, "run-1", frontPair(t), homeRequests, failingRequests)

	result, err := s.Replay(context.Background(), "run-1", nil)
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunToken)
	assert.Equal(t, 4, result.Total)
	assert.True(t, result.Deterministic(), "%+v", result.Diverged)
}

func TestReplay_DetectsChangedRobot(t *testing.T) {
	s := createTestStore(t)
	legs := frontPair(t)
	recordRun(t, s, "run-1", legs, homeRequests)

	changed := append([]ik.Leg(nil), legs...)
	changed[0].Geometry.TibiaLength = 10.5

	result, err := s.Replay(context.Background(), "run-1", changed)
	require.NoError(t, err)
	require.Len(t, result.Diverged, 1)
	assert.Equal(t, "r1", result.Diverged[0].Leg)
	assert.Equal(t, int64(2), result.Diverged[0].Seq)
}

func TestReplay_MissingLeg(t *testing.T) {
	s := createTestStore(t)
	legs := frontPair(t)
	recordRun(t, s, "run-1", legs, homeRequests)

	result, err := s.Replay(context.Background(), "run-1", legs[:1])
	require.NoError(t, err)
	require.Len(t, result.Diverged, 1)
	assert.Equal(t, "l1", result.Diverged[0].Leg)
	assert.Equal(t, "leg not in robot", result.Diverged[0].Replayed)
}

func TestReplay_DetectsTamperedAngles(t *testing.T) {
	s := createTestStore(t)
	recordRun(t, s, "run-1", frontPair(t), homeRequests)

	_, err := s.db.Exec(`UPDATE solves SET result = '{"angles":["f:0000000000000000","f:0000000000000000","f:0000000000000000"]}' WHERE leg = 'l1'`)
	require.NoError(t, err)

	result, err := s.Replay(context.Background(), "run-1", nil)
	require.NoError(t, err)
	require.Len(t, result.Diverged, 1)
	assert.Equal(t, "l1", result.Diverged[0].Leg)
}

func TestReplay_DetectsTamperedRobot(t *testing.T) {
	s := createTestStore(t)
	recordRun(t, s, "run-1", frontPair(t), homeRequests)

	_, err := s.db.Exec(`UPDATE runs SET robot_hash = 'bogus'`)
	require.NoError(t, err)

	_, err = s.Replay(context.Background(), "run-1", nil)
	assert.ErrorContains(t, err, "does not match")
}

func TestReplay_UnknownRun(t *testing.T) {
	s := createTestStore(t)
	_, err := s.Replay(context.Background(), "missing", nil)
	assert.Error(t, err)
}

func TestReplay_Cancelled(t *testing.T) {
	s := createTestStore(t)
	recordRun(t, s, "run-1", frontPair(t), homeRequests)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Replay(ctx, "run-1", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
