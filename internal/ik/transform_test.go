package ik

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/hexleg/internal/geom"
)

func TestToLegFrame_ZeroOrientationIsExactSubtraction(t *testing.T) {
	targets := []geom.Vector3{
		geom.V(11.25, -4, 12.15),
		geom.V(-13, -3, -12.25),
		geom.V(0.1, 0.2, 0.3),
	}
	origin := geom.V(4.25, 2.875, 8.15)

	for _, p := range targets {
		assert.Equal(t, p.Sub(origin), ToLegFrame(p, origin, Orientation{}))
	}
}

func TestToLegFrame_EndToEndLocalTarget(t *testing.T) {
	got := ToLegFrame(geom.V(11.25, -4, 12.15), geom.V(4.25, 2.875, 8.15), Orientation{})
	assert.Equal(t, geom.V(7, -6.875, 4), got)
}

func TestToLegFrame_RollMatchesReference(t *testing.T) {
	got := ToLegFrame(geom.V(11.25, -4, 12.15), geom.Zero, Orientation{Roll: 0.25})

	assert.InDelta(t, 11.889880581269, got.X, 1e-9)
	assert.InDelta(t, -1.092355145225, got.Y, 1e-9)
	assert.InDelta(t, 12.15, got.Z, 1e-12)
}

func TestToLegFrame_RotatesOriginWithTarget(t *testing.T) {
	o := Orientation{Roll: 0.1, Pitch: -0.2, Yaw: 0.15}
	origin := geom.V(4.25, 2.875, 8.15)

	// The foot at the hip stays at the hip whatever the attitude.
	got := ToLegFrame(origin, origin, o)
	assert.Equal(t, geom.Zero, got)

	// Distance from the hip is invariant under a rigid rotation.
	p := geom.V(11.25, -4, 12.15)
	assert.InDelta(t, p.Sub(origin).Norm(), ToLegFrame(p, origin, o).Norm(), 1e-12)
}

func TestToLegFrame_RotationOrderMatters(t *testing.T) {
	o := Orientation{Roll: 0.25, Pitch: 0.2, Yaw: -0.15}
	p := geom.V(11.25, -4, 12.15)

	rollPitchYaw := ToLegFrame(p, geom.Zero, o)

	yawPitchRoll := geom.RotateZ(geom.RotateX(geom.RotateY(p, o.Yaw), o.Pitch), o.Roll)

	assert.NotEqual(t, rollPitchYaw, yawPitchRoll)
	assert.Greater(t, rollPitchYaw.Sub(yawPitchRoll).Norm(), 1e-3)
}

func TestApplyOffset(t *testing.T) {
	target := geom.V(11.25, -4, 12.15)

	assert.Equal(t, target, ApplyOffset(target, geom.Zero))
	// Raising the body by one unit puts the planted foot one unit lower.
	assert.Equal(t, geom.V(11.25, -5, 12.15), ApplyOffset(target, geom.V(0, 1, 0)))
}
