package playback

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/mocap2track/internal/track"
)

func TestEvaluatePosition(t *testing.T) {
	tr := track.Track{
		EntityID:    "a",
		ChannelPath: track.ChannelPosition,
		Keyframes: []track.Keyframe{
			{Time: 0.0, Value: []float64{0, 0, 0}, Interpolation: track.InterpolationLinear},
			{Time: 2.0, Value: []float64{4, 0, 0}, Interpolation: track.InterpolationLinear},
			{Time: 4.0, Value: []float64{4, 2, 0}, Interpolation: track.InterpolationLinear},
		},
	}

	tests := []struct {
		time      float64
		expectedX float64
		expectedY float64
	}{
		{-1.0, 0.0, 0.0}, // Before first keyframe
		{0.0, 0.0, 0.0},  // First keyframe
		{1.0, 2.0, 0.0},  // Midpoint between first and second
		{2.0, 4.0, 0.0},  // Second keyframe
		{3.0, 4.0, 1.0},  // Midpoint between second and third
		{4.0, 4.0, 2.0},  // Third keyframe
		{5.0, 4.0, 2.0},  // After last keyframe
	}

	for _, tt := range tests {
		value := Evaluate(tr, tt.time)

		if math.Abs(value[0]-tt.expectedX) > 1e-9 || math.Abs(value[1]-tt.expectedY) > 1e-9 {
			t.Errorf("At time %.1f: expected (%.2f, %.2f), got (%.2f, %.2f)",
				tt.time, tt.expectedX, tt.expectedY, value[0], value[1])
		}
	}
}

func TestEvaluateRotationStaysNormalized(t *testing.T) {
	q0 := mgl64.QuatRotate(0, mgl64.Vec3{0, 1, 0})
	q1 := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})

	tr := track.Track{
		EntityID:    "a",
		ChannelPath: track.ChannelRotation,
		Keyframes: []track.Keyframe{
			{Time: 0.0, Value: []float64{q0.X(), q0.Y(), q0.Z(), q0.W}, Interpolation: track.InterpolationLinear},
			{Time: 1.0, Value: []float64{q1.X(), q1.Y(), q1.Z(), q1.W}, Interpolation: track.InterpolationLinear},
		},
	}

	for _, tm := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		value := Evaluate(tr, tm)
		if len(value) != 4 {
			t.Fatalf("At time %.2f: expected 4 components, got %d", tm, len(value))
		}

		norm := math.Sqrt(value[0]*value[0] + value[1]*value[1] + value[2]*value[2] + value[3]*value[3])
		if math.Abs(norm-1.0) > 1e-9 {
			t.Errorf("At time %.2f: interpolated quaternion not normalized (norm %v)", tm, norm)
		}
	}
}

func TestEvaluateEmptyTrack(t *testing.T) {
	pos := Evaluate(track.Track{ChannelPath: track.ChannelPosition}, 1.0)
	if len(pos) != 3 {
		t.Fatalf("Expected 3 components for empty position track, got %d", len(pos))
	}

	rot := Evaluate(track.Track{ChannelPath: track.ChannelRotation}, 1.0)
	if len(rot) != 4 || rot[3] != 1.0 {
		t.Fatalf("Expected identity rotation for empty rotation track, got %v", rot)
	}
}

func TestMaxDeviationOnExactTrack(t *testing.T) {
	// A track whose keyframes are the endpoints of a linear motion should
	// replay the interior samples exactly.
	samples := make([]track.Sample, 5)
	for i := range samples {
		samples[i] = track.Sample{
			Time:     float64(i),
			Position: mgl64.Vec3{float64(i), 0, 0},
			Rotation: mgl64.QuatIdent(),
		}
	}

	tr := track.Track{
		EntityID:    "a",
		ChannelPath: track.ChannelPosition,
		Keyframes: []track.Keyframe{
			{Time: 0.0, Value: []float64{0, 0, 0}, Interpolation: track.InterpolationLinear},
			{Time: 4.0, Value: []float64{4, 0, 0}, Interpolation: track.InterpolationLinear},
		},
	}

	dev := MaxDeviation(tr, samples)
	if dev > 1e-9 {
		t.Errorf("Expected zero deviation, got %v", dev)
	}
}
