package playback

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/mocap2track/internal/track"
)

// Evaluate calculates a track's value at a given time by interpolating
// between its keyframes. Position channels interpolate componentwise;
// rotation channels use a normalized quaternion lerp.
func Evaluate(tr track.Track, currentTime float64) []float64 {
	keyframes := tr.Keyframes
	if len(keyframes) == 0 {
		if tr.ChannelPath == track.ChannelRotation {
			return []float64{0, 0, 0, 1} // identity
		}
		return []float64{0, 0, 0}
	}

	// If before first keyframe, use first keyframe
	if currentTime <= keyframes[0].Time {
		return cloneValue(keyframes[0].Value)
	}

	// If after last keyframe, use last keyframe
	if currentTime >= keyframes[len(keyframes)-1].Time {
		return cloneValue(keyframes[len(keyframes)-1].Value)
	}

	// Find surrounding keyframes
	var prevKf, nextKf track.Keyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if currentTime >= keyframes[i].Time && currentTime < keyframes[i+1].Time {
			prevKf = keyframes[i]
			nextKf = keyframes[i+1]
			break
		}
	}

	// Calculate interpolation factor (0.0 to 1.0)
	timeDelta := nextKf.Time - prevKf.Time
	if timeDelta == 0 {
		timeDelta = 0.001 // Avoid division by zero
	}
	t := (currentTime - prevKf.Time) / timeDelta

	if tr.ChannelPath == track.ChannelRotation {
		q := mgl64.QuatNlerp(prevKf.Rotation(), nextKf.Rotation(), t)
		return []float64{q.X(), q.Y(), q.Z(), q.W}
	}

	value := make([]float64, len(prevKf.Value))
	for i := range value {
		value[i] = prevKf.Value[i] + (nextKf.Value[i]-prevKf.Value[i])*t
	}
	return value
}

// Deviation measures how far a baked track strays from one original sample,
// evaluated at the sample's time: Euclidean distance for position, rotation
// angle between orientations for rotation.
func Deviation(tr track.Track, sample track.Sample) float64 {
	value := Evaluate(tr, sample.Time)

	if tr.ChannelPath == track.ChannelRotation {
		q := mgl64.Quat{W: value[3], V: mgl64.Vec3{value[0], value[1], value[2]}}
		dot := math.Abs(q.Dot(sample.Rotation))
		if dot > 1 {
			dot = 1
		}
		return 2 * math.Acos(dot)
	}

	var pos mgl64.Vec3
	copy(pos[:], value)
	return pos.Sub(sample.Position).Len()
}

// MaxDeviation is the largest Deviation of a track over a dense sample
// stream. It is what the CLI's verify pass reports.
func MaxDeviation(tr track.Track, samples []track.Sample) float64 {
	maxDev := 0.0
	for _, s := range samples {
		if d := Deviation(tr, s); d > maxDev {
			maxDev = d
		}
	}
	return maxDev
}

func cloneValue(value []float64) []float64 {
	out := make([]float64, len(value))
	copy(out, value)
	return out
}
