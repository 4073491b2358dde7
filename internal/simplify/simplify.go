package simplify

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/mocap2track/internal/track"
)

// DefaultEpsilon is the error tolerance used by the recorder.
const DefaultEpsilon = 0.001

// Reduce compresses a dense sample stream into a minimal keyframe sequence
// for one channel. Sequences of two or fewer samples are passed through
// verbatim. Keyframes carry the original full vector value at the retained
// sample's time; only the retain/drop decision is made on the 1-D projection.
func Reduce(samples []track.Sample, channelPath string, epsilon float64) []track.Keyframe {
	if len(samples) <= 2 {
		keyframes := make([]track.Keyframe, 0, len(samples))
		for _, s := range samples {
			keyframes = append(keyframes, makeKeyframe(s, channelPath))
		}
		return keyframes
	}

	signal := Signal(samples, channelPath)

	keep := make(map[int]struct{})
	douglasPeucker1D(signal, 0, len(signal)-1, epsilon, keep)

	// Endpoints always survive, regardless of the recursion's own decision.
	keep[0] = struct{}{}
	keep[len(signal)-1] = struct{}{}

	indices := make([]int, 0, len(keep))
	for i := range keep {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	keyframes := make([]track.Keyframe, 0, len(indices))
	for _, i := range indices {
		keyframes = append(keyframes, makeKeyframe(samples[i], channelPath))
	}

	return keyframes
}

// Signal projects each sample onto the scalar the reduction operates on:
// vector magnitude for position, rotation angle for rotation.
func Signal(samples []track.Sample, channelPath string) []float64 {
	signal := make([]float64, len(samples))
	for i, s := range samples {
		if channelPath == track.ChannelRotation {
			signal[i] = rotationAngle(s.Rotation)
		} else {
			signal[i] = s.Position.Len()
		}
	}
	return signal
}

// rotationAngle returns the rotation angle magnitude 2*acos(|w|). The acos
// argument is clamped so unit quaternions whose scalar part drifted slightly
// above 1 do not produce NaN.
func rotationAngle(q mgl64.Quat) float64 {
	w := math.Abs(q.W)
	if w > 1 {
		w = 1
	}
	return 2 * math.Acos(w)
}

// douglasPeucker1D runs the Ramer-Douglas-Peucker reduction over values in
// the inclusive index range [start, end], collecting retained interior
// indices into keep. Endpoints are the caller's responsibility.
//
// The max-deviation comparison is strict, so equal deviations resolve to the
// lowest index, and NaN deviations are never selected.
func douglasPeucker1D(values []float64, start, end int, epsilon float64, keep map[int]struct{}) {
	if end-start <= 1 {
		return
	}

	maxDist := 0.0
	maxIdx := -1

	for i := start + 1; i < end; i++ {
		t := float64(i-start) / float64(end-start)
		interp := values[start] + (values[end]-values[start])*t
		dist := math.Abs(values[i] - interp)

		if dist > maxDist {
			maxDist = dist
			maxIdx = i
		}
	}

	if maxDist > epsilon {
		keep[maxIdx] = struct{}{}
		douglasPeucker1D(values, start, maxIdx, epsilon, keep)
		douglasPeucker1D(values, maxIdx, end, epsilon, keep)
	}
}

func makeKeyframe(s track.Sample, channelPath string) track.Keyframe {
	var value []float64
	if channelPath == track.ChannelRotation {
		value = []float64{s.Rotation.X(), s.Rotation.Y(), s.Rotation.Z(), s.Rotation.W}
	} else {
		value = []float64{s.Position.X(), s.Position.Y(), s.Position.Z()}
	}

	return track.Keyframe{
		Time:          s.Time,
		Value:         value,
		Interpolation: track.InterpolationLinear,
	}
}
