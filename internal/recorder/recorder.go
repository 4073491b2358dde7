package recorder

import (
	"github.com/ivlev/mocap2track/internal/scene"
	"github.com/ivlev/mocap2track/internal/simplify"
	"github.com/ivlev/mocap2track/internal/track"
)

// Recorder captures per-frame transform snapshots for a set of tracked
// entities and bakes the buffered streams into keyframe tracks on stop.
//
// A recorder holds exactly one session. It is synchronous and not safe for
// concurrent use; a host embedding it in a multi-threaded loop must
// serialize all calls.
type Recorder struct {
	// Epsilon is the error tolerance handed to the curve simplifier.
	Epsilon float64

	graph     scene.Graph
	recording bool
	tracked   []string
	samples   map[string][]track.Sample
}

// NewRecorder creates a recorder reading transforms from the given graph.
func NewRecorder(graph scene.Graph) *Recorder {
	return &Recorder{
		Epsilon: simplify.DefaultEpsilon,
		graph:   graph,
	}
}

// IsRecording reports whether a session is active.
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// StartRecording begins a session tracking the given entity ids, in order.
// Any buffered data from a prior session is discarded. Duplicate ids are
// kept in the tracked list but share one buffer, so each duplicate emits the
// same tracks again on stop. An empty list records nothing but is still an
// active session.
func (r *Recorder) StartRecording(entityIDs []string) {
	r.tracked = make([]string, len(entityIDs))
	copy(r.tracked, entityIDs)

	r.samples = make(map[string][]track.Sample, len(entityIDs))
	for _, id := range entityIDs {
		r.samples[id] = nil
	}

	r.recording = true
}

// CaptureFrame snapshots every tracked entity's transform at the given time.
// It is a no-op when no session is active. Entities absent from the graph
// are skipped for this frame only. Transform values are copied out; the live
// graph is never aliased.
func (r *Recorder) CaptureFrame(time float64) {
	if !r.recording {
		return
	}

	for _, id := range r.tracked {
		node, ok := r.graph.GetNode(id)
		if !ok {
			continue
		}

		r.samples[id] = append(r.samples[id], track.Sample{
			Time:     time,
			Position: node.Transform.Position,
			Rotation: node.Transform.Rotation,
		})
	}
}

// StopRecording ends the session, bakes every non-empty buffer into a
// position track followed by a rotation track (tracked-id order), and clears
// all session state. Entities that never produced a sample yield no tracks.
func (r *Recorder) StopRecording() []track.Track {
	r.recording = false

	var tracks []track.Track
	for _, id := range r.tracked {
		buffer := r.samples[id]
		if len(buffer) == 0 {
			continue
		}

		tracks = append(tracks,
			track.Track{
				EntityID:    id,
				ChannelPath: track.ChannelPosition,
				Keyframes:   simplify.Reduce(buffer, track.ChannelPosition, r.Epsilon),
			},
			track.Track{
				EntityID:    id,
				ChannelPath: track.ChannelRotation,
				Keyframes:   simplify.Reduce(buffer, track.ChannelRotation, r.Epsilon),
			},
		)
	}

	r.tracked = nil
	r.samples = nil

	return tracks
}
