package track

import (
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Channel paths understood by the simplifier and playback.
const (
	ChannelPosition = "transform.position"
	ChannelRotation = "transform.rotation"
)

// InterpolationLinear is the only interpolation mode produced by the baker.
const InterpolationLinear = "linear"

// Sample is one snapshot of one entity's transform at one instant. It is the
// unit the recorder buffers and the unit a take file stores.
type Sample struct {
	Time     float64
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// sampleYAML is the wire form of a Sample. Rotation is stored as
// [x, y, z, w]: index 3 is the scalar part.
type sampleYAML struct {
	Time     float64   `yaml:"time"`
	Position []float64 `yaml:"position,flow"`
	Rotation []float64 `yaml:"rotation,flow"`
}

func (s Sample) MarshalYAML() (interface{}, error) {
	return sampleYAML{
		Time:     s.Time,
		Position: []float64{s.Position.X(), s.Position.Y(), s.Position.Z()},
		Rotation: []float64{s.Rotation.X(), s.Rotation.Y(), s.Rotation.Z(), s.Rotation.W},
	}, nil
}

func (s *Sample) UnmarshalYAML(node *yaml.Node) error {
	var raw sampleYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	s.Time = raw.Time
	s.Position = mgl64.Vec3{}
	copy(s.Position[:], raw.Position)
	var rot [4]float64
	copy(rot[:], raw.Rotation)
	s.Rotation = mgl64.Quat{W: rot[3], V: mgl64.Vec3{rot[0], rot[1], rot[2]}}
	return nil
}

// Keyframe is a retained sample for one channel. Value holds the full vector:
// [x, y, z] for position, [x, y, z, w] for rotation.
type Keyframe struct {
	Time          float64   `yaml:"time"`
	Value         []float64 `yaml:"value,flow"`
	Interpolation string    `yaml:"interpolation"`
}

// Position interprets the keyframe value as a position vector.
func (k Keyframe) Position() mgl64.Vec3 {
	var v mgl64.Vec3
	copy(v[:], k.Value)
	return v
}

// Rotation interprets the keyframe value as an [x, y, z, w] quaternion.
func (k Keyframe) Rotation() mgl64.Quat {
	var raw [4]float64
	copy(raw[:], k.Value)
	return mgl64.Quat{W: raw[3], V: mgl64.Vec3{raw[0], raw[1], raw[2]}}
}

// Track is one baked animation channel for one entity. Keyframe times are
// strictly increasing.
type Track struct {
	EntityID    string     `yaml:"entity"`
	ChannelPath string     `yaml:"channel"`
	Keyframes   []Keyframe `yaml:"keyframes"`
}

// Take is a dense recorded performance: the recorder's per-entity sample
// buffers flushed to disk, before any simplification.
type Take struct {
	Version  string              `yaml:"version"`
	Entities []string            `yaml:"entities"`
	Samples  map[string][]Sample `yaml:"samples"`
}

// TrackFile is the on-disk form of a bake result.
type TrackFile struct {
	Version string  `yaml:"version"`
	Tracks  []Track `yaml:"tracks"`
}
