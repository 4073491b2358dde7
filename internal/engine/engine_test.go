package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/mocap2track/internal/config"
	"github.com/ivlev/mocap2track/internal/track"
)

func testTake() *track.Take {
	take := &track.Take{
		Version:  "1.0",
		Entities: []string{"a", "b"},
		Samples:  make(map[string][]track.Sample),
	}

	for i := 0; i <= 9; i++ {
		t := float64(i) * 0.1
		take.Samples["a"] = append(take.Samples["a"], track.Sample{
			Time:     t,
			Position: mgl64.Vec3{float64(i), 0, 0},
			Rotation: mgl64.QuatIdent(),
		})
	}

	// "b" drops out for a few frames mid-take.
	for i := 0; i <= 9; i++ {
		if i >= 3 && i <= 5 {
			continue
		}
		t := float64(i) * 0.1
		take.Samples["b"] = append(take.Samples["b"], track.Sample{
			Time:     t,
			Position: mgl64.Vec3{0, float64(i * i), 0},
			Rotation: mgl64.QuatRotate(float64(i)*0.2, mgl64.Vec3{0, 0, 1}),
		})
	}

	return take
}

// TestReplayTake checks a stored take replayed through the recorder yields
// tracks covering exactly the recorded samples, dropout included.
func TestReplayTake(t *testing.T) {
	take := testTake()

	tracks := ReplayTake(take, 0.001)

	require.Len(t, tracks, 4)
	assert.Equal(t, "a", tracks[0].EntityID)
	assert.Equal(t, track.ChannelPosition, tracks[0].ChannelPath)
	assert.Equal(t, "b", tracks[2].EntityID)

	// Linear motion for "a" collapses to its endpoints.
	require.Len(t, tracks[0].Keyframes, 2)
	assert.Equal(t, 0.0, tracks[0].Keyframes[0].Time)
	assert.InDelta(t, 0.9, tracks[0].Keyframes[1].Time, 1e-12)

	// "b" resumes after its dropout: first and last sample times survive,
	// and no keyframe falls inside the gap.
	bPos := tracks[2]
	assert.Equal(t, 0.0, bPos.Keyframes[0].Time)
	assert.InDelta(t, 0.9, bPos.Keyframes[len(bPos.Keyframes)-1].Time, 1e-12)
	for _, kf := range bPos.Keyframes {
		assert.False(t, kf.Time > 0.25 && kf.Time < 0.55, "keyframe at %v falls in dropout gap", kf.Time)
	}
}

// TestFrameTimes checks the replay clock is the sorted union of every
// entity's timestamps.
func TestFrameTimes(t *testing.T) {
	take := &track.Take{
		Samples: map[string][]track.Sample{
			"a": {{Time: 0}, {Time: 2}},
			"b": {{Time: 1}, {Time: 2}, {Time: 3}},
		},
	}

	times := frameTimes(take)
	assert.Equal(t, []float64{0, 1, 2, 3}, times)
}

// TestBakeProjectRun bakes a directory of takes end to end.
func TestBakeProjectRun(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")

	take := testTake()
	require.NoError(t, track.WriteTake(take, filepath.Join(inputDir, "take_a.yaml")))
	require.NoError(t, track.WriteTake(take, filepath.Join(inputDir, "take_b.yaml")))

	cfg := &config.Config{
		InputPath: inputDir,
		OutputDir: outputDir,
		Epsilon:   0.001,
		Workers:   2,
	}

	project := NewBakeProject(cfg)
	require.NoError(t, project.Run())

	for _, name := range []string{"take_a_tracks.yaml", "take_b_tracks.yaml"} {
		path := filepath.Join(outputDir, name)
		_, err := os.Stat(path)
		require.NoError(t, err, "missing bake output %s", name)

		tracks, err := track.ReadTracks(path)
		require.NoError(t, err)
		assert.Len(t, tracks, 4)
	}

	assert.Equal(t, 2*(10+7), project.samplesIn)
	assert.Greater(t, project.keyframesOut, 0)
}

// TestBakeProjectRun_SingleFile bakes one take file directly.
func TestBakeProjectRun_SingleFile(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")
	takePath := filepath.Join(inputDir, "solo.yaml")
	require.NoError(t, track.WriteTake(testTake(), takePath))

	cfg := &config.Config{
		InputPath: takePath,
		OutputDir: outputDir,
		Epsilon:   0.001,
		Workers:   1,
		Preview:   true,
	}

	require.NoError(t, NewBakeProject(cfg).Run())

	tracks, err := track.ReadTracks(filepath.Join(outputDir, "solo_tracks.yaml"))
	require.NoError(t, err)
	assert.Len(t, tracks, 4)

	previews, err := filepath.Glob(filepath.Join(outputDir, "*.png"))
	require.NoError(t, err)
	assert.Len(t, previews, 4)
}
