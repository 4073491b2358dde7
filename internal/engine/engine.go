package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/mocap2track/internal/config"
	"github.com/ivlev/mocap2track/internal/playback"
	"github.com/ivlev/mocap2track/internal/preview"
	"github.com/ivlev/mocap2track/internal/recorder"
	"github.com/ivlev/mocap2track/internal/scene"
	"github.com/ivlev/mocap2track/internal/system"
	"github.com/ivlev/mocap2track/internal/track"
)

// BakeProject turns a directory (or single file) of dense take files into
// baked keyframe track files.
type BakeProject struct {
	Config *config.Config

	mu           sync.Mutex
	samplesIn    int
	keyframesOut int
}

func NewBakeProject(cfg *config.Config) *BakeProject {
	return &BakeProject{Config: cfg}
}

// Run bakes every take reachable from Config.InputPath. Takes are processed
// concurrently, bounded by Config.Workers; each take is independent.
func (p *BakeProject) Run() error {
	startTime := time.Now()

	takePaths, err := p.collectTakePaths()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(p.Config.OutputDir, 0755); err != nil {
		return err
	}

	fmt.Println("--- [PROJECT: BAKE ENGINE] ---")
	fmt.Printf("[*] Input: %s | Takes: %d\n", p.Config.InputPath, len(takePaths))
	fmt.Printf("[*] Tolerance: %g | Workers: %d\n", p.Config.Epsilon, p.Config.Workers)
	fmt.Println("------------------------------")

	var group errgroup.Group
	group.SetLimit(p.Config.Workers)

	var done int32
	for _, takePath := range takePaths {
		takePath := takePath
		group.Go(func() error {
			if err := p.bakeOne(takePath); err != nil {
				return fmt.Errorf("bake %s: %w", filepath.Base(takePath), err)
			}

			p.mu.Lock()
			done++
			fmt.Printf("[>] Baked: %d/%d (%s)\n", done, len(takePaths), filepath.Base(takePath))
			p.mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if p.Config.ShowStats {
		p.reportStats(len(takePaths), time.Since(startTime))
	}

	return nil
}

// bakeOne loads a take, replays it through a recorder, and writes the baked
// tracks (plus optional previews) next to the configured output dir.
func (p *BakeProject) bakeOne(takePath string) error {
	take, err := track.ReadTake(takePath)
	if err != nil {
		return err
	}

	tracks := ReplayTake(take, p.Config.Epsilon)

	base := strings.TrimSuffix(filepath.Base(takePath), filepath.Ext(takePath))
	outPath := filepath.Join(p.Config.OutputDir, base+"_tracks.yaml")
	if err := track.WriteTracks(tracks, outPath); err != nil {
		return err
	}

	if p.Config.Verify {
		for _, tr := range tracks {
			dev := playback.MaxDeviation(tr, take.Samples[tr.EntityID])
			fmt.Printf("[*] %s %s %s: max playback deviation %.6f\n",
				base, tr.EntityID, tr.ChannelPath, dev)
		}
	}

	if p.Config.Preview {
		for i, tr := range tracks {
			img := preview.RenderTrack(take.Samples[tr.EntityID], tr)
			name := fmt.Sprintf("%s_%s_%d.png", base, tr.EntityID, i)
			if err := preview.WritePNG(img, filepath.Join(p.Config.OutputDir, name)); err != nil {
				return err
			}
		}
	}

	sampleCount := 0
	for _, buffer := range take.Samples {
		sampleCount += len(buffer)
	}
	keyframeCount := 0
	for _, tr := range tracks {
		keyframeCount += len(tr.Keyframes)
	}

	p.mu.Lock()
	p.samplesIn += sampleCount
	p.keyframesOut += keyframeCount
	p.mu.Unlock()

	return nil
}

// ReplayTake feeds a stored take through the same capture path live
// recording uses: a memory graph is stepped to each recorded timestamp and a
// recorder snapshots it frame by frame. Entities with no sample at a given
// time are absent from the graph for that frame, reproducing dropout.
func ReplayTake(take *track.Take, epsilon float64) []track.Track {
	graph := scene.NewMemoryGraph()
	rec := recorder.NewRecorder(graph)
	rec.Epsilon = epsilon

	rec.StartRecording(take.Entities)

	cursors := make(map[string]int, len(take.Samples))
	for _, frameTime := range frameTimes(take) {
		for id, buffer := range take.Samples {
			i := cursors[id]
			if i < len(buffer) && buffer[i].Time == frameTime {
				graph.Put(id, buffer[i].Position, buffer[i].Rotation)
				cursors[id] = i + 1
			} else {
				graph.Remove(id)
			}
		}
		rec.CaptureFrame(frameTime)
	}

	return rec.StopRecording()
}

// frameTimes returns the sorted union of every entity's sample timestamps.
func frameTimes(take *track.Take) []float64 {
	seen := make(map[float64]struct{})
	var times []float64
	for _, buffer := range take.Samples {
		for _, s := range buffer {
			if _, ok := seen[s.Time]; !ok {
				seen[s.Time] = struct{}{}
				times = append(times, s.Time)
			}
		}
	}

	sort.Float64s(times)
	return times
}

func (p *BakeProject) collectTakePaths() ([]string, error) {
	info, err := os.Stat(p.Config.InputPath)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return system.ListTakes(p.Config.InputPath)
	}
	return []string{p.Config.InputPath}, nil
}

func (p *BakeProject) reportStats(takeCount int, elapsed time.Duration) {
	ratio := 0.0
	if p.keyframesOut > 0 {
		ratio = float64(p.samplesIn) / float64(p.keyframesOut)
	}

	stats, statsErr := system.CollectProcessStats()

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Takes: %d\n"+
			"Samples In: %d\n"+
			"Keyframes Out: %d\n"+
			"Compression: %.1fx\n",
		p.Config.BuildVersion, elapsed.Seconds(), takeCount, p.samplesIn, p.keyframesOut, ratio,
	)
	if statsErr == nil {
		report += fmt.Sprintf("RSS: %.1f MB | CPU: %.1f%% | Threads: %d\n",
			stats.RSSMegabytes, stats.CPUPercent, stats.Threads)
	}
	report += "----------------------------\n"
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Takes: %d | Total: %.2fs | Samples: %d | Keyframes: %d | Compression: %.1fx\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		takeCount,
		elapsed.Seconds(),
		p.samplesIn,
		p.keyframesOut,
		ratio,
	)

	f, err := os.OpenFile("bake.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Failed to write bake.log: %v\n", err)
	}
}
