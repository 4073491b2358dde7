package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/mocap2track/internal/config"
	"github.com/ivlev/mocap2track/internal/engine"
	"github.com/ivlev/mocap2track/internal/system"
	"github.com/ivlev/mocap2track/internal/track"
)

var buildVersion = "dev"

func main() {
	// Create the expected directories if they are missing
	dirs := []string{"input/takes", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	inputPtr := flag.String("input", "", "Path to a take file or a directory of takes (default: newest take in input/takes/)")
	outputPtr := flag.String("output", "output", "Directory for baked track files")
	epsilonPtr := flag.Float64("epsilon", 0.001, "Error tolerance for keyframe reduction")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Concurrent takes")
	previewPtr := flag.Bool("preview", false, "Render a PNG plot per baked track")
	verifyPtr := flag.Bool("verify", false, "Report max playback deviation of each baked track")
	statsPtr := flag.Bool("stats", false, "Print and log a performance report")
	demoPtr := flag.Bool("demo", false, "Synthesize a demo take into input/takes/ and bake it")

	flag.Parse()

	inputPath := *inputPtr

	if *demoPtr {
		demoPath, err := writeDemoTake()
		if err != nil {
			log.Fatalf("[-] Failed to write demo take: %v", err)
		}
		fmt.Printf("[*] Demo take written: %s\n", demoPath)
		inputPath = demoPath
	}

	if inputPath == "" {
		latest, err := system.FindLatestTake("input/takes")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a take file in input/takes/ or run with -demo", err)
		}
		inputPath = latest
		fmt.Printf("[*] Selected take: %s\n", inputPath)
	}

	cfg := &config.Config{
		InputPath:    inputPath,
		OutputDir:    *outputPtr,
		Epsilon:      *epsilonPtr,
		Workers:      *workersPtr,
		Preview:      *previewPtr,
		Verify:       *verifyPtr,
		ShowStats:    *statsPtr,
		BuildVersion: buildVersion,
	}

	project := engine.NewBakeProject(cfg)
	if err := project.Run(); err != nil {
		log.Fatalf("[-] Bake failed: %v", err)
	}

	fmt.Printf("[+++] Success! Tracks saved to: %s\n", cfg.OutputDir)
}

// writeDemoTake synthesizes a short two-entity performance: one entity
// orbiting the origin while spinning, one bobbing in place. 4 seconds at
// 30 fps, enough for the reduction to have something to throw away.
func writeDemoTake() (string, error) {
	const (
		fps      = 30
		duration = 4.0
	)

	take := &track.Take{
		Version:  "1.0",
		Entities: []string{"orbiter", "bobber"},
		Samples:  make(map[string][]track.Sample),
	}

	frameCount := int(duration * fps)
	for i := 0; i <= frameCount; i++ {
		t := float64(i) / fps
		angle := t * math.Pi / 2

		take.Samples["orbiter"] = append(take.Samples["orbiter"], track.Sample{
			Time:     t,
			Position: mgl64.Vec3{2 * math.Cos(angle), 0, 2 * math.Sin(angle)},
			Rotation: mgl64.QuatRotate(angle, mgl64.Vec3{0, 1, 0}),
		})

		take.Samples["bobber"] = append(take.Samples["bobber"], track.Sample{
			Time:     t,
			Position: mgl64.Vec3{0, 0.5 * math.Sin(2*math.Pi*t), 0},
			Rotation: mgl64.QuatIdent(),
		})
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join("input", "takes", fmt.Sprintf("take_%s.yaml", timestamp))

	if err := track.WriteTake(take, path); err != nil {
		return "", err
	}
	return path, nil
}
