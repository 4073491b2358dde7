package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/mocap2track/internal/simplify"
	"github.com/ivlev/mocap2track/internal/track"
)

const (
	plotWidth  = 960
	plotHeight = 320
	margin     = 32
)

var (
	backgroundColor = color.RGBA{16, 16, 24, 255}
	axisColor       = color.RGBA{90, 90, 100, 255}
	signalColor     = color.RGBA{120, 170, 255, 255}
	keyframeColor   = color.RGBA{255, 200, 40, 255}
	labelColor      = color.RGBA{220, 220, 220, 255}
)

// RenderTrack plots a channel's dense scalar signal with the retained
// keyframes marked on top of it. The vertical axis is the same projection
// the simplifier reduced (position magnitude or rotation angle), so the plot
// shows exactly what the tolerance was applied to.
func RenderTrack(samples []track.Sample, tr track.Track) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, plotWidth, plotHeight))
	fill(img, backgroundColor)

	// Axes
	drawLine(img, margin, plotHeight-margin, plotWidth-margin, plotHeight-margin, axisColor)
	drawLine(img, margin, margin, margin, plotHeight-margin, axisColor)

	label := fmt.Sprintf("%s | %s | %d samples -> %d keyframes",
		tr.EntityID, tr.ChannelPath, len(samples), len(tr.Keyframes))
	drawString(img, margin, margin-10, label, labelColor)

	if len(samples) == 0 {
		return img
	}

	signal := simplify.Signal(samples, tr.ChannelPath)

	minTime, maxTime := samples[0].Time, samples[len(samples)-1].Time
	minVal, maxVal := signal[0], signal[0]
	for _, v := range signal {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	// Signal polyline
	prevX, prevY := plotPoint(samples[0].Time, signal[0], minTime, maxTime, minVal, maxVal)
	for i := 1; i < len(samples); i++ {
		x, y := plotPoint(samples[i].Time, signal[i], minTime, maxTime, minVal, maxVal)
		drawLine(img, prevX, prevY, x, y, signalColor)
		prevX, prevY = x, y
	}

	// Keyframe markers
	for _, kf := range tr.Keyframes {
		value := kf.Position().Len()
		if tr.ChannelPath == track.ChannelRotation {
			w := math.Abs(kf.Rotation().W)
			if w > 1 {
				w = 1
			}
			value = 2 * math.Acos(w)
		}
		x, y := plotPoint(kf.Time, value, minTime, maxTime, minVal, maxVal)
		drawMarker(img, x, y, keyframeColor)
	}

	return img
}

// WritePNG saves a rendered plot to disk.
func WritePNG(img *image.RGBA, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// plotPoint maps a (time, value) pair into pixel coordinates. Degenerate
// ranges (single frame, flat signal) collapse to the low edge.
func plotPoint(t, v, minTime, maxTime, minVal, maxVal float64) (int, int) {
	fx := 0.0
	if maxTime > minTime {
		fx = (t - minTime) / (maxTime - minTime)
	}
	fy := 0.0
	if maxVal > minVal {
		fy = (v - minVal) / (maxVal - minVal)
	}

	x := margin + int(fx*float64(plotWidth-2*margin))
	y := (plotHeight - margin) - int(fy*float64(plotHeight-2*margin))
	return x, y
}

func fill(img *image.RGBA, c color.RGBA) {
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		img.SetRGBA(x0, y0, c)
		return
	}

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(math.Round(float64(dx)*t))
		y := y0 + int(math.Round(float64(dy)*t))
		img.SetRGBA(x, y, c)
	}
}

func drawMarker(img *image.RGBA, cx, cy int, c color.RGBA) {
	for y := cy - 2; y <= cy+2; y++ {
		for x := cx - 2; x <= cx+2; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawString(img *image.RGBA, x, y int, s string, c color.RGBA) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(s)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
