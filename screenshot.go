package potion

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Screenshot queues a labeled screenshot to be captured at the end of the
// current frame's Draw call. The PNG is written to the configured
// screenshot folder with a timestamped filename. Safe to call from Update
// or Draw.
func (e *Engine) Screenshot(label string) {
	e.screenshotQueue = append(e.screenshotQueue, label)
}

// flushScreenshots captures the rendered frame once and writes it as a PNG
// for every queued label. A label queued twice in one frame gets a numeric
// suffix so neither file overwrites the other.
func (e *Engine) flushScreenshots(screen *ebiten.Image) {
	if len(e.screenshotQueue) == 0 {
		return
	}
	defer func() { e.screenshotQueue = e.screenshotQueue[:0] }()

	if err := os.MkdirAll(e.screenshotDir, 0o755); err != nil {
		e.log.Error("screenshot: create folder", zap.String("dir", e.screenshotDir), zap.Error(err))
		return
	}

	img := screenToNRGBA(screen)
	stamp := time.Now().Format("20060102_150405")
	seen := make(map[string]int, len(e.screenshotQueue))

	for _, label := range e.screenshotQueue {
		name := sanitizeLabel(label)
		seen[name]++
		if n := seen[name]; n > 1 {
			name += "_" + strconv.Itoa(n)
		}
		path := filepath.Join(e.screenshotDir, stamp+"_"+name+".png")
		if err := writePNG(path, img); err != nil {
			e.log.Error("screenshot", zap.String("label", label), zap.Error(err))
			continue
		}
		e.log.Info("screenshot saved", zap.String("path", path))
	}
}

// screenToNRGBA reads back the screen as straight-alpha NRGBA.
func screenToNRGBA(screen *ebiten.Image) *image.NRGBA {
	size := screen.Bounds().Size()
	pixels := make([]byte, 4*size.X*size.Y)
	screen.ReadPixels(pixels)
	return unpremultiply(pixels, size.X, size.Y)
}

// unpremultiply converts premultiplied RGBA bytes to an NRGBA image.
// Channels that exceed their alpha are clamped to 255.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := &image.NRGBA{
		Pix:    pixels,
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	for px := range slices.Chunk(img.Pix, 4) {
		a := int(px[3])
		if a == 0 || a == 255 {
			continue
		}
		for c := range 3 {
			px[c] = uint8(min(int(px[c])*255/a, 255))
		}
	}
	return img
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := pngEncoder.Encode(w, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replacing everything
// else with '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
