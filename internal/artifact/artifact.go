// Package artifact saves a screenshot of the page when a case fails, with the
// element that did not show up outlined.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/nfnt/resize"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/v0xg/pageobj/internal/locator"
)

// DefaultMaxWidth is used when Options.MaxWidth is zero
const DefaultMaxWidth = 800

// outline is the color of the box drawn around the failing element
var outline = color.RGBA{R: 229, G: 57, B: 53, A: 255}

const outlineWidth = 3

type Options struct {
	Dir      string
	MaxWidth uint
	Logger   *zap.Logger
}

// Sink writes failure screenshots under Dir/<run id>/<case>.png.
type Sink struct {
	fs       afero.Fs
	dir      string
	maxWidth uint
	logger   *zap.Logger
}

func New(fs afero.Fs, opts Options) *Sink {
	if opts.MaxWidth == 0 {
		opts.MaxWidth = DefaultMaxWidth
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Sink{fs: fs, dir: opts.Dir, maxWidth: opts.MaxWidth, logger: opts.Logger}
}

// Capture screenshots doc and returns the written path. When failing is set
// and doc can report boxes, the element is outlined; a missing box is not an
// error.
func (s *Sink) Capture(ctx context.Context, runID, caseName string, doc locator.Document, failing *locator.Locator) (string, error) {
	shooter, ok := doc.(locator.Screenshotter)
	if !ok {
		return "", locator.ErrUnsupported
	}
	raw, err := shooter.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode screenshot: %w", err)
	}

	canvas := image.NewRGBA(img.Bounds())
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Src)

	if failing != nil {
		if br, ok := doc.(locator.BoxReader); ok {
			box, err := br.Box(ctx, failing.Query())
			if err == nil {
				drawBox(canvas, box)
			} else {
				s.logger.Debug("no box for failing locator", zap.Stringer("locator", failing), zap.Error(err))
			}
		}
	}

	out := scale(canvas, s.maxWidth)

	path := filepath.Join(s.dir, runID, FileName(caseName))
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	s.logger.Info("artifact saved", zap.String("case", caseName), zap.String("path", path))
	return path, nil
}

// FileName turns a case name into a file name: "check left menu loading"
// becomes "check-left-menu-loading.png".
func FileName(caseName string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(caseName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "case"
	}
	return name + ".png"
}

// scale shrinks img to maxWidth keeping the aspect ratio. Narrower images
// are returned unchanged.
func scale(img image.Image, maxWidth uint) image.Image {
	w := uint(img.Bounds().Dx())
	if maxWidth == 0 || w <= maxWidth {
		return img
	}
	// zero height keeps the aspect ratio
	return resize.Resize(maxWidth, 0, img, resize.Lanczos3)
}

func drawBox(img *image.RGBA, box locator.Box) {
	x1, y1 := int(box.X), int(box.Y)
	x2, y2 := int(box.X+box.Width), int(box.Y+box.Height)
	for i := 0; i < outlineWidth; i++ {
		drawLine(img, x1-i, y1-i, x2+i, y1-i, outline)
		drawLine(img, x2+i, y1-i, x2+i, y2+i, outline)
		drawLine(img, x2+i, y2+i, x1-i, y2+i, outline)
		drawLine(img, x1-i, y2+i, x1-i, y1-i, outline)
	}
}

// drawLine draws a line between two points using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		setPixelSafe(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func setPixelSafe(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
