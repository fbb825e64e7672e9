package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// Compositor rounds card corners, optionally composes the card over a
// themed background, and caches the finished PNG on disk. Cache
// entries are immutable: a path returned once is returned unchanged
// forever, and identical parameters never re-render.
type Compositor struct {
	cacheDir string
	bgPath   string
	radius   int
	scale    float64
	logger   *slog.Logger
}

func NewCompositor(cacheDir, bgPath string, radius int, scale float64, logger *slog.Logger) *Compositor {
	return &Compositor{
		cacheDir: cacheDir,
		bgPath:   bgPath,
		radius:   radius,
		scale:    clampScale(scale),
		logger:   logger,
	}
}

// Compose returns the path of the finished image for src, rendering
// and caching it on first use. The second return is false when no
// image could be produced; the caller degrades to text.
func (c *Compositor) Compose(src string) (string, bool) {
	if src == "" {
		return "", false
	}

	hasBG := c.bgPath != "" && readable(c.bgPath)
	out := c.cachePath(src, hasBG)

	if readable(out) {
		return out, true
	}

	if err := c.render(src, out, hasBG); err != nil {
		c.logger.Warn("image composition failed", "src", src, "error", err)
		return "", false
	}
	return out, true
}

// cachePath derives the deterministic cache file name from the source
// basename, radius, scale and background presence.
func (c *Compositor) cachePath(src string, hasBG bool) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	name := fmt.Sprintf("%s_r%d_s%d", base, c.radius, int(c.scale*100))
	if hasBG {
		name += "_bg"
	}
	return filepath.Join(c.cacheDir, name+".png")
}

func (c *Compositor) render(src, out string, hasBG bool) error {
	card, err := decode(src)
	if err != nil {
		return fmt.Errorf("decode card: %w", err)
	}

	w := card.Bounds().Dx()
	h := card.Bounds().Dy()
	rounded := roundCorners(card, c.radius)

	var final image.Image
	if hasBG {
		final = c.composeOverBackground(rounded, w, h)
	} else {
		final = overWhite(rounded, w, h)
	}

	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, final); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// composeOverBackground resizes the background to the card's own
// dimensions, shrinks the card by the scale factor and centers it.
// A background that fails to decode degrades to the white canvas.
func (c *Compositor) composeOverBackground(card *image.RGBA, w, h int) image.Image {
	bg, err := decode(c.bgPath)
	if err != nil {
		c.logger.Warn("background decode failed, using plain canvas", "path", c.bgPath, "error", err)
		return overWhite(card, w, h)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	bgResized := resize.Resize(uint(w), uint(h), bg, resize.Lanczos3)
	draw.Draw(out, out.Bounds(), bgResized, bgResized.Bounds().Min, draw.Src)

	nw := max(1, int(float64(w)*c.scale))
	nh := max(1, int(float64(h)*c.scale))
	small := resize.Resize(uint(nw), uint(nh), card, resize.Lanczos3)

	x := (w - nw) / 2
	y := (h - nh) / 2
	draw.Draw(out, image.Rect(x, y, x+nw, y+nh), small, small.Bounds().Min, draw.Over)
	return out
}

// roundCorners applies a rounded-rectangle alpha mask to img. The
// radius is clamped to [0, min(w,h)/2].
func roundCorners(img image.Image, radius int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	r := radius
	if short := min(w, h) / 2; r > short {
		r = short
	}
	if r < 0 {
		r = 0
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	rr := r * r
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if insideRounded(x, y, w, h, r, rr) {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.DrawMask(out, out.Bounds(), img, b.Min, mask, mask.Bounds().Min, draw.Src)
	return out
}

// insideRounded reports whether pixel (x, y) falls inside the rounded
// rectangle of size w×h with corner radius r (rr = r*r).
func insideRounded(x, y, w, h, r, rr int) bool {
	if r == 0 {
		return true
	}
	var cx, cy int
	switch {
	case x < r && y < r:
		cx, cy = r-1, r-1
	case x >= w-r && y < r:
		cx, cy = w-r, r-1
	case x < r && y >= h-r:
		cx, cy = r-1, h-r
	case x >= w-r && y >= h-r:
		cx, cy = w-r, h-r
	default:
		return true
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= rr
}

func overWhite(card *image.RGBA, w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), card, card.Bounds().Min, draw.Over)
	return out
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func clampScale(s float64) float64 {
	if s < 0.1 {
		return 0.1
	}
	if s > 1.0 {
		return 1.0
	}
	return s
}

func readable(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
