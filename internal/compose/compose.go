// Package compose draws resolved layers into the frame's photo window over
// a background, the way the studio canvas shows them.
package compose

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

// ErrFrameMissing is returned when the frame image cannot be loaded for an
// export. On-screen renders draw an error box instead.
var ErrFrameMissing = errors.New("compose: frame image missing")

// Loader supplies decoded images by asset path.
type Loader interface {
	Load(ctx context.Context, p string) (*image.NRGBA, error)
}

// Compositor renders composites. The zero PixelRatio means 1.
type Compositor struct {
	Loader         Loader
	Geometry       Geometry
	BackgroundPath string
	FramePath      string
	PixelRatio     float64
	Logger         *slog.Logger
}

func (c *Compositor) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Compositor) load(ctx context.Context, p string) (*image.NRGBA, error) {
	if p == "" {
		return nil, errors.New("compose: empty path")
	}
	return c.Loader.Load(ctx, p)
}

// Render clears dst and draws background, character layers and frame.
// Layers that fail to load are skipped. A missing frame draws a red box in
// place of the character. The only error is a cancelled context.
func (c *Compositor) Render(ctx context.Context, dst draw.Image, layers []string) error {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	g := c.Geometry

	fill(dst, b, g.BackgroundColor)
	if bg, err := c.load(ctx, c.BackgroundPath); err == nil {
		box := backgroundBox(w, h, g.BackgroundZoom)
		drawScaled(dst, offset(Cover(bg.Bounds().Dx(), bg.Bounds().Dy(), box, 1), b.Min), bg)
	} else {
		c.logger().Debug("background unavailable", "path", c.BackgroundPath, "err", err)
		fill(dst, b, g.FallbackColor)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	frame, err := c.load(ctx, c.FramePath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger().Warn("frame unavailable", "path", c.FramePath, "err", err)
		strokeRect(dst, offset(Rect{X: w * 0.1, Y: h * 0.1, W: w * 0.8, H: h * 0.8}, b.Min), c.lineWidth(), g.ErrorColor)
		return nil
	}

	placement := FramePlacement(w, h, frame.Bounds().Dx(), frame.Bounds().Dy(), g)
	window := PhotoWindow(placement, g.Inset)
	if err := c.drawLayers(ctx, dst, offset(window, b.Min), layers); err != nil {
		return err
	}
	drawScaled(dst, offset(placement, b.Min), frame)
	return nil
}

// RenderFrame re-composites just the frame region at the frame's native
// pixel size, flattened onto white.
func (c *Compositor) RenderFrame(ctx context.Context, layers []string) (*image.NRGBA, error) {
	frame, err := c.load(ctx, c.FramePath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrFrameMissing, c.FramePath, err)
	}
	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, fw, fh))
	full := Rect{W: float64(fw), H: float64(fh)}
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	fill(dst, dst.Bounds(), white)
	if bg, err := c.load(ctx, c.BackgroundPath); err == nil {
		drawScaled(dst, Cover(bg.Bounds().Dx(), bg.Bounds().Dy(), full, 1), bg)
	} else {
		c.logger().Debug("background unavailable", "path", c.BackgroundPath, "err", err)
	}

	if err := c.drawLayers(ctx, dst, PhotoWindow(full, c.Geometry.Inset), layers); err != nil {
		return nil, err
	}
	drawScaled(dst, full, frame)
	flatten(dst, white)
	return dst, nil
}

func (c *Compositor) drawLayers(ctx context.Context, dst draw.Image, window Rect, layers []string) error {
	for _, p := range layers {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := c.load(ctx, p)
		if err != nil {
			c.logger().Debug("layer skipped", "path", p, "err", err)
			continue
		}
		drawScaled(dst, Cover(img.Bounds().Dx(), img.Bounds().Dy(), window, c.Geometry.CharacterScale), img)
	}
	return nil
}

func (c *Compositor) lineWidth() float64 {
	lw := c.Geometry.ErrorLineWidth
	if lw <= 0 {
		lw = 4
	}
	if c.PixelRatio > 0 {
		lw *= c.PixelRatio
	}
	return lw
}

func offset(r Rect, p image.Point) Rect {
	r.X += float64(p.X)
	r.Y += float64(p.Y)
	return r
}

func fill(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// drawScaled draws src into r with source-over blending. Parts of r outside
// dst are clipped.
func drawScaled(dst draw.Image, r Rect, src image.Image) {
	dr := r.Bounds()
	if dr.Empty() {
		return
	}
	draw.ApproxBiLinear.Scale(dst, dr, src, src.Bounds(), draw.Over, nil)
}

// strokeRect outlines r with a line of width lw centered on its edges.
func strokeRect(dst draw.Image, r Rect, lw float64, c color.Color) {
	half := lw / 2
	u := image.NewUniform(c)
	for _, band := range []Rect{
		{X: r.X - half, Y: r.Y - half, W: r.W + lw, H: lw},
		{X: r.X - half, Y: r.Y + r.H - half, W: r.W + lw, H: lw},
		{X: r.X - half, Y: r.Y + half, W: lw, H: r.H - lw},
		{X: r.X + r.W - half, Y: r.Y + half, W: lw, H: r.H - lw},
	} {
		draw.Draw(dst, band.Bounds(), u, image.Point{}, draw.Over)
	}
}

// flatten composites img over an opaque background in place.
func flatten(img *image.NRGBA, bg color.NRGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		a := float64(img.Pix[i+3]) / 255
		if a == 1 {
			continue
		}
		img.Pix[i] = blend(img.Pix[i], bg.R, a)
		img.Pix[i+1] = blend(img.Pix[i+1], bg.G, a)
		img.Pix[i+2] = blend(img.Pix[i+2], bg.B, a)
		img.Pix[i+3] = 0xff
	}
}

func blend(fg, bg uint8, a float64) uint8 {
	return uint8(math.Round(float64(fg)*a + float64(bg)*(1-a)))
}
