package compose

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// Inset is the fraction of the frame trimmed from each side to get the
// photo window.
type Inset struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Geometry holds the layout constants of a composite.
type Geometry struct {
	HeightRatio     float64     `json:"height_ratio"`
	OffsetX         float64     `json:"offset_x"`
	OffsetY         float64     `json:"offset_y"`
	Inset           Inset       `json:"inset"`
	CharacterScale  float64     `json:"character_scale"`
	BackgroundZoom  float64     `json:"background_zoom"`
	BackgroundColor color.NRGBA `json:"-"`
	FallbackColor   color.NRGBA `json:"-"`
	ErrorColor      color.NRGBA `json:"-"`
	ErrorLineWidth  float64     `json:"-"`
}

// DefaultGeometry matches the shipped frame artwork.
func DefaultGeometry() Geometry {
	return Geometry{
		HeightRatio:     0.8,
		Inset:           Inset{Left: 0.07, Top: 0.06, Right: 0.07, Bottom: 0.28},
		CharacterScale:  1.15,
		BackgroundZoom:  1.2,
		BackgroundColor: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		FallbackColor:   color.NRGBA{R: 0xd1, G: 0xfa, B: 0xe5, A: 0xff},
		ErrorColor:      color.NRGBA{R: 0xff, A: 0xff},
		ErrorLineWidth:  4,
	}
}

// Validate rejects layouts that leave no photo window or scale to nothing.
func (g Geometry) Validate() error {
	var errs []error
	if g.HeightRatio <= 0 {
		errs = append(errs, fmt.Errorf("height ratio %v must be positive", g.HeightRatio))
	}
	if g.CharacterScale <= 0 {
		errs = append(errs, fmt.Errorf("character scale %v must be positive", g.CharacterScale))
	}
	if g.BackgroundZoom <= 0 {
		errs = append(errs, fmt.Errorf("background zoom %v must be positive", g.BackgroundZoom))
	}
	in := g.Inset
	if in.Left < 0 || in.Top < 0 || in.Right < 0 || in.Bottom < 0 {
		errs = append(errs, errors.New("inset fractions must not be negative"))
	}
	if in.Left+in.Right >= 1 {
		errs = append(errs, fmt.Errorf("horizontal inset %v leaves no window", in.Left+in.Right))
	}
	if in.Top+in.Bottom >= 1 {
		errs = append(errs, fmt.Errorf("vertical inset %v leaves no window", in.Top+in.Bottom))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("compose: invalid geometry: %w", err)
	}
	return nil
}

// Rect is a rectangle in floating point canvas units.
type Rect struct {
	X, Y, W, H float64
}

// Bounds rounds r to the pixel grid.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}

// Cover sizes an imgW x imgH image so it fills box on the tighter axis, then
// multiplies by scale and centers it on box. The result may overflow box.
func Cover(imgW, imgH int, box Rect, scale float64) Rect {
	if imgW <= 0 || imgH <= 0 || box.H <= 0 {
		return Rect{X: box.X, Y: box.Y}
	}
	ir := float64(imgW) / float64(imgH)
	br := box.W / box.H
	var w, h float64
	if ir > br {
		h = box.H * scale
		w = h * ir
	} else {
		w = box.W * scale
		h = w / ir
	}
	return Rect{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w,
		H: h,
	}
}

// FramePlacement scales the frame to HeightRatio of the canvas height,
// keeps its aspect ratio, centers it and shifts it by the offset ratios.
func FramePlacement(canvasW, canvasH float64, frameW, frameH int, g Geometry) Rect {
	h := canvasH * g.HeightRatio
	w := 0.0
	if frameH > 0 {
		w = h * float64(frameW) / float64(frameH)
	}
	return Rect{
		X: (canvasW-w)/2 + canvasW*g.OffsetX,
		Y: (canvasH-h)/2 + canvasH*g.OffsetY,
		W: w,
		H: h,
	}
}

// PhotoWindow is the part of frame the character is drawn into.
func PhotoWindow(frame Rect, in Inset) Rect {
	return Rect{
		X: frame.X + frame.W*in.Left,
		Y: frame.Y + frame.H*in.Top,
		W: frame.W * (1 - in.Left - in.Right),
		H: frame.H * (1 - in.Top - in.Bottom),
	}
}

// backgroundBox is the canvas grown by zoom around its center.
func backgroundBox(w, h, zoom float64) Rect {
	zw, zh := w*zoom, h*zoom
	return Rect{X: (w - zw) / 2, Y: (h - zh) / 2, W: zw, H: zh}
}
