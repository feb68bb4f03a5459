package compose

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample shrinks img to fit within maxW x maxH, keeping its aspect
// ratio. Images that already fit are returned as is; a non-positive bound
// leaves that axis unconstrained.
//
// The scaler reads the NRGBA source through its premultiplied color model and
// writes an RGBA image, so transparent edges do not bleed dark halos into the
// result. The final draw converts back to straight alpha.
func Downsample(img *image.NRGBA, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	tw, th := fitWithin(b.Dx(), b.Dy(), maxW, maxH)
	if tw == b.Dx() && th == b.Dy() {
		return img
	}

	scaled := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)

	out := image.NewNRGBA(scaled.Bounds())
	draw.Draw(out, out.Bounds(), scaled, image.Point{}, draw.Src)
	return out
}

func fitWithin(w, h, maxW, maxH int) (int, int) {
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		scale = min(scale, float64(maxH)/float64(h))
	}
	if scale >= 1 {
		return w, h
	}
	return max(1, int(float64(w)*scale+0.5)), max(1, int(float64(h)*scale+0.5))
}
