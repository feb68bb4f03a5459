package imagecache

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/ftrvxmtrx/tga"
)

// Decode reads a part image. The extension picks the decoder: PNG and TGA
// directly, anything else by sniffing the registered formats.
func Decode(r io.Reader, name string) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		img, err = png.Decode(r)
	case ".tga":
		img, err = tga.Decode(r)
	default:
		img, _, err = image.Decode(r)
	}
	if err != nil {
		return nil, fmt.Errorf("imagecache: decode %s: %w", name, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray, *image.RGBA:
		// Opaque or premultiplied sources convert cleanly through draw.
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				i := dst.PixOffset(x, y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}
