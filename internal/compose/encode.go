package compose

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// Format is an export encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// Ext returns the file extension for f, with the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormat accepts "png" or "webp" in any case, with or without a dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatPNG, "":
		return FormatPNG, nil
	case FormatWebP:
		return FormatWebP, nil
	}
	return "", fmt.Errorf("compose: unknown format %q", s)
}

// Encode writes img to w. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case FormatPNG, "":
		err = png.Encode(w, img)
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("compose: unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("compose: encode %s: %w", f, err)
	}
	return nil
}
