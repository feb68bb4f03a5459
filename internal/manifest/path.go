package manifest

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// EscapePath percent-encodes every segment of a forward-slash path so it can
// be used as a resource locator. Slashes are preserved.
func EscapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// NormalizeKey returns the canonical form of an asset path: NFC-normalized,
// forward slashes, cleaned, no leading "./" or "/".
// Asset trees authored on macOS carry NFD Hangul in file names, so two
// spellings of the same path must collapse to one key.
func NormalizeKey(p string) string {
	p = norm.NFC.String(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// StripPNG removes a trailing .png extension, case-insensitively.
func StripPNG(name string) string {
	if len(name) >= 4 && strings.EqualFold(name[len(name)-4:], ".png") {
		return name[:len(name)-4]
	}
	return name
}

// IsPNG reports whether name has a .png extension in any case.
func IsPNG(name string) bool {
	return len(name) > 4 && strings.EqualFold(name[len(name)-4:], ".png")
}
