// Package resolve turns a selection into the ordered list of image files to
// draw, back to front.
package resolve

import (
	"path"
	"strings"

	"mell-studio/internal/catalog"
	"mell-studio/internal/manifest"
	"mell-studio/internal/selection"

	"golang.org/x/text/unicode/norm"
)

const (
	SkinBase          = catalog.FaceDir + "/skin_color/skin_color.png"
	ScleraNormal      = catalog.FaceDir + "/sclera/normal_sclera.png"
	ScleraWink        = catalog.FaceDir + "/sclera/윙크_sclera.png"
	DefaultBase       = catalog.FaceDir + "/normal_base/기본_base.png"
	hairBaseDir       = catalog.FaceDir + "/hair_base"
	winkSuffix        = "_윙크"
	SpecialOutfitHair = "bappe(red)"
)

var winkMarkers = []string{"윙크", "wink"}

// IsWink reports whether an eye option label denotes a winking eye.
func IsWink(label string) bool {
	l := strings.ToLower(norm.NFC.String(label))
	for _, m := range winkMarkers {
		if strings.Contains(l, m) {
			return true
		}
	}
	return false
}

// faceBases maps hair labels that need their own face base image.
var faceBases = map[string]string{
	"고양이머리":      hairBaseDir + "/고양이머리_base.png",
	"고양이머리(긴)":   hairBaseDir + "/고양이머리_base.png",
	"로제(yellow)": hairBaseDir + "/로제_base.png",
	"버섯머리":       hairBaseDir + "/버섯머리_base.png",
	"아이키":        hairBaseDir + "/아이키_base.png",
	"양갈래(black)": hairBaseDir + "/양갈래_base.png",
	"양갈래":        hairBaseDir + "/양갈래_base.png",
	"special":    hairBaseDir + "/special_base.png",
}

// FaceBase returns the face base drawn under the given hair label. Unknown
// labels, including the empty label, get the default base.
func FaceBase(hairLabel string) string {
	if f, ok := faceBases[norm.NFC.String(hairLabel)]; ok {
		return f
	}
	return DefaultBase
}

// HairVariant moves a hair file into a variant subfolder of the hair root,
// keeping its base name.
func HairVariant(file, subfolder string) string {
	name := manifest.StripPNG(path.Base(file))
	return path.Join(catalog.HairRoot, subfolder, name+".png")
}

// Resolve returns the draw order for s: skin, sclera, eye color, mouth,
// hair, eye, clothes, hat, face base, accessory. It has no side effects and
// skips stages whose category holds nothing.
func Resolve(s selection.State, c *catalog.Catalog) []string {
	pick := func(cat catalog.Category) (catalog.Option, bool) {
		i, ok := s.Get(cat).Index()
		if !ok {
			return catalog.Option{}, false
		}
		return c.Option(cat, i)
	}
	eye, hasEye := pick(catalog.Eye)
	color, hasColor := pick(catalog.EyeColor)
	mouth, hasMouth := pick(catalog.Mouth)
	hair, hasHair := pick(catalog.Hair)
	clothes, hasClothes := pick(catalog.Clothes)
	hat, hasHat := pick(catalog.Hat)
	acc, hasAcc := pick(catalog.Accessory)

	layers := []string{SkinBase}

	if hasEye {
		wink := IsWink(eye.Label)
		if wink {
			layers = append(layers, ScleraWink)
		} else {
			layers = append(layers, ScleraNormal)
		}
		if hasColor {
			name := color.Label
			if wink {
				name += winkSuffix
			}
			layers = append(layers, path.Join(catalog.EyeColorDir, name+".png"))
		}
	}

	if hasMouth {
		layers = append(layers, first(mouth.Files)...)
	}

	if hasHair {
		files := hair.Files
		if len(files) > 0 {
			switch {
			case hasClothes && len(clothes.Files) > 0 && catalog.IsSpecialOutfit(clothes.Files[0]):
				files = []string{HairVariant(files[0], SpecialOutfitHair)}
			case hasHat && len(hat.Files) > 0:
				if r, ok := MatchHeadwear(hat.Files[0]); ok {
					files = []string{HairVariant(files[0], r.Subfolder)}
				}
			}
		}
		layers = append(layers, files...)
	}

	if hasEye {
		layers = append(layers, first(eye.Files)...)
	}
	if hasClothes {
		layers = append(layers, clothes.Files...)
	}
	if hasHat {
		layers = append(layers, hat.Files...)
	}

	var hairLabel string
	if hasHair {
		hairLabel = hair.Label
	}
	layers = append(layers, FaceBase(hairLabel))

	if hasAcc {
		layers = append(layers, acc.Files...)
	}
	return layers
}

func first(files []string) []string {
	if len(files) == 0 {
		return nil
	}
	return files[:1]
}
