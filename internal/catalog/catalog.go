package catalog

import (
	"fmt"
	"path"
	"strings"

	"mell-studio/internal/manifest"

	"golang.org/x/text/unicode/norm"
)

// Category is one selectable slot of the character.
type Category int

const (
	Hair Category = iota
	Clothes
	Accessory
	Hat
	Eye
	EyeColor
	Mouth

	numCategories
)

// NumCategories is the number of categories, for fixed-size per-category arrays.
const NumCategories = int(numCategories)

var categoryNames = [numCategories]string{"hair", "clothes", "accessory", "hat", "eye", "eyeColor", "mouth"}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Optional reports whether the category may hold no selection.
func (c Category) Optional() bool {
	return c == Accessory || c == Hat
}

// Valid reports whether c is one of the seven categories.
func (c Category) Valid() bool {
	return c >= 0 && c < numCategories
}

// Categories lists every category in declaration order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// ParseCategory maps a name such as "eyeColor" (case-insensitive) to its Category.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("catalog: unknown category %q", name)
}

// Option is one user-facing choice. Files are drawn in order.
type Option struct {
	Label string
	Files []string
}

// Catalog holds the option lists for every category.
type Catalog struct {
	options [numCategories][]Option
}

// Options returns the options of c. The slice must not be modified.
func (c *Catalog) Options(cat Category) []Option {
	if c == nil || !cat.Valid() {
		return nil
	}
	return c.options[cat]
}

// Len returns the number of options in cat.
func (c *Catalog) Len(cat Category) int {
	return len(c.Options(cat))
}

// Option returns option i of cat.
func (c *Catalog) Option(cat Category, i int) (Option, bool) {
	opts := c.Options(cat)
	if i < 0 || i >= len(opts) {
		return Option{}, false
	}
	return opts[i], true
}

// Find returns the index of the first option in cat labelled label.
// Labels compare after NFC normalization, ignoring case.
func (c *Catalog) Find(cat Category, label string) (int, bool) {
	want := norm.NFC.String(label)
	for i, o := range c.Options(cat) {
		if strings.EqualFold(norm.NFC.String(o.Label), want) {
			return i, true
		}
	}
	return -1, false
}

// Files returns every file referenced by any option, deduplicated, in
// catalog order.
func (c *Catalog) Files() []string {
	seen := make(map[string]bool)
	var out []string
	for _, cat := range Categories() {
		for _, o := range c.Options(cat) {
			for _, f := range o.Files {
				if !seen[f] {
					seen[f] = true
					out = append(out, f)
				}
			}
		}
	}
	return out
}

// Empty reports whether no category has any option.
func (c *Catalog) Empty() bool {
	for _, cat := range Categories() {
		if c.Len(cat) > 0 {
			return false
		}
	}
	return true
}

// specialOutfitMarkers identify the outfit that forces its own hair variant
// and cannot be worn with a hat.
var specialOutfitMarkers = []string{"베이쁘(red)", "bappe(red)"}

// IsSpecialOutfit reports whether a clothes file path is the special outfit.
func IsSpecialOutfit(filePath string) bool {
	p := strings.ToLower(norm.NFC.String(filePath))
	for _, m := range specialOutfitMarkers {
		if strings.Contains(p, m) {
			return true
		}
	}
	return false
}

// IsSpecialOutfit reports whether clothes option i is the special outfit.
func (c *Catalog) IsSpecialOutfit(i int) bool {
	o, ok := c.Option(Clothes, i)
	return ok && len(o.Files) > 0 && IsSpecialOutfit(o.Files[0])
}

// SpecialOutfit returns the index of the first special outfit option.
func (c *Catalog) SpecialOutfit() (int, bool) {
	for i := range c.Options(Clothes) {
		if c.IsSpecialOutfit(i) {
			return i, true
		}
	}
	return 0, false
}

// Label derives an option label from a part display name: the last
// path-like token with its .png extension stripped.
func Label(name string) string {
	if i := strings.LastIndex(name, " / "); i >= 0 {
		name = name[i+3:]
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return manifest.StripPNG(strings.TrimSpace(name))
}

func partLabel(p manifest.Part) string {
	if p.Name != "" {
		return Label(p.Name)
	}
	return Label(path.Base(p.FilePath))
}

// HairRoot is the folder whose direct children are the selectable hair styles.
const HairRoot = "hair"

// isTopLevelHair reports whether p sits directly under the hair root.
// Deeper files are variant sets used only by the resolver.
func isTopLevelHair(p string) bool {
	segs := strings.Split(p, "/")
	return len(segs) == 2 && segs[0] == HairRoot
}

func singleFileOptions(parts []manifest.Part, keep func(manifest.Part) bool) []Option {
	var out []Option
	for _, p := range parts {
		if keep != nil && !keep(p) {
			continue
		}
		out = append(out, Option{Label: partLabel(p), Files: []string{p.FilePath}})
	}
	return out
}

// Build derives the option lists from a manifest. Identical input yields
// identical output.
func Build(m *manifest.Manifest) *Catalog {
	c := &Catalog{}
	c.options[Hair] = singleFileOptions(m.ByLayer(manifest.LayerHair), func(p manifest.Part) bool {
		return isTopLevelHair(p.FilePath)
	})
	c.options[Clothes] = singleFileOptions(m.ByLayer(manifest.LayerClothes), nil)
	c.options[Accessory] = singleFileOptions(m.ByLayer(manifest.LayerAccessory), nil)
	c.options[Hat] = singleFileOptions(m.ByLayer(manifest.LayerHat), nil)
	c.options[Eye] = fixedOptions(EyeDir, EyeLabels)
	c.options[EyeColor] = fixedOptions(EyeColorDir, EyeColorLabels)
	c.options[Mouth] = fixedOptions(MouthDir, MouthLabels)
	return c
}

// New builds a catalog from explicit option lists, mainly for tests and
// tools that do not start from a manifest.
func New(opts map[Category][]Option) *Catalog {
	c := &Catalog{}
	for cat, list := range opts {
		if cat.Valid() {
			c.options[cat] = append([]Option(nil), list...)
		}
	}
	return c
}
