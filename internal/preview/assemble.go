package preview

import (
	"path"
	"sort"
	"strings"

	"mell-studio/internal/manifest"
)

// Assembly is a stack of files drawn bottom to top as one preview card.
type Assembly struct {
	Group string
	Label string
	Files []string
}

// outlineScore sorts outline files above everything else.
const outlineScore = 1_000_000

var (
	hairOrder        = []string{"skin_shadow", "hair_color_bg", "hair_color", "skin_color"}
	clothesOrderA    = []string{"skin_color", "cloth_color", "cloth_color_bg"}
	clothesOrderB    = []string{"skin_color", "cloth_color", "cloth_color_bg2", "cloth_color_bg1"}
	sameFolderOrder  = []string{"skin_shadow", "hair_color_bg", "hair_color", "skin_color", "cloth_color", "cloth_color_bg2", "cloth_color_bg1", "cloth_color_bg", "cloth_color_inner", "wheel_color", "bag_color", "color", "tint"}
	hairUnknownScore = 900_000
)

// unknownAfter places unmatched files after every known layer but below the outline.
func unknownAfter(order []string) int { return len(order) + 1000 }

func score(order []string, unknown int, file string) int {
	lower := strings.ToLower(path.Base(file))
	if strings.Contains(lower, "outline") {
		return outlineScore
	}
	// The longest keyword wins so cloth_color_bg2 is not taken for cloth_color.
	best, bestLen := unknown, 0
	for i, k := range order {
		if len(k) > bestLen && strings.Contains(lower, k) {
			best, bestLen = i, len(k)
		}
	}
	return best
}

func sortLayers(files []string, order []string, unknown int) []string {
	out := append([]string(nil), files...)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := score(order, unknown, out[i]), score(order, unknown, out[j])
		if si != sj {
			return si < sj
		}
		return out[i] < out[j]
	})
	return out
}

// groupBy buckets file paths of one layer by their first two path segments,
// keeping first-seen group order.
func groupBy(parts []manifest.Part, layer manifest.LayerType) ([]string, map[string][]string) {
	var keys []string
	groups := make(map[string][]string)
	for _, p := range parts {
		if p.LayerType != layer {
			continue
		}
		segs := strings.Split(p.FilePath, "/")
		if len(segs) < 3 {
			continue
		}
		key := strings.Join(segs[:2], "/")
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], p.FilePath)
	}
	return keys, groups
}

// ClothesAssemblies stacks sibling files of each cloth/<folder>/ with two or
// more PNGs. Folders with bg1/bg2 layers use the extended order.
func ClothesAssemblies(m *manifest.Manifest) []Assembly {
	keys, groups := groupBy(m.Parts, manifest.LayerClothes)
	var out []Assembly
	for _, key := range keys {
		files := groups[key]
		if len(files) < 2 {
			continue
		}
		order := clothesOrderA
		for _, f := range files {
			lower := strings.ToLower(path.Base(f))
			if strings.Contains(lower, "cloth_color_bg1") || strings.Contains(lower, "cloth_color_bg2") {
				order = clothesOrderB
				break
			}
		}
		out = append(out, Assembly{
			Group: strings.SplitN(key, "/", 2)[1],
			Label: path.Base(key),
			Files: sortLayers(files, order, unknownAfter(order)),
		})
	}
	return out
}

// HairGroups stacks the files of each hair/<style>/ folder, outline on top.
func HairGroups(m *manifest.Manifest) []Assembly {
	keys, groups := groupBy(m.Parts, manifest.LayerHair)
	out := make([]Assembly, 0, len(keys))
	for _, key := range keys {
		out = append(out, Assembly{
			Group: strings.SplitN(key, "/", 2)[1],
			Label: path.Base(key),
			Files: sortLayers(groups[key], hairOrder, hairUnknownScore),
		})
	}
	return out
}

// DefaultFaceStack picks skin, sclera, eye color and normal base files from
// the face parts, bottom to top. Missing pieces are left out.
func DefaultFaceStack(m *manifest.Manifest) []string {
	var face []string
	for _, p := range m.ByLayer(manifest.LayerFaceBase) {
		face = append(face, p.FilePath)
	}
	sorted := append([]string(nil), face...)
	sort.Strings(sorted)

	inDir := func(dir, file string) string {
		var first string
		for _, f := range sorted {
			if path.Base(path.Dir(f)) != dir {
				continue
			}
			if strings.EqualFold(path.Base(f), file) {
				return f
			}
			if first == "" {
				first = f
			}
		}
		return first
	}
	normalBase := ""
	for _, f := range face {
		if strings.EqualFold(path.Base(f), "normal_base.png") {
			normalBase = f
			break
		}
	}

	var out []string
	for _, f := range []string{
		inDir("skin_color", "skin_color1.png"),
		inDir("sclera_color", "white.png"),
		inDir("eye_color", "blue.png"),
		normalBase,
	} {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// HairAssemblies puts every hair group over the default face stack.
func HairAssemblies(m *manifest.Manifest) []Assembly {
	face := DefaultFaceStack(m)
	if len(face) == 0 {
		return nil
	}
	groups := HairGroups(m)
	out := make([]Assembly, len(groups))
	for i, g := range groups {
		out[i] = Assembly{Group: g.Group, Label: g.Label, Files: concat(face, g.Files)}
	}
	return out
}

// SameFolderAssemblies stacks every directory holding two or more PNGs.
func SameFolderAssemblies(m *manifest.Manifest) []Assembly {
	var dirs []string
	byDir := make(map[string][]string)
	for _, p := range m.Parts {
		dir := path.Dir(p.FilePath)
		if _, ok := byDir[dir]; !ok {
			dirs = append(dirs, dir)
		}
		byDir[dir] = append(byDir[dir], p.FilePath)
	}
	var out []Assembly
	for _, dir := range dirs {
		files := byDir[dir]
		if len(files) < 2 {
			continue
		}
		out = append(out, Assembly{
			Group: dir,
			Label: path.Base(dir),
			Files: sortLayers(files, sameFolderOrder, unknownAfter(sameFolderOrder)),
		})
	}
	return out
}

// CombinedAssemblies is the cross product face + hair group + clothes group.
func CombinedAssemblies(m *manifest.Manifest) []Assembly {
	face := DefaultFaceStack(m)
	if len(face) == 0 {
		return nil
	}
	var out []Assembly
	for _, h := range HairGroups(m) {
		for _, c := range ClothesAssemblies(m) {
			out = append(out, Assembly{
				Group: h.Group + " + " + c.Group,
				Label: h.Label + " + " + c.Label,
				Files: concat(face, h.Files, c.Files),
			})
		}
	}
	return out
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
