package scan

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"mell-studio/internal/manifest"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/text/unicode/norm"
)

// tintKeywords mark a file as a color layer that could be recolored.
var tintKeywords = []string{
	"cloth_color", "hair_color", "skin_color", "eye_color", "sclera_color", "color", "tint",
}

// variantKeywords mark subfolders holding hair variants used by the resolver
// (special outfit, beret, beanie). Files under them are hair regardless of
// the top-level folder they sit in.
var variantKeywords = []string{"bappe", "베이쁘", "beret", "베레모", "beanie", "비니"}

// topLevel maps asset root folders to layer types.
var topLevel = map[string]manifest.LayerType{
	"hair":      manifest.LayerHair,
	"face":      manifest.LayerFaceBase,
	"cloth":     manifest.LayerClothes,
	"accessory": manifest.LayerAccessory,
	"hat":       manifest.LayerHat,
}

// Walk returns the slash-separated paths of every PNG below the filesystem
// root, in lexical depth-first order. Any directory read failure aborts the walk.
func Walk(fs billy.Filesystem) ([]string, error) {
	var out []string
	if err := walkDir(fs, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walkDir(fs billy.Filesystem, dir string, out *[]string) error {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		name := dir
		if name == "" {
			name = "."
		}
		return fmt.Errorf("scan: read dir %s: %w", name, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		rel := path.Join(dir, e.Name())
		switch {
		case e.IsDir():
			if err := walkDir(fs, rel, out); err != nil {
				return err
			}
		case e.Mode().IsRegular() && manifest.IsPNG(e.Name()):
			*out = append(*out, rel)
		}
	}
	return nil
}

// InferLayerType classifies a relative asset path by its top-level folder.
func InferLayerType(rel string) manifest.LayerType {
	parts := strings.Split(norm.NFC.String(rel), "/")
	if len(parts) < 2 {
		return manifest.LayerUnknown
	}
	top := parts[0]
	layer, known := topLevel[top]

	// Only subfolders are reclassified; a hat file named "비니.png" stays a hat.
	if len(parts) >= 3 && isVariantFolder(parts[1]) {
		switch layer {
		case manifest.LayerClothes, manifest.LayerHat, manifest.LayerAccessory:
		default:
			return manifest.LayerHair
		}
	}

	if known {
		return layer
	}
	return manifest.LayerType(top)
}

func isVariantFolder(name string) bool {
	lower := strings.ToLower(name)
	for _, k := range variantKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// InferName turns "hair/beret/A.png" into "hair / beret / A".
func InferName(rel string) string {
	return strings.Join(strings.Split(manifest.StripPNG(rel), "/"), " / ")
}

// InferTintable reports whether a file name suggests a recolorable layer.
func InferTintable(fileName string) bool {
	lower := strings.ToLower(fileName)
	for _, k := range tintKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Build creates manifest entries for the given relative paths.
func Build(files []string, root string, now time.Time) *manifest.Manifest {
	parts := make([]manifest.Part, len(files))
	for i, rel := range files {
		layer := InferLayerType(rel)
		parts[i] = manifest.Part{
			ID:        fmt.Sprintf("%s-%d", layer, i),
			LayerType: layer,
			Name:      InferName(rel),
			FilePath:  rel,
			Format:    "png",
			Tintable:  InferTintable(path.Base(rel)),
			Tags:      []string{},
		}
	}
	return &manifest.Manifest{
		GeneratedAt: now.UTC(),
		Root:        root,
		Count:       len(parts),
		Parts:       parts,
	}
}

// Generate walks fs and builds the manifest for it.
func Generate(fs billy.Filesystem, root string, now time.Time) (*manifest.Manifest, error) {
	files, err := Walk(fs)
	if err != nil {
		return nil, err
	}
	return Build(files, root, now), nil
}

// CountByLayer tallies parts per layer type.
func CountByLayer(m *manifest.Manifest) map[manifest.LayerType]int {
	out := make(map[manifest.LayerType]int)
	for _, p := range m.Parts {
		out[p.LayerType]++
	}
	return out
}
