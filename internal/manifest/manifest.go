package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// FileName is the manifest file written at the asset root.
const FileName = "parts.manifest.json"

// LayerType is the coarse classification of a part, derived from its folder.
type LayerType string

// Layer types consumed by the catalog. Other values are carried through untouched.
const (
	LayerHair      LayerType = "hair"
	LayerClothes   LayerType = "clothes"
	LayerAccessory LayerType = "accessory"
	LayerHat       LayerType = "hat"
	LayerFaceBase  LayerType = "face_base"
	LayerUnknown   LayerType = "unknown"
)

// Part is one PNG asset listed in the manifest. FilePath is its identity.
type Part struct {
	ID        string    `json:"id"`
	LayerType LayerType `json:"layerType"`
	Name      string    `json:"name"`
	FilePath  string    `json:"filePath"`
	Format    string    `json:"format"`
	Tintable  bool      `json:"tintable"`
	Tags      []string  `json:"tags"`
}

// Manifest is the generated part catalog.
type Manifest struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Root        string    `json:"root"`
	Count       int       `json:"count"`
	Parts       []Part    `json:"parts"`
}

// ByLayer returns the parts of one layer type in manifest order.
func (m *Manifest) ByLayer(layer LayerType) []Part {
	if m == nil {
		return nil
	}
	var out []Part
	for _, p := range m.Parts {
		if p.LayerType == layer {
			out = append(out, p)
		}
	}
	return out
}

// Has reports whether a part with the given file path exists.
func (m *Manifest) Has(filePath string) bool {
	if m == nil {
		return false
	}
	key := NormalizeKey(filePath)
	for _, p := range m.Parts {
		if NormalizeKey(p.FilePath) == key {
			return true
		}
	}
	return false
}

// Parse decodes manifest JSON.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for i := range m.Parts {
		if m.Parts[i].Tags == nil {
			m.Parts[i].Tags = []string{}
		}
	}
	return &m, nil
}

// Load reads a manifest from the local filesystem.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	return m, nil
}

// LoadFS reads a manifest from a billy filesystem.
func LoadFS(fs billy.Basic, path string) (*Manifest, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	return m, nil
}

// Marshal returns indented JSON with Count synced to len(Parts).
func (m *Manifest) Marshal() ([]byte, error) {
	m.Count = len(m.Parts)
	if m.Parts == nil {
		m.Parts = []Part{}
	}
	for i := range m.Parts {
		if m.Parts[i].Tags == nil {
			m.Parts[i].Tags = []string{}
		}
	}
	return json.MarshalIndent(m, "", "  ")
}

// Write encodes the manifest to w.
func (m *Manifest) Write(w io.Writer) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFS writes the manifest into fs. Encoding happens before the file is
// touched so a failure never leaves a partial manifest behind.
func (m *Manifest) WriteFS(fs billy.Basic, path string) error {
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	if err := util.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}
