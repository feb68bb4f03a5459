package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"mell-studio/internal/compose"
	"mell-studio/internal/manifest"
	"mell-studio/internal/preview"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths, relative ones resolved against AssetRoot
	AssetRoot  string `json:"asset_root"`
	Manifest   string `json:"manifest"`
	Preview    string `json:"preview"`
	Frame      string `json:"frame"`
	Background string `json:"background"`

	// Render settings
	CanvasWidth      int              `json:"canvas_width"`
	CanvasHeight     int              `json:"canvas_height"`
	DevicePixelRatio float64          `json:"device_pixel_ratio"`
	Geometry         compose.Geometry `json:"geometry"`
	ExportFormat     string           `json:"export_format"`
	ExportMaxSize    int              `json:"export_max_size"`

	// Loading
	Workers        int `json:"workers"`
	PreloadBatch   int `json:"preload_batch"`
	PreloadPauseMS int `json:"preload_pause_ms"`
}

// Asset paths inside the asset root.
const (
	DefaultFrame      = "mell_studio_asset/frame.png"
	DefaultBackground = "mell_studio_asset/background.png"
)

// Default returns a config with every setting filled except AssetRoot.
func Default() Config {
	return Config{
		Geometry: compose.DefaultGeometry(),
	}
}

// Load reads a JSON config file over the defaults. Fields not set in the
// file keep their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	AssetRoot string
	Format    string
	Width     int
	Height    int
	Workers   int
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.AssetRoot != "" {
		c.AssetRoot = flags.AssetRoot
	}
	if flags.Format != "" {
		c.ExportFormat = flags.Format
	}
	if flags.Width > 0 {
		c.CanvasWidth = flags.Width
	}
	if flags.Height > 0 {
		c.CanvasHeight = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Auto-detect asset root if still empty
	if c.AssetRoot == "" {
		c.AssetRoot = DetectAssetRoot()
	}

	// Manifest-relative paths stay relative: they are looked up in the
	// asset file system, not the process working directory.
	if c.Manifest == "" {
		c.Manifest = manifest.FileName
	}
	if c.Preview == "" {
		c.Preview = preview.FileName
	}
	if c.Frame == "" {
		c.Frame = DefaultFrame
	}
	if c.Background == "" {
		c.Background = DefaultBackground
	}

	// Defaults for render settings
	if c.CanvasWidth <= 0 {
		c.CanvasWidth = 1080
	}
	if c.CanvasHeight <= 0 {
		c.CanvasHeight = 1080
	}
	if c.DevicePixelRatio <= 0 {
		c.DevicePixelRatio = 1
	}
	if c.ExportFormat == "" {
		c.ExportFormat = string(compose.FormatPNG)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.PreloadBatch <= 0 {
		c.PreloadBatch = 10
	}
	if c.PreloadPauseMS <= 0 {
		c.PreloadPauseMS = 50
	}
}

// PixelSize is the canvas size in device pixels.
func (c Config) PixelSize() (int, int) {
	dpr := c.DevicePixelRatio
	if dpr <= 0 {
		dpr = 1
	}
	return int(float64(c.CanvasWidth)*dpr + 0.5), int(float64(c.CanvasHeight)*dpr + 0.5)
}

// DetectAssetRoot looks for a directory holding part folders or a manifest,
// next to the executable first and then around the working directory.
func DetectAssetRoot() string {
	var candidates []string

	// Try relative to executable
	if exe, _ := os.Executable(); exe != "" {
		dir := filepath.Dir(exe)
		candidates = append(candidates, dir, filepath.Dir(dir))
	}

	// Try current working directory, then the web/ and docs/ folders the
	// site is usually served from
	if cwd, _ := os.Getwd(); cwd != "" {
		candidates = append(candidates, cwd, filepath.Join(cwd, "web"), filepath.Join(cwd, "docs"))
	}

	for _, base := range candidates {
		if isAssetRoot(base) {
			return base
		}
	}
	return ""
}

func isAssetRoot(dir string) bool {
	if info, err := os.Stat(filepath.Join(dir, "hair")); err == nil && info.IsDir() {
		return true
	}
	_, err := os.Stat(filepath.Join(dir, manifest.FileName))
	return err == nil
}
