package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	p := writeConfig(t, `{
		"asset_root": "/srv/web",
		"canvas_width": 800,
		"geometry": {"character_scale": 1.3, "inset": {"left": 0.1, "top": 0.1, "right": 0.1, "bottom": 0.2}},
		"export_format": "webp"
	}`)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/srv/web", cfg.AssetRoot)
	assert.Equal(t, 800, cfg.CanvasWidth)
	assert.Equal(t, 1.3, cfg.Geometry.CharacterScale)
	assert.Equal(t, 0.8, cfg.Geometry.HeightRatio, "unset geometry keeps defaults")
	assert.Equal(t, 0.2, cfg.Geometry.Inset.Bottom)
	assert.Equal(t, uint8(0xff), cfg.Geometry.ErrorColor.R)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(writeConfig(t, `{"canvas_width": "wide"}`))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolve(t *testing.T) {
	cfg := Default()
	cfg.AssetRoot = "/from/file"
	cfg.ExportFormat = "png"
	cfg.Resolve(Flags{AssetRoot: "/from/flag", Format: "webp", Width: 640, Workers: 3})

	assert.Equal(t, "/from/flag", cfg.AssetRoot)
	assert.Equal(t, "webp", cfg.ExportFormat)
	assert.Equal(t, 640, cfg.CanvasWidth)
	assert.Equal(t, 1080, cfg.CanvasHeight)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "parts.manifest.json", cfg.Manifest)
	assert.Equal(t, "preview.html", cfg.Preview)
	assert.Equal(t, DefaultFrame, cfg.Frame)
	assert.Equal(t, DefaultBackground, cfg.Background)
	assert.Equal(t, 10, cfg.PreloadBatch)
	assert.Equal(t, 50, cfg.PreloadPauseMS)
	assert.Equal(t, 1.0, cfg.DevicePixelRatio)
}

func TestPixelSize(t *testing.T) {
	cfg := Config{CanvasWidth: 400, CanvasHeight: 300, DevicePixelRatio: 2}
	w, h := cfg.PixelSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	cfg.DevicePixelRatio = 0
	w, _ = cfg.PixelSize()
	assert.Equal(t, 400, w)
}

func TestDetectAssetRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "web", "hair"), 0o755))
	t.Chdir(dir)

	assert.Equal(t, filepath.Join(dir, "web"), DetectAssetRoot())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "parts.manifest.json"), []byte("{}"), 0o644))
	assert.Equal(t, dir, DetectAssetRoot(), "working directory wins over web/")
}
