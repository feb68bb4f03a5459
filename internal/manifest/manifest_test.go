package manifest

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

const sample = `{
  "generatedAt": "2025-03-01T10:00:00Z",
  "root": "web",
  "count": 3,
  "parts": [
    {"id": "hair-0", "layerType": "hair", "name": "hair / A", "filePath": "hair/A.png", "format": "png", "tintable": false, "tags": []},
    {"id": "clothes-1", "layerType": "clothes", "name": "cloth / normal", "filePath": "cloth/normal.png", "format": "png", "tintable": false},
    {"id": "hair-2", "layerType": "hair", "name": "hair / beret / A", "filePath": "hair/beret/A.png", "format": "png", "tintable": false, "tags": []}
  ]
}`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "web", m.Root)
	assert.Equal(t, 3, m.Count)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), m.GeneratedAt.UTC())
	require.Len(t, m.Parts, 3)
	assert.NotNil(t, m.Parts[1].Tags, "missing tags decode as empty slice")

	hair := m.ByLayer(LayerHair)
	require.Len(t, hair, 2)
	assert.Equal(t, "hair/A.png", hair[0].FilePath)
	assert.Equal(t, "hair/beret/A.png", hair[1].FilePath)
	assert.Empty(t, m.ByLayer(LayerHat))
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"parts": [`))
	assert.Error(t, err)
}

func TestLoadFS(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, FileName, []byte(sample), 0644))

	m, err := LoadFS(fs, FileName)
	require.NoError(t, err)
	assert.Len(t, m.Parts, 3)

	_, err = LoadFS(fs, "missing.json")
	assert.ErrorContains(t, err, "manifest: read missing.json")
}

func TestWriteSyncsCount(t *testing.T) {
	m := &Manifest{
		Root:  "web",
		Count: 99,
		Parts: []Part{{ID: "hat-0", LayerType: LayerHat, Name: "hat / cap", FilePath: "hat/cap.png", Format: "png"}},
	}

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.EqualValues(t, 1, raw["count"])
	parts := raw["parts"].([]any)
	assert.Equal(t, []any{}, parts[0].(map[string]any)["tags"])
	assert.Contains(t, buf.String(), "\n  \"root\": \"web\"")
}

func TestWriteFSRoundTrip(t *testing.T) {
	fs := memfs.New()
	m := &Manifest{Root: "web"}
	require.NoError(t, m.WriteFS(fs, FileName))

	got, err := LoadFS(fs, FileName)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Count)
	assert.Empty(t, got.Parts)
}

func TestHas(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.True(t, m.Has("hair/A.png"))
	assert.True(t, m.Has("./hair/beret/A.png"))
	assert.False(t, m.Has("hair/B.png"))

	var nilManifest *Manifest
	assert.False(t, nilManifest.Has("hair/A.png"))
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "face/basic/mouth/%EA%B8%B0%EB%B3%B8%EC%9E%85.png", EscapePath("face/basic/mouth/기본입.png"))
	assert.Equal(t, "cloth/red%20dress.png", EscapePath("cloth/red dress.png"))
	assert.Equal(t, "hair/a%3Fb.png", EscapePath("hair/a?b.png"))
}

func TestNormalizeKey(t *testing.T) {
	nfd := norm.NFD.String("hat/비니.png")
	require.NotEqual(t, "hat/비니.png", nfd)

	tests := []struct {
		in, want string
	}{
		{nfd, "hat/비니.png"},
		{"./hair/A.png", "hair/A.png"},
		{"/hair//A.png", "hair/A.png"},
		{`hair\beret\A.png`, "hair/beret/A.png"},
		{"", ""},
		{".", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in), "input %q", tt.in)
	}
}

func TestStripPNG(t *testing.T) {
	assert.Equal(t, "A", StripPNG("A.png"))
	assert.Equal(t, "A", StripPNG("A.PNG"))
	assert.Equal(t, "A.jpg", StripPNG("A.jpg"))
	assert.True(t, IsPNG("x.Png"))
	assert.False(t, IsPNG("x.tga"))
}
