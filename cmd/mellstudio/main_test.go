package main

import (
	"testing"

	"mell-studio/internal/catalog"
	"mell-studio/internal/compose"
	"mell-studio/internal/config"
	"mell-studio/internal/manifest"
	"mell-studio/internal/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChoice(t *testing.T) {
	c := catalog.New(map[catalog.Category][]catalog.Option{
		catalog.Hat: {
			{Label: "캡", Files: []string{"hat/캡.png"}},
			{Label: "2", Files: []string{"hat/2.png"}},
		},
	})

	tests := []struct {
		in   string
		want selection.Choice
	}{
		{"none", selection.None()},
		{"NONE", selection.None()},
		{"-1", selection.None()},
		{"캡", selection.Pick(0)},
		{" 캡 ", selection.Pick(0)},
		{"0", selection.Pick(0)},
		{"2", selection.Pick(1)}, // label wins over a bare number
		{"#2", selection.Pick(2)},
		{" #0 ", selection.Pick(0)},
		{"#-1", selection.None()},
		{"7", selection.Pick(7)},
	}
	for _, tt := range tests {
		got, err := parseChoice(c, catalog.Hat, tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"beret", "#x", "#"} {
		_, err := parseChoice(c, catalog.Hat, bad)
		assert.Error(t, err, bad)
	}
}

func TestParseChoiceEyeIndex(t *testing.T) {
	c := catalog.Build(&manifest.Manifest{})
	labels := make([]string, 0, c.Len(catalog.Eye))
	for _, o := range c.Options(catalog.Eye) {
		labels = append(labels, o.Label)
	}
	require.Contains(t, labels, "2")

	got, err := parseChoice(c, catalog.Eye, "#2")
	require.NoError(t, err)
	assert.Equal(t, selection.Pick(2), got, "explicit index is not read as a label")

	got, err = parseChoice(c, catalog.Eye, "2")
	require.NoError(t, err)
	idx, _ := got.Index()
	o, ok := c.Option(catalog.Eye, idx)
	require.True(t, ok)
	assert.Equal(t, "2", o.Label)
}

func TestPickFormat(t *testing.T) {
	cfg := config.Default()
	cfg.ExportFormat = "webp"

	tests := []struct {
		flag, output string
		want         compose.Format
	}{
		{"png", "out.webp", compose.FormatPNG},
		{"", "out.png", compose.FormatPNG},
		{"", "out.WEBP", compose.FormatWebP},
		{"", "out", compose.FormatWebP},
		{"", "out.bmp", compose.FormatWebP},
	}
	for _, tt := range tests {
		got, err := pickFormat(cfg, tt.flag, tt.output)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %s", tt.flag, tt.output)
	}

	_, err := pickFormat(cfg, "gif", "out.png")
	assert.Error(t, err)
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "eye-color", flagName(catalog.EyeColor))
	assert.Equal(t, "hair", flagName(catalog.Hair))
}
