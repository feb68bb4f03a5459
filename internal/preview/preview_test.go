package preview

import (
	"bytes"
	"testing"

	"mell-studio/internal/manifest"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func part(layer manifest.LayerType, file string) manifest.Part {
	return manifest.Part{LayerType: layer, FilePath: file, Name: manifest.StripPNG(file), Format: "png"}
}

func fixture() *manifest.Manifest {
	return &manifest.Manifest{Parts: []manifest.Part{
		part(manifest.LayerFaceBase, "face/basic/normal_base.png"),
		part(manifest.LayerFaceBase, "face/basic/eye_color/red.png"),
		part(manifest.LayerFaceBase, "face/basic/eye_color/blue.png"),
		part(manifest.LayerFaceBase, "face/basic/sclera_color/white.png"),
		part(manifest.LayerFaceBase, "face/basic/skin_color/skin_color1.png"),
		part(manifest.LayerHair, "hair/bob/outline.png"),
		part(manifest.LayerHair, "hair/bob/hair_color.png"),
		part(manifest.LayerHair, "hair/bob/hair_color_bg.png"),
		part(manifest.LayerHair, "hair/bob/ribbon.png"),
		part(manifest.LayerClothes, "cloth/mine/outline.png"),
		part(manifest.LayerClothes, "cloth/mine/cloth_color_bg1.png"),
		part(manifest.LayerClothes, "cloth/mine/cloth_color.png"),
		part(manifest.LayerClothes, "cloth/mine/cloth_color_bg2.png"),
		part(manifest.LayerClothes, "cloth/mine/skin_color.png"),
		part(manifest.LayerClothes, "cloth/plain/cloth_color_bg.png"),
		part(manifest.LayerClothes, "cloth/plain/extra.png"),
		part(manifest.LayerClothes, "cloth/plain/cloth_color.png"),
		part(manifest.LayerClothes, "cloth/single/only.png"),
		part(manifest.LayerClothes, "cloth/loose.png"),
	}}
}

func TestClothesAssemblies(t *testing.T) {
	got := ClothesAssemblies(fixture())
	require.Len(t, got, 2, "single-file folders and root files are skipped")

	assert.Equal(t, "mine", got[0].Group)
	assert.Equal(t, []string{
		"cloth/mine/skin_color.png",
		"cloth/mine/cloth_color.png",
		"cloth/mine/cloth_color_bg2.png",
		"cloth/mine/cloth_color_bg1.png",
		"cloth/mine/outline.png",
	}, got[0].Files)

	assert.Equal(t, []string{
		"cloth/plain/cloth_color.png",
		"cloth/plain/cloth_color_bg.png",
		"cloth/plain/extra.png",
	}, got[1].Files)
}

func TestHairGroupsOutlineOnTop(t *testing.T) {
	got := HairGroups(fixture())
	require.Len(t, got, 1)
	assert.Equal(t, []string{
		"hair/bob/hair_color_bg.png",
		"hair/bob/hair_color.png",
		"hair/bob/ribbon.png",
		"hair/bob/outline.png",
	}, got[0].Files)
}

func TestDefaultFaceStack(t *testing.T) {
	assert.Equal(t, []string{
		"face/basic/skin_color/skin_color1.png",
		"face/basic/sclera_color/white.png",
		"face/basic/eye_color/blue.png",
		"face/basic/normal_base.png",
	}, DefaultFaceStack(fixture()))

	assert.Empty(t, DefaultFaceStack(&manifest.Manifest{}))
	assert.Nil(t, HairAssemblies(&manifest.Manifest{}))
}

func TestCombinedAssemblies(t *testing.T) {
	got := CombinedAssemblies(fixture())
	require.Len(t, got, 2)
	assert.Equal(t, "bob + mine", got[0].Group)
	assert.Len(t, got[0].Files, 4+4+5)
}

func TestSameFolderAssemblies(t *testing.T) {
	got := SameFolderAssemblies(fixture())
	groups := make([]string, len(got))
	for i, a := range got {
		groups[i] = a.Group
	}
	assert.Equal(t, []string{"face/basic/eye_color", "hair/bob", "cloth/mine", "cloth/plain"}, groups)
}

func TestRender(t *testing.T) {
	m := fixture()
	m.Parts = append(m.Parts, part(manifest.LayerHat, `hat/<b>"cap".png`))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, m))
	html := buf.String()

	assert.Contains(t, html, "<title>MELL Parts Preview</title>")
	assert.Contains(t, html, `data-layer="hair_face"`)
	assert.Contains(t, html, "cloth/mine/cloth_color_bg2.png")
	assert.NotContains(t, html, `<b>"cap"`)
	assert.Contains(t, html, `<option value="clothes">`)
}

func TestWriteFS(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, WriteFS(fs, FileName, &manifest.Manifest{}))

	data, err := util.ReadFile(fs, FileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "결합 가능한 조합이 없습니다.")
}
