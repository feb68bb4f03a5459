package resolve

import (
	"math/rand/v2"
	"testing"

	"mell-studio/internal/catalog"
	"mell-studio/internal/manifest"
	"mell-studio/internal/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func opts(files ...string) []catalog.Option {
	out := make([]catalog.Option, len(files))
	for i, f := range files {
		out[i] = catalog.Option{Label: catalog.Label(f), Files: []string{f}}
	}
	return out
}

func testCatalog() *catalog.Catalog {
	m := &manifest.Manifest{Parts: []manifest.Part{
		{LayerType: manifest.LayerHair, Name: "hair / A", FilePath: "hair/A.png"},
		{LayerType: manifest.LayerHair, Name: "hair / 고양이머리", FilePath: "hair/고양이머리.png"},
		{LayerType: manifest.LayerClothes, Name: "cloth / normal", FilePath: "cloth/normal.png"},
		{LayerType: manifest.LayerClothes, Name: "cloth / 베이쁘(red)", FilePath: "cloth/베이쁘(red).png"},
		{LayerType: manifest.LayerHat, Name: "hat / 베레모", FilePath: "hat/베레모.png"},
		{LayerType: manifest.LayerHat, Name: "hat / 아이스비니", FilePath: "hat/아이스비니.png"},
		{LayerType: manifest.LayerHat, Name: "hat / 고양이비니", FilePath: "hat/고양이비니.png"},
		{LayerType: manifest.LayerHat, Name: "hat / 캡", FilePath: "hat/캡.png"},
		{LayerType: manifest.LayerAccessory, Name: "accessory / glasses", FilePath: "accessory/glasses.png"},
	}}
	return catalog.Build(m)
}

func mustSelect(t *testing.T, c *catalog.Catalog, s selection.State, cat catalog.Category, ch selection.Choice) selection.State {
	t.Helper()
	next, err := s.Select(c, cat, ch)
	require.NoError(t, err)
	return next
}

func TestResolveDefault(t *testing.T) {
	c := testCatalog()
	got := Resolve(selection.Default(c), c)
	assert.Equal(t, []string{
		SkinBase,
		ScleraNormal,
		"face/basic/eye_color/blue.png",
		"face/basic/mouth/기본입.png",
		"hair/A.png",
		"face/basic/eye/1.png",
		"cloth/normal.png",
		DefaultBase,
	}, got)
}

func TestResolveFullSelection(t *testing.T) {
	c := testCatalog()
	s := selection.Default(c)
	s = mustSelect(t, c, s, catalog.Hair, selection.Pick(1))
	s = mustSelect(t, c, s, catalog.Hat, selection.Pick(3))
	s = mustSelect(t, c, s, catalog.Accessory, selection.Pick(0))

	got := Resolve(s, c)
	require.NotEmpty(t, got)
	assert.Equal(t, SkinBase, got[0])
	assert.Equal(t, "accessory/glasses.png", got[len(got)-1])
	assert.Equal(t, "hair/고양이머리.png", got[4], "hat without a known keyword leaves hair alone")
	assert.Contains(t, got, "hat/캡.png")
	assert.Contains(t, got, "face/basic/hair_base/고양이머리_base.png")
}

func TestResolveSpecialOutfitHair(t *testing.T) {
	c := catalog.New(map[catalog.Category][]catalog.Option{
		catalog.Hair:    opts("hair/A.png", "hair/B.png"),
		catalog.Clothes: opts("cloth/normal.png", "cloth/베이쁘(red).png"),
		catalog.Hat:     opts("hat/베레모.png"),
	})
	s := selection.Default(c)
	s = mustSelect(t, c, s, catalog.Clothes, selection.Pick(1))

	got := Resolve(s, c)
	assert.Contains(t, got, "hair/bappe(red)/A.png")
	assert.NotContains(t, got, "hair/A.png")
}

func TestResolveSpecialOutfitByDefault(t *testing.T) {
	c := catalog.New(map[catalog.Category][]catalog.Option{
		catalog.Hair:    opts("hair/A.png"),
		catalog.Clothes: opts("cloth/bappe(red).png"),
		catalog.Hat:     opts("hat/beret.png"),
	})
	got := Resolve(selection.Default(c), c)
	assert.Contains(t, got, "hair/bappe(red)/A.png")
	assert.NotContains(t, got, "hat/beret.png")
}

func TestResolveHeadwearHair(t *testing.T) {
	c := testCatalog()
	tests := []struct {
		hat  int
		want string
	}{
		{0, "hair/beret/A.png"},
		{1, "hair/ice_beanie/A.png"},
		{2, "hair/normal_beanie/A.png"},
		{3, "hair/A.png"},
	}
	for _, tt := range tests {
		s := mustSelect(t, c, selection.Default(c), catalog.Hat, selection.Pick(tt.hat))
		got := Resolve(s, c)
		assert.Equal(t, tt.want, got[4], "hat %d", tt.hat)
	}
}

func TestResolveWink(t *testing.T) {
	c := testCatalog()
	wink := -1
	for i, o := range c.Options(catalog.Eye) {
		if IsWink(o.Label) {
			wink = i
			break
		}
	}
	require.GreaterOrEqual(t, wink, 0)

	t.Run("wink eye", func(t *testing.T) {
		s := mustSelect(t, c, selection.Default(c), catalog.Eye, selection.Pick(wink))
		s = mustSelect(t, c, s, catalog.EyeColor, selection.Pick(1))
		got := Resolve(s, c)
		assert.Equal(t, ScleraWink, got[1])
		assert.Equal(t, "face/basic/eye_color/red_윙크.png", got[2])
	})

	t.Run("normal eye", func(t *testing.T) {
		s := mustSelect(t, c, selection.Default(c), catalog.EyeColor, selection.Pick(1))
		got := Resolve(s, c)
		assert.Equal(t, ScleraNormal, got[1])
		assert.Equal(t, "face/basic/eye_color/red.png", got[2])
	})
}

func TestResolveEmptyCatalog(t *testing.T) {
	c := catalog.New(nil)
	got := Resolve(selection.Default(c), c)
	assert.Equal(t, []string{SkinBase, DefaultBase}, got)
}

func TestResolvePure(t *testing.T) {
	c := testCatalog()
	rng := rand.New(rand.NewPCG(3, 4))
	for range 100 {
		s := selection.Randomize(c, rng)
		a := Resolve(s, c)
		b := Resolve(s, c)
		require.Equal(t, a, b)
		require.Equal(t, SkinBase, a[0])
		if !s.Get(catalog.Accessory).IsNone() {
			assert.Equal(t, "accessory/glasses.png", a[len(a)-1])
		}
	}
}

func TestFaceBase(t *testing.T) {
	tests := map[string]string{
		"고양이머리":       "face/basic/hair_base/고양이머리_base.png",
		"고양이머리(긴)":    "face/basic/hair_base/고양이머리_base.png",
		"로제(yellow)":  "face/basic/hair_base/로제_base.png",
		"버섯머리":        "face/basic/hair_base/버섯머리_base.png",
		"아이키":         "face/basic/hair_base/아이키_base.png",
		"양갈래(black)":  "face/basic/hair_base/양갈래_base.png",
		"양갈래":         "face/basic/hair_base/양갈래_base.png",
		"special":     "face/basic/hair_base/special_base.png",
		"":            DefaultBase,
		"단발":          DefaultBase,
		"로제(pink)":    DefaultBase,
	}
	for label, want := range tests {
		assert.Equal(t, want, FaceBase(label), label)
	}
	assert.Equal(t, "face/basic/hair_base/아이키_base.png", FaceBase(norm.NFD.String("아이키")))
}

func TestHairVariant(t *testing.T) {
	assert.Equal(t, "hair/beret/고양이머리(긴).png", HairVariant("hair/고양이머리(긴).png", "beret"))
	assert.Equal(t, "hair/bappe(red)/A.png", HairVariant("hair/A.PNG", "bappe(red)"))
}

func TestMatchHeadwear(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"hat/베레모.png", "beret", true},
		{"hat/Beret_red.png", "beret", true},
		{"hat/아이스비니.png", "ice_beanie", true},
		{"hat/ice_beanie.png", "ice_beanie", true},
		{"hat/아이스캡.png", "", false},
		{"hat/고양이비니.png", "normal_beanie", true},
		{"hat/블렉비니.png", "normal_beanie", true},
		{"hat/캡.png", "", false},
		{norm.NFD.String("hat/아이스비니.png"), "ice_beanie", true},
		{"hat/beret_beanie.png", "beret", true},
	}
	for _, tt := range tests {
		r, ok := MatchHeadwear(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.want, r.Subfolder, tt.path)
	}
}

func TestIsWink(t *testing.T) {
	assert.True(t, IsWink("윙크1"))
	assert.True(t, IsWink("Wink"))
	assert.True(t, IsWink(norm.NFD.String("윙크2")))
	assert.False(t, IsWink("1"))
}
