package catalog

import "path"

// Eye, eye color and mouth options are not discovered from the manifest.
// Their files need exact names (the resolver derives wink and color
// variants from them), so the sets are enumerated by hand. A file missing
// from the asset tree still yields an option; it simply fails to load.
const (
	FaceDir     = "face/basic"
	EyeDir      = FaceDir + "/eye"
	EyeColorDir = FaceDir + "/eye_color"
	MouthDir    = FaceDir + "/mouth"
)

var (
	EyeLabels      = []string{"1", "2", "3", "윙크1", "윙크2"}
	EyeColorLabels = []string{"blue", "red", "yellow"}
	MouthLabels    = []string{"기본입", "웃는입", "웃는입2", "소심한입", "화난입"}
)

func fixedOptions(dir string, labels []string) []Option {
	out := make([]Option, len(labels))
	for i, l := range labels {
		out[i] = Option{Label: l, Files: []string{path.Join(dir, l+".png")}}
	}
	return out
}
