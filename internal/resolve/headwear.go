package resolve

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// HeadwearRule sends hair into Subfolder when every AllOf group has at least
// one keyword in the hat's file path.
type HeadwearRule struct {
	Name      string
	AllOf     [][]string
	Subfolder string
}

// HeadwearRules is checked in order; the first match wins.
var HeadwearRules = []HeadwearRule{
	{Name: "beret", AllOf: [][]string{{"베레모", "beret"}}, Subfolder: "beret"},
	{Name: "ice beanie", AllOf: [][]string{{"아이스", "ice"}, {"비니", "beanie"}}, Subfolder: "ice_beanie"},
	{Name: "beanie", AllOf: [][]string{{"비니", "beanie"}}, Subfolder: "normal_beanie"},
}

func (r HeadwearRule) matches(p string) bool {
	for _, group := range r.AllOf {
		if !containsAny(p, group) {
			return false
		}
	}
	return len(r.AllOf) > 0
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// MatchHeadwear finds the rule for a hat file path. File names from some
// file systems arrive decomposed, so the path is NFC-normalized first.
func MatchHeadwear(hatPath string) (HeadwearRule, bool) {
	p := strings.ToLower(norm.NFC.String(hatPath))
	for _, r := range HeadwearRules {
		if r.matches(p) {
			return r, true
		}
	}
	return HeadwearRule{}, false
}
