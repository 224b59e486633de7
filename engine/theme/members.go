package theme

import "github.com/Carmen-Shannon/oxy-stage/common"

// Member is one performer and her penlight color.
type Member struct {
	Name  string
	Color common.Color3
}

var members = []Member{
	{"Emiri Otani", common.Color3{1, 1, 1}},
	{"Hana Oba", common.Color3{1, 0.647, 0}},
	{"Risa Otoshima", common.Color3{0.529, 0.808, 0.922}},
	{"Kiara Saito", common.Color3{1, 0.714, 0.757}},
	{"Maika Sasaki", common.Color3{1, 1, 1}},
	{"Hitomi Takamatsu", common.Color3{1, 0, 0}},
	{"Shoko Takiwaki", common.Color3{1, 0.843, 0}},
	{"Iori Noguchi", common.Color3{0.502, 0, 0.502}},
	{"Sana Morohashi", common.Color3{0, 0.502, 0}},
	{"Anna Yamamoto", common.Color3{0, 0, 1}},
}

// groupPink is the group color, used twice in the penlight palette.
var groupPink = common.Color3{1, 0.078, 0.576}

// Members returns the performers in stage order.
func Members() []Member {
	return append([]Member(nil), members...)
}

// PenlightPalette returns the member colors followed by the group color twice.
func PenlightPalette() []common.Color3 {
	out := make([]common.Color3, 0, len(members)+2)
	for _, m := range members {
		out = append(out, m.Color)
	}
	return append(out, groupPink, groupPink)
}
