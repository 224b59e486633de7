package theme

import "github.com/Carmen-Shannon/oxy-stage/common"

// DefaultTheme is returned for any track without an explicit entry.
var DefaultTheme = Theme{
	Name:         "default",
	BPM:          130,
	Intensity:    1.0,
	Primary:      common.Color3{1, 0.4, 0.6},
	Secondary:    common.Color3{0.5, 0.3, 1},
	Accent:       common.Color3{1, 0.85, 0.3},
	Mood:         MoodNormal,
	LaserSpeed:   1.0,
	StrobeChance: 0.3,
	ShaderTint:   common.Color3{1, 0.4, 0.6},
	CameraShake:  0.008,
}

// builtinThemes is keyed by video id.
var builtinThemes = map[string]Theme{
	"_cf4UTe1qrY": {"lovesong", 172, 1.3, common.Color3{1, 0.15, 0.45}, common.Color3{1, 0.5, 0.75}, common.Color3{1, 0.85, 0.3}, MoodPassionate, 1.6, 0.45, common.Color3{1, 0.25, 0.5}, 0.014},
	"F3P8vcZkIh4": {"tokubetsu", 132, 1.0, common.Color3{1, 0.55, 0.75}, common.Color3{0.95, 0.35, 0.65}, common.Color3{1, 0.9, 0.95}, MoodSweet, 0.8, 0.15, common.Color3{1, 0.5, 0.7}, 0.005},
	"17NBPoc78oM": {"zettai", 178, 1.5, common.Color3{1, 0, 0.35}, common.Color3{1, 0.75, 0}, common.Color3{0, 1, 1}, MoodExplosive, 2.2, 0.6, common.Color3{1, 0.1, 0.4}, 0.022},
	"cyRZGtNx_a4": {"norotte", 142, 1.3, common.Color3{0.55, 0, 0.3}, common.Color3{0.2, 0, 0.5}, common.Color3{1, 0, 0}, MoodDark, 1.8, 0.5, common.Color3{0.5, 0.05, 0.3}, 0.016},
	"C8WMX7dEH7Y": {"lastnote", 76, 0.8, common.Color3{0.3, 0.5, 1}, common.Color3{0.7, 0.8, 1}, common.Color3{1, 1, 1}, MoodEmotional, 0.5, 0.05, common.Color3{0.4, 0.55, 1}, 0.003},
	"Y1Bboo5KXL4": {"natsumatope", 158, 1.4, common.Color3{1, 0.55, 0}, common.Color3{0, 0.85, 1}, common.Color3{1, 1, 0.2}, MoodEnergetic, 1.7, 0.5, common.Color3{1, 0.6, 0.1}, 0.019},
	"20QJax8CwQo": {"trigger", 168, 1.35, common.Color3{0, 0.65, 1}, common.Color3{1, 0.3, 0.6}, common.Color3{1, 0.95, 0.4}, MoodDramatic, 1.5, 0.4, common.Color3{0.15, 0.55, 1}, 0.015},
	"suf7S4AKdmY": {"selfish", 152, 1.4, common.Color3{0.1, 0, 0.1}, common.Color3{1, 0, 0.3}, common.Color3{1, 1, 1}, MoodIntense, 2.0, 0.55, common.Color3{0.8, 0.1, 0.35}, 0.02},
	"skgh3juWdFU": {"citron", 125, 1.05, common.Color3{1, 0.9, 0.2}, common.Color3{0.3, 0.9, 0.5}, common.Color3{1, 0.5, 0.7}, MoodCheerful, 1.0, 0.2, common.Color3{1, 0.85, 0.3}, 0.006},
	"J5eTB_0SEeg": {"zurui", 84, 0.85, common.Color3{1, 0.4, 0.6}, common.Color3{0.9, 0.55, 1}, common.Color3{1, 0.8, 0.9}, MoodSweet, 0.6, 0.08, common.Color3{1, 0.45, 0.65}, 0.003},
	"Mq_wPiAJO7Q": {"diamond", 146, 1.15, common.Color3{0.8, 0.9, 1}, common.Color3{1, 0.85, 0.4}, common.Color3{0.6, 1, 0.8}, MoodSparkling, 1.1, 0.3, common.Color3{0.75, 0.85, 1}, 0.009},
	"Bot92Nn-ozk": {"wantyou", 162, 1.35, common.Color3{1, 0.1, 0.55}, common.Color3{1, 0.45, 0.2}, common.Color3{0.9, 0, 1}, MoodEnergetic, 1.8, 0.5, common.Color3{1, 0.2, 0.55}, 0.017},
	"ShbfYtAPXuI": {"anoko", 140, 1.2, common.Color3{0.85, 0.85, 0.95}, common.Color3{0.6, 0.5, 0.9}, common.Color3{1, 0.7, 0.85}, MoodDramatic, 1.3, 0.35, common.Color3{0.8, 0.75, 0.95}, 0.012},
	"Q1-yYjZqk7o": {"the5th", 148, 1.25, common.Color3{0, 0.5, 1}, common.Color3{0.2, 0.8, 0.9}, common.Color3{1, 1, 0.6}, MoodEnergetic, 1.4, 0.4, common.Color3{0.1, 0.55, 1}, 0.013},
	"8id6i_QeNJM": {"seishun", 156, 1.3, common.Color3{0.2, 0.7, 1}, common.Color3{1, 0.9, 0.6}, common.Color3{0.4, 0.95, 0.85}, MoodPassionate, 1.5, 0.4, common.Color3{0.25, 0.65, 1}, 0.014},
	"iEYwHScdJFQ": {"cameo", 170, 1.45, common.Color3{1, 0.2, 0.1}, common.Color3{0.9, 0.7, 0.1}, common.Color3{1, 0, 0.5}, MoodIntense, 2.0, 0.55, common.Color3{1, 0.25, 0.15}, 0.02},
	"w0N0TiOlAY0": {"teokure", 138, 1.1, common.Color3{1, 0.6, 0.2}, common.Color3{1, 0.3, 0.4}, common.Color3{1, 0.9, 0.5}, MoodDramatic, 1.2, 0.3, common.Color3{1, 0.55, 0.25}, 0.01},
	"YIjPbF-dKQA": {"seifuku", 120, 0.9, common.Color3{0, 0.6, 0.3}, common.Color3{1, 0.1, 0.2}, common.Color3{1, 1, 1}, MoodSweet, 0.7, 0.1, common.Color3{0.2, 0.65, 0.35}, 0.004},
	"xOAaBsPaPpY": {"equallove", 134, 1.0, common.Color3{1, 0.3, 0.5}, common.Color3{0.5, 0.2, 0.9}, common.Color3{1, 0.8, 0.4}, MoodNormal, 1.0, 0.25, common.Color3{1, 0.35, 0.55}, 0.008},
}

var builtinTable = NewTable(WithBuiltins())

// Lookup resolves a track id against the built-in table. Unknown or empty ids
// yield DefaultTheme; this never fails.
//
// Parameters:
//   - trackID: the track identifier
//
// Returns:
//   - Theme: a copy of the matching or default theme
func Lookup(trackID string) Theme {
	return builtinTable.Lookup(trackID)
}

// Builtin returns the shared built-in table.
//
// Returns:
//   - Table: the built-in table
func Builtin() Table {
	return builtinTable
}
