package camera

import "errors"

// ErrUnknownPreset is returned by StageController.GoTo for names with no preset.
var ErrUnknownPreset = errors.New("unknown camera preset")

// Preset is a named eye position and look-at target.
type Preset struct {
	Name     string
	Position [3]float32
	Target   [3]float32
}

// presets are the explore-mode viewpoints, in key order.
var presets = []Preset{
	{"front", [3]float32{0, 0, 5}, [3]float32{0, -1, -8}},
	{"stage", [3]float32{0, -3, -6}, [3]float32{0, -3, -12}},
	{"audience", [3]float32{0, 1, 12}, [3]float32{0, -2, -8}},
	{"aerial", [3]float32{0, 15, -2}, [3]float32{0, -3, -8}},
	{"side", [3]float32{18, 2, -6}, [3]float32{0, -1, -8}},
	{"backstage", [3]float32{0, -3.5, -10}, [3]float32{0, 0, 20}},
}

// homeView is where Fixed mode rests before pointer and scroll offsets apply.
var homeView = Preset{"home", [3]float32{0, 0, 5}, [3]float32{0, 0, 0}}

// Presets returns the explore-mode viewpoints in key order.
//
// Returns:
//   - []Preset: a copy of the preset list
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by name.
//
// Parameters:
//   - name: the preset name, e.g. "aerial"
//
// Returns:
//   - Preset: the preset
//   - bool: false if no preset has that name
func LookupPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
