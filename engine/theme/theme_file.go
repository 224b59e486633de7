package theme

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

var (
	errInvalidTheme = errors.New("invalid theme")
	errInvalidColor = errors.New("invalid color")
)

// fileSpec is the on-disk layout of a theme file.
type fileSpec struct {
	Default *themeSpec           `yaml:"default"`
	Themes  map[string]themeSpec `yaml:"themes"`
}

// themeSpec mirrors Theme with optional fields; zero or missing values inherit
// from the default theme.
type themeSpec struct {
	Name         string     `yaml:"name"`
	BPM          float64    `yaml:"bpm"`
	Intensity    float64    `yaml:"intensity"`
	Primary      *yamlColor `yaml:"primary"`
	Secondary    *yamlColor `yaml:"secondary"`
	Accent       *yamlColor `yaml:"accent"`
	Mood         Mood       `yaml:"mood"`
	LaserSpeed   float64    `yaml:"laser_speed"`
	StrobeChance *float64   `yaml:"strobe_chance"`
	ShaderTint   *yamlColor `yaml:"shader_tint"`
	CameraShake  float64    `yaml:"camera_shake"`
}

// yamlColor accepts "#RRGGBB", a CSS color name, or a [r, g, b] float list.
type yamlColor struct {
	common.Color3
}

func (c *yamlColor) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var rgb []float32
		if err := value.Decode(&rgb); err != nil {
			return fmt.Errorf("%w: %v", errInvalidColor, err)
		}
		if len(rgb) != 3 {
			return fmt.Errorf("%w: expected 3 components, got %d", errInvalidColor, len(rgb))
		}
		c.Color3 = common.Color3{rgb[0], rgb[1], rgb[2]}
		return nil
	case yaml.ScalarNode:
		s := strings.TrimSpace(value.Value)
		if named, ok := colornames.Map[strings.ToLower(s)]; ok {
			c.Color3 = common.Color3FromColor(named)
			return nil
		}
		hex := strings.TrimPrefix(s, "#")
		if len(hex) != 6 {
			return fmt.Errorf("%w: %q", errInvalidColor, value.Value)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return fmt.Errorf("%w: %q", errInvalidColor, value.Value)
		}
		c.Color3 = common.Color3{
			float32((v>>16)&0xff) / 255,
			float32((v>>8)&0xff) / 255,
			float32(v&0xff) / 255,
		}
		return nil
	}
	return fmt.Errorf("%w: unsupported yaml node at line %d", errInvalidColor, value.Line)
}

// resolve fills unset fields from base and validates the result.
func (s themeSpec) resolve(base Theme) (Theme, error) {
	th := Theme{
		Name:        common.Coalesce(s.Name, base.Name),
		BPM:         common.Coalesce(s.BPM, base.BPM),
		Intensity:   common.Coalesce(s.Intensity, base.Intensity),
		Mood:        common.Coalesce(s.Mood, base.Mood),
		LaserSpeed:  common.Coalesce(s.LaserSpeed, base.LaserSpeed),
		CameraShake: common.Coalesce(s.CameraShake, base.CameraShake),

		Primary:      base.Primary,
		Secondary:    base.Secondary,
		Accent:       base.Accent,
		ShaderTint:   base.ShaderTint,
		StrobeChance: base.StrobeChance,
	}
	if s.Primary != nil {
		th.Primary = s.Primary.Color3
	}
	if s.Secondary != nil {
		th.Secondary = s.Secondary.Color3
	}
	if s.Accent != nil {
		th.Accent = s.Accent.Color3
	}
	if s.ShaderTint != nil {
		th.ShaderTint = s.ShaderTint.Color3
	}
	if s.StrobeChance != nil {
		th.StrobeChance = *s.StrobeChance
	}
	return th, Validate(th)
}

// Validate checks the numeric invariants of a theme.
//
// Parameters:
//   - th: the theme to check
//
// Returns:
//   - error: wraps errInvalidTheme describing the first violated constraint, or nil
func Validate(th Theme) error {
	switch {
	case th.BPM <= 0:
		return fmt.Errorf("%w: bpm must be > 0, got %v", errInvalidTheme, th.BPM)
	case th.Intensity <= 0:
		return fmt.Errorf("%w: intensity must be > 0, got %v", errInvalidTheme, th.Intensity)
	case th.StrobeChance < 0 || th.StrobeChance > 1:
		return fmt.Errorf("%w: strobe_chance must be within [0, 1], got %v", errInvalidTheme, th.StrobeChance)
	case th.CameraShake < 0:
		return fmt.Errorf("%w: camera_shake must be >= 0, got %v", errInvalidTheme, th.CameraShake)
	case !th.Mood.Valid():
		return fmt.Errorf("%w: unknown mood %q", errInvalidTheme, th.Mood)
	}
	return nil
}

// ParseFile reads a YAML theme file.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - map[string]Theme: the parsed entries keyed by track id
//   - Theme: the default theme (DefaultTheme when the file has no default section)
//   - error: read, parse or validation errors
func ParseFile(path string) (map[string]Theme, Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Theme{}, fmt.Errorf("failed to read theme file: %w", err)
	}
	return Parse(data)
}

// Parse decodes theme YAML from memory. See ParseFile.
func Parse(data []byte) (map[string]Theme, Theme, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, Theme{}, fmt.Errorf("failed to parse theme yaml: %w", err)
	}

	def := DefaultTheme
	if spec.Default != nil {
		resolved, err := spec.Default.resolve(DefaultTheme)
		if err != nil {
			return nil, Theme{}, fmt.Errorf("default: %w", err)
		}
		def = resolved
	}

	entries := make(map[string]Theme, len(spec.Themes))
	for id, ts := range spec.Themes {
		base := def
		if builtin, ok := builtinThemes[id]; ok {
			base = builtin
		}
		th, err := ts.resolve(base)
		if err != nil {
			return nil, Theme{}, fmt.Errorf("theme %q: %w", id, err)
		}
		entries[id] = th
	}
	return entries, def, nil
}

// LoadFile builds a Table holding the built-in themes overlaid with the contents of path.
//
// Parameters:
//   - path: the YAML theme file
//
// Returns:
//   - Table: the merged table
//   - error: any error from ParseFile
func LoadFile(path string) (Table, error) {
	entries, def, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	t := NewTable(WithBuiltins(), WithDefault(def))
	t.Replace(merge(entries), def)
	return t, nil
}

// merge overlays entries on the built-in themes.
func merge(entries map[string]Theme) map[string]Theme {
	out := make(map[string]Theme, len(builtinThemes)+len(entries))
	for id, th := range builtinThemes {
		out[id] = th
	}
	for id, th := range entries {
		out[id] = th
	}
	return out
}
