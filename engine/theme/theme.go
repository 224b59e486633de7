package theme

import (
	"sort"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-stage/common"
)

// Mood is a coarse label for how a track feels. Effects use it to pick
// variations (heart bursts on sweet tracks, extra strobes on explosive ones).
type Mood string

const (
	MoodNormal     Mood = "normal"
	MoodPassionate Mood = "passionate"
	MoodSweet      Mood = "sweet"
	MoodExplosive  Mood = "explosive"
	MoodDark       Mood = "dark"
	MoodEmotional  Mood = "emotional"
	MoodEnergetic  Mood = "energetic"
	MoodDramatic   Mood = "dramatic"
	MoodIntense    Mood = "intense"
	MoodCheerful   Mood = "cheerful"
	MoodSparkling  Mood = "sparkling"
)

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodNormal, MoodPassionate, MoodSweet, MoodExplosive, MoodDark, MoodEmotional,
		MoodEnergetic, MoodDramatic, MoodIntense, MoodCheerful, MoodSparkling:
		return true
	}
	return false
}

// Theme is the visual and tempo parameter set for one track.
// Themes are plain values; a Table never hands out references into its storage.
type Theme struct {
	// Name is a short human label such as "lovesong".
	Name string
	// BPM drives the beat pulse period. Always > 0.
	BPM float64
	// Intensity scales the beat and the live effects. Always > 0.
	Intensity float64

	Primary   common.Color3
	Secondary common.Color3
	Accent    common.Color3

	Mood Mood

	// LaserSpeed multiplies laser sweep speed.
	LaserSpeed float64
	// StrobeChance is the per-tick probability weight for accents and strobes, in [0, 1].
	StrobeChance float64
	// ShaderTint is the color the background shader blends toward.
	ShaderTint common.Color3
	// CameraShake is the per-unit-beat shake amplitude in world units.
	CameraShake float64
}

// tableSnapshot is an immutable view of a Table's contents. Replace swaps it atomically.
type tableSnapshot struct {
	entries map[string]Theme
	def     Theme
}

// tableImpl is the implementation of the Table interface.
type tableImpl struct {
	snap atomic.Pointer[tableSnapshot]
}

// Table maps track identifiers to themes with a default fallback.
// Reads never block and always observe a complete snapshot, even while a hot reload
// replaces the contents.
type Table interface {
	// Lookup returns the theme for a track. Unknown or empty ids resolve to the default theme.
	//
	// Parameters:
	//   - trackID: the track identifier
	//
	// Returns:
	//   - Theme: a copy of the matching or default theme
	Lookup(trackID string) Theme

	// Has reports whether the table holds an explicit entry for trackID.
	//
	// Parameters:
	//   - trackID: the track identifier
	//
	// Returns:
	//   - bool: true if an entry exists
	Has(trackID string) bool

	// Default returns the fallback theme.
	//
	// Returns:
	//   - Theme: the default theme
	Default() Theme

	// IDs returns the known track ids in sorted order.
	//
	// Returns:
	//   - []string: sorted track ids
	IDs() []string

	// Len returns the number of explicit entries.
	//
	// Returns:
	//   - int: entry count
	Len() int

	// Replace atomically swaps the table contents.
	//
	// Parameters:
	//   - entries: the new track id to theme map (copied)
	//   - def: the new default theme
	Replace(entries map[string]Theme, def Theme)
}

var _ Table = &tableImpl{}

// NewTable creates a Table. With no options the table is empty and falls back to DefaultTheme.
//
// Parameters:
//   - options: functional options to configure the table
//
// Returns:
//   - Table: the newly created table
func NewTable(options ...TableBuilderOption) Table {
	snap := &tableSnapshot{
		entries: make(map[string]Theme),
		def:     DefaultTheme,
	}
	for _, option := range options {
		option(snap)
	}
	t := &tableImpl{}
	t.snap.Store(snap)
	return t
}

func (t *tableImpl) Lookup(trackID string) Theme {
	s := t.snap.Load()
	if th, ok := s.entries[trackID]; ok && trackID != "" {
		return th
	}
	return s.def
}

func (t *tableImpl) Has(trackID string) bool {
	_, ok := t.snap.Load().entries[trackID]
	return ok
}

func (t *tableImpl) Default() Theme {
	return t.snap.Load().def
}

func (t *tableImpl) IDs() []string {
	s := t.snap.Load()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (t *tableImpl) Len() int {
	return len(t.snap.Load().entries)
}

func (t *tableImpl) Replace(entries map[string]Theme, def Theme) {
	cp := make(map[string]Theme, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	t.snap.Store(&tableSnapshot{entries: cp, def: def})
}
