package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-stage/common"
	"golang.org/x/image/colornames"
)

func TestLookupBuiltin(t *testing.T) {
	th := Lookup("_cf4UTe1qrY")
	if th.Name != "lovesong" || th.BPM != 172 || th.Intensity != 1.3 {
		t.Errorf("unexpected theme: %+v", th)
	}
	if th.Mood != MoodPassionate {
		t.Errorf("mood = %q, want passionate", th.Mood)
	}
}

func TestLookupFallsBackToDefault(t *testing.T) {
	for _, id := range []string{"", "not-a-track", "_CF4UTE1QRY"} {
		if got := Lookup(id); got != DefaultTheme {
			t.Errorf("Lookup(%q) = %+v, want default", id, got)
		}
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	th := Lookup("17NBPoc78oM")
	th.BPM = 1
	th.Primary[0] = 0
	if again := Lookup("17NBPoc78oM"); again.BPM != 178 || again.Primary[0] != 1 {
		t.Errorf("table was mutated through a lookup result: %+v", again)
	}
}

func TestBuiltinThemesAreValid(t *testing.T) {
	if n := Builtin().Len(); n != 19 {
		t.Errorf("builtin table has %d entries, want 19", n)
	}
	if err := Validate(DefaultTheme); err != nil {
		t.Errorf("default theme invalid: %v", err)
	}
	for _, id := range Builtin().IDs() {
		if err := Validate(Lookup(id)); err != nil {
			t.Errorf("theme %s: %v", id, err)
		}
	}
}

const sampleYAML = `
default:
  bpm: 120
themes:
  _cf4UTe1qrY:
    bpm: 180
    primary: "#ff0000"
    accent: gold
  custom01:
    name: custom
    intensity: 1.2
    secondary: [0.1, 0.2, 0.3]
    strobe_chance: 0
    mood: dark
`

func TestParse(t *testing.T) {
	entries, def, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if def.BPM != 120 || def.Intensity != DefaultTheme.Intensity {
		t.Errorf("default = %+v", def)
	}

	love := entries["_cf4UTe1qrY"]
	if love.BPM != 180 {
		t.Errorf("bpm = %v, want 180", love.BPM)
	}
	if love.Name != "lovesong" || love.Intensity != 1.3 {
		t.Errorf("unset fields should inherit from the builtin entry: %+v", love)
	}
	if love.Primary != (common.Color3{1, 0, 0}) {
		t.Errorf("primary = %v", love.Primary)
	}
	if love.Accent != common.Color3FromColor(colornames.Gold) {
		t.Errorf("accent = %v", love.Accent)
	}

	custom := entries["custom01"]
	if custom.BPM != 120 {
		t.Errorf("custom bpm should inherit the file default, got %v", custom.BPM)
	}
	if custom.StrobeChance != 0 {
		t.Errorf("explicit zero strobe_chance should be kept, got %v", custom.StrobeChance)
	}
	if custom.Secondary != (common.Color3{0.1, 0.2, 0.3}) || custom.Mood != MoodDark {
		t.Errorf("custom = %+v", custom)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"negative bpm", "themes:\n  x:\n    bpm: -1\n", errInvalidTheme},
		{"strobe above one", "themes:\n  x:\n    strobe_chance: 1.5\n", errInvalidTheme},
		{"unknown mood", "themes:\n  x:\n    mood: sleepy\n", errInvalidTheme},
		{"bad hex", "themes:\n  x:\n    primary: \"#12\"\n", errInvalidColor},
		{"short list", "themes:\n  x:\n    primary: [1, 2]\n", errInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFileMergesBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if table.Len() != 20 {
		t.Errorf("Len = %d, want 20", table.Len())
	}
	if got := table.Lookup("17NBPoc78oM"); got.Name != "zettai" {
		t.Errorf("builtin entry lost: %+v", got)
	}
	if got := table.Lookup("unknown"); got.BPM != 120 {
		t.Errorf("unknown id should use the file default, got %+v", got)
	}
}

func TestWatchReloadsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	if err := os.WriteFile(path, []byte("themes:\n  live01:\n    bpm: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path, table)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("themes:\n  live01:\n    bpm: 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for table.Lookup("live01").BPM != 200 {
		select {
		case <-deadline:
			t.Fatalf("table not reloaded, bpm = %v", table.Lookup("live01").BPM)
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestWatchKeepsTableOnParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	if err := os.WriteFile(path, []byte("themes:\n  live01:\n    bpm: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := Watch(path, table)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("themes:\n  live01:\n    bpm: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Errors:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a reload error")
	}
	if got := table.Lookup("live01").BPM; got != 100 {
		t.Errorf("bpm = %v, previous table should be kept", got)
	}
}
