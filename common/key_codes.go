package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyA     = 65 // A key (ASCII), toggles autoplay
	KeyC     = 67 // C key (ASCII), copies the current track link
	KeyE     = 69 // E key (ASCII), toggles explore mode
	KeyK     = 75 // K key (ASCII), collects the next member card
	KeyM     = 77 // M key (ASCII), toggles the metronome
	KeyN     = 78 // N key (ASCII), next track
	KeyP     = 80 // P key (ASCII), previous track
	KeyS     = 83 // S key (ASCII), stop
	KeyW     = 87 // W key (ASCII), cycles the penlight wave
	KeySpace = 32 // Spacebar (ASCII), pause / resume
	KeyEsc   = 256

	Key1 = 49 // camera preset: front
	Key2 = 50 // camera preset: stage
	Key3 = 51 // camera preset: audience
	Key4 = 52 // camera preset: aerial
	Key5 = 53 // camera preset: side
	Key6 = 54 // camera preset: backstage
)

// Arrow keys (GLFW), used to orbit in explore mode.
const (
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265
)
