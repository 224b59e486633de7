package window

import "testing"

func TestNormalizePointer(t *testing.T) {
	tests := []struct {
		x, y   float64
		wx, wy float32
	}{
		{0, 0, -1, 1},
		{800, 450, 0, 0},
		{1600, 900, 1, -1},
		{400, 675, -0.5, -0.5},
		{-50, 2000, -1, -1},
	}
	for _, tt := range tests {
		x, y := NormalizePointer(tt.x, tt.y, 1600, 900)
		if x != tt.wx || y != tt.wy {
			t.Errorf("NormalizePointer(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wx, tt.wy)
		}
	}
	if x, y := NormalizePointer(10, 10, 0, 0); x != 0 || y != 0 {
		t.Errorf("zero-size window = (%v, %v)", x, y)
	}
}

func TestResizeIgnoresMinimized(t *testing.T) {
	w := newEngineWindow(WithSize(1280, 720))
	var calls int
	w.SetResizeCallback(func(int, int) { calls++ })

	w.resize(0, 0)
	if w.Width() != 1280 || w.Height() != 720 || calls != 0 {
		t.Errorf("minimized resize applied: %dx%d, %d calls", w.Width(), w.Height(), calls)
	}
	w.resize(1920, 1080)
	if w.Width() != 1920 || w.Height() != 1080 || calls != 1 {
		t.Errorf("resize = %dx%d, %d calls", w.Width(), w.Height(), calls)
	}
}

func TestCursorDrag(t *testing.T) {
	w := newEngineWindow(WithSize(200, 100))
	var pointer [2]float32
	var drags [][2]float32
	w.SetPointerCallback(func(x, y float32) { pointer = [2]float32{x, y} })
	w.SetDragCallback(func(dx, dy float32) { drags = append(drags, [2]float32{dx, dy}) })

	w.cursorMoved(150, 25)
	if pointer != [2]float32{0.5, 0.5} {
		t.Errorf("pointer = %v", pointer)
	}
	if len(drags) != 0 {
		t.Error("drag reported without a pressed button")
	}

	w.dragging = true
	w.cursorMoved(160, 20)
	if len(drags) != 1 || drags[0] != [2]float32{10, -5} {
		t.Errorf("drags = %v", drags)
	}
}

func TestNotSpawnedWindowIsNotRunning(t *testing.T) {
	w := newEngineWindow()
	if w.IsRunning() {
		t.Error("unspawned window reports running")
	}
	if w.SurfaceDescriptor() != nil {
		t.Error("unspawned window has a surface descriptor")
	}
	if err := w.Close(); err == nil {
		t.Error("closing an unspawned window should fail")
	}
}
