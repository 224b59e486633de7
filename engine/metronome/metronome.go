// Package metronome plays a short click on every beat onset of the simulator.
package metronome

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)

	clickLength  = 40 * time.Millisecond
	clickFreq    = 1000.0
	accentFreq   = 1600.0
	maxInFlight  = 2
	beatsPerBar  = 4
	defaultLevel = 0.4
)

// BeatSource is the part of the beat simulator the metronome listens to.
type BeatSource interface {
	OnBeat(fn func(n int))
}

// Metronome turns beat onsets into clicks. The first beat of every bar is
// pitched higher.
type Metronome struct {
	ctx   *oto.Context
	ready chan struct{}
	out   func(samples []byte, volume float64)

	click  []byte
	accent []byte

	volume   atomic.Uint64
	enabled  atomic.Bool
	inFlight atomic.Int32
	clicks   atomic.Int64
}

// New creates a metronome. Without WithOutput it opens an oto audio context,
// which fails on machines without an audio device.
//
// Parameters:
//   - options: functional options to configure the metronome
//
// Returns:
//   - *Metronome: the metronome, enabled
//   - error: error if the audio context cannot be created
func New(options ...MetronomeBuilderOption) (*Metronome, error) {
	m := &Metronome{
		click:  Click(clickFreq, clickLength),
		accent: Click(accentFreq, clickLength),
	}
	m.volume.Store(math.Float64bits(defaultLevel))
	m.enabled.Store(true)
	for _, option := range options {
		option(m)
	}
	if m.out == nil {
		ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
		if err != nil {
			return nil, err
		}
		m.ctx, m.ready = ctx, ready
		m.out = m.playOto
	}
	return m, nil
}

// Attach subscribes to beat onsets.
//
// Parameters:
//   - src: the beat source
func (m *Metronome) Attach(src BeatSource) {
	src.OnBeat(m.onBeat)
}

// SetEnabled mutes or unmutes the clicks.
func (m *Metronome) SetEnabled(on bool) {
	m.enabled.Store(on)
}

// Toggle flips the enabled flag and returns the new value.
func (m *Metronome) Toggle() bool {
	for {
		old := m.enabled.Load()
		if m.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// SetVolume sets the click gain, clamped to [0, 1].
func (m *Metronome) SetVolume(v float64) {
	m.volume.Store(math.Float64bits(math.Max(0, math.Min(1, v))))
}

// Clicks returns how many clicks were sent to the output.
func (m *Metronome) Clicks() int64 {
	return m.clicks.Load()
}

func (m *Metronome) onBeat(n int) {
	if !m.enabled.Load() {
		return
	}
	if m.inFlight.Load() >= maxInFlight {
		return
	}
	samples := m.click
	if n%beatsPerBar == 0 {
		samples = m.accent
	}
	m.clicks.Add(1)
	m.out(samples, math.Float64frombits(m.volume.Load()))
}

func (m *Metronome) playOto(samples []byte, volume float64) {
	select {
	case <-m.ready:
	default:
		return
	}
	m.inFlight.Add(1)
	go func() {
		defer m.inFlight.Add(-1)
		player := m.ctx.NewPlayer(&sampleReader{data: samples})
		player.SetVolume(volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(5 * time.Millisecond)
		}
		player.Close()
	}()
}

// Click renders a decaying sine burst as interleaved stereo float32 LE samples.
//
// Parameters:
//   - freq: tone frequency in Hz
//   - length: burst length
//
// Returns:
//   - []byte: the PCM data
func Click(freq float64, length time.Duration) []byte {
	n := int(length.Seconds() * SampleRate)
	buf := make([]byte, n*8)
	for i := range n {
		t := float64(i) / SampleRate
		env := math.Exp(-t * 90)
		putStereoF32(buf, i, math.Sin(2*math.Pi*freq*t)*env)
	}
	return buf
}

type sampleReader struct {
	data []byte
	pos  int
}

func (r *sampleReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both channels of frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	for c := range ChannelCount {
		o := i*8 + c*4
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
}
