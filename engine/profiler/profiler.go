package profiler

import (
	"fmt"
	"log"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// FailureSource reports per-subsystem failure counts, keyed by subsystem name.
type FailureSource interface {
	FailureCounts() map[string]uint64
}

// Stats is one profiler sample.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	SysMB       float64
	CPUPercent  float64
	MemPercent  float64
	Beat        float64
	Failures    map[string]uint64
}

// String formats the sample as a single log line.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d | Sys: %.2f MB | CPU: %.1f%% | Mem: %.1f%% | Beat: %.2f",
		s.FPS, s.HeapMB, s.AllocRateMB, s.GCCount, s.SysMB, s.CPUPercent, s.MemPercent, s.Beat)
	if len(s.Failures) > 0 {
		names := make([]string, 0, len(s.Failures))
		for k := range s.Failures {
			names = append(names, k)
		}
		sort.Strings(names)
		b.WriteString(" | Failures:")
		for _, k := range names {
			fmt.Fprintf(&b, " %s=%d", k, s.Failures[k])
		}
	}
	return b.String()
}

// Profiler tracks frame rate, memory, host CPU load and subsystem failures.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64

	now      func() time.Time
	cpu      func() (float64, error)
	mem      func() (float64, error)
	beat     func() float64
	failures FailureSource
	last     Stats
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		cpu:            hostCPU,
		mem:            hostMem,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame. Logs a sample when the update interval
// has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}
	if v, err := p.cpu(); err == nil {
		s.CPUPercent = v
	}
	if v, err := p.mem(); err == nil {
		s.MemPercent = v
	}
	if p.beat != nil {
		s.Beat = p.beat()
	}
	if p.failures != nil {
		s.Failures = p.failures.FailureCounts()
	}

	log.Printf("[Profiler] %s", s)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent sample.
func (p *Profiler) Last() Stats {
	return p.last
}

// hostCPU samples total CPU use since the previous call without blocking.
func hostCPU() (float64, error) {
	v, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("no cpu sample")
	}
	return v[0], nil
}

func hostMem() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}
