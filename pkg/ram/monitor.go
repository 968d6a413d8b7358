// Package ram samples system memory usage on a fixed interval while a
// benchmark batch runs. The monitor is purely observational: it never blocks
// or influences request orchestration, and its samples are read once, after
// it has been stopped.
package ram

import (
	"time"

	"github.com/shirou/gopsutil/v4/mem"
)

const bytesPerGB = 1 << 30

// DefaultInterval matches the sampling cadence of the benchmark run command.
const DefaultInterval = 500 * time.Millisecond

// Monitor periodically samples used system memory in a background goroutine.
// Samples are appended only by that goroutine; Stop waits for it to exit, so
// reading them afterwards needs no locking.
type Monitor struct {
	interval time.Duration

	totalGB float64
	samples []float64

	stop chan struct{}
	done chan struct{}
}

// Summary describes the memory usage observed over one sampling session,
// in GB.
type Summary struct {
	TotalGB float64
	StartGB float64
	PeakGB  float64
	AvgGB   float64
	EndGB   float64
}

// NewMonitor returns a Monitor sampling at the given interval. An interval of
// zero falls back to DefaultInterval.
func NewMonitor(interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Monitor{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins sampling in a background goroutine. It returns an error when
// the memory metric is unavailable, in which case no goroutine is started and
// Summary will report nothing; callers treat that as a missing metric, not a
// failure.
func (m *Monitor) Start() error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return err
	}
	m.totalGB = float64(vm.Total) / bytesPerGB

	go m.run()

	return nil
}

// Stop ends sampling and waits for the sampling goroutine to exit. Safe to
// call only once, and only after a successful Start.
func (m *Monitor) Stop() {
	close(m.stop)
	<-m.done
}

func (m *Monitor) run() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Take one sample immediately so short batches still get a reading.
	m.sample()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

func (m *Monitor) sample() {
	vm, err := mem.VirtualMemory()
	if err != nil {
		// A transient read failure drops one sample, nothing more.
		return
	}
	m.samples = append(m.samples, float64(vm.Used)/bytesPerGB)
}

// Summary computes the session statistics. Call only after Stop. The second
// return is false when no samples were collected.
func (m *Monitor) Summary() (Summary, bool) {
	return summarize(m.samples, m.totalGB)
}

// summarize is the pure aggregation over an ordered sample sequence.
func summarize(samples []float64, totalGB float64) (Summary, bool) {
	if len(samples) == 0 {
		return Summary{}, false
	}

	s := Summary{
		TotalGB: totalGB,
		StartGB: samples[0],
		EndGB:   samples[len(samples)-1],
		PeakGB:  samples[0],
	}

	var sum float64
	for _, v := range samples {
		sum += v
		if v > s.PeakGB {
			s.PeakGB = v
		}
	}
	s.AvgGB = sum / float64(len(samples))

	return s, true
}
