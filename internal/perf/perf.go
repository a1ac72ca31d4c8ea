// Package perf collects timing samples for hot paths of the interactive
// front end. Collection is off unless BOXPICK_PERF is set.
package perf

import (
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/andyrewlee/boxpick/internal/logging"
)

const (
	sampleWindow      = 128
	defaultLogEvery   = 5 * time.Second
	envEnabled        = "BOXPICK_PERF"
	envIntervalMillis = "BOXPICK_PERF_INTERVAL_MS"
)

// Stat summarises the samples recorded under one name since the last
// snapshot.
type Stat struct {
	Name  string
	Count int64
	Avg   time.Duration
	Max   time.Duration
	P95   time.Duration
}

type series struct {
	count   int64
	total   time.Duration
	max     time.Duration
	window  [sampleWindow]time.Duration
	next    int
	wrapped bool
}

func (s *series) add(d time.Duration) {
	s.count++
	s.total += d
	if d > s.max {
		s.max = d
	}
	s.window[s.next] = d
	s.next++
	if s.next == sampleWindow {
		s.next = 0
		s.wrapped = true
	}
}

func (s *series) samples() []time.Duration {
	n := s.next
	if s.wrapped {
		n = sampleWindow
	}
	out := make([]time.Duration, n)
	copy(out, s.window[:n])
	return out
}

// Tracker records named durations.
type Tracker struct {
	mu       sync.Mutex
	enabled  bool
	interval time.Duration
	lastLog  time.Time
	now      func() time.Time
	series   map[string]*series
}

// NewTracker returns a tracker that logs a summary at most once per
// interval. A zero interval disables periodic logging.
func NewTracker(enabled bool, interval time.Duration) *Tracker {
	return &Tracker{
		enabled:  enabled,
		interval: interval,
		now:      time.Now,
		series:   make(map[string]*series),
	}
}

var defaultTracker = NewTracker(enabledFromEnv(), intervalFromEnv())

// Default returns the process-wide tracker configured from the environment.
func Default() *Tracker { return defaultTracker }

// Enabled reports whether the tracker records anything.
func (t *Tracker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// SetEnabled switches collection on or off.
func (t *Tracker) SetEnabled(on bool) {
	t.mu.Lock()
	t.enabled = on
	t.mu.Unlock()
}

// Time starts a measurement; call the returned func to record it.
func (t *Tracker) Time(name string) func() {
	if !t.Enabled() {
		return func() {}
	}
	start := t.now()
	return func() { t.Record(name, t.now().Sub(start)) }
}

// Record adds one sample.
func (t *Tracker) Record(name string, d time.Duration) {
	t.mu.Lock()
	if !t.enabled {
		t.mu.Unlock()
		return
	}
	s, ok := t.series[name]
	if !ok {
		s = &series{}
		t.series[name] = s
	}
	s.add(d)

	var due []Stat
	now := t.now()
	if t.interval > 0 && (t.lastLog.IsZero() || now.Sub(t.lastLog) >= t.interval) {
		t.lastLog = now
		due = t.drainLocked()
	}
	t.mu.Unlock()

	logStats("PERF", due)
}

// Snapshot returns the stats recorded so far, sorted by name, and resets them.
func (t *Tracker) Snapshot() []Stat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.drainLocked()
}

// Flush logs and resets the current stats.
func (t *Tracker) Flush(reason string) {
	prefix := "PERF SUMMARY"
	if r := strings.TrimSpace(reason); r != "" {
		prefix += " " + r
	}
	logStats(prefix, t.Snapshot())
}

func (t *Tracker) drainLocked() []Stat {
	out := make([]Stat, 0, len(t.series))
	for name, s := range t.series {
		if s.count == 0 {
			continue
		}
		out = append(out, Stat{
			Name:  name,
			Count: s.count,
			Avg:   time.Duration(int64(s.total) / s.count),
			Max:   s.max,
			P95:   percentile(s.samples(), 0.95),
		})
	}
	t.series = make(map[string]*series)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func logStats(prefix string, stats []Stat) {
	for _, s := range stats {
		logging.Info("%s %s count=%d avg=%s p95=%s max=%s", prefix, s.Name, s.Count, s.Avg, s.P95, s.Max)
	}
}

// percentile returns the nearest-rank q-th sample.
func percentile(samples []time.Duration, q float64) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	pos := int(math.Ceil(q*float64(len(samples)))) - 1
	if pos < 0 {
		pos = 0
	}
	if pos >= len(samples) {
		pos = len(samples) - 1
	}
	return samples[pos]
}

func enabledFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envEnabled))) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

func intervalFromEnv() time.Duration {
	if raw := strings.TrimSpace(os.Getenv(envIntervalMillis)); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultLogEvery
}
