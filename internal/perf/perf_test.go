package perf

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andyrewlee/boxpick/internal/logging"
)

func TestPercentile(t *testing.T) {
	samples := []time.Duration{5, 1, 4, 2, 3}
	if got := percentile(samples, 0.95); got != 5 {
		t.Fatalf("p95 = %v, want 5", got)
	}
	if got := percentile([]time.Duration{9, 1, 5}, 0.5); got != 5 {
		t.Fatalf("p50 = %v, want 5", got)
	}
	if got := percentile(nil, 0.95); got != 0 {
		t.Fatalf("empty p95 = %v", got)
	}
}

func TestSnapshotAndReset(t *testing.T) {
	tr := NewTracker(true, 0)
	tr.Record("canvas.render", 50*time.Millisecond)
	tr.Record("app.update", 10*time.Millisecond)
	tr.Record("canvas.render", 150*time.Millisecond)

	stats := tr.Snapshot()
	if len(stats) != 2 {
		t.Fatalf("stats = %d, want 2", len(stats))
	}
	if stats[0].Name != "app.update" || stats[1].Name != "canvas.render" {
		t.Fatalf("stats not sorted: %+v", stats)
	}
	render := stats[1]
	if render.Count != 2 || render.Avg != 100*time.Millisecond || render.Max != 150*time.Millisecond {
		t.Fatalf("render stat = %+v", render)
	}
	if len(tr.Snapshot()) != 0 {
		t.Fatalf("snapshot should reset the tracker")
	}
}

func TestDisabledTrackerRecordsNothing(t *testing.T) {
	tr := NewTracker(false, 0)
	tr.Time("x")()
	tr.Record("y", time.Second)
	if stats := tr.Snapshot(); len(stats) != 0 {
		t.Fatalf("disabled tracker recorded %+v", stats)
	}
}

func TestWindowWraps(t *testing.T) {
	tr := NewTracker(true, 0)
	for i := 0; i < sampleWindow+10; i++ {
		tr.Record("x", time.Duration(i))
	}
	stats := tr.Snapshot()
	if stats[0].Count != sampleWindow+10 {
		t.Fatalf("count = %d", stats[0].Count)
	}
	if stats[0].Max != time.Duration(sampleWindow+9) {
		t.Fatalf("max = %v", stats[0].Max)
	}
}

func TestTimeUsesClock(t *testing.T) {
	tr := NewTracker(true, 0)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	tr.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 3 * time.Millisecond)
	}
	tr.Time("picker.update")()
	stats := tr.Snapshot()
	if len(stats) != 1 || stats[0].Avg != 3*time.Millisecond {
		t.Fatalf("stats = %+v", stats)
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFlushLogsSummary(t *testing.T) {
	out := &lockedBuffer{}
	logging.InitializeWriter(out, logging.LevelInfo)
	t.Cleanup(func() { logging.SetEnabled(false) })

	tr := NewTracker(true, 0)
	tr.Record("canvas.render", 2*time.Millisecond)
	tr.Flush("shutdown")
	if !strings.Contains(out.String(), "PERF SUMMARY shutdown canvas.render count=1") {
		t.Fatalf("log = %q", out.String())
	}
}

func TestPeriodicLog(t *testing.T) {
	out := &lockedBuffer{}
	logging.InitializeWriter(out, logging.LevelInfo)
	t.Cleanup(func() { logging.SetEnabled(false) })

	tr := NewTracker(true, time.Hour)
	tr.Record("app.update", time.Millisecond)
	if !strings.Contains(out.String(), "PERF app.update count=1") {
		t.Fatalf("first sample should log, got %q", out.String())
	}
	tr.Record("app.update", time.Millisecond)
	if strings.Count(out.String(), "PERF app.update") != 1 {
		t.Fatalf("second sample inside the interval should not log, got %q", out.String())
	}
}
