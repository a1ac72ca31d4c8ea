package picker

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestEventReader(t *testing.T) {
	input := strings.Join([]string{
		`# recorded session`,
		`{"type":"press","button":"left","lat":45,"lon":7}`,
		``,
		`{"type":"move","lat":45.01,"lon":7.02}`,
		`{"type":"press","button":"right","lat":45.02,"lon":7.03}`,
		`{"type":"end"}`,
	}, "\n")
	r := NewEventReader(strings.NewReader(input))

	var events []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next error = %v", err)
		}
		events = append(events, ev)
	}
	if len(events) != 4 {
		t.Fatalf("read %d events, want 4", len(events))
	}
	if events[0].PressButton() != ButtonTrigger || events[2].PressButton() != ButtonOther {
		t.Fatalf("buttons = %v, %v", events[0].PressButton(), events[2].PressButton())
	}
	if events[1].Point().Lat != 45.01 {
		t.Fatalf("move point = %v", events[1].Point())
	}
}

func TestEventReaderReportsLine(t *testing.T) {
	r := NewEventReader(strings.NewReader("{\"type\":\"toggle\"}\n{not json}\n"))
	if _, err := r.Next(); err != nil {
		t.Fatalf("first Next error = %v", err)
	}
	_, err := r.Next()
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("Next error = %v, want line 2", err)
	}
}

func TestEventReaderMissingType(t *testing.T) {
	r := NewEventReader(strings.NewReader(`{"lat":1}`))
	if _, err := r.Next(); err == nil {
		t.Fatal("expected error for missing type")
	}
}

func TestReplaySession(t *testing.T) {
	p, _, rec := newTestPicker(t, "EPSG:4326")
	r := NewEventReader(strings.NewReader(strings.Join([]string{
		`{"type":"press","lat":45,"lon":7}`,
		`{"type":"move","lat":45.05,"lon":7.05}`,
		`{"type":"press","lat":45.05,"lon":7.05}`,
		`{"type":"press","lat":-33.8688,"lon":151.2093}`,
		`{"type":"end"}`,
	}, "\n")))
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next error = %v", err)
		}
		if err := p.Handle(ev); err != nil {
			t.Fatalf("Handle(%v) error = %v", ev, err)
		}
	}
	if len(rec.Boxes) != 2 {
		t.Fatalf("emitted %d boxes, want 2", len(rec.Boxes))
	}
	if rec.Boxes[0].ZoneNumber != 32 || rec.Boxes[1].ZoneNumber != 56 || rec.Boxes[1].ZoneLetter != "H" {
		t.Fatalf("zones = %v", rec.Boxes)
	}
}
