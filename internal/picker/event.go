package picker

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/andyrewlee/boxpick/internal/geo"
)

// EventType names an abstract pointer event.
type EventType string

const (
	EventPress  EventType = "press"
	EventMove   EventType = "move"
	EventToggle EventType = "toggle"
	EventEnd    EventType = "end"
)

// Event is one pointer event as recorded in a replay stream, for example
// {"type":"press","button":"left","lat":45,"lon":7}.
type Event struct {
	Type   EventType `json:"type"`
	Button string    `json:"button,omitempty"`
	Lat    float64   `json:"lat,omitempty"`
	Lon    float64   `json:"lon,omitempty"`
}

// Point returns the event position.
func (e Event) Point() geo.Point { return geo.Point{Lat: e.Lat, Lon: e.Lon} }

// PressButton maps the recorded button name to a Button. An empty name and
// "left" are the trigger.
func (e Event) PressButton() Button {
	switch strings.ToLower(e.Button) {
	case "", "left", "trigger":
		return ButtonTrigger
	default:
		return ButtonOther
	}
}

// Handle dispatches e to the matching operation.
func (p *Picker) Handle(e Event) error {
	switch e.Type {
	case EventPress:
		return p.Press(e.PressButton(), e.Point())
	case EventMove:
		return p.Move(e.Point())
	case EventToggle:
		return p.Toggle()
	case EventEnd:
		return p.End()
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
}

// EventReader decodes newline-delimited JSON events. Blank lines and lines
// starting with '#' are skipped.
type EventReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewEventReader reads events from r.
func NewEventReader(r io.Reader) *EventReader {
	return &EventReader{scanner: bufio.NewScanner(r)}
}

// Next returns the next event, or io.EOF when the stream is exhausted.
func (r *EventReader) Next() (Event, error) {
	for r.scanner.Scan() {
		r.line++
		raw := bytes.TrimSpace(r.scanner.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return Event{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		if ev.Type == "" {
			return Event{}, fmt.Errorf("line %d: missing event type", r.line)
		}
		return ev, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// Line returns the line number of the last event read.
func (r *EventReader) Line() int { return r.line }
