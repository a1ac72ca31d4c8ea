package picker

import (
	"encoding/json"
	"errors"
	"io"
)

// JSONEmitter writes each box as an indented JSON object followed by a newline.
type JSONEmitter struct {
	W      io.Writer
	Indent string
}

// NewJSONEmitter writes to w with four-space indentation.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{W: w, Indent: "    "}
}

// Emit implements Emitter.
func (e *JSONEmitter) Emit(box BoundingBox) error {
	var (
		data []byte
		err  error
	)
	if e.Indent == "" {
		data, err = json.Marshal(box)
	} else {
		data, err = json.MarshalIndent(box, "", e.Indent)
	}
	if err != nil {
		return err
	}
	_, err = e.W.Write(append(data, '\n'))
	return err
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(BoundingBox) error

// Emit implements Emitter.
func (f EmitterFunc) Emit(box BoundingBox) error { return f(box) }

// MultiEmitter fans a box out to every emitter, joining their errors.
type MultiEmitter []Emitter

// Emit implements Emitter.
func (m MultiEmitter) Emit(box BoundingBox) error {
	var errs []error
	for _, e := range m {
		if e == nil {
			continue
		}
		if err := e.Emit(box); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every emitted box in order.
type Recorder struct {
	Boxes []BoundingBox
}

// Emit implements Emitter.
func (r *Recorder) Emit(box BoundingBox) error {
	r.Boxes = append(r.Boxes, box)
	return nil
}

// Last returns the most recent box.
func (r *Recorder) Last() (BoundingBox, bool) {
	if len(r.Boxes) == 0 {
		return BoundingBox{}, false
	}
	return r.Boxes[len(r.Boxes)-1], true
}
