package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andyrewlee/boxpick/internal/geo"
	"github.com/andyrewlee/boxpick/internal/picker"
	"github.com/andyrewlee/boxpick/internal/utm"
)

type replayWarning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type replayResult struct {
	Source   string               `json:"source"`
	Events   int                  `json:"events"`
	Boxes    []picker.BoundingBox `json:"boxes"`
	Warnings []replayWarning      `json:"warnings,omitempty"`
	Armed    bool                 `json:"armed"`
}

func cmdReplay(w, wErr io.Writer, gf GlobalFlags, args []string, version string) int {
	const usage = "Usage: boxpick replay [--file events.ndjson] [--size-km N] [--rounding even|away] [--json]"
	fs := newFlagSet("replay")
	file := fs.String("file", "", "NDJSON event file (default stdin)")
	opts := boxOptions{}
	fs.Float64Var(&opts.sizeKm, "size-km", 0, "box edge in kilometres (default from config)")
	fs.StringVar(&opts.rounding, "rounding", "", "tie rounding: even or away (default from config)")
	if err := fs.Parse(args); err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}
	if err := rejectPositional(fs); err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}
	if flagWasSet(fs, "size-km") {
		if err := picker.ValidateEdgeKm(opts.sizeKm); err != nil {
			return returnUsageError(w, wErr, gf, usage, version, fmt.Errorf("--size-km: %w", err))
		}
	}

	source := "stdin"
	in := cliStdin
	if *file != "" && *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return returnFailure(w, wErr, gf, "file_not_found", err, map[string]any{"path": *file}, ExitNotFound, version)
			}
			return returnFailure(w, wErr, gf, "file_error", err, nil, ExitInternalError, version)
		}
		defer f.Close()
		source = *file
		in = f
	}

	cfg, err := loadConfig(gf)
	if err != nil {
		return returnConfigError(w, wErr, gf, err, version)
	}
	rec := &picker.Recorder{}
	emitters := picker.MultiEmitter{rec}
	if !gf.JSON {
		emitters = append(emitters, picker.NewJSONEmitter(w))
	}
	s, err := newSession(cfg, opts, emitters)
	if err != nil {
		return returnSessionError(w, wErr, gf, err, version)
	}
	defer s.Close()

	result := replayResult{Source: source}
	reader := picker.NewEventReader(in)
	for {
		ev, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return returnFailure(w, wErr, gf, "invalid_event", err, map[string]any{"line": reader.Line()}, ExitUsage, version)
		}
		result.Events++
		if err := s.picker.Handle(ev); err != nil {
			if !recoverable(err) {
				details := map[string]any{"line": reader.Line(), "type": ev.Type}
				return returnFailure(w, wErr, gf, "replay_failed", fmt.Errorf("line %d: %w", reader.Line(), err), details, ExitUsage, version)
			}
			result.Warnings = append(result.Warnings, replayWarning{Line: reader.Line(), Message: err.Error()})
			if !gf.JSON && !gf.Quiet {
				fmt.Fprintf(wErr, "Warning: line %d: %v\n", reader.Line(), err)
			}
		}
	}
	result.Boxes = rec.Boxes
	if result.Boxes == nil {
		result.Boxes = []picker.BoundingBox{}
	}
	result.Armed = s.picker.Armed()

	if gf.JSON {
		PrintJSON(w, result, version)
		return ExitOK
	}
	if !gf.Quiet {
		fmt.Fprintf(wErr, "Replayed %d events from %s, emitted %d boxes\n", result.Events, source, len(result.Boxes))
	}
	return ExitOK
}

// recoverable reports errors the interactive tool would shrug off: pointer
// positions outside the UTM domain and disarming before any box exists.
func recoverable(err error) bool {
	return errors.Is(err, utm.ErrOutOfRange) ||
		errors.Is(err, utm.ErrInvalidZone) ||
		errors.Is(err, geo.ErrInvalidPoint) ||
		errors.Is(err, picker.ErrNoBox)
}
