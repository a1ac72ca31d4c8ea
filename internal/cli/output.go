package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Envelope wraps all --json responses.
type Envelope struct {
	OK            bool       `json:"ok"`
	Data          any        `json:"data"`
	Error         *ErrorInfo `json:"error"`
	Meta          Meta       `json:"meta"`
	SchemaVersion string     `json:"schema_version"`
	Command       string     `json:"command,omitempty"`
}

// ErrorInfo describes an error in the JSON envelope.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Meta contains response metadata.
type Meta struct {
	GeneratedAt    string `json:"generated_at"`
	BoxpickVersion string `json:"boxpick_version"`
}

const EnvelopeSchemaVersion = "boxpick.cli.v1"

// Exit codes.
const (
	ExitOK            = 0
	ExitUsage         = 2
	ExitNotFound      = 3
	ExitDependency    = 4
	ExitInternalError = 1
)

type responseContext struct {
	mu      sync.RWMutex
	command string
}

var cliResponseContext responseContext

// timeNow is swapped in tests.
var timeNow = time.Now

func newMeta(version string) Meta {
	return Meta{
		GeneratedAt:    timeNow().UTC().Format(time.RFC3339),
		BoxpickVersion: version,
	}
}

func setResponseCommand(command string) {
	cliResponseContext.mu.Lock()
	defer cliResponseContext.mu.Unlock()
	cliResponseContext.command = command
}

func clearResponseCommand() {
	setResponseCommand("")
}

func currentResponseCommand() string {
	cliResponseContext.mu.RLock()
	defer cliResponseContext.mu.RUnlock()
	return cliResponseContext.command
}

func successEnvelope(data any, version string) Envelope {
	return Envelope{
		OK:            true,
		Data:          data,
		Meta:          newMeta(version),
		SchemaVersion: EnvelopeSchemaVersion,
		Command:       currentResponseCommand(),
	}
}

func errorEnvelope(code, message string, details any, version string) Envelope {
	return Envelope{
		OK: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta:          newMeta(version),
		SchemaVersion: EnvelopeSchemaVersion,
		Command:       currentResponseCommand(),
	}
}

func writeEnvelope(w io.Writer, env Envelope) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		fallback := []byte(`{"ok":false,"error":{"code":"encode_failed","message":"failed to encode response"},"data":null}` + "\n")
		_, _ = w.Write(fallback)
		return
	}
	_, _ = w.Write(append(data, '\n'))
}

// PrintJSON writes a success envelope to w.
func PrintJSON(w io.Writer, data any, version string) {
	writeEnvelope(w, successEnvelope(data, version))
}

// ReturnError writes an error envelope to w.
func ReturnError(w io.Writer, code, message string, details any, version string) {
	writeEnvelope(w, errorEnvelope(code, message, details, version))
}

// PrintHuman calls fn to produce human-readable output.
func PrintHuman(w io.Writer, fn func(io.Writer)) {
	fn(w)
}

// Errorf prints a human-readable error to w.
func Errorf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Error: "+format+"\n", args...)
}
