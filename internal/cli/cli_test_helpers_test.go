package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI runs Run with captured streams. Callers isolate HOME first with
// isolateHome or writeHomeConfig.
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("BOXPICK_LOG", "")

	var stdout, stderr bytes.Buffer
	origIn, origOut, origErr := cliStdin, cliStdout, cliStderr
	cliStdin = strings.NewReader(stdin)
	cliStdout = &stdout
	cliStderr = &stderr
	defer func() {
		cliStdin, cliStdout, cliStderr = origIn, origOut, origErr
	}()

	code := Run(args, "test-v1", "test-commit", "test-date")
	return code, stdout.String(), stderr.String()
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

// writeHomeConfig isolates HOME and writes ~/.boxpick/config.json.
func writeHomeConfig(t *testing.T, body string) string {
	t.Helper()
	home := isolateHome(t)
	dir := filepath.Join(home, ".boxpick")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func decodeEnvelope(t *testing.T, raw string) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("json.Unmarshal() error = %v\nraw: %s", err, raw)
	}
	return env
}

func requireErrorCode(t *testing.T, env Envelope, code string) {
	t.Helper()
	if env.OK {
		t.Fatalf("expected ok=false")
	}
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("expected %s, got %#v", code, env.Error)
	}
}
