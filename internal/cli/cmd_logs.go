package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andyrewlee/boxpick/internal/config"
	"github.com/andyrewlee/boxpick/internal/logging"
)

type logsResult struct {
	Path  string   `json:"path"`
	Lines []string `json:"lines"`
	Count int      `json:"count"`
}

func cmdLogs(w, wErr io.Writer, gf GlobalFlags, args []string, version string) int {
	const usage = "Usage: boxpick logs tail [--lines N] [--json]"
	if len(args) == 0 || args[0] != "tail" {
		return returnUsageError(w, wErr, gf, usage, version, nil)
	}

	fs := newFlagSet("logs tail")
	lines := fs.Int("lines", 50, "number of lines to tail")
	if err := fs.Parse(args[1:]); err != nil {
		return returnUsageError(w, wErr, gf, usage, version, err)
	}
	if *lines < 0 {
		if gf.JSON {
			ReturnError(w, "invalid_lines", "--lines must be >= 0", map[string]any{"lines": *lines}, version)
		} else {
			Errorf(wErr, "--lines must be >= 0")
		}
		return ExitUsage
	}

	logPath := logging.GetLogPath()
	if logPath == "" {
		logPath = findLatestLogFile()
	}
	if logPath == "" {
		return returnFailure(w, wErr, gf, "log_not_found", fmt.Errorf("no boxpick log files found"), nil, ExitNotFound, version)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		if gf.JSON {
			ReturnError(w, "log_not_found", fmt.Sprintf("cannot read log: %v", err), nil, version)
		} else {
			Errorf(wErr, "cannot read log file: %v", err)
		}
		return ExitNotFound
	}

	var allLines []string
	if len(content) > 0 {
		allLines = strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	}
	start := 0
	if len(allLines) > *lines {
		start = len(allLines) - *lines
	}
	tail := allLines[start:]
	if tail == nil {
		tail = []string{}
	}

	if gf.JSON {
		PrintJSON(w, logsResult{Path: logPath, Lines: tail, Count: len(tail)}, version)
		return ExitOK
	}

	PrintHuman(w, func(w io.Writer) {
		for _, line := range tail {
			fmt.Fprintln(w, line)
		}
	})
	return ExitOK
}

// findLatestLogFile locates the most recent boxpick-*.log in ~/.boxpick/logs.
func findLatestLogFile() string {
	paths, err := config.DefaultPaths()
	if err != nil {
		return ""
	}
	entries, err := os.ReadDir(paths.LogsRoot)
	if err != nil {
		return ""
	}
	var logs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		// boxpick-YYYY-MM-DD.log
		if strings.HasPrefix(name, "boxpick-") && strings.HasSuffix(name, ".log") && len(name) == 22 {
			logs = append(logs, name)
		}
	}
	if len(logs) == 0 {
		return ""
	}
	sort.Strings(logs)
	return filepath.Join(paths.LogsRoot, logs[len(logs)-1])
}
