package cli

import (
	"fmt"
	"io"
	"os"
)

// GlobalFlags holds flags that apply to all subcommands.
type GlobalFlags struct {
	JSON       bool
	NoColor    bool
	Quiet      bool
	ConfigPath string
}

// Standard streams, swapped in tests.
var (
	cliStdin  io.Reader = os.Stdin
	cliStdout io.Writer = os.Stdout
	cliStderr io.Writer = os.Stderr
)

const rootUsage = "Usage: boxpick <command> [flags]"

// Run is the CLI entry point. Returns an exit code.
func Run(args []string, version, commit, date string) int {
	gf, rest, err := ParseGlobalFlags(args)
	w := cliStdout
	wErr := cliStderr
	setResponseCommand(commandFromArgs(rest))
	defer clearResponseCommand()
	if err != nil {
		if parseErrorWantsJSON(args, gf) {
			ReturnError(w, "usage_error", err.Error(), nil, version)
		} else {
			Errorf(wErr, "%v", err)
		}
		return ExitUsage
	}
	closeLog := initHeadlessLogging(wErr)
	defer closeLog()

	if len(rest) == 0 {
		if gf.JSON {
			ReturnError(w, "usage_error", rootUsage, nil, version)
		} else {
			PrintUsage(wErr)
		}
		return ExitUsage
	}

	cmd := rest[0]
	cmdArgs := rest[1:]

	switch cmd {
	case "bbox":
		return cmdBBox(w, wErr, gf, cmdArgs, version)
	case "overlay":
		return cmdOverlay(w, wErr, gf, cmdArgs, version)
	case "utm":
		return routeUTM(w, wErr, gf, cmdArgs, version)
	case "replay":
		return cmdReplay(w, wErr, gf, cmdArgs, version)
	case "config":
		return cmdConfig(w, wErr, gf, cmdArgs, version)
	case "logs":
		return cmdLogs(w, wErr, gf, cmdArgs, version)
	case "version":
		if gf.JSON {
			PrintJSON(w, map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
			}, version)
			return ExitOK
		}
		fmt.Fprintf(w, "boxpick %s (commit: %s, built: %s)\n", version, commit, date)
		return ExitOK
	case "help":
		if gf.JSON {
			PrintJSON(w, map[string]string{
				"usage": usageText(),
			}, version)
			return ExitOK
		}
		PrintUsage(w)
		return ExitOK
	default:
		if gf.JSON {
			ReturnError(w, "unknown_command", "Unknown command: "+cmd, nil, version)
		} else {
			fmt.Fprintf(wErr, "Unknown command: %s\n\n", cmd)
			PrintUsage(wErr)
		}
		return ExitUsage
	}
}

func routeUTM(w, wErr io.Writer, gf GlobalFlags, args []string, version string) int {
	const usage = "Usage: boxpick utm <forward|inverse> [flags]"
	if len(args) == 0 {
		return returnUsageError(w, wErr, gf, usage, version, nil)
	}
	sub := args[0]
	subArgs := args[1:]
	switch sub {
	case "forward", "fwd":
		return cmdUTMForward(w, wErr, gf, subArgs, version)
	case "inverse", "inv":
		return cmdUTMInverse(w, wErr, gf, subArgs, version)
	default:
		if gf.JSON {
			ReturnError(w, "unknown_command", "Unknown utm subcommand: "+sub, nil, version)
		} else {
			fmt.Fprintf(wErr, "Unknown utm subcommand: %s\n", sub)
		}
		return ExitUsage
	}
}

// PrintUsage writes CLI help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText())
}

func usageText() string {
	return rootUsage + `

Commands:
  bbox                Compute the UTM box around --lat/--lon
  overlay             Print the box overlay as GeoJSON
  utm forward         Project --lat/--lon to UTM
  utm inverse         Convert --easting/--northing/--zone/--letter to WGS84
  replay              Replay NDJSON pointer events from --file or stdin
  config show         Print the effective configuration
  logs tail           Tail the boxpick log file
  version             Print version info
  help                Show this help
  tui                 Launch TUI (default when TTY)

Global Flags:
  --json              Output as JSON envelope
  --no-color          Disable color output
  --quiet, -q         Suppress non-essential output
  --config <path>     Read configuration from path

Environment:
  BOXPICK_LOG         stderr or file: enable logging for headless commands
  BOXPICK_LOG_LEVEL   debug, info, warn or error (default info)
`
}

func commandFromArgs(args []string) string {
	if len(args) == 0 {
		return ""
	}
	cmd := args[0]
	if len(args) < 2 {
		return cmd
	}
	switch cmd {
	case "utm", "logs", "config":
		return cmd + " " + args[1]
	default:
		return cmd
	}
}
