package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/term"

	"github.com/andyrewlee/boxpick/internal/app"
	"github.com/andyrewlee/boxpick/internal/cli"
	"github.com/andyrewlee/boxpick/internal/config"
	"github.com/andyrewlee/boxpick/internal/logging"
	"github.com/andyrewlee/boxpick/internal/picker"
	"github.com/andyrewlee/boxpick/internal/safego"
)

// Version info set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI subcommands that route to the headless CLI.
var cliCommands = map[string]bool{
	"bbox": true, "overlay": true, "utm": true, "replay": true,
	"config": true, "logs": true,
	"version": true, "help": true,
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("boxpick %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	inv, parseErr := classifyInvocation(os.Args[1:])
	if parseErr != nil {
		// Let the headless CLI render the canonical parse error response.
		os.Exit(cli.Run(os.Args[1:], version, commit, date))
	}

	if inv.sub != "" {
		if cliCommands[inv.sub] {
			os.Exit(cli.Run(os.Args[1:], version, commit, date))
		}
		if inv.sub == "tui" {
			os.Exit(runTUI(inv.configPath))
		}
		// Unknown argument: route through CLI for JSON-aware error handling.
		os.Exit(cli.Run(os.Args[1:], version, commit, date))
	}

	launchTUI := shouldLaunchTUI(
		term.IsTerminal(os.Stdin.Fd()),
		term.IsTerminal(os.Stdout.Fd()),
		term.IsTerminal(os.Stderr.Fd()),
	)
	if !launchTUI {
		os.Exit(cli.Run(os.Args[1:], version, commit, date))
	}
	os.Exit(runTUI(inv.configPath))
}

type invocation struct {
	sub        string
	configPath string
}

func classifyInvocation(args []string) (invocation, error) {
	gf, rest, err := cli.ParseGlobalFlags(args)
	if err != nil {
		return invocation{}, err
	}
	inv := invocation{configPath: gf.ConfigPath}
	if len(rest) > 0 {
		inv.sub = rest[0]
	}
	return inv, nil
}

// shouldLaunchTUI requires a terminal on every stream; emitted boxes go to
// stdout after the alt screen closes.
func shouldLaunchTUI(stdinIsTTY, stdoutIsTTY, stderrIsTTY bool) bool {
	return stdinIsTTY && stdoutIsTTY && stderrIsTTY
}

// loadTUIConfig never fails: an unreadable or invalid file falls back to the
// defaults and the reason is returned as a startup note.
func loadTUIConfig(configPath string) (*config.Config, []string) {
	paths, err := config.DefaultPaths()
	if err != nil {
		paths = config.PathsAt(".boxpick")
	}
	cfg, err := config.LoadFile(paths, configPath)
	if err == nil {
		return cfg, nil
	}
	if configPath != "" {
		copied := *paths
		copied.ConfigPath = configPath
		paths = &copied
	}
	return config.Defaults(paths), []string{fmt.Sprintf("Config ignored, using defaults: %v", err)}
}

func runTUI(configPath string) int {
	cfg, notes := loadTUIConfig(configPath)
	if err := cfg.Paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create %s: %v\n", cfg.Paths.Home, err)
	}
	if err := logging.Initialize(cfg.Paths.LogsRoot, logging.LevelDebug); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logging: %v\n", err)
	}
	defer logging.Close()

	logging.Info("Starting boxpick %s", version)
	for _, note := range notes {
		logging.Warn("%s", note)
	}

	startSignalDebug()

	a, err := app.New(app.Options{Config: cfg, Version: version, Notes: notes})
	if err != nil {
		logging.Error("Failed to initialize app: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing app: %v\n", err)
		return 1
	}
	startPprof()

	p := tea.NewProgram(
		a,
		tea.WithFilter(mouseEventFilter),
	)
	a.SetMsgSender(p.Send)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.StartConfigWatcher(ctx); err != nil {
		logging.Warn("Config hot reload disabled: %v", err)
	}

	_, runErr := p.Run()
	a.Shutdown()
	if err := flushEmitted(os.Stdout, a.Emitted()); err != nil {
		logging.Error("Failed to write emitted boxes: %v", err)
	}
	if runErr != nil {
		logging.Error("App exited with error: %v", runErr)
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", runErr)
		return 1
	}

	logging.Info("boxpick shutdown complete")
	return 0
}

// flushEmitted writes every box of the session in emission format.
func flushEmitted(w io.Writer, boxes []picker.BoundingBox) error {
	emitter := picker.NewJSONEmitter(w)
	for _, box := range boxes {
		if err := emitter.Emit(box); err != nil {
			return err
		}
	}
	return nil
}

var (
	lastMouseMotionEvent   time.Time
	lastMouseWheelEvent    time.Time
	lastMouseX, lastMouseY int
)

// mouseEventFilter drops repeated motion at the same cell and bursts of
// wheel events.
func mouseEventFilter(m tea.Model, msg tea.Msg) tea.Msg {
	switch msg := msg.(type) {
	case tea.MouseMotionMsg:
		if msg.X != lastMouseX || msg.Y != lastMouseY {
			lastMouseX = msg.X
			lastMouseY = msg.Y
			lastMouseMotionEvent = time.Now()
			return msg
		}
		now := time.Now()
		if now.Sub(lastMouseMotionEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseMotionEvent = now
	case tea.MouseWheelMsg:
		now := time.Now()
		if now.Sub(lastMouseWheelEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseWheelEvent = now
	}
	return msg
}

func pprofAddr(raw string) string {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "0", "false", "no":
		return ""
	case "1", "true":
		return "127.0.0.1:6060"
	}
	if _, err := strconv.Atoi(raw); err == nil {
		return "127.0.0.1:" + raw
	}
	return raw
}

func startPprof() {
	addr := pprofAddr(os.Getenv("BOXPICK_PPROF"))
	if addr == "" {
		return
	}
	safego.Go("pprof", func() {
		logging.Info("pprof listening on %s", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			logging.Warn("pprof server stopped: %v", err)
		}
	})
}
