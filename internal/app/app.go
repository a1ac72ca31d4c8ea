// Package app is the interactive terminal front end: a map canvas driven by
// the mouse and keyboard that feeds pointer events to the box picker.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	tea "charm.land/bubbletea/v2"
	zone "github.com/lrstanley/bubblezone"

	"github.com/andyrewlee/boxpick/internal/config"
	"github.com/andyrewlee/boxpick/internal/geo"
	"github.com/andyrewlee/boxpick/internal/keymap"
	"github.com/andyrewlee/boxpick/internal/logging"
	"github.com/andyrewlee/boxpick/internal/messages"
	"github.com/andyrewlee/boxpick/internal/overlay"
	"github.com/andyrewlee/boxpick/internal/perf"
	"github.com/andyrewlee/boxpick/internal/picker"
	"github.com/andyrewlee/boxpick/internal/safego"
	"github.com/andyrewlee/boxpick/internal/ui/canvas"
	"github.com/andyrewlee/boxpick/internal/ui/common"
	"github.com/andyrewlee/boxpick/internal/utm"
)

// Rows reserved around the canvas: toolbar above, status and footer below.
const (
	toolbarRows = 1
	chromeRows  = 3
)

// Options configures the App.
type Options struct {
	Config  *config.Config
	Version string
	// Clipboard overrides the system clipboard writer.
	Clipboard func(string) error
	// Now overrides the clock used for export file names.
	Now func() time.Time
	// Notes are shown as warning toasts on start.
	Notes []string
}

// App is the root bubbletea model.
type App struct {
	cfg     *config.Config
	version string
	keymap  keymap.KeyMap
	styles  common.Styles

	picker    *picker.Picker
	projector utm.Projector
	layer     *overlay.Layer
	history   *picker.Recorder

	canvas *canvas.Model
	toast  *common.ToastModel
	zone   *zone.Manager

	width, height int
	ready         bool
	quitting      bool
	showHelp      bool

	lastJSON     string
	pointerErr   error
	layerRev     uint64
	startupNotes []string

	clipboard func(string) error
	now       func() time.Time

	msgSender   func(tea.Msg)
	watcher     *config.Watcher
	stopWatcher context.CancelFunc
}

// New builds the application from cfg.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.DefaultConfig()
		if err != nil {
			return nil, err
		}
	}

	a := &App{
		cfg:       cfg,
		version:   opts.Version,
		keymap:    keymap.New(cfg.KeyMap),
		styles:    common.DefaultStyles(),
		layer:     overlay.New(overlay.DefaultName),
		history:   &picker.Recorder{},
		canvas:    canvas.New(geo.Point{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon}, cfg.Map.DegreesPerCell),
		toast:     common.NewToastModel(),
		zone:      zone.New(),
		showHelp:  cfg.UI.ShowKeymapHints,
		clipboard: opts.Clipboard,
		now:       opts.Now,

		startupNotes: append([]string(nil), opts.Notes...),
	}
	if a.clipboard == nil {
		a.clipboard = common.CopyToClipboard
	}
	if a.now == nil {
		a.now = time.Now
	}
	a.canvas.SetGraticule(cfg.UI.ShowGraticule)

	projector, err := utm.NewProjector(cfg.Projection)
	if err != nil {
		logging.Warn("Projection backend %q unavailable, using series: %v", cfg.Projection, err)
		a.startupNotes = append(a.startupNotes, fmt.Sprintf("Projection %q unavailable; using series", cfg.Projection))
		projector = utm.Series{}
	}

	p, err := picker.New(picker.Options{
		EdgeKm:    cfg.BoxSizeKm,
		CRS:       cfg.ProjectCRS,
		Rounding:  cfg.RoundingMode(),
		Projector: projector,
		Overlay:   a.layer,
		Emitter:   picker.MultiEmitter{a.history, picker.EmitterFunc(a.recordJSON)},
	})
	if err != nil {
		return nil, err
	}
	a.picker = p
	a.projector = projector
	a.syncCanvas()
	return a, nil
}

// Init initializes the application.
func (a *App) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, note := range a.startupNotes {
		cmds = append(cmds, a.toast.ShowWarning(note))
	}
	return common.SafeBatch(cmds...)
}

// SetMsgSender wires the program's Send so background watchers can post
// messages into the update loop.
func (a *App) SetMsgSender(send func(tea.Msg)) { a.msgSender = send }

// StartConfigWatcher reloads the config file on change until Shutdown.
func (a *App) StartConfigWatcher(ctx context.Context) error {
	if a.cfg.Paths == nil || a.cfg.Paths.ConfigPath == "" {
		return errors.New("no config path to watch")
	}
	path := a.cfg.Paths.ConfigPath
	paths := a.cfg.Paths
	w, err := config.NewWatcher(path, func() {
		cfg, err := config.LoadFile(paths, path)
		if err != nil {
			a.send(messages.ConfigReloadFailed{Err: err})
			return
		}
		a.send(messages.ConfigReloaded{Config: cfg})
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	a.watcher = w
	a.stopWatcher = cancel
	safego.GoContext(ctx, "config-watcher", w.Run)
	return nil
}

func (a *App) send(msg tea.Msg) {
	if a.msgSender != nil {
		a.msgSender(msg)
	}
}

// Shutdown stops background work.
func (a *App) Shutdown() {
	if a.stopWatcher != nil {
		a.stopWatcher()
	}
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.zone != nil {
		a.zone.Close()
	}
	if c, ok := a.projector.(io.Closer); ok {
		_ = c.Close()
	}
	perf.Default().Flush("shutdown")
}

// Emitted returns every box emitted during the session, oldest first.
func (a *App) Emitted() []picker.BoundingBox {
	return append([]picker.BoundingBox(nil), a.history.Boxes...)
}

// Picker exposes the picker for status queries.
func (a *App) Picker() *picker.Picker { return a.picker }

func (a *App) recordJSON(box picker.BoundingBox) error {
	data, err := json.MarshalIndent(box, "", "    ")
	if err != nil {
		return err
	}
	a.lastJSON = string(data)
	return nil
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer perf.Default().Time("app.update")()
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.canvas.SetSize(msg.Width, max(msg.Height-chromeRows, 0))
		a.ready = true
	case tea.KeyPressMsg:
		cmd = a.handleKey(msg)
	case tea.MouseClickMsg:
		cmd = a.handleMouseClick(msg)
	case tea.MouseMotionMsg:
		cmd = a.handleMouseMotion(msg)
	case tea.MouseWheelMsg:
		if a.inCanvas(msg.X, msg.Y) {
			local := msg
			local.Y -= toolbarRows
			a.canvas.Update(local)
		}
	case common.ToastDismissed:
		a.toast.Update(msg)
	case messages.ConfigReloaded:
		cmd = a.applyConfig(msg.Config)
	case messages.ConfigReloadFailed:
		logging.Warn("Config reload failed: %v", msg.Err)
		cmd = a.toast.ShowError("Config not reloaded: " + msg.Err.Error())
	case messages.BoxEmitted:
		cmd = a.toast.ShowSuccess("Emitted " + msg.Box.String())
	case messages.ClipboardCopied:
		if msg.Err != nil {
			logging.Warn("Clipboard copy failed: %v", msg.Err)
			cmd = a.toast.ShowError("Copy failed: " + msg.Err.Error())
		} else {
			cmd = a.toast.ShowSuccess("Box JSON copied")
		}
	case messages.OverlayExported:
		if msg.Err != nil {
			logging.Warn("Overlay export failed: %v", msg.Err)
			cmd = a.toast.ShowError("Export failed: " + msg.Err.Error())
		} else {
			logging.Info("Exported overlay to %s", msg.Path)
			cmd = a.toast.ShowSuccess("Exported " + msg.Path)
		}
	case messages.Error:
		if !msg.Logged {
			logging.Error("%v", msg)
		}
		cmd = a.toast.ShowError(msg.Error())
	}
	a.syncCanvas()
	return a, cmd
}

// syncCanvas pushes picker and layer state into the canvas.
func (a *App) syncCanvas() {
	a.canvas.SetState(a.picker.Armed(), a.picker.Disabled())
	if rev := a.layer.Revision(); rev != a.layerRev {
		a.layerRev = rev
		if feats := a.layer.Features(); len(feats) > 0 {
			a.canvas.SetRing(feats[0][0])
		} else {
			a.canvas.SetRing(nil)
		}
	}
}

// applyConfig hot-reloads the settings that can change mid-session.
func (a *App) applyConfig(cfg *config.Config) tea.Cmd {
	if cfg == nil {
		return nil
	}
	if err := a.picker.SetEdgeKm(cfg.BoxSizeKm); err != nil {
		return a.toast.ShowError(err.Error())
	}
	a.picker.SetRounding(cfg.RoundingMode())
	a.keymap = keymap.New(cfg.KeyMap)

	note := fmt.Sprintf("Config reloaded: %g km box, %s rounding", cfg.BoxSizeKm, cfg.RoundingMode())
	if geo.IsWGS84(cfg.ProjectCRS) == a.picker.Disabled() {
		note += "; project_crs applies on restart"
	}
	cfg.Paths = a.cfg.Paths
	cfg.UI = a.cfg.UI
	a.cfg = cfg
	logging.Info("%s", note)
	return a.toast.ShowInfo(note)
}

// pickerResult turns picker errors into user feedback and reports new emissions.
func (a *App) pickerResult(before int, err error) tea.Cmd {
	var cmds []tea.Cmd
	switch {
	case err == nil:
		a.pointerErr = nil
	case errors.Is(err, picker.ErrNoBox):
		cmds = append(cmds, a.toast.ShowWarning("No box to emit yet"))
	case errors.Is(err, utm.ErrOutOfRange), errors.Is(err, utm.ErrInvalidZone), errors.Is(err, geo.ErrInvalidPoint):
		a.pointerErr = err
	default:
		logging.Error("Picker error: %v", err)
		cmds = append(cmds, a.toast.ShowError(err.Error()))
	}
	if len(a.history.Boxes) > before {
		box := a.history.Boxes[len(a.history.Boxes)-1]
		text := a.lastJSON
		cmds = append(cmds, func() tea.Msg { return messages.BoxEmitted{Box: box, JSON: text} })
	}
	return common.SafeBatch(cmds...)
}
