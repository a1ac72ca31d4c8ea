package keymap

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/andyrewlee/boxpick/internal/config"
)

// Action identifies a configurable keybinding.
type Action string

const (
	ActionToggleArm Action = "toggle_arm"
	ActionEnd       Action = "end"

	ActionCursorLeft  Action = "cursor_left"
	ActionCursorRight Action = "cursor_right"
	ActionCursorUp    Action = "cursor_up"
	ActionCursorDown  Action = "cursor_down"

	ActionPanLeft  Action = "pan_left"
	ActionPanRight Action = "pan_right"
	ActionPanUp    Action = "pan_up"
	ActionPanDown  Action = "pan_down"
	ActionZoomIn   Action = "zoom_in"
	ActionZoomOut  Action = "zoom_out"
	ActionRecenter Action = "recenter"

	ActionCopy      Action = "copy"
	ActionExport    Action = "export"
	ActionGraticule Action = "graticule"
	ActionHelp      Action = "help"
	ActionQuit      Action = "quit"
)

type bindingDef struct {
	action Action
	keys   []string
	desc   string
}

// KeyMap defines all keybindings for the application.
type KeyMap struct {
	ToggleArm key.Binding
	End       key.Binding

	CursorLeft  key.Binding
	CursorRight key.Binding
	CursorUp    key.Binding
	CursorDown  key.Binding

	PanLeft  key.Binding
	PanRight key.Binding
	PanUp    key.Binding
	PanDown  key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Recenter key.Binding

	Copy      key.Binding
	Export    key.Binding
	Graticule key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var defaults = []bindingDef{
	{ActionToggleArm, []string{"space"}, "arm/disarm"},
	{ActionEnd, []string{"enter"}, "finish box"},
	{ActionCursorLeft, []string{"left", "h"}, "cursor left"},
	{ActionCursorRight, []string{"right", "l"}, "cursor right"},
	{ActionCursorUp, []string{"up", "k"}, "cursor up"},
	{ActionCursorDown, []string{"down", "j"}, "cursor down"},
	{ActionPanLeft, []string{"shift+left", "H"}, "pan left"},
	{ActionPanRight, []string{"shift+right", "L"}, "pan right"},
	{ActionPanUp, []string{"shift+up", "K"}, "pan up"},
	{ActionPanDown, []string{"shift+down", "J"}, "pan down"},
	{ActionZoomIn, []string{"+", "="}, "zoom in"},
	{ActionZoomOut, []string{"-", "_"}, "zoom out"},
	{ActionRecenter, []string{"c"}, "center on cursor"},
	{ActionCopy, []string{"y"}, "copy box"},
	{ActionExport, []string{"e"}, "export geojson"},
	{ActionGraticule, []string{"g"}, "toggle grid"},
	{ActionHelp, []string{"?"}, "help"},
	{ActionQuit, []string{"q", "ctrl+c"}, "quit"},
}

// New builds a keymap from defaults, applying any user overrides.
func New(cfg config.KeyMapConfig) KeyMap {
	var km KeyMap
	for _, def := range defaults {
		*km.slot(def.action) = bindingFromDef(cfg, def)
	}
	return km
}

func (km *KeyMap) slot(action Action) *key.Binding {
	switch action {
	case ActionToggleArm:
		return &km.ToggleArm
	case ActionEnd:
		return &km.End
	case ActionCursorLeft:
		return &km.CursorLeft
	case ActionCursorRight:
		return &km.CursorRight
	case ActionCursorUp:
		return &km.CursorUp
	case ActionCursorDown:
		return &km.CursorDown
	case ActionPanLeft:
		return &km.PanLeft
	case ActionPanRight:
		return &km.PanRight
	case ActionPanUp:
		return &km.PanUp
	case ActionPanDown:
		return &km.PanDown
	case ActionZoomIn:
		return &km.ZoomIn
	case ActionZoomOut:
		return &km.ZoomOut
	case ActionRecenter:
		return &km.Recenter
	case ActionCopy:
		return &km.Copy
	case ActionExport:
		return &km.Export
	case ActionGraticule:
		return &km.Graticule
	case ActionHelp:
		return &km.Help
	case ActionQuit:
		return &km.Quit
	default:
		return nil
	}
}

func bindingFromDef(cfg config.KeyMapConfig, def bindingDef) key.Binding {
	keys, ok := cfg.BindingFor(string(def.action))
	if !ok || len(keys) == 0 {
		keys = def.keys
	}
	helpKey := strings.Join(keys, "/")
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey, def.desc),
	)
}

// PrimaryKey returns the first key in the binding, if present.
func PrimaryKey(binding key.Binding) string {
	keys := binding.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// BindingHint returns a single key hint for a binding, falling back to help text.
func BindingHint(binding key.Binding) string {
	key := PrimaryKey(binding)
	if key == "" {
		return binding.Help().Key
	}
	return key
}

// SequenceHint joins multiple bindings with slashes using their primary keys.
func SequenceHint(bindings ...key.Binding) string {
	var keys []string
	for _, binding := range bindings {
		key := BindingHint(binding)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return strings.Join(keys, "/")
}

// ActionInfo describes a configurable action for UI display.
type ActionInfo struct {
	Action Action
	Desc   string
	Group  string
}

// ActionInfos returns the ordered list of actions for the help overlay.
func ActionInfos() []ActionInfo {
	return []ActionInfo{
		{Action: ActionToggleArm, Desc: "Arm or disarm the picker", Group: "Picker"},
		{Action: ActionEnd, Desc: "Finish and emit the box", Group: "Picker"},
		{Action: ActionCursorLeft, Desc: "Move cursor left", Group: "Cursor"},
		{Action: ActionCursorRight, Desc: "Move cursor right", Group: "Cursor"},
		{Action: ActionCursorUp, Desc: "Move cursor up", Group: "Cursor"},
		{Action: ActionCursorDown, Desc: "Move cursor down", Group: "Cursor"},
		{Action: ActionPanLeft, Desc: "Pan west", Group: "Map"},
		{Action: ActionPanRight, Desc: "Pan east", Group: "Map"},
		{Action: ActionPanUp, Desc: "Pan north", Group: "Map"},
		{Action: ActionPanDown, Desc: "Pan south", Group: "Map"},
		{Action: ActionZoomIn, Desc: "Zoom in", Group: "Map"},
		{Action: ActionZoomOut, Desc: "Zoom out", Group: "Map"},
		{Action: ActionRecenter, Desc: "Center map on cursor", Group: "Map"},
		{Action: ActionGraticule, Desc: "Toggle graticule", Group: "Map"},
		{Action: ActionCopy, Desc: "Copy last box as JSON", Group: "Output"},
		{Action: ActionExport, Desc: "Export overlay as GeoJSON", Group: "Output"},
		{Action: ActionHelp, Desc: "Toggle help", Group: "Global"},
		{Action: ActionQuit, Desc: "Quit", Group: "Global"},
	}
}

// BindingForAction returns the binding for the given action.
func BindingForAction(km KeyMap, action Action) key.Binding {
	if b := km.slot(action); b != nil {
		return *b
	}
	return key.Binding{}
}
