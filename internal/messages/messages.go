package messages

import (
	"github.com/andyrewlee/boxpick/internal/config"
	"github.com/andyrewlee/boxpick/internal/picker"
)

// Error is a recoverable error surfaced to the user as a toast.
type Error struct {
	Err     error
	Context string
	Logged  bool
}

func (e Error) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ConfigReloaded is sent when the config file changed and parsed cleanly.
type ConfigReloaded struct {
	Config *config.Config
}

// ConfigReloadFailed is sent when the changed config file is invalid; the
// previous configuration stays in effect.
type ConfigReloadFailed struct {
	Err error
}

// BoxEmitted is sent after the picker emitted a box.
type BoxEmitted struct {
	Box  picker.BoundingBox
	JSON string
}

// ClipboardCopied is sent when a clipboard write finished.
type ClipboardCopied struct {
	Err error
}

// OverlayExported is sent when a GeoJSON export finished.
type OverlayExported struct {
	Path string
	Err  error
}
