package config

import (
	"os"
	"path/filepath"
)

// Paths holds all the file system paths used by the application
type Paths struct {
	Home        string // ~/.boxpick
	ConfigPath  string // ~/.boxpick/config.json
	LogsRoot    string // ~/.boxpick/logs
	ExportsRoot string // ~/.boxpick/exports
}

// DefaultPaths returns the default paths configuration
func DefaultPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return PathsAt(filepath.Join(home, ".boxpick")), nil
}

// PathsAt lays out the application paths under root.
func PathsAt(root string) *Paths {
	return &Paths{
		Home:        root,
		ConfigPath:  filepath.Join(root, "config.json"),
		LogsRoot:    filepath.Join(root, "logs"),
		ExportsRoot: filepath.Join(root, "exports"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Home,
		p.LogsRoot,
		p.ExportsRoot,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}
