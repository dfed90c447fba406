// Package bmconfig loads BlastMerge's small global TOML config file and
// overlays it onto a set of built-in defaults.
package bmconfig

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
	"github.com/ktsu-dev/blastmerge/internal/group"
)

// Color selects when ANSI styling is emitted.
type Color string

const (
	ColorAuto   Color = "auto"
	ColorAlways Color = "always"
	ColorNever  Color = "never"
)

// Config holds the on-disk defaults a CLI invocation falls back to when a
// flag isn't given explicitly.
type Config struct {
	Workers      int    `toml:"workers"`
	GroupMode    string `toml:"group_mode"`
	ContextLines int    `toml:"context_lines"`
	Color        Color  `toml:"color"`
}

// Default returns the built-in defaults applied before any config file or
// flag is consulted.
func Default() Config {
	return Config{
		Workers:      0, // 0 means "detected CPU count" to group.Options
		GroupMode:    "basename+hash",
		ContextLines: 3,
		Color:        ColorAuto,
	}
}

// Path resolves the config file location: BLASTMERGE_CONFIG if set,
// otherwise ~/.config/blastmerge/config.toml.
func Path() (string, error) {
	if p := os.Getenv("BLASTMERGE_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", bmerrors.IO("", err)
	}
	return filepath.Join(home, ".config", "blastmerge", "config.toml"), nil
}

// Load reads the config file, overlaying it onto Default(). A missing
// file is not an error: Default() is returned unchanged.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, err
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return cfg, nil
	}

	var onDisk Config
	if _, err := toml.DecodeFile(path, &onDisk); err != nil {
		return cfg, bmerrors.IO(path, err)
	}

	if onDisk.Workers != 0 {
		cfg.Workers = onDisk.Workers
	}
	if onDisk.GroupMode != "" {
		cfg.GroupMode = onDisk.GroupMode
	}
	if onDisk.ContextLines != 0 {
		cfg.ContextLines = onDisk.ContextLines
	}
	if onDisk.Color != "" {
		cfg.Color = onDisk.Color
	}
	return cfg, nil
}

// ResolvedGroupMode maps the config's string encoding to group.Mode.
func (c Config) ResolvedGroupMode() group.Mode {
	if c.GroupMode == "hash" {
		return group.ModeHashOnly
	}
	return group.ModeBasenameAndHash
}
