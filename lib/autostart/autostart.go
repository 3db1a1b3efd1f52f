// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

// Package autostart registers Hydra to start with the user's desktop
// session.
//
// The OS registration is the source of truth for whether Hydra starts
// at login. Users can remove or disable the entry from their desktop
// environment's session settings without Hydra knowing, so callers
// compare [Manager.IsEnabled] against their own records and defer to
// it.
package autostart

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hydra-tracker/hydra/lib/atomicfile"
)

// Manager reads and toggles the OS autostart registration.
type Manager interface {
	IsEnabled(ctx context.Context) (bool, error)
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
}

// entryName is the desktop entry file name inside the autostart
// directory.
const entryName = "hydra.desktop"

// DesktopEntry manages an XDG autostart entry
// ($XDG_CONFIG_HOME/autostart/hydra.desktop).
type DesktopEntry struct {
	directory  string
	executable string
	arguments  []string
	logger     *slog.Logger
}

// DesktopEntryConfig holds the parameters for NewDesktopEntry.
type DesktopEntryConfig struct {
	// Directory is the autostart directory. Defaults to
	// $XDG_CONFIG_HOME/autostart, falling back to ~/.config/autostart.
	Directory string

	// Executable is the absolute path launched at login. Defaults to
	// the running binary.
	Executable string

	// Arguments follow the executable on the Exec line. Hydra passes
	// "serve --hidden" so the session starts only the daemon.
	Arguments []string

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// NewDesktopEntry resolves defaults and returns a manager. It does not
// touch the filesystem.
func NewDesktopEntry(cfg DesktopEntryConfig) (*DesktopEntry, error) {
	directory := cfg.Directory
	if directory == "" {
		configHome, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("autostart: locating config directory: %w", err)
		}
		directory = filepath.Join(configHome, "autostart")
	}

	executable := cfg.Executable
	if executable == "" {
		path, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("autostart: locating executable: %w", err)
		}
		executable = path
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &DesktopEntry{
		directory:  directory,
		executable: executable,
		arguments:  cfg.Arguments,
		logger:     logger,
	}, nil
}

// Path returns the desktop entry file path.
func (d *DesktopEntry) Path() string {
	return filepath.Join(d.directory, entryName)
}

// IsEnabled reports whether the entry exists and has not been switched
// off by the desktop environment (Hidden=true, or
// X-GNOME-Autostart-enabled=false).
func (d *DesktopEntry) IsEnabled(ctx context.Context) (bool, error) {
	data, err := os.ReadFile(d.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("autostart: reading %s: %w", d.Path(), err)
	}
	return !disabledByDesktop(data), nil
}

// Enable writes the desktop entry, replacing any existing one.
func (d *DesktopEntry) Enable(ctx context.Context) error {
	if err := os.MkdirAll(d.directory, 0o755); err != nil {
		return fmt.Errorf("autostart: creating %s: %w", d.directory, err)
	}
	if err := atomicfile.WriteFile(d.Path(), d.render(), 0o644); err != nil {
		return fmt.Errorf("autostart: %w", err)
	}
	d.logger.Info("autostart enabled", "path", d.Path())
	return nil
}

// Disable removes the desktop entry. Removing an absent entry succeeds.
func (d *DesktopEntry) Disable(ctx context.Context) error {
	if err := atomicfile.Remove(d.Path()); err != nil {
		return fmt.Errorf("autostart: %w", err)
	}
	d.logger.Info("autostart disabled", "path", d.Path())
	return nil
}

func (d *DesktopEntry) render() []byte {
	fields := make([]string, 0, 1+len(d.arguments))
	fields = append(fields, quoteExecArgument(d.executable))
	for _, argument := range d.arguments {
		fields = append(fields, quoteExecArgument(argument))
	}

	var buffer bytes.Buffer
	buffer.WriteString("[Desktop Entry]\n")
	buffer.WriteString("Type=Application\n")
	buffer.WriteString("Name=Hydra\n")
	buffer.WriteString("Comment=Water intake tracker\n")
	fmt.Fprintf(&buffer, "Exec=%s\n", strings.Join(fields, " "))
	buffer.WriteString("Terminal=false\n")
	buffer.WriteString("X-GNOME-Autostart-enabled=true\n")
	return buffer.Bytes()
}

// quoteExecArgument applies the Desktop Entry Exec quoting rules:
// arguments with reserved characters are double-quoted, and inside
// quotes the characters ", `, $ and \ are backslash-escaped.
func quoteExecArgument(argument string) string {
	if argument != "" && !strings.ContainsAny(argument, " \t\n\"'\\><~|&;$*?#()`=%") {
		return argument
	}
	var builder strings.Builder
	builder.WriteByte('"')
	for _, r := range argument {
		switch r {
		case '"', '`', '$', '\\':
			builder.WriteByte('\\')
		}
		builder.WriteRune(r)
	}
	builder.WriteByte('"')
	// A literal percent sign must be doubled in Exec values.
	return strings.ReplaceAll(builder.String(), "%", "%%")
}

func disabledByDesktop(data []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	inMainGroup := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			inMainGroup = line == "[Desktop Entry]"
			continue
		}
		if !inMainGroup {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch {
		case key == "Hidden" && value == "true":
			return true
		case key == "X-GNOME-Autostart-enabled" && value == "false":
			return true
		}
	}
	return false
}
