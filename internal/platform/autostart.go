package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// LoginEntry describes how the app is launched at login.
type LoginEntry struct {
	Name string
	Exec string
	Args []string
}

// Launcher registers and unregisters a LoginEntry with the desktop session.
type Launcher interface {
	Enable(entry LoginEntry) error
	Disable(name string) error
	Enabled(name string) (bool, error)
}

type sessionLauncher struct{}

// NewLauncher returns the launcher for the current OS.
func NewLauncher() Launcher {
	return &sessionLauncher{}
}

// SyncLaunchAtLogin makes the registered state match enabled.
func SyncLaunchAtLogin(launcher Launcher, entry LoginEntry, enabled bool) error {
	registered, err := launcher.Enabled(entry.Name)
	if err != nil {
		return err
	}
	switch {
	case enabled && !registered:
		return launcher.Enable(entry)
	case !enabled && registered:
		return launcher.Disable(entry.Name)
	}
	return nil
}

// CurrentExecutable is the LoginEntry.Exec for the running binary.
func CurrentExecutable() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return execPath, nil
}

func (entry LoginEntry) validate() error {
	if strings.TrimSpace(entry.Name) == "" {
		return errors.New("login entry: name is empty")
	}
	if entry.Exec == "" {
		return errors.New("login entry: exec path is empty")
	}
	return nil
}

func entrySlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	if slug == "" {
		slug = "pomodoro"
	}
	return strings.ReplaceAll(slug, " ", "-")
}

func quoteArg(arg string) string {
	if strings.ContainsAny(arg, " \t") && !strings.HasPrefix(arg, `"`) {
		return `"` + arg + `"`
	}
	return arg
}

func commandLine(entry LoginEntry) string {
	parts := make([]string, 0, len(entry.Args)+1)
	parts = append(parts, quoteArg(entry.Exec))
	for _, arg := range entry.Args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}
