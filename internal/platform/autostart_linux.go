//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func (launcher *sessionLauncher) Enable(entry LoginEntry) error {
	if err := entry.validate(); err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}

	desktopPath, err := desktopEntryPath(entry.Name)
	if err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(desktopPath), 0o755); err != nil {
		return fmt.Errorf("enable launch at login: create autostart dir: %w", err)
	}
	if err := os.WriteFile(desktopPath, []byte(desktopEntry(entry)), 0o644); err != nil {
		return fmt.Errorf("enable launch at login: write desktop entry: %w", err)
	}
	return nil
}

func (launcher *sessionLauncher) Disable(name string) error {
	desktopPath, err := desktopEntryPath(name)
	if err != nil {
		return fmt.Errorf("disable launch at login: %w", err)
	}
	if err := os.Remove(desktopPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable launch at login: remove desktop entry: %w", err)
	}
	return nil
}

func (launcher *sessionLauncher) Enabled(name string) (bool, error) {
	desktopPath, err := desktopEntryPath(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(desktopPath)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat desktop entry: %w", err)
	}
}

func desktopEntryPath(name string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("resolve config dir: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "autostart", entrySlug(name)+".desktop"), nil
}

func desktopEntry(entry LoginEntry) string {
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Pomodoro timer
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`, entry.Name, commandLine(entry))
}
