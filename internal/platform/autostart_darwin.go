//go:build darwin

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (launcher *sessionLauncher) Enable(entry LoginEntry) error {
	if err := entry.validate(); err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}

	plistPath, err := launchAgentPath(entry.Name)
	if err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(plistPath), 0o755); err != nil {
		return fmt.Errorf("enable launch at login: create LaunchAgents dir: %w", err)
	}
	if err := os.WriteFile(plistPath, []byte(launchAgentPlist(entry)), 0o644); err != nil {
		return fmt.Errorf("enable launch at login: write plist: %w", err)
	}
	return nil
}

func (launcher *sessionLauncher) Disable(name string) error {
	plistPath, err := launchAgentPath(name)
	if err != nil {
		return fmt.Errorf("disable launch at login: %w", err)
	}
	if err := os.Remove(plistPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable launch at login: remove plist: %w", err)
	}
	return nil
}

func (launcher *sessionLauncher) Enabled(name string) (bool, error) {
	plistPath, err := launchAgentPath(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(plistPath)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat launch agent: %w", err)
	}
}

func launchAgentPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(homeDir, "Library", "LaunchAgents", launchAgentLabel(name)+".plist"), nil
}

func launchAgentLabel(name string) string {
	return "com.pomodoro." + entrySlug(name)
}

func launchAgentPlist(entry LoginEntry) string {
	var arguments strings.Builder
	for _, arg := range append([]string{entry.Exec}, entry.Args...) {
		fmt.Fprintf(&arguments, "\t\t<string>%s</string>\n", xmlEscape(arg))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
%s	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`, xmlEscape(launchAgentLabel(entry.Name)), arguments.String())
}

func xmlEscape(value string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	).Replace(value)
}
