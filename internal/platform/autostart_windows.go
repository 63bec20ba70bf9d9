//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (launcher *sessionLauncher) Enable(entry LoginEntry) error {
	if err := entry.validate(); err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}

	value := `"` + strings.Trim(entry.Exec, `"`) + `"`
	for _, arg := range entry.Args {
		value += " " + quoteArg(arg)
	}
	if output, err := reg("add", registryRunKey, "/v", entry.Name, "/t", "REG_SZ", "/d", value, "/f"); err != nil {
		return fmt.Errorf("enable launch at login: reg add: %w: %s", err, output)
	}
	return nil
}

func (launcher *sessionLauncher) Disable(name string) error {
	if output, err := reg("delete", registryRunKey, "/v", name, "/f"); err != nil {
		return fmt.Errorf("disable launch at login: reg delete: %w: %s", err, output)
	}
	return nil
}

func (launcher *sessionLauncher) Enabled(name string) (bool, error) {
	// reg query exits non-zero when the value is missing.
	_, err := reg("query", registryRunKey, "/v", name)
	return err == nil, nil
}

func reg(args ...string) (string, error) {
	output, err := exec.Command("reg", args...).CombinedOutput()
	return strings.TrimSpace(string(output)), err
}
