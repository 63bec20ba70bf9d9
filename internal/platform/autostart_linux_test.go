//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesktopEntryLifecycle(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	launcher := NewLauncher()

	enabled, err := launcher.Enabled("Pomodoro")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, launcher.Enable(LoginEntry{Name: "Pomodoro", Exec: "/usr/bin/pomodoro", Args: []string{"run"}}))
	content, err := os.ReadFile(filepath.Join(configDir, "autostart", "pomodoro.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Exec=/usr/bin/pomodoro run")

	enabled, err = launcher.Enabled("Pomodoro")
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, launcher.Disable("Pomodoro"))
	require.NoError(t, launcher.Disable("Pomodoro"))
	enabled, err = launcher.Enabled("Pomodoro")
	require.NoError(t, err)
	assert.False(t, enabled)
}
