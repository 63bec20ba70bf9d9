package preferences

import (
	"time"

	"pomodoro/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration
	ChimeEnabled  bool
	LaunchAtLogin bool
}

// DefaultSettings returns default settings for Pomodoro.
func DefaultSettings() Settings {
	defaults := model.DefaultTimerConfig()
	return Settings{
		WorkDuration:  defaults.WorkDuration,
		BreakDuration: defaults.BreakDuration,
		ChimeEnabled:  true,
		LaunchAtLogin: false,
	}
}

// TimerConfig converts settings to the engine configuration.
func (settings Settings) TimerConfig() model.TimerConfig {
	config := model.DefaultTimerConfig()
	config.WorkDuration = settings.WorkDuration
	config.BreakDuration = settings.BreakDuration
	return config.Normalize()
}
