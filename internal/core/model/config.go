package model

import "time"

// TimerConfig contains runtime settings for the timer engine.
type TimerConfig struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration

	// OvertimeCap bounds how far overtime counts past zero.
	OvertimeCap time.Duration
}

// DefaultTimerConfig returns the classic 25/5 schedule.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkDuration:  25 * time.Minute,
		BreakDuration: 5 * time.Minute,
		OvertimeCap:   59*time.Minute + 59*time.Second,
	}
}

// Normalize replaces values below one second with defaults and drops
// sub-second precision.
func (config TimerConfig) Normalize() TimerConfig {
	defaults := DefaultTimerConfig()
	if config.WorkDuration < time.Second {
		config.WorkDuration = defaults.WorkDuration
	}
	if config.BreakDuration < time.Second {
		config.BreakDuration = defaults.BreakDuration
	}
	if config.OvertimeCap < time.Second {
		config.OvertimeCap = defaults.OvertimeCap
	}
	config.WorkDuration = config.WorkDuration.Truncate(time.Second)
	config.BreakDuration = config.BreakDuration.Truncate(time.Second)
	config.OvertimeCap = config.OvertimeCap.Truncate(time.Second)
	return config
}
