package presenter

import "pomodoro/internal/core/timer"

// ClearPrompt is shown before a clear that would discard progress.
const ClearPrompt = "Clear the current session? Elapsed time will be lost."

// NeedsConfirmation reports whether clearing would discard an active or
// partially elapsed session.
func NeedsConfirmation(state timer.State) bool {
	switch state.Status {
	case timer.StatusRunning, timer.StatusPaused:
		return true
	case timer.StatusWorkReady, timer.StatusBreakReady:
		return state.RemainingSecs != state.DurationSecs
	default:
		return false
	}
}
