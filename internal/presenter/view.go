// Package presenter maps timer snapshots to display text and control
// affordances. Nothing here talks to the backend.
package presenter

import (
	"fmt"

	"pomodoro/internal/core/timer"
)

// View is everything a front-end needs to draw one frame.
type View struct {
	Clock         string
	Overtime      bool
	Label         string
	Phase         timer.Phase
	Status        timer.Status
	StartEnabled  bool
	PauseEnabled  bool
	ResumeEnabled bool
	ClearEnabled  bool
	PhaseEnabled  bool
}

// Present derives the view for a state.
func Present(state timer.State) View {
	view := View{
		Clock:         FormatClock(state.RemainingSecs),
		Label:         state.StateLabel,
		Phase:         state.Phase,
		Status:        state.Status,
		StartEnabled:  state.Status.IsReady(),
		PauseEnabled:  state.Status == timer.StatusRunning,
		ResumeEnabled: state.Status == timer.StatusPaused,
		ClearEnabled:  !state.Pristine(),
		PhaseEnabled:  state.PhaseChangeAllowed(),
	}
	if state.OvertimeSecs != nil {
		view.Clock = FormatOvertime(*state.OvertimeSecs)
		view.Overtime = true
	}
	return view
}

// FormatClock renders seconds as MM:SS. Minutes are not wrapped at an hour.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatOvertime renders overtime as -MM:SS.
func FormatOvertime(seconds int) string {
	return "-" + FormatClock(seconds)
}

// String renders the view as a single status line.
func (view View) String() string {
	return fmt.Sprintf("%s  %s", view.Clock, view.Label)
}

// TodaySummary describes the number of work sessions completed today.
func TodaySummary(count int) string {
	switch {
	case count <= 0:
		return ""
	case count == 1:
		return "1 pomodoro completed today"
	default:
		return fmt.Sprintf("%d pomodoros completed today", count)
	}
}
