package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pomodoro/internal/core/timer"
)

func intPtr(value int) *int { return &value }

func TestFormatClock(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		65:   "01:05",
		3599: "59:59",
		5400: "90:00",
		-3:   "00:00",
	}
	for seconds, want := range cases {
		assert.Equal(t, want, FormatClock(seconds), "seconds=%d", seconds)
	}
}

func TestPresentOvertimeIsDistinct(t *testing.T) {
	view := Present(timer.State{
		Phase:          timer.PhaseWork,
		Status:         timer.StatusRunning,
		DurationSecs:   1500,
		CompletionFlag: true,
		OvertimeSecs:   intPtr(5),
		StateLabel:     "Work completed",
	})

	assert.Equal(t, "-00:05", view.Clock)
	assert.True(t, view.Overtime)
	assert.True(t, view.PauseEnabled)
	assert.True(t, view.PhaseEnabled)
}

func TestPresentCountdown(t *testing.T) {
	view := Present(timer.State{
		Phase:         timer.PhaseBreak,
		Status:        timer.StatusRunning,
		RemainingSecs: 65,
		DurationSecs:  300,
		StateLabel:    "Break time",
	})

	assert.Equal(t, "01:05", view.Clock)
	assert.False(t, view.Overtime)
	assert.Equal(t, "01:05  Break time", view.String())
}

func TestPresentEnablement(t *testing.T) {
	tests := []struct {
		name   string
		state  timer.State
		start  bool
		pause  bool
		resume bool
		clear  bool
		phase  bool
	}{
		{
			name:  "pristine ready work",
			state: timer.State{Status: timer.StatusWorkReady, RemainingSecs: 1500, DurationSecs: 1500},
			start: true, phase: true,
		},
		{
			name:  "pristine ready break",
			state: timer.State{Status: timer.StatusBreakReady, RemainingSecs: 300, DurationSecs: 300},
			start: true, phase: true,
		},
		{
			name:  "ready with elapsed time",
			state: timer.State{Status: timer.StatusWorkReady, RemainingSecs: 1200, DurationSecs: 1500},
			start: true, clear: true, phase: true,
		},
		{
			name:  "running",
			state: timer.State{Status: timer.StatusRunning, RemainingSecs: 1200, DurationSecs: 1500},
			pause: true, clear: true,
		},
		{
			name:   "paused",
			state:  timer.State{Status: timer.StatusPaused, RemainingSecs: 1200, DurationSecs: 1500},
			resume: true, clear: true,
		},
		{
			name:  "complete",
			state: timer.State{Status: timer.StatusComplete, DurationSecs: 1500, CompletionFlag: true, OvertimeSecs: intPtr(3599)},
			clear: true, phase: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Present(tt.state)
			assert.Equal(t, tt.start, view.StartEnabled, "start")
			assert.Equal(t, tt.pause, view.PauseEnabled, "pause")
			assert.Equal(t, tt.resume, view.ResumeEnabled, "resume")
			assert.Equal(t, tt.clear, view.ClearEnabled, "clear")
			assert.Equal(t, tt.phase, view.PhaseEnabled, "phase")
		})
	}
}

func TestNeedsConfirmation(t *testing.T) {
	assert.True(t, NeedsConfirmation(timer.State{Status: timer.StatusRunning, RemainingSecs: 1500, DurationSecs: 1500}))
	assert.True(t, NeedsConfirmation(timer.State{Status: timer.StatusPaused, RemainingSecs: 1500, DurationSecs: 1500}))
	assert.True(t, NeedsConfirmation(timer.State{Status: timer.StatusWorkReady, RemainingSecs: 1499, DurationSecs: 1500}))
	assert.True(t, NeedsConfirmation(timer.State{Status: timer.StatusBreakReady, RemainingSecs: 10, DurationSecs: 300}))
	assert.False(t, NeedsConfirmation(timer.State{Status: timer.StatusWorkReady, RemainingSecs: 1500, DurationSecs: 1500}))
	assert.False(t, NeedsConfirmation(timer.State{Status: timer.StatusBreakReady, RemainingSecs: 300, DurationSecs: 300}))
	assert.False(t, NeedsConfirmation(timer.State{Status: timer.StatusComplete, DurationSecs: 1500, CompletionFlag: true}))
}

func TestCompletionEdge(t *testing.T) {
	var edge CompletionEdge

	assert.False(t, edge.Observe(false))
	assert.True(t, edge.Observe(true))
	assert.False(t, edge.Observe(true), "sustained true must not fire again")
	assert.False(t, edge.Observe(false))
	assert.True(t, edge.Observe(true))
	assert.True(t, edge.Last())
}

func TestCompletionEdgeFirstObservationNeverFires(t *testing.T) {
	var edge CompletionEdge

	assert.False(t, edge.Observe(true))
	assert.False(t, edge.Observe(true))
}

func TestTodaySummary(t *testing.T) {
	assert.Empty(t, TodaySummary(0))
	assert.Equal(t, "1 pomodoro completed today", TodaySummary(1))
	assert.Equal(t, "4 pomodoros completed today", TodaySummary(4))
}
