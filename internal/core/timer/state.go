package timer

import (
	"fmt"
	"strings"
)

// Phase selects which countdown category is configured.
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// ParsePhase converts a user-supplied phase name.
func ParsePhase(value string) (Phase, error) {
	switch Phase(strings.ToLower(strings.TrimSpace(value))) {
	case PhaseWork:
		return PhaseWork, nil
	case PhaseBreak:
		return PhaseBreak, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPhase, value)
	}
}

// Status is the lifecycle stage of the timer.
type Status string

const (
	StatusWorkReady  Status = "workReady"
	StatusBreakReady Status = "breakReady"
	StatusRunning    Status = "running"
	StatusPaused     Status = "paused"
	StatusComplete   Status = "complete"
)

// IsReady reports whether the status is one of the phase-specific idle states.
func (status Status) IsReady() bool {
	return status == StatusWorkReady || status == StatusBreakReady
}

// State is the snapshot handed to clients.
type State struct {
	Phase          Phase  `json:"phase"`
	Status         Status `json:"status"`
	RemainingSecs  int    `json:"remainingSecs"`
	DurationSecs   int    `json:"durationSecs"`
	CompletionFlag bool   `json:"completionFlag"`
	OvertimeSecs   *int   `json:"overtimeSecs,omitempty"`
	StateLabel     string `json:"stateLabel"`
}

// InOvertime reports whether the countdown has passed zero.
func (state State) InOvertime() bool {
	return state.OvertimeSecs != nil
}

// Pristine reports a Ready state with nothing elapsed.
func (state State) Pristine() bool {
	return state.Status.IsReady() && state.RemainingSecs == state.DurationSecs
}

// PhaseChangeAllowed reports whether SetPhase to another phase would be accepted.
func (state State) PhaseChangeAllowed() bool {
	return state.Status.IsReady() || state.CompletionFlag
}

func readyStatus(phase Phase) Status {
	if phase == PhaseBreak {
		return StatusBreakReady
	}
	return StatusWorkReady
}

func stateLabel(phase Phase, status Status, completed bool) string {
	switch {
	case status == StatusWorkReady:
		return "Ready to work"
	case status == StatusBreakReady:
		return "Ready to break"
	case status == StatusPaused:
		return fmt.Sprintf("Paused (%s)", phase)
	case completed && phase == PhaseBreak:
		return "Break completed"
	case completed:
		return "Work completed"
	case phase == PhaseBreak:
		return "Break time"
	default:
		return "Working"
	}
}
