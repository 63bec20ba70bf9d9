package timer

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"pomodoro/internal/core/model"
)

var (
	// ErrAlreadyRunning is returned by Start while a countdown is running.
	ErrAlreadyRunning = errors.New("timer already running")
	// ErrPaused is returned by Start while paused; Resume continues instead.
	ErrPaused = errors.New("timer is paused, use resume instead")
	// ErrNotRunning is returned by Pause when nothing is running.
	ErrNotRunning = errors.New("no running timer to pause")
	// ErrNotPaused is returned by Resume when nothing is paused.
	ErrNotPaused = errors.New("no paused timer to resume")
	// ErrPhaseLocked is returned by SetPhase while a countdown is in progress.
	ErrPhaseLocked = errors.New("phase can only change when no countdown is in progress")
	// ErrInvalidPhase is returned for unknown phase names.
	ErrInvalidPhase = errors.New("invalid phase, use 'work' or 'break'")
)

// Config contains runtime options for the Engine.
type Config struct {
	TickInterval time.Duration
	Clock        clockwork.Clock
}

// Engine is the authoritative Pomodoro state machine.
//
// Elapsed time is kept as consumed time for the current session: it grows
// while running and is frozen otherwise. Remaining and overtime seconds are
// derived from it on every read.
type Engine struct {
	mu           sync.Mutex
	config       model.TimerConfig
	options      Config
	clock        clockwork.Clock
	phase        Phase
	status       Status
	duration     time.Duration
	consumed     time.Duration
	runningSince time.Time
	completed    bool
	events       []chan Event
	stopCh       chan struct{}
	looping      bool
}

// New creates an Engine in the ReadyWork state.
func New(config model.TimerConfig, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}

	config = config.Normalize()
	return &Engine{
		config:   config,
		options:  options,
		clock:    options.Clock,
		phase:    PhaseWork,
		status:   StatusWorkReady,
		duration: config.WorkDuration,
	}
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Start launches the ticking loop that detects completions between queries.
func (engine *Engine) Start() {
	engine.mu.Lock()
	if engine.looping {
		engine.mu.Unlock()
		return
	}
	engine.looping = true
	engine.stopCh = make(chan struct{})
	stopCh := engine.stopCh
	engine.mu.Unlock()

	go engine.run(stopCh)
}

// Stop terminates the ticking loop and closes observers.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if engine.looping {
		close(engine.stopCh)
		engine.looping = false
	}
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// State returns the current snapshot.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	engine.advanceLocked(now)
	return engine.snapshotLocked(now)
}

// StartTimer begins a countdown from a Ready state, or restarts the
// current phase once it is Complete.
func (engine *Engine) StartTimer() (State, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	engine.advanceLocked(now)

	switch engine.status {
	case StatusRunning:
		return engine.snapshotLocked(now), ErrAlreadyRunning
	case StatusPaused:
		return engine.snapshotLocked(now), ErrPaused
	}

	engine.resetSessionLocked()
	engine.status = StatusRunning
	engine.runningSince = now
	return engine.commitLocked(now), nil
}

// PauseTimer freezes a running countdown (or overtime).
func (engine *Engine) PauseTimer() (State, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	engine.advanceLocked(now)

	if engine.status != StatusRunning {
		return engine.snapshotLocked(now), ErrNotRunning
	}

	engine.consumed = engine.consumedLocked(now)
	engine.runningSince = time.Time{}
	engine.status = StatusPaused
	return engine.commitLocked(now), nil
}

// ResumeTimer continues a paused countdown.
func (engine *Engine) ResumeTimer() (State, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	engine.advanceLocked(now)

	if engine.status != StatusPaused {
		return engine.snapshotLocked(now), ErrNotPaused
	}

	engine.status = StatusRunning
	engine.runningSince = now
	return engine.commitLocked(now), nil
}

// ClearTimer returns to the Ready state of the current phase from any state.
func (engine *Engine) ClearTimer() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()

	engine.resetSessionLocked()
	engine.status = readyStatus(engine.phase)
	return engine.commitLocked(now)
}

// SetPhase switches between work and break. Selecting the current phase is
// a no-op; switching is only allowed when no countdown is in progress.
func (engine *Engine) SetPhase(phase Phase) (State, error) {
	if phase != PhaseWork && phase != PhaseBreak {
		return engine.State(), ErrInvalidPhase
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()
	engine.advanceLocked(now)

	if phase == engine.phase {
		return engine.snapshotLocked(now), nil
	}
	if !engine.status.IsReady() && !engine.completed {
		return engine.snapshotLocked(now), ErrPhaseLocked
	}

	engine.phase = phase
	engine.resetSessionLocked()
	engine.status = readyStatus(phase)
	return engine.commitLocked(now), nil
}

// UpdateConfig replaces the schedule. A pristine Ready state adopts the new
// duration at once; anything else picks it up on the next reset.
func (engine *Engine) UpdateConfig(config model.TimerConfig) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	now := engine.clock.Now()

	engine.config = config.Normalize()
	if engine.status.IsReady() && engine.consumed == 0 {
		engine.duration = engine.phaseDurationLocked()
		engine.emitLocked(Event{
			Type:  EventStateChange,
			State: engine.snapshotLocked(now),
			At:    now,
		})
	}
}

func (engine *Engine) run(stopCh <-chan struct{}) {
	ticker := engine.clock.NewTicker(engine.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			engine.tick()
		}
	}
}

func (engine *Engine) tick() {
	engine.mu.Lock()
	engine.advanceLocked(engine.clock.Now())
	engine.mu.Unlock()
}

// advanceLocked raises the completion flag once the countdown passes zero
// and stops the session when overtime reaches the cap.
func (engine *Engine) advanceLocked(now time.Time) {
	if engine.status != StatusRunning {
		return
	}

	total := engine.consumedLocked(now)
	if !engine.completed && total >= engine.duration {
		engine.completed = true
		engine.emitLocked(Event{
			Type:  EventCompleted,
			State: engine.snapshotLocked(now),
			At:    now,
		})
	}

	if engine.completed && total-engine.duration >= engine.config.OvertimeCap {
		engine.consumed = engine.duration + engine.config.OvertimeCap
		engine.runningSince = time.Time{}
		engine.status = StatusComplete
		engine.emitLocked(Event{
			Type:  EventStateChange,
			State: engine.snapshotLocked(now),
			At:    now,
		})
	}
}

func (engine *Engine) consumedLocked(now time.Time) time.Duration {
	if engine.status != StatusRunning || engine.runningSince.IsZero() {
		return engine.consumed
	}
	return engine.consumed + now.Sub(engine.runningSince)
}

func (engine *Engine) snapshotLocked(now time.Time) State {
	elapsedSecs := int(engine.consumedLocked(now) / time.Second)
	durationSecs := int(engine.duration / time.Second)

	state := State{
		Phase:          engine.phase,
		Status:         engine.status,
		DurationSecs:   durationSecs,
		CompletionFlag: engine.completed,
		StateLabel:     stateLabel(engine.phase, engine.status, engine.completed),
	}

	if engine.completed {
		overtime := elapsedSecs - durationSecs
		capSecs := int(engine.config.OvertimeCap / time.Second)
		if overtime < 0 {
			overtime = 0
		}
		if overtime > capSecs {
			overtime = capSecs
		}
		state.OvertimeSecs = &overtime
		return state
	}

	remaining := durationSecs - elapsedSecs
	if remaining < 0 {
		remaining = 0
	}
	state.RemainingSecs = remaining
	return state
}

func (engine *Engine) resetSessionLocked() {
	engine.duration = engine.phaseDurationLocked()
	engine.consumed = 0
	engine.runningSince = time.Time{}
	engine.completed = false
}

func (engine *Engine) phaseDurationLocked() time.Duration {
	if engine.phase == PhaseBreak {
		return engine.config.BreakDuration
	}
	return engine.config.WorkDuration
}

func (engine *Engine) commitLocked(now time.Time) State {
	state := engine.snapshotLocked(now)
	engine.emitLocked(Event{
		Type:  EventStateChange,
		State: state,
		At:    now,
	})
	return state
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}
