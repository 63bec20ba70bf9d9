// Package client is the front-end half of the timer: it polls the backend,
// renders what it observes and forwards user commands.
package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/presenter"
)

// Backend is the RPC contract of the timer engine.
type Backend interface {
	GetState(ctx context.Context) (timer.State, error)
	StartTimer(ctx context.Context) error
	PauseTimer(ctx context.Context) error
	ResumeTimer(ctx context.Context) error
	ClearTimer(ctx context.Context) error
	SetPhase(ctx context.Context, phase timer.Phase) error
}

// Renderer draws a view. It may be called from any goroutine.
type Renderer interface {
	Render(view presenter.View)
}

// Confirmer asks the user before a destructive action and reports the
// answer through decide, possibly later and from another goroutine.
type Confirmer interface {
	Confirm(prompt string, decide func(confirmed bool))
}

// Chime plays the completion cue.
type Chime interface {
	Play()
}

// Options configures a Controller.
type Options struct {
	PollInterval time.Duration
	// Confirmer gates clears of an active session. Nil clears without asking.
	Confirmer Confirmer
	Chime     Chime
}

// Controller owns one UI session: the poller, the last observed snapshot
// and the completion edge detector.
type Controller struct {
	backend   Backend
	renderer  Renderer
	confirmer Confirmer
	chime     Chime
	poller    *Poller
	baseCtx   context.Context
	cancel    context.CancelFunc

	mu       sync.Mutex
	edge     presenter.CompletionEdge
	last     timer.State
	hasState bool
}

// New creates a Controller. Polling is not started until a session starts.
func New(ctx context.Context, backend Backend, renderer Renderer, options Options) (*Controller, error) {
	baseCtx, cancel := context.WithCancel(ctx)
	controller := &Controller{
		backend:   backend,
		renderer:  renderer,
		confirmer: options.Confirmer,
		chime:     options.Chime,
		baseCtx:   baseCtx,
		cancel:    cancel,
	}

	poller, err := NewPoller(options.PollInterval, func() {
		controller.Refresh(controller.baseCtx)
	})
	if err != nil {
		cancel()
		return nil, err
	}
	controller.poller = poller
	return controller, nil
}

// Attach renders the initial state and resumes polling when the backend
// already has a session in progress.
func (controller *Controller) Attach(ctx context.Context) error {
	state, err := controller.Refresh(ctx)
	if err != nil {
		return err
	}
	if !state.Status.IsReady() {
		controller.startPolling()
	}
	return nil
}

// Refresh queries the backend, renders the result and plays the chime on a
// rising completion flag.
func (controller *Controller) Refresh(ctx context.Context) (timer.State, error) {
	state, err := controller.backend.GetState(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get state")
		return timer.State{}, err
	}

	controller.mu.Lock()
	rose := controller.edge.Observe(state.CompletionFlag)
	controller.last = state
	controller.hasState = true
	controller.renderer.Render(presenter.Present(state))
	controller.mu.Unlock()

	if rose {
		log.Info().Str("phase", string(state.Phase)).Msg("countdown complete")
		if controller.chime != nil {
			controller.chime.Play()
		}
	}
	return state, nil
}

// Start starts a countdown and begins polling.
func (controller *Controller) Start(ctx context.Context) error {
	if err := controller.backend.StartTimer(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to start timer")
		return err
	}
	controller.Refresh(ctx)
	controller.startPolling()
	return nil
}

// Pause pauses the running countdown.
func (controller *Controller) Pause(ctx context.Context) error {
	if err := controller.backend.PauseTimer(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to pause timer")
		return err
	}
	controller.Refresh(ctx)
	return nil
}

// Resume continues a paused countdown.
func (controller *Controller) Resume(ctx context.Context) error {
	if err := controller.backend.ResumeTimer(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to resume timer")
		return err
	}
	controller.Refresh(ctx)
	return nil
}

// SetPhase switches the configured phase. A rejected switch redraws the
// last view so selectors snap back to the phase actually in effect.
func (controller *Controller) SetPhase(ctx context.Context, phase timer.Phase) error {
	if err := controller.backend.SetPhase(ctx, phase); err != nil {
		log.Error().Err(err).Str("phase", string(phase)).Msg("Failed to set phase")
		controller.redrawLast()
		return err
	}
	state, err := controller.Refresh(ctx)
	if err == nil && state.Status.IsReady() {
		controller.stopPolling()
	}
	return nil
}

// Clear resets the session. When progress would be lost the confirmer is
// asked first and nothing is sent unless the user agrees.
func (controller *Controller) Clear(ctx context.Context) error {
	state, ok := controller.Last()
	if !ok {
		var err error
		if state, err = controller.Refresh(ctx); err != nil {
			return err
		}
	}

	if controller.confirmer == nil || !presenter.NeedsConfirmation(state) {
		return controller.clear(ctx)
	}

	controller.confirmer.Confirm(presenter.ClearPrompt, func(confirmed bool) {
		if !confirmed {
			log.Debug().Msg("clear cancelled")
			return
		}
		_ = controller.clear(ctx)
	})
	return nil
}

// Last returns the most recently observed state.
func (controller *Controller) Last() (timer.State, bool) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.last, controller.hasState
}

// Polling reports whether the poller is active.
func (controller *Controller) Polling() bool {
	return controller.poller.Running()
}

// Close stops polling and releases the scheduler.
func (controller *Controller) Close() error {
	controller.cancel()
	controller.stopPolling()
	return controller.poller.Close()
}

func (controller *Controller) clear(ctx context.Context) error {
	if err := controller.backend.ClearTimer(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to clear timer")
		return err
	}
	controller.Refresh(ctx)
	controller.stopPolling()
	return nil
}

// StartPolling keeps refreshing at the poll interval until the session is
// cleared or Close is called, regardless of the current status.
func (controller *Controller) StartPolling() {
	controller.startPolling()
}

func (controller *Controller) startPolling() {
	if err := controller.poller.Start(); err != nil {
		log.Error().Err(err).Msg("start polling")
	}
}

func (controller *Controller) stopPolling() {
	if err := controller.poller.Stop(); err != nil {
		log.Warn().Err(err).Msg("stop polling")
	}
}

func (controller *Controller) redrawLast() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.hasState {
		controller.renderer.Render(presenter.Present(controller.last))
	}
}
