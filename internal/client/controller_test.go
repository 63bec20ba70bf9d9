package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/presenter"
)

// engineBackend adapts an in-process engine to the Backend contract.
type engineBackend struct {
	engine *timer.Engine
	calls  []string
	fail   error
}

func (backend *engineBackend) record(name string) error {
	backend.calls = append(backend.calls, name)
	return backend.fail
}

func (backend *engineBackend) GetState(context.Context) (timer.State, error) {
	if err := backend.record("get_state"); err != nil {
		return timer.State{}, err
	}
	return backend.engine.State(), nil
}

func (backend *engineBackend) StartTimer(context.Context) error {
	if err := backend.record("start_timer"); err != nil {
		return err
	}
	_, err := backend.engine.StartTimer()
	return err
}

func (backend *engineBackend) PauseTimer(context.Context) error {
	if err := backend.record("pause_timer"); err != nil {
		return err
	}
	_, err := backend.engine.PauseTimer()
	return err
}

func (backend *engineBackend) ResumeTimer(context.Context) error {
	if err := backend.record("resume_timer"); err != nil {
		return err
	}
	_, err := backend.engine.ResumeTimer()
	return err
}

func (backend *engineBackend) ClearTimer(context.Context) error {
	if err := backend.record("clear_timer"); err != nil {
		return err
	}
	backend.engine.ClearTimer()
	return nil
}

func (backend *engineBackend) SetPhase(_ context.Context, phase timer.Phase) error {
	if err := backend.record("set_phase"); err != nil {
		return err
	}
	_, err := backend.engine.SetPhase(phase)
	return err
}

type recordingRenderer struct {
	mu    sync.Mutex
	views []presenter.View
}

func (renderer *recordingRenderer) Render(view presenter.View) {
	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	renderer.views = append(renderer.views, view)
}

func (renderer *recordingRenderer) last() presenter.View {
	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	return renderer.views[len(renderer.views)-1]
}

type countingChime struct{ plays atomic.Int32 }

func (chime *countingChime) Play() { chime.plays.Add(1) }

type scriptedConfirmer struct {
	answer  bool
	prompts []string
}

func (confirmer *scriptedConfirmer) Confirm(prompt string, decide func(bool)) {
	confirmer.prompts = append(confirmer.prompts, prompt)
	decide(confirmer.answer)
}

type fixture struct {
	controller *Controller
	backend    *engineBackend
	clock      *clockwork.FakeClock
	renderer   *recordingRenderer
	chime      *countingChime
	confirmer  *scriptedConfirmer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClock()
	f := &fixture{
		backend:   &engineBackend{engine: timer.New(model.DefaultTimerConfig(), timer.Config{Clock: clock})},
		clock:     clock,
		renderer:  &recordingRenderer{},
		chime:     &countingChime{},
		confirmer: &scriptedConfirmer{},
	}
	controller, err := New(t.Context(), f.backend, f.renderer, Options{
		PollInterval: time.Hour,
		Confirmer:    f.confirmer,
		Chime:        f.chime,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = controller.Close() })
	f.controller = controller
	return f
}

func TestStartToCompletionChimesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	require.NoError(t, f.controller.Attach(ctx))
	assert.False(t, f.controller.Polling(), "idle controller must not poll")
	assert.Equal(t, "25:00", f.renderer.last().Clock)

	require.NoError(t, f.controller.Start(ctx))
	state, ok := f.controller.Last()
	require.True(t, ok)
	assert.Equal(t, timer.StatusRunning, state.Status)
	assert.Equal(t, 1500, state.RemainingSecs)
	assert.True(t, f.controller.Polling())
	assert.Equal(t, []string{"get_state", "start_timer", "get_state"}, f.backend.calls)

	f.clock.Advance(1500 * time.Second)
	_, err := f.controller.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.chime.plays.Load())
	assert.Equal(t, "-00:00", f.renderer.last().Clock)

	f.clock.Advance(5 * time.Second)
	_, err = f.controller.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.chime.plays.Load(), "sustained flag must not chime again")
	assert.Equal(t, "-00:05", f.renderer.last().Clock)
	assert.True(t, f.renderer.last().Overtime)
}

func TestAttachToCompletedBackendDoesNotChime(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	_, err := f.backend.engine.StartTimer()
	require.NoError(t, err)
	f.clock.Advance(26 * time.Minute)

	require.NoError(t, f.controller.Attach(ctx))
	assert.True(t, f.controller.Polling(), "active session resumes polling")
	_, err = f.controller.Refresh(ctx)
	require.NoError(t, err)
	assert.Zero(t, f.chime.plays.Load())
}

func TestPauseResumeRefreshAfterCommand(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	require.NoError(t, f.controller.Start(ctx))
	f.clock.Advance(time.Minute)

	require.NoError(t, f.controller.Pause(ctx))
	view := f.renderer.last()
	assert.Equal(t, "24:00", view.Clock)
	assert.True(t, view.ResumeEnabled)
	assert.False(t, view.PauseEnabled)

	require.NoError(t, f.controller.Resume(ctx))
	assert.True(t, f.renderer.last().PauseEnabled)
}

func TestClearPristineSkipsConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	require.NoError(t, f.controller.Clear(ctx))
	assert.Empty(t, f.confirmer.prompts)
	assert.Contains(t, f.backend.calls, "clear_timer")
}

func TestClearRunningDeclinedSendsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	require.NoError(t, f.controller.Start(ctx))
	f.confirmer.answer = false

	require.NoError(t, f.controller.Clear(ctx))
	assert.Equal(t, []string{presenter.ClearPrompt}, f.confirmer.prompts)
	assert.NotContains(t, f.backend.calls, "clear_timer")
	assert.True(t, f.controller.Polling())
	assert.Equal(t, timer.StatusRunning, f.backend.engine.State().Status)
}

func TestClearRunningConfirmedStopsPolling(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	require.NoError(t, f.controller.Start(ctx))
	f.clock.Advance(time.Minute)
	f.confirmer.answer = true

	require.NoError(t, f.controller.Clear(ctx))
	assert.Len(t, f.confirmer.prompts, 1)
	assert.Contains(t, f.backend.calls, "clear_timer")
	assert.False(t, f.controller.Polling())

	view := f.renderer.last()
	assert.Equal(t, "25:00", view.Clock)
	assert.True(t, view.StartEnabled)
	assert.False(t, view.ClearEnabled)
}

func TestClearPausedRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	require.NoError(t, f.controller.Start(ctx))
	require.NoError(t, f.controller.Pause(ctx))
	f.confirmer.answer = true

	require.NoError(t, f.controller.Clear(ctx))
	assert.Len(t, f.confirmer.prompts, 1)
	assert.Equal(t, timer.StatusWorkReady, f.backend.engine.State().Status)
}

func TestSetPhaseRendersBreak(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	require.NoError(t, f.controller.SetPhase(ctx, timer.PhaseBreak))
	view := f.renderer.last()
	assert.Equal(t, timer.PhaseBreak, view.Phase)
	assert.Equal(t, "05:00", view.Clock)
}

func TestBackendFailureKeepsLastRender(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	require.NoError(t, f.controller.Attach(ctx))
	renders := len(f.renderer.views)

	f.backend.fail = errors.New("backend unavailable")
	require.Error(t, f.controller.Start(ctx))
	_, err := f.controller.Refresh(ctx)
	require.Error(t, err)

	assert.Len(t, f.renderer.views, renders)
	assert.False(t, f.controller.Polling())
}

func TestRejectedCommandIsReturned(t *testing.T) {
	f := newFixture(t)

	err := f.controller.Pause(t.Context())
	require.ErrorIs(t, err, timer.ErrNotRunning)
}

func TestSetPhaseAfterCompletionStopsPolling(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	require.NoError(t, f.controller.Start(ctx))
	f.clock.Advance(26 * time.Minute)
	_, err := f.controller.Refresh(ctx)
	require.NoError(t, err)
	require.True(t, f.controller.Polling())

	require.NoError(t, f.controller.SetPhase(ctx, timer.PhaseBreak))
	assert.Equal(t, timer.StatusBreakReady, f.renderer.last().Status)
	assert.False(t, f.controller.Polling(), "ready session must not poll")
}

func TestRejectedSetPhaseRedrawsCurrentPhase(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	require.NoError(t, f.controller.Start(ctx))
	renders := len(f.renderer.views)

	err := f.controller.SetPhase(ctx, timer.PhaseBreak)
	require.ErrorIs(t, err, timer.ErrPhaseLocked)
	assert.Len(t, f.renderer.views, renders+1)
	assert.Equal(t, timer.PhaseWork, f.renderer.last().Phase)
	assert.True(t, f.controller.Polling())
}

func TestStartPollingWhileIdle(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Attach(t.Context()))
	require.False(t, f.controller.Polling())

	f.controller.StartPolling()
	assert.True(t, f.controller.Polling())
	require.NoError(t, f.controller.Close())
	assert.False(t, f.controller.Polling())
}
