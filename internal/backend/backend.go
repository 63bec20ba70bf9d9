// Package backend composes the timer engine with its RPC endpoint,
// completion history and live settings.
package backend

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/rpc"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/preferences"
)

// Recorder stores completed countdowns.
type Recorder interface {
	Record(ctx context.Context, completion storage.Completion) error
}

// Options configures a Backend.
type Options struct {
	// AppName locates the settings file. Empty disables live reload.
	AppName  string
	Settings preferences.Settings
	// History is optional.
	History      Recorder
	Clock        clockwork.Clock
	TickInterval time.Duration
	// OnSettings is called after a settings reload has been applied.
	OnSettings func(preferences.Settings)
	// OnCompletion is called after a completion has been recorded.
	OnCompletion func(storage.Completion)
}

// Backend owns one engine and everything that observes it.
type Backend struct {
	engine     *timer.Engine
	metrics    *rpc.Metrics
	handler    http.Handler
	events     <-chan timer.Event
	history    Recorder
	appName    string
	onSettings func(preferences.Settings)
	onComplete func(storage.Completion)
}

// New builds a backend. Nothing runs until Run is called.
func New(options Options) *Backend {
	engine := timer.New(options.Settings.TimerConfig(), timer.Config{
		TickInterval: options.TickInterval,
		Clock:        options.Clock,
	})
	metrics := rpc.NewMetrics()

	return &Backend{
		engine:     engine,
		metrics:    metrics,
		handler:    rpc.NewHandler(engine, metrics),
		events:     engine.Subscribe(16),
		history:    options.History,
		appName:    options.AppName,
		onSettings: options.OnSettings,
		onComplete: options.OnCompletion,
	}
}

// Engine exposes the engine for in-process callers.
func (backend *Backend) Engine() *timer.Engine {
	return backend.engine
}

// Handler is the RPC, health and metrics handler.
func (backend *Backend) Handler() http.Handler {
	return backend.handler
}

// Run serves RPC on listener until ctx is cancelled, then stops the engine.
func (backend *Backend) Run(ctx context.Context, listener net.Listener) error {
	backend.engine.Start()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		backend.consumeEvents(groupCtx)
		return nil
	})
	group.Go(func() error {
		defer backend.engine.Stop()
		return rpc.Serve(groupCtx, listener, backend.handler)
	})
	if backend.appName != "" {
		// Live reload is optional: a watcher failure must not stop serving.
		group.Go(func() error {
			if err := storage.WatchSettings(groupCtx, backend.appName, backend.ApplySettings); err != nil {
				log.Warn().Err(err).Msg("settings live reload disabled")
			}
			return nil
		})
	}

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ApplySettings pushes new durations to the engine.
func (backend *Backend) ApplySettings(settings preferences.Settings) {
	config := settings.TimerConfig()
	backend.engine.UpdateConfig(config)
	log.Info().
		Dur("work", config.WorkDuration).
		Dur("break", config.BreakDuration).
		Msg("timer durations updated")
	if backend.onSettings != nil {
		backend.onSettings(settings)
	}
}

func (backend *Backend) consumeEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-backend.events:
			if !ok {
				return
			}
			backend.handleEvent(ctx, event)
		}
	}
}

func (backend *Backend) handleEvent(ctx context.Context, event timer.Event) {
	switch event.Type {
	case timer.EventStateChange:
		log.Debug().
			Str("phase", string(event.State.Phase)).
			Str("status", string(event.State.Status)).
			Msg("state changed")
	case timer.EventCompleted:
		log.Info().
			Str("phase", string(event.State.Phase)).
			Int("durationSecs", event.State.DurationSecs).
			Msg("countdown reached zero")
		backend.metrics.ObserveCompletion(event.State.Phase)
		completion := storage.Completion{
			Phase:        string(event.State.Phase),
			DurationSecs: event.State.DurationSecs,
			CompletedAt:  event.At,
		}
		if backend.history != nil {
			if err := backend.history.Record(ctx, completion); err != nil {
				log.Error().Err(err).Msg("Failed to record completion")
			}
		}
		if backend.onComplete != nil {
			backend.onComplete(completion)
		}
	}
}
