package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"pomodoro/internal/audio"
	"pomodoro/internal/backend"
	"pomodoro/internal/client"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/platform"
	"pomodoro/internal/rpc"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/preferences"
)

// ServeCmd runs the engine headless.
type ServeCmd struct {
	NoHistory bool `help:"Do not record completed countdowns"`
}

func (cmd *ServeCmd) Run(ctx context.Context, root *CLI) error {
	guard, err := platform.AcquireSingleInstance(appName, root.Addr)
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	settings := loadSettings()
	options := backend.Options{AppName: appName, Settings: settings}
	if !cmd.NoHistory {
		if history := openHistory(); history != nil {
			defer func() {
				_ = history.Close()
			}()
			options.History = history
		}
	}
	return backend.New(options).Run(ctx, guard.Listener())
}

// StatusCmd prints the current state once or continuously.
type StatusCmd struct {
	Watch    bool          `short:"w" help:"Keep refreshing until interrupted"`
	Interval time.Duration `default:"1s" help:"Refresh period in watch mode"`
}

func (cmd *StatusCmd) Run(ctx context.Context, root *CLI) error {
	renderer := &textRenderer{out: os.Stdout, watch: cmd.Watch}
	var chime client.Chime
	if cmd.Watch {
		chime = bell{out: os.Stdout, next: audio.NewPlayer(loadSettings().ChimeEnabled)}
	}
	controller, err := newController(ctx, root, renderer, nil, chime, cmd.Interval)
	if err != nil {
		return err
	}
	defer closeController(controller)

	if _, err := controller.Refresh(ctx); err != nil {
		return err
	}
	if !cmd.Watch {
		return nil
	}

	controller.StartPolling()
	<-ctx.Done()
	fmt.Println()
	return nil
}

// StartCmd starts a countdown.
type StartCmd struct{}

func (cmd *StartCmd) Run(ctx context.Context, root *CLI) error {
	return withController(ctx, root, nil, func(controller *client.Controller) error {
		return controller.Start(ctx)
	})
}

// PauseCmd pauses the running countdown.
type PauseCmd struct{}

func (cmd *PauseCmd) Run(ctx context.Context, root *CLI) error {
	return withController(ctx, root, nil, func(controller *client.Controller) error {
		return controller.Pause(ctx)
	})
}

// ResumeCmd resumes a paused countdown.
type ResumeCmd struct{}

func (cmd *ResumeCmd) Run(ctx context.Context, root *CLI) error {
	return withController(ctx, root, nil, func(controller *client.Controller) error {
		return controller.Resume(ctx)
	})
}

// ClearCmd resets the session, asking first when progress would be lost.
type ClearCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation"`
}

func (cmd *ClearCmd) Run(ctx context.Context, root *CLI) error {
	var confirmer client.Confirmer
	if !cmd.Yes {
		confirmer = newPromptConfirmer(os.Stdin, os.Stdout)
	}
	return withController(ctx, root, confirmer, func(controller *client.Controller) error {
		if _, err := controller.Refresh(ctx); err != nil {
			return err
		}
		return controller.Clear(ctx)
	})
}

// PhaseCmd switches the configured phase.
type PhaseCmd struct {
	Phase string `arg:"" enum:"work,break" help:"work or break"`
}

func (cmd *PhaseCmd) Run(ctx context.Context, root *CLI) error {
	phase, err := timer.ParsePhase(cmd.Phase)
	if err != nil {
		return err
	}
	return withController(ctx, root, nil, func(controller *client.Controller) error {
		return controller.SetPhase(ctx, phase)
	})
}

// HistoryCmd lists recent completions from the local history.
type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Number of entries to show"`
}

func (cmd *HistoryCmd) Run(ctx context.Context, _ *CLI) error {
	path, err := storage.HistoryPath(appName)
	if err != nil {
		return err
	}
	history, err := storage.OpenHistory(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = history.Close()
	}()

	today, err := history.CountSince(ctx, string(timer.PhaseWork), startOfDay(time.Now()))
	if err != nil {
		return err
	}
	fmt.Printf("Work sessions completed today: %d\n", today)

	recent, err := history.Recent(ctx, cmd.Limit)
	if err != nil {
		return err
	}
	for _, completion := range recent {
		fmt.Printf("%s  %-5s  %s\n",
			completion.CompletedAt.Format("2006-01-02 15:04"),
			completion.Phase,
			(time.Duration(completion.DurationSecs) * time.Second).String(),
		)
	}
	return nil
}

func withController(ctx context.Context, root *CLI, confirmer client.Confirmer, run func(*client.Controller) error) error {
	controller, err := newController(ctx, root, &textRenderer{out: os.Stdout}, confirmer, nil, time.Second)
	if err != nil {
		return err
	}
	defer closeController(controller)
	return run(controller)
}

func newController(ctx context.Context, root *CLI, renderer client.Renderer, confirmer client.Confirmer, chime client.Chime, interval time.Duration) (*client.Controller, error) {
	return client.New(ctx, rpc.NewClient(nil, root.backendURL()), renderer, client.Options{
		PollInterval: interval,
		Confirmer:    confirmer,
		Chime:        chime,
	})
}

func closeController(controller *client.Controller) {
	if err := controller.Close(); err != nil {
		log.Debug().Err(err).Msg("close controller")
	}
}

func loadSettings() preferences.Settings {
	settings, err := storage.LoadSettings(appName)
	if err != nil {
		log.Warn().Err(err).Msg("Using default settings")
		return preferences.DefaultSettings()
	}
	return settings
}

// openHistory returns nil when the history cannot be opened; the timer
// works without it.
func openHistory() *storage.History {
	path, err := storage.HistoryPath(appName)
	if err == nil {
		var history *storage.History
		if history, err = storage.OpenHistory(path); err == nil {
			return history
		}
	}
	log.Warn().Err(err).Msg("Completion history disabled")
	return nil
}

func startOfDay(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}

func isAlreadyRunning(err error) bool {
	return errors.Is(err, platform.ErrAlreadyRunning)
}
