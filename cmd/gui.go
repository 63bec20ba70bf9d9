package main

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog/log"

	"pomodoro/internal/audio"
	"pomodoro/internal/backend"
	"pomodoro/internal/client"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/platform"
	"pomodoro/internal/rpc"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/mainwindow"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/tray"
	"pomodoro/resources"
)

// RunCmd opens the desktop front-end, embedding the backend unless
// --attach points it at one that is already serving.
type RunCmd struct {
	Attach bool          `help:"Use the backend already listening on --addr instead of embedding one"`
	Poll   time.Duration `default:"1s" help:"State poll period while a countdown is active"`
}

func (cmd *RunCmd) Run(ctx context.Context, root *CLI) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	settings := loadSettings()
	chime := audio.NewPlayer(settings.ChimeEnabled)
	history := openHistory()
	if history != nil {
		defer func() {
			_ = history.Close()
		}()
	}

	fyneApp := app.NewWithID("com.pomodoro.app")
	fyneApp.SetIcon(resources.MustLogo(resources.AppLogo))
	timerWindow := mainwindow.New(fyneApp, "Pomodoro")

	var trayManager *tray.Manager
	updateToday := func() {
		count := todayCount(ctx, history)
		timerWindow.SetTodayCount(count)
		if trayManager != nil {
			trayManager.SetTodayCount(count)
		}
	}
	applySettings := func(updated preferences.Settings) {
		chime.SetEnabled(updated.ChimeEnabled)
		syncLaunchAtLogin(updated.LaunchAtLogin)
	}

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		if err := storage.SaveSettings(appName, updated); err != nil {
			log.Error().Err(err).Msg("Failed to save settings")
			return
		}
		// The embedded backend picks durations up from the file watcher.
		applySettings(updated)
	})

	renderers := client.Renderers{timerWindow}

	quit := func() {
		fyneApp.Quit()
	}

	desktopApp, hasTray := fyneApp.(desktop.App)
	if hasTray {
		trayManager = tray.New(desktopApp, tray.Icons{
			Idle:    resources.MustLogo(resources.IdleLogo),
			Running: resources.MustLogo(resources.RunningLogo),
		}, tray.Callbacks{
			OnShow:        timerWindow.Show,
			OnPreferences: prefsWindow.Show,
			OnQuit:        quit,
		})
		renderers = append(renderers, trayManager)
		timerWindow.SetCloseIntercept(timerWindow.Hide)
	} else {
		log.Info().Msg("system tray unsupported on this platform")
	}

	backendURL := root.backendURL()
	backendDone := make(chan error, 1)
	if cmd.Attach {
		close(backendDone)
	} else {
		guard, err := platform.AcquireSingleInstance(appName, root.Addr)
		if err != nil {
			if isAlreadyRunning(err) {
				return fmt.Errorf("%w; use --attach to open another window", err)
			}
			return err
		}
		defer func() {
			_ = guard.Release()
		}()
		backendURL = "http://" + guard.Address()

		options := backend.Options{
			AppName:  appName,
			Settings: settings,
			OnSettings: func(updated preferences.Settings) {
				applySettings(updated)
				fyne.Do(func() { prefsWindow.UpdateSettings(updated) })
			},
			OnCompletion: func(storage.Completion) { updateToday() },
		}
		if history != nil {
			options.History = history
		}
		embedded := backend.New(options)
		go func() {
			backendDone <- embedded.Run(ctx, guard.Listener())
		}()
	}

	controller, err := client.New(ctx, rpc.NewClient(nil, backendURL), renderers, client.Options{
		PollInterval: cmd.Poll,
		Confirmer:    timerWindow,
		Chime:        chime,
	})
	if err != nil {
		return err
	}
	defer closeController(controller)
	timerWindow.Bind(ctx, controller)

	if trayManager != nil {
		trayManager.Bind(ctx, controller)
	}

	go func() {
		if err := controller.Attach(ctx); err != nil {
			log.Warn().Err(err).Str("backend", backendURL).Msg("backend not reachable yet")
		}
		updateToday()
	}()
	go func() {
		<-ctx.Done()
		fyne.Do(quit)
	}()

	timerWindow.Show()
	fyneApp.Run()

	cancel()
	if err := <-backendDone; err != nil {
		return fmt.Errorf("timer backend: %w", err)
	}
	return nil
}

func todayCount(ctx context.Context, history *storage.History) int {
	if history == nil {
		return 0
	}
	count, err := history.CountSince(ctx, string(timer.PhaseWork), startOfDay(time.Now()))
	if err != nil {
		log.Warn().Err(err).Msg("count completions")
		return 0
	}
	return count
}

func syncLaunchAtLogin(enabled bool) {
	execPath, err := platform.CurrentExecutable()
	if err != nil {
		log.Warn().Err(err).Msg("launch at login")
		return
	}
	entry := platform.LoginEntry{Name: appName, Exec: execPath, Args: []string{"run"}}
	if err := platform.SyncLaunchAtLogin(platform.NewLauncher(), entry, enabled); err != nil {
		log.Warn().Err(err).Bool("enabled", enabled).Msg("launch at login")
	}
}
