// Package mainwindow is the desktop timer window.
package mainwindow

import (
	"context"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/presenter"
)

// Actions are the commands the window can dispatch.
type Actions interface {
	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Clear(ctx context.Context) error
	SetPhase(ctx context.Context, phase timer.Phase) error
}

var (
	clockColor    = color.NRGBA{R: 33, G: 33, B: 33, A: 255}
	overtimeColor = color.NRGBA{R: 211, G: 47, B: 47, A: 255}
	labelColor    = color.NRGBA{R: 97, G: 97, B: 97, A: 255}
)

const (
	workOption  = "Work"
	breakOption = "Break"
)

// Window shows the clock, the state label and the command buttons.
type Window struct {
	window fyne.Window
	clock  *canvas.Text
	label  *canvas.Text
	today  *widget.Label
	phase  *widget.RadioGroup
	start  *widget.Button
	pause  *widget.Button
	resume *widget.Button
	clear  *widget.Button

	ctx       context.Context
	actions   Actions
	rendering bool
}

// New builds the window. Buttons stay disabled until the first render.
func New(app fyne.App, title string) *Window {
	timerWindow := &Window{window: app.NewWindow(title)}

	timerWindow.clock = canvas.NewText(presenter.FormatClock(0), clockColor)
	timerWindow.clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerWindow.clock.TextSize = 56
	timerWindow.clock.Alignment = fyne.TextAlignCenter

	timerWindow.label = canvas.NewText("Connecting...", labelColor)
	timerWindow.label.TextSize = 18
	timerWindow.label.Alignment = fyne.TextAlignCenter

	timerWindow.today = widget.NewLabel("")
	timerWindow.today.Alignment = fyne.TextAlignCenter

	timerWindow.phase = widget.NewRadioGroup([]string{workOption, breakOption}, timerWindow.onPhaseChanged)
	timerWindow.phase.Horizontal = true
	timerWindow.phase.Required = true

	timerWindow.start = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), timerWindow.dispatch(func(ctx context.Context, actions Actions) error {
		return actions.Start(ctx)
	}))
	timerWindow.start.Importance = widget.HighImportance
	timerWindow.pause = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), timerWindow.dispatch(func(ctx context.Context, actions Actions) error {
		return actions.Pause(ctx)
	}))
	timerWindow.resume = widget.NewButtonWithIcon("Resume", theme.MediaPlayIcon(), timerWindow.dispatch(func(ctx context.Context, actions Actions) error {
		return actions.Resume(ctx)
	}))
	timerWindow.clear = widget.NewButtonWithIcon("Clear", theme.MediaReplayIcon(), timerWindow.dispatch(func(ctx context.Context, actions Actions) error {
		return actions.Clear(ctx)
	}))
	timerWindow.setEnabled(presenter.View{})

	controls := container.NewHBox(
		layout.NewSpacer(),
		timerWindow.start,
		timerWindow.pause,
		timerWindow.resume,
		timerWindow.clear,
		layout.NewSpacer(),
	)
	content := container.NewVBox(
		container.NewCenter(timerWindow.phase),
		container.NewPadded(timerWindow.clock),
		timerWindow.label,
		controls,
		timerWindow.today,
	)

	timerWindow.window.SetContent(container.NewPadded(content))
	timerWindow.window.Resize(fyne.NewSize(360, 260))
	return timerWindow
}

// Bind routes button presses to actions. Calls run off the UI goroutine.
func (timerWindow *Window) Bind(ctx context.Context, actions Actions) {
	timerWindow.ctx = ctx
	timerWindow.actions = actions
}

// Render implements client.Renderer. Safe from any goroutine.
func (timerWindow *Window) Render(view presenter.View) {
	fyne.Do(func() {
		timerWindow.apply(view)
	})
}

// Confirm implements client.Confirmer with a modal dialog.
func (timerWindow *Window) Confirm(prompt string, decide func(confirmed bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm("Clear timer", prompt, func(confirmed bool) {
			go decide(confirmed)
		}, timerWindow.window)
	})
}

// SetTodayCount shows how many work sessions completed today.
func (timerWindow *Window) SetTodayCount(count int) {
	fyne.Do(func() {
		timerWindow.today.SetText(presenter.TodaySummary(count))
	})
}

// Show displays and focuses the window.
func (timerWindow *Window) Show() {
	timerWindow.window.Show()
	timerWindow.window.RequestFocus()
}

// SetCloseIntercept replaces the default close behaviour.
func (timerWindow *Window) SetCloseIntercept(callback func()) {
	timerWindow.window.SetCloseIntercept(callback)
}

// Hide hides the window.
func (timerWindow *Window) Hide() {
	timerWindow.window.Hide()
}

func (timerWindow *Window) apply(view presenter.View) {
	timerWindow.rendering = true
	defer func() { timerWindow.rendering = false }()

	timerWindow.clock.Text = view.Clock
	if view.Overtime {
		timerWindow.clock.Color = overtimeColor
	} else {
		timerWindow.clock.Color = clockColor
	}
	timerWindow.clock.Refresh()

	timerWindow.label.Text = view.Label
	timerWindow.label.Refresh()

	if view.Phase == timer.PhaseBreak {
		timerWindow.phase.SetSelected(breakOption)
	} else {
		timerWindow.phase.SetSelected(workOption)
	}
	timerWindow.setEnabled(view)
}

func (timerWindow *Window) setEnabled(view presenter.View) {
	toggle(timerWindow.start, view.StartEnabled)
	toggle(timerWindow.pause, view.PauseEnabled)
	toggle(timerWindow.resume, view.ResumeEnabled)
	toggle(timerWindow.clear, view.ClearEnabled)
	if view.PhaseEnabled {
		timerWindow.phase.Enable()
	} else {
		timerWindow.phase.Disable()
	}
}

func (timerWindow *Window) onPhaseChanged(selected string) {
	if timerWindow.rendering || selected == "" {
		return
	}
	phase := timer.PhaseWork
	if selected == breakOption {
		phase = timer.PhaseBreak
	}
	timerWindow.dispatch(func(ctx context.Context, actions Actions) error {
		return actions.SetPhase(ctx, phase)
	})()
}

// dispatch returns a tap handler that runs command without blocking the UI.
// Failures are logged by the controller and leave the last render in place.
func (timerWindow *Window) dispatch(command func(context.Context, Actions) error) func() {
	return func() {
		actions := timerWindow.actions
		if actions == nil {
			return
		}
		ctx := timerWindow.ctx
		go func() {
			_ = command(ctx, actions)
		}()
	}
}

func toggle(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
	} else {
		button.Disable()
	}
}
