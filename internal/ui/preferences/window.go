package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	workMinutes   *widget.Entry
	breakMinutes  *widget.Entry
	chime         *widget.Check
	launchAtLogin *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Pomodoro Settings")

	prefs := &Window{
		window:        window,
		settings:      settings,
		onSave:        onSave,
		workMinutes:   widget.NewEntry(),
		breakMinutes:  widget.NewEntry(),
		chime:         widget.NewCheck("Play a chime when a countdown ends", nil),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
	}
	prefs.workMinutes.Validator = validateMinutes
	prefs.breakMinutes.Validator = validateMinutes
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work"), prefs.workMinutes, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break"), prefs.breakMinutes, widget.NewLabel("min")),
		widget.NewLabel("New durations apply from the next cleared countdown."),
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.chime,
		prefs.launchAtLogin,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(380, 280))
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values, e.g. after the file changed on disk.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.workMinutes.SetText(strconv.Itoa(int(settings.WorkDuration / time.Minute)))
	prefs.breakMinutes.SetText(strconv.Itoa(int(settings.BreakDuration / time.Minute)))
	prefs.chime.SetChecked(settings.ChimeEnabled)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
}

func (prefs *Window) handleSave() {
	settings := applyForm(prefs.settings, prefs.workMinutes.Text, prefs.breakMinutes.Text)
	settings.ChimeEnabled = prefs.chime.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// applyForm keeps the previous duration for any field that is not a
// positive whole number of minutes.
func applyForm(settings Settings, workText, breakText string) Settings {
	if minutes, ok := parsePositiveInt(workText); ok {
		settings.WorkDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(breakText); ok {
		settings.BreakDuration = time.Duration(minutes) * time.Minute
	}
	return settings
}

func validateMinutes(value string) error {
	if _, ok := parsePositiveInt(value); !ok {
		return fmt.Errorf("enter whole minutes between 1 and %d", maxMinutes)
	}
	return nil
}

const maxMinutes = 24 * 60

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 || parsed > maxMinutes {
		return 0, false
	}
	return parsed, true
}
