package tray

import (
	"context"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/presenter"
)

type recordingApp struct {
	menu  *fyne.Menu
	icons []fyne.Resource
}

func (app *recordingApp) SetSystemTrayMenu(menu *fyne.Menu)    { app.menu = menu }
func (app *recordingApp) SetSystemTrayIcon(icon fyne.Resource) { app.icons = append(app.icons, icon) }

func (app *recordingApp) item(t *testing.T, label string) *fyne.MenuItem {
	t.Helper()
	require.NotNil(t, app.menu)
	for _, item := range app.menu.Items {
		if item.Label == label {
			return item
		}
	}
	t.Fatalf("menu item %q not found", label)
	return nil
}

type recordedActions struct{ calls chan string }

func (actions *recordedActions) Start(context.Context) error  { actions.calls <- "start"; return nil }
func (actions *recordedActions) Pause(context.Context) error  { actions.calls <- "pause"; return nil }
func (actions *recordedActions) Resume(context.Context) error { actions.calls <- "resume"; return nil }
func (actions *recordedActions) Clear(context.Context) error  { actions.calls <- "clear"; return nil }

var (
	idleIcon    = fyne.NewStaticResource("idle.svg", []byte("<svg/>"))
	runningIcon = fyne.NewStaticResource("running.svg", []byte("<svg></svg>"))
)

func newTestManager(t *testing.T) (*Manager, *recordingApp) {
	t.Helper()
	test.NewTempApp(t)
	app := &recordingApp{}
	manager := New(app, Icons{Idle: idleIcon, Running: runningIcon}, Callbacks{})
	return manager, app
}

func TestMenuStartsWithCommandsDisabled(t *testing.T) {
	_, app := newTestManager(t)

	assert.Equal(t, []fyne.Resource{idleIcon}, app.icons)
	for _, label := range []string{"Start", "Pause", "Resume", "Clear"} {
		assert.True(t, app.item(t, label).Disabled, label)
	}
}

func TestApplyMirrorsEnablementAndIcon(t *testing.T) {
	manager, app := newTestManager(t)

	manager.apply(presenter.Present(timer.State{
		Phase:         timer.PhaseWork,
		Status:        timer.StatusRunning,
		RemainingSecs: 65,
		DurationSecs:  1500,
		StateLabel:    "Working",
	}))
	assert.Equal(t, "01:05  Working", app.menu.Items[0].Label)
	assert.True(t, app.item(t, "Start").Disabled)
	assert.False(t, app.item(t, "Pause").Disabled)
	assert.True(t, app.item(t, "Resume").Disabled)
	assert.False(t, app.item(t, "Clear").Disabled)
	assert.Equal(t, []fyne.Resource{idleIcon, runningIcon}, app.icons)

	manager.apply(presenter.Present(timer.State{
		Phase:         timer.PhaseWork,
		Status:        timer.StatusPaused,
		RemainingSecs: 65,
		DurationSecs:  1500,
		StateLabel:    "Paused work",
	}))
	assert.False(t, app.item(t, "Resume").Disabled)
	assert.True(t, app.item(t, "Pause").Disabled)
	assert.Equal(t, []fyne.Resource{idleIcon, runningIcon, idleIcon}, app.icons)

	// Same status again does not reset the icon.
	manager.apply(presenter.Present(timer.State{Status: timer.StatusPaused, DurationSecs: 1500}))
	assert.Len(t, app.icons, 3)
}

func TestMenuItemsDispatchToActions(t *testing.T) {
	manager, app := newTestManager(t)
	actions := &recordedActions{calls: make(chan string, 1)}
	manager.Bind(t.Context(), actions)

	app.item(t, "Start").Action()
	assert.Equal(t, "start", <-actions.calls)
}
