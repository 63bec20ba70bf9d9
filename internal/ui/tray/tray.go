package tray

import (
	"context"

	"fyne.io/fyne/v2"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/presenter"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnPreferences func()
	OnQuit        func()
}

// Actions are the timer commands offered in the menu.
type Actions interface {
	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Clear(ctx context.Context) error
}

// Icons switch with the timer status.
type Icons struct {
	Idle    fyne.Resource
	Running fyne.Resource
}

// App is the part of desktop.App the tray uses.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Manager mirrors the timer in the system tray menu.
type Manager struct {
	app        App
	callbacks  Callbacks
	icons      Icons
	statusItem *fyne.MenuItem
	todayItem  *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	resumeItem *fyne.MenuItem
	clearItem  *fyne.MenuItem
	running    bool
	ctx        context.Context
	actions    Actions
}

// New installs the tray menu and icon.
func New(app App, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		icons:     icons,
	}

	manager.statusItem = fyne.NewMenuItem("Connecting...", nil)
	manager.statusItem.Disabled = true
	manager.todayItem = fyne.NewMenuItem(presenter.TodaySummary(0), nil)
	manager.todayItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start", manager.dispatch(Actions.Start))
	manager.pauseItem = fyne.NewMenuItem("Pause", manager.dispatch(Actions.Pause))
	manager.resumeItem = fyne.NewMenuItem("Resume", manager.dispatch(Actions.Resume))
	manager.clearItem = fyne.NewMenuItem("Clear", manager.dispatch(Actions.Clear))
	manager.applyEnabled(presenter.View{})

	if icons.Idle != nil {
		app.SetSystemTrayIcon(icons.Idle)
	}
	manager.refreshMenu()
	return manager
}

// Bind routes the timer menu items to actions.
func (manager *Manager) Bind(ctx context.Context, actions Actions) {
	manager.ctx = ctx
	manager.actions = actions
}

// Render implements client.Renderer. Safe from any goroutine.
func (manager *Manager) Render(view presenter.View) {
	fyne.Do(func() {
		manager.apply(view)
	})
}

func (manager *Manager) apply(view presenter.View) {
	manager.statusItem.Label = view.String()
	manager.applyEnabled(view)
	manager.setRunning(view.Status == timer.StatusRunning)
	manager.refreshMenu()
}

// SetTodayCount updates the completed-today line.
func (manager *Manager) SetTodayCount(count int) {
	fyne.Do(func() {
		manager.todayItem.Label = presenter.TodaySummary(count)
		manager.refreshMenu()
	})
}

func (manager *Manager) applyEnabled(view presenter.View) {
	manager.startItem.Disabled = !view.StartEnabled
	manager.pauseItem.Disabled = !view.PauseEnabled
	manager.resumeItem.Disabled = !view.ResumeEnabled
	manager.clearItem.Disabled = !view.ClearEnabled
}

func (manager *Manager) setRunning(running bool) {
	if running == manager.running {
		return
	}
	manager.running = running
	icon := manager.icons.Idle
	if running {
		icon = manager.icons.Running
	}
	if icon != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	items := []*fyne.MenuItem{manager.statusItem}
	if manager.todayItem.Label != "" {
		items = append(items, manager.todayItem)
	}
	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show timer", invoke(&manager.callbacks.OnShow)),
		manager.startItem,
		manager.pauseItem,
		manager.resumeItem,
		manager.clearItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", invoke(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit)),
	)
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Pomodoro", items...))
}

func invoke(callback *func()) func() {
	return func() {
		if *callback != nil {
			(*callback)()
		}
	}
}

func (manager *Manager) dispatch(command func(Actions, context.Context) error) func() {
	return func() {
		actions := manager.actions
		if actions == nil {
			return
		}
		ctx := manager.ctx
		go func() {
			_ = command(actions, ctx)
		}()
	}
}
