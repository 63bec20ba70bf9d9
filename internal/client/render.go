package client

import "pomodoro/internal/presenter"

// RenderFunc adapts a function to Renderer.
type RenderFunc func(view presenter.View)

// Render calls fn(view).
func (fn RenderFunc) Render(view presenter.View) {
	fn(view)
}

// Renderers fans a view out to several renderers in order.
type Renderers []Renderer

// Render forwards view to every renderer.
func (renderers Renderers) Render(view presenter.View) {
	for _, renderer := range renderers {
		if renderer != nil {
			renderer.Render(view)
		}
	}
}
