package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"pomodoro/internal/presenter"
)

// textRenderer prints views. In watch mode it redraws a single line.
type textRenderer struct {
	mu    sync.Mutex
	out   io.Writer
	watch bool
}

func (renderer *textRenderer) Render(view presenter.View) {
	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	if renderer.watch {
		fmt.Fprintf(renderer.out, "\r\033[K%s", view)
		return
	}
	fmt.Fprintln(renderer.out, view)
}

// promptConfirmer asks y/N on the terminal.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(in io.Reader, out io.Writer) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(in), out: out}
}

func (confirmer *promptConfirmer) Confirm(prompt string, decide func(confirmed bool)) {
	fmt.Fprintf(confirmer.out, "%s [y/N] ", prompt)
	line, err := confirmer.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(confirmer.out)
		decide(false)
		return
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	decide(answer == "y" || answer == "yes")
}

// bell rings the terminal bell, then plays next (the audio chime) if set.
type bell struct {
	out  io.Writer
	next interface{ Play() }
}

func (cue bell) Play() {
	fmt.Fprint(cue.out, "\a")
	if cue.next != nil {
		cue.next.Play()
	}
}
