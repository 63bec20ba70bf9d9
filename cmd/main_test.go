package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/core/timer"
	"pomodoro/internal/platform"
	"pomodoro/internal/presenter"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	kongCtx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, kongCtx
}

func TestDefaultCommandIsRun(t *testing.T) {
	cli, kongCtx := parse(t)
	assert.Equal(t, "run", kongCtx.Command())
	assert.Equal(t, time.Second, cli.Run.Poll)
	assert.Equal(t, "http://"+platform.DefaultAddress(appName), cli.backendURL())
}

func TestAddrFromEnvironment(t *testing.T) {
	t.Setenv("POMODORO_ADDR", "127.0.0.1:4321")
	cli, kongCtx := parse(t, "status", "--watch")
	assert.Equal(t, "status", kongCtx.Command())
	assert.True(t, cli.Status.Watch)
	assert.Equal(t, "http://127.0.0.1:4321", cli.backendURL())
}

func TestPhaseArgumentIsValidated(t *testing.T) {
	cli, _ := parse(t, "phase", "break")
	assert.Equal(t, "break", cli.Phase.Phase)

	var bad CLI
	parser, err := kong.New(&bad, kong.Vars{"version": "test"})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"phase", "lunch"})
	assert.Error(t, err)
}

func TestTextRendererModes(t *testing.T) {
	view := presenter.Present(timer.State{
		Phase:         timer.PhaseWork,
		Status:        timer.StatusRunning,
		RemainingSecs: 65,
		DurationSecs:  1500,
		StateLabel:    "Working",
	})

	var plain bytes.Buffer
	(&textRenderer{out: &plain}).Render(view)
	assert.Equal(t, "01:05  Working\n", plain.String())

	var watch bytes.Buffer
	(&textRenderer{out: &watch, watch: true}).Render(view)
	assert.Equal(t, "\r\033[K01:05  Working", watch.String())
}

func TestPromptConfirmer(t *testing.T) {
	cases := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
	}
	for input, want := range cases {
		var out bytes.Buffer
		var got *bool
		newPromptConfirmer(strings.NewReader(input), &out).Confirm(presenter.ClearPrompt, func(confirmed bool) {
			got = &confirmed
		})
		require.NotNil(t, got, "input %q", input)
		assert.Equal(t, want, *got, "input %q", input)
		assert.Contains(t, out.String(), "[y/N]")
	}
}

func TestStartOfDay(t *testing.T) {
	now := time.Date(2026, 5, 4, 17, 30, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), startOfDay(now))
}

type countingCue struct{ plays int }

func (cue *countingCue) Play() { cue.plays++ }

func TestBellRingsThenPlaysChime(t *testing.T) {
	var out bytes.Buffer
	next := &countingCue{}

	bell{out: &out, next: next}.Play()
	assert.Equal(t, "\a", out.String())
	assert.Equal(t, 1, next.plays)

	out.Reset()
	bell{out: &out}.Play()
	assert.Equal(t, "\a", out.String())
}
