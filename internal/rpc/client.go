package rpc

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"

	"pomodoro/internal/core/timer"
)

// Client calls a remote timer backend.
type Client struct {
	getState    *connect.Client[Empty, timer.State]
	startTimer  *connect.Client[Empty, timer.State]
	pauseTimer  *connect.Client[Empty, timer.State]
	resumeTimer *connect.Client[Empty, timer.State]
	clearTimer  *connect.Client[Empty, timer.State]
	setPhase    *connect.Client[SetPhaseRequest, timer.State]
}

// NewClient creates a client for the backend at baseURL. A nil httpClient
// uses a client with a short timeout, since the backend is local.
func NewClient(httpClient connect.HTTPClient, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	baseURL = strings.TrimRight(baseURL, "/")
	codec := connect.WithCodec(jsonCodec{})

	return &Client{
		getState:    connect.NewClient[Empty, timer.State](httpClient, baseURL+GetStateProcedure, codec),
		startTimer:  connect.NewClient[Empty, timer.State](httpClient, baseURL+StartTimerProcedure, codec),
		pauseTimer:  connect.NewClient[Empty, timer.State](httpClient, baseURL+PauseTimerProcedure, codec),
		resumeTimer: connect.NewClient[Empty, timer.State](httpClient, baseURL+ResumeTimerProcedure, codec),
		clearTimer:  connect.NewClient[Empty, timer.State](httpClient, baseURL+ClearTimerProcedure, codec),
		setPhase:    connect.NewClient[SetPhaseRequest, timer.State](httpClient, baseURL+SetPhaseProcedure, codec),
	}
}

// GetState queries the current timer state.
func (client *Client) GetState(ctx context.Context) (timer.State, error) {
	response, err := client.getState.CallUnary(ctx, connect.NewRequest(&Empty{}))
	if err != nil {
		return timer.State{}, fmt.Errorf("get_state: %w", err)
	}
	return *response.Msg, nil
}

// StartTimer starts a countdown.
func (client *Client) StartTimer(ctx context.Context) error {
	return call(ctx, client.startTimer, "start_timer")
}

// PauseTimer pauses the running countdown.
func (client *Client) PauseTimer(ctx context.Context) error {
	return call(ctx, client.pauseTimer, "pause_timer")
}

// ResumeTimer resumes a paused countdown.
func (client *Client) ResumeTimer(ctx context.Context) error {
	return call(ctx, client.resumeTimer, "resume_timer")
}

// ClearTimer resets the session.
func (client *Client) ClearTimer(ctx context.Context) error {
	return call(ctx, client.clearTimer, "clear_timer")
}

// SetPhase switches between work and break.
func (client *Client) SetPhase(ctx context.Context, phase timer.Phase) error {
	_, err := client.setPhase.CallUnary(ctx, connect.NewRequest(&SetPhaseRequest{Phase: string(phase)}))
	if err != nil {
		return fmt.Errorf("set_phase: %w", err)
	}
	return nil
}

func call(ctx context.Context, client *connect.Client[Empty, timer.State], name string) error {
	if _, err := client.CallUnary(ctx, connect.NewRequest(&Empty{})); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
