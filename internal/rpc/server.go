package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"pomodoro/internal/core/timer"
)

// Engine is the timer state machine served over RPC.
type Engine interface {
	State() timer.State
	StartTimer() (timer.State, error)
	PauseTimer() (timer.State, error)
	ResumeTimer() (timer.State, error)
	ClearTimer() timer.State
	SetPhase(phase timer.Phase) (timer.State, error)
}

type timerService struct {
	engine Engine
}

// NewHandler builds the HTTP handler exposing the timer service, a health
// check and the metrics endpoint.
func NewHandler(engine Engine, metrics *Metrics) http.Handler {
	service := &timerService{engine: engine}
	options := []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(metrics.interceptor()),
	}

	mux := http.NewServeMux()
	mux.Handle(GetStateProcedure, connect.NewUnaryHandler(GetStateProcedure, service.getState, options...))
	mux.Handle(StartTimerProcedure, connect.NewUnaryHandler(StartTimerProcedure, service.startTimer, options...))
	mux.Handle(PauseTimerProcedure, connect.NewUnaryHandler(PauseTimerProcedure, service.pauseTimer, options...))
	mux.Handle(ResumeTimerProcedure, connect.NewUnaryHandler(ResumeTimerProcedure, service.resumeTimer, options...))
	mux.Handle(ClearTimerProcedure, connect.NewUnaryHandler(ClearTimerProcedure, service.clearTimer, options...))
	mux.Handle(SetPhaseProcedure, connect.NewUnaryHandler(SetPhaseProcedure, service.setPhase, options...))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Warn().Err(err).Msg("write health check response")
		}
	})
	mux.Handle("/metrics", metrics.Handler())

	return h2c.NewHandler(mux, &http2.Server{})
}

// Serve answers requests on listener until ctx is cancelled.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	log.Info().Str("addr", listener.Addr().String()).Msg("timer backend listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve rpc: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown rpc: %w", err)
	}
	return nil
}

func (service *timerService) getState(_ context.Context, _ *connect.Request[Empty]) (*connect.Response[timer.State], error) {
	return connect.NewResponse(ptr(service.engine.State())), nil
}

func (service *timerService) startTimer(_ context.Context, _ *connect.Request[Empty]) (*connect.Response[timer.State], error) {
	return respond(service.engine.StartTimer())
}

func (service *timerService) pauseTimer(_ context.Context, _ *connect.Request[Empty]) (*connect.Response[timer.State], error) {
	return respond(service.engine.PauseTimer())
}

func (service *timerService) resumeTimer(_ context.Context, _ *connect.Request[Empty]) (*connect.Response[timer.State], error) {
	return respond(service.engine.ResumeTimer())
}

func (service *timerService) clearTimer(_ context.Context, _ *connect.Request[Empty]) (*connect.Response[timer.State], error) {
	return connect.NewResponse(ptr(service.engine.ClearTimer())), nil
}

func (service *timerService) setPhase(_ context.Context, request *connect.Request[SetPhaseRequest]) (*connect.Response[timer.State], error) {
	phase, err := timer.ParsePhase(request.Msg.Phase)
	if err != nil {
		return nil, toConnectError(err)
	}
	return respond(service.engine.SetPhase(phase))
}

func respond(state timer.State, err error) (*connect.Response[timer.State], error) {
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&state), nil
}

func toConnectError(err error) error {
	if errors.Is(err, timer.ErrInvalidPhase) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(connect.CodeFailedPrecondition, err)
}

func ptr[T any](value T) *T {
	return &value
}
