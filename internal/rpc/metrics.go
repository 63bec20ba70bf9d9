package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"pomodoro/internal/core/timer"
)

// Metrics holds the backend's Prometheus collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	completions *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pomodoro",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Timer RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pomodoro",
			Name:      "completions_total",
			Help:      "Countdowns that reached zero, by phase.",
		}, []string{"phase"}),
	}
	metrics.registry.MustRegister(metrics.requests, metrics.completions)
	return metrics
}

// Handler exposes the registry in the Prometheus text format.
func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}

// ObserveCompletion counts a countdown reaching zero.
func (metrics *Metrics) ObserveCompletion(phase timer.Phase) {
	metrics.completions.WithLabelValues(string(phase)).Inc()
}

func (metrics *Metrics) interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, request connect.AnyRequest) (connect.AnyResponse, error) {
			response, err := next(ctx, request)
			procedure := request.Spec().Procedure
			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
				log.Debug().Err(err).Str("procedure", procedure).Str("code", code).Msg("rpc rejected")
			}
			metrics.requests.WithLabelValues(procedure, code).Inc()
			return response, err
		}
	}
}
