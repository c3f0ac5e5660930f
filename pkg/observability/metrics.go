// Package observability exposes simulation metrics through Prometheus.
// Metrics are fed by the engine's lifecycle hooks, so embedders compose
// them with their own hooks instead of the engine knowing about metrics.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/sluice/pkg/domain"
)

// Metrics holds the engine collectors.
type Metrics struct {
	Ticks         prometheus.Counter
	CurrentTick   prometheus.Gauge
	TokensCreated *prometheus.CounterVec
	TokensMoved   *prometheus.CounterVec
	TokensDropped *prometheus.CounterVec
	Transitions   *prometheus.CounterVec
}

// New creates and registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sluice_ticks_total",
			Help: "Total number of simulation ticks",
		}),
		CurrentTick: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sluice_current_tick",
			Help: "Current logical clock value",
		}),
		TokensCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sluice_tokens_created_total",
			Help: "Total tokens created, by origin node",
		}, []string{"node_id"}),
		TokensMoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sluice_tokens_moved_total",
			Help: "Total token deliveries, by destination node",
		}, []string{"node_id"}),
		TokensDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sluice_tokens_dropped_total",
			Help: "Total tokens dropped on buffer overflow, by node",
		}, []string{"node_id"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sluice_transitions_total",
			Help: "Total state machine transitions, by node and trigger",
		}, []string{"node_id", "trigger"}),
	}
	reg.MustRegister(m.Ticks, m.CurrentTick, m.TokensCreated, m.TokensMoved, m.TokensDropped, m.Transitions)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTick: func(_ context.Context, tick int64) {
			m.Ticks.Inc()
			m.CurrentTick.Set(float64(tick))
		},
		OnTokenCreated: func(_ context.Context, e *domain.TokenEvent) {
			m.TokensCreated.WithLabelValues(e.NodeID).Inc()
		},
		OnTokenMoved: func(_ context.Context, e *domain.MoveEvent) {
			m.TokensMoved.WithLabelValues(e.To).Inc()
		},
		OnTokenDropped: func(_ context.Context, e *domain.DropEvent) {
			m.TokensDropped.WithLabelValues(e.NodeID).Inc()
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.NodeID, string(e.Trigger)).Inc()
		},
	}
}

// Merge composes hook sets so metrics and custom hooks can both observe
// the same run.
func Merge(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	merged := domain.LifecycleHooks{}
	merged.OnTick = func(ctx context.Context, tick int64) {
		for _, h := range hooks {
			if h.OnTick != nil {
				h.OnTick(ctx, tick)
			}
		}
	}
	merged.OnTokenCreated = func(ctx context.Context, e *domain.TokenEvent) {
		for _, h := range hooks {
			if h.OnTokenCreated != nil {
				h.OnTokenCreated(ctx, e)
			}
		}
	}
	merged.OnTokenMoved = func(ctx context.Context, e *domain.MoveEvent) {
		for _, h := range hooks {
			if h.OnTokenMoved != nil {
				h.OnTokenMoved(ctx, e)
			}
		}
	}
	merged.OnTokenDropped = func(ctx context.Context, e *domain.DropEvent) {
		for _, h := range hooks {
			if h.OnTokenDropped != nil {
				h.OnTokenDropped(ctx, e)
			}
		}
	}
	merged.OnTransition = func(ctx context.Context, e *domain.TransitionEvent) {
		for _, h := range hooks {
			if h.OnTransition != nil {
				h.OnTransition(ctx, e)
			}
		}
	}
	return merged
}
