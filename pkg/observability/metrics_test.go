package observability_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/observability"
)

const droppingScenario = `
nodes:
  - id: feed
    kind: source
    interval: 1
    value: 5
    outputs:
      - name: out
        target: narrow
  - id: narrow
    kind: queue
    capacity: 1
    window: 100
    method: sum
    outputs:
      - name: out
        target: bin
  - id: bin
    kind: sink
`

func TestMetrics_FedByEngineRun(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := observability.New(registry)

	engine := sluice.New(sluice.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, engine.LoadScenario([]byte(droppingScenario)))
	require.NoError(t, engine.Step(context.Background(), 3))

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Ticks))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.CurrentTick))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.TokensCreated.WithLabelValues("feed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.TokensMoved.WithLabelValues("narrow")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.TokensDropped.WithLabelValues("narrow")))
}

func TestMetrics_Transitions(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := observability.New(registry)

	hooks := metrics.Hooks()
	hooks.OnTransition(context.Background(), &domain.TransitionEvent{
		NodeID:  "m",
		From:    "idle",
		To:      "active",
		Trigger: domain.TriggerTokenReceived,
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("m", "token_received")))
}

func TestMerge_FansOutToAllHookSets(t *testing.T) {
	var ticks []int64
	var created, moved, dropped, transitions int

	counting := domain.LifecycleHooks{
		OnTick:         func(_ context.Context, tick int64) { ticks = append(ticks, tick) },
		OnTokenCreated: func(_ context.Context, _ *domain.TokenEvent) { created++ },
		OnTokenMoved:   func(_ context.Context, _ *domain.MoveEvent) { moved++ },
		OnTokenDropped: func(_ context.Context, _ *domain.DropEvent) { dropped++ },
		OnTransition:   func(_ context.Context, _ *domain.TransitionEvent) { transitions++ },
	}
	// An empty hook set in the middle must not break fan-out.
	merged := observability.Merge(counting, domain.LifecycleHooks{}, counting)

	ctx := context.Background()
	merged.OnTick(ctx, 7)
	merged.OnTokenCreated(ctx, &domain.TokenEvent{})
	merged.OnTokenMoved(ctx, &domain.MoveEvent{})
	merged.OnTokenDropped(ctx, &domain.DropEvent{})
	merged.OnTransition(ctx, &domain.TransitionEvent{})

	assert.Equal(t, []int64{7, 7}, ticks)
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, moved)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 2, transitions)
}
