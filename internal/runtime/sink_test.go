package runtime_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice/pkg/domain"
)

func TestSink_RetainsBoundedWindow(t *testing.T) {
	engine := newEngine(t)
	def := &domain.Definition{
		Nodes: []domain.NodeConfig{
			&domain.SourceConfig{
				ID: "src", Interval: 1, Value: fixed(1),
				Ports: []domain.Port{{Name: "out", Target: "end"}},
			},
			&domain.SinkConfig{ID: "end", RetainLimit: 3},
		},
	}
	require.NoError(t, engine.Load(def))
	require.NoError(t, engine.Step(context.Background(), 10))

	end, _ := engine.State("end")
	sink := end.(*domain.SinkState)
	assert.EqualValues(t, 10, sink.Consumed, "the count keeps growing")
	assert.Len(t, sink.Retained, 3, "only the most recent ids are retained")
	assert.EqualValues(t, 10, sink.LastConsumed)

	// The retained window holds the newest tokens.
	for _, id := range sink.Retained {
		tok, err := engine.Token(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, tok.CreatedAt, int64(8))
	}
}

func TestSink_EvictedTokensStayQueryable(t *testing.T) {
	engine := newEngine(t)
	def := &domain.Definition{
		Nodes: []domain.NodeConfig{
			&domain.SourceConfig{
				ID: "src", Interval: 1, Value: fixed(1),
				Ports: []domain.Port{{Name: "out", Target: "end"}},
			},
			&domain.SinkConfig{ID: "end", RetainLimit: 1},
		},
	}
	require.NoError(t, engine.Load(def))
	require.NoError(t, engine.Step(context.Background(), 3))

	// The first token aged out of the retained window but its identity and
	// lineage survive in the registry.
	tok, err := engine.Token("t-000001")
	require.NoError(t, err)
	assert.EqualValues(t, 1, tok.CreatedAt)

	lin, err := engine.Lineage("t-000001")
	require.NoError(t, err)
	assert.Equal(t, 0, lin.Generation)
}

func TestEnhancedMachine_DrainsToConnectedSinks(t *testing.T) {
	engine := newEngine(t)
	def := &domain.Definition{
		Nodes: []domain.NodeConfig{
			&domain.SourceConfig{
				ID: "src", Interval: 1, Value: fixed(5),
				Ports: []domain.Port{{Name: "out", Target: "esm"}},
			},
			&domain.EnhancedStateMachineConfig{
				ID:      "esm",
				Streams: []string{"main"},
				Ports: []domain.Port{
					{Name: "out", Target: "end"},
					{Name: "side", Target: "q"}, // non-sink targets are skipped
				},
			},
			&domain.QueueConfig{
				ID: "q", Capacity: 10, Window: 1, Method: domain.AggregateSum,
				Ports: []domain.Port{{Name: "out", Target: "end"}},
			},
			&domain.SinkConfig{ID: "end"},
		},
	}
	require.NoError(t, engine.Load(def))
	require.NoError(t, engine.Step(context.Background(), 1))

	esm, _ := engine.State("esm")
	buffer := esm.(*domain.EnhancedStateMachineState)
	assert.Empty(t, buffer.Buffer, "drained within the tick")

	end, _ := engine.State("end")
	sink := end.(*domain.SinkState)
	assert.EqualValues(t, 1, sink.Consumed)

	q, _ := engine.State("q")
	queue := q.(*domain.QueueState)
	assert.Empty(t, queue.Input, "queue targets are not part of the drain")
}

func TestEnhancedMachine_BuffersUntilNextDrain(t *testing.T) {
	// The drain pass runs before queue forwarding, so a token forwarded by
	// a queue this tick waits in the buffer until the next one.
	engine := newEngine(t)
	def := &domain.Definition{
		Nodes: []domain.NodeConfig{
			&domain.SourceConfig{
				ID: "src", Interval: 1, Value: fixed(5),
				Ports: []domain.Port{{Name: "out", Target: "q"}},
			},
			&domain.QueueConfig{
				ID: "q", Capacity: 10, Window: 1, Method: domain.AggregateSum,
				Ports: []domain.Port{{Name: "out", Target: "esm"}},
			},
			&domain.EnhancedStateMachineConfig{
				ID:    "esm",
				Ports: []domain.Port{{Name: "out", Target: "end"}},
			},
			&domain.SinkConfig{ID: "end"},
		},
	}
	require.NoError(t, engine.Load(def))

	require.NoError(t, engine.Step(context.Background(), 1))
	esm, _ := engine.State("esm")
	buffer := esm.(*domain.EnhancedStateMachineState)
	assert.Len(t, buffer.Buffer, 1)

	end, _ := engine.State("end")
	assert.EqualValues(t, 0, end.(*domain.SinkState).Consumed)

	require.NoError(t, engine.Step(context.Background(), 1))
	assert.EqualValues(t, 1, end.(*domain.SinkState).Consumed)
}

func TestModule_BootstrapsWithoutExecution(t *testing.T) {
	engine := newEngine(t)
	def := &domain.Definition{
		Nodes: []domain.NodeConfig{
			&domain.ModuleConfig{ID: "sub", Subgraph: map[string]any{"nodes": []any{}}},
			&domain.SinkConfig{ID: "end"},
		},
	}
	require.NoError(t, engine.Load(def))
	require.NoError(t, engine.Step(context.Background(), 5))

	st, ok := engine.State("sub")
	require.True(t, ok)
	assert.Equal(t, domain.PhaseIdle, st.Phase())
	assert.Empty(t, engine.NodeLedger("sub"))
}
