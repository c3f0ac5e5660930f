package runtime_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice/internal/runtime"
	"github.com/aretw0/sluice/pkg/domain"
)

func TestTracker_RootToken(t *testing.T) {
	tracker := runtime.NewTracker()

	tok := tracker.Create("src", 5, 1, nil)
	assert.Equal(t, "t-000001", tok.ID)
	assert.Equal(t, "src", tok.Origin)
	assert.EqualValues(t, 1, tok.CreatedAt)

	lin, ok := tracker.Lineage(tok.ID)
	require.True(t, ok)
	assert.Equal(t, 0, lin.Generation)
	assert.Empty(t, lin.Sources)
	assert.Equal(t, []string{tok.ID}, lin.UltimateSources, "a root is its own ultimate source")
}

func TestTracker_DerivedToken(t *testing.T) {
	tracker := runtime.NewTracker()
	a := tracker.Create("src1", 1, 1, nil)
	b := tracker.Create("src2", 2, 1, nil)

	merged := tracker.Create("q", 3, 2, []string{a.ID, b.ID})
	lin, ok := tracker.Lineage(merged.ID)
	require.True(t, ok)
	assert.Equal(t, 1, lin.Generation)
	assert.Equal(t, []string{a.ID, b.ID}, lin.Sources)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, lin.UltimateSources)
}

func TestTracker_GenerationIsMaxPlusOne(t *testing.T) {
	tracker := runtime.NewTracker()
	root := tracker.Create("src", 1, 1, nil)
	gen1 := tracker.Create("q1", 1, 2, []string{root.ID})
	gen2 := tracker.Create("q2", 1, 3, []string{gen1.ID})

	// Mixing a root and a generation-2 token yields generation 3.
	mixed := tracker.Create("p", 1, 4, []string{root.ID, gen2.ID})
	lin, _ := tracker.Lineage(mixed.ID)
	assert.Equal(t, 3, lin.Generation)
}

func TestTracker_UltimateSourcesDeduplicated(t *testing.T) {
	tracker := runtime.NewTracker()
	root := tracker.Create("src", 1, 1, nil)
	left := tracker.Create("q1", 1, 2, []string{root.ID})
	right := tracker.Create("q2", 1, 2, []string{root.ID})

	// Both branches trace back to the same root; it must appear once.
	merged := tracker.Create("p", 2, 3, []string{left.ID, right.ID})
	lin, _ := tracker.Lineage(merged.ID)
	assert.Equal(t, []string{root.ID}, lin.UltimateSources)
	assert.Equal(t, 2, lin.Generation)
}

func TestTracker_UnrecordedSourceTreatedAsUltimate(t *testing.T) {
	tracker := runtime.NewTracker()

	tok := tracker.Create("q", 1, 1, []string{"external"})
	lin, _ := tracker.Lineage(tok.ID)
	assert.Equal(t, 1, lin.Generation)
	assert.Equal(t, []string{"external"}, lin.UltimateSources)
}

func TestTracker_Count(t *testing.T) {
	tracker := runtime.NewTracker()
	tracker.Create("src", 1, 1, nil)
	tracker.Create("src", 2, 2, nil)
	assert.Equal(t, 2, tracker.Count())
}

func TestLineage_FlowsThroughPipeline(t *testing.T) {
	// source -> queue -> sink: the aggregated token is generation 1 with
	// the source token as both direct and ultimate source.
	engine := newEngine(t)
	require.NoError(t, engine.Load(pipelineDef(5, 1, domain.AggregateSum)))
	require.NoError(t, engine.Step(context.Background(), 1))

	end, _ := engine.State("end")
	sink := end.(*domain.SinkState)
	require.Len(t, sink.Retained, 1)

	lin, err := engine.Lineage(sink.Retained[0])
	require.NoError(t, err)
	assert.Equal(t, 1, lin.Generation)
	require.Len(t, lin.Sources, 1)
	assert.Equal(t, lin.Sources, lin.UltimateSources)

	rootLin, err := engine.Lineage(lin.Sources[0])
	require.NoError(t, err)
	assert.Equal(t, 0, rootLin.Generation)
}

func TestLineage_MachineEmitIsRoot(t *testing.T) {
	// Tokens emitted by state machine actions carry no sources: the
	// machine originates them.
	engine := newEngine(t)
	def := &domain.Definition{
		Nodes: []domain.NodeConfig{
			&domain.SourceConfig{
				ID: "src", Interval: 1, Value: fixed(1),
				Ports: []domain.Port{{Name: "out", Target: "m"}},
			},
			&domain.StateMachineConfig{
				ID:      "m",
				Initial: "idle",
				States: []domain.StateDef{
					{Name: "idle"},
					{Name: "active", OnEntry: []domain.ActionDef{{Type: domain.ActionEmit, Output: "signal", Literal: fixed(1)}}},
				},
				Transitions: []domain.TransitionDef{
					{From: "idle", To: "active", Trigger: domain.TriggerTokenReceived},
				},
				Ports: []domain.Port{{Name: "signal", Target: "end"}},
			},
			&domain.SinkConfig{ID: "end"},
		},
	}
	require.NoError(t, engine.Load(def))
	require.NoError(t, engine.Step(context.Background(), 1))

	end, _ := engine.State("end")
	sink := end.(*domain.SinkState)
	require.Len(t, sink.Retained, 1)

	lin, err := engine.Lineage(sink.Retained[0])
	require.NoError(t, err)
	assert.Equal(t, 0, lin.Generation)
	assert.Empty(t, lin.Sources)
}
