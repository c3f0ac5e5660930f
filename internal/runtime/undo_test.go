package runtime_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice/pkg/domain"
)

func queueMethod(t *testing.T, def *domain.Definition) domain.AggregationMethod {
	t.Helper()
	cfg, ok := def.Node("q")
	require.True(t, ok)
	return cfg.(*domain.QueueConfig).Method
}

func TestUndo_RestoresPreviousSave(t *testing.T) {
	engine := newEngine(t)
	require.NoError(t, engine.Load(pipelineDef(5, 1, domain.AggregateSum)))

	// Edit then save: the stack now holds the baseline and the edit.
	require.NoError(t, engine.Edit(pipelineDef(5, 1, domain.AggregateAverage)))
	require.NoError(t, engine.SaveSnapshot("switched to average"))

	require.NoError(t, engine.Undo())
	assert.Equal(t, domain.AggregateSum, queueMethod(t, engine.Definition()))

	require.NoError(t, engine.Redo())
	assert.Equal(t, domain.AggregateAverage, queueMethod(t, engine.Definition()))
}

func TestUndo_EmptyStack(t *testing.T) {
	engine := newEngine(t)
	require.NoError(t, engine.Load(pipelineDef(5, 1, domain.AggregateSum)))

	// Only the baseline exists; there is nothing to undo past it.
	assert.ErrorIs(t, engine.Undo(), domain.ErrNothingToUndo)
	assert.ErrorIs(t, engine.Redo(), domain.ErrNothingToRedo)
}

func TestUndo_WithoutDefinition(t *testing.T) {
	engine := newEngine(t)
	assert.ErrorIs(t, engine.Undo(), domain.ErrNoDefinition)
	assert.ErrorIs(t, engine.Redo(), domain.ErrNoDefinition)
	assert.ErrorIs(t, engine.SaveSnapshot("x"), domain.ErrNoDefinition)
}

func TestUndo_SaveClearsRedo(t *testing.T) {
	engine := newEngine(t)
	require.NoError(t, engine.Load(pipelineDef(5, 1, domain.AggregateSum)))

	require.NoError(t, engine.Edit(pipelineDef(5, 1, domain.AggregateAverage)))
	require.NoError(t, engine.SaveSnapshot("average"))
	require.NoError(t, engine.Undo())

	_, redo := engine.SnapshotDepths()
	require.Equal(t, 1, redo)

	// A new save forks history: the undone branch is discarded.
	require.NoError(t, engine.Edit(pipelineDef(5, 1, domain.AggregateCount)))
	require.NoError(t, engine.SaveSnapshot("count"))

	_, redo = engine.SnapshotDepths()
	assert.Zero(t, redo)
	assert.ErrorIs(t, engine.Redo(), domain.ErrNothingToRedo)
}

func TestUndo_StackBounded(t *testing.T) {
	engine := newEngine(t)
	require.NoError(t, engine.Load(pipelineDef(5, 1, domain.AggregateSum)))

	for i := 0; i < domain.SnapshotStackLimit+10; i++ {
		require.NoError(t, engine.SaveSnapshot("checkpoint"))
	}

	undo, redo := engine.SnapshotDepths()
	assert.Equal(t, domain.SnapshotStackLimit, undo)
	assert.Zero(t, redo)
}

func TestUndo_RebuildsRuntimeState(t *testing.T) {
	engine := newEngine(t)
	require.NoError(t, engine.Load(pipelineDef(5, 1, domain.AggregateSum)))
	require.NoError(t, engine.SaveSnapshot("before run"))
	require.NoError(t, engine.Step(context.Background(), 5))

	runID := engine.RunID()
	require.EqualValues(t, 5, engine.Tick())

	require.NoError(t, engine.Undo())

	// Restoring resets the clock, ledgers and run identity; undo reverts
	// structure, not simulation progress.
	assert.EqualValues(t, 0, engine.Tick())
	assert.NotEqual(t, runID, engine.RunID())
	assert.Empty(t, engine.GlobalLedger())

	end, _ := engine.State("end")
	assert.EqualValues(t, 0, end.(*domain.SinkState).Consumed)
}

func TestUndo_LoadResetsHistory(t *testing.T) {
	engine := newEngine(t)
	require.NoError(t, engine.Load(pipelineDef(5, 1, domain.AggregateSum)))
	require.NoError(t, engine.SaveSnapshot("a"))
	require.NoError(t, engine.SaveSnapshot("b"))

	undo, _ := engine.SnapshotDepths()
	require.Equal(t, 3, undo)

	require.NoError(t, engine.Load(pipelineDef(7, 1, domain.AggregateSum)))
	undo, redo := engine.SnapshotDepths()
	assert.Equal(t, 1, undo, "fresh baseline only")
	assert.Zero(t, redo)
}

func TestUndo_SequenceWalksBothWays(t *testing.T) {
	engine := newEngine(t)
	require.NoError(t, engine.Load(pipelineDef(5, 1, domain.AggregateSum)))

	methods := []domain.AggregationMethod{domain.AggregateAverage, domain.AggregateCount, domain.AggregateLast}
	for _, m := range methods {
		require.NoError(t, engine.Edit(pipelineDef(5, 1, m)))
		require.NoError(t, engine.SaveSnapshot(string(m)))
	}

	require.NoError(t, engine.Undo())
	assert.Equal(t, domain.AggregateCount, queueMethod(t, engine.Definition()))
	require.NoError(t, engine.Undo())
	assert.Equal(t, domain.AggregateAverage, queueMethod(t, engine.Definition()))
	require.NoError(t, engine.Undo())
	assert.Equal(t, domain.AggregateSum, queueMethod(t, engine.Definition()))
	assert.ErrorIs(t, engine.Undo(), domain.ErrNothingToUndo)

	require.NoError(t, engine.Redo())
	require.NoError(t, engine.Redo())
	require.NoError(t, engine.Redo())
	assert.Equal(t, domain.AggregateLast, queueMethod(t, engine.Definition()))
	assert.ErrorIs(t, engine.Redo(), domain.ErrNothingToRedo)
}
