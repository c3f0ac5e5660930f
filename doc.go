/*
Package sluice simulates a directed graph of typed processing nodes that
exchange discrete tokens over virtual time steps.

Sources produce root tokens on an interval, queues buffer and aggregate
them, process nodes join one token per input and fire transformed results
the instant all inputs are satisfied, state machines run user-defined
transition tables, and sinks consume. Every derived token carries full
provenance: which tokens were consumed to produce it, its generation depth
and the ultimate root sources it descends from.

The clock is a logical integer tick. Execution is single-threaded and
cooperative: all mutation happens synchronously inside a tick, and the
play loop is a self-rescheduling timer gated by a running flag.

	engine := sluice.New(sluice.WithSeed(1))
	if err := engine.LoadScenario(doc); err != nil {
		log.Fatal(err)
	}
	engine.Step(ctx, 10)
	for id, st := range engine.States() {
		fmt.Println(id, st.Phase())
	}

Structural edits are undoable through definition snapshots: SaveSnapshot
deep-copies the current definition onto a bounded undo stack, and Undo and
Redo rebuild all runtime state from the restored definition.
*/
package sluice
