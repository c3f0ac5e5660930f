package domain

import "time"

// Snapshot is a deep copy of the graph definition taken for editing-level
// undo/redo. It deliberately excludes node states, ledgers and the tick
// counter: restoring a snapshot rebuilds those from scratch.
type Snapshot struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	TakenAt     time.Time   `json:"taken_at"`
	Definition  *Definition `json:"definition"`
}

// SnapshotStackLimit bounds the undo and redo stacks.
const SnapshotStackLimit = 20
