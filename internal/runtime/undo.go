package runtime

import (
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/sluice/pkg/domain"
)

// History holds the bounded undo/redo stacks of definition snapshots.
// The invariant is that the top of the undo stack mirrors the definition
// as of the most recent save: undo moves the top to the redo stack and
// restores the snapshot beneath it.
type History struct {
	undo  []*domain.Snapshot
	redo  []*domain.Snapshot
	limit int
}

func newHistory() *History {
	return &History{limit: domain.SnapshotStackLimit}
}

// Push appends a snapshot to the undo stack, dropping the oldest entry
// beyond the limit, and clears the redo stack.
func (h *History) Push(snap *domain.Snapshot) {
	h.undo = append(h.undo, snap)
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
}

// Undo moves the top snapshot to the redo stack and returns the snapshot
// now on top, which becomes the current definition. The baseline snapshot
// pushed on load is never undone past.
func (h *History) Undo() (*domain.Snapshot, error) {
	if len(h.undo) <= 1 {
		return nil, domain.ErrNothingToUndo
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, top)
	if len(h.redo) > h.limit {
		h.redo = h.redo[len(h.redo)-h.limit:]
	}
	return h.undo[len(h.undo)-1], nil
}

// Redo moves the most recently undone snapshot back to the undo stack and
// returns it.
func (h *History) Redo() (*domain.Snapshot, error) {
	if len(h.redo) == 0 {
		return nil, domain.ErrNothingToRedo
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, top)
	return top, nil
}

// Depths reports the undo and redo stack sizes.
func (h *History) Depths() (int, int) {
	return len(h.undo), len(h.redo)
}

// snapshotLocked deep-copies the current definition.
func (e *Engine) snapshotLocked(description string) *domain.Snapshot {
	return &domain.Snapshot{
		ID:          uuid.NewString(),
		Description: description,
		TakenAt:     time.Now(),
		Definition:  e.def.Clone(),
	}
}

// SaveSnapshot deep-copies the current definition onto the undo stack and
// clears the redo stack. Node states and ledgers are deliberately not
// captured: undo reverts structural edits, not simulation progress.
func (e *Engine) SaveSnapshot(description string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.def == nil {
		return domain.ErrNoDefinition
	}
	e.history.Push(e.snapshotLocked(description))
	return nil
}

// Undo restores the previous saved definition and rebuilds all runtime
// state from scratch against it.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.def == nil {
		return domain.ErrNoDefinition
	}
	snap, err := e.history.Undo()
	if err != nil {
		return err
	}
	return e.restoreLocked(snap)
}

// Redo reapplies the most recently undone snapshot.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.def == nil {
		return domain.ErrNoDefinition
	}
	snap, err := e.history.Redo()
	if err != nil {
		return err
	}
	return e.restoreLocked(snap)
}

// SnapshotDepths reports the undo and redo stack sizes.
func (e *Engine) SnapshotDepths() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Depths()
}

// restoreLocked re-validates the restored definition and re-initializes
// node states, ledgers and the tick counter against it.
func (e *Engine) restoreLocked(snap *domain.Snapshot) error {
	problems := validateDefinition(snap.Definition)
	if len(problems) > 0 {
		return &domain.ValidationError{Problems: problems}
	}
	e.def = snap.Definition.Clone()
	e.rebuildLocked()
	e.logger.Info("snapshot restored", "description", snap.Description, "run_id", e.runID)
	return nil
}
