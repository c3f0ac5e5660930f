package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrScenarioNotFound is returned when a scenario name cannot be found in a store.
var ErrScenarioNotFound = errors.New("scenario not found")

// ErrUnknownToken is returned for lineage queries on ids that were never registered.
var ErrUnknownToken = errors.New("unknown token")

// ErrNoDefinition is returned by operations that require a loaded definition.
var ErrNoDefinition = errors.New("no definition loaded")

// ErrNothingToUndo / ErrNothingToRedo signal empty snapshot stacks.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// ValidationError carries the collected fail-closed validation failures.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid definition: %s", strings.Join(e.Problems, "; "))
}

// CascadeOverflowError is raised when a process-node cascade exceeds the
// iteration cap within a single tick, which indicates a process cycle with
// no time-gating.
type CascadeOverflowError struct {
	Tick  int64
	Limit int
}

func (e *CascadeOverflowError) Error() string {
	return fmt.Sprintf("cascade overflow at tick %d: exceeded %d iterations", e.Tick, e.Limit)
}
