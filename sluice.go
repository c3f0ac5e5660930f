package sluice

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/sluice/internal/expr"
	"github.com/aretw0/sluice/internal/logging"
	"github.com/aretw0/sluice/internal/runtime"
	"github.com/aretw0/sluice/internal/scenario"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/ports"
)

// Engine is the high-level entry point for the sluice library. It wraps
// the internal runtime and provides a simplified API for consumers.
type Engine struct {
	core *runtime.Engine
}

type config struct {
	logger    *slog.Logger
	evaluator ports.Evaluator
	hooks     domain.LifecycleHooks
	coreOpts  []runtime.Option
}

// Option defines a functional option for configuring the Engine.
type Option func(*config)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithEvaluator injects a custom expression evaluator, replacing the
// default HCL-based one.
func WithEvaluator(eval ports.Evaluator) Option {
	return func(c *config) {
		c.evaluator = eval
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithSeed makes source value draws deterministic.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.coreOpts = append(c.coreOpts, runtime.WithSeed(seed))
	}
}

// WithTickInterval sets the play-loop period.
func WithTickInterval(interval time.Duration) Option {
	return func(c *config) {
		c.coreOpts = append(c.coreOpts, runtime.WithTickInterval(interval))
	}
}

// WithCascadeLimit bounds process-node cascade iterations per tick.
func WithCascadeLimit(limit int) Option {
	return func(c *config) {
		c.coreOpts = append(c.coreOpts, runtime.WithCascadeLimit(limit))
	}
}

// New creates an engine ready to load a definition.
func New(opts ...Option) *Engine {
	cfg := &config{
		logger:    logging.NewNop(),
		evaluator: expr.New(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	coreOpts := append([]runtime.Option{
		runtime.WithLogger(cfg.logger),
		runtime.WithHooks(cfg.hooks),
	}, cfg.coreOpts...)
	return &Engine{core: runtime.New(cfg.evaluator, coreOpts...)}
}

// LoadScenario parses a raw scenario document and loads it.
func (e *Engine) LoadScenario(doc []byte) error {
	def, err := scenario.Parse(doc)
	if err != nil {
		return err
	}
	return e.core.Load(def)
}

// Load validates and installs a definition, rebuilding all runtime state.
// Loading while a run is in progress is a deliberate no-op.
func (e *Engine) Load(def *domain.Definition) error {
	return e.core.Load(def)
}

// Edit replaces the definition wholesale, keeping snapshot history.
func (e *Engine) Edit(def *domain.Definition) error {
	return e.core.Edit(def)
}

// Step advances the logical clock by n ticks.
func (e *Engine) Step(ctx context.Context, n int) error {
	return e.core.Step(ctx, n)
}

// Play starts the tick loop; Pause stops it after the tick in flight.
func (e *Engine) Play(ctx context.Context) { e.core.Play(ctx) }

// Pause stops the play loop.
func (e *Engine) Pause() { e.core.Pause() }

// SaveSnapshot pushes a deep copy of the definition onto the undo stack.
func (e *Engine) SaveSnapshot(description string) error {
	return e.core.SaveSnapshot(description)
}

// Undo restores the previous saved definition; Redo reapplies an undo.
func (e *Engine) Undo() error { return e.core.Undo() }

// Redo reapplies the most recently undone snapshot.
func (e *Engine) Redo() error { return e.core.Redo() }

// SnapshotDepths reports the undo and redo stack sizes.
func (e *Engine) SnapshotDepths() (undo, redo int) { return e.core.SnapshotDepths() }

// Definition returns a deep copy of the current definition, or nil.
func (e *Engine) Definition() *domain.Definition { return e.core.Definition() }

// States returns the node state table; treat the states as read-only.
func (e *Engine) States() map[string]domain.NodeState { return e.core.States() }

// State returns one node's runtime state.
func (e *Engine) State(id string) (domain.NodeState, bool) { return e.core.State(id) }

// Tick returns the current logical clock value.
func (e *Engine) Tick() int64 { return e.core.Tick() }

// RunID identifies the current load/rebuild generation.
func (e *Engine) RunID() string { return e.core.RunID() }

// Running reports whether the play loop is active.
func (e *Engine) Running() bool { return e.core.Running() }

// Messages returns the user-visible error message list.
func (e *Engine) Messages() []string { return e.core.Messages() }

// NodeLedger returns the bounded activity log for one node, oldest first.
func (e *Engine) NodeLedger(id string) []domain.ActivityEntry { return e.core.NodeLedger(id) }

// GlobalLedger returns the bounded global activity log, oldest first.
func (e *Engine) GlobalLedger() []domain.ActivityEntry { return e.core.GlobalLedger() }

// Token looks up a token by id in the lineage registry.
func (e *Engine) Token(id string) (*domain.Token, error) { return e.core.Token(id) }

// Lineage returns the provenance record for a token id.
func (e *Engine) Lineage(id string) (*domain.Lineage, error) { return e.core.Lineage(id) }
