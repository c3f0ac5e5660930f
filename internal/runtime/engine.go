package runtime

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/sluice/internal/logging"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/ports"
)

// Engine defaults.
const (
	DefaultCascadeLimit = 1000
	DefaultTickInterval = 100 * time.Millisecond

	defaultRetainLimit = 50
)

// Engine is the simulation core: it owns the graph definition, the node
// state table, the lineage tracker, the activity ledger and the snapshot
// history, and advances them one logical tick at a time.
//
// All mutation happens synchronously under one mutex; there is no
// parallelism inside a tick. The play loop is a self-rescheduling timer
// gated by the running flag, and always lets the current tick finish
// before observing a pause (cooperative cancellation).
type Engine struct {
	mu sync.Mutex

	logger       *slog.Logger
	eval         ports.Evaluator
	hooks        domain.LifecycleHooks
	rng          *rand.Rand
	cascadeLimit int
	tickInterval time.Duration

	def     *domain.Definition
	states  map[string]domain.NodeState
	tracker *Tracker
	ledger  *Ledger
	history *History

	tick     int64
	runID    string
	running  bool
	stop     chan struct{}
	messages []string

	fireQueue []string // pending reactive process firings
	emitDepth int      // live machine-to-machine delivery depth
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCascadeLimit bounds the number of process firings per tick.
func WithCascadeLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.cascadeLimit = limit
		}
	}
}

// WithTickInterval sets the play-loop period.
func WithTickInterval(interval time.Duration) Option {
	return func(e *Engine) {
		if interval > 0 {
			e.tickInterval = interval
		}
	}
}

// WithSeed makes source value draws deterministic.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates an engine with the given expression evaluator.
func New(eval ports.Evaluator, opts ...Option) *Engine {
	e := &Engine{
		logger:       logging.NewNop(),
		eval:         eval,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		cascadeLimit: DefaultCascadeLimit,
		tickInterval: DefaultTickInterval,
		history:      newHistory(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load validates and installs a new definition, rebuilding all runtime
// state and resetting the snapshot history. Loading while a run is in
// progress is a deliberate no-op, not an error.
func (e *Engine) Load(def *domain.Definition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		e.logger.Debug("load ignored: run in progress")
		return nil
	}
	if err := e.installLocked(def); err != nil {
		return err
	}
	e.history = newHistory()
	e.history.Push(e.snapshotLocked("loaded"))
	e.logger.Info("definition loaded", "nodes", len(e.def.Nodes), "run_id", e.runID)
	return nil
}

// Edit replaces the definition wholesale, keeping the snapshot history.
// Like Load it is a no-op while a run is in progress.
func (e *Engine) Edit(def *domain.Definition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		e.logger.Debug("edit ignored: run in progress")
		return nil
	}
	return e.installLocked(def)
}

// installLocked validates the definition fail-closed and rebuilds state.
func (e *Engine) installLocked(def *domain.Definition) error {
	problems := validateDefinition(def)
	if len(problems) > 0 {
		e.def = nil
		e.states = nil
		e.tracker = nil
		e.ledger = nil
		e.tick = 0
		e.messages = nil
		return &domain.ValidationError{Problems: problems}
	}
	e.def = def.Clone()
	e.rebuildLocked()
	return nil
}

// rebuildLocked discards and re-initializes every piece of runtime state
// from the current definition: node states, tracker, ledger, tick, run id.
func (e *Engine) rebuildLocked() {
	e.states = make(map[string]domain.NodeState, len(e.def.Nodes))
	for _, cfg := range e.def.Nodes {
		e.states[cfg.NodeID()] = initState(cfg)
	}
	e.tracker = NewTracker()
	e.ledger = NewLedger()
	e.tick = 0
	e.messages = nil
	e.fireQueue = nil
	e.runID = uuid.NewString()
}

func initState(cfg domain.NodeConfig) domain.NodeState {
	switch c := cfg.(type) {
	case *domain.SourceConfig:
		return &domain.SourceState{ID: c.ID, Stage: domain.PhaseIdle}
	case *domain.QueueConfig:
		return &domain.QueueState{ID: c.ID, Stage: domain.PhaseIdle}
	case *domain.ProcessConfig:
		inputs := make(map[string][]string, len(c.Inputs))
		for _, alias := range c.Inputs {
			inputs[alias] = nil
		}
		return &domain.ProcessState{ID: c.ID, Stage: domain.PhaseIdle, Inputs: inputs}
	case *domain.StateMachineConfig:
		inputs := make(map[string][]string)
		for _, name := range machineInputs(c) {
			inputs[name] = nil
		}
		return &domain.StateMachineState{
			ID:        c.ID,
			Stage:     domain.PhaseIdle,
			Info:      domain.StateMachineInfo{Current: c.Initial},
			Variables: cloneVars(c.Variables),
			Inputs:    inputs,
			LastToken: make(map[string]string),
		}
	case *domain.EnhancedStateMachineConfig:
		return &domain.EnhancedStateMachineState{ID: c.ID, Stage: domain.PhaseIdle}
	case *domain.SinkConfig:
		return &domain.SinkState{ID: c.ID, Stage: domain.PhaseIdle}
	case *domain.ModuleConfig:
		// Containers only get their initial state bootstrapped; sub-graph
		// execution is not implemented.
		return &domain.ModuleState{ID: c.ID, Stage: domain.PhaseIdle}
	}
	return nil
}

func cloneVars(vars map[string]float64) map[string]float64 {
	next := make(map[string]float64, len(vars))
	for k, v := range vars {
		next[k] = v
	}
	return next
}

// machineInputs returns the declared input names, defaulting to "in".
func machineInputs(c *domain.StateMachineConfig) []string {
	if len(c.Inputs) > 0 {
		return c.Inputs
	}
	return []string{"in"}
}

// Definition returns a deep copy of the current definition, or nil.
func (e *Engine) Definition() *domain.Definition {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.def.Clone()
}

// States returns the node state table. The returned map is a copy but the
// states themselves are live; treat them as read-only.
func (e *Engine) States() map[string]domain.NodeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]domain.NodeState, len(e.states))
	for id, st := range e.states {
		out[id] = st
	}
	return out
}

// State returns the runtime state for one node.
func (e *Engine) State(id string) (domain.NodeState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.states[id]
	return st, ok
}

// Tick returns the current logical clock value.
func (e *Engine) Tick() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick
}

// RunID identifies the current load/rebuild generation.
func (e *Engine) RunID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runID
}

// Running reports whether the play loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Messages returns the user-visible error message list collected so far.
func (e *Engine) Messages() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.messages...)
}

// NodeLedger returns the bounded activity ledger for one node.
func (e *Engine) NodeLedger(id string) []domain.ActivityEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ledger == nil {
		return nil
	}
	return e.ledger.Node(id)
}

// GlobalLedger returns the bounded global activity ledger.
func (e *Engine) GlobalLedger() []domain.ActivityEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ledger == nil {
		return nil
	}
	return e.ledger.Global()
}

// Token looks up a token by id in the lineage registry. The registry is
// independent of live buffers, so provenance survives buffer eviction.
func (e *Engine) Token(id string) (*domain.Token, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tracker == nil {
		return nil, domain.ErrUnknownToken
	}
	tok, ok := e.tracker.Token(id)
	if !ok {
		return nil, domain.ErrUnknownToken
	}
	return tok, nil
}

// Lineage returns the provenance record for a token id.
func (e *Engine) Lineage(id string) (*domain.Lineage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tracker == nil {
		return nil, domain.ErrUnknownToken
	}
	lin, ok := e.tracker.Lineage(id)
	if !ok {
		return nil, domain.ErrUnknownToken
	}
	return lin, nil
}

// defect records a defensive-check failure into the user-visible message
// list instead of raising it.
func (e *Engine) defect(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.messages = append(e.messages, msg)
	e.logger.Warn("engine defect", "msg", msg, "tick", e.tick)
}

// surface appends a user-visible message without the defect log level.
func (e *Engine) surface(format string, args ...any) {
	e.messages = append(e.messages, fmt.Sprintf(format, args...))
}

// evaluate delegates to the configured evaluator.
func (e *Engine) evaluate(expression string, vars map[string]float64) (float64, error) {
	if e.eval == nil {
		return 0, fmt.Errorf("no evaluator configured")
	}
	return e.eval.Evaluate(expression, vars)
}
