package domain

// NodeKind identifies the behavior variant of a node.
type NodeKind string

const (
	KindSource               NodeKind = "source"
	KindQueue                NodeKind = "queue"
	KindProcess              NodeKind = "process"
	KindStateMachine         NodeKind = "state_machine"
	KindEnhancedStateMachine NodeKind = "enhanced_state_machine"
	KindSink                 NodeKind = "sink"
	KindModule               NodeKind = "module"
)

// Port references a downstream node. Input names the buffer on the target
// for kinds that distinguish their inputs (Process, StateMachine).
type Port struct {
	Name   string `json:"name" yaml:"name"`
	Target string `json:"target" yaml:"target"`
	Input  string `json:"input,omitempty" yaml:"input,omitempty"`
}

// NodeConfig is the closed set of per-kind node configurations.
// Exactly one concrete type exists per NodeKind; consumers switch
// exhaustively on Kind() or type-assert the variant they need.
type NodeConfig interface {
	NodeID() string
	Kind() NodeKind
	// Outputs returns the declared output ports. Kinds without
	// outputs (Sink) return nil.
	Outputs() []Port
	// Clone returns a deep copy, used by the snapshot manager.
	Clone() NodeConfig
}

// SourceConfig emits a new root token every Interval ticks.
type SourceConfig struct {
	ID       string   `json:"id" yaml:"id"`
	Interval int64    `json:"interval" yaml:"interval"`
	Min      float64  `json:"min" yaml:"min"`
	Max      float64  `json:"max" yaml:"max"`
	Value    *float64 `json:"value,omitempty" yaml:"value,omitempty"` // fixed value override
	Ports    []Port   `json:"outputs" yaml:"outputs"`
}

func (c *SourceConfig) NodeID() string  { return c.ID }
func (c *SourceConfig) Kind() NodeKind  { return KindSource }
func (c *SourceConfig) Outputs() []Port { return c.Ports }

func (c *SourceConfig) Clone() NodeConfig {
	next := *c
	if c.Value != nil {
		v := *c.Value
		next.Value = &v
	}
	next.Ports = clonePorts(c.Ports)
	return &next
}

// AggregationMethod reduces a window of buffered token values to one value.
type AggregationMethod string

const (
	AggregateSum     AggregationMethod = "sum"
	AggregateAverage AggregationMethod = "average"
	AggregateCount   AggregationMethod = "count"
	AggregateFirst   AggregationMethod = "first"
	AggregateLast    AggregationMethod = "last"
)

// Apply reduces values according to the method. Values retain buffer order.
func (m AggregationMethod) Apply(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	switch m {
	case AggregateSum, AggregateAverage:
		var sum float64
		for _, v := range values {
			sum += v
		}
		if m == AggregateAverage {
			return sum / float64(len(values))
		}
		return sum
	case AggregateCount:
		return float64(len(values))
	case AggregateFirst:
		return values[0]
	case AggregateLast:
		return values[len(values)-1]
	}
	return 0
}

// Valid reports whether the method is one of the supported reducers.
func (m AggregationMethod) Valid() bool {
	switch m {
	case AggregateSum, AggregateAverage, AggregateCount, AggregateFirst, AggregateLast:
		return true
	}
	return false
}

// DefaultQueueCapacity is applied when a queue declares no capacity.
const DefaultQueueCapacity = 100

// QueueConfig buffers incoming tokens up to Capacity and aggregates the
// buffer every Window ticks into a single result token.
type QueueConfig struct {
	ID       string            `json:"id" yaml:"id"`
	Capacity int               `json:"capacity" yaml:"capacity"`
	Window   int64             `json:"window" yaml:"window"`
	Method   AggregationMethod `json:"method" yaml:"method"`
	Ports    []Port            `json:"outputs" yaml:"outputs"`
}

func (c *QueueConfig) NodeID() string  { return c.ID }
func (c *QueueConfig) Kind() NodeKind  { return KindQueue }
func (c *QueueConfig) Outputs() []Port { return c.Ports }

func (c *QueueConfig) Clone() NodeConfig {
	next := *c
	next.Ports = clonePorts(c.Ports)
	return &next
}

// ProcessOutput is an output port with the transformation formula applied
// to the consumed tokens when the node fires.
type ProcessOutput struct {
	Name    string `json:"name" yaml:"name"`
	Target  string `json:"target" yaml:"target"`
	Input   string `json:"input,omitempty" yaml:"input,omitempty"`
	Formula string `json:"formula" yaml:"formula"`
}

// Port returns the plain port view of the output.
func (o ProcessOutput) Port() Port {
	return Port{Name: o.Name, Target: o.Target, Input: o.Input}
}

// ProcessConfig joins one token from every declared input and fires a
// transformed token per output the instant all inputs are satisfied.
type ProcessConfig struct {
	ID      string          `json:"id" yaml:"id"`
	Inputs  []string        `json:"inputs" yaml:"inputs"` // alias names, usable in formulas
	Results []ProcessOutput `json:"outputs" yaml:"outputs"`
}

func (c *ProcessConfig) NodeID() string { return c.ID }
func (c *ProcessConfig) Kind() NodeKind { return KindProcess }

func (c *ProcessConfig) Outputs() []Port {
	ports := make([]Port, len(c.Results))
	for i, r := range c.Results {
		ports[i] = r.Port()
	}
	return ports
}

func (c *ProcessConfig) Clone() NodeConfig {
	next := *c
	next.Inputs = append([]string(nil), c.Inputs...)
	next.Results = append([]ProcessOutput(nil), c.Results...)
	return &next
}

// TriggerKind classifies state machine transitions.
type TriggerKind string

const (
	TriggerTokenReceived TriggerKind = "token_received"
	TriggerCondition     TriggerKind = "condition"
	TriggerTimer         TriggerKind = "timer"
)

// ActionType enumerates the actions a state machine may run on entry,
// exit or transition.
type ActionType string

const (
	ActionEmit        ActionType = "emit"
	ActionLog         ActionType = "log"
	ActionSetVariable ActionType = "set_variable"
	ActionIncrement   ActionType = "increment"
	ActionDecrement   ActionType = "decrement"
)

// ActionDef describes one state machine action. The fields used depend on
// Type: emit uses Output and Formula (or Literal when Formula is empty),
// log uses Message, set_variable uses Variable and Formula,
// increment/decrement use Variable and Amount (default 1).
type ActionDef struct {
	Type     ActionType `json:"type" yaml:"type"`
	Output   string     `json:"output,omitempty" yaml:"output,omitempty"`
	Formula  string     `json:"formula,omitempty" yaml:"formula,omitempty"`
	Literal  *float64   `json:"literal,omitempty" yaml:"literal,omitempty"`
	Message  string     `json:"message,omitempty" yaml:"message,omitempty"`
	Variable string     `json:"variable,omitempty" yaml:"variable,omitempty"`
	Amount   float64    `json:"amount,omitempty" yaml:"amount,omitempty"`
}

// StateDef names a state and its entry/exit action lists.
type StateDef struct {
	Name    string      `json:"name" yaml:"name"`
	OnEntry []ActionDef `json:"on_entry,omitempty" yaml:"on_entry,omitempty"`
	OnExit  []ActionDef `json:"on_exit,omitempty" yaml:"on_exit,omitempty"`
}

// TransitionDef moves the machine From one state To another when its
// Trigger fires. token_received transitions may be scoped to one Input;
// condition transitions carry a Condition expression; timer transitions
// fire once the machine has been in From for After ticks.
type TransitionDef struct {
	From      string      `json:"from" yaml:"from"`
	To        string      `json:"to" yaml:"to"`
	Trigger   TriggerKind `json:"trigger" yaml:"trigger"`
	Input     string      `json:"input,omitempty" yaml:"input,omitempty"`
	Condition string      `json:"condition,omitempty" yaml:"condition,omitempty"`
	After     int64       `json:"after,omitempty" yaml:"after,omitempty"`
}

// StateMachineConfig is a user-supplied finite state machine definition.
type StateMachineConfig struct {
	ID          string             `json:"id" yaml:"id"`
	Initial     string             `json:"initial" yaml:"initial"`
	Variables   map[string]float64 `json:"variables,omitempty" yaml:"variables,omitempty"`
	States      []StateDef         `json:"states" yaml:"states"`
	Transitions []TransitionDef    `json:"transitions" yaml:"transitions"`
	Inputs      []string           `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Ports       []Port             `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

func (c *StateMachineConfig) NodeID() string  { return c.ID }
func (c *StateMachineConfig) Kind() NodeKind  { return KindStateMachine }
func (c *StateMachineConfig) Outputs() []Port { return c.Ports }

func (c *StateMachineConfig) Clone() NodeConfig {
	next := *c
	next.Variables = cloneVariables(c.Variables)
	next.States = make([]StateDef, len(c.States))
	for i, s := range c.States {
		next.States[i] = StateDef{
			Name:    s.Name,
			OnEntry: append([]ActionDef(nil), s.OnEntry...),
			OnExit:  append([]ActionDef(nil), s.OnExit...),
		}
	}
	next.Transitions = append([]TransitionDef(nil), c.Transitions...)
	next.Inputs = append([]string(nil), c.Inputs...)
	next.Ports = clonePorts(c.Ports)
	return &next
}

// State returns the named state definition, if declared.
func (c *StateMachineConfig) State(name string) (StateDef, bool) {
	for _, s := range c.States {
		if s.Name == name {
			return s, true
		}
	}
	return StateDef{}, false
}

// EnhancedStateMachineConfig declares a richer surface (event streams,
// interpretation rules, feedback configuration) than the engine executes.
// The extra fields are decoded and carried opaquely; only the drain-to-sink
// behavior is implemented. See internal/runtime.
type EnhancedStateMachineConfig struct {
	ID       string           `json:"id" yaml:"id"`
	Streams  []string         `json:"streams,omitempty" yaml:"streams,omitempty"`
	Rules    []map[string]any `json:"rules,omitempty" yaml:"rules,omitempty"`
	Feedback map[string]any   `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	Ports    []Port           `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

func (c *EnhancedStateMachineConfig) NodeID() string  { return c.ID }
func (c *EnhancedStateMachineConfig) Kind() NodeKind  { return KindEnhancedStateMachine }
func (c *EnhancedStateMachineConfig) Outputs() []Port { return c.Ports }

func (c *EnhancedStateMachineConfig) Clone() NodeConfig {
	next := *c
	next.Streams = append([]string(nil), c.Streams...)
	next.Rules = cloneRawSlice(c.Rules)
	next.Feedback = cloneRaw(c.Feedback)
	next.Ports = clonePorts(c.Ports)
	return &next
}

// SinkConfig consumes tokens, retaining up to RetainLimit of them.
type SinkConfig struct {
	ID          string `json:"id" yaml:"id"`
	RetainLimit int    `json:"retain_limit,omitempty" yaml:"retain_limit,omitempty"`
}

func (c *SinkConfig) NodeID() string  { return c.ID }
func (c *SinkConfig) Kind() NodeKind  { return KindSink }
func (c *SinkConfig) Outputs() []Port { return nil }

func (c *SinkConfig) Clone() NodeConfig {
	next := *c
	return &next
}

// ModuleConfig declares a sub-graph container. The engine bootstraps the
// node's initial state but runs no per-tick sub-graph execution; the
// Subgraph payload is carried opaquely.
type ModuleConfig struct {
	ID       string         `json:"id" yaml:"id"`
	Subgraph map[string]any `json:"subgraph,omitempty" yaml:"subgraph,omitempty"`
	Ports    []Port         `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

func (c *ModuleConfig) NodeID() string  { return c.ID }
func (c *ModuleConfig) Kind() NodeKind  { return KindModule }
func (c *ModuleConfig) Outputs() []Port { return c.Ports }

func (c *ModuleConfig) Clone() NodeConfig {
	next := *c
	next.Subgraph = cloneRaw(c.Subgraph)
	next.Ports = clonePorts(c.Ports)
	return &next
}

func clonePorts(ports []Port) []Port {
	return append([]Port(nil), ports...)
}

func cloneVariables(vars map[string]float64) map[string]float64 {
	if vars == nil {
		return nil
	}
	next := make(map[string]float64, len(vars))
	for k, v := range vars {
		next[k] = v
	}
	return next
}

func cloneRaw(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}
	next := make(map[string]any, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case map[string]any:
			next[k] = cloneRaw(tv)
		case []any:
			items := make([]any, len(tv))
			copy(items, tv)
			next[k] = items
		default:
			next[k] = v
		}
	}
	return next
}

func cloneRawSlice(raw []map[string]any) []map[string]any {
	if raw == nil {
		return nil
	}
	next := make([]map[string]any, len(raw))
	for i, m := range raw {
		next[i] = cloneRaw(m)
	}
	return next
}
