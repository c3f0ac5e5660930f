package domain

// Phase is the lifecycle phase a node is in within the current tick.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseGenerating   Phase = "generating"
	PhaseEmitting     Phase = "emitting"
	PhaseAccumulating Phase = "accumulating"
	PhaseProcessing   Phase = "processing"
	PhaseWaiting      Phase = "waiting"
)

// NodeState is the closed set of per-kind runtime states. States are keyed
// 1:1 with NodeConfig by id, created on load and fully rebuilt on reload;
// buffers hold token ids, never token values (the lineage tracker owns the
// tokens themselves).
type NodeState interface {
	NodeID() string
	Kind() NodeKind
	Phase() Phase
}

// SourceState tracks when the source last emitted.
type SourceState struct {
	ID           string `json:"id"`
	Stage        Phase  `json:"phase"`
	LastEmission int64  `json:"last_emission"`
	Emitted      int64  `json:"emitted"`
}

func (s *SourceState) NodeID() string { return s.ID }
func (s *SourceState) Kind() NodeKind { return KindSource }
func (s *SourceState) Phase() Phase   { return s.Stage }

// QueueState holds the input and output buffers of a queue node.
type QueueState struct {
	ID              string   `json:"id"`
	Stage           Phase    `json:"phase"`
	Input           []string `json:"input"`
	Output          []string `json:"output"`
	LastAggregation int64    `json:"last_aggregation"`
	Dropped         int64    `json:"dropped"`
}

func (s *QueueState) NodeID() string { return s.ID }
func (s *QueueState) Kind() NodeKind { return KindQueue }
func (s *QueueState) Phase() Phase   { return s.Stage }

// ProcessState holds one FIFO buffer per declared input alias.
type ProcessState struct {
	ID     string              `json:"id"`
	Stage  Phase               `json:"phase"`
	Inputs map[string][]string `json:"inputs"`
	Fired  int64               `json:"fired"`
}

func (s *ProcessState) NodeID() string { return s.ID }
func (s *ProcessState) Kind() NodeKind { return KindProcess }
func (s *ProcessState) Phase() Phase   { return s.Stage }

// TransitionRecord is one executed transition in the bounded history.
type TransitionRecord struct {
	Tick    int64       `json:"tick"`
	From    string      `json:"from"`
	To      string      `json:"to"`
	Trigger TriggerKind `json:"trigger"`
}

// StateMachineInfo tracks the machine position and a bounded history of
// the last HistoryLimit executed transitions.
type StateMachineInfo struct {
	Current   string             `json:"current"`
	Previous  string             `json:"previous"`
	ChangedAt int64              `json:"changed_at"`
	History   []TransitionRecord `json:"history"`
}

// HistoryLimit bounds StateMachineInfo.History.
const HistoryLimit = 10

// StateMachineState is the runtime side of a StateMachineConfig.
type StateMachineState struct {
	ID        string              `json:"id"`
	Stage     Phase               `json:"phase"`
	Info      StateMachineInfo    `json:"info"`
	Variables map[string]float64  `json:"variables"`
	Inputs    map[string][]string `json:"inputs"`
	LastToken map[string]string   `json:"last_token"` // most recent token id per input
}

func (s *StateMachineState) NodeID() string { return s.ID }
func (s *StateMachineState) Kind() NodeKind { return KindStateMachine }
func (s *StateMachineState) Phase() Phase   { return s.Stage }

// EnhancedStateMachineState buffers tokens for the once-per-tick drain.
type EnhancedStateMachineState struct {
	ID     string   `json:"id"`
	Stage  Phase    `json:"phase"`
	Buffer []string `json:"buffer"`
}

func (s *EnhancedStateMachineState) NodeID() string { return s.ID }
func (s *EnhancedStateMachineState) Kind() NodeKind { return KindEnhancedStateMachine }
func (s *EnhancedStateMachineState) Phase() Phase   { return s.Stage }

// SinkState counts consumed tokens and retains the most recent ones up to
// the configured limit.
type SinkState struct {
	ID           string   `json:"id"`
	Stage        Phase    `json:"phase"`
	Consumed     int64    `json:"consumed"`
	LastConsumed int64    `json:"last_consumed"`
	Retained     []string `json:"retained"`
}

func (s *SinkState) NodeID() string { return s.ID }
func (s *SinkState) Kind() NodeKind { return KindSink }
func (s *SinkState) Phase() Phase   { return s.Stage }

// ModuleState is bootstrapped on load; no per-tick behavior is executed.
type ModuleState struct {
	ID    string `json:"id"`
	Stage Phase  `json:"phase"`
}

func (s *ModuleState) NodeID() string { return s.ID }
func (s *ModuleState) Kind() NodeKind { return KindModule }
func (s *ModuleState) Phase() Phase   { return s.Stage }
