package dsl

import "github.com/aretw0/sluice/pkg/domain"

// SourceBuilder provides a fluent API for configuring a source node.
type SourceBuilder struct {
	cfg *domain.SourceConfig
}

// Every sets the emission interval in ticks.
func (s *SourceBuilder) Every(ticks int64) *SourceBuilder {
	s.cfg.Interval = ticks
	return s
}

// Fixed makes the source emit value on every emission.
func (s *SourceBuilder) Fixed(value float64) *SourceBuilder {
	s.cfg.Value = &value
	return s
}

// Range makes the source draw uniformly from [min, max).
func (s *SourceBuilder) Range(min, max float64) *SourceBuilder {
	s.cfg.Min = min
	s.cfg.Max = max
	s.cfg.Value = nil
	return s
}

// To adds an output port wired to the target node.
func (s *SourceBuilder) To(target string) *SourceBuilder {
	s.cfg.Ports = append(s.cfg.Ports, domain.Port{Name: "out", Target: target})
	return s
}

// ToInput adds an output port wired to a named input on the target.
func (s *SourceBuilder) ToInput(target, input string) *SourceBuilder {
	s.cfg.Ports = append(s.cfg.Ports, domain.Port{Name: "out", Target: target, Input: input})
	return s
}

// QueueBuilder provides a fluent API for configuring a queue node.
type QueueBuilder struct {
	cfg *domain.QueueConfig
}

// Capacity bounds the input buffer. Zero means unbounded.
func (q *QueueBuilder) Capacity(n int) *QueueBuilder {
	q.cfg.Capacity = n
	return q
}

// Window sets the aggregation window in ticks.
func (q *QueueBuilder) Window(ticks int64) *QueueBuilder {
	q.cfg.Window = ticks
	return q
}

// Method sets the aggregation reducer.
func (q *QueueBuilder) Method(m domain.AggregationMethod) *QueueBuilder {
	q.cfg.Method = m
	return q
}

// To adds an output port wired to the target node.
func (q *QueueBuilder) To(target string) *QueueBuilder {
	q.cfg.Ports = append(q.cfg.Ports, domain.Port{Name: "out", Target: target})
	return q
}

// ToInput adds an output port wired to a named input on the target.
func (q *QueueBuilder) ToInput(target, input string) *QueueBuilder {
	q.cfg.Ports = append(q.cfg.Ports, domain.Port{Name: "out", Target: target, Input: input})
	return q
}

// ProcessBuilder provides a fluent API for configuring a process node.
type ProcessBuilder struct {
	cfg *domain.ProcessConfig
}

// Inputs declares the input aliases usable in output formulas.
func (p *ProcessBuilder) Inputs(names ...string) *ProcessBuilder {
	p.cfg.Inputs = append(p.cfg.Inputs, names...)
	return p
}

// Result adds an output that applies formula and delivers to target.
func (p *ProcessBuilder) Result(name, formula, target string) *ProcessBuilder {
	p.cfg.Results = append(p.cfg.Results, domain.ProcessOutput{
		Name:    name,
		Target:  target,
		Formula: formula,
	})
	return p
}

// ResultInput adds an output delivering to a named input on the target.
func (p *ProcessBuilder) ResultInput(name, formula, target, input string) *ProcessBuilder {
	p.cfg.Results = append(p.cfg.Results, domain.ProcessOutput{
		Name:    name,
		Target:  target,
		Input:   input,
		Formula: formula,
	})
	return p
}

// MachineBuilder provides a fluent API for configuring a state machine.
// States are declared implicitly the first time a transition or action
// list mentions them; the first state mentioned becomes the initial state
// unless Initial overrides it.
type MachineBuilder struct {
	cfg *domain.StateMachineConfig
}

// Initial sets the starting state.
func (m *MachineBuilder) Initial(name string) *MachineBuilder {
	m.cfg.Initial = name
	m.ensureState(name)
	return m
}

// Variable seeds a machine variable.
func (m *MachineBuilder) Variable(name string, value float64) *MachineBuilder {
	if m.cfg.Variables == nil {
		m.cfg.Variables = make(map[string]float64)
	}
	m.cfg.Variables[name] = value
	return m
}

// Inputs declares the named inputs tokens may arrive on.
func (m *MachineBuilder) Inputs(names ...string) *MachineBuilder {
	m.cfg.Inputs = append(m.cfg.Inputs, names...)
	return m
}

// OnToken adds a token_received transition.
func (m *MachineBuilder) OnToken(from, to string) *MachineBuilder {
	return m.transition(domain.TransitionDef{
		From: from, To: to, Trigger: domain.TriggerTokenReceived,
	})
}

// OnTokenAt adds a token_received transition scoped to one input.
func (m *MachineBuilder) OnTokenAt(input, from, to string) *MachineBuilder {
	return m.transition(domain.TransitionDef{
		From: from, To: to, Trigger: domain.TriggerTokenReceived, Input: input,
	})
}

// When adds a condition transition.
func (m *MachineBuilder) When(from, to, condition string) *MachineBuilder {
	return m.transition(domain.TransitionDef{
		From: from, To: to, Trigger: domain.TriggerCondition, Condition: condition,
	})
}

// After adds a timer transition firing once the machine has spent the
// given number of ticks in from.
func (m *MachineBuilder) After(from, to string, ticks int64) *MachineBuilder {
	return m.transition(domain.TransitionDef{
		From: from, To: to, Trigger: domain.TriggerTimer, After: ticks,
	})
}

// Entry attaches entry actions to a state.
func (m *MachineBuilder) Entry(state string, actions ...domain.ActionDef) *MachineBuilder {
	i := m.ensureState(state)
	m.cfg.States[i].OnEntry = append(m.cfg.States[i].OnEntry, actions...)
	return m
}

// Exit attaches exit actions to a state.
func (m *MachineBuilder) Exit(state string, actions ...domain.ActionDef) *MachineBuilder {
	i := m.ensureState(state)
	m.cfg.States[i].OnExit = append(m.cfg.States[i].OnExit, actions...)
	return m
}

// Out adds an output port for emit actions.
func (m *MachineBuilder) Out(name, target string) *MachineBuilder {
	m.cfg.Ports = append(m.cfg.Ports, domain.Port{Name: name, Target: target})
	return m
}

func (m *MachineBuilder) transition(t domain.TransitionDef) *MachineBuilder {
	m.ensureState(t.From)
	m.ensureState(t.To)
	m.cfg.Transitions = append(m.cfg.Transitions, t)
	return m
}

func (m *MachineBuilder) ensureState(name string) int {
	for i, s := range m.cfg.States {
		if s.Name == name {
			return i
		}
	}
	m.cfg.States = append(m.cfg.States, domain.StateDef{Name: name})
	if m.cfg.Initial == "" {
		m.cfg.Initial = name
	}
	return len(m.cfg.States) - 1
}

// SinkBuilder provides a fluent API for configuring a sink node.
type SinkBuilder struct {
	cfg *domain.SinkConfig
}

// Retain bounds how many consumed tokens the sink keeps.
func (s *SinkBuilder) Retain(n int) *SinkBuilder {
	s.cfg.RetainLimit = n
	return s
}

// Log builds a log action.
func Log(message string) domain.ActionDef {
	return domain.ActionDef{Type: domain.ActionLog, Message: message}
}

// Emit builds an emit action evaluating formula against machine variables.
func Emit(output, formula string) domain.ActionDef {
	return domain.ActionDef{Type: domain.ActionEmit, Output: output, Formula: formula}
}

// EmitValue builds an emit action with a literal value.
func EmitValue(output string, value float64) domain.ActionDef {
	return domain.ActionDef{Type: domain.ActionEmit, Output: output, Literal: &value}
}

// Set builds a set_variable action.
func Set(variable, formula string) domain.ActionDef {
	return domain.ActionDef{Type: domain.ActionSetVariable, Variable: variable, Formula: formula}
}

// Inc builds an increment action.
func Inc(variable string) domain.ActionDef {
	return domain.ActionDef{Type: domain.ActionIncrement, Variable: variable}
}

// Dec builds a decrement action.
func Dec(variable string) domain.ActionDef {
	return domain.ActionDef{Type: domain.ActionDecrement, Variable: variable}
}
