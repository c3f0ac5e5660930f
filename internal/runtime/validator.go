package runtime

import (
	"fmt"

	"github.com/aretw0/sluice/pkg/domain"
)

// validateDefinition checks a definition fail-closed: all problems are
// collected as strings and nothing is partially applied on failure.
func validateDefinition(def *domain.Definition) []string {
	if def == nil || len(def.Nodes) == 0 {
		return []string{"definition has no nodes"}
	}

	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	ids := make(map[string]domain.NodeKind, len(def.Nodes))
	for _, cfg := range def.Nodes {
		id := cfg.NodeID()
		if id == "" {
			fail("node with empty id (kind %s)", cfg.Kind())
			continue
		}
		if _, dup := ids[id]; dup {
			fail("duplicate node id %q", id)
			continue
		}
		ids[id] = cfg.Kind()
	}

	for _, cfg := range def.Nodes {
		id := cfg.NodeID()
		switch c := cfg.(type) {
		case *domain.SourceConfig:
			if c.Interval < 1 {
				fail("source %s: interval must be >= 1", id)
			}
			if c.Value == nil && c.Max < c.Min {
				fail("source %s: max %v below min %v", id, c.Max, c.Min)
			}
			if len(c.Ports) == 0 {
				fail("source %s: no outputs", id)
			}
		case *domain.QueueConfig:
			if c.Capacity < 1 {
				fail("queue %s: capacity must be >= 1", id)
			}
			if c.Window < 1 {
				fail("queue %s: window must be >= 1", id)
			}
			if !c.Method.Valid() {
				fail("queue %s: unknown aggregation method %q", id, c.Method)
			}
		case *domain.ProcessConfig:
			if len(c.Inputs) == 0 {
				fail("process %s: no inputs declared", id)
			}
			seen := make(map[string]bool)
			for _, alias := range c.Inputs {
				if alias == "" {
					fail("process %s: empty input alias", id)
				}
				if seen[alias] {
					fail("process %s: duplicate input alias %q", id, alias)
				}
				seen[alias] = true
			}
			if len(c.Results) == 0 {
				fail("process %s: no outputs", id)
			}
			for _, out := range c.Results {
				if out.Formula == "" {
					fail("process %s: output %q has no formula", id, out.Name)
				}
			}
		case *domain.StateMachineConfig:
			validateStateMachine(c, fail)
		case *domain.SinkConfig:
			if c.RetainLimit < 0 {
				fail("sink %s: negative retain limit", id)
			}
		case *domain.EnhancedStateMachineConfig, *domain.ModuleConfig:
			// Reserved surfaces carry opaque config; nothing to check
			// beyond the port wiring below.
		}

		for _, port := range cfg.Outputs() {
			kind, ok := ids[port.Target]
			if !ok {
				fail("node %s: output %q targets unknown node %q", id, port.Name, port.Target)
				continue
			}
			if kind == domain.KindProcess && port.Input != "" {
				target, _ := def.Node(port.Target)
				if pc, ok := target.(*domain.ProcessConfig); ok && !containsString(pc.Inputs, port.Input) {
					fail("node %s: output %q targets undeclared input %q of process %s", id, port.Name, port.Input, port.Target)
				}
			}
		}
	}

	for group, members := range def.Groups {
		for _, member := range members {
			if _, ok := ids[member]; !ok {
				fail("group %q references unknown node %q", group, member)
			}
		}
	}
	for id := range def.Tags {
		if _, ok := ids[id]; !ok {
			fail("tags reference unknown node %q", id)
		}
	}

	return problems
}

func validateStateMachine(c *domain.StateMachineConfig, fail func(string, ...any)) {
	id := c.ID
	if len(c.States) == 0 {
		fail("state machine %s: no states", id)
		return
	}

	states := make(map[string]bool, len(c.States))
	for _, s := range c.States {
		if s.Name == "" {
			fail("state machine %s: state with empty name", id)
			continue
		}
		if states[s.Name] {
			fail("state machine %s: duplicate state %q", id, s.Name)
		}
		states[s.Name] = true
	}

	if c.Initial == "" {
		fail("state machine %s: no initial state", id)
	} else if !states[c.Initial] {
		fail("state machine %s: initial state %q not declared", id, c.Initial)
	}

	outputs := make(map[string]bool, len(c.Ports))
	for _, p := range c.Ports {
		outputs[p.Name] = true
	}
	inputs := make(map[string]bool)
	for _, name := range machineInputs(c) {
		inputs[name] = true
	}

	for i, tr := range c.Transitions {
		if !states[tr.From] {
			fail("state machine %s: transition %d from undeclared state %q", id, i, tr.From)
		}
		if !states[tr.To] {
			fail("state machine %s: transition %d to undeclared state %q", id, i, tr.To)
		}
		switch tr.Trigger {
		case domain.TriggerTokenReceived:
			if tr.Input != "" && !inputs[tr.Input] {
				fail("state machine %s: transition %d scoped to unknown input %q", id, i, tr.Input)
			}
		case domain.TriggerCondition:
			if tr.Condition == "" {
				fail("state machine %s: transition %d has no condition", id, i)
			}
		case domain.TriggerTimer:
			if tr.After < 1 {
				fail("state machine %s: transition %d timer must be >= 1 tick", id, i)
			}
		default:
			fail("state machine %s: transition %d has unknown trigger %q", id, i, tr.Trigger)
		}
	}

	checkActions := func(state string, phase string, actions []domain.ActionDef) {
		for _, a := range actions {
			switch a.Type {
			case domain.ActionEmit:
				if !outputs[a.Output] {
					fail("state machine %s: state %s %s emit references unknown output %q", id, state, phase, a.Output)
				}
			case domain.ActionSetVariable:
				if a.Variable == "" || a.Formula == "" {
					fail("state machine %s: state %s %s set_variable needs variable and formula", id, state, phase)
				}
			case domain.ActionIncrement, domain.ActionDecrement:
				if a.Variable == "" {
					fail("state machine %s: state %s %s %s needs a variable", id, state, phase, a.Type)
				}
			case domain.ActionLog:
			default:
				fail("state machine %s: state %s %s has unknown action %q", id, state, phase, a.Type)
			}
		}
	}
	for _, s := range c.States {
		checkActions(s.Name, "on_entry", s.OnEntry)
		checkActions(s.Name, "on_exit", s.OnExit)
	}
}

func containsString(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
