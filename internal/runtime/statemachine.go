package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/sluice/pkg/domain"
)

// receiveStateMachine appends the token to the addressed input buffer,
// then executes every token_received transition whose from-state matches
// the current state, in declaration order and with no mutual-exclusion
// guard: a transition that changes state exposes later declarations to the
// new state. Condition transitions are re-evaluated afterwards.
//
// Machine emits route back through deliver, so two machines emitting to
// each other on entry would recurse without end. The delivery depth shares
// the cascade limit: past it the token is still buffered, but transition
// execution is aborted the way drainCascade aborts its queue.
func (e *Engine) receiveStateMachine(ctx context.Context, tok *domain.Token, from string, cfg *domain.StateMachineConfig, port domain.Port) {
	st := e.states[cfg.ID].(*domain.StateMachineState)

	input := port.Input
	if input == "" {
		input = machineInputs(cfg)[0]
	}
	if _, ok := st.Inputs[input]; !ok {
		e.defect("node %s: delivery from %s addresses unknown input %q", cfg.ID, from, input)
		return
	}
	st.Inputs[input] = append(st.Inputs[input], tok.ID)
	st.LastToken[input] = tok.ID
	e.logActivity(cfg.ID, domain.ActivityReceived, &tok.Value, tok.ID, "input "+input)

	if e.emitDepth >= e.cascadeLimit {
		err := &domain.CascadeOverflowError{Tick: e.tick, Limit: e.cascadeLimit}
		e.surface("%s", err)
		e.logger.Error("cascade overflow", "tick", e.tick, "limit", e.cascadeLimit, "node", cfg.ID)
		return
	}
	e.emitDepth++
	defer func() { e.emitDepth-- }()

	for _, tr := range cfg.Transitions {
		if tr.Trigger != domain.TriggerTokenReceived {
			continue
		}
		if tr.Input != "" && tr.Input != input {
			continue
		}
		if tr.From != st.Info.Current {
			continue
		}
		e.executeTransition(ctx, cfg, st, tr)
	}

	e.evaluateConditions(ctx, cfg, st)
}

// stepStateMachine is the per-tick pass: timer transitions are checked
// once against the logical clock, then condition transitions re-evaluated.
func (e *Engine) stepStateMachine(ctx context.Context, cfg *domain.StateMachineConfig) {
	st := e.states[cfg.ID].(*domain.StateMachineState)

	for _, tr := range cfg.Transitions {
		if tr.Trigger != domain.TriggerTimer || tr.From != st.Info.Current {
			continue
		}
		if tr.After > 0 && e.tick-st.Info.ChangedAt >= tr.After {
			e.executeTransition(ctx, cfg, st, tr)
		}
	}

	e.evaluateConditions(ctx, cfg, st)
}

// evaluateConditions runs every condition transition out of the current
// state against the machine variables plus the most recent token value per
// input. Evaluation errors are isolated per transition.
func (e *Engine) evaluateConditions(ctx context.Context, cfg *domain.StateMachineConfig, st *domain.StateMachineState) {
	for _, tr := range cfg.Transitions {
		if tr.Trigger != domain.TriggerCondition || tr.From != st.Info.Current {
			continue
		}
		value, err := e.evaluate(tr.Condition, e.machineVars(st))
		if err != nil {
			e.logActivity(cfg.ID, domain.ActivityError, nil, "", fmt.Sprintf("condition %q: %v", tr.Condition, err))
			e.surface("node %s: condition error: %v", cfg.ID, err)
			continue
		}
		if value != 0 {
			e.executeTransition(ctx, cfg, st, tr)
		}
	}
}

// machineVars builds the evaluation context: machine variables overlaid
// with the latest token value per input, keyed by input name.
func (e *Engine) machineVars(st *domain.StateMachineState) map[string]float64 {
	vars := make(map[string]float64, len(st.Variables)+len(st.LastToken))
	for k, v := range st.Variables {
		vars[k] = v
	}
	for input, id := range st.LastToken {
		if tok, ok := e.tracker.Token(id); ok {
			vars[input] = tok.Value
		}
	}
	return vars
}

// executeTransition logs the transition, runs the old state's exit
// actions, moves the machine, appends to the bounded history and runs the
// new state's entry actions.
func (e *Engine) executeTransition(ctx context.Context, cfg *domain.StateMachineConfig, st *domain.StateMachineState, tr domain.TransitionDef) {
	e.logActivity(cfg.ID, domain.ActivityTransition, nil, "", fmt.Sprintf("%s -> %s (%s)", tr.From, tr.To, tr.Trigger))

	if old, ok := cfg.State(st.Info.Current); ok {
		e.runActions(ctx, cfg, st, old.OnExit)
	}

	st.Info.Previous = st.Info.Current
	st.Info.Current = tr.To
	st.Info.ChangedAt = e.tick
	st.Info.History = append(st.Info.History, domain.TransitionRecord{
		Tick:    e.tick,
		From:    tr.From,
		To:      tr.To,
		Trigger: tr.Trigger,
	})
	if len(st.Info.History) > domain.HistoryLimit {
		st.Info.History = st.Info.History[len(st.Info.History)-domain.HistoryLimit:]
	}

	if next, ok := cfg.State(st.Info.Current); ok {
		e.runActions(ctx, cfg, st, next.OnEntry)
	}

	if e.hooks.OnTransition != nil {
		e.hooks.OnTransition(ctx, &domain.TransitionEvent{
			Tick:    e.tick,
			NodeID:  cfg.ID,
			From:    tr.From,
			To:      tr.To,
			Trigger: tr.Trigger,
		})
	}
}

// runActions executes an action list. Emit routes through deliver, so the
// destination kind's reception rule applies: a machine-to-machine emit
// triggers the destination's token_received transitions immediately, and a
// machine-to-sink emit is consumed directly.
func (e *Engine) runActions(ctx context.Context, cfg *domain.StateMachineConfig, st *domain.StateMachineState, actions []domain.ActionDef) {
	for _, action := range actions {
		switch action.Type {
		case domain.ActionEmit:
			e.runEmit(ctx, cfg, st, action)
		case domain.ActionLog:
			e.logActivity(cfg.ID, domain.ActivityLog, nil, "", action.Message)
		case domain.ActionSetVariable:
			value, err := e.evaluate(action.Formula, e.machineVars(st))
			if err != nil {
				e.logActivity(cfg.ID, domain.ActivityError, nil, "", fmt.Sprintf("set_variable %s: %v", action.Variable, err))
				e.surface("node %s: set_variable %s: %v", cfg.ID, action.Variable, err)
				continue
			}
			st.Variables[action.Variable] = value
			e.logActivity(cfg.ID, domain.ActivityVariableSet, &value, "", action.Variable)
		case domain.ActionIncrement, domain.ActionDecrement:
			amount := action.Amount
			if amount == 0 {
				amount = 1
			}
			if action.Type == domain.ActionDecrement {
				amount = -amount
			}
			value := st.Variables[action.Variable] + amount
			st.Variables[action.Variable] = value
			e.logActivity(cfg.ID, domain.ActivityVariableSet, &value, "", action.Variable)
		default:
			e.defect("node %s: unknown action type %q", cfg.ID, action.Type)
		}
	}
}

func (e *Engine) runEmit(ctx context.Context, cfg *domain.StateMachineConfig, st *domain.StateMachineState, action domain.ActionDef) {
	var value float64
	if action.Formula != "" {
		v, err := e.evaluate(action.Formula, e.machineVars(st))
		if err != nil {
			e.logActivity(cfg.ID, domain.ActivityError, nil, "", fmt.Sprintf("emit %s: %v", action.Output, err))
			e.surface("node %s: emit formula error: %v", cfg.ID, err)
			return
		}
		value = v
	} else if action.Literal != nil {
		value = *action.Literal
	}

	var port domain.Port
	found := false
	for _, p := range cfg.Ports {
		if p.Name == action.Output {
			port = p
			found = true
			break
		}
	}
	if !found {
		e.defect("node %s: emit references unknown output %q", cfg.ID, action.Output)
		return
	}

	tok := e.newToken(ctx, cfg.ID, value, nil)
	e.logActivity(cfg.ID, domain.ActivityEmitted, &value, tok.ID, "output "+action.Output)
	e.deliver(ctx, tok, cfg.ID, port)
}
