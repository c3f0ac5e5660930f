package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/sluice/pkg/domain"
)

// receiveProcess buffers an arriving token on the addressed input alias
// and schedules a reactive firing attempt. Process nodes are never
// tick-polled: they fire the instant every declared input is satisfied.
func (e *Engine) receiveProcess(tok *domain.Token, from string, cfg *domain.ProcessConfig, port domain.Port) {
	st := e.states[cfg.ID].(*domain.ProcessState)

	alias := port.Input
	if alias == "" && len(cfg.Inputs) == 1 {
		alias = cfg.Inputs[0]
	}
	if _, ok := st.Inputs[alias]; !ok {
		e.defect("node %s: delivery from %s addresses unknown input %q", cfg.ID, from, alias)
		return
	}

	st.Inputs[alias] = append(st.Inputs[alias], tok.ID)
	e.logActivity(cfg.ID, domain.ActivityReceived, &tok.Value, tok.ID, "input "+alias)
	e.scheduleFire(cfg.ID)
}

// attemptFire fires the join when every declared input holds at least one
// buffered token: exactly one token per input is popped FIFO, each output
// formula is evaluated against the consumed tokens by alias, and one result
// token per output is created and forwarded. A formula error is isolated to
// its output; the other outputs still fire.
func (e *Engine) attemptFire(ctx context.Context, cfg *domain.ProcessConfig) {
	st := e.states[cfg.ID].(*domain.ProcessState)

	for _, alias := range cfg.Inputs {
		if len(st.Inputs[alias]) == 0 {
			return
		}
	}

	st.Stage = domain.PhaseProcessing
	st.Fired++

	vars := make(map[string]float64, len(cfg.Inputs))
	sources := make([]string, 0, len(cfg.Inputs))
	for _, alias := range cfg.Inputs {
		id := st.Inputs[alias][0]
		st.Inputs[alias] = st.Inputs[alias][1:]
		sources = append(sources, id)
		if tok, ok := e.tracker.Token(id); ok {
			vars[alias] = tok.Value
		}
	}
	e.logActivity(cfg.ID, domain.ActivityFired, nil, "", fmt.Sprintf("consumed %d inputs", len(sources)))

	for _, out := range cfg.Results {
		value, err := e.evaluate(out.Formula, vars)
		if err != nil {
			e.logActivity(cfg.ID, domain.ActivityError, nil, "", fmt.Sprintf("output %s: %v", out.Name, err))
			e.surface("node %s output %s: formula error: %v", cfg.ID, out.Name, err)
			continue
		}
		tok := e.newToken(ctx, cfg.ID, value, sources)
		e.logActivity(cfg.ID, domain.ActivityEmitted, &value, tok.ID, "output "+out.Name)
		e.deliver(ctx, tok, cfg.ID, out.Port())
	}

	st.Stage = domain.PhaseIdle
}
