package runtime

import (
	"context"

	"github.com/aretw0/sluice/pkg/domain"
)

// Enhanced state machines declare a richer configuration surface (event
// streams, interpretation rules, feedback) than the engine executes. Only
// the minimal documented behavior is implemented: tokens land in one
// generic buffer and are drained once per tick, each forwarded to any
// directly connected sink. The rest of the surface stays reserved.

func (e *Engine) receiveEnhanced(tok *domain.Token, from string, cfg *domain.EnhancedStateMachineConfig) {
	st := e.states[cfg.ID].(*domain.EnhancedStateMachineState)
	st.Buffer = append(st.Buffer, tok.ID)
	st.Stage = domain.PhaseAccumulating
	e.logActivity(cfg.ID, domain.ActivityReceived, &tok.Value, tok.ID, "from "+from)
}

func (e *Engine) drainEnhanced(ctx context.Context, cfg *domain.EnhancedStateMachineConfig) {
	st := e.states[cfg.ID].(*domain.EnhancedStateMachineState)
	if len(st.Buffer) == 0 {
		return
	}

	st.Stage = domain.PhaseProcessing
	buffered := st.Buffer
	st.Buffer = nil

	for _, id := range buffered {
		tok, ok := e.tracker.Token(id)
		if !ok {
			continue
		}
		for _, port := range cfg.Ports {
			dest, ok := e.def.Node(port.Target)
			if !ok || dest.Kind() != domain.KindSink {
				continue
			}
			e.logActivity(cfg.ID, domain.ActivityForwarded, &tok.Value, tok.ID, "to "+port.Target)
			e.deliver(ctx, tok, cfg.ID, port)
		}
	}

	st.Stage = domain.PhaseIdle
}
