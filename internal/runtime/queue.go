package runtime

import (
	"context"

	"github.com/aretw0/sluice/pkg/domain"
)

// receiveQueue appends an arriving token to the input buffer, respecting
// the configured capacity. Overflow is silent data loss by design: the
// token is dropped and the drop is logged, never retried. The token itself
// stays in the lineage registry, merely decoupled from any buffer.
func (e *Engine) receiveQueue(ctx context.Context, tok *domain.Token, from string, cfg *domain.QueueConfig) {
	st := e.states[cfg.ID].(*domain.QueueState)

	if len(st.Input) >= cfg.Capacity {
		st.Dropped++
		e.logActivity(cfg.ID, domain.ActivityDropped, &tok.Value, tok.ID, "input buffer full")
		if e.hooks.OnTokenDropped != nil {
			e.hooks.OnTokenDropped(ctx, &domain.DropEvent{
				Tick:    e.tick,
				NodeID:  cfg.ID,
				TokenID: tok.ID,
				Reason:  "capacity",
			})
		}
		return
	}

	st.Input = append(st.Input, tok.ID)
	st.Stage = domain.PhaseAccumulating
	e.logActivity(cfg.ID, domain.ActivityReceived, &tok.Value, tok.ID, "from "+from)
}

// aggregateQueue runs the once-per-window aggregation state machine: an
// empty buffer logs a no-op trigger and stays idle; otherwise the whole
// buffer is reduced into one result token that carries every consumed
// token as a lineage source.
func (e *Engine) aggregateQueue(ctx context.Context, cfg *domain.QueueConfig) {
	st := e.states[cfg.ID].(*domain.QueueState)

	window := cfg.Window
	if window < 1 {
		window = 1
	}
	if e.tick < st.LastAggregation+window {
		return
	}
	st.LastAggregation = e.tick

	if len(st.Input) == 0 {
		e.logActivity(cfg.ID, domain.ActivityAggSkipped, nil, "", "empty input buffer")
		st.Stage = domain.PhaseIdle
		return
	}

	st.Stage = domain.PhaseProcessing
	values := make([]float64, 0, len(st.Input))
	for _, id := range st.Input {
		if tok, ok := e.tracker.Token(id); ok {
			values = append(values, tok.Value)
		}
	}
	result := cfg.Method.Apply(values)
	sources := append([]string(nil), st.Input...)
	tok := e.newToken(ctx, cfg.ID, result, sources)

	st.Input = nil
	st.Output = append(st.Output, tok.ID)
	st.Stage = domain.PhaseEmitting
	e.logActivity(cfg.ID, domain.ActivityAggregated, &result, tok.ID, string(cfg.Method))
}

// forwardQueue drains one token from the output buffer per tick and
// forwards a reference to it to all configured destinations.
func (e *Engine) forwardQueue(ctx context.Context, cfg *domain.QueueConfig) {
	st := e.states[cfg.ID].(*domain.QueueState)
	if len(st.Output) == 0 {
		return
	}

	id := st.Output[0]
	st.Output = st.Output[1:]
	if tok, ok := e.tracker.Token(id); ok {
		e.logActivity(cfg.ID, domain.ActivityForwarded, &tok.Value, id, "")
		for _, port := range cfg.Ports {
			e.deliver(ctx, tok, cfg.ID, port)
		}
	}

	if len(st.Output) == 0 {
		st.Stage = domain.PhaseIdle
	}
}
