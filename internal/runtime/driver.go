package runtime

import (
	"context"
	"time"

	"github.com/aretw0/sluice/pkg/domain"
)

// Step advances the logical clock by n ticks.
func (e *Engine) Step(ctx context.Context, n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.def == nil {
		return domain.ErrNoDefinition
	}
	for i := 0; i < n; i++ {
		e.stepLocked(ctx)
	}
	return nil
}

// stepLocked runs exactly one tick. Processing is strictly ordered across
// node kinds: source emission, state machine timer/condition transitions,
// enhanced machine drain, queue aggregation, queue output forwarding.
// Process nodes are not polled here; they fire reactively through the
// cascade queue the moment a token lands in one of their inputs.
func (e *Engine) stepLocked(ctx context.Context) {
	e.tick++
	if e.hooks.OnTick != nil {
		e.hooks.OnTick(ctx, e.tick)
	}

	for _, cfg := range e.def.Nodes {
		if c, ok := cfg.(*domain.SourceConfig); ok {
			e.stepSource(ctx, c)
		}
	}
	e.drainCascade(ctx)

	for _, cfg := range e.def.Nodes {
		if c, ok := cfg.(*domain.StateMachineConfig); ok {
			e.stepStateMachine(ctx, c)
		}
	}
	e.drainCascade(ctx)

	for _, cfg := range e.def.Nodes {
		if c, ok := cfg.(*domain.EnhancedStateMachineConfig); ok {
			e.drainEnhanced(ctx, c)
		}
	}
	e.drainCascade(ctx)

	for _, cfg := range e.def.Nodes {
		if c, ok := cfg.(*domain.QueueConfig); ok {
			e.aggregateQueue(ctx, c)
		}
	}

	for _, cfg := range e.def.Nodes {
		if c, ok := cfg.(*domain.QueueConfig); ok {
			e.forwardQueue(ctx, c)
		}
	}
	e.drainCascade(ctx)
}

// Play starts the self-rescheduling tick loop. It is a no-op when already
// running or when no definition is loaded.
func (e *Engine) Play(ctx context.Context) {
	e.mu.Lock()
	if e.running || e.def == nil {
		e.mu.Unlock()
		return
	}
	e.running = true
	stop := make(chan struct{})
	e.stop = stop
	interval := e.tickInterval
	e.mu.Unlock()

	go e.loop(ctx, stop, interval)
}

func (e *Engine) loop(ctx context.Context, stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			e.Pause()
			return
		case <-stop:
			return
		case <-ticker.C:
			e.mu.Lock()
			if !e.running {
				e.mu.Unlock()
				return
			}
			e.stepLocked(ctx)
			e.mu.Unlock()
		}
	}
}

// Pause stops the play loop. The tick in flight, if any, completes first
// because it holds the engine mutex.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	close(e.stop)
	e.stop = nil
}

// deliver routes a token to a destination port, applying the destination
// kind's reception rule. Process deliveries enqueue a reactive firing.
func (e *Engine) deliver(ctx context.Context, tok *domain.Token, from string, port domain.Port) {
	cfg, ok := e.def.Node(port.Target)
	if !ok {
		e.defect("node %s: output %q references unknown node %q", from, port.Name, port.Target)
		return
	}

	if e.hooks.OnTokenMoved != nil {
		e.hooks.OnTokenMoved(ctx, &domain.MoveEvent{
			Tick:    e.tick,
			From:    from,
			To:      port.Target,
			TokenID: tok.ID,
		})
	}

	switch c := cfg.(type) {
	case *domain.QueueConfig:
		e.receiveQueue(ctx, tok, from, c)
	case *domain.ProcessConfig:
		e.receiveProcess(tok, from, c, port)
	case *domain.StateMachineConfig:
		e.receiveStateMachine(ctx, tok, from, c, port)
	case *domain.EnhancedStateMachineConfig:
		e.receiveEnhanced(tok, from, c)
	case *domain.SinkConfig:
		e.consumeSink(tok, from, c)
	case *domain.SourceConfig:
		e.defect("node %s: cannot deliver token %s to source %s", from, tok.ID, c.ID)
	case *domain.ModuleConfig:
		// Module token handling is part of the unimplemented sub-graph
		// surface; record rather than guess.
		e.defect("node %s: module %s cannot receive tokens (sub-graph execution not implemented)", from, c.ID)
	}
}

// scheduleFire queues a reactive firing attempt for a process node.
func (e *Engine) scheduleFire(nodeID string) {
	e.fireQueue = append(e.fireQueue, nodeID)
}

// drainCascade processes the reactive firing queue to a fixpoint. A cycle
// of process nodes with no time-gating would cascade forever, so the loop
// is capped; overflow aborts the remaining queue and surfaces a distinct
// error kind.
func (e *Engine) drainCascade(ctx context.Context) {
	iterations := 0
	for len(e.fireQueue) > 0 {
		iterations++
		if iterations > e.cascadeLimit {
			err := &domain.CascadeOverflowError{Tick: e.tick, Limit: e.cascadeLimit}
			e.surface("%s", err)
			e.logger.Error("cascade overflow", "tick", e.tick, "limit", e.cascadeLimit)
			e.fireQueue = nil
			return
		}
		nodeID := e.fireQueue[0]
		e.fireQueue = e.fireQueue[1:]
		cfg, ok := e.def.Node(nodeID)
		if !ok {
			continue
		}
		if c, ok := cfg.(*domain.ProcessConfig); ok {
			e.attemptFire(ctx, c)
		}
	}
}

// logActivity appends a ledger entry stamped with the current tick, the
// node's authoritative state and its buffer sizes. A missing node id is a
// defensive-check failure captured into the message list.
func (e *Engine) logActivity(nodeID string, action domain.ActivityAction, value *float64, tokenID, details string) {
	if nodeID == "" {
		e.defect("ledger call with missing node id (action %s)", action)
		return
	}
	st, ok := e.states[nodeID]
	if !ok {
		e.defect("ledger call for unknown node %q (action %s)", nodeID, action)
		return
	}
	e.ledger.Append(domain.ActivityEntry{
		Tick:        e.tick,
		NodeID:      nodeID,
		Action:      action,
		Value:       value,
		TokenID:     tokenID,
		Details:     details,
		State:       authoritativeState(st),
		BufferSizes: bufferSizes(st),
	})
}

// authoritativeState is the machine state for state machines and the
// lifecycle phase for everything else.
func authoritativeState(st domain.NodeState) string {
	if sm, ok := st.(*domain.StateMachineState); ok {
		return sm.Info.Current
	}
	return string(st.Phase())
}

func bufferSizes(st domain.NodeState) map[string]int {
	switch s := st.(type) {
	case *domain.QueueState:
		return map[string]int{"input": len(s.Input), "output": len(s.Output)}
	case *domain.ProcessState:
		sizes := make(map[string]int, len(s.Inputs))
		for alias, buf := range s.Inputs {
			sizes[alias] = len(buf)
		}
		return sizes
	case *domain.StateMachineState:
		sizes := make(map[string]int, len(s.Inputs))
		for name, buf := range s.Inputs {
			sizes[name] = len(buf)
		}
		return sizes
	case *domain.EnhancedStateMachineState:
		return map[string]int{"buffer": len(s.Buffer)}
	case *domain.SinkState:
		return map[string]int{"retained": len(s.Retained)}
	}
	return nil
}

// newToken registers a token with the tracker and fires the creation hook.
func (e *Engine) newToken(ctx context.Context, origin string, value float64, sources []string) *domain.Token {
	tok := e.tracker.Create(origin, value, e.tick, sources)
	if e.hooks.OnTokenCreated != nil {
		lin, _ := e.tracker.Lineage(tok.ID)
		gen := 0
		if lin != nil {
			gen = lin.Generation
		}
		e.hooks.OnTokenCreated(ctx, &domain.TokenEvent{
			Tick:       e.tick,
			NodeID:     origin,
			TokenID:    tok.ID,
			Value:      value,
			Generation: gen,
		})
	}
	return tok
}
