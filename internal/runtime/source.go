package runtime

import (
	"context"

	"github.com/aretw0/sluice/pkg/domain"
)

// stepSource checks the emission interval and, when due, creates one root
// token and emits it to every configured output. The idle -> generating ->
// emitting -> idle phases are transient within the tick.
func (e *Engine) stepSource(ctx context.Context, cfg *domain.SourceConfig) {
	st := e.states[cfg.ID].(*domain.SourceState)

	interval := cfg.Interval
	if interval < 1 {
		interval = 1
	}
	if e.tick < st.LastEmission+interval {
		return
	}

	st.Stage = domain.PhaseGenerating
	value := e.drawValue(cfg)
	tok := e.newToken(ctx, cfg.ID, value, nil)

	st.Stage = domain.PhaseEmitting
	e.logActivity(cfg.ID, domain.ActivityEmitted, &value, tok.ID, "")
	for _, port := range cfg.Ports {
		e.deliver(ctx, tok, cfg.ID, port)
	}

	st.LastEmission = e.tick
	st.Emitted++
	st.Stage = domain.PhaseIdle
}

// drawValue returns the fixed value when configured, otherwise a uniform
// draw from [Min, Max).
func (e *Engine) drawValue(cfg *domain.SourceConfig) float64 {
	if cfg.Value != nil {
		return *cfg.Value
	}
	if cfg.Max <= cfg.Min {
		return cfg.Min
	}
	return cfg.Min + e.rng.Float64()*(cfg.Max-cfg.Min)
}
