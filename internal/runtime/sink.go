package runtime

import (
	"github.com/aretw0/sluice/pkg/domain"
)

// consumeSink records a consumed token: the retained list is capped, the
// consumed count and last-consumed tick advance, and the consumption is
// logged. The processing phase is transient within the delivery.
func (e *Engine) consumeSink(tok *domain.Token, from string, cfg *domain.SinkConfig) {
	st := e.states[cfg.ID].(*domain.SinkState)
	st.Stage = domain.PhaseProcessing

	limit := cfg.RetainLimit
	if limit < 1 {
		limit = defaultRetainLimit
	}
	st.Retained = append(st.Retained, tok.ID)
	if len(st.Retained) > limit {
		st.Retained = st.Retained[len(st.Retained)-limit:]
	}

	st.Consumed++
	st.LastConsumed = e.tick
	e.logActivity(cfg.ID, domain.ActivityConsumed, &tok.Value, tok.ID, "from "+from)
	st.Stage = domain.PhaseIdle
}
