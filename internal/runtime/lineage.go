package runtime

import (
	"fmt"

	"github.com/aretw0/sluice/pkg/domain"
)

// Tracker owns every token created during a run together with its lineage
// record. The registry is independent of live node buffers so provenance
// survives buffer eviction and ledger truncation.
type Tracker struct {
	tokens  map[string]*domain.Token
	lineage map[string]*domain.Lineage
	next    uint64
}

// NewTracker creates an empty registry.
func NewTracker() *Tracker {
	return &Tracker{
		tokens:  make(map[string]*domain.Token),
		lineage: make(map[string]*domain.Lineage),
	}
}

// Create registers a new token. Generation and ultimate sources are
// computed purely from the sources' previously recorded lineage: a token
// with no sources is generation 0 and its own ultimate source; a source
// with no recorded lineage is treated as an ultimate source of generation 0.
func (t *Tracker) Create(origin string, value float64, tick int64, sources []string) *domain.Token {
	t.next++
	tok := &domain.Token{
		ID:        fmt.Sprintf("t-%06d", t.next),
		Value:     value,
		CreatedAt: tick,
		Origin:    origin,
	}

	lin := &domain.Lineage{TokenID: tok.ID}
	if len(sources) == 0 {
		lin.Generation = 0
		lin.UltimateSources = []string{tok.ID}
	} else {
		lin.Sources = append([]string(nil), sources...)
		maxGen := 0
		seen := make(map[string]bool)
		for _, src := range sources {
			srcLin, ok := t.lineage[src]
			if !ok {
				// Unrecorded lineage: the source itself is ultimate.
				if !seen[src] {
					seen[src] = true
					lin.UltimateSources = append(lin.UltimateSources, src)
				}
				continue
			}
			if srcLin.Generation > maxGen {
				maxGen = srcLin.Generation
			}
			for _, ult := range srcLin.UltimateSources {
				if !seen[ult] {
					seen[ult] = true
					lin.UltimateSources = append(lin.UltimateSources, ult)
				}
			}
		}
		lin.Generation = maxGen + 1
	}

	t.tokens[tok.ID] = tok
	t.lineage[tok.ID] = lin
	return tok
}

// Token returns the token for an id.
func (t *Tracker) Token(id string) (*domain.Token, bool) {
	tok, ok := t.tokens[id]
	return tok, ok
}

// Lineage returns the provenance record for an id.
func (t *Tracker) Lineage(id string) (*domain.Lineage, bool) {
	lin, ok := t.lineage[id]
	return lin, ok
}

// Count reports how many tokens have been created this run.
func (t *Tracker) Count() int {
	return len(t.tokens)
}
