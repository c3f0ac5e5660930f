package domain

// Token is an immutable-identity unit of value flowing through the graph.
// Provenance lives in the lineage store keyed by the token id, so buffers
// and retained lists only ever hold ids.
type Token struct {
	ID        string  `json:"id"`
	Value     float64 `json:"value"`
	CreatedAt int64   `json:"created_at"` // tick
	Origin    string  `json:"origin"`     // node id
}

// Lineage records which tokens were consumed to produce a token, the
// ultimate root sources it derives from, and its generation depth.
// A token with no sources has Generation 0 and is its own ultimate source.
type Lineage struct {
	TokenID         string   `json:"token_id"`
	Sources         []string `json:"sources,omitempty"`
	UltimateSources []string `json:"ultimate_sources"`
	Generation      int      `json:"generation"`
}
