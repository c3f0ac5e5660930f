package domain

// ActivityAction classifies ledger entries.
type ActivityAction string

const (
	ActivityEmitted     ActivityAction = "token_emitted"
	ActivityReceived    ActivityAction = "token_received"
	ActivityDropped     ActivityAction = "token_dropped"
	ActivityForwarded   ActivityAction = "token_forwarded"
	ActivityConsumed    ActivityAction = "token_consumed"
	ActivityAggregated  ActivityAction = "aggregation"
	ActivityAggSkipped  ActivityAction = "aggregation_skipped"
	ActivityFired       ActivityAction = "fired"
	ActivityTransition  ActivityAction = "transition"
	ActivityVariableSet ActivityAction = "variable_set"
	ActivityLog         ActivityAction = "log"
	ActivityError       ActivityAction = "error"
)

// ActivityEntry is one bounded-log record of a state transition or token
// movement. Seq is monotonic across the whole run; State is the
// authoritative node phase (or machine state) at log time.
type ActivityEntry struct {
	Tick        int64          `json:"tick"`
	Seq         uint64         `json:"seq"`
	NodeID      string         `json:"node_id"`
	Action      ActivityAction `json:"action"`
	Value       *float64       `json:"value,omitempty"`
	TokenID     string         `json:"token_id,omitempty"`
	Details     string         `json:"details,omitempty"`
	State       string         `json:"state"`
	BufferSizes map[string]int `json:"buffer_sizes,omitempty"`
}

// Ledger capacity bounds, FIFO-truncated on push.
const (
	NodeLedgerCap   = 500
	GlobalLedgerCap = 1000
)
