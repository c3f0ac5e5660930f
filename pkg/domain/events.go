package domain

import "context"

// TokenEvent reports a token creation.
type TokenEvent struct {
	Tick       int64   `json:"tick"`
	NodeID     string  `json:"node_id"`
	TokenID    string  `json:"token_id"`
	Value      float64 `json:"value"`
	Generation int     `json:"generation"`
}

// MoveEvent reports a token delivered from one node to another.
type MoveEvent struct {
	Tick    int64  `json:"tick"`
	From    string `json:"from"`
	To      string `json:"to"`
	TokenID string `json:"token_id"`
}

// DropEvent reports a token discarded on buffer overflow.
type DropEvent struct {
	Tick    int64  `json:"tick"`
	NodeID  string `json:"node_id"`
	TokenID string `json:"token_id"`
	Reason  string `json:"reason"`
}

// TransitionEvent reports an executed state machine transition.
type TransitionEvent struct {
	Tick    int64       `json:"tick"`
	NodeID  string      `json:"node_id"`
	From    string      `json:"from"`
	To      string      `json:"to"`
	Trigger TriggerKind `json:"trigger"`
}

// LifecycleHooks defines callbacks for engine observability. All hooks are
// optional and invoked synchronously inside the tick; keep them cheap.
type LifecycleHooks struct {
	OnTick         func(context.Context, int64)
	OnTokenCreated func(context.Context, *TokenEvent)
	OnTokenMoved   func(context.Context, *MoveEvent)
	OnTokenDropped func(context.Context, *DropEvent)
	OnTransition   func(context.Context, *TransitionEvent)
}
