package runtime

import (
	"github.com/aretw0/sluice/pkg/domain"
)

// Ledger is the bounded append-only activity log: one FIFO-truncated
// sequence per node plus one global sequence, sharing a monotonic
// sequence counter.
type Ledger struct {
	perNode   map[string][]domain.ActivityEntry
	global    []domain.ActivityEntry
	seq       uint64
	nodeCap   int
	globalCap int
}

// NewLedger creates a ledger with the domain capacity bounds.
func NewLedger() *Ledger {
	return &Ledger{
		perNode:   make(map[string][]domain.ActivityEntry),
		nodeCap:   domain.NodeLedgerCap,
		globalCap: domain.GlobalLedgerCap,
	}
}

// Append stamps the entry with the next sequence number and pushes it onto
// both the node and global logs, truncating the oldest entries beyond the
// caps. Order within each log is oldest first.
func (l *Ledger) Append(entry domain.ActivityEntry) domain.ActivityEntry {
	l.seq++
	entry.Seq = l.seq

	node := append(l.perNode[entry.NodeID], entry)
	if len(node) > l.nodeCap {
		node = node[len(node)-l.nodeCap:]
	}
	l.perNode[entry.NodeID] = node

	l.global = append(l.global, entry)
	if len(l.global) > l.globalCap {
		l.global = l.global[len(l.global)-l.globalCap:]
	}
	return entry
}

// Node returns a copy of one node's log, oldest first.
func (l *Ledger) Node(id string) []domain.ActivityEntry {
	return append([]domain.ActivityEntry(nil), l.perNode[id]...)
}

// Global returns a copy of the global log, oldest first.
func (l *Ledger) Global() []domain.ActivityEntry {
	return append([]domain.ActivityEntry(nil), l.global...)
}
