package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is a single validated row from an uploaded CSV batch.
// Records missing any of the three identifier fields never reach the engine;
// a malformed amount is kept and treated as zero downstream.
type TransactionRecord struct {
	TransactionID string `json:"transaction_id"`
	SenderID      string `json:"sender_id"`
	ReceiverID    string `json:"receiver_id"`
	Amount        string `json:"amount"`
	Timestamp     string `json:"timestamp"`
}

// AccountNode aggregates per-account activity while the graph is built.
// Nodes are created lazily the first time an account appears as sender or
// receiver and are only ever mutated additively.
type AccountNode struct {
	ID            string
	SentCount     int
	ReceivedCount int
	TotalSent     decimal.Decimal
	TotalReceived decimal.Decimal
	Timestamps    []string // every timestamp touching this account, in batch order
}

// Edge is one directed transaction between two accounts. Multiple edges
// between the same pair are allowed; edges are immutable once created.
type Edge struct {
	TransactionID string
	Source        string
	Target        string
	Amount        decimal.Decimal
	Timestamp     string    // original string, preserved bit-exact for output
	At            time.Time // parsed once at build time; zero when unparseable
}

// Graph is the request-scoped transaction multigraph shared read-only by
// every detector. Order preserves node insertion order so that traversal
// (and therefore ring numbering) is deterministic across runs — Go maps
// iterate in randomized order, unlike the insertion-ordered maps the rest
// of the pipeline assumes.
type Graph struct {
	Nodes map[string]*AccountNode
	Order []string            // account ids in first-seen order
	Adj   map[string][]string // sender id -> receiver ids, one entry per edge
	Edges []*Edge
}

// Node returns the account node for id, panicking if it is absent. Every
// ring member is produced from graph traversal, so a miss here is a
// programming error rather than a data problem.
func (g *Graph) Node(id string) *AccountNode {
	n, ok := g.Nodes[id]
	if !ok {
		panic("graph: account " + id + " referenced but never built")
	}
	return n
}

// Activity is the combined sent+received transaction count for an account.
func (n *AccountNode) Activity() int {
	return n.SentCount + n.ReceivedCount
}
