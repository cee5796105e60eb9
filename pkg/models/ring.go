package models

import "github.com/shopspring/decimal"

// Pattern types a ring can carry. The string values are part of the wire
// format consumed by the dashboard and must not change.
const (
	PatternCycle            = "cycle"
	PatternSmurfingFanIn    = "smurfing_fan_in"
	PatternSmurfingFanOut   = "smurfing_fan_out"
	PatternLayeredShell     = "layered_shell"
	PatternLargeTransaction = "large_transaction"
)

// NoPrimaryRing is reported for an account that belongs to no ring.
const NoPrimaryRing = "RING_000"

// Ring is one detected fraud pattern: a group of accounts plus the
// pattern-specific metadata the detector recorded. Rings are created once
// per analysis and never mutated afterwards.
//
// Member order is semantically meaningful for cycles and shell chains
// (traversal order); fan patterns use insertion order. Deduplication inside
// each detector happens on a sorted-member canonical key, never on the
// ordered member list itself.
type Ring struct {
	RingID      string
	PatternType string
	Members     []string

	// cycle
	CycleLength int

	// smurfing
	Aggregator    string
	Disperser     string
	Beneficiaries []string

	// layered_shell
	Depth int

	// large_transaction
	Amount        decimal.Decimal
	Timestamp     string
	TransactionID string
}

// Contains reports whether the account is a member of this ring.
func (r *Ring) Contains(accountID string) bool {
	for _, m := range r.Members {
		if m == accountID {
			return true
		}
	}
	return false
}
