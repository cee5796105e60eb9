// Package detect holds the four independent fraud-pattern detectors that
// run over the transaction graph: circular routing, smurfing (fan-in and
// fan-out aggregation), layered shell chains and large single transfers.
//
// Detectors only read the graph and never mutate it, so the engine may run
// them concurrently. Each detector owns its ring-id counter and its dedup
// set as locals of a single call — nothing is carried across analyses,
// which keeps ring numbering reproducible from one upload to the next.
package detect

import (
	"sort"
	"strings"

	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

// canonicalKey produces an order-insensitive identity for a set of
// accounts. A cycle and its rotations, or a chain walked from either end,
// describe the same physical ring and must collapse to one detection.
func canonicalKey(members []string) string {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// distinctSources returns the unique edge sources in first-seen order.
func distinctSources(edges []*models.Edge) []string {
	seen := make(map[string]bool, len(edges))
	var out []string
	for _, e := range edges {
		if !seen[e.Source] {
			seen[e.Source] = true
			out = append(out, e.Source)
		}
	}
	return out
}

// distinctTargets returns the unique edge targets in first-seen order.
func distinctTargets(edges []*models.Edge) []string {
	seen := make(map[string]bool, len(edges))
	var out []string
	for _, e := range edges {
		if !seen[e.Target] {
			seen[e.Target] = true
			out = append(out, e.Target)
		}
	}
	return out
}
