package detect

import (
	"fmt"

	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

// Circular Fund Routing Detection
//
// Money moved A → B → C → A returns to its origin laundered through
// intermediaries. The detector enumerates simple directed cycles of
// bounded length from every node:
//
//	A → B → C → A          (3-cycle, classic round-trip)
//	A → B → C → D → E → A  (5-cycle, upper bound)
//
// Cycles shorter than 3 hops are self-transfers or simple back-and-forth
// pairs and are not flagged; cycles longer than 5 hops are outside the
// search bound and never enumerated.
//
// Correctness subtlety: the only nodes excluded from path extension are
// the ones on the current path. The path is copied on every recursive
// call so that sibling DFS branches cannot observe each other's
// extensions — a shared visited set would wrongly suppress cycles that
// reuse a node reached first down a different branch.

const (
	minCycleLength = 3
	maxCycleLength = 5
)

// DetectCycles finds every distinct simple cycle of length 3-5 in the
// graph. A cycle and its rotations collapse to a single ring via the
// sorted-member canonical key; ring members keep traversal order.
func DetectCycles(g *models.Graph) []*models.Ring {
	var rings []*models.Ring
	seen := make(map[string]bool)
	counter := 1

	for _, start := range g.Order {
		var dfs func(current string, path []string)
		dfs = func(current string, path []string) {
			if len(path) > maxCycleLength {
				return
			}
			for _, next := range g.Adj[current] {
				if next == start && len(path) >= minCycleLength {
					key := canonicalKey(path)
					if seen[key] {
						continue
					}
					seen[key] = true
					rings = append(rings, &models.Ring{
						RingID:      fmt.Sprintf("RING_%03d", counter),
						PatternType: models.PatternCycle,
						Members:     append([]string(nil), path...),
						CycleLength: len(path),
					})
					counter++
				} else if !containsString(path, next) {
					extended := append(append([]string(nil), path...), next)
					dfs(next, extended)
				}
			}
		}
		dfs(start, []string{start})
	}
	return rings
}
