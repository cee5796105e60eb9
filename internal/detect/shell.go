package detect

import (
	"fmt"

	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

// Layered Shell Chain Detection
//
// Layering pushes funds through a sequence of throwaway relay accounts,
// each touched only a handful of times, to stretch the paper trail:
//
//	X → shell1 → shell2 → shell3 → Y
//
// An account qualifies as a relay when its combined sent+received count
// sits in [2, 3] — active enough to pass money through, quiet enough to
// be a mule rather than a real customer. From each qualifying seed the
// detector extends along outgoing edges into neighbors that are also
// low-activity (≤ 3) and not already on the chain, and emits a ring the
// moment the chain reaches 3 hops. Chains that share the same member set
// in a different walk order collapse to one ring.

const (
	relayMinActivity = 2
	relayMaxActivity = 3
	chainDepth       = 3
)

// DetectShellChains finds chains of low-activity relay accounts.
func DetectShellChains(g *models.Graph) []*models.Ring {
	var rings []*models.Ring
	seen := make(map[string]bool)
	counter := 2000

	for _, id := range g.Order {
		activity := g.Node(id).Activity()
		if activity < relayMinActivity || activity > relayMaxActivity {
			continue
		}

		var extend func(current string, chain []string, depth int)
		extend = func(current string, chain []string, depth int) {
			if depth >= chainDepth {
				key := canonicalKey(chain)
				if !seen[key] {
					seen[key] = true
					rings = append(rings, &models.Ring{
						RingID:      fmt.Sprintf("RING_L%03d", counter),
						PatternType: models.PatternLayeredShell,
						Members:     append([]string(nil), chain...),
						Depth:       depth,
					})
					counter++
				}
				return
			}
			for _, next := range g.Adj[current] {
				if containsString(chain, next) {
					continue
				}
				if g.Node(next).Activity() > relayMaxActivity {
					continue
				}
				extend(next, append(append([]string(nil), chain...), next), depth+1)
			}
		}
		extend(id, []string{id}, 1)
	}
	return rings
}
