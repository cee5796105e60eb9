package detect

import (
	"fmt"
	"sort"
	"time"

	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

// Smurfing Detection (structuring)
//
// Smurfing splits a large sum across many small transfers to stay under
// reporting thresholds. Two mirror-image shapes:
//
//	fan-in:  S1, S2, S3 → H      many senders feed one aggregator
//	fan-out: H → R1, R2, R3      one disperser sprays many receivers
//
// Only transfers that happen close together in time count — that temporal
// clustering is the hallmark of a structuring run, as opposed to an
// account that merely accumulates many counterparties over months. Edges
// are grouped by a greedy forward pass over timestamp-sorted edges: a
// window is anchored at its first edge and closed as soon as an edge
// falls more than windowSize past that anchor (the gap is measured from
// the window start, not from the previous edge — this is a partition,
// not a sliding window).
//
// A fan-in ring additionally records the aggregator's outgoing
// counterparties as beneficiaries: once funds are pooled they are
// typically dispersed onward, and those downstream accounts belong in
// the ring even when the dispersal happens outside the window.

const (
	fanInThreshold  = 3
	fanOutThreshold = 3
	windowSize      = 24 * time.Hour
)

// DetectSmurfing examines every account in both directions and emits a
// ring per time window that meets the distinct-counterparty threshold.
func DetectSmurfing(g *models.Graph) []*models.Ring {
	var rings []*models.Ring
	counter := 1000

	incoming := make(map[string][]*models.Edge, len(g.Nodes))
	outgoing := make(map[string][]*models.Edge, len(g.Nodes))
	for _, e := range g.Edges {
		incoming[e.Target] = append(incoming[e.Target], e)
		outgoing[e.Source] = append(outgoing[e.Source], e)
	}

	for _, id := range g.Order {
		for _, group := range groupByTimeWindow(incoming[id]) {
			senders := distinctSources(group)
			if len(senders) < fanInThreshold {
				continue
			}
			// Likely downstream dispersal of the aggregated funds,
			// deliberately not limited to the same window.
			beneficiaries := distinctTargets(outgoing[id])

			members := make([]string, 0, 1+len(senders)+len(beneficiaries))
			members = append(members, id)
			members = append(members, senders...)
			members = append(members, beneficiaries...)

			rings = append(rings, &models.Ring{
				RingID:        fmt.Sprintf("RING_S%03d", counter),
				PatternType:   models.PatternSmurfingFanIn,
				Members:       members,
				Aggregator:    id,
				Beneficiaries: beneficiaries,
			})
			counter++
		}

		for _, group := range groupByTimeWindow(outgoing[id]) {
			receivers := distinctTargets(group)
			if len(receivers) < fanOutThreshold {
				continue
			}
			members := make([]string, 0, 1+len(receivers))
			members = append(members, id)
			members = append(members, receivers...)

			rings = append(rings, &models.Ring{
				RingID:      fmt.Sprintf("RING_S%03d", counter),
				PatternType: models.PatternSmurfingFanOut,
				Members:     members,
				Disperser:   id,
			})
			counter++
		}
	}
	return rings
}

// groupByTimeWindow partitions edges into groups whose timestamps all fall
// within windowSize of the group's earliest edge.
func groupByTimeWindow(edges []*models.Edge) [][]*models.Edge {
	if len(edges) == 0 {
		return nil
	}

	sorted := append([]*models.Edge(nil), edges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At.Before(sorted[j].At)
	})

	var groups [][]*models.Edge
	windowStart := sorted[0].At
	current := []*models.Edge{}
	for _, e := range sorted {
		if e.At.Sub(windowStart) <= windowSize {
			current = append(current, e)
			continue
		}
		if len(current) > 0 {
			groups = append(groups, current)
		}
		current = []*models.Edge{e}
		windowStart = e.At
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
