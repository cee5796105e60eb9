package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

// Scoring & Ranking
//
// Consumes every detected ring plus the graph and reconciles overlapping
// detections into one verdict per account:
//
//	suspicion score  0-100 per account, additive per pattern type
//	risk score       80-99.9 per ring, deterministic formula
//	primary ring     the single ring shown for an account that belongs
//	                 to several, chosen by risk score then pattern priority
//
// Scores are a fixed formula of the detector output — no randomness —
// so the same upload always produces the same report.

// Per-pattern score contributions. An account in rings of several pattern
// types accumulates each contribution once, capped at 100.
const (
	cycleWeight    = 40
	smurfingWeight = 30
	shellWeight    = 20
	largeTxWeight  = 10
	velocityWeight = 10

	// velocityThreshold is the sent+received count above which an account
	// is tagged high_velocity.
	velocityThreshold = 20
)

// patternPriority breaks risk-score ties during primary-ring selection.
// Higher wins: a cycle is a stronger story than a smurfing window, which
// beats a shell chain, which beats a lone large transfer.
var patternPriority = map[string]int{
	models.PatternCycle:            3,
	models.PatternSmurfingFanIn:    2,
	models.PatternSmurfingFanOut:   2,
	models.PatternLayeredShell:     1,
	models.PatternLargeTransaction: 0,
}

// Rings carries the per-detector outputs into scoring. The scoring stage
// is the only component with cross-cutting knowledge of all detectors.
type Rings struct {
	Cycles   []*models.Ring
	Smurfing []*models.Ring
	Shells   []*models.Ring
	LargeTxs []*models.Ring
}

// All returns every ring in detector order: cycles, smurfing, shells,
// large transactions. The report lists rings in this order.
func (r Rings) All() []*models.Ring {
	all := make([]*models.Ring, 0, len(r.Cycles)+len(r.Smurfing)+len(r.Shells)+len(r.LargeTxs))
	all = append(all, r.Cycles...)
	all = append(all, r.Smurfing...)
	all = append(all, r.Shells...)
	all = append(all, r.LargeTxs...)
	return all
}

// ScoreAccount computes the suspicion score and deduplicated pattern tags
// for one account. The account must exist in the graph; scoring an unknown
// id is a programming error and panics inside Graph.Node.
func ScoreAccount(id string, g *models.Graph, rings Rings) (float64, []string) {
	score := 0
	var tags []string

	var inCycle bool
	for _, r := range rings.Cycles {
		if r.Contains(id) {
			inCycle = true
			tags = append(tags, fmt.Sprintf("cycle_length_%d", r.CycleLength))
		}
	}
	if inCycle {
		score += cycleWeight
	}

	var inSmurf bool
	for _, r := range rings.Smurfing {
		if r.Contains(id) {
			inSmurf = true
			tags = append(tags, r.PatternType)
		}
	}
	if inSmurf {
		score += smurfingWeight
	}

	if anyContains(rings.Shells, id) {
		score += shellWeight
		tags = append(tags, models.PatternLayeredShell)
	}
	if anyContains(rings.LargeTxs, id) {
		score += largeTxWeight
		tags = append(tags, models.PatternLargeTransaction)
	}
	if g.Node(id).Activity() > velocityThreshold {
		score += velocityWeight
		tags = append(tags, "high_velocity")
	}

	if score > 100 {
		score = 100
	}
	return float64(score), dedupe(tags)
}

// RiskScore computes the deterministic severity estimate for one ring.
// Base 80, capped at 99.9, one decimal place.
func RiskScore(r *models.Ring) float64 {
	base := 80.0

	switch r.PatternType {
	case models.PatternCycle:
		// Tighter cycles are harder to explain away. The flat +5 keeps
		// any cycle above a shell chain: without it a 3-cycle scores 89
		// and a shell chain 90, and the weaker pattern wins ties.
		bonus := 15 - 2*r.CycleLength
		if bonus < 0 {
			bonus = 0
		}
		base += float64(bonus) + 5
	case models.PatternSmurfingFanIn, models.PatternSmurfingFanOut:
		members := len(r.Members)
		if members > 15 {
			members = 15
		}
		base += float64(members)
	case models.PatternLayeredShell:
		base += 10
	case models.PatternLargeTransaction:
		perThousand := r.Amount.Div(decimal.NewFromInt(1000)).Floor().IntPart()
		if perThousand > 10 {
			perThousand = 10
		}
		if perThousand < 0 {
			perThousand = 0
		}
		base += float64(perThousand)
	}

	if base > 99.9 {
		base = 99.9
	}
	return math.Round(base*10) / 10
}

// BuildReport reconciles the graph and all detected rings into the final
// report. Pure shaping — no detection logic lives here.
func BuildReport(g *models.Graph, rings Rings, processingSeconds float64) *models.Report {
	all := rings.All()

	suspicious := make([]models.SuspiciousAccount, 0)
	for _, id := range candidateAccounts(all) {
		score, tags := ScoreAccount(id, g, rings)

		// A single large transfer with no other signal is not conclusive.
		if len(tags) == 1 && tags[0] == models.PatternLargeTransaction {
			continue
		}

		suspicious = append(suspicious, models.SuspiciousAccount{
			AccountID:        id,
			SuspicionScore:   score,
			DetectedPatterns: tags,
			RingID:           primaryRing(id, all),
		})
	}
	sort.SliceStable(suspicious, func(i, j int) bool {
		return suspicious[i].SuspicionScore > suspicious[j].SuspicionScore
	})

	fraudRings := make([]models.FraudRing, 0, len(all))
	for _, r := range all {
		fr := models.FraudRing{
			RingID:         r.RingID,
			MemberAccounts: r.Members,
			PatternType:    r.PatternType,
			RiskScore:      RiskScore(r),
			Aggregator:     r.Aggregator,
			Beneficiaries:  r.Beneficiaries,
			Timestamp:      r.Timestamp,
		}
		if r.PatternType == models.PatternLargeTransaction {
			fr.Amount = r.Amount.InexactFloat64()
		}
		fraudRings = append(fraudRings, fr)
	}

	return &models.Report{
		SuspiciousAccounts: suspicious,
		FraudRings:         fraudRings,
		Summary: models.Summary{
			TotalAccountsAnalyzed:     len(g.Nodes),
			SuspiciousAccountsFlagged: len(suspicious),
			FraudRingsDetected:        len(fraudRings),
			ProcessingTimeSeconds:     math.Round(processingSeconds*100) / 100,
		},
		Graph: snapshot(g),
	}
}

// candidateAccounts unions ring membership, preserving first-seen order so
// equal-score accounts keep a stable report order.
func candidateAccounts(all []*models.Ring) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range all {
		for _, m := range r.Members {
			if !seen[m] {
				seen[m] = true
				ids = append(ids, m)
			}
		}
	}
	return ids
}

// primaryRing picks the ring displayed for an account: highest risk score
// first, pattern priority as the tie-break.
func primaryRing(id string, all []*models.Ring) string {
	var best *models.Ring
	var bestRisk float64
	for _, r := range all {
		if !r.Contains(id) {
			continue
		}
		risk := RiskScore(r)
		switch {
		case best == nil:
			best, bestRisk = r, risk
		case risk > bestRisk:
			best, bestRisk = r, risk
		case risk == bestRisk && patternPriority[r.PatternType] > patternPriority[best.PatternType]:
			best, bestRisk = r, risk
		}
	}
	if best == nil {
		return models.NoPrimaryRing
	}
	return best.RingID
}

func snapshot(g *models.Graph) models.GraphSnapshot {
	nodes := make([]models.GraphNode, 0, len(g.Order))
	for _, id := range g.Order {
		n := g.Node(id)
		nodes = append(nodes, models.GraphNode{
			ID:            n.ID,
			SentCount:     n.SentCount,
			ReceivedCount: n.ReceivedCount,
			TotalSent:     n.TotalSent.Round(2).InexactFloat64(),
			TotalReceived: n.TotalReceived.Round(2).InexactFloat64(),
		})
	}

	edges := make([]models.GraphEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, models.GraphEdge{
			Source:        e.Source,
			Target:        e.Target,
			Amount:        e.Amount.Round(2).InexactFloat64(),
			Timestamp:     e.Timestamp,
			TransactionID: e.TransactionID,
		})
	}
	return models.GraphSnapshot{Nodes: nodes, Edges: edges}
}

func anyContains(rings []*models.Ring, id string) bool {
	for _, r := range rings {
		if r.Contains(id) {
			return true
		}
	}
	return false
}

func dedupe(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
