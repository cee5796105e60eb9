package scoring

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Shreevatsatg/FlowTrace/internal/graph"
	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

func rec(id, sender, receiver, amount, ts string) models.TransactionRecord {
	return models.TransactionRecord{
		TransactionID: id,
		SenderID:      sender,
		ReceiverID:    receiver,
		Amount:        amount,
		Timestamp:     ts,
	}
}

func cycleRing(id string, length int, members ...string) *models.Ring {
	return &models.Ring{RingID: id, PatternType: models.PatternCycle, Members: members, CycleLength: length}
}

func TestRiskScore_Formulas(t *testing.T) {
	cases := []struct {
		name string
		ring *models.Ring
		want float64
	}{
		{"3-cycle", cycleRing("RING_001", 3, "A", "B", "C"), 94.0},
		{"4-cycle", cycleRing("RING_002", 4, "A", "B", "C", "D"), 92.0},
		{"5-cycle", cycleRing("RING_003", 5, "A", "B", "C", "D", "E"), 90.0},
		{"fan-in 4 members", &models.Ring{
			PatternType: models.PatternSmurfingFanIn,
			Members:     []string{"H", "S1", "S2", "S3"},
		}, 84.0},
		{"fan-in member bonus capped at 15", &models.Ring{
			PatternType: models.PatternSmurfingFanIn,
			Members: []string{"H", "a", "b", "c", "d", "e", "f", "g", "h",
				"i", "j", "k", "l", "m", "n", "o", "p", "q"},
		}, 95.0},
		{"shell chain", &models.Ring{
			PatternType: models.PatternLayeredShell,
			Members:     []string{"A", "B", "C"},
		}, 90.0},
		{"large 5000", &models.Ring{
			PatternType: models.PatternLargeTransaction,
			Members:     []string{"A", "B"},
			Amount:      decimal.NewFromInt(5000),
		}, 85.0},
		{"large bonus capped at 10", &models.Ring{
			PatternType: models.PatternLargeTransaction,
			Members:     []string{"A", "B"},
			Amount:      decimal.NewFromInt(250000),
		}, 90.0},
		{"large below 1000 adds nothing", &models.Ring{
			PatternType: models.PatternLargeTransaction,
			Members:     []string{"A", "B"},
			Amount:      decimal.NewFromInt(999),
		}, 80.0},
	}

	for _, tc := range cases {
		if got := RiskScore(tc.ring); got != tc.want {
			t.Errorf("%s: risk = %.1f, want %.1f", tc.name, got, tc.want)
		}
	}
}

func TestRiskScore_CycleAlwaysOutranksShellChain(t *testing.T) {
	// The weakest cycle (length 5) must still beat a shell chain, so
	// primary-ring selection prefers the stronger pattern on ties.
	worst := RiskScore(cycleRing("RING_001", 5, "A", "B", "C", "D", "E"))
	shell := RiskScore(&models.Ring{PatternType: models.PatternLayeredShell, Members: []string{"A", "B", "C"}})
	if worst < shell {
		t.Errorf("5-cycle risk %.1f below shell risk %.1f", worst, shell)
	}
}

func TestScoreAccount_CapsAtHundred(t *testing.T) {
	// An account in a cycle, a smurfing ring and a shell ring, with more
	// than 20 transactions: 40+30+20+10 = 100 exactly, never more.
	records := make([]models.TransactionRecord, 0, 21)
	for i := 0; i < 21; i++ {
		records = append(records, rec("TX", "A", "B", "10", "2025-06-01T10:00:00Z"))
	}
	g := graph.Build(records)

	rings := Rings{
		Cycles:   []*models.Ring{cycleRing("RING_001", 3, "A", "B", "C")},
		Smurfing: []*models.Ring{{RingID: "RING_S1000", PatternType: models.PatternSmurfingFanIn, Members: []string{"A"}, Aggregator: "A"}},
		Shells:   []*models.Ring{{RingID: "RING_L2000", PatternType: models.PatternLayeredShell, Members: []string{"A", "X", "Y"}}},
	}

	score, tags := ScoreAccount("A", g, rings)
	if score != 100 {
		t.Errorf("score = %.1f, want exactly 100", score)
	}
	want := map[string]bool{
		"cycle_length_3":  true,
		"smurfing_fan_in": true,
		"layered_shell":   true,
		"high_velocity":   true,
	}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for _, tag := range tags {
		if !want[tag] {
			t.Errorf("unexpected tag %q", tag)
		}
	}
}

func TestScoreAccount_TagsDeduplicated(t *testing.T) {
	g := graph.Build([]models.TransactionRecord{
		rec("TX1", "A", "B", "10", "2025-06-01T10:00:00Z"),
	})

	// Two 3-cycles through A produce one cycle_length_3 tag and one +40.
	rings := Rings{
		Cycles: []*models.Ring{
			cycleRing("RING_001", 3, "A", "B", "C"),
			cycleRing("RING_002", 3, "A", "D", "E"),
		},
	}

	score, tags := ScoreAccount("A", g, rings)
	if score != 40 {
		t.Errorf("score = %.1f, want 40 (cycle bonus applied once)", score)
	}
	if len(tags) != 1 || tags[0] != "cycle_length_3" {
		t.Errorf("tags = %v, want [cycle_length_3]", tags)
	}
}

func TestBuildReport_PrimaryRingPrefersHighestRisk(t *testing.T) {
	// Every ring member must exist in the graph.
	g := graph.Build([]models.TransactionRecord{
		rec("TX1", "A", "B", "10", "2025-06-01T10:00:00Z"),
		rec("TX2", "C", "X", "10", "2025-06-01T11:00:00Z"),
		rec("TX3", "X", "Y", "10", "2025-06-01T12:00:00Z"),
	})

	// A belongs to a shell ring (risk 90.0) and a 3-cycle (risk 94.0):
	// the cycle wins on risk alone.
	rings := Rings{
		Cycles: []*models.Ring{cycleRing("RING_001", 3, "A", "B", "C")},
		Shells: []*models.Ring{{RingID: "RING_L2000", PatternType: models.PatternLayeredShell, Members: []string{"A", "X", "Y"}}},
	}

	report := BuildReport(g, rings, 0.1)
	for _, acct := range report.SuspiciousAccounts {
		if acct.AccountID == "A" && acct.RingID != "RING_001" {
			t.Errorf("primary ring for A = %s, want RING_001", acct.RingID)
		}
	}
}

func TestBuildReport_TieBreakByPatternPriority(t *testing.T) {
	g := graph.Build([]models.TransactionRecord{
		rec("TX1", "A", "B", "10", "2025-06-01T10:00:00Z"),
		rec("TX2", "C", "D", "10", "2025-06-01T11:00:00Z"),
		rec("TX3", "E", "X", "10", "2025-06-01T12:00:00Z"),
		rec("TX4", "X", "Y", "10", "2025-06-01T13:00:00Z"),
	})

	// A 5-cycle and a shell ring both score 90.0; the cycle's higher
	// pattern priority must break the tie.
	rings := Rings{
		Cycles: []*models.Ring{cycleRing("RING_001", 5, "A", "B", "C", "D", "E")},
		Shells: []*models.Ring{{RingID: "RING_L2000", PatternType: models.PatternLayeredShell, Members: []string{"A", "X", "Y"}}},
	}

	report := BuildReport(g, rings, 0.1)
	var found bool
	for _, acct := range report.SuspiciousAccounts {
		if acct.AccountID == "A" {
			found = true
			if acct.RingID != "RING_001" {
				t.Errorf("primary ring for A = %s, want RING_001 (cycle wins tie)", acct.RingID)
			}
		}
	}
	if !found {
		t.Fatalf("A missing from suspicious accounts")
	}
}

func TestBuildReport_LargeTransactionOnlyExcluded(t *testing.T) {
	g := graph.Build([]models.TransactionRecord{
		rec("TX1", "A", "B", "5000", "2025-06-01T10:00:00Z"),
		rec("TX2", "C", "D", "10", "2025-06-01T11:00:00Z"),
		rec("TX3", "D", "E", "10", "2025-06-01T12:00:00Z"),
		rec("TX4", "E", "C", "10", "2025-06-01T13:00:00Z"),
	})

	rings := Rings{
		Cycles: []*models.Ring{cycleRing("RING_001", 3, "C", "D", "E")},
		LargeTxs: []*models.Ring{{
			RingID:      "RING_LT3000",
			PatternType: models.PatternLargeTransaction,
			Members:     []string{"A", "B"},
			Amount:      decimal.NewFromInt(5000),
		}},
	}

	report := BuildReport(g, rings, 0.1)
	for _, acct := range report.SuspiciousAccounts {
		if acct.AccountID == "A" || acct.AccountID == "B" {
			t.Errorf("large-transaction-only account %s must be excluded", acct.AccountID)
		}
	}
	// The ring itself is still reported.
	if len(report.FraudRings) != 2 {
		t.Errorf("fraud rings = %d, want 2", len(report.FraudRings))
	}
	if report.Summary.SuspiciousAccountsFlagged != 3 {
		t.Errorf("flagged = %d, want 3 (C, D, E)", report.Summary.SuspiciousAccountsFlagged)
	}
}

func TestBuildReport_SortedByScoreDescending(t *testing.T) {
	g := graph.Build([]models.TransactionRecord{
		rec("TX1", "A", "B", "10", "2025-06-01T10:00:00Z"),
		rec("TX2", "X", "Y", "10", "2025-06-01T11:00:00Z"),
		rec("TX3", "C", "Z", "10", "2025-06-01T12:00:00Z"),
	})

	// A/B/C sit in a cycle (40 each); X/Y/Z only in a shell ring (20 each).
	rings := Rings{
		Cycles: []*models.Ring{cycleRing("RING_001", 3, "A", "B", "C")},
		Shells: []*models.Ring{{RingID: "RING_L2000", PatternType: models.PatternLayeredShell, Members: []string{"X", "Y", "Z"}}},
	}

	report := BuildReport(g, rings, 0.1)
	if len(report.SuspiciousAccounts) != 6 {
		t.Fatalf("expected 6 suspicious accounts, got %d", len(report.SuspiciousAccounts))
	}
	for i := 1; i < len(report.SuspiciousAccounts); i++ {
		if report.SuspiciousAccounts[i].SuspicionScore > report.SuspiciousAccounts[i-1].SuspicionScore {
			t.Errorf("accounts not sorted by score: %v", report.SuspiciousAccounts)
		}
	}
	if report.SuspiciousAccounts[0].SuspicionScore != 40 {
		t.Errorf("top score = %.1f, want 40", report.SuspiciousAccounts[0].SuspicionScore)
	}
}

func TestBuildReport_GraphSnapshotRounding(t *testing.T) {
	g := graph.Build([]models.TransactionRecord{
		rec("TX1", "A", "B", "100.456", "2025-06-01T10:00:00Z"),
	})

	report := BuildReport(g, Rings{}, 0.123456)
	if len(report.Graph.Nodes) != 2 || len(report.Graph.Edges) != 1 {
		t.Fatalf("snapshot shape wrong: %d nodes, %d edges", len(report.Graph.Nodes), len(report.Graph.Edges))
	}
	if report.Graph.Nodes[0].TotalSent != 100.46 {
		t.Errorf("total sent = %v, want 100.46 (rounded to 2 places)", report.Graph.Nodes[0].TotalSent)
	}
	if report.Graph.Edges[0].Amount != 100.46 {
		t.Errorf("edge amount = %v, want 100.46", report.Graph.Edges[0].Amount)
	}
	if report.Summary.ProcessingTimeSeconds != 0.12 {
		t.Errorf("processing time = %v, want 0.12", report.Summary.ProcessingTimeSeconds)
	}
	if report.Summary.TotalAccountsAnalyzed != 2 {
		t.Errorf("total accounts = %d, want 2", report.Summary.TotalAccountsAnalyzed)
	}
}
