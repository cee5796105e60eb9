package detect

import (
	"fmt"
	"testing"
)

func TestDetectCycles_TriangleProducesOneRing(t *testing.T) {
	// A→B→C→A is one physical loop no matter which node DFS starts from.
	g := makeGraph(
		rec("TX1", "A", "B", "100", "2025-06-01T10:00:00Z"),
		rec("TX2", "B", "C", "100", "2025-06-01T11:00:00Z"),
		rec("TX3", "C", "A", "100", "2025-06-01T12:00:00Z"),
	)

	rings := DetectCycles(g)
	if len(rings) != 1 {
		t.Fatalf("expected 1 cycle ring, got %d", len(rings))
	}
	r := rings[0]
	if r.RingID != "RING_001" {
		t.Errorf("ring id = %s, want RING_001", r.RingID)
	}
	if r.CycleLength != 3 {
		t.Errorf("cycle length = %d, want 3", r.CycleLength)
	}
	if len(r.Members) != 3 || r.Members[0] != "A" || r.Members[1] != "B" || r.Members[2] != "C" {
		t.Errorf("members = %v, want [A B C] in traversal order", r.Members)
	}
}

func TestDetectCycles_TwoHopLoopNotFlagged(t *testing.T) {
	g := makeGraph(
		rec("TX1", "A", "B", "100", "2025-06-01T10:00:00Z"),
		rec("TX2", "B", "A", "100", "2025-06-01T11:00:00Z"),
	)

	if rings := DetectCycles(g); len(rings) != 0 {
		t.Errorf("2-hop loop must not be a cycle ring, got %d rings", len(rings))
	}
}

func TestDetectCycles_SixHopLoopOutsideBound(t *testing.T) {
	g := makeGraph(
		rec("TX1", "A", "B", "10", "2025-06-01T10:00:00Z"),
		rec("TX2", "B", "C", "10", "2025-06-01T10:00:00Z"),
		rec("TX3", "C", "D", "10", "2025-06-01T10:00:00Z"),
		rec("TX4", "D", "E", "10", "2025-06-01T10:00:00Z"),
		rec("TX5", "E", "F", "10", "2025-06-01T10:00:00Z"),
		rec("TX6", "F", "A", "10", "2025-06-01T10:00:00Z"),
	)

	if rings := DetectCycles(g); len(rings) != 0 {
		t.Errorf("6-hop loop is outside the search bound, got %d rings", len(rings))
	}
}

func TestDetectCycles_FiveHopLoopAtBound(t *testing.T) {
	g := makeGraph(
		rec("TX1", "A", "B", "10", "2025-06-01T10:00:00Z"),
		rec("TX2", "B", "C", "10", "2025-06-01T10:00:00Z"),
		rec("TX3", "C", "D", "10", "2025-06-01T10:00:00Z"),
		rec("TX4", "D", "E", "10", "2025-06-01T10:00:00Z"),
		rec("TX5", "E", "A", "10", "2025-06-01T10:00:00Z"),
	)

	rings := DetectCycles(g)
	if len(rings) != 1 {
		t.Fatalf("expected 1 cycle ring at the 5-hop bound, got %d", len(rings))
	}
	if rings[0].CycleLength != 5 {
		t.Errorf("cycle length = %d, want 5", rings[0].CycleLength)
	}
}

func TestDetectCycles_SiblingBranchesDoNotBlockEachOther(t *testing.T) {
	// Two triangles through a shared node C:
	//
	//	A → B → C → A
	//	A → D → C → A
	//
	// Visiting C down the B branch must not stop the D branch from
	// reaching it. A shared visited set across siblings loses the
	// second cycle.
	g := makeGraph(
		rec("TX1", "A", "B", "10", "2025-06-01T10:00:00Z"),
		rec("TX2", "B", "C", "10", "2025-06-01T10:00:00Z"),
		rec("TX3", "C", "A", "10", "2025-06-01T10:00:00Z"),
		rec("TX4", "A", "D", "10", "2025-06-01T10:00:00Z"),
		rec("TX5", "D", "C", "10", "2025-06-01T10:00:00Z"),
	)

	rings := DetectCycles(g)
	if len(rings) != 2 {
		t.Fatalf("expected both triangles, got %d rings", len(rings))
	}
	if rings[0].RingID != "RING_001" || rings[1].RingID != "RING_002" {
		t.Errorf("ring ids = %s, %s; want RING_001, RING_002", rings[0].RingID, rings[1].RingID)
	}

	found := map[string]bool{}
	for _, r := range rings {
		found[fmt.Sprintf("%v", r.Members)] = true
	}
	if !found["[A B C]"] || !found["[A D C]"] {
		t.Errorf("unexpected cycle membership: %v", found)
	}
}
