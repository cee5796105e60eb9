// Package engine orchestrates one analysis: build the graph, run the four
// detectors over it, score, and assemble the report.
//
// One call is one request-scoped arena. Every counter, dedup set and map
// is allocated inside the call and dies with it, so sequential or
// concurrent analyses can never leak ring numbering into each other. The
// detectors only read the shared graph and run concurrently; scoring
// waits for all four to finish.
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/Shreevatsatg/FlowTrace/internal/detect"
	"github.com/Shreevatsatg/FlowTrace/internal/graph"
	"github.com/Shreevatsatg/FlowTrace/internal/scoring"
	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

// ErrNoTransactions is returned when the validated batch is empty. The
// caller gets a rejection instead of a silently empty report.
var ErrNoTransactions = errors.New("batch contains no valid transactions")

// Analyze runs the full detection pipeline over one transaction batch.
// It is a pure, deterministic function of its input: the same batch
// always yields identical ring ids, scores and ordering.
func Analyze(records []models.TransactionRecord) (*models.Report, error) {
	start := time.Now()

	if len(records) == 0 {
		return nil, ErrNoTransactions
	}

	g := graph.Build(records)

	var rings scoring.Rings
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		rings.Cycles = detect.DetectCycles(g)
	}()
	go func() {
		defer wg.Done()
		rings.Smurfing = detect.DetectSmurfing(g)
	}()
	go func() {
		defer wg.Done()
		rings.Shells = detect.DetectShellChains(g)
	}()
	go func() {
		defer wg.Done()
		rings.LargeTxs = detect.DetectLargeTransactions(g)
	}()
	wg.Wait()

	assertMembership(g, rings.All())

	return scoring.BuildReport(g, rings, time.Since(start).Seconds()), nil
}

// assertMembership checks that every ring member exists in the graph.
// Detectors derive members from graph traversal, so a miss is a bug in a
// detector, not a data problem — fail loudly rather than swallow it.
func assertMembership(g *models.Graph, all []*models.Ring) {
	for _, r := range all {
		for _, m := range r.Members {
			g.Node(m) // panics on an unknown account
		}
	}
}
