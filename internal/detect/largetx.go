package detect

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

// Large Transaction Detection
//
// The simplest signal: a single transfer at or above the threshold.
// $3,000 is the baseline here; real-world systems often use the $10,000
// US CTR threshold. A lone large transfer is weak evidence on its own —
// the scoring stage excludes accounts whose only signal is this one.

// LargeTransactionThreshold is the flag cutoff in currency units.
var LargeTransactionThreshold = decimal.NewFromInt(3000)

// DetectLargeTransactions flags every edge at or above the threshold.
// The ring-id counter restarts at its base on every call; it must never
// outlive a single analysis or ids drift upward across uploads.
func DetectLargeTransactions(g *models.Graph) []*models.Ring {
	var rings []*models.Ring
	counter := 3000

	for _, e := range g.Edges {
		if e.Amount.LessThan(LargeTransactionThreshold) {
			continue
		}
		rings = append(rings, &models.Ring{
			RingID:        fmt.Sprintf("RING_LT%03d", counter),
			PatternType:   models.PatternLargeTransaction,
			Members:       []string{e.Source, e.Target},
			Amount:        e.Amount,
			Timestamp:     e.Timestamp,
			TransactionID: e.TransactionID,
		})
		counter++
	}
	return rings
}
