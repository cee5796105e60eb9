package graph

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

// Builder converts a flat transaction batch into the directed multigraph
// every detector traverses: one aggregate node per account, one edge per
// transaction, plus an adjacency list used purely for reachability.
//
// All three structures are scoped to a single analysis call. Nothing here
// is shared between requests.

// timestampLayouts are tried in order when parsing edge timestamps. A
// timestamp that matches none of them yields the zero time, which sorts
// before everything else during time-window grouping.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Build constructs the graph from validated transaction records. A
// malformed amount is treated as zero; the batch is never aborted.
func Build(transactions []models.TransactionRecord) *models.Graph {
	g := &models.Graph{
		Nodes: make(map[string]*models.AccountNode),
		Adj:   make(map[string][]string),
		Edges: make([]*models.Edge, 0, len(transactions)),
	}

	for _, tx := range transactions {
		amt, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			amt = decimal.Zero
		}

		sender := ensureNode(g, tx.SenderID)
		receiver := ensureNode(g, tx.ReceiverID)

		sender.SentCount++
		sender.TotalSent = sender.TotalSent.Add(amt)
		sender.Timestamps = append(sender.Timestamps, tx.Timestamp)

		receiver.ReceivedCount++
		receiver.TotalReceived = receiver.TotalReceived.Add(amt)
		receiver.Timestamps = append(receiver.Timestamps, tx.Timestamp)

		g.Adj[tx.SenderID] = append(g.Adj[tx.SenderID], tx.ReceiverID)
		g.Edges = append(g.Edges, &models.Edge{
			TransactionID: tx.TransactionID,
			Source:        tx.SenderID,
			Target:        tx.ReceiverID,
			Amount:        amt,
			Timestamp:     tx.Timestamp,
			At:            parseTimestamp(tx.Timestamp),
		})
	}
	return g
}

func ensureNode(g *models.Graph, id string) *models.AccountNode {
	if n, ok := g.Nodes[id]; ok {
		return n
	}
	n := &models.AccountNode{ID: id}
	g.Nodes[id] = n
	g.Order = append(g.Order, id)
	return n
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
