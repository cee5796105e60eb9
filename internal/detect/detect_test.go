package detect

import (
	"github.com/Shreevatsatg/FlowTrace/internal/graph"
	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

// rec builds one transaction record for detector tests.
func rec(id, sender, receiver, amount, ts string) models.TransactionRecord {
	return models.TransactionRecord{
		TransactionID: id,
		SenderID:      sender,
		ReceiverID:    receiver,
		Amount:        amount,
		Timestamp:     ts,
	}
}

func makeGraph(records ...models.TransactionRecord) *models.Graph {
	return graph.Build(records)
}
