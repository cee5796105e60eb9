package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

// CSV ingestion for transaction batches.
//
// Expected columns (header row, any order, extra columns ignored):
//
//	transaction_id, sender_id, receiver_id, amount, timestamp
//
// Rows missing transaction_id, sender_id or receiver_id are dropped before
// they reach the engine. Amounts and timestamps are passed through as
// strings — the graph builder owns numeric parsing so that a bad amount
// degrades to zero instead of rejecting the whole batch.

// ParseTransactions reads an uploaded CSV body into validated records.
func ParseTransactions(data []byte) ([]models.TransactionRecord, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 // tolerate ragged rows; missing cells become ""

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var records []models.TransactionRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		rec := models.TransactionRecord{
			TransactionID: field(row, cols, "transaction_id"),
			SenderID:      field(row, cols, "sender_id"),
			ReceiverID:    field(row, cols, "receiver_id"),
			Amount:        field(row, cols, "amount"),
			Timestamp:     field(row, cols, "timestamp"),
		}
		if rec.TransactionID == "" || rec.SenderID == "" || rec.ReceiverID == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
