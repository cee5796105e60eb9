package models

// Report is the full analysis result returned for one uploaded batch.
type Report struct {
	SuspiciousAccounts []SuspiciousAccount `json:"suspicious_accounts"`
	FraudRings         []FraudRing         `json:"fraud_rings"`
	Summary            Summary             `json:"summary"`
	Graph              GraphSnapshot       `json:"graph"`
}

// SuspiciousAccount is one flagged account, sorted into the report by
// suspicion score descending.
type SuspiciousAccount struct {
	AccountID        string   `json:"account_id"`
	SuspicionScore   float64  `json:"suspicion_score"`
	DetectedPatterns []string `json:"detected_patterns"`
	RingID           string   `json:"ring_id"`
}

// FraudRing is the outward shape of a detected ring. Metadata fields are
// present only for the pattern types that produce them.
type FraudRing struct {
	RingID         string   `json:"ring_id"`
	MemberAccounts []string `json:"member_accounts"`
	PatternType    string   `json:"pattern_type"`
	RiskScore      float64  `json:"risk_score"`
	Aggregator     string   `json:"aggregator,omitempty"`
	Beneficiaries  []string `json:"beneficiaries,omitempty"`
	Amount         float64  `json:"amount,omitempty"`
	Timestamp      string   `json:"timestamp,omitempty"`
}

// Summary carries the headline counts for the dashboard cards.
type Summary struct {
	TotalAccountsAnalyzed     int     `json:"total_accounts_analyzed"`
	SuspiciousAccountsFlagged int     `json:"suspicious_accounts_flagged"`
	FraudRingsDetected        int     `json:"fraud_rings_detected"`
	ProcessingTimeSeconds     float64 `json:"processing_time_seconds"`
}

// GraphSnapshot is the node/edge dump the frontend renders on the canvas.
type GraphSnapshot struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode mirrors AccountNode with decimals rounded for display.
type GraphNode struct {
	ID            string  `json:"id"`
	SentCount     int     `json:"sentCount"`
	ReceivedCount int     `json:"receivedCount"`
	TotalSent     float64 `json:"totalSent"`
	TotalReceived float64 `json:"totalReceived"`
}

// GraphEdge is one transaction edge in the snapshot.
type GraphEdge struct {
	Source        string  `json:"source"`
	Target        string  `json:"target"`
	Amount        float64 `json:"amount"`
	Timestamp     string  `json:"timestamp"`
	TransactionID string  `json:"transaction_id,omitempty"`
}
