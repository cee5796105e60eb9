package db

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

// schemaSQL is compiled into the binary so schema init works in a runtime
// image that never ships the .sql file.
//
//go:embed schema.sql
var schemaSQL string

// Store persists the per-analysis audit trail. The engine never reads
// from it during analysis — it is write-only from the pipeline's point
// of view, plus a history listing for the dashboard.
type Store struct {
	pool *pgxpool.Pool
}

// Connect initializes the PostgreSQL connection pool.
func Connect(connStr string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL for analysis history")
	return &Store{pool: pool}, nil
}

// Close gracefully closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema executes the embedded DDL statements.
func (s *Store) InitSchema() error {
	if _, err := s.pool.Exec(context.Background(), schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %w", err)
	}
	log.Println("Analysis history schema initialized")
	return nil
}

// SaveAnalysis records the summary row and every detected ring for one
// completed analysis in a single transaction.
func (s *Store) SaveAnalysis(ctx context.Context, analysisID, filename string, report *models.Report) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertAnalysisSQL := `
		INSERT INTO analyses (analysis_id, filename, total_accounts, accounts_flagged, rings_detected, processing_seconds)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, insertAnalysisSQL,
		analysisID,
		filename,
		report.Summary.TotalAccountsAnalyzed,
		report.Summary.SuspiciousAccountsFlagged,
		report.Summary.FraudRingsDetected,
		report.Summary.ProcessingTimeSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis row: %w", err)
	}

	insertRingSQL := `
		INSERT INTO analysis_rings (analysis_id, ring_id, pattern_type, risk_score, member_accounts)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, ring := range report.FraudRings {
		_, err = tx.Exec(ctx, insertRingSQL,
			analysisID,
			ring.RingID,
			ring.PatternType,
			ring.RiskScore,
			ring.MemberAccounts,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ring %s: %w", ring.RingID, err)
		}
	}

	return tx.Commit(ctx)
}

// AnalysisRecord is one row of the history listing.
type AnalysisRecord struct {
	AnalysisID        string    `json:"analysis_id"`
	Filename          string    `json:"filename"`
	TotalAccounts     int       `json:"total_accounts"`
	AccountsFlagged   int       `json:"accounts_flagged"`
	RingsDetected     int       `json:"rings_detected"`
	ProcessingSeconds float64   `json:"processing_seconds"`
	CreatedAt         time.Time `json:"created_at"`
}

// RecentAnalyses returns the newest audit rows, most recent first.
func (s *Store) RecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT analysis_id, filename, total_accounts, accounts_flagged, rings_detected, processing_seconds, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	records := make([]AnalysisRecord, 0, limit)
	for rows.Next() {
		var rec AnalysisRecord
		if err := rows.Scan(
			&rec.AnalysisID,
			&rec.Filename,
			&rec.TotalAccounts,
			&rec.AccountsFlagged,
			&rec.RingsDetected,
			&rec.ProcessingSeconds,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
