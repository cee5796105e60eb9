package api

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shreevatsatg/FlowTrace/internal/engine"
	"github.com/Shreevatsatg/FlowTrace/internal/ingest"
)

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Money Muling Detection API is running.",
	})
}

// POST /api/v1/analyze
// Accepts a multipart CSV upload (field name "file"), runs the full
// detection pipeline synchronously and returns the report. Each upload
// gets a fresh analysis id, echoed in the X-Analysis-ID header, used for
// the audit trail row and the websocket alert.
func (h *APIHandler) handleAnalyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `No CSV file uploaded. Use field name "file".`})
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}
	if !isCSVUpload(fileHeader) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only CSV files are allowed"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}

	records, err := ingest.ParseTransactions(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed CSV: " + err.Error()})
		return
	}

	report, err := engine.Analyze(records)
	if errors.Is(err, engine.ErrNoTransactions) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "CSV contains no valid transactions"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}

	analysisID := uuid.NewString()

	if h.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.store.SaveAnalysis(ctx, analysisID, fileHeader.Filename, report); err != nil {
			log.Printf("Failed to save analysis %s to DB: %v", analysisID, err)
		}
	}
	BroadcastAnalysisAlert(h.hub, analysisID, report)

	c.Header("X-Analysis-ID", analysisID)
	c.JSON(http.StatusOK, report)
}

// GET /api/v1/analyses
// Returns the most recent analysis audit rows. 503 when no store is
// configured, mirroring how the engine runs fine without Postgres.
func (h *APIHandler) handleListAnalyses(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis history is not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	analyses, err := h.store.RecentAnalyses(ctx, 50)
	if err != nil {
		log.Printf("Failed to list analyses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

// isCSVUpload accepts by content type or .csv suffix — browsers disagree
// on the MIME type they attach to CSV files.
func isCSVUpload(fh *multipart.FileHeader) bool {
	ct := fh.Header.Get("Content-Type")
	if ct == "text/csv" || ct == "application/csv" || ct == "application/vnd.ms-excel" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(fh.Filename), ".csv")
}
