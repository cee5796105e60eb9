package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Shreevatsatg/FlowTrace/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced at the HTTP layer; the stream is read-only
	},
}

// Hub maintains the set of active websocket clients and pushes an alert
// to all of them after each completed analysis, so open dashboards see
// new uploads without polling.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan []byte, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) Run() {
	for message := range h.broadcast {
		h.mutex.Lock()
		for client := range h.clients {
			// Write deadline keeps one stalled client from hanging the hub
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Websocket write error: %v", err)
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mutex.Unlock()
	}
}

// Subscribe handles incoming websocket connections.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()

	log.Printf("New WebSocket client connected. Total clients: %d", len(h.clients))

	// The feed is push-only, but we still read to notice disconnects.
	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close()
			log.Printf("WebSocket client disconnected. Total clients: %d", len(h.clients))
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket error: %v", err)
				}
				break
			}
		}
	}()
}

// Broadcast sends raw JSON to all connected clients.
func (h *Hub) Broadcast(data []byte) {
	h.broadcast <- data
}

// AnalysisAlert is the compact notification pushed after every upload —
// enough for a dashboard to show a toast and refresh, without streaming
// the full report to every listener.
type AnalysisAlert struct {
	Type                      string  `json:"type"`
	AnalysisID                string  `json:"analysis_id"`
	TotalAccountsAnalyzed     int     `json:"total_accounts_analyzed"`
	SuspiciousAccountsFlagged int     `json:"suspicious_accounts_flagged"`
	FraudRingsDetected        int     `json:"fraud_rings_detected"`
	TopSuspicionScore         float64 `json:"top_suspicion_score"`
	CompletedAt               string  `json:"completed_at"`
}

// BroadcastAnalysisAlert condenses a finished report into an alert and
// pushes it to every stream subscriber.
func BroadcastAnalysisAlert(hub *Hub, analysisID string, report *models.Report) {
	if hub == nil {
		return
	}

	alert := AnalysisAlert{
		Type:                      "analysis_completed",
		AnalysisID:                analysisID,
		TotalAccountsAnalyzed:     report.Summary.TotalAccountsAnalyzed,
		SuspiciousAccountsFlagged: report.Summary.SuspiciousAccountsFlagged,
		FraudRingsDetected:        report.Summary.FraudRingsDetected,
		CompletedAt:               time.Now().UTC().Format(time.RFC3339),
	}
	if len(report.SuspiciousAccounts) > 0 {
		alert.TopSuspicionScore = report.SuspiciousAccounts[0].SuspicionScore
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		log.Printf("Failed to marshal analysis alert: %v", err)
		return
	}
	hub.Broadcast(payload)
}
