package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/Shreevatsatg/FlowTrace/internal/api"
	"github.com/Shreevatsatg/FlowTrace/internal/db"
)

func main() {
	log.Println("Starting FlowTrace Money Muling Detection Engine...")

	// The engine is fully functional without a database: DATABASE_URL is
	// optional, and a failed connection only disables the history feature.
	var store *db.Store
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		conn, err := db.Connect(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to PostgreSQL, continuing without analysis history. Error: %v", err)
		} else {
			store = conn
			defer store.Close()
			if err := store.InitSchema(); err != nil {
				log.Printf("Warning: DB schema init failed: %v", err)
			}
		}
	} else {
		log.Println("DATABASE_URL not set, analysis history disabled")
	}

	wsHub := api.NewHub()
	go wsHub.Run()

	cfg := api.Config{
		AllowedOrigins: splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 10)) * 1024 * 1024,
	}

	r := api.SetupRouter(store, wsHub, cfg)

	port := getEnvOrDefault("PORT", "3000")
	log.Printf("Engine running on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// splitOrigins parses the comma-separated ALLOWED_ORIGINS value. Empty or
// "*" means allow all origins.
func splitOrigins(val string) []string {
	if val == "" || val == "*" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// getEnvOrDefault returns the env var value or a default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default %d", key, val, fallback)
		return fallback
	}
	return n
}
