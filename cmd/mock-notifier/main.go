package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/clubstake/backend/internal/logging"
)

// Development stand-in for the real notification sink: logs every message
// it receives and acknowledges with 202.
func main() {
	logging.Init("mock-notifier", "info", os.Getenv("APP_ENV"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})
	mux.HandleFunc("POST /notify", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			AccountID string `json:"account_id"`
			Message   string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		slog.Info("notification received", "account_id", payload.AccountID, "message", payload.Message)
		w.WriteHeader(http.StatusAccepted)
	})

	slog.Info("mock notifier started", "addr", ":8081")
	if err := http.ListenAndServe(":8081", mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
