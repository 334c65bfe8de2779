// Package health exposes liveness and readiness endpoints for the bot
// process.
package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/glowmart/discord-giveaway-bot/app/giveaway/store"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
	Version         string    `json:"version"`
	Uptime          string    `json:"uptime"`
	ActiveGiveaways int       `json:"active_giveaways"`
}

// Handler provides the health check endpoints.
type Handler struct {
	startTime time.Time
	version   string
	store     store.GiveawayStore
	ready     atomic.Bool
}

// NewHandler creates a new health check handler.
func NewHandler(version string, giveawayStore store.GiveawayStore) *Handler {
	return &Handler{
		startTime: time.Now(),
		version:   version,
		store:     giveawayStore,
	}
}

// SetReady flips readiness once the gateway connection is up.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Health reports liveness plus the active giveaway count.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:          "healthy",
		Timestamp:       time.Now(),
		Version:         h.version,
		Uptime:          time.Since(h.startTime).String(),
		ActiveGiveaways: h.store.ActiveCount(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Ready reports readiness; not ready until the Discord session is open.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	code := http.StatusOK
	if !h.ready.Load() {
		status = "starting"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// StartServer starts the health check HTTP server.
func (h *Handler) StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	return server.ListenAndServe()
}
