package rest

import (
	"context"
	"net/http"
	"time"
)

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

const pingTimeout = 3 * time.Second

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db        dbPinger
	version   string
	startedAt time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db dbPinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version, startedAt: time.Now()}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Uptime     string                `json:"uptime,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness check. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready is the readiness check. Pings DB: 200 if OK, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	db := h.checkDB(r.Context())
	writeJSON(w, statusCode(db.Status), HealthResponse{Status: db.Status, Timestamp: time.Now()})
}

// Health is the full health check with DB latency, version and uptime.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	db := h.checkDB(r.Context())
	writeJSON(w, statusCode(db.Status), HealthResponse{
		Status:     db.Status,
		Version:    h.version,
		Uptime:     time.Since(h.startedAt).Truncate(time.Second).String(),
		Components: map[string]CompStatus{"database": db},
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) checkDB(ctx context.Context) CompStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return CompStatus{Status: "down"}
	}
	return CompStatus{Status: "ok", Latency: time.Since(start).String()}
}

func statusCode(status string) int {
	if status != "ok" {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
