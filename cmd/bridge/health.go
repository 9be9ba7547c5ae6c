package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/mtbridge/internal/connection"
	"github.com/rickgao/mtbridge/internal/poller"
	"github.com/rickgao/mtbridge/internal/stream"
	"github.com/rickgao/mtbridge/internal/version"
)

// connectionChecker is the part of the terminal client the health check uses.
type connectionChecker interface {
	CheckConnection(ctx context.Context) (bool, error)
}

// connectionState is the part of the connection manager the health check uses.
type connectionState interface {
	State() connection.State
	SessionID() uuid.UUID
	Addr() string
}

// createHealthHandler creates the HTTP handler for health checks. hub and
// quotePoller may be nil when those components are disabled. checkTimeout
// bounds the live check and must not be shorter than the command timeout,
// since a deadline expiring mid-command faults the connection.
func createHealthHandler(checker connectionChecker, conn connectionState, hub *stream.Hub, quotePoller *poller.Poller, checkTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		// Check terminal
		terminal := map[string]interface{}{
			"addr":    conn.Addr(),
			"state":   conn.State().String(),
			"session": conn.SessionID(),
		}
		if conn.State() != connection.Connected {
			health.Status = "unhealthy"
		} else if ok, err := checker.CheckConnection(ctx); err != nil {
			health.Status = "unhealthy"
			terminal["error"] = err.Error()
		} else if !ok {
			health.Status = "degraded"
			terminal["check"] = "not ok"
		} else {
			terminal["check"] = "ok"
		}
		health.Components["terminal"] = terminal

		// Stream and poller
		if hub != nil {
			health.Components["stream"] = map[string]interface{}{
				"clients": hub.Clients(),
			}
		}
		if quotePoller != nil {
			stats := quotePoller.Stats()
			health.Components["poller"] = map[string]interface{}{
				"cycles":    stats.Cycles,
				"forwarded": stats.Forwarded,
				"errors":    stats.Errors,
			}
		}

		// Set response
		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"version":    version.Version,
			"commit":     version.Commit,
			"build_time": version.BuildTime,
		})
	})

	return mux
}
