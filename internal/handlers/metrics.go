package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itnxhuy1806/socket-game-be/internal/services"
)

// HandleStats returns the server's metrics snapshot
func HandleStats(hub *services.Hub) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snapshot := hub.GetMetrics()
		return e.JSON(http.StatusOK, snapshot)
	}
}

// HandleHealth returns server health status
func HandleHealth(hub *services.Hub) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snapshot := hub.GetMetrics()

		status := http.StatusOK
		if snapshot.HealthStatus == "critical" {
			status = http.StatusServiceUnavailable
		}

		response := map[string]interface{}{
			"status":             snapshot.HealthStatus,
			"active_connections": snapshot.ActiveConnections,
			"active_rooms":       snapshot.ActiveRooms,
			"uptime_seconds":     snapshot.UptimeSeconds,
		}

		return e.JSON(status, response)
	}
}

// HandlePrometheus serves the Prometheus exposition endpoint
func HandlePrometheus() func(*core.RequestEvent) error {
	handler := promhttp.Handler()
	return func(e *core.RequestEvent) error {
		handler.ServeHTTP(e.Response, e.Request)
		return nil
	}
}
