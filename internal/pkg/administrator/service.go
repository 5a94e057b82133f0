package administrator

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"seoaudit/internal/pkg/logger"
)

// Starts the status HTTP server in a background goroutine. It serves a
// /health endpoint for monitoring and /metrics for Prometheus scrapes.
func (admin *administrator) StartStatusServer(addr string) {
	logger.Log.Info("Status server listening", zap.String("address", addr))
	go func() {
		if err := http.ListenAndServe(addr, admin.statusHandler()); err != nil {
			logger.Log.Error("Status server stopped", zap.Error(err))
		}
	}()
}

func (admin *administrator) statusHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	// /health endpoint
	mux.HandleFunc("/health", func(writer http.ResponseWriter, request *http.Request) {
		admin.mu.Lock()
		brands := len(admin.cfg.Brands)
		lastRunAt := admin.lastRunAt
		lastFailed := admin.lastFailed
		admin.mu.Unlock()

		health := struct {
			Status              string    `json:"status"`
			Brands              int       `json:"brands"`
			Uptime              string    `json:"uptime"`
			LastRunAt           time.Time `json:"last_run_at"`
			LastRunFailedChecks int       `json:"last_run_failed_checks"`
		}{
			Status:              "OK",
			Brands:              brands,
			Uptime:              time.Since(admin.startTime).String(),
			LastRunAt:           lastRunAt,
			LastRunFailedChecks: lastFailed,
		}

		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(health)
	})

	return mux
}
