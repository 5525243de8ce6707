package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"finorbit/internal/cache"
	"finorbit/internal/log"
	"finorbit/internal/payload"
)

// handleChartConfig serves one chart configuration as JSON. Building the
// page here opens no table sessions.
func (s *Server) handleChartConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.buildPage(ctx, r.PathValue("page"), r.URL.Query().Get("focus"), nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, ok := p.Charts[r.PathValue("chart")]
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: chart %s", payload.ErrMissing, r.PathValue("chart")))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(c.Config()); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "chart encode failed",
			log.FieldChartID, c.ChartID(),
			log.FieldError, err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": s.now().Sub(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether templates and payload documents are loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if n := s.store.Len(); n == 0 {
		checks["payload"] = "failed: no page documents loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["payload"] = map[string]any{"pages": s.store.Pages(), "status": "ok"}
	}

	checks["table_sessions"] = map[string]any{
		"active": s.sessions.Size(),
		"status": "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

// handleMetrics writes counters in the Prometheus text exposition format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	tm := s.tracer.Metrics()
	counter(w, "http_requests_total", "Total number of HTTP requests", tm.TotalRequests)
	counter(w, "http_requests_failed_total", "HTTP requests answered with a 4xx or 5xx status", tm.FailedRequests)
	gauge(w, "http_requests_in_flight", "HTTP requests being served", float64(tm.InFlight))
	gauge(w, "http_request_duration_avg_microseconds", "Average HTTP request duration", float64(tm.AverageMicros))

	sessionMetrics(w, s.sessions.Stats())

	counter(w, "rate_limit_hits_total", "Requests refused by the rate limiter", s.limiter.Limited())
	gauge(w, "active_rate_limit_clients", "Currently tracked rate limit clients", float64(s.limiter.ActiveClients()))
	counter(w, "suspicious_requests_total", "Requests rejected as probes", s.screen.Rejected())
	gauge(w, "payload_pages", "Loaded page documents", float64(s.store.Len()))
	gauge(w, "uptime_seconds", "Application uptime in seconds", s.now().Sub(s.started).Seconds())
}

func sessionMetrics(w http.ResponseWriter, st cache.Stats) {
	gauge(w, "table_sessions", "Live table sessions", float64(st.Size))
	counter(w, "table_session_hits_total", "Table events served by a live session", st.Hits)
	counter(w, "table_session_misses_total", "Table events that rebuilt an expired session", st.Misses)
	counter(w, "table_session_evictions_total", "Table sessions evicted to stay within capacity", st.Evictions)
}

func counter[N int64 | uint64](w http.ResponseWriter, name, help string, v N) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n\n", name, help, name, name, v)
}

func gauge(w http.ResponseWriter, name, help string, v float64) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n%s %g\n\n", name, help, name, name, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
