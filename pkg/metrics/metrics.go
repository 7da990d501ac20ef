package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"marketplace-web/internal/rbac"

	"github.com/labstack/echo/v4"
)

// Metrics holds request counters and route guard outcomes.
// Thread-safe via atomics and mutex.
type Metrics struct {
	totalRequests  atomic.Int64
	activeRequests atomic.Int64
	totalErrors    atomic.Int64
	totalLatencyMs atomic.Int64
	maxLatencyMs   atomic.Int64
	startTime      time.Time

	mu             sync.Mutex
	endpointCounts map[string]int64
	statusCodes    map[int]int64
	decisions      map[string]map[rbac.Reason]int64
}

func New() *Metrics {
	return &Metrics{
		startTime:      time.Now(),
		endpointCounts: make(map[string]int64),
		statusCodes:    make(map[int]int64),
		decisions:      make(map[string]map[rbac.Reason]int64),
	}
}

// RecordDecision counts a guard decision for path by reason.
func (m *Metrics) RecordDecision(path string, d rbac.Decision) {
	m.mu.Lock()
	byReason, ok := m.decisions[path]
	if !ok {
		byReason = make(map[rbac.Reason]int64)
		m.decisions[path] = byReason
	}
	byReason[d.Reason]++
	m.mu.Unlock()
}

// Middleware tracks request count, latency, active requests and error rates
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.activeRequests.Add(1)
			start := time.Now()

			err := next(c)

			latencyMs := time.Since(start).Milliseconds()
			m.activeRequests.Add(-1)
			m.totalRequests.Add(1)
			m.totalLatencyMs.Add(latencyMs)

			// lock-free max
			for {
				current := m.maxLatencyMs.Load()
				if latencyMs <= current || m.maxLatencyMs.CompareAndSwap(current, latencyMs) {
					break
				}
			}

			// Let the error handler write the response so the recorded
			// status is the one the client sees.
			if err != nil {
				c.Error(err)
			}
			statusCode := c.Response().Status
			endpoint := endpointLabel(c)

			m.mu.Lock()
			m.endpointCounts[endpoint]++
			m.statusCodes[statusCode]++
			m.mu.Unlock()
			if statusCode >= http.StatusBadRequest {
				m.totalErrors.Add(1)
			}

			return err
		}
	}
}

// UnmatchedEndpoint labels requests that matched no route, so arbitrary
// URLs cannot grow the endpoint map.
const UnmatchedEndpoint = "<unmatched>"

func endpointLabel(c echo.Context) string {
	path := c.Path()
	if path == "" {
		return UnmatchedEndpoint
	}
	return methodLabel(c.Request().Method) + " " + path
}

func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return method
	}
	return "OTHER"
}

// Snapshot is a point-in-time view of the counters
type Snapshot struct {
	TotalRequests  int64                            `json:"total_requests"`
	ActiveRequests int64                            `json:"active_requests"`
	TotalErrors    int64                            `json:"total_errors"`
	ErrorRate      float64                          `json:"error_rate_pct"`
	AvgLatencyMs   float64                          `json:"avg_latency_ms"`
	MaxLatencyMs   int64                            `json:"max_latency_ms"`
	UptimeSeconds  float64                          `json:"uptime_seconds"`
	EndpointCounts map[string]int64                 `json:"endpoint_counts"`
	StatusCodes    map[int]int64                    `json:"status_codes"`
	GuardDecisions map[string]map[rbac.Reason]int64 `json:"guard_decisions"`
}

func (m *Metrics) Snapshot() Snapshot {
	total := m.totalRequests.Load()
	errs := m.totalErrors.Load()

	var avgLatency, errorRate float64
	if total > 0 {
		avgLatency = float64(m.totalLatencyMs.Load()) / float64(total)
		errorRate = float64(errs) / float64(total) * 100
	}

	m.mu.Lock()
	endpointCounts := make(map[string]int64, len(m.endpointCounts))
	for k, v := range m.endpointCounts {
		endpointCounts[k] = v
	}
	statusCodes := make(map[int]int64, len(m.statusCodes))
	for k, v := range m.statusCodes {
		statusCodes[k] = v
	}
	decisions := make(map[string]map[rbac.Reason]int64, len(m.decisions))
	for path, byReason := range m.decisions {
		cp := make(map[rbac.Reason]int64, len(byReason))
		for r, n := range byReason {
			cp[r] = n
		}
		decisions[path] = cp
	}
	m.mu.Unlock()

	return Snapshot{
		TotalRequests:  total,
		ActiveRequests: m.activeRequests.Load(),
		TotalErrors:    errs,
		ErrorRate:      errorRate,
		AvgLatencyMs:   avgLatency,
		MaxLatencyMs:   m.maxLatencyMs.Load(),
		UptimeSeconds:  time.Since(m.startTime).Seconds(),
		EndpointCounts: endpointCounts,
		StatusCodes:    statusCodes,
		GuardDecisions: decisions,
	}
}

// Handler serves the snapshot as JSON
func (m *Metrics) Handler(c echo.Context) error {
	return c.JSON(http.StatusOK, m.Snapshot())
}
