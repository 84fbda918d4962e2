// Package healthcheck aggregates named checks into the /health and /health/live responses
package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// severity orders statuses from best to worst
var severity = map[Status]int{
	StatusHealthy:   0,
	StatusDegraded:  1,
	StatusUnhealthy: 2,
}

func worse(a, b Status) Status {
	if severity[b] > severity[a] {
		return b
	}
	return a
}

// checkTimeout bounds a full round of checks
const checkTimeout = 10 * time.Second

// Check is the outcome of one named checker
type Check struct {
	Name        string      `json:"name"`
	Status      Status      `json:"status"`
	Message     string      `json:"message,omitempty"`
	LastChecked time.Time   `json:"last_checked"`
	DurationMS  float64     `json:"duration_ms"`
	Metadata    interface{} `json:"metadata,omitempty"`
}

// Response is the aggregated health document
type Response struct {
	Status          Status    `json:"status"`
	Version         string    `json:"version"`
	Timestamp       time.Time `json:"timestamp"`
	Checks          []Check   `json:"checks"`
	TotalDurationMS float64   `json:"total_duration_ms"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// HealthCheck runs registered checkers and caches the aggregate briefly
type HealthCheck struct {
	version string
	logger  *zap.Logger

	mu       sync.RWMutex
	checkers map[string]Checker
	cacheTTL time.Duration
	cached   *Response
}

// New creates a new health check instance
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		logger:   logger.Named("health"),
		checkers: make(map[string]Checker),
		cacheTTL: 5 * time.Second,
	}
}

// Register adds or replaces a checker; the cached response is dropped
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
	h.cached = nil
}

// SetCacheTTL sets how long a response is reused; 0 disables caching
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
}

// Handler serves the aggregate, with 503 when any check is unhealthy
func (h *HealthCheck) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := h.Check(r.Context())

		status := http.StatusOK
		if response.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		h.writeJSON(w, status, response)
	}
}

// LivenessHandler answers 200 as long as the process can serve requests
func (h *HealthCheck) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "alive",
			"timestamp": time.Now(),
		})
	}
}

func (h *HealthCheck) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// Check runs every checker concurrently, ordered by registered name
func (h *HealthCheck) Check(ctx context.Context) Response {
	h.mu.RLock()
	if h.cached != nil && time.Since(h.cached.Timestamp) < h.cacheTTL {
		response := *h.cached
		h.mu.RUnlock()
		return response
	}
	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	checkers := make([]Checker, len(names))
	for i, name := range names {
		checkers[i] = h.checkers[name]
	}
	h.mu.RUnlock()

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	results := make([]Check, len(checkers))
	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, checker Checker) {
			defer wg.Done()
			results[i] = checker.Check(ctx)
			results[i].Name = names[i]
		}(i, checker)
	}
	wg.Wait()

	response := Response{
		Status:    StatusHealthy,
		Version:   h.version,
		Timestamp: start,
		Checks:    results,
	}
	for _, check := range results {
		response.Status = worse(response.Status, check.Status)
	}
	response.TotalDurationMS = elapsedMS(start)

	if response.Status != StatusHealthy {
		h.logger.Warn("Health check not healthy", zap.String("status", string(response.Status)))
	}

	h.mu.Lock()
	h.cached = &response
	h.mu.Unlock()

	return response
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

// FileChecker reports whether the catalog file can be read.
// A missing file is degraded: the catalog is empty until the first add creates it.
type FileChecker struct {
	path string
}

// NewFileChecker creates a new file checker
func NewFileChecker(path string) *FileChecker {
	return &FileChecker{path: path}
}

// Check stats the file and tries to open it
func (f *FileChecker) Check(ctx context.Context) Check {
	start := time.Now()
	status, message, metadata := f.inspect()

	return Check{
		Name:        "file",
		Status:      status,
		Message:     message,
		Metadata:    metadata,
		LastChecked: start,
		DurationMS:  elapsedMS(start),
	}
}

func (f *FileChecker) inspect() (Status, string, interface{}) {
	info, err := os.Stat(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return StatusDegraded, "Catalog file does not exist yet", map[string]interface{}{"path": f.path}
	case err != nil:
		return StatusUnhealthy, err.Error(), nil
	case info.IsDir():
		return StatusUnhealthy, "Catalog path is a directory", nil
	}

	file, err := os.Open(f.path)
	if err != nil {
		return StatusUnhealthy, err.Error(), nil
	}
	file.Close()

	return StatusHealthy, "", map[string]interface{}{
		"path":        f.path,
		"size_bytes":  info.Size(),
		"modified_at": info.ModTime().UTC(),
	}
}

// CustomChecker adapts a function to Checker
type CustomChecker struct {
	name  string
	check func(ctx context.Context) (Status, string, interface{})
}

// NewCustomChecker creates a new custom checker
func NewCustomChecker(name string, check func(ctx context.Context) (Status, string, interface{})) *CustomChecker {
	return &CustomChecker{name: name, check: check}
}

// Check performs custom health check
func (c *CustomChecker) Check(ctx context.Context) Check {
	start := time.Now()
	status, message, metadata := c.check(ctx)

	return Check{
		Name:        c.name,
		Status:      status,
		Message:     message,
		Metadata:    metadata,
		LastChecked: start,
		DurationMS:  elapsedMS(start),
	}
}
