package health

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Status represents the health of one component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusUnknown   Status = "unknown"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string
	Status    Status
	Message   string
	Duration  time.Duration
	Timestamp time.Time
	Details   map[string]interface{}
}

// Checker is an interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

type namedCheck struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewChecker creates a named checker from a function
func NewChecker(name string, fn func(ctx context.Context) CheckResult) Checker {
	return &namedCheck{name: name, fn: fn}
}

func (c *namedCheck) Name() string {
	return c.name
}

func (c *namedCheck) Check(ctx context.Context) CheckResult {
	return c.fn(ctx)
}

// Registry runs the registered checks of the alarmview components
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	service  string
	version  string
}

// NewRegistry creates a new health check registry
func NewRegistry(service, version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		service:  service,
		version:  version,
	}
}

// Register adds a checker, replacing one with the same name
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// Check runs all checks concurrently. Results are sorted by name.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	checkers := make([]Checker, 0, len(r.checkers))
	for _, c := range r.checkers {
		checkers = append(checkers, c)
	}
	r.mu.RUnlock()

	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Timestamp: time.Now(),
		Checks:    make([]CheckResult, len(checkers)),
	}

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			start := time.Now()
			result := c.Check(ctx)
			result.Duration = time.Since(start)
			result.Timestamp = time.Now()
			if result.Name == "" {
				result.Name = c.Name()
			}
			report.Checks[i] = result
		}(i, checker)
	}
	wg.Wait()

	sort.Slice(report.Checks, func(i, j int) bool {
		return report.Checks[i].Name < report.Checks[j].Name
	})

	report.Status = StatusHealthy
	for _, result := range report.Checks {
		switch result.Status {
		case StatusUnhealthy:
			report.Status = StatusUnhealthy
		case StatusDegraded, StatusUnknown:
			if report.Status != StatusUnhealthy {
				report.Status = StatusDegraded
			}
		}
	}
	return report
}

// CheckWithTimeout runs all health checks with a timeout
func (r *Registry) CheckWithTimeout(timeout time.Duration) *Report {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Check(ctx)
}

// Report represents the overall health report
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// String returns a string representation of the report
func (r *Report) String() string {
	return fmt.Sprintf("Service: %s, Status: %s, Checks: %d", r.Service, r.Status, len(r.Checks))
}

// Counter is implemented by the operation store
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// StoreCheck reports whether the store answers a count query
func StoreCheck(name string, store Counter) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		n, err := store.Count(ctx)
		if err != nil {
			return CheckResult{Name: name, Status: StatusUnhealthy, Message: err.Error()}
		}
		return CheckResult{
			Name:    name,
			Status:  StatusHealthy,
			Message: fmt.Sprintf("%d operations", n),
			Details: map[string]interface{}{"operations": n},
		}
	})
}

// FileCheck reports whether path exists and is a regular file
func FileCheck(name, path string) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		result := CheckResult{Name: name, Details: map[string]interface{}{"path": path}}
		info, err := os.Stat(path)
		switch {
		case err != nil:
			result.Status = StatusUnhealthy
			result.Message = err.Error()
		case info.IsDir():
			result.Status = StatusUnhealthy
			result.Message = "is a directory"
		default:
			result.Status = StatusHealthy
			result.Message = "found"
		}
		return result
	})
}

// ConfigCheck reports whether path exists and load accepts it
func ConfigCheck(name, path string, load func(path string) error) Checker {
	file := FileCheck(name, path)
	return NewChecker(name, func(ctx context.Context) CheckResult {
		result := file.Check(ctx)
		if result.Status != StatusHealthy {
			return result
		}
		if err := load(path); err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			return result
		}
		result.Message = "valid"
		return result
	})
}

// WebSocketCheck opens and closes a connection to url. An empty url means
// the feed is disabled and reports StatusUnknown.
func WebSocketCheck(name, url string, timeout time.Duration) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		result := CheckResult{Name: name, Details: map[string]interface{}{"url": url}}
		if url == "" {
			result.Status = StatusUnknown
			result.Message = "not configured"
			return result
		}

		dialer := websocket.Dialer{HandshakeTimeout: timeout}
		conn, _, err := dialer.DialContext(ctx, url, nil)
		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			return result
		}
		conn.Close()

		result.Status = StatusHealthy
		result.Message = "reachable"
		return result
	})
}
