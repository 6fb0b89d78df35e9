package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

const checkTimeout = 5 * time.Second

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	LatencyMS int64     `json:"latencyMs"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// PingFunc reports a dependency as healthy by returning nil.
type PingFunc func(ctx context.Context) error

// Service handles health checks
type Service struct {
	version   string
	startTime time.Time
	checks    map[string]PingFunc
	mu        sync.RWMutex
	log       *zap.Logger
}

func NewService(version string, log *zap.Logger) *Service {
	return &Service{
		version:   version,
		startTime: time.Now(),
		checks:    make(map[string]PingFunc),
		log:       log,
	}
}

// RegisterCheck adds a readiness dependency under name.
func (s *Service) RegisterCheck(name string, ping PingFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = ping
	s.log.Info("Registered health checker", zap.String("name", name))
}

// Health performs a basic liveness check
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs every registered check concurrently, each under its own timeout.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checks := make(map[string]PingFunc, len(s.checks))
	for name, ping := range s.checks {
		checks[name] = ping
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var mu sync.Mutex
	var g errgroup.Group
	for name, ping := range checks {
		g.Go(func() error {
			result := s.run(ctx, name, ping)
			mu.Lock()
			results[name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	resp := &ReadyResponse{Ready: true, Status: StatusHealthy, Timestamp: time.Now(), Checks: results}
	for _, r := range results {
		if r.Status != StatusHealthy {
			resp.Ready = false
			resp.Status = StatusUnhealthy
		}
	}
	return resp
}

func (s *Service) run(ctx context.Context, name string, ping PingFunc) (result CheckResult) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	result = CheckResult{Name: name, Status: StatusHealthy, Timestamp: start}
	defer func() {
		if r := recover(); r != nil {
			result.Status = StatusUnhealthy
			result.Message = fmt.Sprintf("check panicked: %v", r)
		}
		result.LatencyMS = time.Since(start).Milliseconds()
	}()

	if err := ping(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
		s.log.Warn("Health check failed", zap.String("name", name), zap.Error(err))
	}
	return result
}
