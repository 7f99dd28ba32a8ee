package handler

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/banking/customer-service/internal/interfaces/http/dto"
	"github.com/banking/customer-service/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Pinger is a dependency the readiness endpoint checks
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness endpoints
type HealthHandler struct {
	BaseHandler
	version   string
	startTime time.Time
	timeout   time.Duration
	checks    map[string]Pinger
}

// NewHealthHandler creates a HealthHandler. checks maps a component name
// (e.g. "database", "cache") to its checker.
func NewHealthHandler(version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
		timeout:   2 * time.Second,
		checks:    checks,
	}
}

// HealthResponse is the body of both endpoints
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	GoVersion  string            `json:"go_version"`
	Uptime     string            `json:"uptime"`
	Components map[string]string `json:"components,omitempty"`
}

// RegisterRoutes mounts /health and /health/ready
func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Live)
	r.GET("/health/ready", h.Ready)
}

// Live always reports UP while the process serves requests
func (h *HealthHandler) Live(c *gin.Context) {
	h.Success(c, h.response("UP", nil))
}

// Ready pings every dependency concurrently and reports 503 if any is down
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	var (
		mu         sync.Mutex
		components = make(map[string]string, len(h.checks))
		healthy    = true
	)
	var g errgroup.Group
	for name, check := range h.checks {
		g.Go(func() error {
			status := "UP"
			if err := check.Ping(ctx); err != nil {
				status = "DOWN: " + err.Error()
			}
			mu.Lock()
			components[name] = status
			if status != "UP" {
				healthy = false
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    h.response("DOWN", components),
			Error: &dto.ErrorInfo{
				Code:      dto.ErrCodeStoreUnavailable,
				Message:   "One or more dependencies are unavailable",
				RequestID: middleware.GetRequestID(c),
				Timestamp: time.Now(),
			},
		})
		return
	}
	h.Success(c, h.response("UP", components))
}

func (h *HealthHandler) response(status string, components map[string]string) HealthResponse {
	return HealthResponse{
		Status:     status,
		Version:    h.version,
		GoVersion:  runtime.Version(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Components: components,
	}
}
