// Package service starts, stops, and health-checks the stack of systemd
// services that make up the vehicle's runtime software.
package service

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"raven/internal/config"
	"raven/internal/systemd"
)

const (
	// healthCheckTimeout bounds a single service health command
	healthCheckTimeout = 10 * time.Second
	// healthWorkers bounds concurrent health checks
	healthWorkers = 4
)

// Health is the health-check outcome for a single service
type Health struct {
	Name    string `json:"name"`
	Unit    string `json:"unit"`
	Active  bool   `json:"active"`
	Healthy bool   `json:"healthy"`
	PID     int    `json:"pid,omitempty"`
	Sub     string `json:"sub,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Controller manages the lifecycle of the configured services
type Controller struct {
	cfg  *config.Config
	exec systemd.Executor

	// runHealth executes a service's health command (injectable for testing)
	runHealth func(ctx context.Context, argv []string) error
}

// NewController creates a Controller over the configured services
func NewController(cfg *config.Config) *Controller {
	return &Controller{
		cfg:       cfg,
		exec:      systemd.DefaultExecutor,
		runHealth: runHealthCommand,
	}
}

// SetExecutor replaces the systemd executor (for testing)
func (c *Controller) SetExecutor(e systemd.Executor) {
	c.exec = e
}

// SetHealthRunner replaces the health command runner (for testing)
func (c *Controller) SetHealthRunner(fn func(ctx context.Context, argv []string) error) {
	c.runHealth = fn
}

// StartMode starts the services applicable to the mode in declared order.
// The first failure stops the sequence; already-started services are left
// running and the failing unit is named in the error.
func (c *Controller) StartMode(ctx context.Context, mode Mode, progress func(svc config.Service)) ([]config.Service, error) {
	services := c.cfg.ServicesForMode(string(mode))

	var started []config.Service
	for _, svc := range services {
		if progress != nil {
			progress(svc)
		}

		if err := c.exec.Start(ctx, svc.Unit); err != nil {
			return started, fmt.Errorf("failed to start %s (%s): %w", svc.Name, svc.Unit, err)
		}

		active, err := c.exec.IsActive(ctx, svc.Unit)
		if err != nil {
			return started, fmt.Errorf("failed to verify %s (%s): %w", svc.Name, svc.Unit, err)
		}
		if !active {
			return started, fmt.Errorf("%s (%s) did not become active", svc.Name, svc.Unit)
		}

		started = append(started, svc)
	}

	return started, nil
}

// StopAll stops the given services in reverse declared order. All stop
// errors are collected so one stuck unit does not leave the rest running.
func (c *Controller) StopAll(ctx context.Context, services []config.Service, progress func(svc config.Service)) []error {
	var errs []error
	for i := len(services) - 1; i >= 0; i-- {
		svc := services[i]
		if progress != nil {
			progress(svc)
		}
		if err := c.exec.Stop(ctx, svc.Unit); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s (%s): %w", svc.Name, svc.Unit, err))
		}
	}
	return errs
}

// CheckAll health-checks every configured service concurrently.
// A service is healthy when its unit is active and its health command
// (when configured) exits zero. Results are ordered by config declaration.
func (c *Controller) CheckAll(ctx context.Context) []Health {
	results := make([]Health, len(c.cfg.Services))

	var wg sync.WaitGroup
	sem := make(chan struct{}, healthWorkers)

	for i, svc := range c.cfg.Services {
		wg.Add(1)
		go func(i int, svc config.Service) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = c.check(ctx, svc)
		}(i, svc)
	}

	wg.Wait()

	return results
}

// check health-checks a single service
func (c *Controller) check(ctx context.Context, svc config.Service) Health {
	h := Health{Name: svc.Name, Unit: svc.Unit}

	state, err := c.exec.Show(ctx, svc.Unit)
	if err != nil {
		h.Error = err.Error()
		return h
	}

	h.Active = state.Active
	h.Sub = state.Sub
	h.PID = state.PID

	if !state.Active {
		return h
	}

	if len(svc.Health) > 0 {
		hctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		defer cancel()
		if err := c.runHealth(hctx, svc.Health); err != nil {
			h.Error = fmt.Sprintf("health command failed: %v", err)
			return h
		}
	}

	h.Healthy = true
	return h
}

// AllHealthy reports whether every health result is healthy
func AllHealthy(results []Health) bool {
	for _, h := range results {
		if !h.Healthy {
			return false
		}
	}
	return true
}

// runHealthCommand executes a health-check command
func runHealthCommand(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	return cmd.Run()
}
