// Package status gathers service health, repo sync state, and board
// vitals into one dashboard view.
package status

import (
	"context"
	"sync"
	"time"

	"raven/internal/config"
	"raven/internal/repo"
	"raven/internal/service"
	"raven/internal/state"
)

// Collector gathers status information from various sources
type Collector struct {
	projectDir string
	cfg        *config.Config
	controller *service.Controller
	repos      *repo.Manager
	sysRoot    string
}

// NewCollector creates a new status collector
func NewCollector(projectDir string, cfg *config.Config) *Collector {
	return &Collector{
		projectDir: projectDir,
		cfg:        cfg,
		controller: service.NewController(cfg),
		repos:      repo.NewManager(projectDir, cfg),
		sysRoot:    "/",
	}
}

// Controller returns the underlying service controller (for testing)
func (c *Collector) Controller() *service.Controller {
	return c.controller
}

// Repos returns the underlying repo manager (for testing)
func (c *Collector) Repos() *repo.Manager {
	return c.repos
}

// SetSysRoot overrides the kernel sysfs/procfs root (for testing)
func (c *Collector) SetSysRoot(root string) {
	c.sysRoot = root
}

// Collect gathers all status information in parallel
func (c *Collector) Collect(ctx context.Context) (*Status, error) {
	status := &Status{
		Project:   c.cfg.Project,
		Timestamp: time.Now(),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	// Collect service health
	wg.Add(1)
	go func() {
		defer wg.Done()
		services := c.controller.CheckAll(ctx)
		mu.Lock()
		status.Services = services
		mu.Unlock()
	}()

	// Collect repo sync state
	wg.Add(1)
	go func() {
		defer wg.Done()
		repos := c.repos.StatusAll(ctx)
		mu.Lock()
		status.Repos = repos
		mu.Unlock()
	}()

	// Collect board vitals
	wg.Add(1)
	go func() {
		defer wg.Done()
		vitals := readVitals(c.sysRoot)
		mu.Lock()
		status.Vitals = vitals
		mu.Unlock()
	}()

	wg.Wait()

	// Session record, informational only
	if session, err := state.Load(c.projectDir); err == nil && session != nil {
		status.Session = SessionInfo{
			Active:    true,
			Mode:      session.Mode,
			StartedAt: session.StartedAt,
		}
	}

	return status, nil
}
