package database

import (
	"context"
	"fmt"

	"github.com/kbukum/dbkit/component"
	"github.com/kbukum/dbkit/logger"
)

// Component wraps a Pool and implements component.Component so the database
// plugs into a registry-managed application lifecycle.
type Component struct {
	kind Kind
	cfg  Config
	log  *logger.Logger
	pool *Pool
}

// ensure Component satisfies the lifecycle interfaces
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a database component for use with the component
// registry.
func NewComponent(kind Kind, cfg Config, log *logger.Logger) *Component {
	if log == nil {
		log = logger.Nop()
	}
	return &Component{
		kind: kind,
		cfg:  cfg,
		log:  log,
	}
}

// Pool returns the underlying pool, or nil if not started.
func (c *Component) Pool() *Pool { return c.pool }

// Name returns the component name.
func (c *Component) Name() string { return "database" }

// Start builds the pool and eagerly initializes it, so a misconfigured or
// unreachable backing store fails application startup instead of the first
// query.
func (c *Component) Start(ctx context.Context) error {
	pool, err := New(c.kind, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	if err := pool.Initialize(ctx); err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.pool = pool
	return nil
}

// Stop closes the pool.
func (c *Component) Stop(_ context.Context) error {
	if c.pool == nil {
		return nil
	}
	return c.pool.Close()
}

// Health reports the pool's health based on a round-trip check.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.pool == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "database not initialized",
		}
	}
	if !c.pool.HealthCheck(ctx) {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "health check failed",
		}
	}

	status := c.pool.Status()
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("connections %d/%d active", status.ActiveConnections, status.TotalConnections),
	}
}

// Describe returns infrastructure summary info for startup display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    string(c.kind),
		Type:    "database",
		Details: fmt.Sprintf("%s pool=%d/%d", c.cfg.addr(), c.cfg.MaxOpenConns, c.cfg.MaxIdleConns),
	}
}
