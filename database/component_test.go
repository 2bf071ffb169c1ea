package database_test

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/dbkit/component"
	"github.com/kbukum/dbkit/database"
	"github.com/kbukum/dbkit/logger"
)

func TestComponent_Name(t *testing.T) {
	c := database.NewComponent(database.Postgres, database.Config{}, logger.Nop())
	if c.Name() != "database" {
		t.Errorf("unexpected component name %s", c.Name())
	}
}

func TestComponent_HealthBeforeStart(t *testing.T) {
	c := database.NewComponent(database.Postgres, database.Config{}, logger.Nop())

	health := c.Health(context.Background())
	if health.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", health.Status)
	}
	if c.Pool() != nil {
		t.Error("expected nil pool before start")
	}
}

func TestComponent_StartFailsOnUnreachableStore(t *testing.T) {
	cfg := database.Config{
		Host:           "127.0.0.1",
		Port:           1,
		Database:       "nope",
		User:           "nobody",
		ConnectTimeout: "2s",
	}
	c := database.NewComponent(database.Postgres, cfg, logger.Nop())

	if err := c.Start(context.Background()); err == nil {
		t.Error("expected start to fail against unreachable store")
	}
}

func TestComponent_StopWithoutStart(t *testing.T) {
	c := database.NewComponent(database.Postgres, database.Config{}, logger.Nop())
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("stop without start must be a no-op, got: %v", err)
	}
}

func TestComponent_Describe(t *testing.T) {
	cfg := database.Config{Host: "db.internal", Port: 5432, MaxOpenConns: 25, MaxIdleConns: 5}
	c := database.NewComponent(database.Postgres, cfg, logger.Nop())

	desc := c.Describe()
	if desc.Type != "database" {
		t.Errorf("unexpected type %s", desc.Type)
	}
	if !strings.Contains(desc.Details, "db.internal:5432") {
		t.Errorf("expected address in details, got %s", desc.Details)
	}
	if !strings.Contains(desc.Details, "pool=25/5") {
		t.Errorf("expected pool bounds in details, got %s", desc.Details)
	}
}
