package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "TICK_INTERVAL_MS", "MAX_SUBSTEP_MS", "TABLE_ID", "MIGRATE_ON_START", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "CONNECT_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Environment != "development" || cfg.TableID != "main" {
		t.Errorf("env=%q table=%q", cfg.Environment, cfg.TableID)
	}
	if cfg.TickInterval != 16*time.Millisecond {
		t.Errorf("tick interval = %v", cfg.TickInterval)
	}
	if cfg.DBMaxOpenConns != 10 || cfg.DBMaxIdleConns != 2 || cfg.ConnectTimeout != 5*time.Second {
		t.Errorf("pool open=%d idle=%d timeout=%v", cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.ConnectTimeout)
	}
	if cfg.MaxSubstep != 0 || cfg.MigrateOnStart {
		t.Errorf("max substep = %v migrate=%v, want disabled", cfg.MaxSubstep, cfg.MigrateOnStart)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TICK_INTERVAL_MS", "5")
	t.Setenv("MAX_SUBSTEP_MS", "2")
	t.Setenv("CONTROLLER_TOKEN_TTL_MINUTES", "15")
	t.Setenv("SNAPSHOT_TTL_SECONDS", "not-a-number")
	t.Setenv("MIGRATE_ON_START", "true")

	cfg := Load()
	if cfg.TickInterval != 5*time.Millisecond || cfg.MaxSubstep != 2*time.Millisecond {
		t.Errorf("tick=%v substep=%v", cfg.TickInterval, cfg.MaxSubstep)
	}
	if cfg.ControllerTokenTTL != 15*time.Minute {
		t.Errorf("token ttl = %v", cfg.ControllerTokenTTL)
	}
	if cfg.SnapshotTTL != time.Minute {
		t.Errorf("bad value should fall back to the default, got %v", cfg.SnapshotTTL)
	}
	if !cfg.MigrateOnStart {
		t.Error("MIGRATE_ON_START=true not honored")
	}
}
