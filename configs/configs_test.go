package configs

import (
	"testing"
	"time"
)

func TestParseConfig(t *testing.T) {
	t.Setenv("WILL_REGISTRY_DATABASE_DSN", "test-dsn")
	t.Setenv("WILL_REGISTRY_DATABASE_TYPE", "psql")
	t.Setenv("WILL_REGISTRY_MONITOR_INTERVAL", "5s")
	t.Setenv("WILL_REGISTRY_LEDGER_MAX_CALL_RATE", "3")

	cfg, err := Parse()

	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseDSN != "test-dsn" {
		t.Errorf(`expected "DatabaseDSN" to equal "test-dsn", got "%s"`, cfg.DatabaseDSN)
	}

	if cfg.DatabaseType != "psql" {
		t.Errorf(`expected "DatabaseType" to equal "psql", got "%s"`, cfg.DatabaseType)
	}

	if cfg.MonitorInterval != 5*time.Second {
		t.Errorf(`expected "MonitorInterval" to equal 5s, got %s`, cfg.MonitorInterval)
	}

	if cfg.LedgerMaxCallRate != 3 {
		t.Errorf(`expected "LedgerMaxCallRate" to equal 3, got %d`, cfg.LedgerMaxCallRate)
	}

	if cfg.Port != 3000 {
		t.Errorf(`expected default "Port" to equal 3000, got %d`, cfg.Port)
	}
}
