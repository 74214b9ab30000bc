package main

import (
	"os"
	"testing"

	"github.com/hereafter-labs/will-registry-api/configs"
	"github.com/joho/godotenv"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	godotenv.Load(".env.test")
	os.Exit(m.Run())
}

func TestConfigDefaults(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg, err := configs.Parse()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.IdempotencyMiddlewareDatabaseType != "local" {
		t.Errorf("expected default idempotency store local, got %s", cfg.IdempotencyMiddlewareDatabaseType)
	}
}
