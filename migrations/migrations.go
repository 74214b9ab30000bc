package migrations

import (
	"github.com/hereafter-labs/will-registry-api/migrations/internal/m20260831"
	"github.com/go-gormigrate/gormigrate/v2"
)

func List() []*gormigrate.Migration {
	ms := []*gormigrate.Migration{
		{
			ID:       m20260831.ID,
			Migrate:  m20260831.Migrate,
			Rollback: m20260831.Rollback,
		},
	}
	return ms
}
