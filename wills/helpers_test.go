package wills

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hereafter-labs/will-registry-api/allocations"
	"github.com/hereafter-labs/will-registry-api/events"
	"github.com/hereafter-labs/will-registry-api/ledger/simple"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testClock is a manually advanced time source.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.AutoMigrate(&Will{}, &Beneficiary{}, &allocations.Allocation{}, &events.Event{}); err != nil {
		t.Fatal(err)
	}

	return db
}

// testTimeframeBounds keeps test wills on an hourly scale instead of the
// production day and week scale.
func testTimeframeBounds() Config {
	return Config{
		MinGracePeriod:       time.Hour,
		MaxGracePeriod:       720 * time.Hour,
		MinActivityThreshold: 2 * time.Hour,
		MaxActivityThreshold: 8760 * time.Hour,
	}
}

func testService(t *testing.T, opts ...ServiceOption) (*Service, *simple.Ledger, *testClock, events.Store) {
	t.Helper()

	db := testDB(t)
	eventStore := events.NewGormStore(db)
	assets := simple.NewLedger()
	clock := newTestClock()

	options := append([]ServiceOption{
		WithClock(clock),
		WithConfig(testTimeframeBounds()),
	}, opts...)

	svc := NewService(
		NewGormStore(db),
		allocations.NewGormStore(db),
		assets,
		events.NewEmitter(eventStore),
		options...,
	)

	return svc, assets, clock, eventStore
}
