package activity

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hereafter-labs/will-registry-api/allocations"
	"github.com/hereafter-labs/will-registry-api/events"
	"github.com/hereafter-labs/will-registry-api/ledger"
	"github.com/hereafter-labs/will-registry-api/ledger/simple"
	"github.com/hereafter-labs/will-registry-api/wills"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testBackend = "monitor-1"
	testOwner   = "0xa11ce"
	testBob     = "0xb0b"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
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

func testServices(t *testing.T) (*Service, *wills.Service, *simple.Ledger, *testClock) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}

	err = db.AutoMigrate(
		&wills.Will{}, &wills.Beneficiary{},
		&allocations.Allocation{}, &events.Event{},
		&AuthorizedBackend{},
	)
	if err != nil {
		t.Fatal(err)
	}

	clock := &testClock{now: time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)}
	assets := simple.NewLedger()

	willService := wills.NewService(
		wills.NewGormStore(db),
		allocations.NewGormStore(db),
		assets,
		events.NewEmitter(events.NewGormStore(db)),
		wills.WithClock(clock),
		wills.WithConfig(wills.Config{
			MinGracePeriod:       time.Hour,
			MaxGracePeriod:       720 * time.Hour,
			MinActivityThreshold: 2 * time.Hour,
			MaxActivityThreshold: 8760 * time.Hour,
		}),
	)

	return NewService(NewGormStore(db), willService), willService, assets, clock
}

func createTestWill(t *testing.T, svc *wills.Service, assets *simple.Ledger) *wills.Will {
	t.Helper()

	assets.Mint(ledger.Transfer{Kind: ledger.Native, Amount: 10, Holder: testOwner})

	w, err := svc.CreateWill(context.Background(), wills.CreateWillRequest{
		Owner:             testOwner,
		Name:              "estate",
		GracePeriod:       3600,
		ActivityThreshold: 7200,
		NativeDeposit:     10,
	})
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestCheckAndTriggerDeadManSwitch(t *testing.T) {
	svc, willService, assets, clock := testServices(t)
	w := createTestWill(t, willService, assets)

	if err := svc.SetAuthorizedBackend(testBackend, true); err != nil {
		t.Fatal(err)
	}

	t.Run("unauthorized backend", func(t *testing.T) {
		_, err := svc.CheckAndTriggerDeadManSwitch(context.Background(), "impostor", testOwner)
		if !errors.Is(err, ErrUnauthorizedBackend) {
			t.Errorf("expected ErrUnauthorizedBackend, got %v", err)
		}
	})

	t.Run("disabled backend", func(t *testing.T) {
		if err := svc.SetAuthorizedBackend("retired", false); err != nil {
			t.Fatal(err)
		}
		_, err := svc.CheckAndTriggerDeadManSwitch(context.Background(), "retired", testOwner)
		if !errors.Is(err, ErrUnauthorizedBackend) {
			t.Errorf("expected ErrUnauthorizedBackend, got %v", err)
		}
	})

	t.Run("owner without active wills", func(t *testing.T) {
		_, err := svc.CheckAndTriggerDeadManSwitch(context.Background(), testBackend, "0x0")
		if !errors.Is(err, wills.ErrWillInactive) {
			t.Errorf("expected ErrWillInactive, got %v", err)
		}
	})

	t.Run("threshold not reached", func(t *testing.T) {
		_, err := svc.CheckAndTriggerDeadManSwitch(context.Background(), testBackend, testOwner)
		if !errors.Is(err, wills.ErrThresholdNotReached) {
			t.Errorf("expected ErrThresholdNotReached, got %v", err)
		}
	})

	t.Run("triggers overdue wills", func(t *testing.T) {
		clock.Advance(2*time.Hour + time.Second)

		triggered, err := svc.CheckAndTriggerDeadManSwitch(context.Background(), testBackend, testOwner)
		if err != nil {
			t.Fatal(err)
		}
		if len(triggered) != 1 || triggered[0].ID != w.ID {
			t.Errorf("unexpected triggered wills: %+v", triggered)
		}
		if !triggered[0].SwitchTriggered {
			t.Error("expected the switch to be triggered")
		}
	})

	t.Run("already triggered", func(t *testing.T) {
		_, err := svc.CheckAndTriggerDeadManSwitch(context.Background(), testBackend, testOwner)
		if !errors.Is(err, wills.ErrSwitchAlreadyTriggered) {
			t.Errorf("expected ErrSwitchAlreadyTriggered, got %v", err)
		}
	})
}

func TestSetAuthorizedBackend(t *testing.T) {
	svc, _, _, _ := testServices(t)

	if err := svc.SetAuthorizedBackend("", true); err == nil {
		t.Error("expected an error for an empty address")
	}

	if err := svc.SetAuthorizedBackend(testBackend, true); err != nil {
		t.Fatal(err)
	}
	// Upsert flips the flag in place
	if err := svc.SetAuthorizedBackend(testBackend, false); err != nil {
		t.Fatal(err)
	}

	bb, err := svc.AuthorizedBackends()
	if err != nil {
		t.Fatal(err)
	}
	if len(bb) != 1 || bb[0].Enabled {
		t.Errorf("unexpected backends: %+v", bb)
	}
}

func TestMonitorSweep(t *testing.T) {
	_, willService, assets, clock := testServices(t)
	w := createTestWill(t, willService, assets)

	m := NewMonitor(willService, 10*time.Millisecond)
	m.Start()
	defer m.Stop()

	clock.Advance(2*time.Hour + time.Second)

	deadline := time.Now().Add(2 * time.Second)
	for {
		details, err := willService.Details(w.ID)
		if err != nil {
			t.Fatal(err)
		}
		if details.SwitchTriggered {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("monitor did not trigger the overdue will")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
