package basic

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hereafter-labs/will-registry-api/ledger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&Holding{}); err != nil {
		t.Fatal(err)
	}
	return NewLedger(db)
}

func TestTransferRoundTrip(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	in := ledger.Transfer{Kind: ledger.Fungible, AssetID: "gold", Amount: 100, Holder: "0xa11ce"}
	if err := l.Mint(in); err != nil {
		t.Fatal(err)
	}

	if err := l.TransferIn(ctx, in); err != nil {
		t.Fatal(err)
	}

	if got, _ := l.Balance(RegistryHolder, ledger.Fungible, "gold", ""); got != 100 {
		t.Errorf("expected registry to hold 100, got %d", got)
	}
	if got, _ := l.Balance("0xa11ce", ledger.Fungible, "gold", ""); got != 0 {
		t.Errorf("expected holder balance 0, got %d", got)
	}

	out := ledger.Transfer{Kind: ledger.Fungible, AssetID: "gold", Amount: 40, Holder: "0xb0b"}
	if err := l.TransferOut(ctx, out); err != nil {
		t.Fatal(err)
	}

	if got, _ := l.Balance("0xb0b", ledger.Fungible, "gold", ""); got != 40 {
		t.Errorf("expected recipient to hold 40, got %d", got)
	}
	if got, _ := l.Balance(RegistryHolder, ledger.Fungible, "gold", ""); got != 60 {
		t.Errorf("expected registry to hold 60, got %d", got)
	}
}

func TestInsufficientCustody(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	err := l.TransferOut(ctx, ledger.Transfer{Kind: ledger.Fungible, AssetID: "gold", Amount: 1, Holder: "0xb0b"})
	if err == nil {
		t.Fatal("expected transfer out of empty custody to fail")
	}

	var terr *ledger.TransferError
	if !errors.As(err, &terr) {
		t.Errorf("expected a transfer error, got %v", err)
	}
}

func TestInvalidTransferRejected(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	// Native transfers must not carry an asset id
	err := l.TransferIn(ctx, ledger.Transfer{Kind: ledger.Native, AssetID: "gold", Amount: 1, Holder: "0xa11ce"})
	if err == nil {
		t.Error("expected validation to reject the transfer")
	}
}

func TestUniqueAssetMovesWhole(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	deed := ledger.Transfer{Kind: ledger.Unique, AssetID: "deed", SubID: "42", Amount: 1, Holder: "0xa11ce"}
	if err := l.Mint(deed); err != nil {
		t.Fatal(err)
	}
	if err := l.TransferIn(ctx, deed); err != nil {
		t.Fatal(err)
	}

	// A zero balance row is removed rather than kept around
	if got, _ := l.Balance("0xa11ce", ledger.Unique, "deed", "42"); got != 0 {
		t.Errorf("expected holder to no longer hold the deed, got %d", got)
	}
	if got, _ := l.Balance(RegistryHolder, ledger.Unique, "deed", "42"); got != 1 {
		t.Errorf("expected registry to hold the deed, got %d", got)
	}
}
