// Package simple provides an in-memory asset ledger, mainly for testing
// purposes.
package simple

import (
	"context"
	"fmt"
	"sync"

	"github.com/hereafter-labs/will-registry-api/ledger"
)

const RegistryHolder = "registry"

type assetKey struct {
	holder  string
	kind    ledger.Kind
	assetID string
	subID   string
}

type Ledger struct {
	mu       sync.Mutex
	balances map[assetKey]uint64

	// FailTransferIn and FailTransferOut, when set, make the corresponding
	// operation fail with the given error. Used to exercise rollback paths.
	FailTransferIn  error
	FailTransferOut error

	// Calls records every successful transfer in order.
	Calls []Call
}

type Call struct {
	Direction string // "in" or "out"
	Transfer  ledger.Transfer
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[assetKey]uint64)}
}

func (l *Ledger) TransferIn(ctx context.Context, t ledger.Transfer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.FailTransferIn != nil {
		return &ledger.TransferError{Transfer: t, Err: l.FailTransferIn}
	}

	if err := l.move(t, t.Holder, RegistryHolder); err != nil {
		return err
	}

	l.Calls = append(l.Calls, Call{Direction: "in", Transfer: t})
	return nil
}

func (l *Ledger) TransferOut(ctx context.Context, t ledger.Transfer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.FailTransferOut != nil {
		return &ledger.TransferError{Transfer: t, Err: l.FailTransferOut}
	}

	if err := l.move(t, RegistryHolder, t.Holder); err != nil {
		return err
	}

	l.Calls = append(l.Calls, Call{Direction: "out", Transfer: t})
	return nil
}

func (l *Ledger) move(t ledger.Transfer, from, to string) error {
	if err := t.Validate(); err != nil {
		return &ledger.TransferError{Transfer: t, Err: err}
	}

	fromKey := assetKey{from, t.Kind, t.AssetID, t.SubID}
	if l.balances[fromKey] < t.Amount {
		return &ledger.TransferError{
			Transfer: t,
			Err:      fmt.Errorf("insufficient custody: %s holds %d, need %d", from, l.balances[fromKey], t.Amount),
		}
	}

	l.balances[fromKey] -= t.Amount
	l.balances[assetKey{to, t.Kind, t.AssetID, t.SubID}] += t.Amount
	return nil
}

// Mint credits a holder out of thin air.
func (l *Ledger) Mint(t ledger.Transfer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[assetKey{t.Holder, t.Kind, t.AssetID, t.SubID}] += t.Amount
}

// Balance returns the holder's custody balance for one asset.
func (l *Ledger) Balance(holder string, kind ledger.Kind, assetID, subID string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[assetKey{holder, kind, assetID, subID}]
}
