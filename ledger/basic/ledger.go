// Package basic provides a database backed reference implementation of the
// asset ledger. It does plain balance accounting per holder; production
// deployments are expected to plug in a ledger that talks to the real
// custody backends instead.
package basic

import (
	"context"
	"fmt"

	"github.com/hereafter-labs/will-registry-api/ledger"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"gorm.io/gorm"
)

// RegistryHolder is the custody account assets are escrowed under.
const RegistryHolder = "registry"

// Holding is one (holder, asset) balance row.
type Holding struct {
	ID      uint64      `gorm:"column:id;primaryKey"`
	Holder  string      `gorm:"column:holder;uniqueIndex:idx_holdings_asset"`
	Kind    ledger.Kind `gorm:"column:kind;uniqueIndex:idx_holdings_asset"`
	AssetID string      `gorm:"column:asset_id;uniqueIndex:idx_holdings_asset"`
	SubID   string      `gorm:"column:sub_id;uniqueIndex:idx_holdings_asset"`
	Amount  uint64      `gorm:"column:amount"`
}

func (Holding) TableName() string {
	return "holdings"
}

type Ledger struct {
	db          *gorm.DB
	ratelimiter ratelimit.Limiter
}

type LedgerOption func(*Ledger)

func WithCallRatelimiter(limiter ratelimit.Limiter) LedgerOption {
	return func(l *Ledger) {
		l.ratelimiter = limiter
	}
}

func NewLedger(db *gorm.DB, opts ...LedgerOption) *Ledger {
	l := &Ledger{db: db, ratelimiter: ratelimit.NewUnlimited()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) TransferIn(ctx context.Context, t ledger.Transfer) error {
	return l.move(ctx, t, t.Holder, RegistryHolder)
}

func (l *Ledger) TransferOut(ctx context.Context, t ledger.Transfer) error {
	return l.move(ctx, t, RegistryHolder, t.Holder)
}

func (l *Ledger) move(ctx context.Context, t ledger.Transfer, from, to string) error {
	if err := t.Validate(); err != nil {
		return &ledger.TransferError{Transfer: t, Err: err}
	}

	l.ratelimiter.Take()

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := debit(tx, t, from); err != nil {
			return err
		}
		return credit(tx, t, to)
	})
	if err != nil {
		return &ledger.TransferError{Transfer: t, Err: err}
	}

	log.WithFields(log.Fields{
		"kind":   t.Kind.String(),
		"asset":  t.AssetID,
		"subId":  t.SubID,
		"amount": t.Amount,
		"from":   from,
		"to":     to,
	}).Debug("Asset transfer")

	return nil
}

func debit(tx *gorm.DB, t ledger.Transfer, holder string) error {
	var h Holding
	err := tx.
		Where(&Holding{Holder: holder, Kind: t.Kind, AssetID: t.AssetID, SubID: t.SubID}).
		First(&h).Error
	if err != nil {
		return fmt.Errorf("%s holds no %s %s/%s", holder, t.Kind, t.AssetID, t.SubID)
	}
	if h.Amount < t.Amount {
		return fmt.Errorf("insufficient custody: %s holds %d of %s %s/%s, need %d",
			holder, h.Amount, t.Kind, t.AssetID, t.SubID, t.Amount)
	}
	h.Amount -= t.Amount
	if h.Amount == 0 {
		return tx.Delete(&h).Error
	}
	return tx.Save(&h).Error
}

func credit(tx *gorm.DB, t ledger.Transfer, holder string) error {
	var h Holding
	err := tx.
		Where(&Holding{Holder: holder, Kind: t.Kind, AssetID: t.AssetID, SubID: t.SubID}).
		First(&h).Error
	if err != nil {
		h = Holding{Holder: holder, Kind: t.Kind, AssetID: t.AssetID, SubID: t.SubID, Amount: t.Amount}
		return tx.Create(&h).Error
	}
	h.Amount += t.Amount
	return tx.Save(&h).Error
}

// Mint credits a holder out of thin air. Test and bootstrap helper.
func (l *Ledger) Mint(t ledger.Transfer) error {
	if err := t.Validate(); err != nil {
		return &ledger.TransferError{Transfer: t, Err: err}
	}
	return l.db.Transaction(func(tx *gorm.DB) error {
		return credit(tx, t, t.Holder)
	})
}

// Balance returns the holder's custody balance for one asset.
func (l *Ledger) Balance(holder string, kind ledger.Kind, assetID, subID string) (uint64, error) {
	var h Holding
	err := l.db.
		Where(&Holding{Holder: holder, Kind: kind, AssetID: assetID, SubID: subID}).
		First(&h).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return h.Amount, nil
}
