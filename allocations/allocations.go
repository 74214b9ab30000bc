// Package allocations owns the per-beneficiary sub-ledgers of every will.
// Rows are keyed by the composite (will, beneficiary) rather than nested
// inside the will record, so beneficiary-centric queries can traverse many
// wills without aliasing the parent.
package allocations

import (
	"time"

	"github.com/hereafter-labs/will-registry-api/ledger"
)

// Allocation is a recorded promise of a specific asset quantity to a
// specific beneficiary under a specific will. Quantity is immutable after
// creation; the claimed flag flips false to true exactly once.
type Allocation struct {
	ID          uint64      `json:"-" gorm:"column:id;primaryKey"`
	WillID      uint64      `json:"willId" gorm:"column:will_id;index:idx_allocations_will_beneficiary"`
	Beneficiary string      `json:"beneficiary" gorm:"column:beneficiary;index:idx_allocations_will_beneficiary"`
	Kind        ledger.Kind `json:"kind" gorm:"column:kind"`
	AssetID     string      `json:"assetId,omitempty" gorm:"column:asset_id"`
	SubID       string      `json:"subId,omitempty" gorm:"column:sub_id"`
	Amount      uint64      `json:"amount" gorm:"column:amount"`
	Claimed     bool        `json:"claimed" gorm:"column:claimed;default:false"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"-"`
}

func (Allocation) TableName() string {
	return "allocations"
}

// Transfer returns the custody movement this allocation settles with, for
// the given external holder.
func (a *Allocation) Transfer(holder string) ledger.Transfer {
	return ledger.Transfer{
		Kind:    a.Kind,
		AssetID: a.AssetID,
		SubID:   a.SubID,
		Amount:  a.Amount,
		Holder:  holder,
	}
}
