// Package wills implements the will lifecycle: creation, custody escrow
// accounting, dead man's switch gating and once-only claim settlement.
package wills

import (
	"database/sql"
	"time"
)

// Will represents a registered inheritance plan. Identity (owner, id) is
// immutable once created; deactivation is a flag, never a delete, so
// historical claim records stay intact.
type Will struct {
	ID                uint64       `json:"willId" gorm:"column:id;primaryKey"`
	Owner             string       `json:"owner" gorm:"column:owner;index"`
	Name              string       `json:"name" gorm:"column:name"`
	LastActivity      time.Time    `json:"lastActivity" gorm:"column:last_activity"`
	IsActive          bool         `json:"isActive" gorm:"column:is_active;default:true"`
	NativeReserve     uint64       `json:"nativeReserve" gorm:"column:native_reserve"`
	GracePeriod       uint64       `json:"gracePeriod" gorm:"column:grace_period"`             // seconds
	ActivityThreshold uint64       `json:"activityThreshold" gorm:"column:activity_threshold"` // seconds
	SwitchTriggered   bool         `json:"switchTriggered" gorm:"column:switch_triggered;default:false"`
	SwitchTriggeredAt sql.NullTime `json:"-" gorm:"column:switch_triggered_at"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"-"`
}

func (Will) TableName() string {
	return "wills"
}

// Beneficiary registers an address under a will. Claimed is the
// per-beneficiary claim marker; once set it never resets.
type Beneficiary struct {
	ID        uint64    `json:"-" gorm:"column:id;primaryKey"`
	WillID    uint64    `json:"willId" gorm:"column:will_id;uniqueIndex:idx_beneficiaries_will_address"`
	Address   string    `json:"address" gorm:"column:address;uniqueIndex:idx_beneficiaries_will_address;index"`
	Claimed   bool      `json:"claimed" gorm:"column:claimed;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Beneficiary) TableName() string {
	return "beneficiaries"
}

func (w *Will) GracePeriodDuration() time.Duration {
	return time.Duration(w.GracePeriod) * time.Second
}

func (w *Will) ActivityThresholdDuration() time.Duration {
	return time.Duration(w.ActivityThreshold) * time.Second
}

// SwitchDue reports whether the owner has been inactive past the
// activity threshold and the switch has not fired yet.
func (w *Will) SwitchDue(now time.Time) bool {
	return !w.SwitchTriggered && now.Sub(w.LastActivity) > w.ActivityThresholdDuration()
}

// GraceEnded reports whether the mandatory waiting window after the
// switch has passed. The deadline itself is not enough; claims need
// strictly later.
func (w *Will) GraceEnded(now time.Time) bool {
	if !w.SwitchTriggered || !w.SwitchTriggeredAt.Valid {
		return false
	}
	return now.After(w.SwitchTriggeredAt.Time.Add(w.GracePeriodDuration()))
}

// Stats are the registry-wide aggregates of the query surface.
type Stats struct {
	TotalWills             uint64 `json:"totalWills"`
	ActiveWills            uint64 `json:"activeWills"`
	TriggeredSwitches      uint64 `json:"triggeredSwitches"`
	UniqueBeneficiaries    uint64 `json:"uniqueBeneficiaries"`
	UnclaimedFungibleValue uint64 `json:"unclaimedFungibleValue"`
}
