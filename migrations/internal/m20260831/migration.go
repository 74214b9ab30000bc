package m20260831

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//
// This is the first migration that initializes the whole DB. All types are
// snapshot here so that the structure and schema state for given point in time
// is preserved and can be rolled back to from later migrations, in case
// there's a need.
//

const ID = "20260831"

type Will struct {
	ID                uint64       `gorm:"column:id;primaryKey"`
	Owner             string       `gorm:"column:owner;index"`
	Name              string       `gorm:"column:name"`
	LastActivity      time.Time    `gorm:"column:last_activity"`
	IsActive          bool         `gorm:"column:is_active;default:true"`
	NativeReserve     uint64       `gorm:"column:native_reserve"`
	GracePeriod       uint64       `gorm:"column:grace_period"`
	ActivityThreshold uint64       `gorm:"column:activity_threshold"`
	SwitchTriggered   bool         `gorm:"column:switch_triggered;default:false"`
	SwitchTriggeredAt sql.NullTime `gorm:"column:switch_triggered_at"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Will) TableName() string {
	return "wills"
}

type Beneficiary struct {
	ID        uint64 `gorm:"column:id;primaryKey"`
	WillID    uint64 `gorm:"column:will_id;uniqueIndex:idx_beneficiaries_will_address"`
	Address   string `gorm:"column:address;uniqueIndex:idx_beneficiaries_will_address;index"`
	Claimed   bool   `gorm:"column:claimed;default:false"`
	CreatedAt time.Time
}

func (Beneficiary) TableName() string {
	return "beneficiaries"
}

type Allocation struct {
	ID          uint64 `gorm:"column:id;primaryKey"`
	WillID      uint64 `gorm:"column:will_id;index:idx_allocations_will_beneficiary"`
	Beneficiary string `gorm:"column:beneficiary;index:idx_allocations_will_beneficiary"`
	Kind        int    `gorm:"column:kind"`
	AssetID     string `gorm:"column:asset_id"`
	SubID       string `gorm:"column:sub_id"`
	Amount      uint64 `gorm:"column:amount"`
	Claimed     bool   `gorm:"column:claimed;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Allocation) TableName() string {
	return "allocations"
}

type Event struct {
	ID        uuid.UUID      `gorm:"column:id;primary_key;type:uuid;"`
	Type      string         `gorm:"column:type;index"`
	WillID    uint64         `gorm:"column:will_id;index"`
	Actor     string         `gorm:"column:actor"`
	Payload   datatypes.JSON `gorm:"column:payload"`
	CreatedAt time.Time
}

func (Event) TableName() string {
	return "events"
}

type AuthorizedBackend struct {
	Address   string `gorm:"column:address;primaryKey"`
	Enabled   bool   `gorm:"column:enabled"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AuthorizedBackend) TableName() string {
	return "authorized_backends"
}

type Holding struct {
	ID      uint64 `gorm:"column:id;primaryKey"`
	Holder  string `gorm:"column:holder;uniqueIndex:idx_holdings_asset"`
	Kind    int    `gorm:"column:kind;uniqueIndex:idx_holdings_asset"`
	AssetID string `gorm:"column:asset_id;uniqueIndex:idx_holdings_asset"`
	SubID   string `gorm:"column:sub_id;uniqueIndex:idx_holdings_asset"`
	Amount  uint64 `gorm:"column:amount"`
}

func (Holding) TableName() string {
	return "holdings"
}

type IdempotencyKey struct {
	Key        string    `gorm:"column:key;primary_key"`
	ExpiryDate time.Time `gorm:"column:expiry_date"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

func Migrate(tx *gorm.DB) error {
	return tx.AutoMigrate(
		&Will{},
		&Beneficiary{},
		&Allocation{},
		&Event{},
		&AuthorizedBackend{},
		&Holding{},
		&IdempotencyKey{},
	)
}

func Rollback(tx *gorm.DB) error {
	return tx.Migrator().DropTable(
		&IdempotencyKey{},
		&Holding{},
		&AuthorizedBackend{},
		&Event{},
		&Allocation{},
		&Beneficiary{},
		&Will{},
	)
}
