// Package events records the registry's durable audit trail. Every state
// transition emits exactly one event per logical occurrence; the rows are
// never updated or deleted.
package events

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Type string

const (
	WillCreated        Type = "WillCreated"
	TimeframesUpdated  Type = "TimeframesUpdated"
	BeneficiaryAdded   Type = "BeneficiaryAdded"
	BeneficiaryRemoved Type = "BeneficiaryRemoved"
	TokenAllocated     Type = "TokenAllocated"
	EtherAllocated     Type = "EtherAllocated"
	GracePeriodStarted Type = "GracePeriodStarted"
	BeneficiaryClaimed Type = "BeneficiaryClaimed"
	WillClaimed        Type = "WillClaimed"
)

type Event struct {
	ID        uuid.UUID      `json:"eventId" gorm:"column:id;primary_key;type:uuid;"`
	Type      Type           `json:"type" gorm:"column:type;index"`
	WillID    uint64         `json:"willId" gorm:"column:will_id;index"`
	Actor     string         `json:"actor" gorm:"column:actor"`
	Payload   datatypes.JSON `json:"payload" gorm:"column:payload"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
