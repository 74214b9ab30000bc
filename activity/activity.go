// Package activity tracks owner inactivity and fires the dead man's
// switch, either on demand through authorized monitoring backends or via
// the background sweep.
package activity

import (
	"time"
)

// AuthorizedBackend is an identity allowed to call the trigger
// operation. The allow-list is maintained administratively.
type AuthorizedBackend struct {
	Address   string    `json:"address" gorm:"column:address;primaryKey"`
	Enabled   bool      `json:"enabled" gorm:"column:enabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (AuthorizedBackend) TableName() string {
	return "authorized_backends"
}
