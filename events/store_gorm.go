package events

import (
	"github.com/hereafter-labs/will-registry-api/datastore"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &GormStore{db}
}

func (s *GormStore) InsertEvent(e *Event) error {
	return s.db.Create(e).Error
}

func (s *GormStore) Events(willID uint64, o datastore.ListOptions) (ee []Event, err error) {
	err = s.db.
		Where("will_id = ?", willID).
		Order("created_at asc, id asc").
		Limit(o.Limit).
		Offset(o.Offset).
		Find(&ee).Error
	return
}
