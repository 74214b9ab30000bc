package activity

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &GormStore{db}
}

func (s *GormStore) SetAuthorizedBackend(address string, enabled bool) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
	}).Create(&AuthorizedBackend{Address: address, Enabled: enabled}).Error
}

func (s *GormStore) IsAuthorizedBackend(address string) (bool, error) {
	var b AuthorizedBackend
	err := s.db.First(&b, "address = ?", address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return b.Enabled, nil
}

func (s *GormStore) AuthorizedBackends() (bb []AuthorizedBackend, err error) {
	err = s.db.Order("address asc").Find(&bb).Error
	return
}
