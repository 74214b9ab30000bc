package allocations

import (
	"github.com/hereafter-labs/will-registry-api/ledger"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &GormStore{db}
}

func (s *GormStore) InsertAllocation(a *Allocation) error {
	return s.db.Create(a).Error
}

func (s *GormStore) Allocations(willID uint64, beneficiary string) (aa []Allocation, err error) {
	err = s.db.
		Where("will_id = ? AND beneficiary = ?", willID, beneficiary).
		Order("id asc").
		Find(&aa).Error
	return
}

func (s *GormStore) AllocationsByWill(willID uint64) (aa []Allocation, err error) {
	err = s.db.
		Where("will_id = ?", willID).
		Order("id asc").
		Find(&aa).Error
	return
}

func (s *GormStore) SetClaimed(id uint64, claimed bool) error {
	return s.db.
		Model(&Allocation{}).
		Where("id = ?", id).
		Update("claimed", claimed).Error
}

func (s *GormStore) HardDeleteAllocations(ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.Delete(&Allocation{}, ids).Error
}

func (s *GormStore) UnclaimedFungibleTotal() (uint64, error) {
	var total *uint64
	err := s.db.
		Model(&Allocation{}).
		Select("sum(amount)").
		Where("kind = ? AND claimed = ?", ledger.Fungible, false).
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}
