package wills

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

func (s *GormStore) InsertWill(w *Will) error {
	return s.db.Create(w).Error
}

func (s *GormStore) Will(id uint64) (w Will, err error) {
	err = s.db.First(&w, "id = ?", id).Error
	return
}

func (s *GormStore) UpdateWill(w *Will) error {
	return s.db.Save(w).Error
}

func (s *GormStore) HardDeleteWill(w *Will) error {
	return s.db.Unscoped().Delete(w).Error
}

func (s *GormStore) WillsByOwner(owner string, o datastore.ListOptions) (ww []Will, err error) {
	err = s.db.
		Where("owner = ?", owner).
		Order("id asc").
		Limit(o.Limit).
		Offset(o.Offset).
		Find(&ww).Error
	return
}

func (s *GormStore) WillsByBeneficiary(address string, o datastore.ListOptions) (ww []Will, err error) {
	err = s.db.
		Joins("join beneficiaries on beneficiaries.will_id = wills.id").
		Where("beneficiaries.address = ?", address).
		Order("wills.id asc").
		Limit(o.Limit).
		Offset(o.Offset).
		Find(&ww).Error
	return
}

func (s *GormStore) ActiveUntriggeredWills() (ww []Will, err error) {
	err = s.db.
		Where("is_active = ? AND switch_triggered = ?", true, false).
		Order("id asc").
		Find(&ww).Error
	return
}

func (s *GormStore) InsertBeneficiary(b *Beneficiary) error {
	return s.db.Create(b).Error
}

func (s *GormStore) Beneficiary(willID uint64, address string) (b Beneficiary, err error) {
	err = s.db.First(&b, "will_id = ? AND address = ?", willID, address).Error
	return
}

func (s *GormStore) Beneficiaries(willID uint64) (bb []Beneficiary, err error) {
	err = s.db.
		Where("will_id = ?", willID).
		Order("id asc").
		Find(&bb).Error
	return
}

func (s *GormStore) SetBeneficiaryClaimed(willID uint64, address string, claimed bool) error {
	return s.db.
		Model(&Beneficiary{}).
		Where("will_id = ? AND address = ?", willID, address).
		Update("claimed", claimed).Error
}

func (s *GormStore) HardDeleteBeneficiary(b *Beneficiary) error {
	return s.db.Unscoped().Delete(b).Error
}

func (s *GormStore) Stats() (stats Stats, err error) {
	var count int64

	if err = s.db.Model(&Will{}).Count(&count).Error; err != nil {
		return
	}
	stats.TotalWills = uint64(count)

	if err = s.db.Model(&Will{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		return
	}
	stats.ActiveWills = uint64(count)

	if err = s.db.Model(&Will{}).Where("switch_triggered = ?", true).Count(&count).Error; err != nil {
		return
	}
	stats.TriggeredSwitches = uint64(count)

	if err = s.db.Model(&Beneficiary{}).Distinct("address").Count(&count).Error; err != nil {
		return
	}
	stats.UniqueBeneficiaries = uint64(count)

	return
}
