package wills

import (
	"errors"
	"time"

	"github.com/hereafter-labs/will-registry-api/allocations"
	"github.com/hereafter-labs/will-registry-api/datastore"
	"gorm.io/gorm"
)

// WillDetails is a will together with its registered beneficiaries.
type WillDetails struct {
	Will
	Beneficiaries []Beneficiary `json:"beneficiaries"`
}

// Details returns one will with its beneficiary list. Read-only; also
// resolves deactivated wills so historical records stay reachable.
func (s *Service) Details(willID uint64) (*WillDetails, error) {
	if willID == 0 {
		return nil, validationError(ErrWillIDInvalid)
	}

	w, err := s.store.Will(willID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(ErrWillNotFound)
		}
		return nil, err
	}

	bb, err := s.store.Beneficiaries(w.ID)
	if err != nil {
		return nil, err
	}

	return &WillDetails{Will: w, Beneficiaries: bb}, nil
}

// ListByOwner returns the owner's wills.
func (s *Service) ListByOwner(owner string, limit, offset int) ([]Will, error) {
	o := datastore.ParseListOptions(limit, offset)
	return s.store.WillsByOwner(owner, o)
}

// ListByBeneficiary returns the wills in which the address is a
// registered beneficiary.
func (s *Service) ListByBeneficiary(address string, limit, offset int) ([]Will, error) {
	o := datastore.ParseListOptions(limit, offset)
	return s.store.WillsByBeneficiary(address, o)
}

// Allocations returns a beneficiary's allocation records for a will, in
// allocation order.
func (s *Service) Allocations(willID uint64, beneficiary string) ([]allocations.Allocation, error) {
	if willID == 0 {
		return nil, validationError(ErrWillIDInvalid)
	}
	if _, err := s.fetchActive(willID); err != nil {
		return nil, err
	}
	return s.allocs.Allocations(willID, beneficiary)
}

// RemainingGracePeriod returns how long until claims open. Zero means
// the grace period has ended; an error means the switch has not fired.
func (s *Service) RemainingGracePeriod(willID uint64) (time.Duration, error) {
	w, err := s.fetchActive(willID)
	if err != nil {
		return 0, err
	}
	if !w.SwitchTriggered || !w.SwitchTriggeredAt.Valid {
		return 0, stateError(ErrSwitchNotTriggered)
	}

	now := s.clock.Now()
	remaining := w.SwitchTriggeredAt.Time.Add(w.GracePeriodDuration()).Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// TimeUntilSwitch returns how long the owner can stay inactive before
// the switch may fire. Zero means the threshold has passed or the switch
// has already fired.
func (s *Service) TimeUntilSwitch(willID uint64) (time.Duration, error) {
	w, err := s.fetchActive(willID)
	if err != nil {
		return 0, err
	}
	if w.SwitchTriggered {
		return 0, nil
	}

	now := s.clock.Now()
	remaining := w.LastActivity.Add(w.ActivityThresholdDuration()).Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// OverdueWills returns the active, untriggered wills whose owners have
// been inactive past the activity threshold. Used by the inactivity
// sweep.
func (s *Service) OverdueWills() ([]Will, error) {
	ww, err := s.store.ActiveUntriggeredWills()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var overdue []Will
	for _, w := range ww {
		if w.SwitchDue(now) {
			overdue = append(overdue, w)
		}
	}
	return overdue, nil
}

// Stats returns the registry-wide aggregates, computed by scanning the
// stores.
func (s *Service) Stats() (Stats, error) {
	stats, err := s.store.Stats()
	if err != nil {
		return Stats{}, err
	}

	unclaimed, err := s.allocs.UnclaimedFungibleTotal()
	if err != nil {
		return Stats{}, err
	}
	stats.UnclaimedFungibleValue = unclaimed

	return stats, nil
}
