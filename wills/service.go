package wills

import (
	"context"
	"errors"
	"time"

	"github.com/hereafter-labs/will-registry-api/allocations"
	"github.com/hereafter-labs/will-registry-api/events"
	"github.com/hereafter-labs/will-registry-api/ledger"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service implements the public will lifecycle operations by composing
// the will store, the allocation store and the asset ledger. Every
// state-mutating operation runs under a per-will critical section.
type Service struct {
	store   Store
	allocs  allocations.Store
	assets  ledger.Ledger
	emitter *events.Emitter
	clock   Clock
	locks   *lockManager
	cfg     Config
}

func NewService(
	store Store,
	allocs allocations.Store,
	assets ledger.Ledger,
	emitter *events.Emitter,
	opts ...ServiceOption,
) *Service {
	cfg := ParseConfig()
	svc := &Service{store, allocs, assets, emitter, wallClock{}, newLockManager(), cfg}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) validateTimeframes(gracePeriod, activityThreshold uint64) error {
	grace := time.Duration(gracePeriod) * time.Second
	threshold := time.Duration(activityThreshold) * time.Second

	if grace < s.cfg.MinGracePeriod || grace > s.cfg.MaxGracePeriod {
		return validationError(ErrGracePeriodInvalid)
	}
	if threshold < s.cfg.MinActivityThreshold || threshold > s.cfg.MaxActivityThreshold {
		return validationError(ErrActivityThresholdInvalid)
	}
	if threshold <= grace {
		return validationError(ErrThresholdNotAboveGrace)
	}
	return nil
}

// fetchActive loads a will and rejects nonexistent or deactivated ones.
// Inactive wills must never silently no-op.
func (s *Service) fetchActive(id uint64) (Will, error) {
	w, err := s.store.Will(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Will{}, notFoundError(ErrWillNotFound)
		}
		return Will{}, err
	}
	if !w.IsActive {
		return Will{}, notFoundError(ErrWillInactive)
	}
	return w, nil
}

// CreateWill registers a new will, escrows the allocated assets and
// records the per-beneficiary allocation ledger. A failed custody
// transfer aborts the whole operation; no partial allocation survives.
func (s *Service) CreateWill(ctx context.Context, req CreateWillRequest) (*Will, error) {
	now := s.clock.Now()

	if req.Owner == "" {
		return nil, validationError(ErrInvalidOwner)
	}
	if len(req.Allocations) == 0 && req.NativeDeposit == 0 {
		return nil, validationError(ErrNoAllocationsOrValue)
	}
	if err := s.validateTimeframes(req.GracePeriod, req.ActivityThreshold); err != nil {
		return nil, err
	}

	// Expand and validate every group before touching any state.
	var units []allocationUnit
	for i := range req.Allocations {
		uu, err := req.Allocations[i].units(req.Owner)
		if err != nil {
			return nil, err
		}
		units = append(units, uu...)
	}

	// Each beneficiary registers exactly once; a duplicate within the
	// same call is an error, not a merge.
	var beneficiaryOrder []string
	seen := make(map[string]bool)
	for _, u := range units {
		if seen[u.beneficiary] {
			return nil, validationError(ErrBeneficiaryExists)
		}
		seen[u.beneficiary] = true
		beneficiaryOrder = append(beneficiaryOrder, u.beneficiary)
	}

	w := Will{
		Owner:             req.Owner,
		Name:              req.Name,
		LastActivity:      now,
		IsActive:          true,
		GracePeriod:       req.GracePeriod,
		ActivityThreshold: req.ActivityThreshold,
	}
	if err := s.store.InsertWill(&w); err != nil {
		return nil, err
	}

	ctx, release, err := s.guardOperation(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	undo := newUndoLog(s)
	undo.willInserted(&w)

	for _, address := range beneficiaryOrder {
		b := Beneficiary{WillID: w.ID, Address: address}
		if err := s.store.InsertBeneficiary(&b); err != nil {
			undo.run()
			return nil, err
		}
		undo.beneficiaryInserted(&b)
	}

	// Transfer-then-record: custody moves before the allocation row
	// exists, so a recorded allocation is always backed by escrow.
	for _, u := range units {
		if err := s.escrowUnit(ctx, undo, &w, u); err != nil {
			undo.run()
			return nil, err
		}
	}

	if req.NativeDeposit > 0 {
		if err := s.escrowNativeDeposit(ctx, undo, &w, req.NativeDeposit, firstGroupBeneficiaries(req.Allocations, units)); err != nil {
			undo.run()
			return nil, err
		}
		if err := s.store.UpdateWill(&w); err != nil {
			undo.run()
			return nil, err
		}
	}

	s.emitter.EmitOrLog(events.WillCreated, w.ID, w.Owner, map[string]interface{}{
		"owner":         w.Owner,
		"name":          w.Name,
		"beneficiaries": beneficiaryOrder,
		"nativeDeposit": req.NativeDeposit,
	})
	s.emitter.EmitOrLog(events.TimeframesUpdated, w.ID, w.Owner, map[string]interface{}{
		"gracePeriod":       w.GracePeriod,
		"activityThreshold": w.ActivityThreshold,
	})

	log.WithFields(log.Fields{"willId": w.ID, "owner": w.Owner}).Info("Will created")

	return &w, nil
}

// escrowUnit moves one unit into registry custody and records its
// allocation.
func (s *Service) escrowUnit(ctx context.Context, undo *undoLog, w *Will, u allocationUnit) error {
	if err := s.assets.TransferIn(ctx, u.transfer); err != nil {
		return transferFailedError(err)
	}
	undo.transferredIn(u.transfer)

	a := allocations.Allocation{
		WillID:      w.ID,
		Beneficiary: u.beneficiary,
		Kind:        u.transfer.Kind,
		AssetID:     u.transfer.AssetID,
		SubID:       u.transfer.SubID,
		Amount:      u.transfer.Amount,
	}
	if err := s.allocs.InsertAllocation(&a); err != nil {
		return err
	}
	undo.allocationInserted(a.ID)
	return nil
}

// escrowNativeDeposit takes the native deposit into custody and splits it
// evenly across the given beneficiaries. Integer division truncates; the
// remainder stays in the will's reserve and is never allocated. This
// mirrors the original accounting and is a known rounding loss.
func (s *Service) escrowNativeDeposit(ctx context.Context, undo *undoLog, w *Will, deposit uint64, beneficiaries []string) error {
	t := ledger.Transfer{Kind: ledger.Native, Amount: deposit, Holder: w.Owner}
	if err := s.assets.TransferIn(ctx, t); err != nil {
		return transferFailedError(err)
	}
	undo.transferredIn(t)

	w.NativeReserve += deposit

	if len(beneficiaries) == 0 {
		return nil
	}

	share := deposit / uint64(len(beneficiaries))
	if share == 0 {
		return nil
	}

	for _, address := range beneficiaries {
		a := allocations.Allocation{
			WillID:      w.ID,
			Beneficiary: address,
			Kind:        ledger.Native,
			Amount:      share,
		}
		if err := s.allocs.InsertAllocation(&a); err != nil {
			return err
		}
		undo.allocationInserted(a.ID)
	}
	return nil
}

// firstGroupBeneficiaries returns the beneficiary list of the first
// allocation group, which the native deposit is split across.
func firstGroupBeneficiaries(groups []AllocationGroup, units []allocationUnit) []string {
	if len(groups) == 0 {
		return nil
	}
	first, _ := groups[0].kind()
	n := groups[0].unitCount(first)
	var bb []string
	for _, u := range units[:n] {
		bb = append(bb, u.beneficiary)
	}
	return bb
}

// AddBeneficiaryWithAllocation registers a beneficiary (if new) and
// escrows further allocations for them. The call counts as proof of
// owner activity and resets the inactivity clock.
func (s *Service) AddBeneficiaryWithAllocation(ctx context.Context, req AddBeneficiaryRequest) error {
	now := s.clock.Now()

	if req.WillID == 0 {
		return validationError(ErrWillIDInvalid)
	}
	if req.Beneficiary == "" {
		return validationError(ErrInvalidBeneficiary)
	}
	if len(req.Allocations) == 0 && req.NativeDeposit == 0 {
		return validationError(ErrNoAllocationsOrValue)
	}

	ctx, release, err := s.guardOperation(ctx, req.WillID)
	if err != nil {
		return err
	}
	defer release()

	w, err := s.fetchActive(req.WillID)
	if err != nil {
		return err
	}
	if w.Owner != req.Caller {
		return authorizationError(ErrNotWillOwner)
	}

	var units []allocationUnit
	for i := range req.Allocations {
		uu, err := req.Allocations[i].unitsFor(req.Beneficiary, w.Owner)
		if err != nil {
			return err
		}
		units = append(units, uu...)
	}

	undo := newUndoLog(s)

	newlyAdded := false
	if _, err := s.store.Beneficiary(w.ID, req.Beneficiary); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		b := Beneficiary{WillID: w.ID, Address: req.Beneficiary}
		if err := s.store.InsertBeneficiary(&b); err != nil {
			return err
		}
		undo.beneficiaryInserted(&b)
		newlyAdded = true
	}

	for _, u := range units {
		if err := s.escrowUnit(ctx, undo, &w, u); err != nil {
			undo.run()
			return err
		}
	}

	if req.NativeDeposit > 0 {
		t := ledger.Transfer{Kind: ledger.Native, Amount: req.NativeDeposit, Holder: w.Owner}
		if err := s.assets.TransferIn(ctx, t); err != nil {
			undo.run()
			return transferFailedError(err)
		}
		undo.transferredIn(t)

		a := allocations.Allocation{
			WillID:      w.ID,
			Beneficiary: req.Beneficiary,
			Kind:        ledger.Native,
			Amount:      req.NativeDeposit,
		}
		if err := s.allocs.InsertAllocation(&a); err != nil {
			undo.run()
			return err
		}
		undo.allocationInserted(a.ID)

		w.NativeReserve += req.NativeDeposit
	}

	w.LastActivity = now
	if err := s.store.UpdateWill(&w); err != nil {
		undo.run()
		return err
	}

	if newlyAdded {
		s.emitter.EmitOrLog(events.BeneficiaryAdded, w.ID, w.Owner, map[string]interface{}{
			"beneficiary": req.Beneficiary,
		})
	}
	for _, u := range units {
		s.emitter.EmitOrLog(events.TokenAllocated, w.ID, w.Owner, map[string]interface{}{
			"beneficiary": u.beneficiary,
			"kind":        u.transfer.Kind,
			"assetId":     u.transfer.AssetID,
			"subId":       u.transfer.SubID,
			"amount":      u.transfer.Amount,
		})
	}
	if req.NativeDeposit > 0 {
		s.emitter.EmitOrLog(events.EtherAllocated, w.ID, w.Owner, map[string]interface{}{
			"beneficiary": req.Beneficiary,
			"amount":      req.NativeDeposit,
		})
	}

	return nil
}

// RemoveBeneficiary deregisters a beneficiary and returns their escrowed
// allocations to the owner. Only the owner may remove, and only while the
// dead man's switch has not fired. The call counts as proof of owner
// activity and resets the inactivity clock.
func (s *Service) RemoveBeneficiary(ctx context.Context, willID uint64, caller, beneficiary string) error {
	now := s.clock.Now()

	if willID == 0 {
		return validationError(ErrWillIDInvalid)
	}
	if beneficiary == "" {
		return validationError(ErrInvalidBeneficiary)
	}

	ctx, release, err := s.guardOperation(ctx, willID)
	if err != nil {
		return err
	}
	defer release()

	w, err := s.fetchActive(willID)
	if err != nil {
		return err
	}
	if w.Owner != caller {
		return authorizationError(ErrNotWillOwner)
	}
	if w.SwitchTriggered {
		return stateError(ErrSwitchAlreadyTriggered)
	}

	b, err := s.store.Beneficiary(w.ID, beneficiary)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError(ErrBeneficiaryNotFound)
		}
		return err
	}

	aa, err := s.allocs.Allocations(w.ID, beneficiary)
	if err != nil {
		return err
	}

	// Refund-then-delete: custody returns to the owner before the
	// allocation rows disappear. A failed transfer returns the already
	// refunded units to custody so the records stay backed by escrow.
	var refunded []allocations.Allocation
	var refundedIDs []uint64
	nativeRefunded := uint64(0)

	for i := range aa {
		a := aa[i]
		if a.Claimed {
			continue
		}

		if err := s.assets.TransferOut(ctx, a.Transfer(w.Owner)); err != nil {
			s.returnRefunds(ctx, w.Owner, refunded)
			return transferFailedError(err)
		}

		if a.Kind == ledger.Native {
			nativeRefunded += a.Amount
		}

		refunded = append(refunded, a)
		refundedIDs = append(refundedIDs, a.ID)
	}

	if err := s.allocs.HardDeleteAllocations(refundedIDs); err != nil {
		s.returnRefunds(ctx, w.Owner, refunded)
		return err
	}

	if err := s.store.HardDeleteBeneficiary(&b); err != nil {
		return err
	}

	if w.NativeReserve >= nativeRefunded {
		w.NativeReserve -= nativeRefunded
	}
	w.LastActivity = now
	if err := s.store.UpdateWill(&w); err != nil {
		return err
	}

	s.emitter.EmitOrLog(events.BeneficiaryRemoved, w.ID, w.Owner, map[string]interface{}{
		"beneficiary": beneficiary,
		"refunded":    len(refunded),
	})

	log.WithFields(log.Fields{"willId": w.ID, "beneficiary": beneficiary}).Info("Beneficiary removed")

	return nil
}

// returnRefunds moves already refunded units back into registry custody
// when a later step of the same removal fails.
func (s *Service) returnRefunds(ctx context.Context, owner string, refunded []allocations.Allocation) {
	for _, a := range refunded {
		if err := s.assets.TransferIn(ctx, a.Transfer(owner)); err != nil {
			log.WithFields(log.Fields{"error": err, "allocationId": a.ID}).Warn("Error while returning refunded unit to custody")
		}
	}
}

// UpdateTimeframes overwrites a will's grace period and activity
// threshold and resets the inactivity clock. Rejected once the dead
// man's switch has fired; the switch is a one-way gate.
func (s *Service) UpdateTimeframes(ctx context.Context, willID uint64, caller string, gracePeriod, activityThreshold uint64) (*Will, error) {
	now := s.clock.Now()

	if willID == 0 {
		return nil, validationError(ErrWillIDInvalid)
	}

	_, release, err := s.guardOperation(ctx, willID)
	if err != nil {
		return nil, err
	}
	defer release()

	w, err := s.fetchActive(willID)
	if err != nil {
		return nil, err
	}
	if w.Owner != caller {
		return nil, authorizationError(ErrNotWillOwner)
	}
	if w.SwitchTriggered {
		return nil, stateError(ErrSwitchAlreadyTriggered)
	}
	if err := s.validateTimeframes(gracePeriod, activityThreshold); err != nil {
		return nil, err
	}

	w.GracePeriod = gracePeriod
	w.ActivityThreshold = activityThreshold
	w.LastActivity = now

	if err := s.store.UpdateWill(&w); err != nil {
		return nil, err
	}

	s.emitter.EmitOrLog(events.TimeframesUpdated, w.ID, w.Owner, map[string]interface{}{
		"gracePeriod":       w.GracePeriod,
		"activityThreshold": w.ActivityThreshold,
	})

	return &w, nil
}

// TriggerDeadManSwitch fires the switch for one will if the owner has
// been inactive past the activity threshold. Repeated calls after the
// trigger fail and never move the recorded timestamp.
func (s *Service) TriggerDeadManSwitch(ctx context.Context, willID uint64) (*Will, error) {
	now := s.clock.Now()

	if willID == 0 {
		return nil, validationError(ErrWillIDInvalid)
	}

	_, release, err := s.guardOperation(ctx, willID)
	if err != nil {
		return nil, err
	}
	defer release()

	w, err := s.fetchActive(willID)
	if err != nil {
		return nil, err
	}
	if w.SwitchTriggered {
		return nil, stateError(ErrSwitchAlreadyTriggered)
	}
	if !w.SwitchDue(now) {
		return nil, stateError(ErrThresholdNotReached)
	}

	w.SwitchTriggered = true
	w.SwitchTriggeredAt.Time = now
	w.SwitchTriggeredAt.Valid = true

	if err := s.store.UpdateWill(&w); err != nil {
		return nil, err
	}

	s.emitter.EmitOrLog(events.GracePeriodStarted, w.ID, w.Owner, map[string]interface{}{
		"triggeredAt": now,
		"gracePeriod": w.GracePeriod,
	})

	log.WithFields(log.Fields{"willId": w.ID, "owner": w.Owner}).Info("Dead man's switch triggered")

	return &w, nil
}

// ClaimInheritance settles every unclaimed allocation of the calling
// beneficiary. The per-beneficiary claim marker is written before any
// custody transfer so a re-entrant or concurrent second claim observes
// AlreadyClaimed. A failed transfer rolls the whole invocation back.
func (s *Service) ClaimInheritance(ctx context.Context, willID uint64, caller string) ([]allocations.Allocation, error) {
	if willID == 0 {
		return nil, validationError(ErrWillIDInvalid)
	}

	ctx, release, err := s.guardOperation(ctx, willID)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.clock.Now()

	w, err := s.fetchActive(willID)
	if err != nil {
		return nil, err
	}

	b, err := s.store.Beneficiary(w.ID, caller)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authorizationError(ErrNotBeneficiary)
		}
		return nil, err
	}

	if !w.SwitchTriggered {
		return nil, stateError(ErrSwitchNotTriggered)
	}
	if !w.GraceEnded(now) {
		return nil, stateError(ErrGracePeriodNotEnded)
	}
	if b.Claimed {
		return nil, stateError(ErrAlreadyClaimed)
	}

	// Claim-then-transfer: the marker write happens before any external
	// transfer call.
	if err := s.store.SetBeneficiaryClaimed(w.ID, caller, true); err != nil {
		return nil, err
	}

	aa, err := s.allocs.Allocations(w.ID, caller)
	if err != nil {
		s.rollbackClaim(w.ID, caller, nil)
		return nil, err
	}

	var settled []allocations.Allocation
	var settledIDs []uint64
	nativeClaimed := uint64(0)

	for i := range aa {
		a := aa[i]
		if a.Claimed {
			continue
		}

		if err := s.assets.TransferOut(ctx, a.Transfer(caller)); err != nil {
			s.refundClaim(ctx, caller, settled)
			s.rollbackClaim(w.ID, caller, settledIDs)
			return nil, transferFailedError(err)
		}

		if err := s.allocs.SetClaimed(a.ID, true); err != nil {
			s.refundClaim(ctx, caller, append(settled, a))
			s.rollbackClaim(w.ID, caller, settledIDs)
			return nil, err
		}

		if a.Kind == ledger.Native && w.NativeReserve >= a.Amount {
			w.NativeReserve -= a.Amount
			nativeClaimed += a.Amount
		}

		a.Claimed = true
		settled = append(settled, a)
		settledIDs = append(settledIDs, a.ID)
	}

	if nativeClaimed > 0 {
		if err := s.store.UpdateWill(&w); err != nil {
			log.WithFields(log.Fields{"error": err, "willId": w.ID}).Warn("Error while updating native reserve after claim")
		}
	}

	for _, a := range settled {
		s.emitter.EmitOrLog(events.BeneficiaryClaimed, w.ID, caller, map[string]interface{}{
			"beneficiary": caller,
			"kind":        a.Kind,
			"assetId":     a.AssetID,
			"subId":       a.SubID,
			"amount":      a.Amount,
		})
	}
	s.emitter.EmitOrLog(events.WillClaimed, w.ID, caller, map[string]interface{}{
		"beneficiary": caller,
		"settled":     len(settled),
	})

	log.WithFields(log.Fields{"willId": w.ID, "beneficiary": caller, "settled": len(settled)}).Info("Inheritance claimed")

	return settled, nil
}

// rollbackClaim reverts the claim markers set during a failed claim
// invocation. Markers set by earlier, successful claims are untouched.
func (s *Service) rollbackClaim(willID uint64, caller string, allocationIDs []uint64) {
	for _, id := range allocationIDs {
		if err := s.allocs.SetClaimed(id, false); err != nil {
			log.WithFields(log.Fields{"error": err, "allocationId": id}).Warn("Error while rolling back allocation claim marker")
		}
	}
	if err := s.store.SetBeneficiaryClaimed(willID, caller, false); err != nil {
		log.WithFields(log.Fields{"error": err, "willId": willID}).Warn("Error while rolling back beneficiary claim marker")
	}
}

// refundClaim returns already paid out units to registry custody when a
// later unit of the same invocation fails.
func (s *Service) refundClaim(ctx context.Context, caller string, settled []allocations.Allocation) {
	for _, a := range settled {
		if err := s.assets.TransferIn(ctx, a.Transfer(caller)); err != nil {
			log.WithFields(log.Fields{"error": err, "allocationId": a.ID}).Warn("Error while returning claimed unit to custody")
		}
	}
}
