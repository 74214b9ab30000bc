package wills

import (
	"context"

	"github.com/hereafter-labs/will-registry-api/ledger"
	log "github.com/sirupsen/logrus"
)

// undoLog aborts a partially applied allocation operation: escrowed
// custody is returned to the holder and the records written so far are
// removed, so no partial allocation survives a failed call.
type undoLog struct {
	svc           *Service
	will          *Will
	beneficiaries []*Beneficiary
	allocationIDs []uint64
	transfers     []ledger.Transfer
}

func newUndoLog(svc *Service) *undoLog {
	return &undoLog{svc: svc}
}

func (u *undoLog) willInserted(w *Will) {
	u.will = w
}

func (u *undoLog) beneficiaryInserted(b *Beneficiary) {
	u.beneficiaries = append(u.beneficiaries, b)
}

func (u *undoLog) allocationInserted(id uint64) {
	u.allocationIDs = append(u.allocationIDs, id)
}

func (u *undoLog) transferredIn(t ledger.Transfer) {
	u.transfers = append(u.transfers, t)
}

func (u *undoLog) run() {
	ctx := context.Background()

	for i := len(u.transfers) - 1; i >= 0; i-- {
		t := u.transfers[i]
		if err := u.svc.assets.TransferOut(ctx, t); err != nil {
			log.
				WithFields(log.Fields{"error": err, "holder": t.Holder}).
				Warn("Error while returning escrowed assets on abort")
		}
	}

	if err := u.svc.allocs.HardDeleteAllocations(u.allocationIDs); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("Error while removing allocation records on abort")
	}

	for i := len(u.beneficiaries) - 1; i >= 0; i-- {
		if err := u.svc.store.HardDeleteBeneficiary(u.beneficiaries[i]); err != nil {
			log.WithFields(log.Fields{"error": err}).Warn("Error while removing beneficiary on abort")
		}
	}

	if u.will != nil {
		if err := u.svc.store.HardDeleteWill(u.will); err != nil {
			log.WithFields(log.Fields{"error": err, "willId": u.will.ID}).Warn("Error while removing will on abort")
		}
	}
}
