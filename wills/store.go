package wills

import (
	"github.com/hereafter-labs/will-registry-api/datastore"
)

// Store manages will records, their beneficiary registrations and the
// owner/beneficiary indices.
type Store interface {
	// Insert a new will, allocating its id.
	InsertWill(w *Will) error

	// Get one will.
	Will(id uint64) (Will, error)

	// Persist changed will fields.
	UpdateWill(w *Will) error

	// Permanently remove a will. Only used to abort a creation whose
	// custody transfers failed; settled wills are never deleted.
	HardDeleteWill(w *Will) error

	// List wills by owner, oldest first.
	WillsByOwner(owner string, opts datastore.ListOptions) ([]Will, error)

	// List wills in which the address is a registered beneficiary.
	WillsByBeneficiary(address string, opts datastore.ListOptions) ([]Will, error)

	// List active wills whose switch has not been triggered, for the
	// inactivity sweep.
	ActiveUntriggeredWills() ([]Will, error)

	// Register a beneficiary under a will.
	InsertBeneficiary(b *Beneficiary) error

	// Get one beneficiary registration.
	Beneficiary(willID uint64, address string) (Beneficiary, error)

	// List a will's beneficiaries in registration order.
	Beneficiaries(willID uint64) ([]Beneficiary, error)

	// Set or clear the per-beneficiary claim marker. Clearing is only
	// valid while rolling back the claim invocation that set it.
	SetBeneficiaryClaimed(willID uint64, address string, claimed bool) error

	// Permanently remove a beneficiary registration, for aborting a
	// partially recorded operation.
	HardDeleteBeneficiary(b *Beneficiary) error

	// Registry-wide aggregates, excluding allocation sums.
	Stats() (Stats, error)
}
