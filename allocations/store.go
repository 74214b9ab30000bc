package allocations

// Store manages allocation records.
type Store interface {
	// Insert a new allocation record.
	InsertAllocation(a *Allocation) error

	// List a beneficiary's allocations for a will, in insertion order.
	Allocations(willID uint64, beneficiary string) ([]Allocation, error)

	// List every allocation of a will, in insertion order.
	AllocationsByWill(willID uint64) ([]Allocation, error)

	// Set or clear the claimed marker on one allocation. Clearing is only
	// valid while rolling back the claim invocation that set it.
	SetClaimed(id uint64, claimed bool) error

	// Delete allocations, for aborting a partially recorded operation.
	HardDeleteAllocations(ids []uint64) error

	// Sum of unclaimed fungible allocation amounts across all wills.
	UnclaimedFungibleTotal() (uint64, error)
}
