package wills

import (
	"fmt"

	"github.com/hereafter-labs/will-registry-api/ledger"
)

// AllocationGroup names a batch of allocation units of one asset. SubIDs,
// Amounts and Beneficiaries are parallel arrays: index i across them
// describes one transfer unit. Native assets are deposited through the
// NativeDeposit field of the enclosing request, never as a group.
type AllocationGroup struct {
	Kind          string   `json:"kind"`
	AssetID       string   `json:"assetId"`
	SubIDs        []string `json:"subIds,omitempty"`
	Amounts       []uint64 `json:"amounts,omitempty"`
	Beneficiaries []string `json:"beneficiaries,omitempty"`
}

type CreateWillRequest struct {
	Owner             string            `json:"owner"`
	Name              string            `json:"name"`
	Allocations       []AllocationGroup `json:"allocations"`
	GracePeriod       uint64            `json:"gracePeriod"`       // seconds
	ActivityThreshold uint64            `json:"activityThreshold"` // seconds
	NativeDeposit     uint64            `json:"nativeDeposit"`
}

type AddBeneficiaryRequest struct {
	WillID        uint64            `json:"-"`
	Caller        string            `json:"caller"`
	Beneficiary   string            `json:"beneficiary"`
	Allocations   []AllocationGroup `json:"allocations"`
	NativeDeposit uint64            `json:"nativeDeposit"`
}

// allocationUnit is one expanded transfer unit of a group.
type allocationUnit struct {
	beneficiary string
	transfer    ledger.Transfer
}

func (g *AllocationGroup) kind() (ledger.Kind, error) {
	k := ledger.KindFromText(g.Kind)
	if k == ledger.Unknown {
		return k, validationError(fmt.Errorf("%w: %q", ErrInvalidAssetKind, g.Kind))
	}
	if k == ledger.Native {
		return k, validationError(fmt.Errorf("%w: native assets are deposited, not allocated in groups", ErrInvalidAssetKind))
	}
	return k, nil
}

// unitCount derives the number of transfer units the group describes.
func (g *AllocationGroup) unitCount(k ledger.Kind) int {
	if k.HasSubID() {
		return len(g.SubIDs)
	}
	return len(g.Amounts)
}

// unit expands one index of the parallel arrays into a transfer unit.
// The holder is the party custody moves from.
func (g *AllocationGroup) unit(k ledger.Kind, i int, beneficiary, holder string) (allocationUnit, error) {
	if beneficiary == "" {
		return allocationUnit{}, validationError(ErrInvalidBeneficiary)
	}

	t := ledger.Transfer{Kind: k, AssetID: g.AssetID, Holder: holder}

	if k.HasSubID() {
		t.SubID = g.SubIDs[i]
	}

	switch {
	case k == ledger.Unique:
		// Unique units always move one at a time.
		if len(g.Amounts) > i && g.Amounts[i] != 1 {
			return allocationUnit{}, validationError(fmt.Errorf("unique allocation amount must be 1"))
		}
		t.Amount = 1
	case len(g.Amounts) != g.unitCount(k):
		return allocationUnit{}, validationError(fmt.Errorf("allocation group amounts do not match unit count"))
	default:
		t.Amount = g.Amounts[i]
	}

	if err := t.Validate(); err != nil {
		return allocationUnit{}, validationError(err)
	}

	return allocationUnit{beneficiary: beneficiary, transfer: t}, nil
}

// units expands a creation-time group, where each unit names its own
// beneficiary.
func (g *AllocationGroup) units(holder string) ([]allocationUnit, error) {
	k, err := g.kind()
	if err != nil {
		return nil, err
	}

	n := g.unitCount(k)
	if n == 0 {
		return nil, validationError(fmt.Errorf("allocation group for %s is empty", g.AssetID))
	}
	if len(g.Beneficiaries) != n {
		return nil, validationError(fmt.Errorf("allocation group beneficiaries do not match unit count"))
	}

	uu := make([]allocationUnit, 0, n)
	for i := 0; i < n; i++ {
		u, err := g.unit(k, i, g.Beneficiaries[i], holder)
		if err != nil {
			return nil, err
		}
		uu = append(uu, u)
	}
	return uu, nil
}

// unitsFor expands a group allocated to a single beneficiary, as used
// when adding a beneficiary to an existing will.
func (g *AllocationGroup) unitsFor(beneficiary, holder string) ([]allocationUnit, error) {
	k, err := g.kind()
	if err != nil {
		return nil, err
	}

	if len(g.Beneficiaries) > 0 {
		return nil, validationError(fmt.Errorf("allocation group must not name beneficiaries here"))
	}

	n := g.unitCount(k)
	if n == 0 {
		return nil, validationError(fmt.Errorf("allocation group for %s is empty", g.AssetID))
	}

	uu := make([]allocationUnit, 0, n)
	for i := 0; i < n; i++ {
		u, err := g.unit(k, i, beneficiary, holder)
		if err != nil {
			return nil, err
		}
		uu = append(uu, u)
	}
	return uu, nil
}
