// Package ledger defines the asset custody capability the registry
// orchestrates. The registry never moves assets itself; it calls into a
// Ledger implementation and records the outcome.
package ledger

import (
	"context"
	"fmt"
	"strings"
)

type Kind int

const (
	Unknown Kind = iota
	Native
	Fungible
	Unique
	Multi
)

func (k Kind) String() string {
	switch k {
	case Native:
		return "native"
	case Fungible:
		return "fungible"
	case Unique:
		return "unique"
	case Multi:
		return "multi"
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	*k = KindFromText(string(text))
	return nil
}

func KindFromText(text string) Kind {
	switch strings.ToLower(text) {
	default:
		return Unknown
	case "native":
		return Native
	case "fungible":
		return Fungible
	case "unique":
		return Unique
	case "multi":
		return Multi
	}
}

// HasSubID reports whether the kind distinguishes individual units within
// a contract or collection.
func (k Kind) HasSubID() bool {
	return k == Unique || k == Multi
}

// Transfer describes one custody movement between an external holder and
// the registry.
type Transfer struct {
	Kind    Kind   `json:"kind"`
	AssetID string `json:"assetId,omitempty"` // token contract identity, empty for native
	SubID   string `json:"subId,omitempty"`   // unit identifier, unique/multi kinds only
	Amount  uint64 `json:"amount"`
	Holder  string `json:"holder"` // external party the assets move from or to
}

// Validate checks the transfer is well-formed for its asset kind.
func (t Transfer) Validate() error {
	if t.Kind == Unknown {
		return fmt.Errorf("unknown asset kind")
	}
	if t.Holder == "" {
		return fmt.Errorf("transfer holder is empty")
	}
	if t.Amount == 0 {
		return fmt.Errorf("transfer amount is zero")
	}
	if t.Kind == Native && t.AssetID != "" {
		return fmt.Errorf("native transfers carry no asset identity")
	}
	if t.Kind != Native && t.AssetID == "" {
		return fmt.Errorf("%s transfer needs an asset identity", t.Kind)
	}
	if t.Kind.HasSubID() && t.SubID == "" {
		return fmt.Errorf("%s transfer needs a sub identifier", t.Kind)
	}
	if !t.Kind.HasSubID() && t.SubID != "" {
		return fmt.Errorf("%s transfer must not carry a sub identifier", t.Kind)
	}
	if t.Kind == Unique && t.Amount != 1 {
		return fmt.Errorf("unique transfer amount must be 1")
	}
	return nil
}

// TransferError signals that the custody backend rejected a transfer. The
// enclosing registry operation rolls back as a unit when it sees one.
type TransferError struct {
	Transfer Transfer
	Err      error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("asset transfer failed (%s %s/%s x%d): %s",
		e.Transfer.Kind, e.Transfer.AssetID, e.Transfer.SubID, e.Transfer.Amount, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// Ledger performs custody transfers for the four asset kinds.
type Ledger interface {
	// TransferIn moves assets from the holder into registry custody.
	TransferIn(ctx context.Context, t Transfer) error

	// TransferOut moves assets from registry custody to the holder.
	TransferOut(ctx context.Context, t Transfer) error
}
