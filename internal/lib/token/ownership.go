package token

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Ownership is an in-process non-fungible token.  Each id has exactly one
// holder; ids are never burned.  Minting is done by the staking ledger,
// transfers by whoever currently holds the id.
type Ownership struct {
	mu     sync.Mutex
	owners map[uint64]common.Address
}

func NewOwnership() *Ownership {
	return &Ownership{owners: map[uint64]common.Address{}}
}

func (o *Ownership) Mint(to common.Address, id uint64) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if id == 0 {
		return ErrUnknownToken
	}
	if _, exists := o.owners[id]; exists {
		return ErrTokenExists
	}
	o.owners[id] = to
	return nil
}

func (o *Ownership) OwnerOf(id uint64) (common.Address, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	owner, ok := o.owners[id]
	if !ok {
		return common.Address{}, ErrUnknownToken
	}
	return owner, nil
}

// Transfer moves an id between holders.  Transferring the token moves the
// right to act on the underlying position, not the position itself.
func (o *Ownership) Transfer(from, to common.Address, id uint64) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	owner, ok := o.owners[id]
	if !ok {
		return ErrUnknownToken
	}
	if owner != from {
		return ErrNotTokenOwner
	}
	o.owners[id] = to
	return nil
}

// OwnershipSnapshot is the serializable state of an Ownership token.
type OwnershipSnapshot struct {
	Owners map[uint64]common.Address `json:"owners,omitempty"`
}

func (o *Ownership) Snapshot() OwnershipSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	snap := OwnershipSnapshot{Owners: map[uint64]common.Address{}}
	for id, owner := range o.owners {
		snap.Owners[id] = owner
	}
	return snap
}

func (o *Ownership) Restore(snap OwnershipSnapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.owners = map[uint64]common.Address{}
	for id, owner := range snap.Owners {
		o.owners[id] = owner
	}
}
