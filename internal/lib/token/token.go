package token

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// The staking ledger consumes two external token contracts.  Both are
// modelled as plain interfaces so the ledger never depends on how balances
// or ownership are actually kept.

// AssetToken is the fungible staking asset - balance / allowance / transfer
// semantics.  Transfers take an explicit 'from' since there is no implicit
// transaction sender in-process.
type AssetToken interface {
	BalanceOf(holder common.Address) uint64
	Allowance(owner, spender common.Address) uint64
	Transfer(from, to common.Address, amount uint64) error
	TransferFrom(spender, from, to common.Address, amount uint64) error
}

// OwnershipToken is the non-fungible token gating who may act on a staking
// position.  The ledger only ever mints and resolves current holders;
// holder-to-holder transfer happens outside the ledger.
type OwnershipToken interface {
	Mint(to common.Address, id uint64) error
	OwnerOf(id uint64) (common.Address, error)
}

var (
	ErrInsufficientBalance   = errors.New("transfer amount exceeds balance")
	ErrInsufficientAllowance = errors.New("transfer amount exceeds allowance")
	ErrZeroAddress           = errors.New("zero address not allowed")
	ErrTokenExists           = errors.New("token id already minted")
	ErrUnknownToken          = errors.New("unknown token id")
	ErrNotTokenOwner         = errors.New("transfer from non-owner")
	ErrSupplyOverflow        = errors.New("total supply overflow")
)
