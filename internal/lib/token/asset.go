package token

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethmath "github.com/ethereum/go-ethereum/common/math"
)

// Asset is an in-process fungible token with ERC-20 transfer semantics.
// Balances are whole base units (uint64); supply is conserved - tokens only
// enter via Mint and never leave.
type Asset struct {
	mu          sync.Mutex
	symbol      string
	totalSupply uint64
	balances    map[common.Address]uint64
	allowances  map[common.Address]map[common.Address]uint64
}

func NewAsset(symbol string) *Asset {
	return &Asset{
		symbol:     symbol,
		balances:   map[common.Address]uint64{},
		allowances: map[common.Address]map[common.Address]uint64{},
	}
}

func (a *Asset) Symbol() string {
	return a.symbol
}

func (a *Asset) TotalSupply() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalSupply
}

func (a *Asset) BalanceOf(holder common.Address) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balances[holder]
}

func (a *Asset) Allowance(owner, spender common.Address) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allowances[owner][spender]
}

// Mint credits newly created tokens to an account.
func (a *Asset) Mint(to common.Address, amount uint64) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	supply, overflow := ethmath.SafeAdd(a.totalSupply, amount)
	if overflow {
		return ErrSupplyOverflow
	}
	// balance cannot overflow if supply didn't
	a.totalSupply = supply
	a.balances[to] += amount
	return nil
}

// Approve sets spender's allowance over owner's balance, replacing any
// previous value.
func (a *Asset) Approve(owner, spender common.Address, amount uint64) error {
	if spender == (common.Address{}) {
		return ErrZeroAddress
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.allowances[owner] == nil {
		a.allowances[owner] = map[common.Address]uint64{}
	}
	a.allowances[owner][spender] = amount
	return nil
}

func (a *Asset) Transfer(from, to common.Address, amount uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.move(from, to, amount)
}

// TransferFrom moves owner funds on a spender's behalf, consuming allowance.
func (a *Asset) TransferFrom(spender, from, to common.Address, amount uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.allowances[from][spender] < amount {
		return ErrInsufficientAllowance
	}
	if err := a.move(from, to, amount); err != nil {
		return err
	}
	a.allowances[from][spender] -= amount
	return nil
}

func (a *Asset) move(from, to common.Address, amount uint64) error {
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	if a.balances[from] < amount {
		return ErrInsufficientBalance
	}
	a.balances[from] -= amount
	a.balances[to] += amount
	return nil
}

// AssetSnapshot is the serializable state of an Asset.
type AssetSnapshot struct {
	Symbol      string                                       `json:"symbol"`
	TotalSupply uint64                                       `json:"totalSupply"`
	Balances    map[common.Address]uint64                    `json:"balances,omitempty"`
	Allowances  map[common.Address]map[common.Address]uint64 `json:"allowances,omitempty"`
}

func (a *Asset) Snapshot() AssetSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	snap := AssetSnapshot{
		Symbol:      a.symbol,
		TotalSupply: a.totalSupply,
		Balances:    map[common.Address]uint64{},
		Allowances:  map[common.Address]map[common.Address]uint64{},
	}
	for addr, bal := range a.balances {
		snap.Balances[addr] = bal
	}
	for owner, spenders := range a.allowances {
		inner := map[common.Address]uint64{}
		for spender, amt := range spenders {
			inner[spender] = amt
		}
		snap.Allowances[owner] = inner
	}
	return snap
}

func (a *Asset) Restore(snap AssetSnapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.symbol = snap.Symbol
	a.totalSupply = snap.TotalSupply
	a.balances = map[common.Address]uint64{}
	for addr, bal := range snap.Balances {
		a.balances[addr] = bal
	}
	a.allowances = map[common.Address]map[common.Address]uint64{}
	for owner, spenders := range snap.Allowances {
		inner := map[common.Address]uint64{}
		for spender, amt := range spenders {
			inner[spender] = amt
		}
		a.allowances[owner] = inner
	}
}
