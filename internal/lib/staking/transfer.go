package staking

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
)

// safeTransfer moves min(amount, custody balance) of the staking asset to
// `to` and returns what was actually paid.  This is the one deliberate
// exception to fail-fast: an underfunded ledger degrades to a partial
// payment instead of failing the whole operation.  Callers that need the
// full amount must check the returned value.
func (l *Ledger) safeTransfer(to common.Address, amount uint64) uint64 {
	if balance := l.asset.BalanceOf(l.addr); amount > balance {
		misc.Warnf(l.logger, "custody underfunded, requested:%d available:%d to:%s", amount, balance, to)
		amount = balance
	}
	if amount == 0 {
		return 0
	}
	if err := l.asset.Transfer(l.addr, to, amount); err != nil {
		misc.Errorf(l.logger, "custody transfer of %d to %s failed: %v", amount, to, err)
		return 0
	}
	return amount
}
