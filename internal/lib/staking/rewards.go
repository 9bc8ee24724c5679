package staking

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Payout computes the accrued-but-unpaid reward for (poolID, holder) at the
// current instant.  Pure - no state is mutated.  The value is non-decreasing
// in time until the pool's end date and constant afterwards.
func (l *Ledger) Payout(poolID uint64, holder common.Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.payout(poolID, holder)
}

// payout is the linear-interest accrual:
//
//	invested * elapsed * apy / (seconds-per-year * 1000)
//
// apy is percent x10, so the 1000 divisor de-scales both the x10 and the
// percent.  Intermediates are 256-bit so the triple product cannot wrap.
// Callers hold the ledger mutex.
func (l *Ledger) payout(poolID uint64, holder common.Address) (uint64, error) {
	pool, err := l.poolAt(poolID)
	if err != nil {
		return 0, err
	}
	pos, ok := l.positions[PositionKey{Pool: poolID, Holder: holder}]
	if !ok || pos.TotalInvested == 0 {
		return 0, nil
	}
	from := max(pos.LastPayout, pos.DepositTime)
	to := min(l.now().Unix(), pool.EndDate)
	if from >= to {
		return 0, nil
	}
	value := new(uint256.Int).SetUint64(pos.TotalInvested)
	value.Mul(value, uint256.NewInt(uint64(to-from)))
	value.Mul(value, uint256.NewInt(pool.Apy))
	value.Div(value, uint256.NewInt(SecondsPerYear*ApyDenominator))
	if !value.IsUint64() {
		return 0, ErrOverflow
	}
	return value.Uint64(), nil
}

// CanClaim reports whether the lock period has elapsed for (poolID, holder).
// Pure predicate; false when no position exists yet.
func (l *Ledger) CanClaim(poolID uint64, holder common.Address) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.canClaim(poolID, holder)
}

func (l *Ledger) canClaim(poolID uint64, holder common.Address) (bool, error) {
	pool, err := l.poolAt(poolID)
	if err != nil {
		return false, err
	}
	pos, ok := l.positions[PositionKey{Pool: poolID, Holder: holder}]
	if !ok || pos.DepositTime == 0 {
		return false, nil
	}
	unlockAt := pos.DepositTime + int64(pool.LockPeriodDays)*SecondsPerDay
	return l.now().Unix() >= unlockAt, nil
}
