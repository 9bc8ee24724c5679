package staking

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethmath "github.com/ethereum/go-ethereum/common/math"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
)

// Stake deposits amount of the staking asset into a pool for the caller.
// The caller must have approved the ledger's custody address for at least
// amount beforehand.
//
// Every validation runs before the asset is pulled, so a rejected stake
// leaves no state - in the ledger or the asset contract - to unwind.  The
// one external call that can still fail afterwards (minting the position
// token on a first-time stake) refunds the pull before returning.
func (l *Ledger) Stake(caller common.Address, poolID uint64, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	pool, err := l.poolAt(poolID)
	if err != nil {
		return err
	}
	if l.asset.Allowance(caller, l.addr) < amount {
		return ErrInsufficientAllowance
	}

	key := PositionKey{Pool: poolID, Holder: caller}
	pos := l.positions[key] // nil on first stake

	var invested uint64
	if pos != nil {
		invested = pos.TotalInvested
	}
	cumulative, overflow := ethmath.SafeAdd(invested, amount)
	if overflow {
		return ErrOverflow
	}
	if amount < pool.MinContrib || cumulative > pool.MaxContrib {
		return ErrInvalidAmount
	}
	deposited, overflow := ethmath.SafeAdd(pool.TotalDeposit, amount)
	if overflow {
		return ErrOverflow
	}
	if deposited > pool.HardCap {
		return ErrPoolFull
	}
	now := l.now().Unix()
	depositDeadline := pool.EndDate - int64(pool.LockPeriodDays)*SecondsPerDay
	if now > depositDeadline {
		return ErrStakingClosed
	}

	// checks done - pull the stake into custody
	if err := l.asset.TransferFrom(l.addr, caller, l.addr, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	if pos == nil {
		// first stake for this (pool, holder) - mint the position token and
		// bind its minter exactly once
		id := l.minted + 1
		if err := l.nft.Mint(caller, id); err != nil {
			_ = l.asset.Transfer(l.addr, caller, amount) // undo the pull
			return fmt.Errorf("mint position token: %w", err)
		}
		l.minted = id
		l.minters[id] = caller
		pos = &Position{PositionID: id}
		l.positions[key] = pos
		promTokensMinted.Set(float64(l.minted))
		promPositionCount.Set(float64(len(l.positions)))
	}

	pos.TotalInvested = cumulative
	pool.TotalDeposit = deposited
	// the lock clock restarts for the whole accumulated balance, not just
	// this tranche
	pos.LastPayout = now
	pos.DepositTime = now

	l.emit(EventStake, caller, amount, poolID)
	promStakeOps.Inc()
	promTotalStaked.Add(float64(amount))
	misc.Infof(l.logger, "stake accepted, pool:%d holder:%s amount:%d position:%d", poolID, caller, amount, pos.PositionID)
	return nil
}
