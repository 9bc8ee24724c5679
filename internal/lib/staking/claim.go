package staking

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
)

// Claim pays out the accrued reward on a position.  The caller must be the
// current holder of the position token; the position itself stays keyed by
// the address that minted it, so net proceeds go to the holder while the
// accounting is settled against the minter's position.
func (l *Ledger) Claim(caller common.Address, poolID uint64, positionID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	minter, err := l.authorize(caller, positionID)
	if err != nil {
		return err
	}
	ok, err := l.canClaim(poolID, minter)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLockedReward
	}
	_, err = l.settleReward(poolID, minter, caller)
	return err
}

// UnStake withdraws amount of principal from a position, flushing any accrued
// reward first.  Same holder authorization as Claim.
func (l *Ledger) UnStake(caller common.Address, poolID uint64, amount uint64, positionID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	minter, err := l.authorize(caller, positionID)
	if err != nil {
		return err
	}
	pool, err := l.poolAt(poolID)
	if err != nil {
		return err
	}
	pos := l.positions[PositionKey{Pool: poolID, Holder: minter}]
	if pos == nil || pos.TotalInvested < amount {
		return ErrInsufficientFunds
	}
	ok, err := l.canClaim(poolID, minter)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLockedStake
	}

	if _, err := l.settleReward(poolID, minter, caller); err != nil {
		return err
	}

	// principal bookkeeping completes before the outbound transfer
	pool.TotalDeposit -= amount
	pos.TotalInvested -= amount
	promTotalStaked.Sub(float64(amount))

	paid := l.safeTransfer(caller, amount)
	misc.Infof(l.logger, "unstake, pool:%d minter:%s caller:%s amount:%d paid:%d", poolID, minter, caller, amount, paid)
	return nil
}

// authorize verifies the caller currently holds positionID and resolves the
// address that minted it.  Callers hold the ledger mutex.
func (l *Ledger) authorize(caller common.Address, positionID uint64) (common.Address, error) {
	owner, err := l.nft.OwnerOf(positionID)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrNotOwner, err)
	}
	if owner != caller {
		return common.Address{}, ErrNotOwner
	}
	minter, ok := l.minters[positionID]
	if !ok {
		return common.Address{}, ErrNotOwner
	}
	return minter, nil
}

// settleReward is the internal claim routine for (poolID, addr): compute the
// accrued amount, deduct the protocol fee, and pay the remainder to payee.
// All position state is written before either outbound transfer goes out.
// The Claim event always fires, with the pre-fee amount, even when nothing
// accrued.
func (l *Ledger) settleReward(poolID uint64, addr, payee common.Address) (uint64, error) {
	amount, err := l.payout(poolID, addr)
	if err != nil {
		return 0, err
	}
	if amount > 0 {
		pos := l.positions[PositionKey{Pool: poolID, Holder: addr}]

		// amount*feePercent can exceed 64 bits, so the fee is computed wide
		f := new(uint256.Int).SetUint64(amount)
		f.Mul(f, uint256.NewInt(l.feePercent))
		f.Div(f, uint256.NewInt(FeeDenominator))
		if !f.IsUint64() {
			return 0, ErrOverflow
		}
		feeAmount := f.Uint64()
		net, underflow := ethmath.SafeSub(amount, feeAmount)
		if underflow {
			// fee rate above 100% - refuse rather than pay out garbage
			return 0, ErrOverflow
		}
		withdrawn, overflow := ethmath.SafeAdd(pos.TotalWithdrawn, amount)
		if overflow {
			return 0, ErrOverflow
		}
		claimed, overflow := ethmath.SafeAdd(pos.TotalClaimed, net)
		if overflow {
			return 0, ErrOverflow
		}

		pos.TotalWithdrawn = withdrawn
		pos.TotalClaimed = claimed
		pos.LastPayout = l.now().Unix()

		l.safeTransfer(l.feeWallet, feeAmount)
		l.safeTransfer(payee, net)
		promFeesPaid.Add(float64(feeAmount))
		misc.Infof(l.logger, "reward claimed, pool:%d position holder:%s payee:%s gross:%d fee:%d", poolID, addr, payee, amount, feeAmount)
	}
	l.emit(EventClaim, addr, amount, poolID)
	promClaimOps.Inc()
	return amount, nil
}
