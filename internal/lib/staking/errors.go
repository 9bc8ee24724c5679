package staking

import (
	"errors"
)

var (
	ErrInsufficientAllowance = errors.New("ledger not approved for stake amount")
	ErrTransferFailed        = errors.New("asset transfer failed")
	ErrNotOwner              = errors.New("caller does not hold the position token")
	ErrInvalidPoolID         = errors.New("invalid pool id")
	ErrInvalidAmount         = errors.New("amount outside pool contribution limits")
	ErrPoolFull              = errors.New("pool hardcap reached")
	ErrStakingClosed         = errors.New("pool no longer accepting deposits")
	ErrLockedReward          = errors.New("reward is still locked")
	ErrLockedStake           = errors.New("stake is still locked")
	ErrInsufficientFunds     = errors.New("unstake amount exceeds invested balance")
	ErrNotAdmin              = errors.New("caller is not the ledger admin")
	ErrOverflow              = errors.New("arithmetic overflow")
	ErrNativeNotAccepted     = errors.New("native currency deposits are not accepted")
)
