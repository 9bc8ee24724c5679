package staking

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/token"
)

var (
	custodyAcct = common.HexToAddress("0x00000000000000000000005374616b65506f6f6c")
	adminAcct   = common.HexToAddress("0x89205A3A3b2A69De6Dbf7f01ED13B2108B2c43e7")
	alice       = common.HexToAddress("0xa0Ee7A142d267C1f36714E4a8F75612F20a79720")
	bob         = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	carol       = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	feeAcct     = common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")
)

type testClock struct {
	current time.Time
}

func (c *testClock) now() time.Time {
	return c.current
}

func (c *testClock) advanceDays(days int) {
	c.current = c.current.Add(time.Duration(days) * 24 * time.Hour)
}

type fixture struct {
	clock  *testClock
	asset  *token.Asset
	nft    *token.Ownership
	ledger *Ledger
}

// newFixture builds a ledger with one pool: 12% APY, 30-day lock, running a
// year, min 1_000 per stake, 500M cumulative per holder, 800M hardcap.
// alice and bob are funded and have approved the ledger.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &testClock{current: time.Unix(1_700_000_000, 0)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	asset := token.NewAsset("STK")
	nft := token.NewOwnership()
	ledger := New(logger, asset, nft, custodyAcct, adminAcct, WithTimeSource(clock.now))

	_, err := ledger.AddPool(adminAcct, PoolParams{
		Apy:            120,
		LockPeriodDays: 30,
		EndDate:        clock.current.Add(365 * 24 * time.Hour).Unix(),
		MinContrib:     1_000,
		MaxContrib:     500_000_000,
		HardCap:        800_000_000,
	})
	require.NoError(t, err)

	for holder, amount := range map[common.Address]uint64{alice: 1_000_000_000, bob: 500_000_000} {
		require.NoError(t, asset.Mint(holder, amount))
		require.NoError(t, asset.Approve(holder, custodyAcct, amount))
	}
	return &fixture{clock: clock, asset: asset, nft: nft, ledger: ledger}
}

func TestStakeValidation(t *testing.T) {
	testCases := []struct {
		name        string
		setup       func(f *fixture)
		caller      common.Address
		poolID      uint64
		amount      uint64
		expectedErr error
	}{
		{"unknown pool", nil, alice, 5, 100_000, ErrInvalidPoolID},
		{"below pool minimum", nil, alice, 0, 500, ErrInvalidAmount},
		{"cumulative above per-holder max", func(f *fixture) {
			require.NoError(t, f.ledger.Stake(alice, 0, 400_000_000))
		}, alice, 0, 200_000_000, ErrInvalidAmount},
		{"hardcap exceeded", func(f *fixture) {
			require.NoError(t, f.ledger.Stake(alice, 0, 500_000_000))
		}, bob, 0, 400_000_000, ErrPoolFull},
		{"deposit window closed", func(f *fixture) {
			// deadline is endDate minus the lock period: day 335
			f.clock.advanceDays(336)
		}, alice, 0, 100_000, ErrStakingClosed},
		{"no allowance", nil, carol, 0, 100_000, ErrInsufficientAllowance},
		{"allowance without balance", func(f *fixture) {
			require.NoError(t, f.asset.Approve(carol, custodyAcct, 100_000))
		}, carol, 0, 100_000, ErrTransferFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			if tc.setup != nil {
				tc.setup(f)
			}
			err := f.ledger.Stake(tc.caller, tc.poolID, tc.amount)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestStakeMintsPositionToken(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Stake(alice, 0, 100_000_000))

	pos, ok := f.ledger.GetPosition(0, alice)
	require.True(t, ok)
	assert.EqualValues(t, 1, pos.PositionID)
	assert.EqualValues(t, 100_000_000, pos.TotalInvested)
	assert.Equal(t, f.clock.current.Unix(), pos.DepositTime)

	owner, err := f.nft.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)

	minter, ok := f.ledger.MinterOf(1)
	require.True(t, ok)
	assert.Equal(t, alice, minter)
	assert.EqualValues(t, 1, f.ledger.TokensMinted())

	assert.EqualValues(t, 100_000_000, f.asset.BalanceOf(custodyAcct))
	assert.EqualValues(t, 900_000_000, f.asset.BalanceOf(alice))

	events := f.ledger.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventStake, events[0].Kind)
	assert.EqualValues(t, 100_000_000, events[0].Amount)
}

func TestRestakeKeepsPositionToken(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Stake(alice, 0, 100_000_000))
	require.NoError(t, f.ledger.Stake(alice, 0, 50_000_000))

	pos, ok := f.ledger.GetPosition(0, alice)
	require.True(t, ok)
	assert.EqualValues(t, 1, pos.PositionID)
	assert.EqualValues(t, 150_000_000, pos.TotalInvested)
	assert.EqualValues(t, 1, f.ledger.TokensMinted())

	pool, err := f.ledger.GetPool(0)
	require.NoError(t, err)
	assert.EqualValues(t, 150_000_000, pool.TotalDeposit)
}

func TestRestakeResetsLockClock(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Stake(alice, 0, 100_000_000))

	f.clock.advanceDays(20)
	accrued, err := f.ledger.Payout(0, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 657_534, accrued) // 100M * 20d * 12% / 365d

	// a top-up restarts the lock for the whole balance and forfeits the
	// accrued-but-unclaimed reward
	require.NoError(t, f.ledger.Stake(alice, 0, 50_000_000))
	accrued, err = f.ledger.Payout(0, alice)
	require.NoError(t, err)
	assert.Zero(t, accrued)

	f.clock.advanceDays(29)
	ok, err := f.ledger.CanClaim(0, alice)
	require.NoError(t, err)
	assert.False(t, ok, "lock must run 30 days from the latest stake")

	f.clock.advanceDays(1)
	ok, err = f.ledger.CanClaim(0, alice)
	require.NoError(t, err)
	assert.True(t, ok)

	accrued, err = f.ledger.Payout(0, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1_479_452, accrued) // 150M * 30d * 12% / 365d
}

func TestClaim(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.UpdateFeeValues(adminAcct, 50, feeAcct)) // 5%
	require.NoError(t, f.ledger.Stake(alice, 0, 100_000_000))

	t.Run("locked before 30 days", func(t *testing.T) {
		f.clock.advanceDays(29)
		assert.ErrorIs(t, f.ledger.Claim(alice, 0, 1), ErrLockedReward)
	})

	t.Run("non-holder rejected", func(t *testing.T) {
		f.clock.advanceDays(1)
		assert.ErrorIs(t, f.ledger.Claim(bob, 0, 1), ErrNotOwner)
	})

	t.Run("pays net of fee", func(t *testing.T) {
		require.NoError(t, f.ledger.Claim(alice, 0, 1))

		// gross 986_301, 5% fee 49_315, net 936_986
		assert.EqualValues(t, 900_000_000+936_986, f.asset.BalanceOf(alice))
		assert.EqualValues(t, 49_315, f.asset.BalanceOf(feeAcct))

		pos, ok := f.ledger.GetPosition(0, alice)
		require.True(t, ok)
		assert.EqualValues(t, 986_301, pos.TotalWithdrawn)
		assert.EqualValues(t, 936_986, pos.TotalClaimed)
		assert.EqualValues(t, 100_000_000, pos.TotalInvested, "principal untouched by claim")

		events := f.ledger.Events()
		require.Len(t, events, 2)
		assert.Equal(t, EventClaim, events[1].Kind)
		assert.EqualValues(t, 986_301, events[1].Amount, "event carries the pre-fee amount")
	})

	t.Run("immediate second claim pays nothing", func(t *testing.T) {
		balance := f.asset.BalanceOf(alice)
		require.NoError(t, f.ledger.Claim(alice, 0, 1))
		assert.Equal(t, balance, f.asset.BalanceOf(alice))

		events := f.ledger.Events()
		require.Len(t, events, 3)
		assert.Equal(t, EventClaim, events[2].Kind)
		assert.Zero(t, events[2].Amount)
	})
}

func TestClaimFeeAbove100PercentRefused(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.UpdateFeeValues(adminAcct, 1_500, feeAcct))
	require.NoError(t, f.ledger.Stake(alice, 0, 100_000_000))
	f.clock.advanceDays(30)

	assert.ErrorIs(t, f.ledger.Claim(alice, 0, 1), ErrOverflow)
	assert.EqualValues(t, 900_000_000, f.asset.BalanceOf(alice), "no partial payout on refusal")
	pos, _ := f.ledger.GetPosition(0, alice)
	assert.Zero(t, pos.TotalWithdrawn)
}

func TestUnStake(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Stake(alice, 0, 100_000_000))

	t.Run("locked before 30 days", func(t *testing.T) {
		assert.ErrorIs(t, f.ledger.UnStake(alice, 0, 100_000_000, 1), ErrLockedStake)
	})

	t.Run("amount above invested", func(t *testing.T) {
		f.clock.advanceDays(30)
		assert.ErrorIs(t, f.ledger.UnStake(alice, 0, 100_000_001, 1), ErrInsufficientFunds)
	})

	t.Run("flushes reward then pays principal", func(t *testing.T) {
		require.NoError(t, f.ledger.UnStake(alice, 0, 40_000_000, 1))

		// 30 days accrued reward (986_301, no fee configured) plus principal
		assert.EqualValues(t, 900_000_000+986_301+40_000_000, f.asset.BalanceOf(alice))

		pos, ok := f.ledger.GetPosition(0, alice)
		require.True(t, ok)
		assert.EqualValues(t, 60_000_000, pos.TotalInvested)
		pool, err := f.ledger.GetPool(0)
		require.NoError(t, err)
		assert.EqualValues(t, 60_000_000, pool.TotalDeposit)
	})

	t.Run("position survives full withdrawal", func(t *testing.T) {
		require.NoError(t, f.ledger.UnStake(alice, 0, 60_000_000, 1))
		pos, ok := f.ledger.GetPosition(0, alice)
		require.True(t, ok)
		assert.Zero(t, pos.TotalInvested)
	})
}

func TestUnderfundedCustodyPaysPartial(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Stake(alice, 0, 100_000_000))
	f.clock.advanceDays(30)

	// drain custody behind the ledger's back, leaving only 1_000
	require.NoError(t, f.asset.Transfer(custodyAcct, carol, 99_999_000))

	require.NoError(t, f.ledger.UnStake(alice, 0, 100_000_000, 1))

	// reward settles first and takes the remaining 1_000; principal gets 0
	assert.EqualValues(t, 900_000_000+1_000, f.asset.BalanceOf(alice))
	assert.Zero(t, f.asset.BalanceOf(custodyAcct))

	// the books still record the full entitlement
	pos, ok := f.ledger.GetPosition(0, alice)
	require.True(t, ok)
	assert.EqualValues(t, 986_301, pos.TotalWithdrawn)
	assert.Zero(t, pos.TotalInvested)
}

func TestPositionTokenTransferMovesProceeds(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Stake(alice, 0, 100_000_000))
	require.NoError(t, f.nft.Transfer(alice, bob, 1))
	f.clock.advanceDays(30)

	assert.ErrorIs(t, f.ledger.Claim(alice, 0, 1), ErrNotOwner)

	require.NoError(t, f.ledger.Claim(bob, 0, 1))
	assert.EqualValues(t, 500_000_000+986_301, f.asset.BalanceOf(bob), "proceeds go to the current holder")

	// accounting stays on the minter's position
	pos, ok := f.ledger.GetPosition(0, alice)
	require.True(t, ok)
	assert.EqualValues(t, 986_301, pos.TotalWithdrawn)
	_, ok = f.ledger.GetPosition(0, bob)
	assert.False(t, ok)

	minter, ok := f.ledger.MinterOf(1)
	require.True(t, ok)
	assert.Equal(t, alice, minter)
}

func TestAdminGuards(t *testing.T) {
	f := newFixture(t)
	params := PoolParams{Apy: 100, LockPeriodDays: 10, EndDate: f.clock.current.Add(100 * 24 * time.Hour).Unix(), MinContrib: 1, MaxContrib: 10, HardCap: 100}

	_, err := f.ledger.AddPool(alice, params)
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.ErrorIs(t, f.ledger.SetPool(alice, 0, params), ErrNotAdmin)
	assert.ErrorIs(t, f.ledger.UpdateFeeValues(alice, 10, feeAcct), ErrNotAdmin)
}

func TestSetPoolPreservesLedgerOwnedFields(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Stake(alice, 0, 100_000_000))
	before, err := f.ledger.GetPool(0)
	require.NoError(t, err)

	require.NoError(t, f.ledger.SetPool(adminAcct, 0, PoolParams{
		Apy:            200,
		LockPeriodDays: 60,
		EndDate:        before.EndDate + SecondsPerDay,
		MinContrib:     2_000,
		MaxContrib:     600_000_000,
		HardCap:        900_000_000,
	}))

	after, err := f.ledger.GetPool(0)
	require.NoError(t, err)
	assert.EqualValues(t, 200, after.Apy)
	assert.Equal(t, before.StartDate, after.StartDate)
	assert.Equal(t, before.TotalDeposit, after.TotalDeposit)
}

func TestReceiveNativeRejected(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ledger.ReceiveNative(alice, 1), ErrNativeNotAccepted)
}

func TestPoolPositionsOrderedByID(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Stake(alice, 0, 100_000_000))
	require.NoError(t, f.ledger.Stake(bob, 0, 50_000_000))

	recs := f.ledger.PoolPositions(0)
	require.Len(t, recs, 2)
	assert.EqualValues(t, 1, recs[0].PositionID)
	assert.Equal(t, alice, recs[0].Holder)
	assert.EqualValues(t, 2, recs[1].PositionID)
	assert.Equal(t, bob, recs[1].Holder)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.UpdateFeeValues(adminAcct, 50, feeAcct))
	require.NoError(t, f.ledger.Stake(alice, 0, 100_000_000))
	require.NoError(t, f.ledger.Stake(bob, 0, 50_000_000))
	f.clock.advanceDays(30)
	require.NoError(t, f.ledger.Claim(alice, 0, 1))

	snap := f.ledger.Snapshot()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	restored := New(logger, f.asset, f.nft, custodyAcct, common.Address{}, WithTimeSource(f.clock.now))
	restored.Restore(snap)

	assert.Equal(t, adminAcct, restored.Admin())
	feePercent, feeWallet := restored.FeeValues()
	assert.EqualValues(t, 50, feePercent)
	assert.Equal(t, feeAcct, feeWallet)
	assert.Equal(t, f.ledger.TokensMinted(), restored.TokensMinted())
	assert.Equal(t, f.ledger.Events(), restored.Events())
	assert.Equal(t, f.ledger.PoolPositions(0), restored.PoolPositions(0))

	// restored ledger accrues identically going forward
	f.clock.advanceDays(10)
	want, err := f.ledger.Payout(0, bob)
	require.NoError(t, err)
	got, err := restored.Payout(0, bob)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
