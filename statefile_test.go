package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/staking"
	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/token"
)

func TestAppStateRoundTrip(t *testing.T) {
	admin := common.HexToAddress("0x89205A3A3b2A69De6Dbf7f01ED13B2108B2c43e7")
	staker := common.HexToAddress("0xa0Ee7A142d267C1f36714E4a8F75612F20a79720")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	asset := token.NewAsset("STK")
	nft := token.NewOwnership()
	ledger := staking.New(logger, asset, nft, custodyAddress, admin)

	_, err := ledger.AddPool(admin, staking.PoolParams{
		Apy:            120,
		LockPeriodDays: 30,
		EndDate:        time.Now().Add(365 * 24 * time.Hour).Unix(),
		MinContrib:     1_000,
		MaxContrib:     500_000_000,
		HardCap:        800_000_000,
	})
	require.NoError(t, err)
	require.NoError(t, asset.Mint(staker, 1_000_000_000))
	require.NoError(t, asset.Approve(staker, custodyAddress, 1_000_000_000))
	require.NoError(t, ledger.Stake(staker, 0, 100_000_000))

	fname := filepath.Join(t.TempDir(), "state.json")
	state := &AppState{
		Ledger:    ledger.Snapshot(),
		Asset:     asset.Snapshot(),
		Ownership: nft.Snapshot(),
	}
	require.NoError(t, SaveAppState(fname, state))

	loaded, err := LoadAppState(fname)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	// restored collaborators must agree with the originals
	asset2 := token.NewAsset("")
	nft2 := token.NewOwnership()
	ledger2 := staking.New(logger, asset2, nft2, custodyAddress, loaded.Ledger.Admin)
	asset2.Restore(loaded.Asset)
	nft2.Restore(loaded.Ownership)
	ledger2.Restore(loaded.Ledger)

	assert.Equal(t, asset.BalanceOf(custodyAddress), asset2.BalanceOf(custodyAddress))
	assert.Equal(t, ledger.PoolPositions(0), ledger2.PoolPositions(0))
	holder, err := nft2.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, staker, holder)
}

func TestLoadAppStateMissingFile(t *testing.T) {
	_, err := LoadAppState(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}
