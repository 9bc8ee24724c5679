package token

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnershipMint(t *testing.T) {
	o := NewOwnership()
	require.NoError(t, o.Mint(owner, 1))

	holder, err := o.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, owner, holder)

	assert.ErrorIs(t, o.Mint(common.Address{}, 2), ErrZeroAddress)
	assert.ErrorIs(t, o.Mint(owner, 0), ErrUnknownToken, "id 0 is reserved for unassigned")
	assert.ErrorIs(t, o.Mint(other, 1), ErrTokenExists)
}

func TestOwnershipTransfer(t *testing.T) {
	o := NewOwnership()
	require.NoError(t, o.Mint(owner, 1))

	assert.ErrorIs(t, o.Transfer(owner, other, 2), ErrUnknownToken)
	assert.ErrorIs(t, o.Transfer(other, spender, 1), ErrNotTokenOwner)
	assert.ErrorIs(t, o.Transfer(owner, common.Address{}, 1), ErrZeroAddress)

	require.NoError(t, o.Transfer(owner, other, 1))
	holder, err := o.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, other, holder)
}

func TestOwnershipSnapshotRoundTrip(t *testing.T) {
	o := NewOwnership()
	require.NoError(t, o.Mint(owner, 1))
	require.NoError(t, o.Mint(other, 2))

	restored := NewOwnership()
	restored.Restore(o.Snapshot())
	for id, want := range map[uint64]common.Address{1: owner, 2: other} {
		holder, err := restored.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, want, holder)
	}
}
