package ledger

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol = common.HexToAddress("0x00000000000000000000000000000000000ca201")
)

// ---------------------------------------------------------------------------
// SafeCreate
// ---------------------------------------------------------------------------

func TestSafeCreateAssignsSequentialIDsFromOne(t *testing.T) {
	m := NewMemory()

	first, err := m.SafeCreate(alice, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first)

	first, err = m.SafeCreate(bob, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), first)

	assert.Equal(t, uint64(5), m.TotalSupply())
	for id := uint64(1); id <= 3; id++ {
		owner, err := m.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, alice, owner)
	}
	bal, err := m.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), bal)
}

func TestSafeCreateRejectsZeroAddressAndQuantity(t *testing.T) {
	m := NewMemory()
	_, err := m.SafeCreate(common.Address{}, 1)
	assert.ErrorIs(t, err, ErrZeroAddress)
	_, err = m.SafeCreate(alice, 0)
	assert.ErrorIs(t, err, ErrZeroQuantity)
	assert.Zero(t, m.TotalSupply())
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestOwnerOfNonexistent(t *testing.T) {
	m := NewMemory()
	_, err := m.OwnerOf(1)
	assert.ErrorIs(t, err, ErrNonexistentToken)
	assert.False(t, m.Exists(1))
}

func TestBalanceOfZeroAddress(t *testing.T) {
	_, err := NewMemory().BalanceOf(common.Address{})
	assert.ErrorIs(t, err, ErrZeroAddress)
}

// ---------------------------------------------------------------------------
// Transfer / approvals
// ---------------------------------------------------------------------------

func TestTransferClearsApproval(t *testing.T) {
	m := NewMemory()
	_, err := m.SafeCreate(alice, 1)
	require.NoError(t, err)
	require.NoError(t, m.Approve(carol, 1))

	require.NoError(t, m.Transfer(alice, bob, 1))

	owner, _ := m.OwnerOf(1)
	assert.Equal(t, bob, owner)
	approved, err := m.GetApproved(1)
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, approved)

	aliceBal, _ := m.BalanceOf(alice)
	bobBal, _ := m.BalanceOf(bob)
	assert.Zero(t, aliceBal)
	assert.Equal(t, uint64(1), bobBal)
}

func TestTransferWrongOwner(t *testing.T) {
	m := NewMemory()
	_, err := m.SafeCreate(alice, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Transfer(bob, carol, 1), ErrNotOwner)
	assert.ErrorIs(t, m.Transfer(alice, common.Address{}, 1), ErrZeroAddress)
	assert.ErrorIs(t, m.Transfer(alice, bob, 2), ErrNonexistentToken)
}

func TestApproveNonexistent(t *testing.T) {
	assert.ErrorIs(t, NewMemory().Approve(bob, 7), ErrNonexistentToken)
}

func TestOperatorApproval(t *testing.T) {
	m := NewMemory()
	assert.False(t, m.IsApprovedForAll(alice, bob))
	m.SetApprovalForAll(alice, bob, true)
	assert.True(t, m.IsApprovedForAll(alice, bob))
	m.SetApprovalForAll(alice, bob, false)
	assert.False(t, m.IsApprovedForAll(alice, bob))
}

// ---------------------------------------------------------------------------
// Snapshot / RevertToSnapshot
// ---------------------------------------------------------------------------

func TestRevertUndoesCreateAndTransfer(t *testing.T) {
	m := NewMemory()
	_, err := m.SafeCreate(alice, 2)
	require.NoError(t, err)

	snap := m.Snapshot()
	_, err = m.SafeCreate(bob, 3)
	require.NoError(t, err)
	require.NoError(t, m.Transfer(alice, carol, 1))
	m.SetApprovalForAll(carol, bob, true)

	m.RevertToSnapshot(snap)

	assert.Equal(t, uint64(2), m.TotalSupply())
	assert.False(t, m.Exists(3))
	owner, _ := m.OwnerOf(1)
	assert.Equal(t, alice, owner)
	bal, _ := m.BalanceOf(bob)
	assert.Zero(t, bal)
	assert.False(t, m.IsApprovedForAll(carol, bob))

	first, err := m.SafeCreate(bob, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), first, "ID counter is rolled back too")
}

func TestCommitDropsJournal(t *testing.T) {
	m := NewMemory()
	_, err := m.SafeCreate(alice, 3)
	require.NoError(t, err)
	assert.Zero(t, m.JournalLen(), "writes outside a snapshot are not journaled")

	outer := m.Snapshot()
	require.NoError(t, m.Transfer(alice, bob, 1))
	inner := m.Snapshot()
	require.NoError(t, m.Transfer(alice, carol, 2))
	m.Commit(inner)
	assert.NotZero(t, m.JournalLen(), "the outer snapshot is still open")

	m.RevertToSnapshot(outer)
	owner, err := m.OwnerOf(2)
	require.NoError(t, err)
	assert.Equal(t, alice, owner, "reverting the outer snapshot undoes the committed inner one")
	assert.Zero(t, m.JournalLen())

	snap := m.Snapshot()
	require.NoError(t, m.Transfer(alice, bob, 1))
	m.Commit(snap)
	assert.Zero(t, m.JournalLen())
	owner, err = m.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
}
