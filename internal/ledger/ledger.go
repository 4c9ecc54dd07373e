// Package ledger defines the token ownership ledger the issuance core builds on, and an
// in-memory implementation of it.
package ledger

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Errors.
var (
	ErrNonexistentToken = errors.New("nonexistent token")
	ErrZeroAddress      = errors.New("zero address")
	ErrNotOwner         = errors.New("transfer from incorrect owner")
	ErrZeroQuantity     = errors.New("zero quantity")
)

// Ledger tracks who owns which token. IDs are assigned sequentially starting at 1.
type Ledger interface {
	OwnerOf(tokenID uint64) (common.Address, error)
	BalanceOf(owner common.Address) (uint64, error)
	TotalSupply() uint64
	Exists(tokenID uint64) bool

	// SafeCreate assigns quantity new sequential IDs to `to` and returns the first one.
	SafeCreate(to common.Address, quantity uint64) (uint64, error)
	// Transfer moves tokenID and clears its single-token approval. Authorization is the caller's job.
	Transfer(from, to common.Address, tokenID uint64) error

	Approve(spender common.Address, tokenID uint64) error
	GetApproved(tokenID uint64) (common.Address, error)
	SetApprovalForAll(owner, operator common.Address, approved bool)
	IsApprovedForAll(owner, operator common.Address) bool

	Snapshot() int
	RevertToSnapshot(id int)
	// Commit closes snapshot id without undoing its writes.
	Commit(id int)
}
