// Package permit implements signature-based approvals for single tokens (ERC-4494).
//
// An owner signs Permit(spender, tokenId, nonce, deadline) under the collection's typed-data
// domain. The nonce is per token and only moves when the token is transferred, so every
// outstanding permit for a token dies with its next transfer.
package permit

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Errors.
var (
	ErrPermitExpired    = errors.New("permit expired")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrSelfApproval     = errors.New("approval to current owner")
	ErrUnauthorized     = errors.New("unauthorized")
)

// Owners resolves the current owner of a token.
type Owners interface {
	OwnerOf(tokenID uint64) (common.Address, error)
}

// Env is the part of the execution environment a permit check reads.
type Env interface {
	ChainID() *big.Int
	Now() time.Time
	IsValidSignature(account common.Address, hash common.Hash, sig []byte) bool
}

// Authority validates permits and holds the per-token nonces.
type Authority struct {
	domain *Domain
	owners Owners
	env    Env
	nonces map[uint64]uint64
}

// New creates an Authority for the collection at contract. The live chain id at this point
// becomes the cached domain chain id.
func New(name, version string, contract common.Address, owners Owners, env Env) *Authority {
	return &Authority{
		domain: NewDomain(name, version, contract, env.ChainID()),
		owners: owners,
		env:    env,
		nonces: make(map[uint64]uint64),
	}
}

// Domain returns the typed-data domain.
func (a *Authority) Domain() *Domain { return a.domain }

// DomainSeparator returns the separator for the live chain id.
func (a *Authority) DomainSeparator() common.Hash {
	return a.domain.Separator(a.env.ChainID())
}

// Nonce returns the current nonce of tokenID. Tokens start at zero.
func (a *Authority) Nonce(tokenID uint64) uint64 { return a.nonces[tokenID] }

// Increment advances the nonce of tokenID by one. Only completed non-mint transfers call it.
func (a *Authority) Increment(tokenID uint64) {
	a.nonces[tokenID]++
}

// StructHash hashes the Permit struct.
func StructHash(spender common.Address, tokenID, nonce uint64, deadline *uint256.Int) common.Hash {
	id := uint256.NewInt(tokenID).Bytes32()
	n := uint256.NewInt(nonce).Bytes32()
	dl := deadline.Bytes32()
	return crypto.Keccak256Hash(
		permitTypeHash[:],
		common.BytesToHash(spender.Bytes()).Bytes(),
		id[:], n[:], dl[:],
	)
}

// TypedHash combines a domain separator and a struct hash the EIP-712 way.
func TypedHash(separator, structHash common.Hash) common.Hash {
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, separator[:], structHash[:])
}

// Digest returns the hash the owner signs for a permit at the token's current nonce.
func (a *Authority) Digest(spender common.Address, tokenID uint64, deadline *uint256.Int) common.Hash {
	return TypedHash(a.DomainSeparator(), StructHash(spender, tokenID, a.Nonce(tokenID), deadline))
}

// Check validates a permit and returns the token's owner. It does not change any state; the
// caller sets the approval when Check succeeds.
func (a *Authority) Check(spender common.Address, tokenID uint64, deadline *uint256.Int, sig []byte) (common.Address, error) {
	now := a.env.Now().Unix()
	if now < 0 {
		now = 0
	}
	if deadline.LtUint64(uint64(now)) {
		return common.Address{}, fmt.Errorf("%w: deadline %s, now %d", ErrPermitExpired, deadline.Dec(), now)
	}

	digest := a.Digest(spender, tokenID, deadline)
	signer, err := RecoverSigner(digest, sig)
	if err != nil {
		return common.Address{}, err
	}

	owner, err := a.owners.OwnerOf(tokenID)
	if err != nil {
		return common.Address{}, err
	}
	if spender == owner {
		return common.Address{}, ErrSelfApproval
	}
	if signer != owner && !a.env.IsValidSignature(owner, digest, sig) {
		return common.Address{}, fmt.Errorf("%w: signer %s is not owner %s", ErrUnauthorized, signer.Hex(), owner.Hex())
	}
	return owner, nil
}
