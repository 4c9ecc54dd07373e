// Package allowlist verifies Merkle inclusion proofs against an operator-published root.
//
// Leaves are keccak256 of the raw 20-byte address. Interior nodes hash the two children in
// ascending order, so a proof is just the list of siblings with no left/right flags. This is
// the sortPairs convention of merkletreejs and OpenZeppelin's MerkleProof.
package allowlist

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Leaf returns the leaf hash of an allowlisted address.
func Leaf(addr common.Address) common.Hash {
	return keccak(addr.Bytes())
}

// HashPair hashes a and b with the numerically smaller value first.
func HashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return keccak(a[:], b[:])
}

// ProcessProof folds proof into leaf and returns the implied root.
func ProcessProof(leaf common.Hash, proof []common.Hash) common.Hash {
	computed := leaf
	for _, sibling := range proof {
		computed = HashPair(computed, sibling)
	}
	return computed
}

// Verify reports whether proof shows leaf is part of the tree with the given root.
func Verify(root, leaf common.Hash, proof []common.Hash) bool {
	return ProcessProof(leaf, proof) == root
}

// VerifyAddress reports whether addr is on the allowlist with the given root.
func VerifyAddress(root common.Hash, addr common.Address, proof []common.Hash) bool {
	return Verify(root, Leaf(addr), proof)
}

func keccak(data ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}
