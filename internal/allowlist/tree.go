package allowlist

import (
	"bytes"
	"errors"
	"slices"

	"github.com/ethereum/go-ethereum/common"
)

// Errors.
var (
	ErrEmptyTree = errors.New("allowlist is empty")
	ErrNotInTree = errors.New("address is not on the allowlist")
)

// Tree is a sorted-pair Merkle tree over a set of addresses. Leaves are sorted and
// deduplicated; an unpaired node at the end of a layer is carried up unchanged.
type Tree struct {
	layers [][]common.Hash
	index  map[common.Hash]int
}

// NewTree builds the tree for addrs.
func NewTree(addrs []common.Address) (*Tree, error) {
	if len(addrs) == 0 {
		return nil, ErrEmptyTree
	}
	leaves := make([]common.Hash, 0, len(addrs))
	for _, a := range addrs {
		leaves = append(leaves, Leaf(a))
	}
	slices.SortFunc(leaves, func(a, b common.Hash) int { return bytes.Compare(a[:], b[:]) })
	leaves = slices.Compact(leaves)

	t := &Tree{
		layers: [][]common.Hash{leaves},
		index:  make(map[common.Hash]int, len(leaves)),
	}
	for i, l := range leaves {
		t.index[l] = i
	}
	for layer := leaves; len(layer) > 1; {
		next := make([]common.Hash, 0, (len(layer)+1)/2)
		for i := 0; i < len(layer); i += 2 {
			if i+1 == len(layer) {
				next = append(next, layer[i])
				continue
			}
			next = append(next, HashPair(layer[i], layer[i+1]))
		}
		t.layers = append(t.layers, next)
		layer = next
	}
	return t, nil
}

// Root returns the root to publish.
func (t *Tree) Root() common.Hash {
	return t.layers[len(t.layers)-1][0]
}

// Len returns the number of distinct leaves.
func (t *Tree) Len() int { return len(t.layers[0]) }

// Proof returns the sibling path for addr.
func (t *Tree) Proof(addr common.Address) ([]common.Hash, error) {
	idx, ok := t.index[Leaf(addr)]
	if !ok {
		return nil, ErrNotInTree
	}
	proof := []common.Hash{}
	for _, layer := range t.layers[:len(t.layers)-1] {
		sibling := idx ^ 1
		if sibling < len(layer) {
			proof = append(proof, layer[sibling])
		}
		idx /= 2
	}
	return proof, nil
}
