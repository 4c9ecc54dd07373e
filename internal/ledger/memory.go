package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type operatorKey struct {
	owner, operator common.Address
}

// Memory is a journaled in-memory Ledger. It is not safe for concurrent use.
type Memory struct {
	owners    map[uint64]common.Address
	balances  map[common.Address]uint64
	approvals map[uint64]common.Address
	operators map[operatorKey]bool
	nextID    uint64
	journal   []func()
	marks     []int
}

// NewMemory returns an empty ledger whose first token will be ID 1.
func NewMemory() *Memory {
	return &Memory{
		owners:    make(map[uint64]common.Address),
		balances:  make(map[common.Address]uint64),
		approvals: make(map[uint64]common.Address),
		operators: make(map[operatorKey]bool),
		nextID:    1,
	}
}

func (m *Memory) OwnerOf(tokenID uint64) (common.Address, error) {
	owner, ok := m.owners[tokenID]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %d", ErrNonexistentToken, tokenID)
	}
	return owner, nil
}

func (m *Memory) BalanceOf(owner common.Address) (uint64, error) {
	if owner == (common.Address{}) {
		return 0, ErrZeroAddress
	}
	return m.balances[owner], nil
}

func (m *Memory) TotalSupply() uint64 { return m.nextID - 1 }

func (m *Memory) Exists(tokenID uint64) bool {
	_, ok := m.owners[tokenID]
	return ok
}

func (m *Memory) SafeCreate(to common.Address, quantity uint64) (uint64, error) {
	if to == (common.Address{}) {
		return 0, ErrZeroAddress
	}
	if quantity == 0 {
		return 0, ErrZeroQuantity
	}
	first := m.nextID
	prevNext := m.nextID
	m.record(func() { m.nextID = prevNext })
	for id := first; id < first+quantity; id++ {
		m.setOwner(id, to)
	}
	m.addBalance(to, quantity)
	m.nextID = first + quantity
	return first, nil
}

func (m *Memory) Transfer(from, to common.Address, tokenID uint64) error {
	owner, err := m.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	if owner != from {
		return ErrNotOwner
	}
	if to == (common.Address{}) {
		return ErrZeroAddress
	}
	m.setApproval(tokenID, common.Address{})
	m.subBalance(from, 1)
	m.addBalance(to, 1)
	m.setOwner(tokenID, to)
	return nil
}

func (m *Memory) Approve(spender common.Address, tokenID uint64) error {
	if !m.Exists(tokenID) {
		return fmt.Errorf("%w: %d", ErrNonexistentToken, tokenID)
	}
	m.setApproval(tokenID, spender)
	return nil
}

func (m *Memory) GetApproved(tokenID uint64) (common.Address, error) {
	if !m.Exists(tokenID) {
		return common.Address{}, fmt.Errorf("%w: %d", ErrNonexistentToken, tokenID)
	}
	return m.approvals[tokenID], nil
}

func (m *Memory) SetApprovalForAll(owner, operator common.Address, approved bool) {
	key := operatorKey{owner, operator}
	prev := m.operators[key]
	m.record(func() { m.operators[key] = prev })
	m.operators[key] = approved
}

func (m *Memory) IsApprovedForAll(owner, operator common.Address) bool {
	return m.operators[operatorKey{owner, operator}]
}

// Snapshot opens a revert point. Snapshots nest and must be closed innermost first.
func (m *Memory) Snapshot() int {
	id := len(m.journal)
	m.marks = append(m.marks, id)
	return id
}

func (m *Memory) RevertToSnapshot(id int) {
	for i := len(m.journal) - 1; i >= id; i-- {
		m.journal[i]()
	}
	m.journal = m.journal[:id]
	m.close(id)
}

func (m *Memory) Commit(id int) {
	m.close(id)
	if len(m.marks) == 0 {
		m.journal = nil
	}
}

func (m *Memory) close(id int) {
	for len(m.marks) > 0 && m.marks[len(m.marks)-1] > id {
		m.marks = m.marks[:len(m.marks)-1]
	}
	if n := len(m.marks); n > 0 && m.marks[n-1] == id {
		m.marks = m.marks[:n-1]
	}
}

// JournalLen reports how many undo entries are held for open snapshots.
func (m *Memory) JournalLen() int { return len(m.journal) }

// --- journaled writes ---

// record keeps undo only while a snapshot is open.
func (m *Memory) record(undo func()) {
	if len(m.marks) > 0 {
		m.journal = append(m.journal, undo)
	}
}

func (m *Memory) setOwner(tokenID uint64, owner common.Address) {
	prev, had := m.owners[tokenID]
	m.record(func() {
		if had {
			m.owners[tokenID] = prev
		} else {
			delete(m.owners, tokenID)
		}
	})
	m.owners[tokenID] = owner
}

func (m *Memory) setApproval(tokenID uint64, spender common.Address) {
	prev := m.approvals[tokenID]
	m.record(func() { m.approvals[tokenID] = prev })
	m.approvals[tokenID] = spender
}

func (m *Memory) addBalance(owner common.Address, n uint64) {
	prev := m.balances[owner]
	m.record(func() { m.balances[owner] = prev })
	m.balances[owner] = prev + n
}

func (m *Memory) subBalance(owner common.Address, n uint64) {
	prev := m.balances[owner]
	m.record(func() { m.balances[owner] = prev })
	m.balances[owner] = prev - n
}
