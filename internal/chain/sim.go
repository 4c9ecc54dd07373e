package chain

import (
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Handler is the code behind a simulated contract account. It runs synchronously inside
// Transfer and Call and may call back into whatever invoked it.
type Handler func(from common.Address, value *uint256.Int, payload []byte) ([]byte, error)

// SignatureValidator is the ERC-1271 logic of a simulated contract account.
type SignatureValidator func(hash common.Hash, sig []byte) bool

// RevertError lets a Handler fail with an exact revert payload.
type RevertError struct {
	Data []byte
}

func (e *RevertError) Error() string { return "execution reverted" }

var revertSelector = crypto.Keccak256([]byte("Error(string)"))[:4]

// Sim is an in-memory Backend: balances, a settable chain id and clock, and contract
// accounts backed by Go handlers. It is not safe for concurrent use.
type Sim struct {
	chainID    *big.Int
	now        time.Time
	balances   map[common.Address]*uint256.Int
	handlers   map[common.Address]Handler
	validators map[common.Address]SignatureValidator
	journal    []func()
	marks      []int
}

// NewSim creates a simulator on the given chain id with the clock at now.
func NewSim(chainID *big.Int, now time.Time) *Sim {
	return &Sim{
		chainID:    new(big.Int).Set(chainID),
		now:        now,
		balances:   make(map[common.Address]*uint256.Int),
		handlers:   make(map[common.Address]Handler),
		validators: make(map[common.Address]SignatureValidator),
	}
}

func (s *Sim) ChainID() *big.Int { return new(big.Int).Set(s.chainID) }

// SetChainID simulates a fork onto a different chain id.
func (s *Sim) SetChainID(id *big.Int) { s.chainID = new(big.Int).Set(id) }

func (s *Sim) Now() time.Time { return s.now }

// SetTime moves the clock to t.
func (s *Sim) SetTime(t time.Time) { s.now = t }

// Advance moves the clock forward by d.
func (s *Sim) Advance(d time.Duration) { s.now = s.now.Add(d) }

// Balance returns a copy of addr's balance.
func (s *Sim) Balance(addr common.Address) *uint256.Int {
	if b, ok := s.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return new(uint256.Int)
}

// Fund credits amount to addr outside of any call.
func (s *Sim) Fund(addr common.Address, amount *uint256.Int) {
	s.setBalance(addr, new(uint256.Int).Add(s.Balance(addr), amount))
}

// Deploy installs a handler as the code of addr. A nil handler turns addr back into a plain account.
func (s *Sim) Deploy(addr common.Address, h Handler) {
	if h == nil {
		delete(s.handlers, addr)
		return
	}
	s.handlers[addr] = h
}

// SetSignatureValidator makes addr answer ERC-1271 queries with v.
func (s *Sim) SetSignatureValidator(addr common.Address, v SignatureValidator) {
	if v == nil {
		delete(s.validators, addr)
		return
	}
	s.validators[addr] = v
}

func (s *Sim) IsValidSignature(account common.Address, hash common.Hash, sig []byte) bool {
	v, ok := s.validators[account]
	if !ok {
		return false
	}
	return v(hash, sig)
}

// Transfer moves amount from one account to another and runs the receiver's code, if any.
func (s *Sim) Transfer(from, to common.Address, amount *uint256.Int) Result {
	return s.Call(from, to, nil, amount)
}

// Call moves value to `to` and runs its handler with payload. Calls to accounts without code
// succeed with empty return data. Any failure undoes the value movement.
func (s *Sim) Call(from, to common.Address, payload []byte, value *uint256.Int) Result {
	if value == nil {
		value = new(uint256.Int)
	}
	snap := s.Snapshot()

	if !value.IsZero() {
		bal := s.Balance(from)
		if bal.Lt(value) {
			s.Commit(snap)
			return Result{ReturnData: EncodeRevert("insufficient balance")}
		}
		s.setBalance(from, new(uint256.Int).Sub(bal, value))
		s.setBalance(to, new(uint256.Int).Add(s.Balance(to), value))
	}

	h, ok := s.handlers[to]
	if !ok {
		s.Commit(snap)
		return Result{Success: true}
	}
	ret, err := h(from, new(uint256.Int).Set(value), payload)
	if err != nil {
		s.RevertToSnapshot(snap)
		var revert *RevertError
		if errors.As(err, &revert) {
			return Result{ReturnData: common.CopyBytes(revert.Data)}
		}
		return Result{ReturnData: EncodeRevert(err.Error())}
	}
	s.Commit(snap)
	return Result{Success: true, ReturnData: ret}
}

// Snapshot opens a revert point. Every snapshot must be closed by RevertToSnapshot or Commit,
// innermost first.
func (s *Sim) Snapshot() int {
	id := len(s.journal)
	s.marks = append(s.marks, id)
	return id
}

func (s *Sim) RevertToSnapshot(id int) {
	for i := len(s.journal) - 1; i >= id; i-- {
		s.journal[i]()
	}
	s.journal = s.journal[:id]
	s.close(id)
}

// Commit closes snapshot id and keeps its writes. The journal is dropped once no snapshot is open.
func (s *Sim) Commit(id int) {
	s.close(id)
	if len(s.marks) == 0 {
		s.journal = nil
	}
}

func (s *Sim) close(id int) {
	for len(s.marks) > 0 && s.marks[len(s.marks)-1] > id {
		s.marks = s.marks[:len(s.marks)-1]
	}
	if n := len(s.marks); n > 0 && s.marks[n-1] == id {
		s.marks = s.marks[:n-1]
	}
}

// JournalLen reports how many undo entries are held for open snapshots.
func (s *Sim) JournalLen() int { return len(s.journal) }

func (s *Sim) record(undo func()) {
	if len(s.marks) > 0 {
		s.journal = append(s.journal, undo)
	}
}

func (s *Sim) setBalance(addr common.Address, v *uint256.Int) {
	prev, had := s.balances[addr]
	s.record(func() {
		if had {
			s.balances[addr] = prev
		} else {
			delete(s.balances, addr)
		}
	})
	s.balances[addr] = v
}

// EncodeRevert encodes reason the way Solidity's revert("reason") does: Error(string).
func EncodeRevert(reason string) []byte {
	stringTy, _ := abi.NewType("string", "", nil)
	packed, err := abi.Arguments{{Type: stringTy}}.Pack(reason)
	if err != nil {
		return nil
	}
	return append(common.CopyBytes(revertSelector), packed...)
}
