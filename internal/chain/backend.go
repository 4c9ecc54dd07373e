package chain

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ErrValueTransferFailed is matched by every CallError.
var ErrValueTransferFailed = errors.New("value transfer failed")

// Msg is the caller context of an entrypoint: who is calling and how much value is attached.
type Msg struct {
	From  common.Address
	Value *uint256.Int
}

// Paid returns the attached value, treating nil as zero.
func (m Msg) Paid() *uint256.Int {
	if m.Value == nil {
		return new(uint256.Int)
	}
	return m.Value
}

// Result is the outcome of an outbound call or value transfer. ReturnData carries the callee's
// raw revert payload when Success is false.
type Result struct {
	Success    bool
	ReturnData []byte
}

// Backend is the execution environment the issuance core runs inside.
type Backend interface {
	ChainID() *big.Int
	Now() time.Time

	Balance(addr common.Address) *uint256.Int
	Transfer(from, to common.Address, amount *uint256.Int) Result
	Call(from, to common.Address, payload []byte, value *uint256.Int) Result

	// IsValidSignature asks a contract account whether sig is valid for hash (ERC-1271).
	// Plain key-pair accounts always answer false.
	IsValidSignature(account common.Address, hash common.Hash, sig []byte) bool

	Snapshot() int
	RevertToSnapshot(id int)
	// Commit closes snapshot id without undoing its writes.
	Commit(id int)
}

// CallError reports a failed outbound call with the callee's raw failure payload.
type CallError struct {
	To     common.Address
	Value  *uint256.Int
	Reason []byte
}

// NewCallError builds a CallError from a failed Result.
func NewCallError(to common.Address, value *uint256.Int, res Result) *CallError {
	return &CallError{To: to, Value: value, Reason: common.CopyBytes(res.ReturnData)}
}

func (e *CallError) Error() string {
	if reason, err := abi.UnpackRevert(e.Reason); err == nil {
		return fmt.Sprintf("call to %s failed: %s", e.To.Hex(), reason)
	}
	if len(e.Reason) == 0 {
		return fmt.Sprintf("call to %s failed", e.To.Hex())
	}
	return fmt.Sprintf("call to %s failed: 0x%x", e.To.Hex(), e.Reason)
}

func (e *CallError) Is(target error) bool { return target == ErrValueTransferFailed }
