// Package executor forwards arbitrary calls with value from the collection's own account.
// It is the fund-recovery path: whatever the callee returns on failure is handed back verbatim.
package executor

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/chain"
)

// Executor sends calls on behalf of one account.
type Executor struct {
	backend chain.Backend
	self    common.Address
	logger  log.Logger
}

// New returns an Executor that calls out from self.
func New(backend chain.Backend, self common.Address, logger log.Logger) *Executor {
	if logger == nil {
		logger = log.Root()
	}
	return &Executor{backend: backend, self: self, logger: logger}
}

// Exec forwards value and payload to target. On failure the error is a *chain.CallError whose
// Reason holds the callee's raw revert payload.
func (e *Executor) Exec(target common.Address, payload []byte, value *uint256.Int) ([]byte, error) {
	if value == nil {
		value = new(uint256.Int)
	}
	res := e.backend.Call(e.self, target, payload, value)
	if !res.Success {
		err := chain.NewCallError(target, value, res)
		e.logger.Warn("Forwarded call failed", "target", target, "value", value, "err", err)
		return nil, err
	}
	e.logger.Debug("Forwarded call", "target", target, "value", value, "payload", len(payload))
	return res.ReturnData, nil
}
