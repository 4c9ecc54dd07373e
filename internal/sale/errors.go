package sale

import (
	"errors"

	"github.com/Mohsinsiddi/mintgate/internal/access"
	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/Mohsinsiddi/mintgate/internal/ledger"
	"github.com/Mohsinsiddi/mintgate/internal/permit"
	"github.com/Mohsinsiddi/mintgate/internal/royalty"
	"github.com/Mohsinsiddi/mintgate/internal/supply"
)

// Errors raised by the collection itself.
var (
	ErrChannelInactive     = errors.New("channel inactive")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrInvalidProof        = errors.New("invalid allowlist proof")
	ErrNonPayable          = errors.New("entrypoint does not accept value")
	ErrReentrantCall       = errors.New("reentrant call")
	ErrInvalidConfig       = errors.New("invalid collection config")
)

// Errors raised by the components a collection is built from, re-exported so callers can match
// every failure kind through this package.
var (
	ErrZeroQuantity          = ledger.ErrZeroQuantity
	ErrNonexistentToken      = ledger.ErrNonexistentToken
	ErrZeroAddress           = ledger.ErrZeroAddress
	ErrNotOwner              = ledger.ErrNotOwner
	ErrGlobalSupplyExceeded  = supply.ErrSupplyExceeded
	ErrChannelSupplyExceeded = supply.ErrChannelSupplyExceeded
	ErrQuotaExceeded         = supply.ErrQuotaExceeded
	ErrInvalidCap            = supply.ErrInvalidCap
	ErrInvalidQuota          = supply.ErrInvalidQuota
	ErrUnknownChannel        = supply.ErrUnknownChannel
	ErrPermitExpired         = permit.ErrPermitExpired
	ErrInvalidSignature      = permit.ErrInvalidSignature
	ErrSelfApproval          = permit.ErrSelfApproval
	ErrUnauthorized          = permit.ErrUnauthorized
	ErrInvalidRoyalty        = royalty.ErrInvalidRoyalty
	ErrValueTransferFailed   = chain.ErrValueTransferFailed
	ErrNotOperator           = access.ErrNotOperator
)
