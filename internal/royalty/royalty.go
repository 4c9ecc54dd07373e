// Package royalty computes ERC-2981 style royalty amounts from a default rate and optional
// per-token overrides.
package royalty

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// FeeDenominator is the fixed scale royalty numerators are expressed against.
const FeeDenominator = 100_000

// Errors.
var (
	ErrInvalidRoyalty = errors.New("invalid royalty")
	ErrOverflow       = errors.New("royalty computation overflows")
)

// Rate is a receiver and a numerator over FeeDenominator.
type Rate struct {
	Receiver  common.Address `json:"receiver"`
	Numerator uint64         `json:"numerator"`
}

// Validate checks the numerator is within scale and the receiver is set.
func (r Rate) Validate() error {
	if r.Numerator > FeeDenominator {
		return fmt.Errorf("%w: numerator %d exceeds %d", ErrInvalidRoyalty, r.Numerator, FeeDenominator)
	}
	if r.Receiver == (common.Address{}) {
		return fmt.Errorf("%w: zero receiver", ErrInvalidRoyalty)
	}
	return nil
}

// Policy stores the default rate and per-token overrides.
type Policy struct {
	def       Rate
	hasDef    bool
	overrides map[uint64]Rate
}

// NewPolicy returns a policy with no default and no overrides.
func NewPolicy() *Policy {
	return &Policy{overrides: make(map[uint64]Rate)}
}

// SetDefault sets the rate used for tokens without an override.
func (p *Policy) SetDefault(r Rate) error {
	if err := r.Validate(); err != nil {
		return err
	}
	p.def, p.hasDef = r, true
	return nil
}

// DeleteDefault removes the default rate; tokens without an override then pay nothing.
func (p *Policy) DeleteDefault() {
	p.def, p.hasDef = Rate{}, false
}

// SetToken overrides the rate for one token.
func (p *Policy) SetToken(tokenID uint64, r Rate) error {
	if err := r.Validate(); err != nil {
		return err
	}
	p.overrides[tokenID] = r
	return nil
}

// ResetToken drops a token's override so it falls back to the default.
func (p *Policy) ResetToken(tokenID uint64) {
	delete(p.overrides, tokenID)
}

// RateFor returns the rate that applies to tokenID.
func (p *Policy) RateFor(tokenID uint64) Rate {
	if r, ok := p.overrides[tokenID]; ok {
		return r
	}
	if p.hasDef {
		return p.def
	}
	return Rate{}
}

// Default returns the default rate and whether one is set.
func (p *Policy) Default() (Rate, bool) { return p.def, p.hasDef }

// Info returns the royalty receiver and amount for selling tokenID at salePrice.
// The amount is salePrice * numerator / FeeDenominator, rounded down.
func (p *Policy) Info(tokenID uint64, salePrice *uint256.Int) (common.Address, *uint256.Int, error) {
	r := p.RateFor(tokenID)
	amount, err := Amount(salePrice, r.Numerator)
	if err != nil {
		return common.Address{}, nil, err
	}
	return r.Receiver, amount, nil
}

// Amount computes price * numerator / FeeDenominator with floor division.
func Amount(price *uint256.Int, numerator uint64) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(price, uint256.NewInt(numerator))
	if overflow {
		return nil, ErrOverflow
	}
	return product.Div(product, uint256.NewInt(FeeDenominator)), nil
}
