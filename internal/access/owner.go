// Package access implements the single-owner operator capability.
package access

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNotOperator is returned when a caller other than the owner invokes an operator-only action.
var ErrNotOperator = errors.New("caller is not the operator")

// Owner holds the one address allowed to operate the collection.
type Owner struct {
	owner common.Address
}

// NewOwner creates an Owner held by addr.
func NewOwner(addr common.Address) *Owner {
	return &Owner{owner: addr}
}

// Owner returns the current operator address.
func (o *Owner) Owner() common.Address { return o.owner }

// Check fails with ErrNotOperator unless caller is the owner.
func (o *Owner) Check(caller common.Address) error {
	if caller != o.owner {
		return ErrNotOperator
	}
	return nil
}

// Transfer hands the capability to next. The zero address is refused; use Renounce for that.
func (o *Owner) Transfer(caller, next common.Address) error {
	if err := o.Check(caller); err != nil {
		return err
	}
	if next == (common.Address{}) {
		return errors.New("new owner is the zero address")
	}
	o.owner = next
	return nil
}

// Renounce leaves the collection without an operator. Operator-only actions become unreachable.
func (o *Owner) Renounce(caller common.Address) error {
	if err := o.Check(caller); err != nil {
		return err
	}
	o.owner = common.Address{}
	return nil
}
