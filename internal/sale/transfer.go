package sale

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/chain"
)

// TransferFrom moves tokenID from `from` to `to`. msg.From must be the owner, the token's
// approved spender, or an operator of the owner.
func (c *Collection) TransferFrom(msg chain.Msg, from, to common.Address, tokenID uint64) error {
	return c.call(msg, false, func(*txn) error {
		return c.transfer(msg.From, from, to, tokenID)
	})
}

// Approve sets the single-token approval. msg.From must be the owner or one of its operators.
func (c *Collection) Approve(msg chain.Msg, spender common.Address, tokenID uint64) error {
	return c.call(msg, false, func(*txn) error {
		owner, err := c.ledger.OwnerOf(tokenID)
		if err != nil {
			return err
		}
		if spender == owner {
			return ErrSelfApproval
		}
		if msg.From != owner && !c.ledger.IsApprovedForAll(owner, msg.From) {
			return fmt.Errorf("%w: %s cannot approve token %d", ErrUnauthorized, msg.From.Hex(), tokenID)
		}
		return c.ledger.Approve(spender, tokenID)
	})
}

// SetApprovalForAll lets operator move every token msg.From owns.
func (c *Collection) SetApprovalForAll(msg chain.Msg, operator common.Address, approved bool) error {
	return c.call(msg, false, func(*txn) error {
		if operator == msg.From {
			return ErrSelfApproval
		}
		c.ledger.SetApprovalForAll(msg.From, operator, approved)
		return nil
	})
}

// Permit approves spender for tokenID on the strength of the owner's signature. Anyone may
// submit it. The token's nonce does not move, so the same signature can be submitted again
// until the token is next transferred.
func (c *Collection) Permit(msg chain.Msg, spender common.Address, tokenID uint64, deadline *uint256.Int, sig []byte) error {
	return c.call(msg, false, func(*txn) error {
		return c.permit(spender, tokenID, deadline, sig)
	})
}

// TransferWithPermit is Permit for msg.From followed by TransferFrom.
func (c *Collection) TransferWithPermit(msg chain.Msg, from, to common.Address, tokenID uint64, deadline *uint256.Int, sig []byte) error {
	return c.call(msg, false, func(*txn) error {
		if err := c.permit(msg.From, tokenID, deadline, sig); err != nil {
			return err
		}
		return c.transfer(msg.From, from, to, tokenID)
	})
}

func (c *Collection) permit(spender common.Address, tokenID uint64, deadline *uint256.Int, sig []byte) error {
	if deadline == nil {
		deadline = new(uint256.Int)
	}
	if _, err := c.permits.Check(spender, tokenID, deadline, sig); err != nil {
		return err
	}
	if err := c.ledger.Approve(spender, tokenID); err != nil {
		return err
	}
	c.logger.Debug("Permit accepted", "spender", spender, "token", tokenID)
	return nil
}

// transfer authorizes caller and moves the token. The nonce moves last so a failed ledger
// transfer leaves it alone.
func (c *Collection) transfer(caller, from, to common.Address, tokenID uint64) error {
	owner, err := c.ledger.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	if caller != owner && !c.ledger.IsApprovedForAll(owner, caller) {
		approved, err := c.ledger.GetApproved(tokenID)
		if err != nil {
			return err
		}
		if approved != caller {
			return fmt.Errorf("%w: %s is not owner or approved for token %d", ErrUnauthorized, caller.Hex(), tokenID)
		}
	}
	if err := c.ledger.Transfer(from, to, tokenID); err != nil {
		return err
	}
	c.permits.Increment(tokenID)
	c.logger.Debug("Transferred", "token", tokenID, "from", from, "to", to, "nonce", c.permits.Nonce(tokenID))
	return nil
}
