package sale

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/allowlist"
	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/Mohsinsiddi/mintgate/internal/supply"
)

// Mint issues qty tokens to `to` through the public channel. Payable.
// It returns the first new token ID; the rest follow sequentially.
func (c *Collection) Mint(msg chain.Msg, to common.Address, qty uint64) (uint64, error) {
	return c.issue(msg, supply.Public, to, qty, nil)
}

// PresaleMint issues through the allowlisted presale channel. The proof is for msg.From,
// not for the recipient. Payable.
func (c *Collection) PresaleMint(msg chain.Msg, to common.Address, qty uint64, proof []common.Hash) (uint64, error) {
	return c.issue(msg, supply.Presale, to, qty, proof)
}

// FreeMint issues through the allowlisted free channel. Not payable.
func (c *Collection) FreeMint(msg chain.Msg, to common.Address, qty uint64, proof []common.Hash) (uint64, error) {
	return c.issue(msg, supply.Free, to, qty, proof)
}

// ReserveMint lets the operator issue outside of the sale channels. Only the global ceiling
// applies. Not payable.
func (c *Collection) ReserveMint(msg chain.Msg, to common.Address, qty uint64) (uint64, error) {
	return c.issue(msg, supply.Reserve, to, qty, nil)
}

func payable(ch supply.Channel) bool {
	return ch == supply.Public || ch == supply.Presale
}

func (c *Collection) issue(msg chain.Msg, ch supply.Channel, to common.Address, qty uint64, proof []common.Hash) (uint64, error) {
	var first uint64
	err := c.call(msg, payable(ch), func(tx *txn) error {
		price, err := c.checkIssue(msg, ch, qty, proof)
		if err != nil {
			return err
		}

		if err := c.supply.Reserve(ch, qty, msg.From); err != nil {
			return err
		}
		tx.onRollback(func() { c.supply.Release(ch, qty, msg.From) })

		cost := new(uint256.Int).Mul(price, uint256.NewInt(qty))
		if err := c.refund(msg, cost); err != nil {
			return err
		}
		if first, err = c.ledger.SafeCreate(to, qty); err != nil {
			return err
		}
		return c.distribute(msg, price, first, qty)
	})
	if err != nil {
		c.logger.Debug("Mint rejected", "channel", ch, "from", msg.From, "to", to, "qty", qty, "err", err)
		return 0, err
	}
	c.logger.Info("Minted", "channel", ch, "from", msg.From, "to", to, "qty", qty, "first", first)
	return first, nil
}

// checkIssue runs every issuance check in order without touching state and returns the unit price.
func (c *Collection) checkIssue(msg chain.Msg, ch supply.Channel, qty uint64, proof []common.Hash) (*uint256.Int, error) {
	if ch == supply.Reserve {
		if err := c.owner.Check(msg.From); err != nil {
			return nil, err
		}
	}
	if qty == 0 {
		return nil, ErrZeroQuantity
	}
	price := new(uint256.Int)

	if ch != supply.Reserve {
		settings, err := c.cfg.channel(ch)
		if err != nil {
			return nil, err
		}
		if !settings.Active {
			return nil, fmt.Errorf("%w: %s", ErrChannelInactive, ch)
		}
		if payable(ch) {
			price.Set(settings.price())
			cost, overflow := new(uint256.Int).MulOverflow(price, uint256.NewInt(qty))
			if overflow || msg.Paid().Lt(cost) {
				return nil, fmt.Errorf("%w: %d x %s required, %s sent", ErrInsufficientPayment, qty, price.Dec(), msg.Paid().Dec())
			}
		}
	}

	if err := c.supply.CheckCapacity(ch, qty); err != nil {
		return nil, err
	}
	if ch.Gated() {
		settings, _ := c.cfg.channel(ch)
		if !allowlist.VerifyAddress(settings.Root, msg.From, proof) {
			return nil, fmt.Errorf("%w: %s on %s", ErrInvalidProof, msg.From.Hex(), ch)
		}
	}
	if err := c.supply.CheckQuota(ch, qty, msg.From); err != nil {
		return nil, err
	}
	return price, nil
}
