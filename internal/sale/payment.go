package sale

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/chain"
)

// refund returns whatever was attached beyond cost. Only refund mode does this.
func (c *Collection) refund(msg chain.Msg, cost *uint256.Int) error {
	if c.cfg.Payment != PaymentRefund {
		return nil
	}
	paid := msg.Paid()
	if !paid.Gt(cost) {
		return nil
	}
	return c.pay(msg.From, new(uint256.Int).Sub(paid, cost))
}

// distribute runs after the tokens exist. Forward mode hands the whole attached value to the
// beneficiary. Refund mode with royalty-on-mint pushes each unit's royalty to its receiver,
// one transfer per receiver.
func (c *Collection) distribute(msg chain.Msg, price *uint256.Int, first, qty uint64) error {
	switch c.cfg.Payment {
	case PaymentForward:
		return c.pay(c.cfg.Beneficiary, msg.Paid())
	case PaymentRefund:
		if !c.cfg.RoyaltyOnMint || price.IsZero() {
			return nil
		}
		var order []common.Address
		owed := make(map[common.Address]*uint256.Int)
		for id := first; id < first+qty; id++ {
			receiver, amount, err := c.royalties.Info(id, price)
			if err != nil {
				return err
			}
			if amount.IsZero() {
				continue
			}
			if sum, ok := owed[receiver]; ok {
				sum.Add(sum, amount)
				continue
			}
			order = append(order, receiver)
			owed[receiver] = amount
		}
		for _, receiver := range order {
			if err := c.pay(receiver, owed[receiver]); err != nil {
				return err
			}
		}
	}
	return nil
}

// pay sends amount out of the collection's account.
func (c *Collection) pay(to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if res := c.backend.Transfer(c.self, to, amount); !res.Success {
		err := chain.NewCallError(to, amount, res)
		c.logger.Warn("Payout failed", "to", to, "amount", amount, "err", err)
		return err
	}
	return nil
}
