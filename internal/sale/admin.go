package sale

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/Mohsinsiddi/mintgate/internal/royalty"
	"github.com/Mohsinsiddi/mintgate/internal/supply"
)

// SetPrice sets the unit price of a paid channel (public or presale).
func (c *Collection) SetPrice(msg chain.Msg, ch supply.Channel, price *uint256.Int) error {
	return c.operate(msg, "set price", func() error {
		if !payable(ch) {
			return fmt.Errorf("%w: %s is not a paid channel", ErrUnknownChannel, ch)
		}
		settings, err := c.cfg.channel(ch)
		if err != nil {
			return err
		}
		settings.Price = new(uint256.Int).Set(price)
		return nil
	})
}

// SetActive opens or closes a sale channel.
func (c *Collection) SetActive(msg chain.Msg, ch supply.Channel, active bool) error {
	return c.operate(msg, "set active", func() error {
		settings, err := c.cfg.channel(ch)
		if err != nil {
			return err
		}
		settings.Active = active
		return nil
	})
}

// SetRoot publishes the allowlist root of a gated channel.
func (c *Collection) SetRoot(msg chain.Msg, ch supply.Channel, root common.Hash) error {
	return c.operate(msg, "set root", func() error {
		if !ch.Gated() {
			return fmt.Errorf("%w: %s has no allowlist", ErrUnknownChannel, ch)
		}
		settings, err := c.cfg.channel(ch)
		if err != nil {
			return err
		}
		settings.Root = root
		return nil
	})
}

// SetMaxPerAddress sets a channel's per-address quota; zero means unlimited.
func (c *Collection) SetMaxPerAddress(msg chain.Msg, ch supply.Channel, limit uint64) error {
	return c.operate(msg, "set max per address", func() error {
		return c.supply.SetMaxPerAddress(ch, limit)
	})
}

// SetChannelCap sets a gated channel's sub-cap.
func (c *Collection) SetChannelCap(msg chain.Msg, ch supply.Channel, limit uint64) error {
	return c.operate(msg, "set channel cap", func() error {
		return c.supply.SetChannelCap(ch, limit)
	})
}

// SetBaseURI sets the revealed metadata location and the suffix appended after the token ID.
func (c *Collection) SetBaseURI(msg chain.Msg, base, suffix string) error {
	return c.operate(msg, "set base uri", func() error {
		c.cfg.BaseURI, c.cfg.URISuffix = base, suffix
		return nil
	})
}

// SetPreRevealURI sets the placeholder returned for unrevealed tokens.
func (c *Collection) SetPreRevealURI(msg chain.Msg, uri string) error {
	return c.operate(msg, "set pre-reveal uri", func() error {
		c.cfg.PreRevealURI = uri
		return nil
	})
}

// SetRevealThreshold reveals every token with an ID at or below threshold.
func (c *Collection) SetRevealThreshold(msg chain.Msg, threshold uint64) error {
	return c.operate(msg, "set reveal threshold", func() error {
		c.cfg.RevealThreshold = threshold
		return nil
	})
}

// SetBeneficiary changes where forward-mode payments go.
func (c *Collection) SetBeneficiary(msg chain.Msg, beneficiary common.Address) error {
	return c.operate(msg, "set beneficiary", func() error {
		if c.cfg.Payment == PaymentForward && beneficiary == (common.Address{}) {
			return fmt.Errorf("%w: forward payment needs a beneficiary", ErrInvalidConfig)
		}
		c.cfg.Beneficiary = beneficiary
		return nil
	})
}

// SetRoyaltyOnMint toggles the royalty push on refund-mode mints.
func (c *Collection) SetRoyaltyOnMint(msg chain.Msg, enabled bool) error {
	return c.operate(msg, "set royalty on mint", func() error {
		if enabled && c.cfg.Payment != PaymentRefund {
			return fmt.Errorf("%w: royalty on mint only applies to refund payment", ErrInvalidConfig)
		}
		c.cfg.RoyaltyOnMint = enabled
		return nil
	})
}

// SetDefaultRoyalty sets the royalty used by tokens without an override.
func (c *Collection) SetDefaultRoyalty(msg chain.Msg, rate royalty.Rate) error {
	return c.operate(msg, "set default royalty", func() error {
		return c.royalties.SetDefault(rate)
	})
}

// DeleteDefaultRoyalty removes the default royalty.
func (c *Collection) DeleteDefaultRoyalty(msg chain.Msg) error {
	return c.operate(msg, "delete default royalty", func() error {
		c.royalties.DeleteDefault()
		return nil
	})
}

// SetTokenRoyalty overrides the royalty of one token.
func (c *Collection) SetTokenRoyalty(msg chain.Msg, tokenID uint64, rate royalty.Rate) error {
	return c.operate(msg, "set token royalty", func() error {
		return c.royalties.SetToken(tokenID, rate)
	})
}

// ResetTokenRoyalty drops a token's override.
func (c *Collection) ResetTokenRoyalty(msg chain.Msg, tokenID uint64) error {
	return c.operate(msg, "reset token royalty", func() error {
		c.royalties.ResetToken(tokenID)
		return nil
	})
}

// TransferOwnership hands the operator capability to next.
func (c *Collection) TransferOwnership(msg chain.Msg, next common.Address) error {
	return c.operate(msg, "transfer ownership", func() error {
		return c.owner.Transfer(msg.From, next)
	})
}

// RenounceOwnership leaves the collection without an operator.
func (c *Collection) RenounceOwnership(msg chain.Msg) error {
	return c.operate(msg, "renounce ownership", func() error {
		return c.owner.Renounce(msg.From)
	})
}

// ExecTransaction forwards value and payload from the collection's account to target. On
// failure the returned *chain.CallError carries the target's raw revert data.
func (c *Collection) ExecTransaction(msg chain.Msg, target common.Address, payload []byte, value *uint256.Int) ([]byte, error) {
	var ret []byte
	err := c.call(msg, false, func(*txn) error {
		if err := c.owner.Check(msg.From); err != nil {
			return err
		}
		var err error
		ret, err = c.exec.Exec(target, payload, value)
		return err
	})
	return ret, err
}
