package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/allowlist"
	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/Mohsinsiddi/mintgate/internal/royalty"
	"github.com/Mohsinsiddi/mintgate/internal/sale"
	"github.com/Mohsinsiddi/mintgate/internal/supply"
)

// Validate converts the profile and checks the result the way a collection would.
func (p *Profile) Validate() error {
	opts, err := p.SaleOptions()
	if err != nil {
		return err
	}
	return opts.Validate()
}

// ChainID resolves the profile's network through the chain registry.
func (p *Profile) ChainID() (*big.Int, error) {
	name := p.Network
	if name == "" {
		name = defaultNetwork
	}
	c, err := chain.NewRegistry().GetByName(name)
	if err != nil {
		return nil, err
	}
	mode := "mainnet"
	if p.Testnet {
		mode = "testnet"
	}
	return big.NewInt(c.ID(mode)), nil
}

// SaleOptions builds the collection options the profile describes. Allowlists are hashed into
// roots for channels without an explicit root.
func (p *Profile) SaleOptions() (sale.Options, error) {
	opts := sale.Options{
		Name:          p.Name,
		Symbol:        p.Symbol,
		DomainVersion: p.DomainVersion,
		MaxSupply:     p.MaxSupply,
		Caps:          make(map[supply.Channel]uint64),
		Quotas:        make(map[supply.Channel]uint64),
	}
	var err error
	if opts.Contract, err = address("contract", p.Contract, true); err != nil {
		return opts, err
	}
	if opts.Owner, err = address("owner", p.Owner, true); err != nil {
		return opts, err
	}

	cfg := sale.Config{
		BaseURI:         p.BaseURI,
		URISuffix:       p.URISuffix,
		PreRevealURI:    p.PreRevealURI,
		RevealThreshold: p.RevealThreshold,
		RoyaltyOnMint:   p.RoyaltyOnMint,
	}
	if cfg.Payment, err = sale.ParsePaymentMode(p.Payment); err != nil {
		return opts, err
	}
	if cfg.Beneficiary, err = address("beneficiary", p.Beneficiary, false); err != nil {
		return opts, err
	}

	channels := []struct {
		ch  supply.Channel
		src ChannelProfile
		dst *sale.ChannelConfig
	}{
		{supply.Public, p.Public, &cfg.Public},
		{supply.Presale, p.Presale, &cfg.Presale},
		{supply.Free, p.Free, &cfg.Free},
		{supply.Reserve, p.Reserve, nil},
	}
	for _, c := range channels {
		if c.src.Quota > 0 {
			opts.Quotas[c.ch] = c.src.Quota
		}
		if c.src.Cap > 0 {
			opts.Caps[c.ch] = c.src.Cap
		}
		if c.dst == nil {
			continue
		}
		if *c.dst, err = c.src.channelConfig(c.ch); err != nil {
			return opts, err
		}
	}
	opts.Config = cfg

	if p.DefaultRoyalty != nil {
		receiver, err := address("royalty receiver", p.DefaultRoyalty.Receiver, true)
		if err != nil {
			return opts, err
		}
		opts.DefaultRoyalty = &royalty.Rate{Receiver: receiver, Numerator: p.DefaultRoyalty.Numerator}
	}
	return opts, nil
}

func (c ChannelProfile) channelConfig(ch supply.Channel) (sale.ChannelConfig, error) {
	out := sale.ChannelConfig{Active: c.Active}
	if c.Price != "" {
		price, err := chain.ParseAmount(c.Price)
		if err != nil {
			return out, fmt.Errorf("%w: %s price: %v", sale.ErrInvalidConfig, ch, err)
		}
		out.Price = price
	} else {
		out.Price = new(uint256.Int)
	}

	root, err := c.root(ch)
	if err != nil {
		return out, err
	}
	out.Root = root
	return out, nil
}

// root returns the explicit root, or builds one from the allowlist.
func (c ChannelProfile) root(ch supply.Channel) (common.Hash, error) {
	if c.Root != "" {
		b := common.FromHex(c.Root)
		if len(b) != common.HashLength {
			return common.Hash{}, fmt.Errorf("%w: %s root %q is not 32 bytes", sale.ErrInvalidConfig, ch, c.Root)
		}
		return common.BytesToHash(b), nil
	}
	if len(c.Allowlist) == 0 {
		return common.Hash{}, nil
	}
	addrs, err := ParseAddresses(c.Allowlist)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s allowlist: %w", ch, err)
	}
	tree, err := allowlist.NewTree(addrs)
	if err != nil {
		return common.Hash{}, err
	}
	return tree.Root(), nil
}

// ParseAddresses parses hex addresses, skipping blank entries.
func ParseAddresses(list []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%w: invalid address %q", sale.ErrInvalidConfig, s)
		}
		out = append(out, common.HexToAddress(s))
	}
	return out, nil
}

func address(field, s string, required bool) (common.Address, error) {
	if s == "" {
		if required {
			return common.Address{}, fmt.Errorf("%w: %s is required", sale.ErrInvalidConfig, field)
		}
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %s %q is not an address", sale.ErrInvalidConfig, field, s)
	}
	return common.HexToAddress(s), nil
}
