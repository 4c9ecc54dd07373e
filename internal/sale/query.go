package sale

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/supply"
)

// ERC-165 interface identifiers.
var (
	InterfaceERC165         = [4]byte{0x01, 0xff, 0xc9, 0xa7}
	InterfaceERC721         = [4]byte{0x80, 0xac, 0x58, 0xcd}
	InterfaceERC721Metadata = [4]byte{0x5b, 0x5e, 0x13, 0x9f}
	InterfaceERC2981        = [4]byte{0x2a, 0x55, 0x20, 0x5a}
	InterfaceERC4494        = [4]byte{0x56, 0x04, 0xe2, 0x25}
)

var supported = map[[4]byte]bool{
	InterfaceERC165:         true,
	InterfaceERC721:         true,
	InterfaceERC721Metadata: true,
	InterfaceERC2981:        true,
	InterfaceERC4494:        true,
}

// SupportsInterface answers ERC-165 queries.
func (c *Collection) SupportsInterface(id [4]byte) bool { return supported[id] }

func (c *Collection) Name() string { return c.name }
func (c *Collection) Symbol() string { return c.symbol }
func (c *Collection) Address() common.Address { return c.self }
func (c *Collection) Owner() common.Address { return c.owner.Owner() }
func (c *Collection) DomainSeparator() common.Hash { return c.permits.DomainSeparator() }

// Config returns a copy of the current configuration.
func (c *Collection) Config() Config { return c.cfg.Clone() }

// Balance returns the value held by the collection's account.
func (c *Collection) Balance() *uint256.Int { return c.backend.Balance(c.self) }

// Nonces returns the permit nonce of an existing token.
func (c *Collection) Nonces(tokenID uint64) (uint64, error) {
	if _, err := c.ledger.OwnerOf(tokenID); err != nil {
		return 0, err
	}
	return c.permits.Nonce(tokenID), nil
}

// PermitDigest returns the hash the owner of tokenID signs to approve spender until deadline.
func (c *Collection) PermitDigest(spender common.Address, tokenID uint64, deadline *uint256.Int) common.Hash {
	return c.permits.Digest(spender, tokenID, deadline)
}

// RoyaltyInfo returns the ERC-2981 receiver and amount for a sale of tokenID at salePrice.
func (c *Collection) RoyaltyInfo(tokenID uint64, salePrice *uint256.Int) (common.Address, *uint256.Int, error) {
	return c.royalties.Info(tokenID, salePrice)
}

// TokenURI returns the metadata location of an existing token. Tokens at or below the reveal
// threshold get baseURI + id + suffix once a base URI is set; the rest get the pre-reveal URI.
func (c *Collection) TokenURI(tokenID uint64) (string, error) {
	if _, err := c.ledger.OwnerOf(tokenID); err != nil {
		return "", err
	}
	if tokenID <= c.cfg.RevealThreshold && c.cfg.BaseURI != "" {
		return c.cfg.BaseURI + strconv.FormatUint(tokenID, 10) + c.cfg.URISuffix, nil
	}
	return c.cfg.PreRevealURI, nil
}

func (c *Collection) OwnerOf(tokenID uint64) (common.Address, error) { return c.ledger.OwnerOf(tokenID) }
func (c *Collection) BalanceOf(owner common.Address) (uint64, error) { return c.ledger.BalanceOf(owner) }
func (c *Collection) GetApproved(tokenID uint64) (common.Address, error) {
	return c.ledger.GetApproved(tokenID)
}
func (c *Collection) IsApprovedForAll(owner, operator common.Address) bool {
	return c.ledger.IsApprovedForAll(owner, operator)
}

// TotalSupply is the number of tokens in the ledger.
func (c *Collection) TotalSupply() uint64 { return c.ledger.TotalSupply() }

// TotalMinted is the number of units issued through any channel.
func (c *Collection) TotalMinted() uint64 { return c.supply.Minted() }

func (c *Collection) MaxSupply() uint64 { return c.supply.MaxSupply() }
func (c *Collection) ChannelMinted(ch supply.Channel) uint64 { return c.supply.ChannelMinted(ch) }
func (c *Collection) ChannelCap(ch supply.Channel) uint64 { return c.supply.Cap(ch) }
func (c *Collection) MaxPerAddress(ch supply.Channel) uint64 { return c.supply.MaxPerAddress(ch) }
func (c *Collection) Claimed(ch supply.Channel, addr common.Address) uint64 {
	return c.supply.Claimed(ch, addr)
}
