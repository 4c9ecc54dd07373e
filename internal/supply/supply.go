// Package supply enforces the global supply ceiling, per-channel sub-caps and per-address quotas.
package supply

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/ethereum/go-ethereum/common"
)

// Errors.
var (
	ErrSupplyExceeded        = errors.New("global supply exceeded")
	ErrChannelSupplyExceeded = errors.New("channel supply exceeded")
	ErrQuotaExceeded         = errors.New("per-address quota exceeded")
	ErrInvalidCap            = errors.New("invalid channel cap")
	ErrInvalidQuota          = errors.New("invalid per-address quota")
	ErrUnknownChannel        = errors.New("unknown channel")
)

type channelState struct {
	cap           uint64
	minted        uint64
	maxPerAddress uint64
	claims        map[common.Address]uint64
}

// highestClaim returns the largest amount any single address has claimed.
func (c *channelState) highestClaim() uint64 {
	var top uint64
	for _, n := range c.claims {
		if n > top {
			top = n
		}
	}
	return top
}

// Ledger holds the issuance counters. MaxSupply is fixed at construction; everything else only
// moves through Reserve, Release and the two setters. Not safe for concurrent use.
type Ledger struct {
	maxSupply uint64
	minted    uint64
	channels  [numChannels]*channelState
}

// New creates a ledger with the given ceiling. Gated channels start with a cap equal to the
// ceiling and every quota starts unlimited.
func New(maxSupply uint64) *Ledger {
	l := &Ledger{maxSupply: maxSupply}
	for i := range l.channels {
		l.channels[i] = &channelState{claims: make(map[common.Address]uint64)}
		if Channel(i).Gated() {
			l.channels[i].cap = maxSupply
		}
	}
	return l
}

func (l *Ledger) channel(ch Channel) (*channelState, error) {
	if !ch.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChannel, ch)
	}
	return l.channels[ch], nil
}

// CheckCapacity fails if qty more units would break the global ceiling or, for gated
// channels, the channel sub-cap.
func (l *Ledger) CheckCapacity(ch Channel, qty uint64) error {
	c, err := l.channel(ch)
	if err != nil {
		return err
	}
	if total, carry := bits.Add64(l.minted, qty, 0); carry != 0 || total > l.maxSupply {
		return fmt.Errorf("%w: %d minted, %d requested, max %d", ErrSupplyExceeded, l.minted, qty, l.maxSupply)
	}
	if ch.Gated() {
		if total, carry := bits.Add64(c.minted, qty, 0); carry != 0 || total > c.cap {
			return fmt.Errorf("%w: %s has %d of %d, %d requested", ErrChannelSupplyExceeded, ch, c.minted, c.cap, qty)
		}
	}
	return nil
}

// CheckQuota fails if claimant would go over the channel's per-address limit. A limit of zero
// means unlimited.
func (l *Ledger) CheckQuota(ch Channel, qty uint64, claimant common.Address) error {
	c, err := l.channel(ch)
	if err != nil {
		return err
	}
	if c.maxPerAddress == 0 {
		return nil
	}
	claimed := c.claims[claimant]
	if total, carry := bits.Add64(claimed, qty, 0); carry != 0 || total > c.maxPerAddress {
		return fmt.Errorf("%w: %s claimed %d of %d, %d requested", ErrQuotaExceeded, claimant.Hex(), claimed, c.maxPerAddress, qty)
	}
	return nil
}

// Reserve runs both checks and commits qty units to the counters.
func (l *Ledger) Reserve(ch Channel, qty uint64, claimant common.Address) error {
	if err := l.CheckCapacity(ch, qty); err != nil {
		return err
	}
	if err := l.CheckQuota(ch, qty, claimant); err != nil {
		return err
	}
	c := l.channels[ch]
	l.minted += qty
	c.minted += qty
	c.claims[claimant] += qty
	return nil
}

// Release undoes a Reserve with the same arguments. It exists only to roll back an aborted issuance.
func (l *Ledger) Release(ch Channel, qty uint64, claimant common.Address) {
	c, err := l.channel(ch)
	if err != nil || c.claims[claimant] < qty || c.minted < qty || l.minted < qty {
		panic(fmt.Sprintf("supply: release of %d on %s does not match a reservation", qty, ch))
	}
	l.minted -= qty
	c.minted -= qty
	if c.claims[claimant] -= qty; c.claims[claimant] == 0 {
		delete(c.claims, claimant)
	}
}

// SetChannelCap sets a gated channel's sub-cap. The cap must lie between what the channel has
// already minted and the global ceiling.
func (l *Ledger) SetChannelCap(ch Channel, limit uint64) error {
	c, err := l.channel(ch)
	if err != nil {
		return err
	}
	if !ch.Gated() {
		return fmt.Errorf("%s has no sub-cap", ch)
	}
	if limit > l.maxSupply {
		return fmt.Errorf("%w: %d over max supply %d", ErrInvalidCap, limit, l.maxSupply)
	}
	if limit < c.minted {
		return fmt.Errorf("%w: %d under the %d already minted on %s", ErrInvalidCap, limit, c.minted, ch)
	}
	c.cap = limit
	return nil
}

// SetMaxPerAddress sets the per-address limit for a channel. Zero disables the limit; any other
// value must cover every existing claim on the channel.
func (l *Ledger) SetMaxPerAddress(ch Channel, limit uint64) error {
	c, err := l.channel(ch)
	if err != nil {
		return err
	}
	if limit != 0 {
		if top := c.highestClaim(); limit < top {
			return fmt.Errorf("%w: %d under an existing claim of %d on %s", ErrInvalidQuota, limit, top, ch)
		}
	}
	c.maxPerAddress = limit
	return nil
}

// MaxSupply returns the immutable ceiling.
func (l *Ledger) MaxSupply() uint64 { return l.maxSupply }

// Minted returns the number of units issued across all channels.
func (l *Ledger) Minted() uint64 { return l.minted }

// ChannelMinted returns the number of units issued through ch.
func (l *Ledger) ChannelMinted(ch Channel) uint64 {
	if !ch.Valid() {
		return 0
	}
	return l.channels[ch].minted
}

// Cap returns the sub-cap of a gated channel, or the ceiling for ungated ones.
func (l *Ledger) Cap(ch Channel) uint64 {
	if !ch.Gated() {
		return l.maxSupply
	}
	return l.channels[ch].cap
}

// MaxPerAddress returns the per-address limit of ch (zero means unlimited).
func (l *Ledger) MaxPerAddress(ch Channel) uint64 {
	if !ch.Valid() {
		return 0
	}
	return l.channels[ch].maxPerAddress
}

// Claimed returns how many units addr has claimed through ch.
func (l *Ledger) Claimed(ch Channel, addr common.Address) uint64 {
	if !ch.Valid() {
		return 0
	}
	return l.channels[ch].claims[addr]
}
