package sale

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/royalty"
	"github.com/Mohsinsiddi/mintgate/internal/supply"
)

// PaymentMode selects what happens to the value attached to a paid mint.
type PaymentMode uint8

const (
	// PaymentUnset is invalid; a deployment has to pick a mode.
	PaymentUnset PaymentMode = iota
	// PaymentRefund keeps the exact price, returns any overpayment, and optionally pushes the
	// royalty share of each unit to its royalty receiver.
	PaymentRefund
	// PaymentForward sends everything attached to the beneficiary.
	PaymentForward
)

var paymentModeNames = map[PaymentMode]string{
	PaymentRefund:  "refund",
	PaymentForward: "forward",
}

func (m PaymentMode) String() string {
	if s, ok := paymentModeNames[m]; ok {
		return s
	}
	return "unset"
}

// ParsePaymentMode parses "refund" or "forward", case-insensitively.
func ParsePaymentMode(s string) (PaymentMode, error) {
	for m, name := range paymentModeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return PaymentUnset, fmt.Errorf("%w: unknown payment mode %q", ErrInvalidConfig, s)
}

func (m PaymentMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *PaymentMode) UnmarshalText(b []byte) error {
	parsed, err := ParsePaymentMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ChannelConfig is the operator-controlled state of one issuance channel.
type ChannelConfig struct {
	Active bool         `json:"active"`
	Price  *uint256.Int `json:"price,omitempty"`
	Root   common.Hash  `json:"root,omitempty"`
}

func (c ChannelConfig) clone() ChannelConfig {
	if c.Price != nil {
		c.Price = new(uint256.Int).Set(c.Price)
	}
	return c
}

// price returns the unit price, nil meaning free.
func (c ChannelConfig) price() *uint256.Int {
	if c.Price == nil {
		return new(uint256.Int)
	}
	return c.Price
}

// Config is the mutable configuration of a collection. Version increases by one with every
// successful operator change.
type Config struct {
	Version uint64 `json:"version"`

	Public  ChannelConfig `json:"public"`
	Presale ChannelConfig `json:"presale"`
	Free    ChannelConfig `json:"free"`

	Payment       PaymentMode    `json:"payment"`
	Beneficiary   common.Address `json:"beneficiary,omitempty"`
	RoyaltyOnMint bool           `json:"royaltyOnMint,omitempty"`

	BaseURI         string `json:"baseURI,omitempty"`
	URISuffix       string `json:"uriSuffix,omitempty"`
	PreRevealURI    string `json:"preRevealURI,omitempty"`
	RevealThreshold uint64 `json:"revealThreshold,omitempty"`
}

// channel returns the settings of ch. The reserve channel has none.
func (c *Config) channel(ch supply.Channel) (*ChannelConfig, error) {
	switch ch {
	case supply.Public:
		return &c.Public, nil
	case supply.Presale:
		return &c.Presale, nil
	case supply.Free:
		return &c.Free, nil
	}
	return nil, fmt.Errorf("%w: %s has no sale settings", ErrUnknownChannel, ch)
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	c.Public = c.Public.clone()
	c.Presale = c.Presale.clone()
	c.Free = c.Free.clone()
	return c
}

func (c Config) validate() error {
	switch c.Payment {
	case PaymentRefund:
	case PaymentForward:
		if c.Beneficiary == (common.Address{}) {
			return fmt.Errorf("%w: forward payment needs a beneficiary", ErrInvalidConfig)
		}
		if c.RoyaltyOnMint {
			return fmt.Errorf("%w: royalty on mint only applies to refund payment", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: payment mode must be refund or forward", ErrInvalidConfig)
	}
	if !c.Free.price().IsZero() {
		return fmt.Errorf("%w: free channel cannot have a price", ErrInvalidConfig)
	}
	return nil
}

// Options are the construction parameters of a collection.
type Options struct {
	Name          string
	Symbol        string
	DomainVersion string
	Contract      common.Address
	Owner         common.Address
	MaxSupply     uint64

	Config Config

	// Caps holds sub-caps for gated channels; missing channels default to MaxSupply.
	Caps map[supply.Channel]uint64
	// Quotas holds per-address limits; missing channels are unlimited.
	Quotas         map[supply.Channel]uint64
	DefaultRoyalty *royalty.Rate
}

// Validate checks the options are complete and consistent.
func (o Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if o.DomainVersion == "" {
		return fmt.Errorf("%w: domain version is required", ErrInvalidConfig)
	}
	if o.Contract == (common.Address{}) {
		return fmt.Errorf("%w: contract address is required", ErrInvalidConfig)
	}
	if o.Owner == (common.Address{}) {
		return fmt.Errorf("%w: owner is required", ErrInvalidConfig)
	}
	if o.MaxSupply == 0 {
		return fmt.Errorf("%w: max supply must be positive", ErrInvalidConfig)
	}
	for ch, limit := range o.Caps {
		if !ch.Gated() {
			return fmt.Errorf("%w: %s has no sub-cap", ErrInvalidConfig, ch)
		}
		// Nothing is minted at construction, so the ceiling is the only bound here. SetChannelCap
		// also keeps a cap at or above the channel's minted count.
		if limit > o.MaxSupply {
			return fmt.Errorf("%w: %s cap %d over max supply %d", ErrInvalidCap, ch, limit, o.MaxSupply)
		}
	}
	if o.DefaultRoyalty != nil {
		if err := o.DefaultRoyalty.Validate(); err != nil {
			return err
		}
	}
	return o.Config.validate()
}
