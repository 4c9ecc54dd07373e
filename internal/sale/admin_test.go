package sale

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/Mohsinsiddi/mintgate/internal/royalty"
	"github.com/Mohsinsiddi/mintgate/internal/supply"
)

// ---------------------------------------------------------------------------
// Setters
// ---------------------------------------------------------------------------

func TestSettersRequireOperator(t *testing.T) {
	f := newFixture(t, nil)
	rate := royalty.Rate{Receiver: artist, Numerator: 1}
	setters := map[string]func(chain.Msg) error{
		"price":          func(m chain.Msg) error { return f.c.SetPrice(m, supply.Public, wei(1)) },
		"active":         func(m chain.Msg) error { return f.c.SetActive(m, supply.Public, false) },
		"root":           func(m chain.Msg) error { return f.c.SetRoot(m, supply.Presale, common.Hash{}) },
		"quota":          func(m chain.Msg) error { return f.c.SetMaxPerAddress(m, supply.Public, 1) },
		"cap":            func(m chain.Msg) error { return f.c.SetChannelCap(m, supply.Free, 1) },
		"base uri":       func(m chain.Msg) error { return f.c.SetBaseURI(m, "ipfs://x/", ".json") },
		"pre-reveal":     func(m chain.Msg) error { return f.c.SetPreRevealURI(m, "ipfs://hidden") },
		"threshold":      func(m chain.Msg) error { return f.c.SetRevealThreshold(m, 1) },
		"beneficiary":    func(m chain.Msg) error { return f.c.SetBeneficiary(m, beneficiary) },
		"royalty toggle": func(m chain.Msg) error { return f.c.SetRoyaltyOnMint(m, true) },
		"default":        func(m chain.Msg) error { return f.c.SetDefaultRoyalty(m, rate) },
		"delete default": func(m chain.Msg) error { return f.c.DeleteDefaultRoyalty(m) },
		"token royalty":  func(m chain.Msg) error { return f.c.SetTokenRoyalty(m, 1, rate) },
		"reset royalty":  func(m chain.Msg) error { return f.c.ResetTokenRoyalty(m, 1) },
	}
	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			before := f.c.Config().Version
			assert.ErrorIs(t, set(from(alice)), ErrNotOperator)
			assert.Equal(t, before, f.c.Config().Version)

			require.NoError(t, set(from(operator)))
			assert.Equal(t, before+1, f.c.Config().Version)
		})
	}
}

func TestSettersRejectValue(t *testing.T) {
	f := newFixture(t, nil)
	f.sim.Fund(operator, ethers(1))
	err := f.c.SetActive(pay(operator, wei(1)), supply.Public, false)
	assert.ErrorIs(t, err, ErrNonPayable)
	assert.True(t, f.c.Config().Public.Active)
}

func TestSetterValidation(t *testing.T) {
	f := newFixture(t, nil)
	op := from(operator)

	assert.ErrorIs(t, f.c.SetChannelCap(op, supply.Presale, 10_001), ErrInvalidCap)
	assert.ErrorIs(t, f.c.SetPrice(op, supply.Free, wei(1)), ErrUnknownChannel)
	assert.ErrorIs(t, f.c.SetActive(op, supply.Reserve, true), ErrUnknownChannel)
	assert.ErrorIs(t, f.c.SetRoot(op, supply.Public, common.Hash{}), ErrUnknownChannel)
	assert.ErrorIs(t, f.c.SetDefaultRoyalty(op, royalty.Rate{Numerator: 1}), ErrInvalidRoyalty)
	assert.Zero(t, f.c.Config().Version, "failed setters leave the version alone")
}

func TestSetChannelCapBelowMinted(t *testing.T) {
	f := newFixture(t, nil)
	op := from(operator)
	_, err := f.c.PresaleMint(pay(alice, finneys(5)), alice, 5, f.proof(t, alice))
	require.NoError(t, err)

	assert.ErrorIs(t, f.c.SetChannelCap(op, supply.Presale, 2), ErrInvalidCap)
	assert.Equal(t, uint64(10_000), f.c.ChannelCap(supply.Presale))
	assert.Zero(t, f.c.Config().Version)

	require.NoError(t, f.c.SetChannelCap(op, supply.Presale, 5))
	_, err = f.c.PresaleMint(pay(bob, finneys(1)), bob, 1, f.proof(t, bob))
	assert.ErrorIs(t, err, ErrChannelSupplyExceeded)
}

func TestSetMaxPerAddressBelowClaims(t *testing.T) {
	f := newFixture(t, nil)
	op := from(operator)
	_, err := f.c.PresaleMint(pay(alice, finneys(5)), alice, 5, f.proof(t, alice))
	require.NoError(t, err)

	assert.ErrorIs(t, f.c.SetMaxPerAddress(op, supply.Presale, 1), ErrInvalidQuota)
	assert.Equal(t, uint64(5), f.c.Claimed(supply.Presale, alice))
	assert.Zero(t, f.c.Config().Version)

	require.NoError(t, f.c.SetMaxPerAddress(op, supply.Presale, 5))
	_, err = f.c.PresaleMint(pay(alice, finneys(1)), alice, 1, f.proof(t, alice))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestSetActiveClosesChannel(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.c.SetActive(from(operator), supply.Public, false))
	_, err := f.c.Mint(pay(alice, finneys(1)), alice, 1)
	assert.ErrorIs(t, err, ErrChannelInactive)

	require.NoError(t, f.c.SetActive(from(operator), supply.Public, true))
	require.NoError(t, f.c.SetPrice(from(operator), supply.Public, finneys(2)))
	_, err = f.c.Mint(pay(alice, finneys(1)), alice, 1)
	assert.ErrorIs(t, err, ErrInsufficientPayment)
}

func TestForwardModeBeneficiaryRules(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Config.Payment = PaymentForward
		o.Config.Beneficiary = beneficiary
	})
	assert.ErrorIs(t, f.c.SetBeneficiary(from(operator), common.Address{}), ErrInvalidConfig)
	assert.ErrorIs(t, f.c.SetRoyaltyOnMint(from(operator), true), ErrInvalidConfig)

	next := common.HexToAddress("0x00000000000000000000000000000000000000b1")
	require.NoError(t, f.c.SetBeneficiary(from(operator), next))
	_, err := f.c.Mint(pay(alice, finneys(1)), alice, 1)
	require.NoError(t, err)
	assert.Equal(t, finneys(1), f.sim.Balance(next))
}

func TestConfigIsACopy(t *testing.T) {
	f := newFixture(t, nil)
	cfg := f.c.Config()
	cfg.Public.Price.SetUint64(0)
	cfg.Public.Active = false
	assert.Equal(t, finneys(1), f.c.Config().Public.Price)
	assert.True(t, f.c.Config().Public.Active)
}

func TestOwnershipTransfer(t *testing.T) {
	f := newFixture(t, nil)
	assert.ErrorIs(t, f.c.TransferOwnership(from(alice), alice), ErrNotOperator)
	require.NoError(t, f.c.TransferOwnership(from(operator), bob))
	assert.Equal(t, bob, f.c.Owner())

	_, err := f.c.ReserveMint(from(operator), operator, 1)
	assert.ErrorIs(t, err, ErrNotOperator)
	_, err = f.c.ReserveMint(from(bob), bob, 1)
	require.NoError(t, err)

	require.NoError(t, f.c.RenounceOwnership(from(bob)))
	assert.ErrorIs(t, f.c.SetActive(from(bob), supply.Public, false), ErrNotOperator)
}

// ---------------------------------------------------------------------------
// ExecTransaction
// ---------------------------------------------------------------------------

func TestExecTransactionSweepsFunds(t *testing.T) {
	f := newFixture(t, nil)
	f.mintToAlice(t, 3)
	treasury := common.HexToAddress("0x000000000000000000000000000000000000eeee")

	_, err := f.c.ExecTransaction(from(alice), treasury, nil, finneys(3))
	assert.ErrorIs(t, err, ErrNotOperator)

	_, err = f.c.ExecTransaction(from(operator), treasury, nil, finneys(3))
	require.NoError(t, err)
	assert.Equal(t, finneys(3), f.sim.Balance(treasury))
	assert.True(t, f.c.Balance().IsZero())
}

func TestExecTransactionRawRevert(t *testing.T) {
	f := newFixture(t, nil)
	f.mintToAlice(t, 1)
	vault := common.HexToAddress("0x000000000000000000000000000000000000fa17")
	raw := append(crypto.Keccak256([]byte("Locked(uint256)"))[:4], make([]byte, 32)...)
	f.sim.Deploy(vault, func(common.Address, *uint256.Int, []byte) ([]byte, error) {
		return nil, &chain.RevertError{Data: raw}
	})

	_, err := f.c.ExecTransaction(from(operator), vault, []byte{0x01}, finneys(1))
	require.Error(t, err)
	var callErr *chain.CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, raw, callErr.Reason)
	assert.Equal(t, finneys(1), f.c.Balance(), "value stays put")
}

func TestExecTransactionReturnsData(t *testing.T) {
	f := newFixture(t, nil)
	echo := common.HexToAddress("0x000000000000000000000000000000000000ec40")
	f.sim.Deploy(echo, func(_ common.Address, _ *uint256.Int, payload []byte) ([]byte, error) {
		return payload, nil
	})
	ret, err := f.c.ExecTransaction(from(operator), echo, []byte("ping"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), ret)
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestTokenURI(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.c.TokenURI(1)
	assert.ErrorIs(t, err, ErrNonexistentToken)

	f.mintToAlice(t, 5)
	op := from(operator)
	require.NoError(t, f.c.SetPreRevealURI(op, "ipfs://hidden.json"))

	uri, err := f.c.TokenURI(1)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://hidden.json", uri)

	require.NoError(t, f.c.SetRevealThreshold(op, 3))
	uri, _ = f.c.TokenURI(3)
	assert.Equal(t, "ipfs://hidden.json", uri, "no base URI yet")

	require.NoError(t, f.c.SetBaseURI(op, "ipfs://revealed/", ".json"))
	uri, _ = f.c.TokenURI(3)
	assert.Equal(t, "ipfs://revealed/3.json", uri)
	uri, _ = f.c.TokenURI(4)
	assert.Equal(t, "ipfs://hidden.json", uri)
}

func TestSupportsInterface(t *testing.T) {
	f := newFixture(t, nil)
	royaltyInfo := crypto.Keccak256([]byte("royaltyInfo(uint256,uint256)"))[:4]
	assert.Equal(t, royaltyInfo, InterfaceERC2981[:])

	for _, id := range [][4]byte{InterfaceERC165, InterfaceERC721, InterfaceERC721Metadata, InterfaceERC2981, InterfaceERC4494} {
		assert.True(t, f.c.SupportsInterface(id), "%x", id)
	}
	assert.False(t, f.c.SupportsInterface([4]byte{0xff, 0xff, 0xff, 0xff}))
	assert.False(t, f.c.SupportsInterface([4]byte{0x36, 0x37, 0x2b, 0x07}), "not an ERC-20")
}

func TestRoyaltyInfoDoesNotMutate(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.DefaultRoyalty = &royalty.Rate{Receiver: artist, Numerator: 100}
	})
	f.mintToAlice(t, 1)
	version := f.c.Config().Version

	for i := 0; i < 3; i++ {
		receiver, amount, err := f.c.RoyaltyInfo(1, wei(300))
		require.NoError(t, err)
		assert.Equal(t, artist, receiver)
		assert.True(t, amount.IsZero(), "300 * 100 / 100000 floors to zero")
		nonce, err := f.c.Nonces(1)
		require.NoError(t, err)
		assert.Zero(t, nonce)
	}
	assert.Equal(t, version, f.c.Config().Version)
}

func TestPaymentModeText(t *testing.T) {
	for _, m := range []PaymentMode{PaymentRefund, PaymentForward} {
		b, err := m.MarshalText()
		require.NoError(t, err)
		var parsed PaymentMode
		require.NoError(t, parsed.UnmarshalText(b))
		assert.Equal(t, m, parsed)
	}
	_, err := ParsePaymentMode("split")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, "unset", PaymentUnset.String())
}
