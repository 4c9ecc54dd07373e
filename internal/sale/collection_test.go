package sale

import (
	"crypto/ecdsa"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/mintgate/internal/allowlist"
	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/Mohsinsiddi/mintgate/internal/ledger"
	"github.com/Mohsinsiddi/mintgate/internal/royalty"
	"github.com/Mohsinsiddi/mintgate/internal/supply"
)

// Hardhat / Anvil account #0; alice signs permits with it.
const testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var (
	alice       = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	bob         = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	carol       = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	outsider    = common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")
	operator    = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	beneficiary = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	artist      = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	contract    = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	genesis = time.Unix(1_700_000_000, 0)
)

var (
	finney = uint256.NewInt(1_000_000_000_000_000)
	ether  = uint256.NewInt(1_000_000_000_000_000_000)
)

func wei(n uint64) *uint256.Int { return uint256.NewInt(n) }

func finneys(n uint64) *uint256.Int { return new(uint256.Int).Mul(finney, wei(n)) }

func ethers(n uint64) *uint256.Int { return new(uint256.Int).Mul(ether, wei(n)) }

type fixture struct {
	c    *Collection
	sim  *chain.Sim
	ldg  *ledger.Memory
	tree *allowlist.Tree
	key  *ecdsa.PrivateKey
}

func defaultOptions(root common.Hash) Options {
	return Options{
		Name:          "Mintgate",
		Symbol:        "MGT",
		DomainVersion: "1",
		Contract:      contract,
		Owner:         operator,
		MaxSupply:     10_000,
		Config: Config{
			Public:  ChannelConfig{Active: true, Price: finneys(1)},
			Presale: ChannelConfig{Active: true, Price: finneys(1), Root: root},
			Free:    ChannelConfig{Active: true, Root: root},
			Payment: PaymentRefund,
		},
	}
}

// newFixture deploys a collection whose allowlists hold alice, bob and carol. Every listed
// account starts with 10 ether.
func newFixture(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()
	tree, err := allowlist.NewTree([]common.Address{alice, bob, carol})
	require.NoError(t, err)

	opts := defaultOptions(tree.Root())
	if mutate != nil {
		mutate(&opts)
	}

	sim := chain.NewSim(big.NewInt(1), genesis)
	for _, a := range []common.Address{alice, bob, carol, outsider} {
		sim.Fund(a, ethers(10))
	}
	ldg := ledger.NewMemory()
	c, err := New(opts, sim, ldg)
	require.NoError(t, err)

	key, err := crypto.HexToECDSA(testPrivKeyHex)
	require.NoError(t, err)
	return &fixture{c: c, sim: sim, ldg: ldg, tree: tree, key: key}
}

func (f *fixture) proof(t *testing.T, addr common.Address) []common.Hash {
	t.Helper()
	p, err := f.tree.Proof(addr)
	require.NoError(t, err)
	return p
}

func from(addr common.Address) chain.Msg { return chain.Msg{From: addr} }

func pay(addr common.Address, value *uint256.Int) chain.Msg {
	return chain.Msg{From: addr, Value: value}
}

// assertUntouched checks that nothing was issued and alice still has her starting balance.
func (f *fixture) assertUntouched(t *testing.T) {
	t.Helper()
	assert.Zero(t, f.c.TotalMinted())
	assert.Zero(t, f.c.TotalSupply())
	assert.True(t, f.c.Balance().IsZero())
	assert.Equal(t, ethers(10), f.sim.Balance(alice))
	for _, ch := range supply.Channels() {
		assert.Zero(t, f.c.Claimed(ch, alice))
	}
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewRejectsIncompleteOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		want   error
	}{
		{"payment mode unset", func(o *Options) { o.Config.Payment = PaymentUnset }, ErrInvalidConfig},
		{"forward without beneficiary", func(o *Options) { o.Config.Payment = PaymentForward }, ErrInvalidConfig},
		{"forward with royalty push", func(o *Options) {
			o.Config.Payment = PaymentForward
			o.Config.Beneficiary = beneficiary
			o.Config.RoyaltyOnMint = true
		}, ErrInvalidConfig},
		{"priced free channel", func(o *Options) { o.Config.Free.Price = wei(1) }, ErrInvalidConfig},
		{"cap over max supply", func(o *Options) { o.Caps = map[supply.Channel]uint64{supply.Presale: 10_001} }, ErrInvalidCap},
		{"cap on public", func(o *Options) { o.Caps = map[supply.Channel]uint64{supply.Public: 1} }, ErrInvalidConfig},
		{"no owner", func(o *Options) { o.Owner = common.Address{} }, ErrInvalidConfig},
		{"bad royalty", func(o *Options) {
			o.DefaultRoyalty = &royalty.Rate{Receiver: artist, Numerator: royalty.FeeDenominator + 1}
		}, ErrInvalidRoyalty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions(common.Hash{})
			tt.mutate(&opts)
			_, err := New(opts, chain.NewSim(big.NewInt(1), genesis), ledger.NewMemory())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewAppliesCapsAndQuotas(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Caps = map[supply.Channel]uint64{supply.Presale: 1_000}
		o.Quotas = map[supply.Channel]uint64{supply.Free: 3}
		o.DefaultRoyalty = &royalty.Rate{Receiver: artist, Numerator: 5_000}
	})
	assert.Equal(t, uint64(1_000), f.c.ChannelCap(supply.Presale))
	assert.Equal(t, uint64(10_000), f.c.ChannelCap(supply.Free))
	assert.Equal(t, uint64(3), f.c.MaxPerAddress(supply.Free))
	assert.Equal(t, uint64(10_000), f.c.MaxSupply())
	assert.Equal(t, "Mintgate", f.c.Name())
	assert.Equal(t, "MGT", f.c.Symbol())
	assert.Equal(t, operator, f.c.Owner())

	receiver, amount, err := f.c.RoyaltyInfo(1, wei(1_000))
	require.NoError(t, err)
	assert.Equal(t, artist, receiver)
	assert.Equal(t, uint64(50), amount.Uint64())
}

// ---------------------------------------------------------------------------
// Reentrancy
// ---------------------------------------------------------------------------

func TestReentrantMintFromRefundFails(t *testing.T) {
	f := newFixture(t, nil)
	attacker := common.HexToAddress("0x000000000000000000000000000000000000bad1")
	f.sim.Fund(attacker, ethers(1))

	var inner error
	calls := 0
	f.sim.Deploy(attacker, func(common.Address, *uint256.Int, []byte) ([]byte, error) {
		calls++
		_, inner = f.c.Mint(pay(attacker, finneys(1)), attacker, 1)
		return nil, nil
	})

	_, err := f.c.Mint(pay(attacker, finneys(3)), attacker, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "refund reached the attacker once")
	assert.ErrorIs(t, inner, ErrReentrantCall)
	assert.Equal(t, uint64(1), f.c.TotalMinted())
	assert.Equal(t, finneys(1), f.c.Balance())
}

func TestReentrantTransferFromPayoutFails(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Config.Payment = PaymentForward
		o.Config.Beneficiary = beneficiary
	})
	_, err := f.c.Mint(pay(alice, finneys(1)), alice, 1)
	require.NoError(t, err)

	var inner error
	f.sim.Deploy(beneficiary, func(common.Address, *uint256.Int, []byte) ([]byte, error) {
		inner = f.c.TransferFrom(from(alice), alice, beneficiary, 1)
		return nil, nil
	})
	_, err = f.c.Mint(pay(bob, finneys(1)), bob, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrReentrantCall)

	owner, err := f.c.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
}

func TestGuardReleasedAfterFailure(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.c.Mint(pay(alice, wei(1)), alice, 1)
	require.ErrorIs(t, err, ErrInsufficientPayment)

	_, err = f.c.Mint(pay(alice, finneys(1)), alice, 1)
	require.NoError(t, err)
	require.NoError(t, f.c.SetActive(from(operator), supply.Public, false))
}

func TestJournalsDrainAfterEachCall(t *testing.T) {
	f := newFixture(t, nil)
	for i := 0; i < 3; i++ {
		_, err := f.c.Mint(pay(alice, finneys(2)), alice, 1)
		require.NoError(t, err)
	}
	_, err := f.c.Mint(pay(alice, wei(1)), alice, 1)
	require.ErrorIs(t, err, ErrInsufficientPayment)
	require.NoError(t, f.c.TransferFrom(from(alice), alice, bob, 1))
	require.NoError(t, f.c.SetActive(from(operator), supply.Free, false))

	assert.Zero(t, f.sim.JournalLen())
	assert.Zero(t, f.ldg.JournalLen())
	assert.Equal(t, uint64(3), f.c.TotalMinted())
}

func TestNestedErrorIsReported(t *testing.T) {
	f := newFixture(t, nil)
	attacker := common.HexToAddress("0x000000000000000000000000000000000000bad2")
	f.sim.Fund(attacker, ethers(1))
	f.sim.Deploy(attacker, func(common.Address, *uint256.Int, []byte) ([]byte, error) {
		if _, err := f.c.Mint(pay(attacker, finneys(1)), attacker, 1); err != nil {
			return nil, err
		}
		return nil, nil
	})

	_, err := f.c.Mint(pay(attacker, finneys(2)), attacker, 1)
	require.Error(t, err)
	var callErr *chain.CallError
	require.True(t, errors.As(err, &callErr))
	assert.Contains(t, err.Error(), ErrReentrantCall.Error())
	assert.Zero(t, f.c.TotalMinted(), "failed refund undoes the mint")
	assert.Equal(t, ethers(1), f.sim.Balance(attacker))
}
