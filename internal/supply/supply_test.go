package supply

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

// ---------------------------------------------------------------------------
// Global ceiling
// ---------------------------------------------------------------------------

func TestReserveUpToCeiling(t *testing.T) {
	l := New(10)
	require.NoError(t, l.Reserve(Public, 6, alice))
	require.NoError(t, l.Reserve(Public, 4, bob))
	assert.Equal(t, uint64(10), l.Minted())

	err := l.Reserve(Public, 1, alice)
	assert.ErrorIs(t, err, ErrSupplyExceeded)
	assert.Equal(t, uint64(10), l.Minted(), "failed reserve leaves counters untouched")
}

func TestReserveOverflowIsSupplyExceeded(t *testing.T) {
	l := New(math.MaxUint64)
	require.NoError(t, l.Reserve(Reserve, 10, alice))
	err := l.CheckCapacity(Public, math.MaxUint64)
	assert.ErrorIs(t, err, ErrSupplyExceeded)
}

func TestReserveChannelOnlyChecksCeiling(t *testing.T) {
	l := New(5)
	require.NoError(t, l.SetChannelCap(Presale, 1))
	require.NoError(t, l.Reserve(Reserve, 5, alice))
	assert.Equal(t, uint64(5), l.ChannelMinted(Reserve))
	assert.ErrorIs(t, l.Reserve(Reserve, 1, alice), ErrSupplyExceeded)
}

// ---------------------------------------------------------------------------
// Channel sub-caps
// ---------------------------------------------------------------------------

func TestPresaleSubCapScenario(t *testing.T) {
	l := New(10_000)
	require.NoError(t, l.SetChannelCap(Presale, 1_000))
	require.NoError(t, l.Reserve(Presale, 900, alice))

	err := l.Reserve(Presale, 150, bob)
	assert.ErrorIs(t, err, ErrChannelSupplyExceeded)
	assert.Equal(t, uint64(900), l.ChannelMinted(Presale))
	assert.Equal(t, uint64(900), l.Minted())

	require.NoError(t, l.Reserve(Presale, 100, bob), "exactly filling the cap is allowed")
}

func TestGlobalCheckedBeforeChannel(t *testing.T) {
	l := New(100)
	require.NoError(t, l.SetChannelCap(Free, 10))
	require.NoError(t, l.Reserve(Public, 95, alice))

	err := l.CheckCapacity(Free, 20)
	assert.ErrorIs(t, err, ErrSupplyExceeded)
}

func TestSetChannelCapValidation(t *testing.T) {
	l := New(100)
	assert.ErrorIs(t, l.SetChannelCap(Presale, 101), ErrInvalidCap)
	assert.Error(t, l.SetChannelCap(Public, 10), "public has no sub-cap")
	assert.ErrorIs(t, l.SetChannelCap(Channel(9), 10), ErrUnknownChannel)

	require.NoError(t, l.SetChannelCap(Free, 0))
	assert.ErrorIs(t, l.Reserve(Free, 1, alice), ErrChannelSupplyExceeded)
}

func TestChannelCapNotBelowMinted(t *testing.T) {
	l := New(100)
	require.NoError(t, l.Reserve(Presale, 5, alice))

	assert.ErrorIs(t, l.SetChannelCap(Presale, 2), ErrInvalidCap)
	assert.ErrorIs(t, l.SetChannelCap(Presale, 4), ErrInvalidCap)
	assert.Equal(t, uint64(100), l.Cap(Presale), "rejected cap leaves the old one")

	require.NoError(t, l.SetChannelCap(Presale, 5), "a cap equal to minted closes the channel")
	assert.ErrorIs(t, l.Reserve(Presale, 1, bob), ErrChannelSupplyExceeded)
	assert.LessOrEqual(t, l.ChannelMinted(Presale), l.Cap(Presale))
}

func TestDefaultCaps(t *testing.T) {
	l := New(500)
	assert.Equal(t, uint64(500), l.Cap(Presale))
	assert.Equal(t, uint64(500), l.Cap(Free))
	assert.Equal(t, uint64(500), l.Cap(Public))
	assert.Equal(t, uint64(500), l.MaxSupply())
}

// ---------------------------------------------------------------------------
// Per-address quotas
// ---------------------------------------------------------------------------

func TestQuotaBoundaryScenario(t *testing.T) {
	l := New(10_000)
	require.NoError(t, l.SetMaxPerAddress(Free, 100))
	require.NoError(t, l.Reserve(Free, 51, alice))

	err := l.Reserve(Free, 51, alice)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, uint64(51), l.Claimed(Free, alice))

	require.NoError(t, l.Reserve(Free, 49, alice))
	assert.Equal(t, uint64(100), l.Claimed(Free, alice))
}

func TestQuotaZeroMeansUnlimited(t *testing.T) {
	l := New(10_000)
	require.NoError(t, l.SetMaxPerAddress(Public, 0))
	require.NoError(t, l.Reserve(Public, 5_000, alice))
	assert.NoError(t, l.CheckQuota(Public, 5_000, alice))
}

func TestQuotaIsPerChannel(t *testing.T) {
	l := New(10_000)
	require.NoError(t, l.SetMaxPerAddress(Public, 2))
	require.NoError(t, l.SetMaxPerAddress(Presale, 2))
	require.NoError(t, l.Reserve(Public, 2, alice))
	require.NoError(t, l.Reserve(Presale, 2, alice))
	assert.ErrorIs(t, l.Reserve(Public, 1, alice), ErrQuotaExceeded)
	assert.NoError(t, l.Reserve(Public, 2, bob))
}

func TestLoweringQuotaBelowClaims(t *testing.T) {
	l := New(100)
	require.NoError(t, l.Reserve(Public, 5, alice))
	require.NoError(t, l.Reserve(Public, 2, bob))

	assert.ErrorIs(t, l.SetMaxPerAddress(Public, 3), ErrInvalidQuota)
	assert.ErrorIs(t, l.SetMaxPerAddress(Public, 4), ErrInvalidQuota)
	assert.Zero(t, l.MaxPerAddress(Public), "rejected quota leaves the old one")

	require.NoError(t, l.SetMaxPerAddress(Public, 5))
	assert.ErrorIs(t, l.Reserve(Public, 1, alice), ErrQuotaExceeded)
	assert.NoError(t, l.Reserve(Public, 3, bob))
	assert.Equal(t, uint64(5), l.Claimed(Public, alice), "claims are never reset")

	require.NoError(t, l.SetMaxPerAddress(Public, 0), "zero always lifts the limit")
}

func TestQuotaFollowsReleasedClaims(t *testing.T) {
	l := New(100)
	require.NoError(t, l.Reserve(Presale, 4, alice))
	assert.ErrorIs(t, l.SetMaxPerAddress(Presale, 2), ErrInvalidQuota)

	l.Release(Presale, 4, alice)
	require.NoError(t, l.SetMaxPerAddress(Presale, 2))
	assert.Equal(t, uint64(2), l.MaxPerAddress(Presale))
}

// ---------------------------------------------------------------------------
// Release
// ---------------------------------------------------------------------------

func TestReleaseUndoesReserve(t *testing.T) {
	l := New(100)
	require.NoError(t, l.Reserve(Presale, 7, alice))
	l.Release(Presale, 7, alice)

	assert.Zero(t, l.Minted())
	assert.Zero(t, l.ChannelMinted(Presale))
	assert.Zero(t, l.Claimed(Presale, alice))
}

func TestReleaseWithoutReservationPanics(t *testing.T) {
	l := New(100)
	assert.Panics(t, func() { l.Release(Public, 1, alice) })
}

// ---------------------------------------------------------------------------
// Channel
// ---------------------------------------------------------------------------

func TestChannelText(t *testing.T) {
	for _, ch := range Channels() {
		parsed, err := ParseChannel(ch.String())
		require.NoError(t, err)
		assert.Equal(t, ch, parsed)
	}
	_, err := ParseChannel("auction")
	assert.ErrorIs(t, err, ErrUnknownChannel)

	var got struct {
		Ch Channel `json:"ch"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"ch":"Presale"}`), &got))
	assert.Equal(t, Presale, got.Ch)
	assert.True(t, Presale.Gated())
	assert.False(t, Reserve.Gated())
}
