package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/mintgate/internal/config"
	"github.com/Mohsinsiddi/mintgate/internal/ui"
)

const (
	ownerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	aliceAddr = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	bobAddr   = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

// ---------------------------------------------------------------------------
// init
// ---------------------------------------------------------------------------

func TestProfileFromWizardDefaultsContract(t *testing.T) {
	r := &ui.WizardResult{
		Name:      "Night Owls",
		Symbol:    "OWL",
		MaxSupply: 100,
		Payment:   "refund",
		Network:   "base",
		Owner:     strings.ToLower(ownerAddr),
	}
	p, err := profileFromWizard(r, "")
	require.NoError(t, err)

	want := crypto.CreateAddress(common.HexToAddress(ownerAddr), 0)
	assert.Equal(t, want.Hex(), p.Contract)
	assert.Equal(t, ownerAddr, p.Owner, "owner is checksummed")
	assert.Equal(t, "1", p.DomainVersion)
	require.NoError(t, p.Validate())
}

func TestProfileFromWizardExplicitContract(t *testing.T) {
	r := &ui.WizardResult{Name: "X", MaxSupply: 1, Payment: "refund", Owner: ownerAddr}
	p, err := profileFromWizard(r, aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, aliceAddr, p.Contract)
}

func TestProfileFromWizardBadOwner(t *testing.T) {
	_, err := profileFromWizard(&ui.WizardResult{Name: "X", Owner: "nope"}, "")
	assert.Error(t, err)
}

func TestProfileSlug(t *testing.T) {
	assert.Equal(t, "owl", profileSlug(&ui.WizardResult{Name: "Night Owls", Symbol: "OWL"}))
	assert.Equal(t, "night-owls", profileSlug(&ui.WizardResult{Name: "Night  Owls"}))
}

// ---------------------------------------------------------------------------
// permit
// ---------------------------------------------------------------------------

func TestParseDeadline(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		in   string
		want uint64
	}{
		{"", 1_700_003_600},
		{"1700000123", 1_700_000_123},
		{"0", 0},
		{"30m", 1_700_001_800},
		{"-1h", 1_699_996_400},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDeadline(tt.in, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Uint64())
		})
	}

	_, err := parseDeadline("soon", now)
	assert.Error(t, err)
}

func TestDeadlineLabel(t *testing.T) {
	d, _ := parseDeadline("1700000000", time.Now())
	assert.Equal(t, "1700000000 (2023-11-14T22:13:20Z)", deadlineLabel(d))
}

// ---------------------------------------------------------------------------
// allowlist
// ---------------------------------------------------------------------------

func TestParseHash(t *testing.T) {
	h, err := parseHash("0x" + strings.Repeat("ab", 32))
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), h[31])

	_, err = parseHash("0xabcd")
	assert.Error(t, err)
	_, err = parseHash("zz")
	assert.Error(t, err)
}

func TestProofArg(t *testing.T) {
	a := common.HexToHash("0x01")
	b := common.HexToHash("0x02")
	assert.Equal(t, "["+a.Hex()+","+b.Hex()+"]", proofArg([]common.Hash{a, b}))
	assert.Equal(t, "[]", proofArg(nil))
}

func TestLoadTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte(aliceAddr+"\n"+bobAddr+"\n"), 0o600))

	tree, err := loadTree(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Len())

	proof, err := tree.Proof(common.HexToAddress(aliceAddr))
	require.NoError(t, err)
	assert.Len(t, proof, 1)
}

// ---------------------------------------------------------------------------
// royalty
// ---------------------------------------------------------------------------

func TestRoyaltyPolicyFromFlags(t *testing.T) {
	royaltyReceiver, royaltyNumerator = aliceAddr, 2_500
	t.Cleanup(func() { royaltyReceiver, royaltyNumerator = "", 0 })

	policy, err := royaltyPolicy()
	require.NoError(t, err)
	rate := policy.RateFor(7)
	assert.Equal(t, common.HexToAddress(aliceAddr), rate.Receiver)
	assert.Equal(t, "2.5% to "+aliceAddr, royaltyLabel(rate))
}

func TestRoyaltyPolicyNeedsReceiver(t *testing.T) {
	royaltyNumerator = 2_500
	t.Cleanup(func() { royaltyNumerator = 0 })

	_, err := royaltyPolicy()
	assert.Error(t, err)
}

func TestRoyaltyPolicyFromProfile(t *testing.T) {
	useTempConfig(t)
	require.NoError(t, cfg.SaveProfile("owl", &config.Profile{
		Name:           "Owls",
		DomainVersion:  "1",
		Contract:       aliceAddr,
		Owner:          ownerAddr,
		MaxSupply:      10,
		Payment:        "refund",
		DefaultRoyalty: &config.RoyaltyProfile{Receiver: bobAddr, Numerator: 5_000},
	}))
	profileFlag = "owl"
	t.Cleanup(func() { profileFlag = "" })

	policy, err := royaltyPolicy()
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000), policy.RateFor(1).Numerator)
}

// ---------------------------------------------------------------------------
// wallet
// ---------------------------------------------------------------------------

func TestNewKeystoreRejectsUnknownBackend(t *testing.T) {
	useTempConfig(t)
	keystoreFlag = "vault"
	t.Cleanup(func() { keystoreFlag = keystoreKeyring })

	_, err := newKeystore(context.Background())
	assert.ErrorContains(t, err, "unknown keystore")
}

func TestWalletTypeLabel(t *testing.T) {
	assert.Equal(t, "signing", walletTypeLabel("signing"))
	assert.Equal(t, "watch-only", walletTypeLabel("watch-only"))
}

// ---------------------------------------------------------------------------
// profile
// ---------------------------------------------------------------------------

func TestNetworkLabel(t *testing.T) {
	assert.Equal(t, "ethereum", networkLabel(&config.Profile{}))
	assert.Equal(t, "base (testnet)", networkLabel(&config.Profile{Network: "base", Testnet: true}))
}

func TestLoadProfileContext(t *testing.T) {
	useTempConfig(t)
	require.NoError(t, cfg.SaveProfile("owl", &config.Profile{
		Name:          "Owls",
		DomainVersion: "1",
		Contract:      aliceAddr,
		Owner:         ownerAddr,
		Network:       "base",
		MaxSupply:     10,
		Payment:       "refund",
	}))
	cfg.DefaultProfile = "owl"

	pc, err := loadProfileContext()
	require.NoError(t, err)
	assert.Equal(t, "owl", pc.name)
	assert.Equal(t, int64(8453), pc.chainID.Int64())
	assert.Equal(t, common.HexToAddress(aliceAddr), pc.domain.Contract)
}

func TestLoadProfileMissing(t *testing.T) {
	useTempConfig(t)
	_, err := loadProfile()
	assert.ErrorIs(t, err, config.ErrProfileNotFound)
}

func useTempConfig(t *testing.T) {
	t.Helper()
	c, err := config.Load(t.TempDir())
	require.NoError(t, err)
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}
