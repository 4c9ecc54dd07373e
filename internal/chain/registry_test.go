package chain_test

import (
	"testing"

	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasAllChains(t *testing.T) {
	registry := chain.NewRegistry()
	assert.Equal(t, 12, len(registry.All()))
}

func TestRegistryGetByName(t *testing.T) {
	registry := chain.NewRegistry()

	tests := []struct {
		name    string
		chainID int64
	}{
		{"ethereum", 1},
		{"base", 8453},
		{"polygon", 137},
		{"arbitrum", 42161},
		{"optimism", 10},
		{"bnb", 56},
		{"avalanche", 43114},
		{"local", 31337},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := registry.GetByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, c.Name)
			assert.Equal(t, tt.chainID, c.ChainID)
		})
	}
}

func TestRegistryGetByNameCaseInsensitive(t *testing.T) {
	registry := chain.NewRegistry()
	c, err := registry.GetByName("Base")
	require.NoError(t, err)
	assert.Equal(t, "base", c.Name)
}

func TestRegistryGetUnknownChain(t *testing.T) {
	registry := chain.NewRegistry()
	_, err := registry.GetByName("unknownchain")
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
}

func TestRegistryGetByTestnetChainID(t *testing.T) {
	registry := chain.NewRegistry()
	c, err := registry.GetByChainID(11155111)
	require.NoError(t, err)
	assert.Equal(t, "ethereum", c.Name)
}

func TestChainIDByMode(t *testing.T) {
	registry := chain.NewRegistry()
	c, err := registry.GetByName("base")
	require.NoError(t, err)
	assert.Equal(t, int64(8453), c.ID("mainnet"))
	assert.Equal(t, int64(84532), c.ID("testnet"))

	local, err := registry.GetByName("local")
	require.NoError(t, err)
	assert.Equal(t, int64(31337), local.ID("testnet"), "no testnet falls back to the mainnet id")
}

func TestAllChainsHaveNativeCurrency(t *testing.T) {
	registry := chain.NewRegistry()
	for _, c := range registry.All() {
		t.Run(c.Name, func(t *testing.T) {
			assert.NotEmpty(t, c.NativeCurrency, "chain %s has no native currency", c.Name)
			assert.NotZero(t, c.ChainID)
		})
	}
}
