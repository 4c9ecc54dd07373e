package chain

import (
	"errors"
	"strings"
)

// ErrChainNotFound is returned when a network is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Chain holds the metadata a deployment profile needs about an EVM network.
type Chain struct {
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	ChainID        int64  `json:"chain_id"`
	TestnetChainID int64  `json:"testnet_chain_id"`
	TestnetName    string `json:"testnet_name"`
	NativeCurrency string `json:"native_currency"`
}

// Registry is the network registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry creates and returns the registry of supported networks.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, 2*len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
		if c.TestnetChainID != 0 {
			r.byID[c.TestnetChainID] = c
		}
	}
	return r
}

// All returns every network in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a network by its slug name (e.g. "base", "ethereum").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a network by either its mainnet or testnet chain ID.
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// ID returns the chain ID for the given mode ("mainnet"/"testnet").
func (c *Chain) ID(mode string) int64 {
	if mode == "testnet" && c.TestnetChainID != 0 {
		return c.TestnetChainID
	}
	return c.ChainID
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{Name: "ethereum", DisplayName: "Ethereum", ChainID: 1, TestnetChainID: 11155111, TestnetName: "Sepolia", NativeCurrency: "ETH"},
		{Name: "base", DisplayName: "Base", ChainID: 8453, TestnetChainID: 84532, TestnetName: "Base Sepolia", NativeCurrency: "ETH"},
		{Name: "polygon", DisplayName: "Polygon", ChainID: 137, TestnetChainID: 80002, TestnetName: "Amoy", NativeCurrency: "MATIC"},
		{Name: "arbitrum", DisplayName: "Arbitrum", ChainID: 42161, TestnetChainID: 421614, TestnetName: "Arb Sepolia", NativeCurrency: "ETH"},
		{Name: "optimism", DisplayName: "Optimism", ChainID: 10, TestnetChainID: 11155420, TestnetName: "OP Sepolia", NativeCurrency: "ETH"},
		{Name: "bnb", DisplayName: "BNB Chain", ChainID: 56, TestnetChainID: 97, TestnetName: "BSC Testnet", NativeCurrency: "BNB"},
		{Name: "avalanche", DisplayName: "Avalanche", ChainID: 43114, TestnetChainID: 43113, TestnetName: "Fuji", NativeCurrency: "AVAX"},
		{Name: "linea", DisplayName: "Linea", ChainID: 59144, TestnetChainID: 59141, TestnetName: "Linea Sepolia", NativeCurrency: "ETH"},
		{Name: "zksync", DisplayName: "zkSync Era", ChainID: 324, TestnetChainID: 300, TestnetName: "zkSync Sepolia", NativeCurrency: "ETH"},
		{Name: "scroll", DisplayName: "Scroll", ChainID: 534352, TestnetChainID: 534351, TestnetName: "Scroll Sepolia", NativeCurrency: "ETH"},
		{Name: "zora", DisplayName: "Zora", ChainID: 7777777, TestnetChainID: 999999999, TestnetName: "Zora Sepolia", NativeCurrency: "ETH"},
		// Local dev nodes (anvil, hardhat) share one id and have no testnet.
		{Name: "local", DisplayName: "Local Devnet", ChainID: 31337, NativeCurrency: "ETH"},
	}
}
