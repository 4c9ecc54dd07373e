package permit

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	domainTypeHash = crypto.Keccak256Hash([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	permitTypeHash = crypto.Keccak256Hash([]byte("Permit(address spender,uint256 tokenId,uint256 nonce,uint256 deadline)"))
)

// Domain is the typed-data domain of one collection. The separator for the chain id seen at
// construction is cached; any other chain id gets a freshly computed one.
type Domain struct {
	Name     string
	Version  string
	Contract common.Address

	nameHash       common.Hash
	versionHash    common.Hash
	initialChainID *big.Int
	initialSep     common.Hash
}

// NewDomain fixes the name and version hashes and caches the separator for chainID.
func NewDomain(name, version string, contract common.Address, chainID *big.Int) *Domain {
	d := &Domain{
		Name:           name,
		Version:        version,
		Contract:       contract,
		nameHash:       crypto.Keccak256Hash([]byte(name)),
		versionHash:    crypto.Keccak256Hash([]byte(version)),
		initialChainID: new(big.Int).Set(chainID),
	}
	d.initialSep = d.build(chainID)
	return d
}

// InitialChainID returns the chain id the cached separator was built for.
func (d *Domain) InitialChainID() *big.Int { return new(big.Int).Set(d.initialChainID) }

// Separator returns the domain separator for the live chain id.
func (d *Domain) Separator(chainID *big.Int) common.Hash {
	if chainID.Cmp(d.initialChainID) == 0 {
		return d.initialSep
	}
	return d.build(chainID)
}

func (d *Domain) build(chainID *big.Int) common.Hash {
	return crypto.Keccak256Hash(
		domainTypeHash[:],
		d.nameHash[:],
		d.versionHash[:],
		common.BigToHash(chainID).Bytes(),
		common.BytesToHash(d.Contract.Bytes()).Bytes(),
	)
}
