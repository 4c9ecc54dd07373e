package permit

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/holiman/uint256"
)

var eip712Domain = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

var permitType = []apitypes.Type{
	{Name: "spender", Type: "address"},
	{Name: "tokenId", Type: "uint256"},
	{Name: "nonce", Type: "uint256"},
	{Name: "deadline", Type: "uint256"},
}

// Message is one permit as an off-chain signer sees it.
type Message struct {
	Spender  common.Address `json:"spender"`
	TokenID  uint64         `json:"tokenId"`
	Nonce    uint64         `json:"nonce"`
	Deadline *uint256.Int   `json:"deadline"`
}

// TypedData renders msg under domain d on chainID in the eth_signTypedData_v4 shape.
func (d *Domain) TypedData(chainID *big.Int, msg Message) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712Domain,
			"Permit":       permitType,
		},
		PrimaryType: "Permit",
		Domain: apitypes.TypedDataDomain{
			Name:              d.Name,
			Version:           d.Version,
			ChainId:           (*math.HexOrDecimal256)(new(big.Int).Set(chainID)),
			VerifyingContract: d.Contract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"spender":  msg.Spender.Hex(),
			"tokenId":  new(big.Int).SetUint64(msg.TokenID).String(),
			"nonce":    new(big.Int).SetUint64(msg.Nonce).String(),
			"deadline": msg.Deadline.Dec(),
		},
	}
}
