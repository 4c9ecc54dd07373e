package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/Mohsinsiddi/mintgate/internal/permit"
)

// PrivateKey loads the signing key of w.
func PrivateKey(w *Wallet, ks KeystoreBackend) (*ecdsa.PrivateKey, error) {
	if w.Type != TypeSigning {
		return nil, fmt.Errorf("wallet %q is watch-only and cannot sign", w.Name)
	}

	hexKey, err := ks.Retrieve(w.KeyRef)
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}

	privKey, err := crypto.HexToECDSA(normaliseHexKey(hexKey))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if crypto.PubkeyToAddress(privKey.PublicKey) != common.HexToAddress(w.Address) {
		return nil, fmt.Errorf("key for wallet %q does not match address %s", w.Name, w.Address)
	}
	return privKey, nil
}

// SignTypedData signs EIP-712 typed data the way eth_signTypedData_v4 does.
// Returns a 65-byte signature (R || S || V) with V in {27, 28}.
func SignTypedData(w *Wallet, ks KeystoreBackend, td apitypes.TypedData) ([]byte, error) {
	privKey, err := PrivateKey(w, ks)
	if err != nil {
		return nil, err
	}

	hash, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return nil, fmt.Errorf("hashing typed data: %w", err)
	}
	sig, err := crypto.Sign(hash, privKey)
	if err != nil {
		return nil, fmt.Errorf("signing typed data: %w", err)
	}

	// Adjust V from 0/1 to 27/28 for Ethereum compatibility.
	sig[64] += 27

	return sig, nil
}

// SignPermit signs a token permit under the collection's domain on chainID.
func SignPermit(w *Wallet, ks KeystoreBackend, domain *permit.Domain, chainID *big.Int, msg permit.Message) ([]byte, error) {
	return SignTypedData(w, ks, domain.TypedData(chainID, msg))
}

// RecoverTypedData returns the address that signed td.
func RecoverTypedData(td apitypes.TypedData, sig []byte) (common.Address, error) {
	hash, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return common.Address{}, fmt.Errorf("hashing typed data: %w", err)
	}
	return permit.RecoverSigner(common.BytesToHash(hash), sig)
}
