package permit

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverSigner recovers the address that signed digest. It accepts the 65-byte r||s||v form
// (v as 0/1 or 27/28) and the 64-byte EIP-2098 compact form r||vs. Signatures with s in the
// upper half of the curve order are rejected.
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	rsv, err := normalize(sig)
	if err != nil {
		return common.Address{}, err
	}
	r := new(big.Int).SetBytes(rsv[:32])
	s := new(big.Int).SetBytes(rsv[32:64])
	if !crypto.ValidateSignatureValues(rsv[64], r, s, true) {
		return common.Address{}, fmt.Errorf("%w: signature values out of range", ErrInvalidSignature)
	}
	pub, err := crypto.SigToPub(digest[:], rsv)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// normalize returns a fresh 65-byte r||s||v with v in {0, 1}.
func normalize(sig []byte) ([]byte, error) {
	out := make([]byte, crypto.SignatureLength)
	switch len(sig) {
	case crypto.SignatureLength:
		copy(out, sig)
		if out[64] >= 27 {
			out[64] -= 27
		}
	case 64:
		copy(out[:32], sig[:32])
		copy(out[32:64], sig[32:64])
		out[64] = out[32] >> 7
		out[32] &= 0x7f
	default:
		return nil, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}
	if out[64] > 1 {
		return nil, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, out[64])
	}
	return out, nil
}

// Compact converts a 65-byte signature into its 64-byte EIP-2098 form.
func Compact(sig []byte) ([]byte, error) {
	rsv, err := normalize(sig)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 64)
	copy(out, rsv[:64])
	out[32] |= rsv[64] << 7
	return out, nil
}
