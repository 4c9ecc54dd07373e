package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

var eth1 = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// WeiToETH converts a wei amount to an ETH decimal string.
func WeiToETH(wei *uint256.Int) string {
	f := new(big.Float).SetInt(wei.ToBig())
	f.Quo(f, eth1)
	return strings.TrimRight(strings.TrimRight(f.Text('f', 18), "0"), ".")
}

// ParseAmount parses a value with an optional unit suffix: "1.5ether", "20gwei", "1000wei" or a
// bare integer in wei. Fractions finer than one wei are rejected.
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	decimals := 0
	switch {
	case strings.HasSuffix(s, "ether"):
		s, decimals = strings.TrimSuffix(s, "ether"), 18
	case strings.HasSuffix(s, "eth"):
		s, decimals = strings.TrimSuffix(s, "eth"), 18
	case strings.HasSuffix(s, "gwei"):
		s, decimals = strings.TrimSuffix(s, "gwei"), 9
	case strings.HasSuffix(s, "wei"):
		s = strings.TrimSuffix(s, "wei")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount %q has more than %d decimals", s, decimals)
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	out, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("amount %q overflows 256 bits", s)
	}
	return out, nil
}
