// Package scenario replays a scripted sequence of collection calls against an in-memory chain.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/sale"
)

// Account is a named participant. Without a key or address a key is derived from the name.
// Balance defaults to 100 ether.
type Account struct {
	Key     string `json:"key,omitempty"`
	Address string `json:"address,omitempty"`
	Balance string `json:"balance,omitempty"`
}

// Step is one call. Which fields matter depends on Op; From defaults to "owner".
type Step struct {
	Op      string `json:"op"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Owner   string `json:"owner,omitempty"`
	Spender string `json:"spender,omitempty"`
	Channel string `json:"channel,omitempty"`
	Qty     uint64 `json:"qty,omitempty"`
	Token   uint64 `json:"token,omitempty"`
	Value   string `json:"value,omitempty"`
	Limit   uint64 `json:"limit,omitempty"`
	Active  *bool  `json:"active,omitempty"`

	// Deadline is unix seconds, or "+1h"/"-5m" relative to the simulated clock.
	Deadline    string `json:"deadline,omitempty"`
	SignChainID uint64 `json:"sign_chain_id,omitempty"`

	ChainID   uint64   `json:"chain_id,omitempty"`
	Seconds   int64    `json:"seconds,omitempty"`
	Allowlist []string `json:"allowlist,omitempty"`

	// Expect is "ok" or an error kind such as "InsufficientPayment". Empty accepts anything.
	Expect string `json:"expect,omitempty"`
}

// Scenario is the file format read by `mintgate simulate`.
type Scenario struct {
	Profile  string             `json:"profile,omitempty"`
	ChainID  uint64             `json:"chain_id,omitempty"`
	Start    int64              `json:"start,omitempty"`
	Accounts map[string]Account `json:"accounts"`
	Steps    []Step             `json:"steps"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &s, nil
}

// kinds maps error kinds to the sentinels they match. CallError matches ValueTransferFailed.
var kinds = []struct {
	name string
	err  error
}{
	{"ZeroQuantity", sale.ErrZeroQuantity},
	{"ChannelInactive", sale.ErrChannelInactive},
	{"InsufficientPayment", sale.ErrInsufficientPayment},
	{"InvalidProof", sale.ErrInvalidProof},
	{"NonPayable", sale.ErrNonPayable},
	{"ReentrantCall", sale.ErrReentrantCall},
	{"InvalidConfig", sale.ErrInvalidConfig},
	{"GlobalSupplyExceeded", sale.ErrGlobalSupplyExceeded},
	{"ChannelSupplyExceeded", sale.ErrChannelSupplyExceeded},
	{"QuotaExceeded", sale.ErrQuotaExceeded},
	{"InvalidCap", sale.ErrInvalidCap},
	{"InvalidQuota", sale.ErrInvalidQuota},
	{"UnknownChannel", sale.ErrUnknownChannel},
	{"PermitExpired", sale.ErrPermitExpired},
	{"InvalidSignature", sale.ErrInvalidSignature},
	{"SelfApproval", sale.ErrSelfApproval},
	{"Unauthorized", sale.ErrUnauthorized},
	{"NonexistentToken", sale.ErrNonexistentToken},
	{"ZeroAddress", sale.ErrZeroAddress},
	{"NotOwner", sale.ErrNotOwner},
	{"InvalidRoyalty", sale.ErrInvalidRoyalty},
	{"NotOperator", sale.ErrNotOperator},
	{"ValueTransferFailed", sale.ErrValueTransferFailed},
}

// Kind names the failure kind of err: "ok" for nil, "Error" when it matches none.
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Error"
}

// deadline resolves a step deadline against now. Empty means one hour from now.
func deadline(s string, now time.Time) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "+1h"
	}
	if s[0] == '+' || s[0] == '-' {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline %q: %w", s, err)
		}
		t := now.Add(d).Unix()
		if t < 0 {
			t = 0
		}
		return uint256.NewInt(uint64(t)), nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid deadline %q: %w", s, err)
	}
	return uint256.NewInt(n), nil
}

func secondsDuration(n int64) time.Duration { return time.Duration(n) * time.Second }
