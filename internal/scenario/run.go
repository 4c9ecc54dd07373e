package scenario

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/Mohsinsiddi/mintgate/internal/permit"
	"github.com/Mohsinsiddi/mintgate/internal/sale"
	"github.com/Mohsinsiddi/mintgate/internal/supply"
	"github.com/Mohsinsiddi/mintgate/internal/wallet"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Index   int
	Op      string
	From    string
	Outcome string // "ok" or an error kind
	Expect  string
	Detail  string
}

// Passed reports whether the outcome matches the expectation.
func (s StepResult) Passed() bool {
	return s.Expect == "" || strings.EqualFold(s.Expect, s.Outcome)
}

// ChannelSummary is the final state of one channel.
type ChannelSummary struct {
	Channel supply.Channel
	Minted  uint64
	Cap     uint64
}

// AccountSummary is the final state of one account.
type AccountSummary struct {
	Name    string
	Address common.Address
	Tokens  uint64
	Balance *uint256.Int
}

// Report collects the step results and the final counters.
type Report struct {
	Steps           []StepResult
	TotalMinted     uint64
	MaxSupply       uint64
	ChainID         *big.Int
	ConfigVersion   uint64
	ContractBalance *uint256.Int
	Channels        []ChannelSummary
	Accounts        []AccountSummary
}

// Failures counts steps whose outcome did not match their expectation.
func (r *Report) Failures() int {
	n := 0
	for _, s := range r.Steps {
		if !s.Passed() {
			n++
		}
	}
	return n
}

// Run executes steps in order. A failing step never stops the run.
func (r *Runner) Run(steps []Step) *Report {
	rep := &Report{}
	for i, step := range steps {
		from := step.From
		if from == "" {
			from = ownerName
		}
		detail, err := r.step(from, step)
		res := StepResult{
			Index:   i + 1,
			Op:      step.Op,
			From:    from,
			Outcome: Kind(err),
			Expect:  step.Expect,
			Detail:  detail,
		}
		if err != nil {
			res.Detail = err.Error()
		}
		if !res.Passed() {
			r.logger.Warn("Step outcome differs from expectation", "step", res.Index, "op", step.Op, "want", step.Expect, "got", res.Outcome)
		}
		rep.Steps = append(rep.Steps, res)
	}
	r.summarize(rep)
	return rep
}

func (r *Runner) summarize(rep *Report) {
	c := r.coll
	rep.TotalMinted = c.TotalMinted()
	rep.MaxSupply = c.MaxSupply()
	rep.ChainID = r.sim.ChainID()
	rep.ConfigVersion = c.Config().Version
	rep.ContractBalance = c.Balance()
	for _, ch := range supply.Channels() {
		rep.Channels = append(rep.Channels, ChannelSummary{Channel: ch, Minted: c.ChannelMinted(ch), Cap: c.ChannelCap(ch)})
	}
	for _, name := range r.order {
		addr := r.accounts[name]
		tokens, _ := c.BalanceOf(addr)
		rep.Accounts = append(rep.Accounts, AccountSummary{
			Name:    name,
			Address: addr,
			Tokens:  tokens,
			Balance: r.sim.Balance(addr),
		})
	}
}

// step performs one call and returns a short description of what happened.
func (r *Runner) step(from string, s Step) (string, error) {
	sender, err := r.resolve(from)
	if err != nil {
		return "", err
	}
	msg := chain.Msg{From: sender}
	if s.Value != "" && s.Op != "withdraw" && s.Op != "fund" && s.Op != "set_price" {
		if msg.Value, err = chain.ParseAmount(s.Value); err != nil {
			return "", err
		}
	}
	c := r.coll

	switch strings.ToLower(s.Op) {
	case "mint":
		return r.mint(msg, s)

	case "approve":
		spender, err := r.resolve(s.Spender)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("#%d → %s", s.Token, r.name(spender)), c.Approve(msg, spender, s.Token)

	case "approve_all":
		operator, err := r.resolve(s.Spender)
		if err != nil {
			return "", err
		}
		return r.name(operator), c.SetApprovalForAll(msg, operator, s.Active == nil || *s.Active)

	case "transfer":
		owner, to, err := r.ownerAndRecipient(s)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("#%d %s → %s", s.Token, r.name(owner), r.name(to)), c.TransferFrom(msg, owner, to, s.Token)

	case "permit":
		spender, err := r.resolve(s.Spender)
		if err != nil {
			return "", err
		}
		dl, sig, err := r.sign(s, spender)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("#%d → %s", s.Token, r.name(spender)), c.Permit(msg, spender, s.Token, dl, sig)

	case "transfer_with_permit":
		owner, to, err := r.ownerAndRecipient(s)
		if err != nil {
			return "", err
		}
		dl, sig, err := r.sign(s, sender)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("#%d %s → %s", s.Token, r.name(owner), r.name(to)), c.TransferWithPermit(msg, owner, to, s.Token, dl, sig)

	case "set_price":
		ch, err := supply.ParseChannel(s.Channel)
		if err != nil {
			return "", err
		}
		price, err := chain.ParseAmount(s.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s", ch, s.Value), c.SetPrice(msg, ch, price)

	case "set_active":
		ch, err := supply.ParseChannel(s.Channel)
		if err != nil {
			return "", err
		}
		active := s.Active == nil || *s.Active
		return fmt.Sprintf("%s %t", ch, active), c.SetActive(msg, ch, active)

	case "set_allowlist":
		ch, err := supply.ParseChannel(s.Channel)
		if err != nil {
			return "", err
		}
		prev, had := r.trees[ch]
		if err := r.setTree(ch, s.Allowlist); err != nil {
			return "", err
		}
		if err := c.SetRoot(msg, ch, r.trees[ch].Root()); err != nil {
			if had {
				r.trees[ch] = prev
			} else {
				delete(r.trees, ch)
			}
			return "", err
		}
		return fmt.Sprintf("%s %d entries", ch, r.trees[ch].Len()), nil

	case "set_max_per_address":
		ch, err := supply.ParseChannel(s.Channel)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %d", ch, s.Limit), c.SetMaxPerAddress(msg, ch, s.Limit)

	case "set_channel_cap":
		ch, err := supply.ParseChannel(s.Channel)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %d", ch, s.Limit), c.SetChannelCap(msg, ch, s.Limit)

	case "transfer_ownership":
		next, err := r.resolve(s.To)
		if err != nil {
			return "", err
		}
		return r.name(next), c.TransferOwnership(msg, next)

	case "withdraw":
		to, err := r.resolve(s.To)
		if err != nil {
			return "", err
		}
		amount := c.Balance()
		if s.Value != "" {
			if amount, err = chain.ParseAmount(s.Value); err != nil {
				return "", err
			}
		}
		_, err = c.ExecTransaction(msg, to, nil, amount)
		return fmt.Sprintf("%s ETH → %s", chain.WeiToETH(amount), r.name(to)), err

	case "fund":
		to, err := r.resolve(s.To)
		if err != nil {
			return "", err
		}
		amount, err := chain.ParseAmount(s.Value)
		if err != nil {
			return "", err
		}
		r.sim.Fund(to, amount)
		return fmt.Sprintf("%s ETH → %s", chain.WeiToETH(amount), r.name(to)), nil

	case "set_chain_id":
		r.sim.SetChainID(new(big.Int).SetUint64(s.ChainID))
		return fmt.Sprintf("chain id %d", s.ChainID), nil

	case "advance":
		d := secondsDuration(s.Seconds)
		r.sim.Advance(d)
		return fmt.Sprintf("+%s", d), nil
	}
	return "", fmt.Errorf("unknown op %q", s.Op)
}

func (r *Runner) mint(msg chain.Msg, s Step) (string, error) {
	ch := supply.Public
	if s.Channel != "" {
		var err error
		if ch, err = supply.ParseChannel(s.Channel); err != nil {
			return "", err
		}
	}
	to := msg.From
	if s.To != "" {
		var err error
		if to, err = r.resolve(s.To); err != nil {
			return "", err
		}
	}
	if msg.Value == nil {
		msg.Value = r.listPrice(ch, s.Qty)
	}

	var (
		first uint64
		err   error
	)
	switch ch {
	case supply.Public:
		first, err = r.coll.Mint(msg, to, s.Qty)
	case supply.Presale:
		first, err = r.coll.PresaleMint(msg, to, s.Qty, r.proof(ch, msg.From))
	case supply.Free:
		first, err = r.coll.FreeMint(msg, to, s.Qty, r.proof(ch, msg.From))
	case supply.Reserve:
		first, err = r.coll.ReserveMint(msg, to, s.Qty)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s #%d-#%d → %s", ch, first, first+s.Qty-1, r.name(to)), nil
}

// listPrice is the exact cost of qty units on ch, zero for unpriced channels or on overflow.
func (r *Runner) listPrice(ch supply.Channel, qty uint64) *uint256.Int {
	cfg := r.coll.Config()
	var cc sale.ChannelConfig
	switch ch {
	case supply.Public:
		cc = cfg.Public
	case supply.Presale:
		cc = cfg.Presale
	default:
		return new(uint256.Int)
	}
	if cc.Price == nil {
		return new(uint256.Int)
	}
	total, overflow := new(uint256.Int).MulOverflow(cc.Price, uint256.NewInt(qty))
	if overflow {
		return new(uint256.Int)
	}
	return total
}

func (r *Runner) ownerAndRecipient(s Step) (common.Address, common.Address, error) {
	to, err := r.resolve(s.To)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	if s.Owner == "" {
		owner, err := r.coll.OwnerOf(s.Token)
		return owner, to, err
	}
	owner, err := r.resolve(s.Owner)
	return owner, to, err
}

// sign produces the token holder's permit for spender. The signer is s.Owner, or the
// current holder of the token.
func (r *Runner) sign(s Step, spender common.Address) (*uint256.Int, []byte, error) {
	signerName := s.Owner
	if signerName == "" {
		holder, err := r.coll.OwnerOf(s.Token)
		if err != nil {
			return nil, nil, err
		}
		signerName = r.name(holder)
	}
	w, err := r.wallets.Get(signerName)
	if err != nil {
		return nil, nil, fmt.Errorf("no key for %s: %w", signerName, err)
	}

	dl, err := deadline(s.Deadline, r.sim.Now())
	if err != nil {
		return nil, nil, err
	}
	nonce, err := r.coll.Nonces(s.Token)
	if err != nil {
		return nil, nil, err
	}
	chainID := r.sim.ChainID()
	if s.SignChainID != 0 {
		chainID = new(big.Int).SetUint64(s.SignChainID)
	}

	msg := permit.Message{Spender: spender, TokenID: s.Token, Nonce: nonce, Deadline: dl}
	sig, err := wallet.SignPermit(w, r.wallets.Keystore(), r.domain, chainID, msg)
	if err != nil {
		return nil, nil, err
	}
	return dl, sig, nil
}
