package scenario

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/mintgate/internal/allowlist"
	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/Mohsinsiddi/mintgate/internal/config"
	"github.com/Mohsinsiddi/mintgate/internal/ledger"
	"github.com/Mohsinsiddi/mintgate/internal/permit"
	"github.com/Mohsinsiddi/mintgate/internal/sale"
	"github.com/Mohsinsiddi/mintgate/internal/supply"
	"github.com/Mohsinsiddi/mintgate/internal/wallet"
)

const (
	ownerName      = "owner"
	collectionName = "collection"
)

var defaultBalance = uint256.MustFromDecimal("100000000000000000000")

// Runner holds a collection deployed on a simulated chain.
type Runner struct {
	sim     *chain.Sim
	ledger  *ledger.Memory
	coll    *sale.Collection
	domain  *permit.Domain
	wallets *wallet.Manager
	trees   map[supply.Channel]*allowlist.Tree

	accounts map[string]common.Address
	names    map[common.Address]string
	order    []string

	logger log.Logger
}

// New deploys the profile's collection on a fresh simulator and funds the scenario accounts.
func New(s *Scenario, p *config.Profile, logger log.Logger) (*Runner, error) {
	if logger == nil {
		logger = log.Root()
	}
	opts, err := p.SaleOptions()
	if err != nil {
		return nil, err
	}

	chainID := new(big.Int).SetUint64(s.ChainID)
	if s.ChainID == 0 {
		if chainID, err = p.ChainID(); err != nil {
			return nil, err
		}
	}
	start := time.Now().UTC().Truncate(time.Second)
	if s.Start != 0 {
		start = time.Unix(s.Start, 0).UTC()
	}

	r := &Runner{
		sim:      chain.NewSim(chainID, start),
		ledger:   ledger.NewMemory(),
		domain:   permit.NewDomain(opts.Name, opts.DomainVersion, opts.Contract, chainID),
		wallets:  wallet.NewManager(wallet.WithInMemoryStore()),
		trees:    make(map[supply.Channel]*allowlist.Tree),
		accounts: map[string]common.Address{ownerName: opts.Owner, collectionName: opts.Contract},
		names:    map[common.Address]string{opts.Owner: ownerName, opts.Contract: collectionName},
		order:    []string{ownerName},
		logger:   logger,
	}
	if err := r.addAccounts(s.Accounts, opts.Owner); err != nil {
		return nil, err
	}

	for ch, cp := range map[supply.Channel]config.ChannelProfile{supply.Presale: p.Presale, supply.Free: p.Free} {
		if len(cp.Allowlist) == 0 {
			continue
		}
		if err := r.setTree(ch, cp.Allowlist); err != nil {
			return nil, err
		}
	}

	r.coll, err = sale.New(opts, r.sim, r.ledger, sale.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runner) addAccounts(accounts map[string]Account, owner common.Address) error {
	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		acct := accounts[name]
		addr, err := r.register(name, acct)
		if err != nil {
			return fmt.Errorf("account %s: %w", name, err)
		}
		if name == ownerName && addr != owner {
			return fmt.Errorf("account owner: key does not match profile owner %s", owner.Hex())
		}
		balance := defaultBalance
		if acct.Balance != "" {
			if balance, err = chain.ParseAmount(acct.Balance); err != nil {
				return fmt.Errorf("account %s: %w", name, err)
			}
		}
		r.sim.Fund(addr, balance)
	}
	if _, ok := accounts[ownerName]; !ok {
		r.sim.Fund(owner, defaultBalance)
	}
	return nil
}

// register resolves an account's address and stores its key in the wallet manager.
func (r *Runner) register(name string, acct Account) (common.Address, error) {
	switch {
	case acct.Key != "":
		w, err := r.wallets.AddWithKey(name, acct.Key)
		if err != nil {
			return common.Address{}, err
		}
		r.track(name, common.HexToAddress(w.Address))
		return common.HexToAddress(w.Address), nil
	case acct.Address != "":
		if !common.IsHexAddress(acct.Address) {
			return common.Address{}, fmt.Errorf("invalid address %q", acct.Address)
		}
		addr := common.HexToAddress(acct.Address)
		r.track(name, addr)
		return addr, nil
	}
	if name == ownerName {
		r.track(name, r.accounts[ownerName])
		return r.accounts[ownerName], nil
	}

	key, err := crypto.ToECDSA(crypto.Keccak256([]byte("mintgate:" + name)))
	if err != nil {
		return common.Address{}, err
	}
	w, err := r.wallets.AddWithKey(name, hex.EncodeToString(crypto.FromECDSA(key)))
	if err != nil {
		return common.Address{}, err
	}
	r.track(name, common.HexToAddress(w.Address))
	return common.HexToAddress(w.Address), nil
}

func (r *Runner) track(name string, addr common.Address) {
	if _, seen := r.accounts[name]; !seen {
		r.order = append(r.order, name)
	}
	r.accounts[name] = addr
	r.names[addr] = name
}

// resolve maps an account name or hex address to an address.
func (r *Runner) resolve(s string) (common.Address, error) {
	if addr, ok := r.accounts[s]; ok {
		return addr, nil
	}
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	return common.Address{}, fmt.Errorf("unknown account %q", s)
}

// name returns the account name of addr, or its short hex form.
func (r *Runner) name(addr common.Address) string {
	if n, ok := r.names[addr]; ok {
		return n
	}
	h := addr.Hex()
	return h[:6] + "…" + h[len(h)-4:]
}

func (r *Runner) setTree(ch supply.Channel, entries []string) error {
	addrs := make([]common.Address, 0, len(entries))
	for _, e := range entries {
		addr, err := r.resolve(strings.TrimSpace(e))
		if err != nil {
			return fmt.Errorf("%s allowlist: %w", ch, err)
		}
		addrs = append(addrs, addr)
	}
	tree, err := allowlist.NewTree(addrs)
	if err != nil {
		return fmt.Errorf("%s allowlist: %w", ch, err)
	}
	r.trees[ch] = tree
	return nil
}

// proof returns addr's proof for ch, or nil when no allowlist is known or addr is not on it.
func (r *Runner) proof(ch supply.Channel, addr common.Address) []common.Hash {
	tree, ok := r.trees[ch]
	if !ok {
		return nil
	}
	proof, err := tree.Proof(addr)
	if err != nil {
		return nil
	}
	return proof
}

// Collection exposes the deployed collection.
func (r *Runner) Collection() *sale.Collection { return r.coll }

// Sim exposes the simulated chain.
func (r *Runner) Sim() *chain.Sim { return r.sim }

// Address returns the address of a named account.
func (r *Runner) Address(name string) (common.Address, error) { return r.resolve(name) }
