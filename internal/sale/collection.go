// Package sale composes the issuance channels, allowlists, permits, royalties and the
// fund-recovery executor into one collection.
//
// Every state-changing entrypoint takes a chain.Msg describing the caller and the value they
// attached, holds the reentrancy guard for its whole duration, and is atomic: on any error the
// environment, the token ledger and the collection's own counters are rolled back together.
package sale

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/Mohsinsiddi/mintgate/internal/access"
	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/Mohsinsiddi/mintgate/internal/executor"
	"github.com/Mohsinsiddi/mintgate/internal/ledger"
	"github.com/Mohsinsiddi/mintgate/internal/permit"
	"github.com/Mohsinsiddi/mintgate/internal/royalty"
	"github.com/Mohsinsiddi/mintgate/internal/supply"
)

// Collection is one token collection with its sale rules. It is not safe for concurrent use;
// the surrounding environment serializes calls.
type Collection struct {
	name   string
	symbol string
	self   common.Address

	backend   chain.Backend
	ledger    ledger.Ledger
	owner     *access.Owner
	supply    *supply.Ledger
	permits   *permit.Authority
	royalties *royalty.Policy
	exec      *executor.Executor

	cfg    Config
	guard  guard
	logger log.Logger
}

// Option configures a Collection.
type Option func(*Collection)

// WithLogger sets the logger. The default is log.Root().
func WithLogger(l log.Logger) Option {
	return func(c *Collection) { c.logger = l }
}

// New builds a collection at opts.Contract on top of backend and ldg.
func New(opts Options, backend chain.Backend, ldg ledger.Ledger, options ...Option) (*Collection, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c := &Collection{
		name:      opts.Name,
		symbol:    opts.Symbol,
		self:      opts.Contract,
		backend:   backend,
		ledger:    ldg,
		owner:     access.NewOwner(opts.Owner),
		supply:    supply.New(opts.MaxSupply),
		royalties: royalty.NewPolicy(),
		cfg:       opts.Config.Clone(),
		logger:    log.Root(),
	}
	for _, o := range options {
		o(c)
	}
	c.logger = c.logger.New("collection", opts.Contract)

	for ch, limit := range opts.Caps {
		if err := c.supply.SetChannelCap(ch, limit); err != nil {
			return nil, err
		}
	}
	for ch, limit := range opts.Quotas {
		if err := c.supply.SetMaxPerAddress(ch, limit); err != nil {
			return nil, err
		}
	}
	if opts.DefaultRoyalty != nil {
		if err := c.royalties.SetDefault(*opts.DefaultRoyalty); err != nil {
			return nil, err
		}
	}
	c.permits = permit.New(opts.Name, opts.DomainVersion, opts.Contract, ldg, backend)
	c.exec = executor.New(backend, opts.Contract, c.logger)
	return c, nil
}

// txn records how to undo one entrypoint.
type txn struct {
	envSnap    int
	ledgerSnap int
	undo       []func()
}

func (t *txn) onRollback(f func()) { t.undo = append(t.undo, f) }

func (c *Collection) begin() *txn {
	return &txn{envSnap: c.backend.Snapshot(), ledgerSnap: c.ledger.Snapshot()}
}

func (c *Collection) rollback(t *txn) {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	c.ledger.RevertToSnapshot(t.ledgerSnap)
	c.backend.RevertToSnapshot(t.envSnap)
}

func (c *Collection) commit(t *txn) {
	c.ledger.Commit(t.ledgerSnap)
	c.backend.Commit(t.envSnap)
}

// call runs fn as one guarded, atomic entrypoint. For payable entrypoints the attached value is
// moved into the collection's account first, so a rollback also returns it to the caller.
func (c *Collection) call(msg chain.Msg, payable bool, fn func(*txn) error) error {
	release, err := c.guard.enter()
	if err != nil {
		return err
	}
	defer release()

	paid := msg.Paid()
	if !payable && !paid.IsZero() {
		return ErrNonPayable
	}
	tx := c.begin()
	if !paid.IsZero() {
		if res := c.backend.Transfer(msg.From, c.self, paid); !res.Success {
			c.rollback(tx)
			return chain.NewCallError(c.self, paid, res)
		}
	}
	if err := fn(tx); err != nil {
		c.rollback(tx)
		return err
	}
	c.commit(tx)
	return nil
}

// operate runs fn as an operator-only configuration change and bumps the config version.
func (c *Collection) operate(msg chain.Msg, what string, fn func() error) error {
	return c.call(msg, false, func(*txn) error {
		if err := c.owner.Check(msg.From); err != nil {
			return err
		}
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
		c.cfg.Version++
		c.logger.Info("Configuration changed", "change", what, "version", c.cfg.Version)
		return nil
	})
}
