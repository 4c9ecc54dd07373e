package cmd

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/mintgate/internal/config"
	"github.com/Mohsinsiddi/mintgate/internal/permit"
	"github.com/Mohsinsiddi/mintgate/internal/royalty"
	"github.com/Mohsinsiddi/mintgate/internal/sale"
	"github.com/Mohsinsiddi/mintgate/internal/supply"
	"github.com/Mohsinsiddi/mintgate/internal/ui"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect deployment profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deployment profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := cfg.Profiles()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println(ui.Info("No profiles yet."))
			fmt.Println(ui.Hint("Create one with: mintgate init"))
			return nil
		}
		t := ui.NewTable([]ui.Column{
			{Title: "Profile", Width: 16},
			{Title: "Collection", Width: 24},
			{Title: "Network", Width: 12},
			{Title: "Supply", Width: 8, Right: true},
			{Title: "Default", Width: 8},
		})
		for _, name := range names {
			p, err := cfg.LoadProfile(name)
			if err != nil {
				t.AddRow(ui.Row{ui.Val(name), ui.Err(err.Error()), "", "", ""})
				continue
			}
			def := ""
			if name == cfg.DefaultProfile {
				def = ui.StyleSuccess.Render("✓")
			}
			t.AddRow(ui.Row{ui.Val(name), p.Name, networkLabel(p), fmt.Sprint(p.MaxSupply), def})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Render a deployment profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			profileFlag = args[0]
		}
		pc, err := loadProfileContext()
		if err != nil {
			return err
		}
		opts := pc.opts

		pairs := [][2]string{
			{"Name", opts.Name},
			{"Symbol", opts.Symbol},
			{"Network", networkLabel(pc.profile)},
			{"Chain ID", pc.chainID.String()},
			{"Contract", opts.Contract.Hex()},
			{"Owner", opts.Owner.Hex()},
			{"Max supply", fmt.Sprint(opts.MaxSupply)},
			{"Payment", opts.Config.Payment.String()},
		}
		if opts.Config.Beneficiary != (common.Address{}) {
			pairs = append(pairs, [2]string{"Beneficiary", opts.Config.Beneficiary.Hex()})
		}
		if opts.DefaultRoyalty != nil {
			pairs = append(pairs, [2]string{"Default royalty", royaltyLabel(*opts.DefaultRoyalty)})
		}
		if opts.Config.RoyaltyOnMint {
			pairs = append(pairs, [2]string{"Royalty on mint", "yes"})
		}
		if opts.Config.BaseURI != "" {
			pairs = append(pairs, [2]string{"Base URI", opts.Config.BaseURI + "{id}" + opts.Config.URISuffix})
		}
		if opts.Config.PreRevealURI != "" {
			pairs = append(pairs, [2]string{"Pre-reveal URI", opts.Config.PreRevealURI})
			pairs = append(pairs, [2]string{"Reveal threshold", fmt.Sprint(opts.Config.RevealThreshold)})
		}
		pairs = append(pairs, [2]string{"Domain separator", pc.domain.Separator(pc.chainID).Hex()})
		fmt.Println(ui.KeyValueBlock("Profile "+pc.name, pairs))

		t := ui.NewTable([]ui.Column{
			{Title: "Channel", Width: 9},
			{Title: "Active", Width: 7},
			{Title: "Price", Width: 16, Right: true},
			{Title: "Cap", Width: 8, Right: true},
			{Title: "Quota", Width: 7, Right: true},
			{Title: "Root", Width: 20},
		})
		for _, ch := range supply.Channels() {
			active, price, root := "-", "-", "-"
			if cc := channelConfig(opts.Config, ch); cc != nil {
				active = yesNo(cc.Active)
				price = ui.Ether(cc.Price)
				if cc.Root != (common.Hash{}) {
					root = ui.TruncateAddr(cc.Root.Hex())
				}
			}
			capacity := opts.MaxSupply
			if c, ok := opts.Caps[ch]; ok {
				capacity = c
			}
			quota := "∞"
			if q, ok := opts.Quotas[ch]; ok {
				quota = fmt.Sprint(q)
			}
			t.AddRow(ui.Row{ui.Channel(ch.String()), active, price, fmt.Sprint(capacity), quota, ui.Meta(root)})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var profileValidateCmd = &cobra.Command{
	Use:   "validate [name]",
	Short: "Check a profile builds a valid collection",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			profileFlag = args[0]
		}
		p, err := loadProfile()
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			if errors.Is(err, sale.ErrInvalidConfig) {
				fmt.Println(ui.Err(err.Error()))
				return fmt.Errorf("profile is not deployable")
			}
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Profile %q is valid.", p.Name)))
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the default profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) > 0 {
			name = args[0]
		} else {
			names, err := cfg.Profiles()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println(ui.Info("No profiles yet."))
				return nil
			}
			items := make([]ui.PickerItem, len(names))
			for i, n := range names {
				items[i] = ui.PickerItem{Label: n, Value: n, Current: n == cfg.DefaultProfile}
			}
			if name, err = ui.PickItem("Default Profile", items); err != nil {
				return err
			}
			if name == "" {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
		}

		if _, err := cfg.LoadProfile(name); err != nil {
			return err
		}
		cfg.DefaultProfile = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default profile set to %q.", name)))
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileListCmd, profileShowCmd, profileValidateCmd, profileUseCmd)
}

// profileContext is a loaded profile with everything derived from it.
type profileContext struct {
	name    string
	profile *config.Profile
	opts    sale.Options
	chainID *big.Int
	domain  *permit.Domain
}

// loadProfileContext loads the selected profile and derives its collection options and
// permit domain.
func loadProfileContext() (*profileContext, error) {
	p, err := loadProfile()
	if err != nil {
		return nil, err
	}
	opts, err := p.SaleOptions()
	if err != nil {
		return nil, err
	}
	chainID, err := p.ChainID()
	if err != nil {
		return nil, err
	}
	name := profileFlag
	if name == "" {
		name = cfg.DefaultProfile
	}
	return &profileContext{
		name:    name,
		profile: p,
		opts:    opts,
		chainID: chainID,
		domain:  permit.NewDomain(opts.Name, opts.DomainVersion, opts.Contract, chainID),
	}, nil
}

func channelConfig(c sale.Config, ch supply.Channel) *sale.ChannelConfig {
	switch ch {
	case supply.Public:
		return &c.Public
	case supply.Presale:
		return &c.Presale
	case supply.Free:
		return &c.Free
	}
	return nil
}

func networkLabel(p *config.Profile) string {
	n := p.Network
	if n == "" {
		n = "ethereum"
	}
	if p.Testnet {
		n += " (testnet)"
	}
	return n
}

func royaltyLabel(r royalty.Rate) string {
	pct := float64(r.Numerator) * 100 / float64(royalty.FeeDenominator)
	return fmt.Sprintf("%.3g%% to %s", pct, r.Receiver.Hex())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
