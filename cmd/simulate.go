package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/mintgate/internal/scenario"
	"github.com/Mohsinsiddi/mintgate/internal/ui"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.json>",
	Short: "Replay a scripted sale against an in-memory chain",
	Long: `Build the profile's collection on an in-memory chain and replay a scenario.

A scenario names accounts (with optional keys and balances) and a list of
steps: mint, approve, approve_all, transfer, permit, transfer_with_permit,
set_price, set_active, set_allowlist, set_max_per_address, set_channel_cap,
transfer_ownership, withdraw, fund, set_chain_id and advance. Each step may
carry an "expect" outcome ("ok" or an error kind such as "SoldOut"); the
command fails when any outcome differs.

The profile is --profile, then the scenario's "profile" field, then the
configured default.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		if profileFlag == "" {
			profileFlag = sc.Profile
		}
		p, err := loadProfile()
		if err != nil {
			return err
		}

		runner, err := scenario.New(sc, p, log.Root())
		if err != nil {
			return err
		}
		report := runner.Run(sc.Steps)

		renderSteps(report)
		renderCounters(report)

		if n := report.Failures(); n > 0 {
			return fmt.Errorf("%d of %d step(s) did not match their expected outcome", n, len(report.Steps))
		}
		fmt.Println(ui.Success(fmt.Sprintf("%d step(s) replayed.", len(report.Steps))))
		return nil
	},
}

func renderSteps(r *scenario.Report) {
	t := ui.NewTable([]ui.Column{
		{Title: "#", Width: 3, Right: true},
		{Title: "Op", Width: 20},
		{Title: "From", Width: 10},
		{Title: "Outcome", Width: 22},
		{Title: "Detail", Width: 40},
	})
	for _, s := range r.Steps {
		outcome := ui.StyleSuccess.Render(s.Outcome)
		if s.Outcome != "ok" {
			outcome = ui.Meta(s.Outcome)
		}
		if !s.Passed() {
			outcome = ui.StyleError.Render(fmt.Sprintf("%s ≠ %s", s.Outcome, s.Expect))
		}
		t.AddRow(ui.Row{fmt.Sprint(s.Index), ui.Val(s.Op), s.From, outcome, ui.Meta(s.Detail)})
	}
	fmt.Println(t.Render())
}

func renderCounters(r *scenario.Report) {
	fmt.Println(ui.KeyValueBlock("Final state", [][2]string{
		{"Minted", fmt.Sprintf("%d / %d", r.TotalMinted, r.MaxSupply)},
		{"Chain ID", r.ChainID.String()},
		{"Config version", fmt.Sprint(r.ConfigVersion)},
		{"Contract balance", ui.Ether(r.ContractBalance)},
	}))

	ch := ui.NewTable([]ui.Column{
		{Title: "Channel", Width: 9},
		{Title: "Minted", Width: 8, Right: true},
		{Title: "Cap", Width: 8, Right: true},
	})
	for _, c := range r.Channels {
		ch.AddRow(ui.Row{ui.Channel(c.Channel.String()), fmt.Sprint(c.Minted), fmt.Sprint(c.Cap)})
	}
	fmt.Println(ch.Render())

	acct := ui.NewTable([]ui.Column{
		{Title: "Account", Width: 12},
		{Title: "Address", Width: 14},
		{Title: "Tokens", Width: 7, Right: true},
		{Title: "Balance", Width: 26, Right: true},
	})
	for _, a := range r.Accounts {
		acct.AddRow(ui.Row{ui.Val(a.Name), ui.Addr(ui.TruncateAddr(a.Address.Hex())), fmt.Sprint(a.Tokens), ui.Ether(a.Balance)})
	}
	fmt.Println(acct.Render())
}
