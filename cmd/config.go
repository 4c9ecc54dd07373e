package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/Mohsinsiddi/mintgate/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetDefaultNetworkCmd = &cobra.Command{
	Use:   "set-default-network <chain>",
	Short: "Set the network new profiles target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chain.NewRegistry().GetByName(args[0])
		if err != nil {
			return fmt.Errorf("unknown network %q: %w", args[0], err)
		}
		cfg.DefaultNetwork = c.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default network set to %q", c.Name)))
		return nil
	},
}

var configSetNetworkModeCmd = &cobra.Command{
	Use:       "set-network-mode <mainnet|testnet>",
	Short:     "Choose mainnet or testnet chain ids for new profiles",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"mainnet", "testnet"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := args[0]
		if mode != "mainnet" && mode != "testnet" {
			return fmt.Errorf("network mode must be mainnet or testnet, got %q", mode)
		}
		cfg.NetworkMode = mode
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Network mode set to %q", mode)))
		return nil
	},
}

var configNetworksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List known networks and their chain ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := ui.NewTable([]ui.Column{
			{Title: "Network", Width: 12},
			{Title: "Name", Width: 18},
			{Title: "Mainnet", Width: 10, Right: true},
			{Title: "Testnet", Width: 20},
		})
		for _, c := range chain.NewRegistry().All() {
			testnet := "-"
			if c.TestnetChainID != 0 {
				testnet = fmt.Sprintf("%d %s", c.TestnetChainID, c.TestnetName)
			}
			name := c.Name
			if name == cfg.DefaultNetwork {
				name += " *"
			}
			t.AddRow(ui.Row{ui.Val(name), c.DisplayName, fmt.Sprint(c.ChainID), ui.Meta(testnet)})
		}
		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd, configSetDefaultNetworkCmd, configSetNetworkModeCmd, configNetworksCmd)
}
