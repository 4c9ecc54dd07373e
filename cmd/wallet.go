package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/mintgate/internal/ui"
	"github.com/Mohsinsiddi/mintgate/internal/wallet"
)

// Key backends selectable with --keystore.
const (
	keystoreKeyring = "keyring"
	keystoreAWS     = "aws"
)

var (
	walletKeyFlag string
	keystoreFlag  string
	awsRegionFlag string
	awsPrefixFlag string
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage signing wallets",
	Long: `Manage the wallets used to sign permits.

Private keys go to the OS keychain (encrypted file fallback on headless
Linux) or, with --keystore aws, to AWS Secrets Manager. Wallet metadata lives
in <config>/wallets.json. Set ` + wallet.KeyEnvVar + ` to override every stored key.`,
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a wallet",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr, err := newWalletManager(cmd.Context())
		if err != nil {
			return err
		}

		if walletKeyFlag != "" {
			// Signing wallet.
			w, err := mgr.AddWithKey(name, walletKeyFlag)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("Signing wallet %q added: %s", name, ui.Addr(w.Address))))
			fmt.Println(ui.Hint(fmt.Sprintf("Set as default with: mintgate wallet use %s", name)))
			return nil
		}

		if len(args) < 2 {
			return fmt.Errorf("address required for watch-only wallet\n  Usage: mintgate wallet add <name> <address>\n  Or for signing: mintgate wallet add <name> --key <private-key>")
		}
		address := args[1]
		if err := mgr.Add(name, &wallet.Wallet{
			Name:    name,
			Address: address,
			Type:    wallet.TypeWatchOnly,
		}); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(address))))
		fmt.Println(ui.Hint(fmt.Sprintf("Set as default with: mintgate wallet use %s", name)))
		return nil
	},
}

var walletImportCmd = &cobra.Command{
	Use:   "import <name> <keystore.json>",
	Short: "Import an encrypted keystore (v3) file",
	Long: `Decrypt a Web3 Secret Storage file, as written by geth, clef or foundry,
and store the key as a signing wallet. The password is read from the terminal.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]
		keyJSON, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading keystore file: %w", err)
		}
		password, err := wallet.TerminalPassword(fmt.Sprintf("Password for %s", path))
		if err != nil {
			return err
		}
		mgr, err := newWalletManager(cmd.Context())
		if err != nil {
			return err
		}
		w, err := mgr.Import(name, keyJSON, password)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Signing wallet %q imported: %s", name, ui.Addr(w.Address))))
		return nil
	},
}

var walletGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a new signing wallet",
	Long: `Generate a fresh secp256k1 keypair and store the private key.

The private key is displayed ONCE immediately after creation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr, err := newWalletManager(cmd.Context())
		if err != nil {
			return err
		}
		w, hexKey, err := mgr.Generate(name)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("  %s  %s\n", ui.Meta("Wallet :"), ui.Val(w.Name))
		fmt.Printf("  %s  %s\n\n", ui.Meta("Address:"), ui.Addr(w.Address))
		fmt.Println(ui.Warn("Private key, shown only once. Never share it."))
		fmt.Println("  " + ui.Val(hexKey))
		fmt.Println()
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager(cmd.Context())
		if err != nil {
			return err
		}
		wallets := mgr.List()

		if len(wallets) == 0 {
			fmt.Println(ui.Info("No wallets configured yet."))
			fmt.Println(ui.Hint("Add one with: mintgate wallet add signer --key <private-key>"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 44},
			{Title: "Type", Width: 12},
			{Title: "Default", Width: 8},
		})
		for _, w := range wallets {
			def := ""
			if w.IsDefault {
				def = ui.StyleSuccess.Render("✓")
			}
			t.AddRow(ui.Row{
				ui.Val(w.Name),
				ui.Addr(w.Address),
				ui.Meta(walletTypeLabel(w.Type)),
				def,
			})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !ui.ConfirmDanger(fmt.Sprintf("Remove wallet %q?", name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		mgr, err := newWalletManager(cmd.Context())
		if err != nil {
			return err
		}
		if err := mgr.Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the default wallet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager(cmd.Context())
		if err != nil {
			return err
		}

		var name string
		if len(args) > 0 {
			name = args[0]
		} else {
			var items []ui.PickerItem
			for _, w := range mgr.List() {
				items = append(items, ui.PickerItem{
					Label:    w.Name,
					SubLabel: ui.TruncateAddr(w.Address) + "  " + walletTypeLabel(w.Type),
					Value:    w.Name,
					Current:  w.IsDefault,
				})
			}
			if len(items) == 0 {
				fmt.Println(ui.Info("No wallets configured yet."))
				return nil
			}
			if name, err = ui.PickItem("Default Wallet", items); err != nil {
				return err
			}
			if name == "" {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
		}

		if err := mgr.SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		fmt.Println(ui.Hint("Permits are signed with this wallet when --wallet is not specified."))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key for a signing wallet")
	walletCmd.AddCommand(walletAddCmd, walletImportCmd, walletGenerateCmd, walletListCmd, walletRemoveCmd, walletUseCmd)
}

// walletTypeLabel converts an internal wallet type to a user-friendly label.
func walletTypeLabel(t string) string {
	switch t {
	case wallet.TypeSigning:
		return "signing"
	default:
		return t
	}
}

// newKeystore opens the key backend chosen with --keystore.
func newKeystore(ctx context.Context) (wallet.KeystoreBackend, error) {
	switch keystoreFlag {
	case "", keystoreKeyring:
		return wallet.DefaultKeystore(cfg.Dir()), nil
	case keystoreAWS:
		return wallet.LoadSecretsKeystore(ctx, awsRegionFlag, awsPrefixFlag)
	default:
		return nil, fmt.Errorf("unknown keystore %q (want %s or %s)", keystoreFlag, keystoreKeyring, keystoreAWS)
	}
}

// newWalletManager creates a Manager backed by the config-dir JSON store.
func newWalletManager(ctx context.Context) (*wallet.Manager, error) {
	ks, err := newKeystore(ctx)
	if err != nil {
		return nil, err
	}
	store := wallet.NewJSONStore(cfg.WalletsPath())
	return wallet.NewManager(wallet.WithStore(store), wallet.WithKeystore(ks)), nil
}

// loadSigningWallet resolves --wallet (or the default) and checks it can sign.
func loadSigningWallet(ctx context.Context, name string) (*wallet.Wallet, *wallet.Manager, error) {
	mgr, err := newWalletManager(ctx)
	if err != nil {
		return nil, nil, err
	}
	if name == "" {
		name = cfg.DefaultWallet
	}
	var w *wallet.Wallet
	if name == "" {
		w = mgr.Default()
	} else {
		w, _ = mgr.Get(name)
	}
	if w == nil {
		return nil, nil, fmt.Errorf(
			"wallet %q not found, run `mintgate wallet list` or set a default with `mintgate wallet use <name>`",
			name,
		)
	}
	if w.Type != wallet.TypeSigning {
		return nil, nil, fmt.Errorf(
			"wallet %q is watch-only and cannot sign\n  To add a signing wallet: mintgate wallet add <name> --key <private-key>",
			w.Name,
		)
	}
	return w, mgr, nil
}
