package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Mohsinsiddi/mintgate/internal/config"
	"github.com/Mohsinsiddi/mintgate/internal/ui"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/mintgate/cmd.Version=1.2.3" .
var Version = ui.Version

var (
	cfgDir      string
	cfg         *config.Config
	verbose     bool
	profileFlag string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "mintgate",
	Short: "NFT issuance gating toolkit",
	Long: `mintgate configures and rehearses a gated NFT sale.

  Build allowlist Merkle roots and proofs, sign and check token permits,
  quote royalties, and replay whole sale scenarios against an in-memory
  chain before anything goes on-chain.

Deployment profiles live in <config>/profiles. Pick one per invocation with
--profile or persist a default with: mintgate profile use <name>`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verbose)

		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		os.Exit(1)
	}
}

// setupLogging routes diagnostic logs to stderr. Debug output needs --verbose.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = log.LevelDebug
	}
	color := term.IsTerminal(int(os.Stderr.Fd()))
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, color)))
}

// loadProfile loads --profile, or the configured default.
func loadProfile() (*config.Profile, error) {
	p, err := cfg.LoadProfile(profileFlag)
	if err != nil {
		return nil, fmt.Errorf("%w\n  Create one with: mintgate init", err)
	}
	return p, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: $"+config.DirEnvVar+" or ~/.mintgate)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "deployment profile (default: config)")
	rootCmd.PersistentFlags().StringVar(&keystoreFlag, "keystore", keystoreKeyring, "key backend: keyring | aws")
	rootCmd.PersistentFlags().StringVar(&awsRegionFlag, "aws-region", "", "AWS region for --keystore aws (default: AWS config)")
	rootCmd.PersistentFlags().StringVar(&awsPrefixFlag, "aws-prefix", "", "secret name prefix for --keystore aws (default: mintgate)")

	// Register all sub-commands.
	rootCmd.AddCommand(
		initCmd,
		configCmd,
		profileCmd,
		allowlistCmd,
		permitCmd,
		royaltyCmd,
		walletCmd,
		simulateCmd,
	)
}
