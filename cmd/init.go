package cmd

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/mintgate/internal/config"
	"github.com/Mohsinsiddi/mintgate/internal/sale"
	"github.com/Mohsinsiddi/mintgate/internal/ui"
)

var initContractFlag string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive deployment profile wizard",
	Long: `Launch the interactive wizard and write a deployment profile.

The profile is saved as <config>/profiles/<name>.json where <name> is
--profile or the lower-cased symbol (collection name when no symbol). Every channel starts inactive; edit the
file to set prices, caps and allowlists, then check it with:
  mintgate profile validate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.Banner())

		result, err := ui.RunWizard()
		if err != nil {
			return err
		}
		if result.Cancelled {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		p, err := profileFromWizard(result, initContractFlag)
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}

		name := profileFlag
		if name == "" {
			name = profileSlug(result)
		}
		if err := cfg.SaveProfile(name, p); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}
		log.Debug("Profile written", "name", name, "contract", p.Contract)

		if cfg.DefaultProfile == "" {
			cfg.DefaultProfile = name
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
		}

		fmt.Println(ui.Success(fmt.Sprintf("Profile %q written.", name)))
		fmt.Println(ui.Hint("Review it with: mintgate profile show " + name))
		return nil
	},
}

// profileFromWizard turns wizard answers into a profile. Without an explicit contract the
// address is the owner's first CREATE deployment.
func profileFromWizard(r *ui.WizardResult, contract string) (*config.Profile, error) {
	if !common.IsHexAddress(r.Owner) {
		return nil, fmt.Errorf("%w: owner %q", sale.ErrInvalidConfig, r.Owner)
	}
	if contract == "" {
		contract = crypto.CreateAddress(common.HexToAddress(r.Owner), 0).Hex()
	}
	return &config.Profile{
		Name:          r.Name,
		Symbol:        r.Symbol,
		DomainVersion: "1",
		Contract:      contract,
		Owner:         common.HexToAddress(r.Owner).Hex(),
		Network:       r.Network,
		Testnet:       r.Testnet,
		MaxSupply:     r.MaxSupply,
		Payment:       r.Payment,
		Beneficiary:   r.Beneficiary,
	}, nil
}

func profileSlug(r *ui.WizardResult) string {
	s := r.Symbol
	if s == "" {
		s = r.Name
	}
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}

func init() {
	initCmd.Flags().StringVar(&initContractFlag, "contract", "", "collection address (default: owner's first deployment)")
}
