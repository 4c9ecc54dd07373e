package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/mintgate/internal/chain"
	"github.com/Mohsinsiddi/mintgate/internal/royalty"
	"github.com/Mohsinsiddi/mintgate/internal/ui"
)

var (
	royaltyToken     uint64
	royaltyNumerator uint64
	royaltyReceiver  string
)

var royaltyCmd = &cobra.Command{
	Use:   "royalty",
	Short: "ERC-2981 royalty quotes",
}

var royaltyQuoteCmd = &cobra.Command{
	Use:   "quote <price>",
	Short: "Quote the royalty owed on a sale",
	Long: `Quote royaltyInfo(token, price) under the profile's default royalty, or
under --numerator/--receiver when given. Numerators are over 100000, so 2500
is 2.5%. Prices take ether, gwei or wei suffixes; bare integers are wei.

  mintgate royalty quote 1.5ether
  mintgate royalty quote 2000000gwei --numerator 7500 --receiver 0x...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := chain.ParseAmount(args[0])
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", args[0], err)
		}
		policy, err := royaltyPolicy()
		if err != nil {
			return err
		}

		receiver, amount, err := policy.Info(royaltyToken, price)
		if err != nil {
			return err
		}
		rate := policy.RateFor(royaltyToken)
		if rate.Numerator == 0 {
			fmt.Println(ui.Info("No royalty configured, nothing is owed."))
		}
		seller := new(uint256.Int).Sub(price, amount)
		fmt.Println(ui.KeyValueBlock("Royalty quote", [][2]string{
			{"Token", fmt.Sprint(royaltyToken)},
			{"Sale price", ui.Ether(price)},
			{"Rate", royaltyLabel(rate)},
			{"Receiver", receiver.Hex()},
			{"Royalty", ui.Ether(amount) + "  (" + amount.Dec() + " wei)"},
			{"Seller keeps", ui.Ether(seller)},
		}))
		return nil
	},
}

// royaltyPolicy builds a policy from the flags, falling back to the profile default.
func royaltyPolicy() (*royalty.Policy, error) {
	policy := royalty.NewPolicy()
	if royaltyReceiver != "" || royaltyNumerator != 0 {
		if !common.IsHexAddress(royaltyReceiver) {
			return nil, fmt.Errorf("--receiver must be an address when --numerator is set")
		}
		rate := royalty.Rate{Receiver: common.HexToAddress(royaltyReceiver), Numerator: royaltyNumerator}
		if err := policy.SetDefault(rate); err != nil {
			return nil, err
		}
		return policy, nil
	}

	pc, err := loadProfileContext()
	if err != nil {
		return nil, err
	}
	if pc.opts.DefaultRoyalty != nil {
		if err := policy.SetDefault(*pc.opts.DefaultRoyalty); err != nil {
			return nil, err
		}
	}
	return policy, nil
}

func init() {
	royaltyQuoteCmd.Flags().Uint64Var(&royaltyToken, "token", 1, "token id")
	royaltyQuoteCmd.Flags().Uint64Var(&royaltyNumerator, "numerator", 0, "rate over 100000 (overrides the profile)")
	royaltyQuoteCmd.Flags().StringVar(&royaltyReceiver, "receiver", "", "royalty receiver (overrides the profile)")
	royaltyCmd.AddCommand(royaltyQuoteCmd)
}
