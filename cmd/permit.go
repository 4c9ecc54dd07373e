package cmd

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/mintgate/internal/permit"
	"github.com/Mohsinsiddi/mintgate/internal/ui"
	"github.com/Mohsinsiddi/mintgate/internal/wallet"
)

var (
	permitSpender   string
	permitToken     uint64
	permitNonce     uint64
	permitDeadline  string
	permitChainID   uint64
	permitSignature string
	permitWallet    string
)

var permitCmd = &cobra.Command{
	Use:   "permit",
	Short: "Build, sign and check token permits",
	Long: `Work with EIP-712 token permits (ERC-4494 shape):

  Permit(address spender,uint256 tokenId,uint256 nonce,uint256 deadline)

under the domain (name, version, chainId, verifyingContract) of the selected
profile. The holder signs; anyone can submit the signature before the deadline
to approve the spender.`,
}

var permitDigestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print the digest a holder signs",
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, msg, chainID, err := permitInputs()
		if err != nil {
			return err
		}
		sep := pc.domain.Separator(chainID)
		digest := permit.TypedHash(sep, permit.StructHash(msg.Spender, msg.TokenID, msg.Nonce, msg.Deadline))
		fmt.Println(ui.KeyValueBlock("Permit", permitPairs(pc, msg, chainID, [][2]string{
			{"Domain separator", sep.Hex()},
			{"Digest", digest.Hex()},
		})))
		return nil
	},
}

var permitSignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a permit with a wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, msg, chainID, err := permitInputs()
		if err != nil {
			return err
		}
		w, mgr, err := loadSigningWallet(cmd.Context(), permitWallet)
		if err != nil {
			return err
		}
		sig, err := wallet.SignPermit(w, mgr.Keystore(), pc.domain, chainID, msg)
		if err != nil {
			return err
		}
		log.Debug("Signed permit", "wallet", w.Name, "token", msg.TokenID, "spender", msg.Spender, "chain", chainID)

		fmt.Println(ui.KeyValueBlock("Signed permit", permitPairs(pc, msg, chainID, [][2]string{
			{"Signer", w.Address},
			{"Signature", hexutil.Encode(sig)},
		})))
		fmt.Println(ui.Hint("The signer must hold the token (or be approved for all) when the permit is used."))
		return nil
	},
}

var permitRecoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Recover the signer of a permit signature",
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, msg, chainID, err := permitInputs()
		if err != nil {
			return err
		}
		if permitSignature == "" {
			return fmt.Errorf("--signature is required")
		}
		sig, err := hexutil.Decode(permitSignature)
		if err != nil {
			return fmt.Errorf("signature: %w", err)
		}
		digest := permit.TypedHash(pc.domain.Separator(chainID), permit.StructHash(msg.Spender, msg.TokenID, msg.Nonce, msg.Deadline))
		signer, err := permit.RecoverSigner(digest, sig)
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("Recovered", permitPairs(pc, msg, chainID, [][2]string{
			{"Digest", digest.Hex()},
			{"Signer", signer.Hex()},
		})))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{permitDigestCmd, permitSignCmd, permitRecoverCmd} {
		c.Flags().StringVar(&permitSpender, "spender", "", "address to approve (required)")
		c.Flags().Uint64Var(&permitToken, "token", 0, "token id (required)")
		c.Flags().Uint64Var(&permitNonce, "nonce", 0, "current permit nonce of the token")
		c.Flags().StringVar(&permitDeadline, "deadline", "", "unix seconds or a duration from now such as 1h (default 1h)")
		c.Flags().Uint64Var(&permitChainID, "chain-id", 0, "chain id to sign for (default: profile network)")
		c.MarkFlagRequired("spender") //nolint:errcheck
		c.MarkFlagRequired("token")   //nolint:errcheck
	}
	permitSignCmd.Flags().StringVarP(&permitWallet, "wallet", "w", "", "signing wallet (default: config)")
	permitRecoverCmd.Flags().StringVar(&permitSignature, "signature", "", "65-byte signature, 0x-prefixed hex")
	permitCmd.AddCommand(permitDigestCmd, permitSignCmd, permitRecoverCmd)
}

// permitInputs loads the profile and turns the flags into a permit message.
func permitInputs() (*profileContext, permit.Message, *big.Int, error) {
	var msg permit.Message
	pc, err := loadProfileContext()
	if err != nil {
		return nil, msg, nil, err
	}
	if !common.IsHexAddress(permitSpender) {
		return nil, msg, nil, fmt.Errorf("invalid spender %q", permitSpender)
	}
	deadline, err := parseDeadline(permitDeadline, time.Now())
	if err != nil {
		return nil, msg, nil, err
	}
	chainID := pc.chainID
	if permitChainID != 0 {
		chainID = new(big.Int).SetUint64(permitChainID)
	}
	msg = permit.Message{
		Spender:  common.HexToAddress(permitSpender),
		TokenID:  permitToken,
		Nonce:    permitNonce,
		Deadline: deadline,
	}
	return pc, msg, chainID, nil
}

// parseDeadline accepts unix seconds or a Go duration relative to now.
func parseDeadline(s string, now time.Time) (*uint256.Int, error) {
	if s == "" {
		s = "1h"
	}
	if v, err := uint256.FromDecimal(s); err == nil {
		return v, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("deadline %q is neither unix seconds nor a duration", s)
	}
	at := now.Add(d).Unix()
	if at < 0 {
		at = 0
	}
	return uint256.NewInt(uint64(at)), nil
}

func permitPairs(pc *profileContext, msg permit.Message, chainID *big.Int, extra [][2]string) [][2]string {
	pairs := [][2]string{
		{"Collection", fmt.Sprintf("%s v%s", pc.domain.Name, pc.domain.Version)},
		{"Contract", pc.domain.Contract.Hex()},
		{"Chain ID", chainID.String()},
		{"Spender", msg.Spender.Hex()},
		{"Token", fmt.Sprint(msg.TokenID)},
		{"Nonce", fmt.Sprint(msg.Nonce)},
		{"Deadline", deadlineLabel(msg.Deadline)},
	}
	return append(pairs, extra...)
}

func deadlineLabel(d *uint256.Int) string {
	if !d.IsUint64() || d.Uint64() > 1<<40 {
		return d.Dec()
	}
	return fmt.Sprintf("%s (%s)", d.Dec(), time.Unix(int64(d.Uint64()), 0).UTC().Format(time.RFC3339))
}
