package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/mintgate/internal/allowlist"
	"github.com/Mohsinsiddi/mintgate/internal/config"
	"github.com/Mohsinsiddi/mintgate/internal/ui"
)

var allowlistJSON bool

var allowlistCmd = &cobra.Command{
	Use:   "allowlist",
	Short: "Build allowlist Merkle roots and proofs",
	Long: `Build and check sorted-pair keccak256 Merkle trees over address allowlists.

Allowlist files hold one address per line (# comments, first CSV column) or
a JSON array of addresses. Leaves are keccak256(address), pairs are hashed in
ascending order, so proofs verify with OpenZeppelin's MerkleProof.`,
}

var allowlistRootCmd = &cobra.Command{
	Use:   "root <file>",
	Short: "Print the Merkle root of an allowlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree(args[0])
		if err != nil {
			return err
		}
		if allowlistJSON {
			return printJSON(map[string]any{"root": tree.Root(), "leaves": tree.Len()})
		}
		fmt.Println(ui.KeyValueBlock("Allowlist", [][2]string{
			{"File", args[0]},
			{"Addresses", fmt.Sprint(tree.Len())},
			{"Root", tree.Root().Hex()},
		}))
		return nil
	},
}

var allowlistProofCmd = &cobra.Command{
	Use:   "proof <file> <address>",
	Short: "Print the Merkle proof for one address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree(args[0])
		if err != nil {
			return err
		}
		if !common.IsHexAddress(args[1]) {
			return fmt.Errorf("invalid address %q", args[1])
		}
		addr := common.HexToAddress(args[1])
		proof, err := tree.Proof(addr)
		if err != nil {
			return fmt.Errorf("%s: %w", addr.Hex(), err)
		}
		if allowlistJSON {
			return printJSON(map[string]any{"root": tree.Root(), "address": addr, "proof": proof})
		}
		fmt.Println(ui.Meta("root  ") + ui.Val(tree.Root().Hex()))
		fmt.Println(ui.Meta("leaf  ") + ui.Val(allowlist.Leaf(addr).Hex()))
		for i, h := range proof {
			fmt.Printf("%s %s\n", ui.Meta(fmt.Sprintf("[%d]", i)), h.Hex())
		}
		fmt.Println(ui.Hint("Pass as: " + proofArg(proof)))
		return nil
	},
}

var allowlistVerifyCmd = &cobra.Command{
	Use:   "verify <root> <address> [proof-hash ...]",
	Short: "Check an address and proof against a root",
	Long: `Check an address and proof against a root. Proof hashes may be given as
separate arguments or as one comma-separated argument.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := parseHash(args[0])
		if err != nil {
			return fmt.Errorf("root: %w", err)
		}
		if !common.IsHexAddress(args[1]) {
			return fmt.Errorf("invalid address %q", args[1])
		}
		addr := common.HexToAddress(args[1])

		var proof []common.Hash
		for _, arg := range args[2:] {
			for _, part := range strings.Split(arg, ",") {
				if part = strings.TrimSpace(part); part == "" {
					continue
				}
				h, err := parseHash(part)
				if err != nil {
					return fmt.Errorf("proof: %w", err)
				}
				proof = append(proof, h)
			}
		}

		if !allowlist.VerifyAddress(root, addr, proof) {
			fmt.Println(ui.Err(fmt.Sprintf("%s is not in the allowlist with root %s", addr.Hex(), ui.TruncateAddr(root.Hex()))))
			return fmt.Errorf("proof rejected")
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s is allowlisted.", addr.Hex())))
		return nil
	},
}

func init() {
	allowlistCmd.PersistentFlags().BoolVar(&allowlistJSON, "json", false, "print JSON")
	allowlistCmd.AddCommand(allowlistRootCmd, allowlistProofCmd, allowlistVerifyCmd)
}

func loadTree(path string) (*allowlist.Tree, error) {
	addrs, err := config.LoadAddresses(path)
	if err != nil {
		return nil, err
	}
	return allowlist.NewTree(addrs)
}

func parseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil {
		return common.Hash{}, err
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%s is %d bytes, want %d", s, len(b), common.HashLength)
	}
	return common.BytesToHash(b), nil
}

// proofArg renders a proof in the bytes32[] form block explorers accept.
func proofArg(proof []common.Hash) string {
	parts := make([]string, len(proof))
	for i, h := range proof {
		parts[i] = h.Hex()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
