// =============================================================================
// Order Document Generator - Wholesale Commands
// =============================================================================
//
// COMMAND USAGE:
//   orderdoc wholesale order   --fields order.yaml
//   orderdoc wholesale receipt --fields order.yaml
//
// Both documents are produced from the configured wholesale templates. Field
// values left out of the field file fall back to the order form defaults;
// receipt values left blank are derived from the order.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/orderdoc/internal/domtree"
	"github.com/ginjaninja78/orderdoc/internal/types"
	"github.com/ginjaninja78/orderdoc/internal/wholesale"
)

var wholesaleFlags inputFlags

var wholesaleCmd = &cobra.Command{
	Use:   "wholesale",
	Short: "Generate wholesale portal order pages and card receipts",
}

var wholesaleOrderCmd = &cobra.Command{
	Use:   "order",
	Short: "Generate an order page from the order template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWholesale(cmd, types.KindOrder)
	},
}

var wholesaleReceiptCmd = &cobra.Command{
	Use:   "receipt",
	Short: "Generate the card receipt for an order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWholesale(cmd, types.KindReceipt)
	},
}

func init() {
	wholesaleFlags.register(wholesaleOrderCmd, false)
	wholesaleFlags.register(wholesaleReceiptCmd, false)
	wholesaleCmd.AddCommand(wholesaleOrderCmd, wholesaleReceiptCmd)
	rootCmd.AddCommand(wholesaleCmd)
}

func runWholesale(cmd *cobra.Command, kind string) error {
	fm, err := loadFields(cmd.Context(), types.VendorWholesale, wholesaleFlags, wholesale.Rules)
	if err != nil {
		return err
	}
	req, extra, err := wholesale.RequestFromFields(fm)
	if err != nil {
		return err
	}

	conv := wholesale.NewConverter(env.templates, env.log)
	res := types.ConversionResult{
		Vendor:   types.VendorWholesale,
		Kind:     kind,
		Filename: suggest(req.ProductTitle, kind),
	}

	var diag *domtree.Diagnostics
	switch kind {
	case types.KindReceipt:
		res.Document, diag = conv.ConvertReceipt(req, extra)
	default:
		res.Document, diag = conv.ConvertOrder(req)
	}
	return finish(cmd, wholesaleFlags, res, diag)
}
