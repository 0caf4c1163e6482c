// =============================================================================
// Order Document Generator - Payment Platform Commands
// =============================================================================
//
// COMMAND USAGE:
//   orderdoc payment order   --html page.html --fields order.yaml
//   orderdoc payment card    --html slip.html --fields card.yaml [--order page.html]
//   orderdoc payment extract --html page.html
//
// The order command splices the option sample into the given page and
// fills the option and summary fields. The card command fills a card slip;
// with --order, values missing from the field file are taken from a
// converted order page. The extract command prints what the card form
// would read from an order page.
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/orderdoc/internal/payment"
	"github.com/ginjaninja78/orderdoc/internal/types"
)

var (
	paymentFlags  inputFlags
	cardOrderPage string
	extractSource string
)

var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Generate payment platform order pages and card slips",
}

var paymentOrderCmd = &cobra.Command{
	Use:   "order",
	Short: "Splice the option sample into an order page and fill its fields",
	Args:  cobra.NoArgs,
	RunE:  runPaymentOrder,
}

var paymentCardCmd = &cobra.Command{
	Use:   "card",
	Short: "Fill a card slip page",
	Args:  cobra.NoArgs,
	RunE:  runPaymentCard,
}

var paymentExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the purchase date, product and amount of an order page",
	Args:  cobra.NoArgs,
	RunE:  runPaymentExtract,
}

func init() {
	paymentFlags.register(paymentOrderCmd, true)
	paymentFlags.register(paymentCardCmd, true)
	paymentCardCmd.Flags().StringVar(&cardOrderPage, "order", "", "Converted order page used to prefill the slip")
	paymentExtractCmd.Flags().StringVar(&extractSource, "html", "", "Order page to read")

	paymentCmd.AddCommand(paymentOrderCmd, paymentCardCmd, paymentExtractCmd)
	rootCmd.AddCommand(paymentCmd)
}

func runPaymentOrder(cmd *cobra.Command, args []string) error {
	src, err := readHTML(paymentFlags.html, "html")
	if err != nil {
		return err
	}
	fm, err := loadFields(cmd.Context(), types.VendorPayment, paymentFlags, payment.Rules)
	if err != nil {
		return err
	}
	req, err := payment.RequestFromFields(fm)
	if err != nil {
		return err
	}
	req.HTML = src

	doc, diag := payment.NewConverter(env.templates, env.log).ConvertOrder(req)

	product := ""
	if len(req.Options) > 0 {
		product = req.Options[0].Name
	}
	if product == "" && !types.IsFailure(doc) {
		if info, err := payment.ExtractOrderInfo(doc); err == nil {
			product = info.Product
		}
	}

	return finish(cmd, paymentFlags, types.ConversionResult{
		Vendor:   types.VendorPayment,
		Kind:     types.KindOrder,
		Document: doc,
		Filename: suggest(product, types.KindOrder),
	}, diag)
}

func runPaymentCard(cmd *cobra.Command, args []string) error {
	src, err := readHTML(paymentFlags.html, "card_html")
	if err != nil {
		return err
	}
	fm, err := loadFields(cmd.Context(), types.VendorPayment, paymentFlags, payment.CardRules)
	if err != nil {
		return err
	}

	fields := payment.CardFieldsFromMap(fm)
	if cardOrderPage != "" {
		page, err := readHTML(cardOrderPage, "order")
		if err != nil {
			return err
		}
		info, err := payment.ExtractOrderInfo(page)
		if err != nil {
			return fmt.Errorf("failed to read order page: %w", err)
		}
		fields = fields.Merge(payment.PrefillCard(info))
	}
	fields = fields.Complete()

	doc, diag := payment.NewConverter(env.templates, env.log).ConvertCard(src, fields)
	return finish(cmd, paymentFlags, types.ConversionResult{
		Vendor:   types.VendorPayment,
		Kind:     types.KindReceipt,
		Document: doc,
		Filename: suggest(fields.Product, types.KindReceipt),
	}, diag)
}

func runPaymentExtract(cmd *cobra.Command, args []string) error {
	src, err := readHTML(extractSource, "html")
	if err != nil {
		return err
	}
	info, err := payment.ExtractOrderInfo(src)
	if err != nil {
		return err
	}

	date, ok := payment.ExtractPurchaseDate(src)
	if !ok {
		date = payment.DefaultPurchaseDate(time.Now().In(env.cfg.Location()))
		env.log.Warn("%v, using %s", payment.ErrPurchaseDateNotFound, date)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "purchase_date: %s\n", date)
	fmt.Fprintf(out, "product:       %s\n", info.Product)
	fmt.Fprintf(out, "total:         %s\n", info.Total)
	return nil
}
