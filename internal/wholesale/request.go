package wholesale

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/orderdoc/internal/types"
	"github.com/ginjaninja78/orderdoc/internal/validation"
)

// MaxOptions is the number of option rows the order template carries.
const MaxOptions = 5

// Form defaults. A request built from an empty field file renders the
// template's own sample order.
const (
	DefaultOrderNumber   = "0202"
	DefaultName          = "아르코에어"
	DefaultSupplierPhone = "010-0000-1234"
	DefaultQuantity      = "10"
	DefaultPayment       = "200000"
	DefaultPhone         = "01080809090"
	DefaultOrderDate     = "20250602"

	DefaultOptionName     = "여성용/옐로우"
	DefaultOptionQuantity = "1"
	DefaultOptionPrice    = "2550"

	DefaultBusinessNumber = "1234567890"
	DefaultContact        = "Tel.053-639-6981"
)

// OrderRequest holds the values written into a vendor A order page.
// Amounts and phone numbers are raw digits or caller-formatted text.
type OrderRequest struct {
	OptionCount   int
	OrderNumber   string
	ProductTitle  string
	SupplierName  string
	SupplierEmail string
	SupplierPhone string
	Quantity      string
	PaymentAmount string
	RecipientName string
	Address       string
	Phone         string
	OrderDate     string // YYYYMMDD

	// OrderTime fixes the order time of day (HH:MM:SS). Empty picks a
	// random time.
	OrderTime string

	Options []types.OptionEntry
}

// ReceiptRequest holds the receipt-only values. Blank fields are derived
// from the order.
type ReceiptRequest struct {
	CardOrderNumber string
	TransactionTime string
	ApprovalNumber  string
	ProductInfo     string
	SupplyAmount    string
	VATAmount       string
	TaxFreeAmount   string
	TotalAmount     string

	StoreName       string
	BusinessNumber  string
	CEOName         string
	SupplierAddress string
}

// DefaultOrderRequest returns the form defaults with all option rows.
func DefaultOrderRequest() OrderRequest {
	req := OrderRequest{
		OptionCount:   MaxOptions,
		OrderNumber:   DefaultOrderNumber,
		ProductTitle:  DefaultName,
		SupplierName:  DefaultName,
		SupplierEmail: DefaultName,
		SupplierPhone: DefaultSupplierPhone,
		Quantity:      DefaultQuantity,
		PaymentAmount: DefaultPayment,
		RecipientName: DefaultName,
		Address:       DefaultName,
		Phone:         DefaultPhone,
		OrderDate:     DefaultOrderDate,
	}
	for i := 0; i < MaxOptions; i++ {
		req.Options = append(req.Options, defaultOption())
	}
	return req
}

// DefaultReceiptRequest returns the receipt form defaults.
func DefaultReceiptRequest() ReceiptRequest {
	return ReceiptRequest{
		StoreName:       DefaultName,
		BusinessNumber:  DefaultBusinessNumber,
		CEOName:         DefaultName,
		SupplierAddress: DefaultName,
	}
}

func defaultOption() types.OptionEntry {
	return types.OptionEntry{
		Name:      DefaultOptionName,
		Quantity:  DefaultOptionQuantity,
		UnitPrice: DefaultOptionPrice,
	}
}

// normalizedCount returns the option count clamped the way the order form
// does it: anything outside 1..MaxOptions means all rows.
func (r OrderRequest) normalizedCount() int {
	if r.OptionCount < 1 || r.OptionCount > MaxOptions {
		return MaxOptions
	}
	return r.OptionCount
}

// option returns the i-th option, falling back to the form default.
func (r OrderRequest) option(i int) types.OptionEntry {
	if i < len(r.Options) {
		return r.Options[i]
	}
	return defaultOption()
}

// =============================================================================
// FIELD FILES
// =============================================================================

// Rules are the input expectations checked before an order conversion.
var Rules = []validation.Rule{
	{Field: "order_number", DataType: validation.TypeNumeric},
	{Field: "quantity", DataType: validation.TypeAmount},
	{Field: "payment_amount", DataType: validation.TypeAmount},
	{Field: "phone", DataType: validation.TypePhone},
	{Field: "order_date", DataType: validation.TypeDate},
}

// RequestFromFields overlays a field file on the form defaults. Keys
// follow the order form: order_number, product_title, option_count,
// option_1_name, option_1_quantity, option_1_price and so on.
func RequestFromFields(fm *types.FieldMap) (OrderRequest, ReceiptRequest, error) {
	req := DefaultOrderRequest()
	rec := DefaultReceiptRequest()
	if fm == nil {
		return req, rec, nil
	}

	if v := strings.TrimSpace(fm.Get("option_count")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, rec, fmt.Errorf("invalid option_count %q: %w", v, err)
		}
		req.OptionCount = n
	}

	set := func(dst *string, key string) {
		*dst = fm.GetOr(key, *dst)
	}
	set(&req.OrderNumber, "order_number")
	set(&req.ProductTitle, "product_title")
	set(&req.SupplierName, "supplier_name")
	set(&req.SupplierEmail, "supplier_email")
	set(&req.SupplierPhone, "supplier_phone")
	set(&req.Quantity, "quantity")
	set(&req.PaymentAmount, "payment_amount")
	set(&req.RecipientName, "recipient_name")
	set(&req.Address, "address")
	set(&req.Phone, "phone")
	set(&req.OrderDate, "order_date")
	set(&req.OrderTime, "order_time")

	for i := range req.Options {
		n := i + 1
		set(&req.Options[i].Name, fmt.Sprintf("option_%d_name", n))
		set(&req.Options[i].Quantity, fmt.Sprintf("option_%d_quantity", n))
		set(&req.Options[i].UnitPrice, fmt.Sprintf("option_%d_price", n))
	}

	set(&rec.CardOrderNumber, "card_order_number")
	set(&rec.TransactionTime, "transaction_time")
	set(&rec.ApprovalNumber, "approval_number")
	set(&rec.ProductInfo, "product_info")
	set(&rec.SupplyAmount, "supply_amount")
	set(&rec.VATAmount, "vat_amount")
	set(&rec.TaxFreeAmount, "tax_free_amount")
	set(&rec.TotalAmount, "total_amount")
	set(&rec.StoreName, "store_name")
	set(&rec.BusinessNumber, "business_number")
	set(&rec.CEOName, "ceo_name")
	set(&rec.SupplierAddress, "supplier_address")

	return req, rec, nil
}
