package payment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/orderdoc/internal/types"
	"github.com/ginjaninja78/orderdoc/internal/validation"
)

// MaxFieldOptions bounds how many option_N_* groups a field file may carry.
const MaxFieldOptions = 20

// Rules are the input expectations checked before an order conversion.
var Rules = []validation.Rule{
	{Field: "order_total", DataType: validation.TypeAmount},
	{Field: "product_amount", DataType: validation.TypeAmount},
	{Field: "coupon_discount", DataType: validation.TypeAmount},
	{Field: "shipping_fee", DataType: validation.TypeAmount},
	{Field: "card_amount", DataType: validation.TypeAmount},
}

// CardRules are the input expectations checked before a card slip
// conversion.
var CardRules = []validation.Rule{
	{Field: "approval_amount", DataType: validation.TypeAmount},
	{Field: "business_number", DataType: validation.TypeNumeric},
}

// RequestFromFields builds an order request from a field file. Options are
// read from option_1_name, option_1_variant, option_1_quantity,
// option_1_price, option_1_image, option_1_discount_before and so on, up
// to option_count (or as many groups as are present).
func RequestFromFields(fm *types.FieldMap) (OrderRequest, error) {
	var req OrderRequest
	if v := strings.TrimSpace(fm.Get("option_count")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid option_count %q: %w", v, err)
		}
		req.OptionCount = n
	}
	req.PurchaseDate = strings.TrimSpace(fm.Get("purchase_date"))

	limit := req.OptionCount
	if limit < 1 {
		limit = MaxFieldOptions
	}
	for i := 1; i <= limit; i++ {
		key := func(name string) string { return fmt.Sprintf("option_%d_%s", i, name) }
		if _, ok := fm.Lookup(key("name")); !ok && req.OptionCount < 1 {
			break
		}
		req.Options = append(req.Options, types.OptionEntry{
			Name:           fm.Get(key("name")),
			Variant:        fm.Get(key("variant")),
			Quantity:       fm.Get(key("quantity")),
			UnitPrice:      fm.Get(key("price")),
			Image:          fm.Get(key("image")),
			DiscountBefore: fm.Get(key("discount_before")),
		})
	}

	req.Summary = Summary{
		StoreName:        fm.Get("store_name"),
		Delivery:         fm.Get("delivery"),
		RecipientName:    fm.Get("recipient_name"),
		RecipientPhone:   fm.Get("recipient_phone"),
		RecipientAddress: fm.Get("recipient_address"),
		OrderTotal:       fm.Get("order_total"),
		ProductAmount:    fm.Get("product_amount"),
		CouponDiscount:   fm.Get("coupon_discount"),
		ShippingFee:      fm.Get("shipping_fee"),
		CardAmount:       fm.Get("card_amount"),
	}
	return req, nil
}

// CardFieldsFromMap builds card slip fields from a field file.
func CardFieldsFromMap(fm *types.FieldMap) CardFields {
	return CardFields{
		Product:        fm.Get("product"),
		Seller:         fm.Get("seller"),
		CEO:            fm.Get("ceo"),
		BusinessNumber: fm.Get("business_number"),
		Phone:          fm.Get("phone"),
		Address:        fm.Get("address"),
		ApprovalAmount: fm.Get("approval_amount"),
		SupplyAmount:   fm.Get("supply_amount"),
		TaxAmount:      fm.Get("tax_amount"),
		ServiceFee:     fm.Get("service_fee"),
		ApprovedAt:     fm.Get("approved_at"),
		Total:          fm.Get("total"),
	}
}

// Merge fills the blank fields of f from base.
func (f CardFields) Merge(base CardFields) CardFields {
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	return CardFields{
		Product:        pick(f.Product, base.Product),
		Seller:         pick(f.Seller, base.Seller),
		CEO:            pick(f.CEO, base.CEO),
		BusinessNumber: pick(f.BusinessNumber, base.BusinessNumber),
		Phone:          pick(f.Phone, base.Phone),
		Address:        pick(f.Address, base.Address),
		ApprovalAmount: pick(f.ApprovalAmount, base.ApprovalAmount),
		SupplyAmount:   pick(f.SupplyAmount, base.SupplyAmount),
		TaxAmount:      pick(f.TaxAmount, base.TaxAmount),
		ServiceFee:     pick(f.ServiceFee, base.ServiceFee),
		ApprovedAt:     pick(f.ApprovedAt, base.ApprovedAt),
		Total:          pick(f.Total, base.Total),
	}
}
