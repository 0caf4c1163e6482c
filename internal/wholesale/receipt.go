package wholesale

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/orderdoc/internal/amount"
	"github.com/ginjaninja78/orderdoc/internal/domtree"
	"github.com/ginjaninja78/orderdoc/internal/receipt"
	"github.com/ginjaninja78/orderdoc/internal/timeline"
	"github.com/ginjaninja78/orderdoc/internal/types"
)

// cardOrderInfix sits between the order date and the random suffix of a
// card order number.
const cardOrderInfix = "165233"

// fallbackCardDate is used when the order date has fewer than 8 digits.
const fallbackCardDate = "20250101"

// ConvertReceipt produces the card receipt for an order. Values left blank
// in extra are derived from req.
func (c *Converter) ConvertReceipt(req OrderRequest, extra ReceiptRequest) (string, *domtree.Diagnostics) {
	fields, err := c.ReceiptFields(req, extra)
	if err != nil {
		return types.Fail(err), &domtree.Diagnostics{}
	}
	return c.receipt.Convert(fields)
}

// ReceiptFields derives the receipt values for an order.
func (c *Converter) ReceiptFields(req OrderRequest, extra ReceiptRequest) (receipt.Fields, error) {
	payment, err := amount.ParseAmount(req.PaymentAmount)
	if err != nil {
		return receipt.Fields{}, fmt.Errorf("invalid payment amount: %w", err)
	}

	date := amount.Digits(strings.SplitN(strings.TrimSpace(req.OrderDate), " ", 2)[0])
	if len(date) < 8 {
		date = fallbackCardDate
	}
	date = date[:8]

	f := receipt.Fields{
		OrderNumber:     extra.CardOrderNumber,
		TransactionTime: extra.TransactionTime,
		ApprovalNumber:  extra.ApprovalNumber,
		ProductInfo:     extra.ProductInfo,
		StoreName:       extra.StoreName,
		BusinessNumber:  extra.BusinessNumber,
		CEOName:         extra.CEOName,
		SupplierContact: amount.FormatContact(req.SupplierPhone, DefaultContact),
		SupplierAddress: extra.SupplierAddress,
	}

	if f.OrderNumber == "" {
		f.OrderNumber = date + cardOrderInfix + strconv.Itoa(c.intRange(100, 999))
	}
	if f.TransactionTime == "" {
		clock, err := c.orderClock(req)
		if err != nil {
			return receipt.Fields{}, err
		}
		f.TransactionTime = amount.FormatCompactDate(date) + " " + timeline.FormatClock(clock)
	}
	if f.ApprovalNumber == "" {
		f.ApprovalNumber = "3026" + strconv.Itoa(c.intRange(1000, 9999))
	}
	if f.ProductInfo == "" {
		f.ProductInfo = OrderPrefix + req.OrderNumber + " " + req.ProductTitle
	}

	supply, vat := amount.SupplyFromTotal(payment)
	if strings.TrimSpace(extra.SupplyAmount) != "" {
		if supply, err = amount.ParseAmount(extra.SupplyAmount); err != nil {
			return receipt.Fields{}, fmt.Errorf("invalid supply amount: %w", err)
		}
		vat = payment - supply
	}
	if strings.TrimSpace(extra.VATAmount) != "" {
		if vat, err = amount.ParseAmount(extra.VATAmount); err != nil {
			return receipt.Fields{}, fmt.Errorf("invalid VAT amount: %w", err)
		}
	}
	f.Supply = supply
	f.VAT = vat

	if f.TaxFree, err = amountOr(extra.TaxFreeAmount, 0); err != nil {
		return receipt.Fields{}, fmt.Errorf("invalid tax-free amount: %w", err)
	}
	if f.Total, err = amountOr(extra.TotalAmount, payment); err != nil {
		return receipt.Fields{}, fmt.Errorf("invalid total amount: %w", err)
	}

	return f, nil
}

func amountOr(s string, def int64) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return amount.ParseAmount(s)
}
