package payment

import (
	"strings"

	"github.com/ginjaninja78/orderdoc/internal/amount"
	"github.com/ginjaninja78/orderdoc/internal/domtree"
	"github.com/ginjaninja78/orderdoc/internal/types"
	"github.com/ginjaninja78/orderdoc/internal/validation"
)

// CardFields are the values of a card slip. Blank values leave the slip
// text as it is, except where Complete derives them.
type CardFields struct {
	Product        string
	Seller         string
	CEO            string
	BusinessNumber string
	Phone          string
	Address        string
	ApprovalAmount string
	SupplyAmount   string
	TaxAmount      string
	ServiceFee     string
	ApprovedAt     string // optional; most slips carry no 승인일시 row
	Total          string
}

// Complete derives the supply, tax, service fee and total from the
// approval amount when they are blank.
func (f CardFields) Complete() CardFields {
	if f.ServiceFee == "" {
		f.ServiceFee = "0"
	}
	approval, err := amount.ParseAmount(f.ApprovalAmount)
	if err != nil {
		return f
	}
	f.ApprovalAmount = amount.FormatMoney(approval)

	supply, vat := amount.SupplyFromTotal(approval)
	if f.SupplyAmount == "" {
		f.SupplyAmount = amount.FormatMoney(supply)
	} else if s, err := amount.ParseAmount(f.SupplyAmount); err == nil {
		vat = approval - s
	}
	if f.TaxAmount == "" {
		f.TaxAmount = amount.FormatMoney(vat)
	}
	if f.Total == "" {
		f.Total = f.ApprovalAmount
	}
	return f
}

// PrefillCard starts card slip fields from what an order page carries.
func PrefillCard(info OrderInfo) CardFields {
	return CardFields{
		Product:        info.Product,
		ApprovalAmount: info.ApprovalAmount,
		Total:          info.Total,
	}
}

type cardPair struct {
	field string
	label string
	value string
}

func (f CardFields) pairs() []cardPair {
	return []cardPair{
		{"product", "상품명", f.Product},
		{"seller", "판매자상호", f.Seller},
		{"ceo", "대표자명", f.CEO},
		{"business_number", "사업자등록번호", amount.FormatBusinessNumber(f.BusinessNumber)},
		{"phone", "전화번호", f.Phone},
		{"address", "사업장주소", f.Address},
		{"approval_amount", "승인금액", f.ApprovalAmount},
		{"supply_amount", "공급가액", f.SupplyAmount},
		{"tax_amount", "부가세액", f.TaxAmount},
		{"service_fee", "봉사료", f.ServiceFee},
		{"approved_at", "승인일시", f.ApprovedAt},
	}
}

// ConvertCard fills a card slip page. Each value goes into the <dd> that
// follows the <dt> carrying its label; the total goes into the summary
// block at the bottom.
func (c *Converter) ConvertCard(src string, f CardFields) (string, *domtree.Diagnostics) {
	diag := &domtree.Diagnostics{}
	out := types.Guard(func() (string, error) {
		if err := validation.RequireDocument("card_html", src); err != nil {
			return "", err
		}
		doc, err := domtree.Parse(src)
		if err != nil {
			return "", err
		}
		loc := domtree.NewLocator(doc.Root, diag, c.logger)

		for _, p := range f.pairs() {
			if strings.TrimSpace(p.value) == "" {
				continue
			}
			if dd, ok := loc.LabelNext(p.field, "dt", p.label, "dd"); ok {
				domtree.SetText(dd, p.value)
			}
		}

		if strings.TrimSpace(f.Total) != "" {
			if div, ok := loc.First("total", "div."+classSummaryTotal,
				domtree.All(domtree.Tag("div"), domtree.HasClass(classSummaryTotal))); ok {
				domtree.SetText(div, f.Total)
			}
		}

		return doc.Render()
	})
	return out, diag
}
