// =============================================================================
// Order Document Generator - Card Receipt Converter
// =============================================================================
//
// The card receipt ("sale slip") template is a nest of fixed-width tables.
// Every value sits either one row below a small label icon (t_*.gif) or,
// for amounts, in a row of single-digit cells beside the icon.
//
// PROCESSING ORDER:
//   Steps run in a fixed order. Several of them are regex rewrites over
//   text, so a value written early (product info) must not be matched by
//   a later pattern (business number, contact). The order below is part
//   of the contract:
//
//   1.  transaction time   t_date.gif        regex inside next-row cell
//   2.  approval number    t_approval.gif    next-row cell
//   3.  product info       td containing 상품정보
//   4.  supply amount      t_supply.gif      same-row digit grid
//   5.  VAT                t_vat.gif         same-row digit grid
//   6.  tax-free amount    t_amount01.gif    textual digit-grid fill
//   7.  total              t_total.gif       same-row digit grid
//   8.  store name         t_sub_name.gif    next-row cell
//   9.  business number    regex NNN-NN-NNNNN
//   10. CEO name           t_master.gif      inside t_supplier_info table
//   11. supplier contact   regex Tel.NNN-NNN-NNNN
//   12. supplier address   t_address01.gif   next-row cell
//   13. order number       t_order_no.gif    next-row cell
//
// =============================================================================

package receipt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/orderdoc/internal/amount"
	"github.com/ginjaninja78/orderdoc/internal/digitgrid"
	"github.com/ginjaninja78/orderdoc/internal/domtree"
	"github.com/ginjaninja78/orderdoc/internal/logging"
	"github.com/ginjaninja78/orderdoc/internal/pattern"
	"github.com/ginjaninja78/orderdoc/internal/templates"
	"github.com/ginjaninja78/orderdoc/internal/types"
	"github.com/ginjaninja78/orderdoc/internal/validation"
)

// IconBase is the path prefix of every label icon in the template.
const IconBase = "/WEB_SERVER/wmp/etc/image/sale_slip/"

// Label icons.
const (
	IconDate         = IconBase + "t_date.gif"
	IconApproval     = IconBase + "t_approval.gif"
	IconSupply       = IconBase + "t_supply.gif"
	IconVAT          = IconBase + "t_vat.gif"
	IconTaxFree      = IconBase + "t_amount01.gif"
	IconTotal        = IconBase + "t_total.gif"
	IconStoreName    = IconBase + "t_sub_name.gif"
	IconSupplierInfo = IconBase + "t_supplier_info.gif"
	IconCEO          = IconBase + "t_master.gif"
	IconAddress      = IconBase + "t_address01.gif"
	IconOrderNumber  = IconBase + "t_order_no.gif"
)

// Value cells carry a trailing newline and padding in the template; the
// slip's fixed layout depends on it.
var valueTail = "\n" + strings.Repeat(" ", 60)

var (
	reDateTime       = regexp.MustCompile(`\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}`)
	reBusinessNumber = regexp.MustCompile(`\d{3}-\d{2}-\d{5}`)
	reContact        = regexp.MustCompile(`Tel\.\d{3}-\d{3}-\d{4}`)
)

const productInfoStyle = "word-break:break-all;padding-left:5;padding-top:2"

// Fields are the values written into a card receipt. Amounts are plain
// integers; text values are written as given.
type Fields struct {
	OrderNumber     string
	TransactionTime string // YYYY/MM/DD HH:MM:SS
	ApprovalNumber  string
	ProductInfo     string

	Supply  int64
	VAT     int64
	TaxFree int64
	Total   int64

	StoreName       string
	BusinessNumber  string // 10 digits or already formatted
	CEOName         string
	SupplierContact string // "Tel.NNN-NNN-NNNN"
	SupplierAddress string
}

// Converter fills card receipt templates.
type Converter struct {
	template templates.Template
	logger   logging.Logger
}

// NewConverter creates a converter for the given receipt template.
func NewConverter(tpl templates.Template, logger logging.Logger) *Converter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Converter{template: tpl, logger: logger}
}

// Convert fills a copy of the template with f.
//
// RETURNS:
//   - The receipt document, or a failure-prefixed string (see types.Fail)
//   - The anchor diagnostics collected along the way
func (c *Converter) Convert(f Fields) (string, *domtree.Diagnostics) {
	diag := &domtree.Diagnostics{}
	out := types.Guard(func() (string, error) {
		if err := validation.RequireDocument("카드영수증 템플릿", c.template.Text()); err != nil {
			return "", err
		}
		return c.fill(c.template.Text(), f, diag)
	})
	return out, diag
}

func (c *Converter) fill(src string, f Fields, diag *domtree.Diagnostics) (string, error) {
	doc, err := domtree.Parse(src)
	if err != nil {
		return "", err
	}
	loc := domtree.NewLocator(doc.Root, diag, c.logger)

	c.setTransactionTime(loc, f.TransactionTime)
	c.setNextRowCell(loc, "approval_number", IconApproval,
		domtree.AttrIs("style", "padding-left:5"), f.ApprovalNumber)
	c.setProductInfo(loc, f.ProductInfo)
	c.fillGrid(loc, "supply", IconSupply, f.Supply)
	c.fillGrid(loc, "vat", IconVAT, f.VAT)

	// The tax-free row has no stable structure around its icon; it is
	// filled on the serialized text, scoped to the row holding the icon.
	doc, err = c.fillTaxFree(doc, loc, f.TaxFree)
	if err != nil {
		return "", err
	}
	loc = domtree.NewLocator(doc.Root, diag, c.logger)

	c.fillGrid(loc, "total", IconTotal, f.Total)
	c.setNextRowCell(loc, "store_name", IconStoreName,
		domtree.All(domtree.AttrIs("bgcolor", "#F6F7F5"), domtree.AttrIs("style", "padding:3 2 2 5")),
		f.StoreName)
	c.replacePattern(loc, "business_number", reBusinessNumber,
		amount.FormatBusinessNumber(f.BusinessNumber))
	c.setCEO(loc, f.CEOName)
	c.replacePattern(loc, "supplier_contact", reContact, f.SupplierContact)
	c.setNextRowCell(loc, "supplier_address", IconAddress,
		domtree.All(domtree.AttrIs("bgcolor", "#F6F7F5"), domtree.AttrIs("style", "padding:3 2 2 5")),
		f.SupplierAddress)
	c.setNextRowCell(loc, "order_number", IconOrderNumber,
		domtree.All(domtree.HasClass("num"), domtree.AttrIs("style", "padding-left:5")),
		f.OrderNumber)

	return doc.Render()
}

// =============================================================================
// STEPS
// =============================================================================

func (c *Converter) setTransactionTime(loc *domtree.Locator, value string) {
	if value == "" {
		return
	}
	row, ok := loc.IconNextRow("transaction_time", IconDate)
	if !ok {
		return
	}
	cell, ok := loc.Within(row).First("transaction_time", "td.num[style=padding-left:5]",
		domtree.All(domtree.Tag("td"), domtree.HasClass("num"), domtree.AttrIs("style", "padding-left:5")))
	if !ok {
		return
	}
	if replaced, ok := pattern.ReplaceAll(domtree.Text(cell), reDateTime, value); ok {
		domtree.SetText(cell, replaced)
		return
	}
	loc.Miss("transaction_time", reDateTime.String())
}

// setNextRowCell writes value plus the layout tail into the first td
// matching m in the row below icon.
func (c *Converter) setNextRowCell(loc *domtree.Locator, field, icon string, m domtree.Matcher, value string) {
	if value == "" {
		return
	}
	row, ok := loc.IconNextRow(field, icon)
	if !ok {
		return
	}
	cell, ok := loc.Within(row).First(field, "value cell", domtree.All(domtree.Tag("td"), m))
	if !ok {
		return
	}
	domtree.SetText(cell, value+valueTail)
}

func (c *Converter) setProductInfo(loc *domtree.Locator, value string) {
	if value == "" {
		return
	}
	cell, ok := loc.First("product_info", fmt.Sprintf("td[style=%s]", productInfoStyle),
		domtree.All(domtree.Tag("td"), domtree.AttrIs("style", productInfoStyle), domtree.TextContains("상품정보")))
	if !ok {
		return
	}
	domtree.Clear(cell)
	domtree.AppendText(cell, "상품정보 : ")
	domtree.AppendBreak(cell)
	domtree.AppendText(cell, value)
}

func (c *Converter) fillGrid(loc *domtree.Locator, field, icon string, value int64) {
	row, ok := loc.IconRow(field, icon)
	if !ok {
		return
	}
	if n := digitgrid.FillRow(row, value, digitgrid.DefaultWidth); n == 0 {
		loc.Miss(field, "td.num_b")
	}
}

func (c *Converter) fillTaxFree(doc *domtree.Document, loc *domtree.Locator, value int64) (*domtree.Document, error) {
	text, err := doc.Render()
	if err != nil {
		return nil, err
	}
	filled, ok := digitgrid.FillTextRow(text, IconTaxFree, value, digitgrid.DefaultWidth)
	if !ok {
		loc.Miss("tax_free", IconTaxFree)
		return doc, nil
	}
	loc.Hit("tax_free", IconTaxFree)
	return domtree.Parse(filled)
}

func (c *Converter) replacePattern(loc *domtree.Locator, field string, re *regexp.Regexp, value string) {
	if value == "" {
		return
	}
	if domtree.ReplaceText(loc.Root(), re, value) == 0 {
		loc.Miss(field, re.String())
		return
	}
	loc.Hit(field, re.String())
}

func (c *Converter) setCEO(loc *domtree.Locator, value string) {
	if value == "" {
		return
	}
	img, ok := loc.First("ceo_name", "img[src="+IconSupplierInfo+"]",
		domtree.All(domtree.Tag("img"), domtree.AttrIs("src", IconSupplierInfo)))
	if !ok {
		return
	}
	table := domtree.Ancestor(img, "table")
	if table == nil {
		loc.Miss("ceo_name", "supplier info table")
		return
	}
	c.setNextRowCell(loc.Within(table), "ceo_name", IconCEO,
		domtree.All(domtree.AttrIs("bgcolor", "#F6F7F5"), domtree.AttrIs("style", "padding-left:5")),
		value)
}
