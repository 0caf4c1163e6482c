// =============================================================================
// Order Document Generator - Wholesale Order Converter
// =============================================================================
//
// Vendor A publishes an order detail page built from nested layout tables.
// Values are located by their Korean row labels (the value is the next <td>
// beside the label), by fixed icon paths, and by a handful of literal
// markers (the sample order number, the sample tracking number).
//
// PIPELINE:
//   1. Remove excess option rows from the sample cart
//   2. Rewrite the order number everywhere (text and attributes)
//   3. Rewrite the product title link
//   4. Fill every labeled field
//   5. Rebuild the option sub-table
//   6. Rebuild the order status log from the timeline
//   7. Render
//
// Random parts (order time, product number, receipt numbers) come from the
// converter's random source so tests can pin them.
//
// =============================================================================

package wholesale

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/ginjaninja78/orderdoc/internal/amount"
	"github.com/ginjaninja78/orderdoc/internal/domtree"
	"github.com/ginjaninja78/orderdoc/internal/logging"
	"github.com/ginjaninja78/orderdoc/internal/receipt"
	"github.com/ginjaninja78/orderdoc/internal/templates"
	"github.com/ginjaninja78/orderdoc/internal/timeline"
	"github.com/ginjaninja78/orderdoc/internal/types"
	"github.com/ginjaninja78/orderdoc/internal/validation"
)

// OptionPool lists the sample cart's option labels in removal order.
var OptionPool = []string{"그린", "핑크", "오렌지", "블랙", "옐로우"}

// OrderPrefix is the fixed prefix of every vendor A order number.
const OrderPrefix = "OR6461"

// TrackingNumber is the sample tracking number removed from the page.
const TrackingNumber = "510214500263"

var reOrderNumber = regexp.MustCompile(OrderPrefix + `\d{4}`)

const (
	emphasisColor = "#cc0000"
	cellStyle     = "padding:7px 3px 4px 3px; line-height:14px;"
	borderedStyle = "padding:7px 3px 4px 3px; line-height:14px; border-top:1px solid #ccc;"
	rowBorder     = "border-top:1px solid #ccc"
)

// Converter produces vendor A order pages and card receipts.
type Converter struct {
	order   templates.Template
	receipt *receipt.Converter
	logger  logging.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Converter.
type Option func(*Converter)

// WithRand sets the random source used for generated times and numbers.
func WithRand(r *rand.Rand) Option {
	return func(c *Converter) {
		c.rng = r
	}
}

// NewConverter creates a converter from the loaded template set.
func NewConverter(set *templates.Set, logger logging.Logger, opts ...Option) *Converter {
	if logger == nil {
		logger = logging.Nop()
	}
	c := &Converter{
		order:   set.Get(types.VendorWholesale, types.KindOrder),
		receipt: receipt.NewConverter(set.Get(types.VendorWholesale, types.KindReceipt), logger),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		seed := uint64(time.Now().UnixNano())
		c.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return c
}

// intRange returns a random integer in [lo, hi].
func (c *Converter) intRange(lo, hi int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return lo + c.rng.IntN(hi-lo+1)
}

// randomClock returns a random time of day with one-second resolution.
func (c *Converter) randomClock() time.Duration {
	return time.Duration(c.intRange(0, 24*60*60-1)) * time.Second
}

// orderClock resolves the order time of day for req.
func (c *Converter) orderClock(req OrderRequest) (time.Duration, error) {
	if req.OrderTime == "" {
		return c.randomClock(), nil
	}
	return timeline.ParseClock(req.OrderTime)
}

// =============================================================================
// ORDER PAGE
// =============================================================================

// ConvertOrder fills a copy of the order template with req.
//
// RETURNS:
//   - The order page, or a failure-prefixed string (see types.Fail)
//   - The anchor diagnostics collected along the way
func (c *Converter) ConvertOrder(req OrderRequest) (string, *domtree.Diagnostics) {
	diag := &domtree.Diagnostics{}
	out := types.Guard(func() (string, error) {
		if err := validation.RequireDocument("주문내역 템플릿", c.order.Text()); err != nil {
			return "", err
		}
		return c.convertOrder(c.order.Text(), req, diag)
	})
	return out, diag
}

// ConvertOrderHTML fills a caller-supplied order page instead of the
// loaded template.
func (c *Converter) ConvertOrderHTML(src string, req OrderRequest) (string, *domtree.Diagnostics) {
	diag := &domtree.Diagnostics{}
	out := types.Guard(func() (string, error) {
		if err := validation.CheckHTMLBody(src); err != nil {
			return "", err
		}
		return c.convertOrder(src, req, diag)
	})
	return out, diag
}

func (c *Converter) convertOrder(src string, req OrderRequest, diag *domtree.Diagnostics) (string, error) {
	orderDate, err := timeline.ParseDate(req.OrderDate)
	if err != nil {
		return "", err
	}
	clock, err := c.orderClock(req)
	if err != nil {
		return "", err
	}

	doc, err := domtree.Parse(src)
	if err != nil {
		return "", err
	}
	loc := domtree.NewLocator(doc.Root, diag, c.logger)
	count := req.normalizedCount()

	c.removeExcessOptions(loc, count)

	if domtree.ReplaceText(doc.Root, reOrderNumber, OrderPrefix+req.OrderNumber) == 0 {
		loc.Miss("order_number", reOrderNumber.String())
	} else {
		loc.Hit("order_number", reOrderNumber.String())
	}

	if a, ok := loc.First("product_title", "a[text^=[299]", domtree.All(domtree.Tag("a"), domtree.TextHasPrefix("[299"))); ok {
		productNumber := "299" + strconv.Itoa(c.intRange(10000, 99999))
		domtree.SetText(a, fmt.Sprintf("[%s] %s", productNumber, req.ProductTitle))
	}

	payment := amount.FormatMoneyString(req.PaymentAmount)
	dateText := orderDate.Format(timeline.DateLayout)

	c.setLabel(loc, "supplier_name", "공급사이름", req.SupplierName)
	c.setLabel(loc, "supplier_email", "공급사이메일", req.SupplierEmail)
	c.setLabel(loc, "supplier_phone", "공급사연락처", req.SupplierPhone)
	c.setEmphasis(loc, "quantity", "주문수량", req.Quantity+"개")
	c.setEmphasis(loc, "payment_amount", "결제금액", payment+"원")
	c.setLabel(loc, "product_cost", "상품비", payment+"원")
	c.setLabel(loc, "shipping_fee", "배송비", "주문시결제 0원")
	c.setPaymentMethod(loc, payment)
	c.setLabel(loc, "recipient_name", "수령자이름", req.RecipientName)
	c.setAddress(loc, req.RecipientName, req.Address)
	c.setLabel(loc, "phone", "휴대전화", amount.FormatMobile(req.Phone))

	if b, ok := loc.First("tracking_number", "b[text*="+TrackingNumber+"]",
		domtree.All(domtree.Tag("b"), domtree.TextContains(TrackingNumber))); ok {
		domtree.Remove(b)
	}

	c.setLabel(loc, "order_time", "주문일시", dateText+" "+timeline.FormatClock(clock))
	c.setLabel(loc, "payment_time", "결제일시",
		dateText+" "+timeline.FormatClock(timeline.AddClock(clock, timeline.PaymentOffset)))

	c.rebuildOptions(loc, req, count)
	c.rebuildStatusLog(loc, orderDate, clock, payment)

	return doc.Render()
}

// removeExcessOptions deletes the sample cart rows beyond count, taking
// labels from the front of OptionPool.
func (c *Converter) removeExcessOptions(loc *domtree.Locator, count int) {
	for _, label := range OptionPool[:MaxOptions-count] {
		row, ok := loc.First("option_row_"+label, "tr > td[align=left]*="+label, optionRow(label))
		if ok {
			domtree.Remove(row)
		}
	}
}

// optionRow matches a <tr> whose first left-aligned cell mentions label.
func optionRow(label string) domtree.Matcher {
	leftCell := domtree.All(domtree.Tag("td"), domtree.AttrIs("align", "left"))
	mentions := domtree.TextContains(label)
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "tr" {
			return false
		}
		td := domtree.Find(n, leftCell)
		return td != nil && mentions(td)
	}
}

func (c *Converter) setLabel(loc *domtree.Locator, field, label, value string) {
	if td, ok := loc.LabelSibling(field, "td", label); ok {
		domtree.SetText(td, value)
	}
}

// setEmphasis writes value into the red bold text beside label.
func (c *Converter) setEmphasis(loc *domtree.Locator, field, label, value string) {
	td, ok := loc.LabelSibling(field, "td", label)
	if !ok {
		return
	}
	font, ok := loc.Within(td).First(field, "font[color="+emphasisColor+"]",
		domtree.All(domtree.Tag("font"), domtree.AttrIs("color", emphasisColor)))
	if !ok {
		return
	}
	if b, ok := loc.Within(font).First(field, "b", domtree.Tag("b")); ok {
		domtree.SetText(b, value)
	}
}

func (c *Converter) setPaymentMethod(loc *domtree.Locator, payment string) {
	td, ok := loc.LabelSibling("payment_method", "td", "결제방법")
	if !ok {
		return
	}
	b, ok := loc.Within(td).First("payment_method", "b[style=color:"+emphasisColor+"]",
		domtree.All(domtree.Tag("b"), domtree.AttrIs("style", "color:"+emphasisColor)))
	if !ok {
		return
	}
	if !domtree.TextContains("카드결제액")(b) {
		loc.Miss("payment_method", "카드결제액")
		return
	}
	domtree.SetText(b, "카드결제액 "+payment+"원")
}

func (c *Converter) setAddress(loc *domtree.Locator, name, address string) {
	td, ok := loc.LabelSibling("address", "td", "수령지주소")
	if !ok {
		return
	}
	domtree.Clear(td)
	domtree.AppendText(td, name)
	domtree.AppendBreak(td)
	domtree.AppendText(td, address)
}

// rebuildOptions replaces the option sub-table body with count rows.
func (c *Converter) rebuildOptions(loc *domtree.Locator, req OrderRequest, count int) {
	td, ok := loc.LabelSibling("options", "td", "상품주문옵션")
	if !ok {
		return
	}
	tbody, ok := loc.Within(td).First("options", "tbody", domtree.Tag("tbody"))
	if !ok {
		return
	}
	domtree.Clear(tbody)

	for i := 0; i < count; i++ {
		opt := req.option(i)
		style := cellStyle
		var tr *html.Node
		if i == 0 {
			tr = domtree.NewElement("tr")
		} else {
			tr = domtree.NewElement("tr", "style", rowBorder)
			style = borderedStyle
		}

		cells := []struct{ align, text string }{
			{"left", opt.Name},
			{"right", opt.Quantity + "개"},
			{"right", amount.FormatMoneyString(opt.UnitPrice) + "원"},
		}
		for _, cell := range cells {
			cellNode := domtree.NewElement("td", "align", cell.align, "style", style)
			domtree.AppendText(cellNode, cell.text)
			tr.AppendChild(cellNode)
		}
		tbody.AppendChild(tr)
	}
}

// rebuildStatusLog writes the status history, newest first, one line per
// event.
func (c *Converter) rebuildStatusLog(loc *domtree.Locator, orderDate time.Time, clock time.Duration, payment string) {
	td, ok := loc.LabelSibling("status_log", "td", "주문상태기록")
	if !ok {
		return
	}
	domtree.Clear(td)
	for _, line := range timeline.StatusLog(orderDate, clock, payment) {
		domtree.AppendText(td, line.String())
		domtree.AppendBreak(td)
	}
}
