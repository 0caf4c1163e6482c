// =============================================================================
// Order Document Generator - Payment Platform Order Converter
// =============================================================================
//
// Vendor C order pages are single-page-app snapshots with hashed CSS class
// names. The option list is not edited in place: a pre-authored option
// block (the option sample template) is trimmed to the requested number of
// items and spliced over the page's own list, then each item is filled.
//
// PIPELINE:
//   1. Find the purchase-confirmed date (given, or read from the page)
//   2. Inject the date into the option sample
//   3. Trim the sample to N items, drop gift rows
//   4. Splice the sample over the page's option list region
//   5. Fill each option item (tree)
//   6. Remove the coupon block when the coupon value is "0" (tree)
//   7. Substitute page-level fields (literal-prefix regex)
//
// Tree edits run before the regex pass so that no pattern can match text
// an option edit just inserted.
//
// =============================================================================

package payment

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"

	"github.com/ginjaninja78/orderdoc/internal/amount"
	"github.com/ginjaninja78/orderdoc/internal/domtree"
	"github.com/ginjaninja78/orderdoc/internal/logging"
	"github.com/ginjaninja78/orderdoc/internal/pattern"
	"github.com/ginjaninja78/orderdoc/internal/templates"
	"github.com/ginjaninja78/orderdoc/internal/types"
	"github.com/ginjaninja78/orderdoc/internal/validation"
)

// DefaultOptionCount is used when a request does not say how many items
// to keep and carries no options either.
const DefaultOptionCount = 5

// ErrPurchaseDateNotFound is returned when no purchase-confirmed date was
// supplied and none could be read from the page.
var ErrPurchaseDateNotFound = errors.New("구매확정일을 찾을 수 없습니다.")

// Class names used by the vendor markup.
const (
	classProductList   = "ProductInfoSection_product-list__LNSQt"
	classProductItem   = "ProductInfoSection_product-item__dipCB"
	classProductName   = "ProductDetail_name__KnKyo"
	classProductText   = "ProductDetail_text__KHWhA"
	classProductPrice  = "ProductDetail_price__g34o4"
	classPriceDeleted  = "ProductDetail_deleted__bSH1G"
	classOptionRow     = "ProductDetail_option__AC1PJ"
	classBadge         = "Badge_type-basic__HO5JF"
	classSubSummary    = "SubSummary_item-detail__QFXCA"
	classSubLabel      = "SubSummary_label__9VC8U"
	classSummaryValue  = "Summary_area-value__BcN0d"
	classSummaryTotal  = "Summary_summary__wHW36"
	giftBadge          = "사은품"
	couponLabel        = "쿠폰할인"
	noticeSectionClass = "Notice_section-notice__aTOa2"
)

var (
	reOptionRegion = regexp.MustCompile(`(<ul class="` + classProductList + `"[^>]*>` +
		`[\s\S]*?` + noticeSectionClass + `[\s\S]*?</div>\s*</ul>)`)

	reStoreName     = regexp.MustCompile(`(<strong class="ProductStore_title__iJmfU"><span class="blind">판매자명</span>)[^<]+`)
	reDelivery      = regexp.MustCompile(`(<div class="ProductStore_delivery__BivAy">)[^<]+`)
	reRecipientName = regexp.MustCompile(`(<strong class="DeliveryContent_name__fyClB"><span class="blind">배송지명</span>)[^<]+`)
	reRecipientTel  = regexp.MustCompile(`(<span class="DeliveryContent_phone__f0k\+a"><span class="blind">연락처</span>)[^<]+`)
	reRecipientAddr = regexp.MustCompile(`(<div class="DeliveryContent_area-address__XsMLS"><span class="blind">주소</span>)[^<]+`)
	reOrderTotal    = regexp.MustCompile(`(<dd class="` + classSummaryValue + `">총 )[\d,]+`)
	reProductAmount = regexp.MustCompile(`(?s)(<div class="` + classSubSummary + `">\s*<dt[^>]*>\s*<span class="` + classSubLabel + `">상품금액</span>.*?</dt>\s*<dd class="SubSummary_area-value__2c7V6">)[^<]+`)
	reCoupon        = regexp.MustCompile(`(<span class="` + classSubLabel + `">쿠폰할인</span>[\s\S]*?<dd class="SubSummary_area-value__2c7V6">)-[\d,]+원`)
	reShippingFee   = regexp.MustCompile(`(<span class="` + classSubLabel + `">배송비</span></dt><dd class="SubSummary_area-value__2c7V6">)[\d,]+`)
	reCardAmount    = regexp.MustCompile(`(<dd class="` + classSummaryValue + `">)[\d,]+원`)
	rePoint         = regexp.MustCompile(`(<em class="OrderDetailPointBanner_point__Z5z-O">최대 )[\d,]+원`)
)

// Summary holds the page-level values of an order. Blank values leave the
// page text as it is.
type Summary struct {
	StoreName        string
	Delivery         string
	RecipientName    string
	RecipientPhone   string
	RecipientAddress string

	OrderTotal     string
	ProductAmount  string
	CouponDiscount string // "0" removes the coupon block
	ShippingFee    string
	CardAmount     string
}

// OrderRequest is a complete vendor C order conversion.
type OrderRequest struct {
	HTML         string
	OptionCount  int
	PurchaseDate string
	Options      []types.OptionEntry
	Summary      Summary
}

// Count resolves the number of option items to keep.
func (r OrderRequest) Count() int {
	if r.OptionCount >= 1 {
		return r.OptionCount
	}
	if len(r.Options) > 0 {
		return len(r.Options)
	}
	return DefaultOptionCount
}

// Converter produces vendor C order pages and card slips.
type Converter struct {
	sample templates.Template
	logger logging.Logger
}

// NewConverter creates a converter from the loaded template set.
func NewConverter(set *templates.Set, logger logging.Logger) *Converter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Converter{
		sample: set.Get(types.VendorPayment, templates.KindOptionSample),
		logger: logger,
	}
}

// ConvertOrder runs the full order pipeline.
//
// RETURNS:
//   - The order page, or a failure-prefixed string (see types.Fail)
//   - The anchor diagnostics collected along the way
func (c *Converter) ConvertOrder(req OrderRequest) (string, *domtree.Diagnostics) {
	diag := &domtree.Diagnostics{}
	out := types.Guard(func() (string, error) {
		if err := validation.RequireDocument("html", req.HTML); err != nil {
			return "", err
		}
		spliced, err := c.PrepareOrder(req.HTML, req.Count(), req.PurchaseDate, diag)
		if err != nil {
			return "", err
		}
		return c.ApplyOrderFields(spliced, req.Options, req.Summary, diag)
	})
	return out, diag
}

// =============================================================================
// OPTION BLOCK SPLICE
// =============================================================================

// PrepareOrder replaces the page's option list with the option sample,
// dated with purchaseDate and trimmed to count items. An empty
// purchaseDate is read from the page.
func (c *Converter) PrepareOrder(src string, count int, purchaseDate string, diag *domtree.Diagnostics) (string, error) {
	if c.sample.Empty() {
		return "", validation.Missing("옵션 샘플코드")
	}
	if purchaseDate == "" {
		found, ok := ExtractPurchaseDate(src)
		if !ok {
			return "", ErrPurchaseDateNotFound
		}
		purchaseDate = found
	}

	loc := domtree.NewLocator(nil, diag, c.logger)

	sample, _ := pattern.ReplaceAll(c.sample.Text(), rePurchaseDate, purchaseDate)
	trimmed, err := trimOptionBlock(sample, count)
	if err != nil {
		return "", err
	}

	spliced, ok := pattern.ReplaceFirst(src, reOptionRegion, trimmed)
	if !ok {
		loc.Miss("option_list", "ul."+classProductList+" .. "+noticeSectionClass)
		return src, nil
	}
	loc.Hit("option_list", "ul."+classProductList)
	return spliced, nil
}

// trimOptionBlock keeps the first count option items of the sample and
// removes gift rows from the ones that remain.
func trimOptionBlock(sample string, count int) (string, error) {
	doc, err := domtree.Parse(sample)
	if err != nil {
		return "", err
	}
	ul := domtree.Find(doc.Root, domtree.All(domtree.Tag("ul"), domtree.HasClass(classProductList)))
	if ul == nil {
		return sample, nil
	}

	items := domtree.FindAll(ul, domtree.All(domtree.Tag("li"), domtree.HasClass(classProductItem)))
	if count < len(items) {
		for _, li := range items[count:] {
			domtree.Remove(li)
		}
	}

	for _, li := range domtree.FindAll(ul, domtree.All(domtree.Tag("li"), domtree.HasClass(classOptionRow))) {
		badge := domtree.Find(li, domtree.All(domtree.Tag("span"), domtree.HasClass(classBadge)))
		if badge != nil && strings.Contains(domtree.Text(badge), giftBadge) {
			domtree.Remove(li)
		}
	}

	return doc.Render()
}

// =============================================================================
// FIELD SUBSTITUTION
// =============================================================================

// ApplyOrderFields fills the option items and page-level values of a
// spliced order page.
func (c *Converter) ApplyOrderFields(src string, options []types.OptionEntry, s Summary, diag *domtree.Diagnostics) (string, error) {
	doc, err := domtree.Parse(src)
	if err != nil {
		return "", err
	}
	loc := domtree.NewLocator(doc.Root, diag, c.logger)

	items := loc.ClassList("option_items", "li", classProductItem)
	for i, li := range items {
		if i >= len(options) {
			break
		}
		c.fillOption(loc.Within(li), i, options[i])
	}

	if strings.TrimSpace(s.CouponDiscount) == "0" {
		c.removeCoupon(loc)
	}

	out, err := doc.Render()
	if err != nil {
		return "", err
	}

	sub := substituter{loc: loc, text: out}
	sub.apply("store_name", reStoreName, s.StoreName)
	sub.apply("delivery", reDelivery, s.Delivery)
	if name := strings.TrimSpace(s.RecipientName); name != "" {
		sub.apply("recipient_name", reRecipientName, name+"("+name+")")
	}
	sub.apply("recipient_phone", reRecipientTel, s.RecipientPhone)
	sub.apply("recipient_address", reRecipientAddr, s.RecipientAddress)

	sub.apply("order_total", reOrderTotal, money(s.OrderTotal))
	if v := money(s.ProductAmount); v != "" {
		sub.apply("product_amount", reProductAmount, v+"원")
	}
	if coupon := strings.TrimSpace(s.CouponDiscount); coupon != "" && coupon != "0" {
		sub.apply("coupon_discount", reCoupon, "-"+money(coupon)+"원")
	}
	sub.apply("shipping_fee", reShippingFee, money(s.ShippingFee))
	if v := money(s.CardAmount); v != "" {
		sub.apply("card_amount", reCardAmount, v+"원")
	}
	if strings.TrimSpace(s.OrderTotal) != "" {
		point := "0"
		if total, err := amount.ParseAmount(s.OrderTotal); err == nil {
			point = amount.FormatMoney(amount.PointEstimate(total))
		}
		sub.apply("point_estimate", rePoint, point+"원")
	}

	return sub.text, nil
}

// fillOption writes one option entry into its list item.
func (c *Converter) fillOption(loc *domtree.Locator, idx int, opt types.OptionEntry) {
	field := func(name string) string { return fmt.Sprintf("option_%d_%s", idx+1, name) }

	// Blank values keep the sample's text.
	name := strings.TrimSpace(opt.Name)
	if strong, ok := loc.First(field("name"), "strong."+classProductName,
		domtree.All(domtree.Tag("strong"), domtree.HasClass(classProductName))); ok && name != "" {
		for ch := strong.FirstChild; ch != nil; {
			next := ch.NextSibling
			if !(ch.Type == nethtml.ElementNode && ch.Data == "span") {
				strong.RemoveChild(ch)
			}
			ch = next
		}
		domtree.AppendText(strong, name)
	}

	spans := loc.ClassList(field("variant"), "span", classProductText)
	if variant := strings.TrimSpace(opt.Variant); len(spans) > 0 && variant != "" {
		domtree.SetText(spans[0], variant)
	}
	if len(spans) > 1 {
		em, ok := loc.Within(spans[1]).First(field("quantity"), "em", domtree.Tag("em"))
		if qty := strings.TrimSpace(opt.Quantity); ok && qty != "" {
			domtree.SetText(em, qty+"개")
		}
	}

	price, ok := loc.First(field("price"), "span."+classProductPrice,
		domtree.All(domtree.Tag("span"), domtree.HasClass(classProductPrice)))
	if v := money(opt.UnitPrice); ok && v != "" {
		domtree.SetText(price, v+"원")
	}

	if opt.Image != "" {
		if img, ok := loc.First(field("image"), "img", domtree.Tag("img")); ok {
			domtree.SetAttr(img, "src", opt.Image)
		}
	}

	if price != nil {
		setDiscount(price, opt)
	}
}

// setDiscount adds, updates or removes the struck-through price directly
// after the price span.
func setDiscount(price *nethtml.Node, opt types.OptionEntry) {
	var struck *nethtml.Node
	if next := price.NextSibling; next != nil && next.Type == nethtml.ElementNode &&
		next.Data == "s" && domtree.HasClass(classPriceDeleted)(next) {
		struck = next
	}

	if !opt.HasDiscount() {
		domtree.Remove(struck)
		return
	}

	text := strings.TrimSpace(opt.DiscountBefore)
	if n, err := amount.ParseAmount(text); err == nil {
		text = amount.FormatMoney(n) + "원"
	}
	if struck == nil {
		struck = domtree.NewElement("s", "class", classPriceDeleted)
		domtree.InsertAfter(price, struck)
	}
	domtree.SetText(struck, text)
}

func (c *Converter) removeCoupon(loc *domtree.Locator) {
	for _, div := range domtree.FindAll(loc.Root(), domtree.All(domtree.Tag("div"), domtree.HasClass(classSubSummary))) {
		label := domtree.Find(div, domtree.All(domtree.Tag("span"), domtree.HasClass(classSubLabel)))
		if label != nil && strings.Contains(domtree.Text(label), couponLabel) {
			domtree.Remove(div)
			loc.Hit("coupon_discount", "div."+classSubSummary)
			return
		}
	}
	loc.Miss("coupon_discount", "div."+classSubSummary)
}

// substituter applies literal-prefix replacements to serialized text and
// records the outcome of each.
type substituter struct {
	loc  *domtree.Locator
	text string
}

func (s *substituter) apply(field string, re *regexp.Regexp, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	out, ok := pattern.KeepPrefix(s.text, re, html.EscapeString(value))
	if !ok {
		s.loc.Miss(field, re.String())
		return
	}
	s.loc.Hit(field, re.String())
	s.text = out
}

// money formats a numeric value with separators. Blank stays blank and
// non-numeric text is returned as given.
func money(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return amount.FormatMoneyString(s)
}
