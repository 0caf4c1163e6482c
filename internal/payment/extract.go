package payment

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	nethtml "golang.org/x/net/html"

	"github.com/ginjaninja78/orderdoc/internal/amount"
	"github.com/ginjaninja78/orderdoc/internal/domtree"
	"github.com/ginjaninja78/orderdoc/internal/validation"
)

var (
	rePurchaseDate = regexp.MustCompile(`구매확정일\s*\d{4}\.\s*\d{1,2}\.\s*\d{1,2}\.\s*\([^)]+\)`)
	reTag          = regexp.MustCompile(`<[^<]+?>`)
	reLineBreak    = regexp.MustCompile(`\r\n|\r|\n`)
)

var weekdays = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// ExtractPurchaseDate scans src line by line for the purchase-confirmed
// label and returns the first complete date phrase, tags stripped.
func ExtractPurchaseDate(src string) (string, bool) {
	for _, line := range reLineBreak.Split(src, -1) {
		if !strings.Contains(line, "구매확정일") {
			continue
		}
		text := reTag.ReplaceAllString(line, "")
		if m := rePurchaseDate.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

// DefaultPurchaseDate renders now as "구매확정일 YYYY. MM. DD. (요일)".
func DefaultPurchaseDate(now time.Time) string {
	return fmt.Sprintf("구매확정일 %s (%s)", now.Format("2006. 01. 02."), weekdays[now.Weekday()])
}

// OrderInfo is what a converted order page tells the card slip form.
type OrderInfo struct {
	Product        string
	ApprovalAmount string
	Total          string
}

// ExtractOrderInfo reads the first option's product name and the first
// summary amount from an order page.
func ExtractOrderInfo(src string) (OrderInfo, error) {
	if err := validation.RequireDocument("html", src); err != nil {
		return OrderInfo{}, err
	}
	doc, err := domtree.Parse(src)
	if err != nil {
		return OrderInfo{}, err
	}

	var info OrderInfo
	item := domtree.Find(doc.Root, domtree.All(domtree.Tag("li"), domtree.HasClass(classProductItem)))
	if item != nil {
		strong := domtree.Find(item, domtree.All(domtree.Tag("strong"), domtree.HasClass(classProductName)))
		if strong != nil {
			info.Product = productName(strong)
		}
	}

	if dd := domtree.Find(doc.Root, domtree.All(domtree.Tag("dd"), domtree.HasClass(classSummaryValue))); dd != nil {
		if digits := amount.Digits(domtree.Text(dd)); digits != "" {
			info.Total = amount.FormatMoneyString(digits)
		}
	}
	info.ApprovalAmount = info.Total

	return info, nil
}

// productName returns the text of the last non-blank child of the name
// element that is not a span. Spans hold screen-reader labels and badges.
func productName(strong *nethtml.Node) string {
	name := ""
	for ch := strong.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == nethtml.ElementNode && ch.Data == "span" {
			continue
		}
		if text := strings.TrimSpace(domtree.Text(ch)); text != "" {
			name = text
		}
	}
	return name
}
