// =============================================================================
// Order Document Generator - Derived Values
// =============================================================================
//
// Money formatting, the supply/VAT split of a tax-inclusive total, the
// point-reward estimate, and the small field formatters shared by the
// converters (business numbers, phone numbers, compact dates).
//
// All arithmetic is done on integers; no float division is involved in
// the supply split.
//
// =============================================================================

package amount

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

// =============================================================================
// PARSING AND FORMATTING
// =============================================================================

// ParseAmount reads an integer amount, ignoring thousands separators,
// spaces, non-breaking spaces and a trailing "원".
func ParseAmount(s string) (int64, error) {
	clean := strings.NewReplacer(",", "", " ", "", "\u00a0", "", "원", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return n, nil
}

// ParseAmountOr returns def when s is not a valid amount.
func ParseAmountOr(s string, def int64) int64 {
	n, err := ParseAmount(s)
	if err != nil {
		return def
	}
	return n
}

// FormatMoney renders n with thousands separators and no currency symbol.
func FormatMoney(n int64) string {
	return humanize.Comma(n)
}

// FormatMoneyString re-formats a raw amount with separators. Values that
// do not parse are returned unchanged.
func FormatMoneyString(s string) string {
	n, err := ParseAmount(s)
	if err != nil {
		return s
	}
	return FormatMoney(n)
}

// =============================================================================
// SUPPLY / VAT SPLIT
// =============================================================================

// RoundingMode selects how a quotient is rounded to an integer.
type RoundingMode int

const (
	RoundHalfEven RoundingMode = iota
	RoundHalfUp
	RoundDown
)

// SupplyRounding is the rule applied to total/1.1. With a divisor of 11
// an exact .5 remainder cannot occur, so half-even and half-up agree on
// every integer total.
const SupplyRounding = RoundHalfEven

// VAT rate expressed as the fraction 1/10 of supply.
const (
	vatNumerator   = 10
	vatDenominator = 11
)

// SupplyFromTotal splits a tax-inclusive total into supply and VAT:
// supply = round(total / 1.1), vat = total - supply.
func SupplyFromTotal(total int64) (supply, vat int64) {
	supply = divRound(total*vatNumerator, vatDenominator, SupplyRounding)
	return supply, total - supply
}

func divRound(num, den int64, mode RoundingMode) int64 {
	neg := (num < 0) != (den < 0)
	if num < 0 {
		num = -num
	}
	if den < 0 {
		den = -den
	}

	q, r := num/den, num%den
	switch mode {
	case RoundHalfEven:
		if 2*r > den || (2*r == den && q%2 == 1) {
			q++
		}
	case RoundHalfUp:
		if 2*r >= den {
			q++
		}
	}

	if neg {
		return -q
	}
	return q
}

// =============================================================================
// POINT ESTIMATE
// =============================================================================

// Point reward rate: 3 percent of the order total.
const (
	PointRateNumerator   = 3
	PointRateDenominator = 100
)

// PointEstimate returns floor(total * 0.03).
func PointEstimate(total int64) int64 {
	if total <= 0 {
		return 0
	}
	return total * PointRateNumerator / PointRateDenominator
}

// =============================================================================
// FIELD FORMATTERS
// =============================================================================

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// IsDigits reports whether s is non-empty and all ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FormatBusinessNumber renders a 10-digit business registration number as
// NNN-NN-NNNNN. Anything else is returned unchanged.
func FormatBusinessNumber(s string) string {
	d := Digits(s)
	if len(d) != 10 {
		return s
	}
	return d[:3] + "-" + d[3:5] + "-" + d[5:]
}

// FormatMobile renders an 11-digit mobile number as NNN-NNNN-NNNN.
// Anything else is returned unchanged.
func FormatMobile(s string) string {
	d := Digits(s)
	if len(d) != 11 {
		return s
	}
	return d[:3] + "-" + d[3:7] + "-" + d[7:]
}

// FormatContact renders a supplier contact line for the receipt footer.
func FormatContact(phone, fallback string) string {
	if strings.TrimSpace(phone) == "" {
		return fallback
	}
	return "Tel." + strings.TrimSpace(phone)
}

// FormatCompactDate renders YYYYMMDD as YYYY/MM/DD. Anything else is
// returned unchanged.
func FormatCompactDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) != 8 || !IsDigits(s) {
		return s
	}
	return s[:4] + "/" + s[4:6] + "/" + s[6:]
}
