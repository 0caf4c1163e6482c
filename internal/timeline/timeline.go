// =============================================================================
// Order Document Generator - Order Status Timeline
// =============================================================================
//
// An order page carries a status log whose entries are derived from the
// order timestamp by fixed business offsets. Each event has a day offset
// (applied to the calendar date) and a clock offset (applied to the time
// of day, wrapping at midnight). The two are independent: a clock that
// wraps past midnight does not move the date.
//
//   event               day   clock offset
//   order-info-entry    +0    +2s
//   order-confirm       +0    +5s
//   card-payment        +0    +27s  (+2s, then +25s)
//   shipping-start      +1    +17h31m46s
//   shipping-complete   +2    +22m15s
//   purchase-confirm    +10   +15h43m41s
//
// =============================================================================

package timeline

import (
	"fmt"
	"strings"
	"time"
)

// Layouts used on the order page.
const (
	DateLayout  = "2006/01/02"
	ClockLayout = "15:04:05"
	StampLayout = DateLayout + " " + ClockLayout
)

// PaymentOffset separates the order timestamp from the payment timestamp.
const PaymentOffset = 24 * time.Second

// Kind identifies a status event.
type Kind int

const (
	OrderInfoEntry Kind = iota
	OrderConfirm
	CardPayment
	ShippingStart
	ShippingComplete
	PurchaseConfirm
)

// Offset is the fixed displacement of an event from the order timestamp.
type Offset struct {
	Days  int
	Clock time.Duration
}

const (
	entryDelay   = 2 * time.Second
	paymentDelay = 25 * time.Second
)

var offsets = map[Kind]Offset{
	OrderInfoEntry:   {Days: 0, Clock: entryDelay},
	OrderConfirm:     {Days: 0, Clock: 5 * time.Second},
	CardPayment:      {Days: 0, Clock: entryDelay + paymentDelay},
	ShippingStart:    {Days: 1, Clock: 17*time.Hour + 31*time.Minute + 46*time.Second},
	ShippingComplete: {Days: 2, Clock: 22*time.Minute + 15*time.Second},
	PurchaseConfirm:  {Days: 10, Clock: 15*time.Hour + 43*time.Minute + 41*time.Second},
}

// OffsetOf returns the offset for an event kind.
func OffsetOf(k Kind) Offset {
	return offsets[k]
}

// Event is one computed status entry.
type Event struct {
	Kind  Kind
	Date  time.Time
	Clock time.Duration
}

// Stamp renders the event as "YYYY/MM/DD HH:MM:SS".
func (e Event) Stamp() string {
	return e.Date.Format(DateLayout) + " " + FormatClock(e.Clock)
}

// Apply computes the event for k from an order date and time of day.
func Apply(k Kind, orderDate time.Time, base time.Duration) Event {
	off := offsets[k]
	return Event{
		Kind:  k,
		Date:  orderDate.AddDate(0, 0, off.Days),
		Clock: wrapClock(base + off.Clock),
	}
}

// Build computes every event, in Kind order.
func Build(orderDate time.Time, base time.Duration) []Event {
	kinds := []Kind{OrderInfoEntry, OrderConfirm, CardPayment, ShippingStart, ShippingComplete, PurchaseConfirm}
	events := make([]Event, 0, len(kinds))
	for _, k := range kinds {
		events = append(events, Apply(k, orderDate, base))
	}
	return events
}

// AddClock adds d to a time of day, wrapping at midnight.
func AddClock(base, d time.Duration) time.Duration {
	return wrapClock(base + d)
}

func wrapClock(d time.Duration) time.Duration {
	d %= 24 * time.Hour
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

// ParseClock reads "HH:MM:SS" into a time of day.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// FormatClock renders a time of day as "HH:MM:SS".
func FormatClock(d time.Duration) string {
	d = wrapClock(d)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseDate reads an order date given as YYYYMMDD or YYYY/MM/DD.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"20060102", DateLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid order date %q", s)
}

// =============================================================================
// STATUS LOG
// =============================================================================

// StatusLine is one rendered line of the order status log.
type StatusLine struct {
	Event Event
	Text  string
}

func (l StatusLine) String() string {
	return l.Event.Stamp() + " : " + l.Text
}

// StatusLog returns the status log lines, newest first, as shown on the
// order page. paymentAmount is already formatted with separators.
func StatusLog(orderDate time.Time, base time.Duration, paymentAmount string) []StatusLine {
	at := func(k Kind) Event { return Apply(k, orderDate, base) }
	return []StatusLine{
		{at(PurchaseConfirm), "상품구매확정 (자동처리)"},
		{at(ShippingComplete), "상품배송완료"},
		{at(ShippingStart), "상품배송시작"},
		{at(OrderConfirm), "발주확인"},
		{at(CardPayment), "카드결제 " + paymentAmount + "원"},
		{at(OrderInfoEntry), "주문정보입력"},
	}
}
