// =============================================================================
// Order Document Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across the converters to avoid
// import cycles. Types defined here are used by:
//   - wholesale (vendor A order page and card receipt)
//   - payment   (vendor C order page and card slip)
//   - furniture (vendor B spreadsheet)
//   - cmd       (result handling and history)
//
// RESULT CHANNEL:
//   The HTML converters return a plain string. A conversion that failed at
//   runtime returns a string starting with FailurePrefix instead of the
//   document. Callers must check IsFailure before treating the string as
//   a document.
//
// =============================================================================

package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// VENDORS AND DOCUMENT KINDS
// =============================================================================

// Vendor keys.
const (
	VendorWholesale = "wholesale"
	VendorPayment   = "payment"
	VendorFurniture = "furniture"
)

// Document kinds.
const (
	KindOrder   = "order"
	KindReceipt = "receipt"
	KindSheet   = "sheet"
)

// KindLabel returns the Korean suffix used in suggested filenames for a
// document kind.
func KindLabel(kind string) string {
	switch kind {
	case KindOrder:
		return "주문내역"
	case KindReceipt:
		return "카드영수증"
	default:
		return kind
	}
}

// =============================================================================
// FAILURE CHANNEL
// =============================================================================

// FailurePrefix marks a converter result that carries an error message
// instead of a document.
const FailurePrefix = "변환 중 오류가 발생했습니다: "

// Fail renders err as a failure-prefixed result string.
func Fail(err error) string {
	if err == nil {
		return FailurePrefix + "unknown error"
	}
	return FailurePrefix + err.Error()
}

// IsFailure reports whether a converter result is a failure string.
func IsFailure(result string) bool {
	return strings.HasPrefix(result, FailurePrefix)
}

// FailureError converts a failure string back into an error.
// It returns nil for a successful result.
func FailureError(result string) error {
	if !IsFailure(result) {
		return nil
	}
	return errors.New(strings.TrimPrefix(result, FailurePrefix))
}

// Guard runs a conversion pipeline and folds both returned errors and
// panics into the failure string.
func Guard(fn func() (string, error)) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = Fail(fmt.Errorf("%v", r))
		}
	}()

	doc, err := fn()
	if err != nil {
		return Fail(err)
	}
	return doc
}

// =============================================================================
// FIELD MAP
// =============================================================================

// FieldMap is an ordered mapping from field name to string value.
// Values are kept exactly as supplied (raw digits or caller-formatted text).
type FieldMap struct {
	keys   []string
	values map[string]string
}

// NewFieldMap creates a FieldMap from alternating key/value pairs.
func NewFieldMap(pairs ...string) *FieldMap {
	m := &FieldMap{values: make(map[string]string)}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Set stores a value, keeping the position of an existing key.
func (m *FieldMap) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Lookup returns the value and whether the key is present.
func (m *FieldMap) Lookup(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Get returns the value for key, or "" when absent.
func (m *FieldMap) Get(key string) string {
	v, _ := m.Lookup(key)
	return v
}

// GetOr returns the value for key, or def when the key is absent or blank.
func (m *FieldMap) GetOr(key, def string) string {
	if v, ok := m.Lookup(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// Keys returns the field names in insertion order.
func (m *FieldMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Merge copies every field of other into m. Fields in other win.
func (m *FieldMap) Merge(other *FieldMap) {
	for _, k := range other.Keys() {
		m.Set(k, other.Get(k))
	}
}

// UnmarshalYAML decodes a mapping node, preserving document order.
// Scalar values are taken verbatim so "0202" stays "0202".
func (m *FieldMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("field map: expected a mapping, got %v", node.Tag)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("field map: value of %q must be a scalar (line %d)", k.Value, v.Line)
		}
		m.Set(k.Value, v.Value)
	}
	return nil
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of strings, preserving key order.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("field map: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("field map: expected an object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("field map: %w", err)
		}
		key, _ := tok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field map: value of %q: %w", key, err)
		}
		m.Set(key, value)
	}
	return nil
}

// =============================================================================
// OPTION ENTRY
// =============================================================================

// OptionEntry is one purchased line item.
type OptionEntry struct {
	// Name is the product (or option) name.
	Name string `yaml:"name" json:"name"`

	// Variant is the option label shown under the name.
	Variant string `yaml:"variant" json:"variant,omitempty"`

	// Quantity is the raw quantity, without unit.
	Quantity string `yaml:"quantity" json:"quantity"`

	// UnitPrice is the raw price, with or without separators.
	UnitPrice string `yaml:"price" json:"price"`

	// DiscountBefore is the struck-through price before discount.
	// Empty or "0" means no discount is shown.
	DiscountBefore string `yaml:"discount_before" json:"discount_before,omitempty"`

	// Image is the product image reference.
	Image string `yaml:"image" json:"image,omitempty"`
}

// HasDiscount reports whether a struck-through price should be displayed.
func (o OptionEntry) HasDiscount() bool {
	d := strings.TrimSpace(o.DiscountBefore)
	return d != "" && d != "0"
}

// =============================================================================
// CONVERSION RESULT
// =============================================================================

// ConversionResult is a finished document and its suggested filename.
// It is written once by the result sink and never mutated afterwards.
type ConversionResult struct {
	Vendor   string
	Kind     string
	Document string
	Filename string

	// Missing lists the fields whose anchors were not found.
	Missing []string
}
