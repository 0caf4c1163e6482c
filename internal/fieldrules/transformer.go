// =============================================================================
// Order Document Generator - Field Coercion Rules
// =============================================================================
//
// This module applies the field_rules section of the configuration to an
// input field file before it reaches a converter. Rules only normalize
// values (strip separators, reformat phone numbers, fill defaults); they
// never reject input.
//
// RULE TYPES:
//   - String manipulations (prepend, append, trim, replace, case)
//   - Amount and identifier formatting (digits, separators, money, phone,
//     business number, compact dates)
//   - Defaults for empty fields
//
// Rules are configured per vendor:
//
//	field_rules:
//	  wholesale:
//	    - field: phone
//	      actions:
//	        - type: digits_only
//	        - type: format_phone
//
// =============================================================================

package fieldrules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/orderdoc/internal/amount"
	"github.com/ginjaninja78/orderdoc/internal/config"
	"github.com/ginjaninja78/orderdoc/internal/types"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer applies coercion rules to field values.
type Transformer struct {
	rules []config.FieldRule
}

// NewTransformer creates a new Transformer with the given rules.
func NewTransformer(rules []config.FieldRule) *Transformer {
	return &Transformer{
		rules: rules,
	}
}

// ForVendor creates a Transformer from the rules configured for vendor.
func ForVendor(cfg *config.MainConfig, vendor string) *Transformer {
	if cfg == nil {
		return NewTransformer(nil)
	}
	return NewTransformer(cfg.FieldRules[vendor])
}

// Transform applies the rule for fieldName to value.
//
// PARAMETERS:
//   - fieldName: The name of the field being transformed.
//   - value: The current value of the field.
//   - allFields: All input fields (for if_empty_use_field).
//
// RETURNS:
//   - The transformed value.
//   - An error if any action fails.
func (t *Transformer) Transform(fieldName, value string, allFields *types.FieldMap) (string, error) {
	rule := t.rule(fieldName)
	if rule == nil {
		return value, nil
	}

	result := value
	for _, action := range rule.Actions {
		var err error
		result, err = ApplyAction(result, action, allFields)
		if err != nil {
			return "", fmt.Errorf("action '%s' on field '%s' failed: %w", action.Type, fieldName, err)
		}
	}
	return result, nil
}

func (t *Transformer) rule(fieldName string) *config.FieldRule {
	for i := range t.rules {
		if t.rules[i].Field == fieldName {
			return &t.rules[i]
		}
	}
	return nil
}

// Apply transforms every field of fm that has a rule, in rule order.
// Absent fields are only created when a rule supplies a default.
func (t *Transformer) Apply(fm *types.FieldMap) error {
	for _, rule := range t.rules {
		value, present := fm.Lookup(rule.Field)
		if !present && !suppliesDefault(rule) {
			continue
		}
		out, err := t.Transform(rule.Field, value, fm)
		if err != nil {
			return err
		}
		if present || out != "" {
			fm.Set(rule.Field, out)
		}
	}
	return nil
}

func suppliesDefault(rule config.FieldRule) bool {
	for _, a := range rule.Actions {
		switch a.Type {
		case "if_empty_use_default", "default", "if_empty_use_field":
			return true
		}
	}
	return false
}

// =============================================================================
// ACTIONS
// =============================================================================

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	separators   = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "원", "")
)

// ApplyAction applies a single coercion action.
//
// CUSTOMIZATION:
//   Add new action types by adding cases to this switch statement.
func ApplyAction(value string, action config.FieldAction, allFields *types.FieldMap) (string, error) {
	switch action.Type {

	// =========================================================================
	// STRING MANIPULATIONS
	// =========================================================================

	case "prepend_string":
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "trim":
		return strings.TrimSpace(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "normalize_whitespace":
		return strings.TrimSpace(reWhitespace.ReplaceAllString(value, " ")), nil

	case "replace":
		// EXAMPLE:
		//   Input: "010.1234.5678"
		//   Action: replace with find "." and value "-"
		//   Output: "010-1234-5678"
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "regex_replace":
		if action.Find == "" {
			return value, nil
		}
		re, err := regexp.Compile(action.Find)
		if err != nil {
			return "", fmt.Errorf("invalid regex pattern: %w", err)
		}
		return re.ReplaceAllString(value, action.Value), nil

	// =========================================================================
	// AMOUNTS AND IDENTIFIERS
	// =========================================================================

	case "digits_only":
		// EXAMPLE:
		//   Input: "010-1234-5678"
		//   Output: "01012345678"
		return amount.Digits(value), nil

	case "strip_separators":
		// EXAMPLE:
		//   Input: "12,000원"
		//   Output: "12000"
		return separators.Replace(strings.TrimSpace(value)), nil

	case "format_money":
		return amount.FormatMoneyString(value), nil

	case "format_phone":
		return amount.FormatMobile(value), nil

	case "format_business_number":
		return amount.FormatBusinessNumber(value), nil

	case "compact_date":
		// EXAMPLE:
		//   Input: "20250602"
		//   Output: "2025/06/02"
		return amount.FormatCompactDate(value), nil

	case "pad_zeros_to_length":
		targetLength, err := strconv.Atoi(action.Value)
		if err != nil || targetLength <= 0 {
			return value, nil
		}
		return PadLeft(value, targetLength, '0'), nil

	case "remove_leading_zeros":
		result := strings.TrimLeft(value, "0")
		if result == "" && value != "" {
			return "0", nil
		}
		return result, nil

	// =========================================================================
	// DEFAULTS
	// =========================================================================

	case "if_empty_use_default", "default":
		if strings.TrimSpace(value) == "" {
			return action.Value, nil
		}
		return value, nil

	case "if_empty_use_field":
		if strings.TrimSpace(value) == "" && allFields != nil {
			if other, ok := allFields.Lookup(action.Value); ok {
				return other, nil
			}
		}
		return value, nil

	default:
		return "", fmt.Errorf("unknown action type: %s", action.Type)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// PadLeft pads s on the left with padChar to length characters.
func PadLeft(s string, length int, padChar rune) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-n) + s
}

// Validate reports unknown action types without running them.
func Validate(rules []config.FieldRule) error {
	for _, r := range rules {
		for _, a := range r.Actions {
			if _, err := ApplyAction("", a, nil); err != nil {
				return fmt.Errorf("field_rules for %s: %w", r.Field, err)
			}
		}
	}
	return nil
}
