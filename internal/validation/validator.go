// =============================================================================
// Order Document Generator - Input Validation
// =============================================================================
//
// Validation here is deliberately shallow. A conversion is refused only
// when a required input is absent (missing-input). Everything else is
// best-effort coercion: a value that does not look like the expected type
// produces a warning and is passed through unchanged.
//
// ERROR HANDLING:
//   - Errors are collected, not returned one at a time
//   - "error" severity blocks the conversion, "warning" does not
//   - Missing-input errors unwrap to ErrMissingInput
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/orderdoc/internal/amount"
	"github.com/ginjaninja78/orderdoc/internal/timeline"
	"github.com/ginjaninja78/orderdoc/internal/types"
)

// ErrMissingInput is wrapped by every missing-input error.
var ErrMissingInput = errors.New("missing input")

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Data types understood by the validator.
const (
	TypeString  = "string"
	TypeNumeric = "numeric"
	TypeAmount  = "amount"
	TypeDate    = "date"
	TypePhone   = "phone"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the name of the field that failed validation.
	Field string

	// Value is the value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (value: '%s')", strings.ToUpper(e.Severity), e.Field, e.Message, e.Value)
}

// Unwrap lets errors.Is match ErrMissingInput.
func (e *ValidationError) Unwrap() error {
	if e.Rule == "required" {
		return ErrMissingInput
	}
	return nil
}

// Missing builds the missing-input error for a named input.
func Missing(field string) error {
	return &ValidationError{
		Severity: SeverityError,
		Field:    field,
		Rule:     "required",
		Message:  "값이 없습니다",
	}
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no blocking errors.
	IsValid bool

	// Errors contains all findings, warnings included.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int
}

// Err returns the first blocking error, or nil.
func (r *ValidationResult) Err() error {
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			return e
		}
	}
	return nil
}

// Warnings returns the non-blocking findings.
func (r *ValidationResult) Warnings() []*ValidationError {
	var out []*ValidationError
	for _, e := range r.Errors {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

// Blocking returns the findings that fail the validation.
func (r *ValidationResult) Blocking() []*ValidationError {
	var out []*ValidationError
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			out = append(out, e)
		}
	}
	return out
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Rule describes the expectations for one input field.
type Rule struct {
	Field    string
	Required bool
	DataType string
}

// Validator checks a FieldMap against a rule set.
type Validator struct {
	rules []Rule
}

// NewValidator creates a validator for the given rules.
func NewValidator(rules []Rule) *Validator {
	return &Validator{rules: rules}
}

// Validate checks fields. Absent optional fields are not checked.
func (v *Validator) Validate(fields *types.FieldMap) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	for _, rule := range v.rules {
		value, ok := fields.Lookup(rule.Field)
		value = strings.TrimSpace(value)

		if !ok || value == "" {
			if rule.Required {
				result.add(Missing(rule.Field).(*ValidationError))
			}
			continue
		}

		if msg := validateDataType(value, rule.DataType); msg != "" {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Field:    rule.Field,
				Value:    value,
				Rule:     rule.DataType,
				Message:  msg,
			})
		}
	}

	return result
}

// validateDataType returns a message when value does not look like
// dataType, or "" when it does.
func validateDataType(value, dataType string) string {
	switch dataType {
	case TypeNumeric:
		if !amount.IsDigits(value) {
			return "숫자가 아닙니다"
		}
	case TypeAmount:
		if _, err := amount.ParseAmount(value); err != nil {
			return "금액 형식이 아닙니다"
		}
	case TypeDate:
		if _, err := timeline.ParseDate(value); err != nil {
			return "날짜 형식(YYYYMMDD)이 아닙니다"
		}
	case TypePhone:
		if n := len(amount.Digits(value)); n < 9 || n > 11 {
			return "전화번호 형식이 아닙니다"
		}
	}
	return ""
}

// =============================================================================
// DOCUMENT CHECKS
// =============================================================================

// RequireDocument returns a missing-input error when src is blank.
func RequireDocument(name, src string) error {
	if strings.TrimSpace(src) == "" {
		return Missing(name)
	}
	return nil
}

// CheckHTMLBody reports whether src looks like a page body: non-empty and
// carrying a <body> element.
func CheckHTMLBody(src string) error {
	if err := RequireDocument("html", src); err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(src), "<body") {
		return &ValidationError{
			Severity: SeverityError,
			Field:    "html",
			Rule:     "body",
			Message:  "올바른 HTML 형식이 아닙니다 (<body> 없음)",
		}
	}
	return nil
}

// FormatErrors renders findings one per line.
func FormatErrors(errs []*ValidationError) string {
	var sb strings.Builder
	for _, e := range errs {
		sb.WriteString(e.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}
