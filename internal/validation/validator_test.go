package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/orderdoc/internal/types"
)

func TestValidateRequiredAndTypes(t *testing.T) {
	v := NewValidator([]Rule{
		{Field: "product_title", Required: true},
		{Field: "payment_amount", DataType: TypeAmount},
		{Field: "order_date", DataType: TypeDate},
		{Field: "phone", DataType: TypePhone},
		{Field: "order_number", DataType: TypeNumeric},
	})

	fields := types.NewFieldMap(
		"payment_amount", "20만원",
		"order_date", "2025-13-40",
		"phone", "010-8080-9090",
		"order_number", "0202",
	)

	res := v.Validate(fields)
	assert.False(t, res.IsValid)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Equal(t, 2, res.WarningCount)

	err := res.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Contains(t, err.Error(), "product_title")

	warnings := res.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "payment_amount", warnings[0].Field)
	assert.Equal(t, "order_date", warnings[1].Field)
}

func TestValidateAllGood(t *testing.T) {
	v := NewValidator([]Rule{{Field: "a", Required: true, DataType: TypeAmount}})
	res := v.Validate(types.NewFieldMap("a", "1,000"))
	assert.True(t, res.IsValid)
	assert.NoError(t, res.Err())
	assert.Empty(t, FormatErrors(res.Errors))
}

func TestDocumentChecks(t *testing.T) {
	assert.ErrorIs(t, RequireDocument("html", "  "), ErrMissingInput)
	assert.NoError(t, RequireDocument("html", "<p>x</p>"))

	assert.ErrorIs(t, CheckHTMLBody(""), ErrMissingInput)
	err := CheckHTMLBody("<div>no body</div>")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingInput))
	assert.NoError(t, CheckHTMLBody("<BODY><p>ok</p></BODY>"))
}

func TestBlockingFindings(t *testing.T) {
	v := NewValidator([]Rule{
		{Field: "order_number", Required: true},
		{Field: "payment_amount", DataType: TypeAmount},
		{Field: "product_title", Required: true},
	})
	res := v.Validate(types.NewFieldMap("payment_amount", "abc"))
	require.False(t, res.IsValid)

	blocking := res.Blocking()
	require.Len(t, blocking, 2)
	assert.Equal(t, "order_number", blocking[0].Field)
	assert.Equal(t, "product_title", blocking[1].Field)
	assert.Len(t, res.Warnings(), 1)

	text := FormatErrors(blocking)
	assert.Equal(t, 2, strings.Count(text, "\n"))
	assert.Contains(t, text, "[ERROR] order_number: 값이 없습니다")
	assert.NotContains(t, text, "payment_amount")
}
