package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplyFromTotal(t *testing.T) {
	tests := []struct {
		name   string
		total  int64
		supply int64
		vat    int64
	}{
		{"exact division", 110000, 100000, 10000},
		{"non-divisible rounds down", 100000, 90909, 9091},
		{"rounds up above half", 6, 5, 1},
		{"zero", 0, 0, 0},
		{"wholesale default", 200000, 181818, 18182},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supply, vat := SupplyFromTotal(tt.total)
			assert.Equal(t, tt.supply, supply)
			assert.Equal(t, tt.vat, vat)
			assert.Equal(t, tt.total, supply+vat)
		})
	}
}

func TestDivRoundModes(t *testing.T) {
	assert.Equal(t, int64(2), divRound(5, 2, RoundHalfEven))
	assert.Equal(t, int64(4), divRound(7, 2, RoundHalfEven))
	assert.Equal(t, int64(3), divRound(5, 2, RoundHalfUp))
	assert.Equal(t, int64(2), divRound(5, 2, RoundDown))
	assert.Equal(t, int64(-2), divRound(-5, 2, RoundHalfEven))
}

func TestPointEstimate(t *testing.T) {
	assert.Equal(t, int64(1500), PointEstimate(50000))
	assert.Equal(t, int64(1), PointEstimate(66))
	assert.Equal(t, int64(0), PointEstimate(0))
	assert.Equal(t, "3,703", FormatMoney(PointEstimate(123456)))
}

func TestParseAmount(t *testing.T) {
	n, err := ParseAmount("1,234,567원")
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), n)

	n, err = ParseAmount(" 200000 ")
	require.NoError(t, err)
	assert.Equal(t, int64(200000), n)

	_, err = ParseAmount("")
	assert.Error(t, err)

	_, err = ParseAmount("abc")
	assert.Error(t, err)

	assert.Equal(t, int64(7), ParseAmountOr("x", 7))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0", FormatMoney(0))
	assert.Equal(t, "2,550", FormatMoney(2550))
	assert.Equal(t, "1,000,000", FormatMoney(1000000))
	assert.Equal(t, "12,000", FormatMoneyString("12000"))
	assert.Equal(t, "무료", FormatMoneyString("무료"))
}

func TestFieldFormatters(t *testing.T) {
	assert.Equal(t, "123-45-67890", FormatBusinessNumber("1234567890"))
	assert.Equal(t, "123-45-67890", FormatBusinessNumber("123-45-67890"))
	assert.Equal(t, "12345", FormatBusinessNumber("12345"))

	assert.Equal(t, "010-8080-9090", FormatMobile("01080809090"))
	assert.Equal(t, "02-123-4567", FormatMobile("02-123-4567"))

	assert.Equal(t, "Tel.010-0000-1234", FormatContact("010-0000-1234", "Tel.053-639-6981"))
	assert.Equal(t, "Tel.053-639-6981", FormatContact("", "Tel.053-639-6981"))

	assert.Equal(t, "2025/06/02", FormatCompactDate("20250602"))
	assert.Equal(t, "2025/06/02", FormatCompactDate("2025/06/02"))

	assert.Equal(t, "0101234", Digits("010-12 34"))
	assert.True(t, IsDigits("0202"))
	assert.False(t, IsDigits("02a2"))
	assert.False(t, IsDigits(""))
}
