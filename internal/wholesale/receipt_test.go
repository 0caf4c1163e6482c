package wholesale

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/orderdoc/internal/types"
)

func TestReceiptFieldsDerived(t *testing.T) {
	c := newTestConverter(t)
	f, err := c.ReceiptFields(fixedRequest(), DefaultReceiptRequest())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^20250602165233\d{3}$`), f.OrderNumber)
	assert.Equal(t, "2025/06/02 10:00:00", f.TransactionTime)
	assert.Regexp(t, regexp.MustCompile(`^3026\d{4}$`), f.ApprovalNumber)
	assert.Equal(t, "OR64610202 아르코에어", f.ProductInfo)
	assert.Equal(t, int64(181818), f.Supply)
	assert.Equal(t, int64(18182), f.VAT)
	assert.Equal(t, int64(0), f.TaxFree)
	assert.Equal(t, int64(200000), f.Total)
	assert.Equal(t, "Tel.010-0000-1234", f.SupplierContact)
	assert.Equal(t, DefaultBusinessNumber, f.BusinessNumber)
}

func TestReceiptFieldsOverrides(t *testing.T) {
	c := newTestConverter(t)
	req := fixedRequest()
	req.SupplierPhone = ""
	req.OrderDate = "2025"

	extra := DefaultReceiptRequest()
	extra.CardOrderNumber = "X1"
	extra.TransactionTime = "2025/01/01 01:02:03"
	extra.SupplyAmount = "150,000"
	extra.TotalAmount = "210000"
	extra.TaxFreeAmount = "10000"

	f, err := c.ReceiptFields(req, extra)
	require.NoError(t, err)
	assert.Equal(t, "X1", f.OrderNumber)
	assert.Equal(t, "2025/01/01 01:02:03", f.TransactionTime)
	assert.Equal(t, int64(150000), f.Supply)
	assert.Equal(t, int64(50000), f.VAT)
	assert.Equal(t, int64(10000), f.TaxFree)
	assert.Equal(t, int64(210000), f.Total)
	assert.Equal(t, DefaultContact, f.SupplierContact)

	extra.CardOrderNumber = ""
	f, err = c.ReceiptFields(req, extra)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^20250101165233\d{3}$`), f.OrderNumber)
}

func TestReceiptFieldsInvalidPayment(t *testing.T) {
	c := newTestConverter(t)
	req := fixedRequest()
	req.PaymentAmount = "이십만원"
	_, err := c.ReceiptFields(req, DefaultReceiptRequest())
	assert.Error(t, err)

	out, _ := c.ConvertReceipt(req, DefaultReceiptRequest())
	assert.True(t, types.IsFailure(out))
}

func TestConvertReceipt(t *testing.T) {
	c := newTestConverter(t)
	out, diag := c.ConvertReceipt(fixedRequest(), DefaultReceiptRequest())
	require.False(t, types.IsFailure(out), out)
	assert.Empty(t, diag.Missing())

	assert.Contains(t, out, "2025/06/02 10:00:00")
	assert.Contains(t, out, "OR64610202 아르코에어")
	assert.Contains(t, out, "123-45-67890")
	assert.Contains(t, out, "Tel.010-0000-1234")
}

func TestRequestFromFields(t *testing.T) {
	fm := types.NewFieldMap(
		"option_count", "2",
		"order_number", "0303",
		"product_title", "테스트상품",
		"payment_amount", "55,000",
		"option_1_name", "남성용/블루",
		"option_2_price", "3000",
		"store_name", "상점",
		"supply_amount", "",
	)

	req, rec, err := RequestFromFields(fm)
	require.NoError(t, err)
	assert.Equal(t, 2, req.OptionCount)
	assert.Equal(t, "0303", req.OrderNumber)
	assert.Equal(t, "테스트상품", req.ProductTitle)
	assert.Equal(t, "55,000", req.PaymentAmount)
	assert.Equal(t, DefaultName, req.SupplierName)
	assert.Equal(t, "남성용/블루", req.Options[0].Name)
	assert.Equal(t, DefaultOptionPrice, req.Options[0].UnitPrice)
	assert.Equal(t, "3000", req.Options[1].UnitPrice)
	assert.Equal(t, "상점", rec.StoreName)
	assert.Empty(t, rec.SupplyAmount)

	_, _, err = RequestFromFields(types.NewFieldMap("option_count", "many"))
	assert.Error(t, err)

	req, _, err = RequestFromFields(nil)
	require.NoError(t, err)
	assert.Equal(t, MaxOptions, req.OptionCount)
}
