package payment

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/ginjaninja78/orderdoc/internal/domtree"
	"github.com/ginjaninja78/orderdoc/internal/logging"
	"github.com/ginjaninja78/orderdoc/internal/templates"
	"github.com/ginjaninja78/orderdoc/internal/types"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func newTestConverter(t *testing.T) *Converter {
	t.Helper()
	set := templates.NewSet(templates.New(types.VendorPayment, templates.KindOptionSample, readFixture(t, "sample.html")))
	return NewConverter(set, logging.Nop())
}

func sampleRequest(t *testing.T) OrderRequest {
	return OrderRequest{
		HTML:        readFixture(t, "order.html"),
		OptionCount: 2,
		Options: []types.OptionEntry{
			{Name: "무선 청소기", Variant: "화이트", Quantity: "2", UnitPrice: "15000", Image: "https://img.example/a.jpg", DiscountBefore: "18000"},
			{Name: "필터 세트", Variant: "3개입", Quantity: "1", UnitPrice: "5000", DiscountBefore: "7000"},
		},
		Summary: Summary{
			StoreName:        "청소나라",
			Delivery:         "무료배송",
			RecipientName:    "이영희",
			RecipientPhone:   "010-1234-5678",
			RecipientAddress: "서울특별시 강남구",
			OrderTotal:       "35000",
			ProductAmount:    "35000",
			CouponDiscount:   "2000",
			ShippingFee:      "0",
			CardAmount:       "33000",
		},
	}
}

func parsed(t *testing.T, out string) *html.Node {
	t.Helper()
	require.False(t, types.IsFailure(out), out)
	doc, err := domtree.Parse(out)
	require.NoError(t, err)
	return doc.Root
}

func productItems(root *html.Node) []*html.Node {
	return domtree.FindAll(root, domtree.All(domtree.Tag("li"), domtree.HasClass(classProductItem)))
}

func TestConvertOrder(t *testing.T) {
	c := newTestConverter(t)
	out, diag := c.ConvertOrder(sampleRequest(t))
	root := parsed(t, out)
	assert.Empty(t, diag.Missing())

	items := productItems(root)
	require.Len(t, items, 2)
	assert.NotContains(t, out, "원래상품")
	assert.NotContains(t, out, giftBadge)

	first := items[0]
	name := domtree.Find(first, domtree.All(domtree.Tag("strong"), domtree.HasClass(classProductName)))
	assert.Equal(t, `<strong class="ProductDetail_name__KnKyo"><span class="blind">상품명</span>무선 청소기</strong>`,
		domtree.RenderNode(name))

	spans := domtree.FindAll(first, domtree.All(domtree.Tag("span"), domtree.HasClass(classProductText)))
	require.Len(t, spans, 2)
	assert.Equal(t, "화이트", domtree.Text(spans[0]))
	assert.Equal(t, "2개", domtree.Text(domtree.Find(spans[1], domtree.Tag("em"))))

	price := domtree.Find(first, domtree.All(domtree.Tag("span"), domtree.HasClass(classProductPrice)))
	assert.Equal(t, "15,000원", domtree.Text(price))
	assert.Equal(t, "18,000원", domtree.Text(price.NextSibling))
	assert.Equal(t, "https://img.example/a.jpg", domtree.AttrValue(domtree.Find(first, domtree.Tag("img")), "src"))

	second := items[1]
	price2 := domtree.Find(second, domtree.All(domtree.Tag("span"), domtree.HasClass(classProductPrice)))
	require.NotNil(t, price2.NextSibling)
	assert.Equal(t, "s", price2.NextSibling.Data)
	assert.Equal(t, "7,000원", domtree.Text(price2.NextSibling))
	assert.Equal(t, "https://shop-phinf.example/sample2.jpg", domtree.AttrValue(domtree.Find(second, domtree.Tag("img")), "src"))

	assert.Contains(t, out, "구매확정일 2025. 6. 12. (목)")
	assert.NotContains(t, out, "2024. 1. 1.")

	assert.Contains(t, out, `<span class="blind">판매자명</span>청소나라</strong>`)
	assert.Contains(t, out, `<div class="ProductStore_delivery__BivAy">무료배송</div>`)
	assert.Contains(t, out, `<span class="blind">배송지명</span>이영희(이영희)</strong>`)
	assert.Contains(t, out, `<span class="blind">연락처</span>010-1234-5678</span>`)
	assert.Contains(t, out, `<span class="blind">주소</span>서울특별시 강남구</div>`)
	assert.Contains(t, out, `<dd class="Summary_area-value__BcN0d">총 35,000</dd>`)
	assert.Contains(t, out, `<dd class="SubSummary_area-value__2c7V6">35,000원</dd>`)
	assert.Contains(t, out, `<dd class="SubSummary_area-value__2c7V6">-2,000원</dd>`)
	assert.Contains(t, out, `<dd class="SubSummary_area-value__2c7V6">0</dd>`)
	assert.Contains(t, out, `<dd class="Summary_area-value__BcN0d">33,000원</dd>`)
	assert.Contains(t, out, "최대 1,050원")
}

func TestConvertOrderOptionCounts(t *testing.T) {
	for count := 1; count <= 3; count++ {
		c := newTestConverter(t)
		req := sampleRequest(t)
		req.OptionCount = count

		out, _ := c.ConvertOrder(req)
		root := parsed(t, out)
		assert.Len(t, productItems(root), count, "count %d", count)
		assert.NotContains(t, out, giftBadge)
	}
}

func TestConvertOrderDiscountRemovedOnZero(t *testing.T) {
	c := newTestConverter(t)
	req := sampleRequest(t)
	req.Options[0].DiscountBefore = "0"
	req.Options[1].DiscountBefore = ""

	out, _ := c.ConvertOrder(req)
	root := parsed(t, out)
	assert.Empty(t, domtree.FindAll(root, domtree.All(domtree.Tag("s"), domtree.HasClass(classPriceDeleted))))
}

func TestConvertOrderCouponZeroRemovesBlock(t *testing.T) {
	c := newTestConverter(t)
	req := sampleRequest(t)
	req.Summary.CouponDiscount = "0"

	out, diag := c.ConvertOrder(req)
	require.False(t, types.IsFailure(out))
	assert.NotContains(t, out, couponLabel)
	assert.Contains(t, out, "상품금액")
	assert.True(t, diag.Found("coupon_discount"))
}

func TestConvertOrderBlankSummaryKeepsPage(t *testing.T) {
	c := newTestConverter(t)
	req := sampleRequest(t)
	req.Summary = Summary{}

	out, _ := c.ConvertOrder(req)
	require.False(t, types.IsFailure(out))
	assert.Contains(t, out, "원래상점")
	assert.Contains(t, out, "총 10,000")
	assert.Contains(t, out, "최대 300원")
}

func TestConvertOrderExplicitPurchaseDate(t *testing.T) {
	c := newTestConverter(t)
	req := sampleRequest(t)
	req.PurchaseDate = DefaultPurchaseDate(time.Date(2025, 9, 17, 0, 0, 0, 0, time.UTC))

	out, _ := c.ConvertOrder(req)
	require.False(t, types.IsFailure(out))
	assert.Contains(t, out, "구매확정일 2025. 09. 17. (수)")
}

func TestConvertOrderFailures(t *testing.T) {
	c := newTestConverter(t)

	out, _ := c.ConvertOrder(OrderRequest{})
	assert.True(t, types.IsFailure(out))

	out, _ = c.ConvertOrder(OrderRequest{HTML: "<body><p>구매 내역</p></body>"})
	assert.True(t, types.IsFailure(out))
	assert.Contains(t, out, ErrPurchaseDateNotFound.Error())

	noSample := NewConverter(templates.NewSet(), logging.Nop())
	out, _ = noSample.ConvertOrder(sampleRequest(t))
	assert.True(t, types.IsFailure(out))
}

func TestConvertOrderMissingRegionIsSoft(t *testing.T) {
	c := newTestConverter(t)
	req := sampleRequest(t)
	req.HTML = "<body><p>구매확정일 2025. 6. 12. (목)</p></body>"

	out, diag := c.ConvertOrder(req)
	require.False(t, types.IsFailure(out))
	assert.Contains(t, diag.Missing(), "option_list")
	assert.Contains(t, diag.Missing(), "store_name")
}

func TestRoundTripExtraction(t *testing.T) {
	c := newTestConverter(t)
	req := sampleRequest(t)

	out, _ := c.ConvertOrder(req)
	require.False(t, types.IsFailure(out))

	info, err := ExtractOrderInfo(out)
	require.NoError(t, err)
	assert.Equal(t, "무선 청소기", info.Product)
	assert.Equal(t, "35,000", info.Total)
	assert.Equal(t, "35,000", info.ApprovalAmount)
}

func TestRequestFromFields(t *testing.T) {
	fm := types.NewFieldMap(
		"purchase_date", "구매확정일 2025. 6. 1. (일)",
		"option_1_name", "A",
		"option_1_price", "1000",
		"option_2_name", "B",
		"order_total", "2000",
		"coupon_discount", "0",
	)
	req, err := RequestFromFields(fm)
	require.NoError(t, err)
	assert.Equal(t, 2, req.Count())
	require.Len(t, req.Options, 2)
	assert.Equal(t, "1000", req.Options[0].UnitPrice)
	assert.Equal(t, "B", req.Options[1].Name)
	assert.Equal(t, "0", req.Summary.CouponDiscount)

	fm.Set("option_count", "3")
	req, err = RequestFromFields(fm)
	require.NoError(t, err)
	assert.Len(t, req.Options, 3)
	assert.Equal(t, 3, req.Count())

	fm.Set("option_count", "x")
	_, err = RequestFromFields(fm)
	assert.Error(t, err)

	assert.Equal(t, DefaultOptionCount, OrderRequest{}.Count())
}

func TestConvertOrderUnsuppliedOptionKeepsSample(t *testing.T) {
	fm := types.NewFieldMap(
		"option_count", "2",
		"option_2_name", "필터 세트",
		"option_2_price", "5000",
	)
	req, err := RequestFromFields(fm)
	require.NoError(t, err)
	require.Len(t, req.Options, 2)
	req.HTML = readFixture(t, "order.html")

	out, _ := newTestConverter(t).ConvertOrder(req)
	items := productItems(parsed(t, out))
	require.Len(t, items, 2)

	first := items[0]
	name := domtree.Find(first, domtree.All(domtree.Tag("strong"), domtree.HasClass(classProductName)))
	assert.Equal(t, `<strong class="ProductDetail_name__KnKyo"><span class="blind">상품명</span>샘플상품1</strong>`,
		domtree.RenderNode(name))
	spans := domtree.FindAll(first, domtree.All(domtree.Tag("span"), domtree.HasClass(classProductText)))
	require.Len(t, spans, 2)
	assert.Equal(t, "샘플옵션1", domtree.Text(spans[0]))
	assert.Equal(t, "1개", domtree.Text(domtree.Find(spans[1], domtree.Tag("em"))))

	second := items[1]
	name2 := domtree.Find(second, domtree.All(domtree.Tag("strong"), domtree.HasClass(classProductName)))
	assert.Contains(t, domtree.Text(name2), "필터 세트")
	spans2 := domtree.FindAll(second, domtree.All(domtree.Tag("span"), domtree.HasClass(classProductText)))
	require.Len(t, spans2, 2)
	assert.Equal(t, "샘플옵션2", domtree.Text(spans2[0]))

	info, err := ExtractOrderInfo(out)
	require.NoError(t, err)
	assert.Equal(t, "샘플상품1", info.Product)
}
