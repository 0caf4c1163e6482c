package furniture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/orderdoc/internal/config"
	"github.com/ginjaninja78/orderdoc/internal/logging"
)

func writeCatalog(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("안내")
	require.NoError(t, err)
	_, err = f.NewSheet("카탈로그")
	require.NoError(t, err)

	rows := [][]interface{}{
		{"모델", "색상", "높이", "번호"},
		{"HC-200", "블랙", 75, 1002345},
		{"HC-200", "화이트", 75, 1002346},
		{"DS-10", "오크", 120, "0099"},
		{"X-1", "", 75, 1},
	}
	for i := range rows {
		require.NoError(t, f.SetSheetRow("카탈로그", cellName(1, i+1), &rows[i]))
	}

	path := filepath.Join(dir, "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeOrderSheet(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	cells := map[string]interface{}{
		"A1": "주문번호", "K1": "상품명", "L1": "수량",
		"A2": "ORD-1", "K2": "의자 (HC-200) 블랙 (75)", "L2": 1,
		"A3": "ORD-2", "K3": "의자 (HC-200) 블랙 (75)\n의자 (HC-200) 화이트 (75)", "L3": 2,
		"A4": "ORD-3", "K4": "책상 (DS-10) 오크 (120)\r\n의자 (XX) 블랙 (75)", "L4": 3,
		"A5": "ORD-4", "K5": "식탁 (T-1) 블랙 (75)", "L5": 1,
		"A6": "ORD-5", "K6": "의자 (HC-200) 화이트 (75)", "L6": 1,
	}
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", cell, v))
	}

	path := filepath.Join(dir, "order.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadCatalog(writeCatalog(t, t.TempDir()), 2)
	require.NoError(t, err)
	return c
}

func fontColor(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	id, err := f.GetCellStyle("Sheet1", cell)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	if style.Font == nil {
		return ""
	}
	return strings.ToUpper(style.Font.Color)
}

func TestLoadCatalog(t *testing.T) {
	c := testCatalog(t)
	assert.Equal(t, 3, c.Len())

	sample := c.Sample(2)
	require.Len(t, sample, 2)
	assert.Equal(t, Entry{Model: "HC-200", Color: "블랙", Height: "75", Number: "1002345"}, sample[0])
	assert.Len(t, c.Sample(10), 3)
	assert.Nil(t, c.Sample(0))

	_, err := LoadCatalog(c.Source, 5)
	assert.Error(t, err)
}

func TestCatalogLookup(t *testing.T) {
	c := testCatalog(t)

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"의자 (HC-200) 블랙 (75)", "1002345", true},
		{"의자 ( HC-200 ) 화이트 (75)2", "1002346", true},
		{"책상 (DS-10) 오크 (120)", "0099", true},
		{"의자 HC-200 블랙 (75)", "", false},
		{"의자 (HC-200) 레드 (75)", "", false},
		{"의자 (HC-200) 블랙 (80)", "", false},
	}
	for _, tt := range tests {
		got, ok := c.Lookup(tt.name)
		assert.Equal(t, tt.wantOK, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	var empty *Catalog
	_, ok := empty.Lookup("의자 (HC-200) 블랙 (75)")
	assert.False(t, ok)
	assert.Equal(t, 0, empty.Len())
}

func TestCatalogSuggest(t *testing.T) {
	c := testCatalog(t)

	got := c.Suggest("의자 (HC200) 블랙 (75)", 5)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, "HC-200", e.Model)
	}
	assert.Len(t, c.Suggest("의자 (HC200) 블랙 (75)", 1), 1)
	assert.Empty(t, c.Suggest("의자 (ZZZ) 블랙 (75)", 5))
	assert.Nil(t, c.Suggest("", 5))

	var empty *Catalog
	assert.Nil(t, empty.Suggest("HC-200", 3))
}

func TestLoadCatalogCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	data := "모델,색상,높이,번호\nHC-200,블랙,75,1002345\n\"DS-10\", 오크,120,0099\nX-1,,75,1\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := LoadCatalogCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	got, ok := c.Lookup("책상 (DS-10) 오크 (120)")
	assert.True(t, ok)
	assert.Equal(t, "0099", got)
}

func TestOpenMissingCatalog(t *testing.T) {
	c, err := Open(config.CatalogConfig{Path: filepath.Join(t.TempDir(), "none.xlsx"), Format: "xlsx"}, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	two := 2
	c, err = Open(config.CatalogConfig{Path: writeCatalog(t, t.TempDir()), Format: "xlsx", SheetIndex: &two}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestSplitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeOrderSheet(t, dir)

	report, err := NewSplitter(testCatalog(t), logging.Nop()).SplitFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Rows)
	assert.Len(t, report.Items, 7)
	assert.Equal(t, 2, report.Unmatched())
	assert.Equal(t, []int{4, 5}, report.Flagged)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("Sheet1", cell)
		require.NoError(t, err)
		return v
	}

	// Single item copied and resolved.
	assert.Equal(t, "ORD-1", get("A2"))
	assert.Equal(t, "1002345", get("M2"))
	assert.Equal(t, "1", get("N2"))
	assert.True(t, strings.HasSuffix(fontColor(t, f, "K2"), ColorSource))
	assert.True(t, strings.HasSuffix(fontColor(t, f, "L2"), ColorSource))

	// Count equals quantity: quantity 1 each, black.
	assert.Equal(t, "1002345", get("M3"))
	assert.Equal(t, "1", get("N3"))
	assert.Equal(t, "1002346", get("O3"))
	assert.Equal(t, "1", get("P3"))
	assert.True(t, strings.HasSuffix(fontColor(t, f, "N3"), ColorMatch))

	// Flagged rows moved below the last clean row.
	assert.Equal(t, "ORD-5", get("A4"))
	assert.Equal(t, "1002346", get("M4"))
	assert.Equal(t, "ORD-3", get("A5"))
	assert.Equal(t, "ORD-4", get("A6"))
	assert.Empty(t, get("A7"))

	assert.Equal(t, "0099", get("M5"))
	assert.Empty(t, get("N5"))
	assert.Equal(t, "의자 (XX) 블랙 (75)2", get("O5"))
	assert.Equal(t, "식탁 (T-1) 블랙 (75)", get("M6"))
	for _, cell := range []string{"A5", "K5", "O5", "A6", "M6"} {
		assert.True(t, strings.HasSuffix(fontColor(t, f, cell), ColorError), cell)
	}

	miss := report.Items[4]
	assert.Equal(t, 4, miss.Row)
	assert.Equal(t, 2, miss.Index)
	assert.False(t, miss.Matched())
	assert.NotEmpty(t, miss.Error)
}

func TestSplitFileCountMismatchLeavesQuantityBlank(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "K1", "상품명"))
	require.NoError(t, f.SetCellValue("Sheet1", "K2", "의자 (HC-200) 블랙 (75)\n의자 (HC-200) 화이트 (75)"))
	require.NoError(t, f.SetCellValue("Sheet1", "L2", "수량 미정"))
	path := filepath.Join(dir, "order.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	report, err := NewSplitter(testCatalog(t), nil).SplitFile(path)
	require.NoError(t, err)
	assert.Empty(t, report.Flagged)

	out, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer out.Close()

	n2, err := out.GetCellValue("Sheet1", "N2")
	require.NoError(t, err)
	assert.Empty(t, n2)
	o2, err := out.GetCellValue("Sheet1", "O2")
	require.NoError(t, err)
	assert.Equal(t, "1002346", o2)
	assert.True(t, strings.HasSuffix(fontColor(t, out, "N2"), ColorReview))
}

func TestSplitFileMissing(t *testing.T) {
	_, err := NewSplitter(nil, nil).SplitFile(filepath.Join(t.TempDir(), "none.xlsx"))
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), ReportFilename(time.Date(2025, 6, 2, 10, 0, 27, 0, time.UTC)))
	assert.Equal(t, "howser_result_20250602_100027.xlsx", filepath.Base(path))

	items := []ItemResult{
		{Row: 2, Index: 1, ProductName: "의자 (HC-200) 블랙 (75)", Number: "1002345"},
		{Row: 4, Index: 2, ProductName: "의자 (XX) 블랙 (75)2", Error: "4행 2번째 상품의 하우저 번호를 찾을 수 없습니다"},
	}
	require.NoError(t, WriteReport(path, items))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ReportHeaders, rows[0])
	assert.Equal(t, []string{"의자 (HC-200) 블랙 (75)", "1002345", "2"}, rows[1])
	assert.Equal(t, []string{items[1].Error}, rows[2])

	id, err := f.GetCellStyle(ReportSheet, "A3")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, strings.HasSuffix(strings.ToUpper(style.Font.Color), ColorError))
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c", "d"}, splitNames("a\r\nb\rc\n\n d "))
	assert.Nil(t, splitNames(" \n "))
	assert.Equal(t, 2, parseQuantity(" 2 "))
	assert.Equal(t, 2, parseQuantity("2.0"))
	assert.Equal(t, 0, parseQuantity("두 개"))
}
