// =============================================================================
// Order Document Generator - Furniture Order Sheet Splitter
// =============================================================================
//
// This module rewrites a furniture order workbook in place. Each order row
// carries its product names in column K (one per line) and the ordered
// quantity in column L. The splitter fans the names out into pairs of
// columns starting at M, replaces every name it can identify with the
// catalog number, and moves the rows it could not resolve to the bottom.
//
// PROCESSING STEPS:
//   1. Split column K on line breaks; rows without names are left alone.
//   2. Gray out K and L. One name copies K/L into M/N. Several names go
//      into M/N, O/P, Q/R ... with a 1-based suffix on each name. When the
//      name count equals the quantity, each item gets quantity 1 in black;
//      otherwise the quantities stay blank and the items turn blue.
//   3. Look up every expanded item. A hit replaces the text with the
//      catalog number; a miss turns the cell red and flags the row.
//   4. Flagged rows are removed, trailing blank rows dropped, and the rows
//      re-appended after the last data row in red.
//
// The file is saved over the source. Two splits of the same file must not
// run at the same time.
//
// =============================================================================

package furniture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/orderdoc/internal/logging"
)

// Sheet columns, 1-based.
const (
	ColName      = 11 // K
	ColQuantity  = 12 // L
	ColFirstItem = 13 // M
)

// Font colors.
const (
	ColorSource = "888888"
	ColorMatch  = "000000"
	ColorReview = "0000FF"
	ColorError  = "FF0000"
)

// firstDataRow skips the header row.
const firstDataRow = 2

// ItemResult is the outcome of one expanded item.
type ItemResult struct {
	// Row is the 1-based row the item came from, before relocation.
	Row int `json:"row"`

	// Index is the 1-based position of the item within its row.
	Index int `json:"index"`

	// ProductName is the item text that was looked up.
	ProductName string `json:"product_name"`

	// Number is the catalog number, empty on a miss.
	Number string `json:"number,omitempty"`

	// Error describes a failed lookup.
	Error string `json:"error,omitempty"`
}

// Matched reports whether the item was resolved.
func (r ItemResult) Matched() bool {
	return r.Error == ""
}

// Report summarizes one split.
type Report struct {
	Path  string `json:"path"`
	Sheet string `json:"sheet"`

	// Rows is the number of rows that carried product names.
	Rows int `json:"rows"`

	Items []ItemResult `json:"items"`

	// Flagged lists the original row numbers moved to the bottom.
	Flagged []int `json:"flagged,omitempty"`
}

// Unmatched returns the number of items without a catalog number.
func (r Report) Unmatched() int {
	n := 0
	for _, it := range r.Items {
		if !it.Matched() {
			n++
		}
	}
	return n
}

// Splitter rewrites order workbooks against a catalog.
type Splitter struct {
	catalog *Catalog
	logger  logging.Logger
}

// NewSplitter creates a splitter. A nil catalog matches nothing.
func NewSplitter(catalog *Catalog, logger logging.Logger) *Splitter {
	if logger == nil {
		logger = logging.Nop()
	}
	if catalog == nil {
		catalog = &Catalog{}
	}
	return &Splitter{catalog: catalog, logger: logger}
}

// SplitFile rewrites the active sheet of the workbook at path and saves it.
//
// PARAMETERS:
//   - path: The order workbook. It is modified in place.
//
// RETURNS:
//   - A Report listing every expanded item.
//   - An error if the workbook cannot be read or saved.
func (s *Splitter) SplitFile(path string) (Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open order sheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read rows: %w", err)
	}

	w := &sheetWriter{f: f, sheet: sheet, styles: make(map[string]int)}
	report := Report{Path: path, Sheet: sheet}

	// Step 1: names per row.
	names := make(map[int][]string)
	for r := firstDataRow; r <= len(rows); r++ {
		if list := splitNames(cellAt(rows[r-1], ColName)); len(list) > 0 {
			names[r] = list
		}
	}
	report.Rows = len(names)

	// Step 2: fan out.
	for r := firstDataRow; r <= len(rows); r++ {
		list, ok := names[r]
		if !ok {
			continue
		}
		w.color(ColName, r, ColorSource)
		w.color(ColQuantity, r, ColorSource)

		if len(list) == 1 {
			w.set(ColFirstItem, r, w.value(ColName, r))
			w.set(ColFirstItem+1, r, w.value(ColQuantity, r))
			continue
		}

		qty := parseQuantity(cellAt(rows[r-1], ColQuantity))
		for i, name := range list {
			col := ColFirstItem + i*2
			w.set(col, r, name+strconv.Itoa(i+1))
			if len(list) == qty && qty > 0 {
				w.set(col+1, r, 1)
				w.color(col, r, ColorMatch)
				w.color(col+1, r, ColorMatch)
			} else {
				w.set(col+1, r, nil)
				w.color(col, r, ColorReview)
				w.color(col+1, r, ColorReview)
			}
		}
	}

	// Step 3: catalog lookup.
	for r := firstDataRow; r <= len(rows); r++ {
		list, ok := names[r]
		if !ok {
			continue
		}
		flagged := false
		for i := range list {
			col := ColFirstItem + i*2
			text := w.text(col, r)
			if text == "" {
				continue
			}
			item := ItemResult{Row: r, Index: i + 1, ProductName: text}
			if number, ok := s.catalog.Lookup(text); ok {
				item.Number = number
				w.set(col, r, catalogValue(number))
			} else {
				item.Error = fmt.Sprintf("%d행 %d번째 상품의 하우저 번호를 찾을 수 없습니다", r, i+1)
				w.color(col, r, ColorError)
				flagged = true
				s.logger.Warn("no catalog entry for row %d item %d: %s", r, i+1, text)
			}
			report.Items = append(report.Items, item)
		}
		if flagged {
			report.Flagged = append(report.Flagged, r)
		}
	}

	if w.err != nil {
		return report, w.err
	}

	// Step 4: relocate flagged rows.
	if len(report.Flagged) > 0 {
		if err := w.relocate(report.Flagged); err != nil {
			return report, err
		}
	}

	if err := f.Save(); err != nil {
		return report, fmt.Errorf("failed to save order sheet: %w", err)
	}

	s.logger.Info("split %d rows of %s into %d items, %d unmatched",
		report.Rows, path, len(report.Items), report.Unmatched())
	return report, nil
}

// =============================================================================
// SHEET WRITER
// =============================================================================

// sheetWriter wraps the cell operations of one sheet and keeps the first
// error, so a pass can run to the end and be checked once.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	styles map[string]int
	err    error
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (w *sheetWriter) fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func (w *sheetWriter) set(col, row int, v interface{}) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(w.sheet, cellName(col, row), v); err != nil {
		w.fail(fmt.Errorf("failed to write %s: %w", cellName(col, row), err))
	}
}

func (w *sheetWriter) text(col, row int) string {
	v, err := w.f.GetCellValue(w.sheet, cellName(col, row))
	w.fail(err)
	return v
}

// value returns the cell content with its type, so copies keep numbers as
// numbers. Empty cells return nil.
func (w *sheetWriter) value(col, row int) interface{} {
	cell := cellName(col, row)
	raw, err := w.f.GetCellValue(w.sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		w.fail(err)
		return nil
	}
	if raw == "" {
		return nil
	}
	typ, err := w.f.GetCellType(w.sheet, cell)
	if err != nil {
		w.fail(err)
		return raw
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
		if x, err := strconv.ParseFloat(raw, 64); err == nil {
			return x
		}
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	}
	return raw
}

func (w *sheetWriter) style(color string) int {
	if id, ok := w.styles[color]; ok {
		return id
	}
	id, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: color}})
	if err != nil {
		w.fail(fmt.Errorf("failed to create style: %w", err))
		return 0
	}
	w.styles[color] = id
	return id
}

func (w *sheetWriter) color(col, row int, color string) {
	w.colorRange(col, col, row, color)
}

func (w *sheetWriter) colorRange(fromCol, toCol, row int, color string) {
	if w.err != nil {
		return
	}
	id := w.style(color)
	if err := w.f.SetCellStyle(w.sheet, cellName(fromCol, row), cellName(toCol, row), id); err != nil {
		w.fail(fmt.Errorf("failed to style row %d: %w", row, err))
	}
}

// relocate moves the given rows to the end of the sheet in red.
func (w *sheetWriter) relocate(flagged []int) error {
	rows, err := w.f.GetRows(w.sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}

	moved := make([][]interface{}, len(flagged))
	for i, r := range flagged {
		values := make([]interface{}, maxCol)
		for c := 1; c <= maxCol; c++ {
			values[c-1] = w.value(c, r)
		}
		moved[i] = values
	}
	if w.err != nil {
		return w.err
	}

	// Bottom-up so earlier row numbers stay valid.
	for i := len(flagged) - 1; i >= 0; i-- {
		if err := w.f.RemoveRow(w.sheet, flagged[i]); err != nil {
			return fmt.Errorf("failed to remove row %d: %w", flagged[i], err)
		}
	}

	// GetRows stops at the last row holding a value, which drops the
	// trailing blank rows.
	rows, err = w.f.GetRows(w.sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	last := len(rows)
	if last < 1 {
		last = 1
	}

	for i, values := range moved {
		r := last + 1 + i
		if err := w.f.SetSheetRow(w.sheet, cellName(1, r), &values); err != nil {
			return fmt.Errorf("failed to append row %d: %w", r, err)
		}
		if maxCol > 0 {
			w.colorRange(1, maxCol, r, ColorError)
		}
	}
	return w.err
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// cellAt returns the 1-based column of a GetRows row, or "".
func cellAt(row []string, col int) string {
	if col-1 < len(row) {
		return row[col-1]
	}
	return ""
}

// splitNames splits a name cell on any line break and drops blank lines.
func splitNames(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	var out []string
	for _, part := range strings.Split(s, "\n") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseQuantity reads a quantity cell. Unreadable values count as 0.
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return int(x)
	}
	return 0
}

// catalogValue writes catalog numbers as numbers unless that would lose a
// leading zero.
func catalogValue(number string) interface{} {
	if n, err := strconv.ParseInt(number, 10, 64); err == nil && (len(number) == 1 || number[0] != '0') {
		return n
	}
	return number
}
