// =============================================================================
// Order Document Generator - Furniture Reference Catalog
// =============================================================================
//
// This module loads the reference table that maps a product's model, color
// and height to the retailer's catalog number. The table lives in a
// workbook (third sheet by default) or, alternatively, a CSV export of the
// same columns.
//
// CATALOG STRUCTURE (Expected Columns):
//
//   | Column A | Column B | Column C | Column D       |
//   |----------|----------|----------|----------------|
//   | Model    | Color    | Height   | Catalog Number |
//   | HC-200   | 블랙     | 75       | 1002345        |
//
//   Row 1 is a header. Rows missing any of the four values are skipped.
//
// MATCHING:
//   A product name matches an entry when the entry's model and height both
//   appear as parenthesized tokens in the name, and the entry's color
//   appears anywhere in the name. The first matching entry wins.
//
// =============================================================================

package furniture

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/orderdoc/internal/config"
	"github.com/ginjaninja78/orderdoc/internal/logging"
)

// =============================================================================
// CATALOG STRUCTURE
// =============================================================================

// Entry is one catalog row.
type Entry struct {
	Model  string `json:"model"`
	Color  string `json:"color"`
	Height string `json:"height"`
	Number string `json:"number"`
}

// Catalog is the loaded reference table. It is read-only after loading.
type Catalog struct {
	// Source is the path the catalog was loaded from.
	Source string

	entries []Entry
}

// NewCatalog builds a catalog from entries, dropping incomplete ones.
func NewCatalog(entries ...Entry) *Catalog {
	c := &Catalog{}
	for _, e := range entries {
		c.add([]string{e.Model, e.Color, e.Height, e.Number})
	}
	return c
}

// catalogColumns is the number of columns a catalog row must carry.
const catalogColumns = 4

// dataStartRow is the 0-based index of the first catalog row.
const dataStartRow = 1

// add appends a row when all four values are present.
func (c *Catalog) add(row []string) bool {
	if len(row) < catalogColumns {
		return false
	}
	values := make([]string, catalogColumns)
	for i := range values {
		values[i] = strings.TrimSpace(row[i])
		if values[i] == "" {
			return false
		}
	}
	c.entries = append(c.entries, Entry{
		Model:  values[0],
		Color:  values[1],
		Height: values[2],
		Number: values[3],
	})
	return true
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Sample returns up to n entries from the top of the catalog.
func (c *Catalog) Sample(n int) []Entry {
	if c == nil || n <= 0 {
		return nil
	}
	if n > len(c.entries) {
		n = len(c.entries)
	}
	out := make([]Entry, n)
	copy(out, c.entries[:n])
	return out
}

// =============================================================================
// LOOKUP
// =============================================================================

var reParenToken = regexp.MustCompile(`\((.*?)\)`)

// parenTokens returns the trimmed contents of every parenthesized group.
func parenTokens(s string) []string {
	var tokens []string
	for _, m := range reParenToken.FindAllStringSubmatch(s, -1) {
		tokens = append(tokens, strings.TrimSpace(m[1]))
	}
	return tokens
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// Lookup returns the catalog number for a product name.
//
// PARAMETERS:
//   - productName: The item text from the order sheet.
//
// RETURNS:
//   - The catalog number of the first matching entry.
//   - false if no entry matches.
func (c *Catalog) Lookup(productName string) (string, bool) {
	if c == nil {
		return "", false
	}
	tokens := parenTokens(productName)
	for _, e := range c.entries {
		if containsToken(tokens, e.Model) &&
			strings.Contains(productName, e.Color) &&
			containsToken(tokens, e.Height) {
			return e.Number, true
		}
	}
	return "", false
}

// Suggest returns up to n entries that resemble a product name that did
// not match, best first. The first parenthesized token (the model) is
// used as the query; names without one are searched as a whole.
func (c *Catalog) Suggest(productName string, n int) []Entry {
	if c == nil || n <= 0 {
		return nil
	}
	query := strings.TrimSpace(productName)
	if tokens := parenTokens(productName); len(tokens) > 0 && tokens[0] != "" {
		query = tokens[0]
	}
	if query == "" {
		return nil
	}

	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Model + " " + e.Color + " " + e.Height
	}

	var out []Entry
	for _, m := range fuzzy.Find(query, keys) {
		out = append(out, c.entries[m.Index])
		if len(out) == n {
			break
		}
	}
	return out
}

// =============================================================================
// LOADERS
// =============================================================================

// LoadCatalog reads a catalog from a workbook sheet.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - sheetIndex: The 0-based sheet holding the catalog rows.
//
// RETURNS:
//   - The loaded catalog.
//   - An error if the file cannot be opened or the sheet does not exist.
func LoadCatalog(path string, sheetIndex int) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheetIndex < 0 || sheetIndex >= len(sheets) {
		return nil, fmt.Errorf("catalog workbook has %d sheets, sheet %d requested", len(sheets), sheetIndex+1)
	}

	rows, err := f.GetRows(sheets[sheetIndex])
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog rows: %w", err)
	}

	c := &Catalog{Source: path}
	for i := dataStartRow; i < len(rows); i++ {
		c.add(rows[i])
	}
	return c, nil
}

// LoadCatalogCSV reads a catalog from a CSV export with the same columns.
func LoadCatalogCSV(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	c := &Catalog{Source: path}
	for i := dataStartRow; i < len(rows); i++ {
		c.add(rows[i])
	}
	return c, nil
}

// Open loads the catalog described by cfg. A missing catalog file is not an
// error: an empty catalog is returned and every lookup misses.
func Open(cfg config.CatalogConfig, log logging.Logger) (*Catalog, error) {
	if log == nil {
		log = logging.Nop()
	}

	var (
		c   *Catalog
		err error
	)
	switch cfg.Format {
	case "csv":
		c, err = LoadCatalogCSV(cfg.Path)
	default:
		c, err = LoadCatalog(cfg.Path, cfg.Sheet())
	}
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("catalog file not found, continuing with an empty catalog: %s", cfg.Path)
		return &Catalog{Source: cfg.Path}, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info("loaded %d catalog entries from %s", c.Len(), cfg.Path)
	return c, nil
}
