// =============================================================================
// Order Document Generator - Digit Grid
// =============================================================================
//
// Receipt amounts are printed one digit per table cell. This package
// renders an amount into a fixed number of cells and writes those cells
// either into tree nodes or into the serialized row of a document.
//
// LAYOUT:
//   Cells are right-aligned. Cells covered by the number's own digits show
//   the digit, zeros included. Unused high-order cells show a non-breaking
//   space. Digits beyond the width are dropped from the high end.
//
//   Render(0, 6)       -> [_ _ _ _ _ 0]
//   Render(1234, 6)    -> [_ _ 1 2 3 4]
//   Render(1234567, 6) -> [2 3 4 5 6 7]
//
// =============================================================================

package digitgrid

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/ginjaninja78/orderdoc/internal/domtree"
)

// DefaultWidth is the number of digit cells on the receipt.
const DefaultWidth = 6

// Blank is the content of an unused cell.
const Blank = "\u00a0"

// Render returns width cells for amount, most significant cell first.
// Negative amounts are rendered by magnitude.
func Render(amount int64, width int) []string {
	if width <= 0 {
		return nil
	}
	if amount < 0 {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	cells := make([]string, width)
	for i := 0; i < width; i++ {
		pos := width - 1 - i
		if i < len(digits) {
			cells[pos] = string(digits[len(digits)-1-i])
		} else {
			cells[pos] = Blank
		}
	}
	return cells
}

// FillCells writes amount into the last min(width, len(cells)) nodes,
// right-aligned. It returns the number of cells written.
func FillCells(cells []*html.Node, amount int64, width int) int {
	rendered := Render(amount, width)
	n := min(width, len(cells))
	for i := 0; i < n; i++ {
		domtree.SetText(cells[len(cells)-1-i], rendered[width-1-i])
	}
	return n
}

// FillRow fills the num_b cells of a table row node.
func FillRow(row *html.Node, amount int64, width int) int {
	cells := domtree.FindAll(row, domtree.All(domtree.Tag("td"), domtree.HasClass(CellClass)))
	return FillCells(cells, amount, width)
}

// CellClass is the class carried by every digit cell.
const CellClass = "num_b"

var (
	rowTagRe  = regexp.MustCompile(`(?i)<(/?)tr[\s>]`)
	digitTdRe = regexp.MustCompile(`(<td\b[^>]*\bclass="(?:[^"]*\s)?` + CellClass + `(?:\s[^"]*)?"[^>]*>)[^<]*(</td>)`)
)

// FillTextRow is the textual variant of FillRow for serialized HTML. It
// locates the <tr> enclosing the first occurrence of marker and rewrites
// the digit cells inside that row only. It reports whether the row was
// found.
func FillTextRow(doc, marker string, amount int64, width int) (string, bool) {
	at := strings.Index(doc, marker)
	if at < 0 {
		return doc, false
	}

	start, end := enclosingRow(doc, at)
	if start < 0 {
		return doc, false
	}

	row := doc[start:end]
	locs := digitTdRe.FindAllStringSubmatchIndex(row, -1)
	if len(locs) == 0 {
		return doc, false
	}

	rendered := Render(amount, width)
	n := min(width, len(locs))
	values := make([]string, len(locs))
	// Cells before the filled range keep their text.
	for i := 0; i < len(locs)-n; i++ {
		values[i] = row[locs[i][3]:locs[i][4]]
	}
	for i := 0; i < n; i++ {
		values[len(locs)-1-i] = rendered[width-1-i]
	}

	var sb strings.Builder
	last := 0
	for i, loc := range locs {
		sb.WriteString(row[last:loc[0]])
		sb.WriteString(row[loc[2]:loc[3]])
		sb.WriteString(values[i])
		sb.WriteString(row[loc[4]:loc[5]])
		last = loc[1]
	}
	sb.WriteString(row[last:])

	return doc[:start] + sb.String() + doc[end:], true
}

// enclosingRow returns the byte range of the <tr>...</tr> element that
// contains offset at, honoring nested rows.
func enclosingRow(doc string, at int) (int, int) {
	tags := rowTagRe.FindAllStringSubmatchIndex(doc, -1)

	// Nearest unclosed <tr> before at.
	start := -1
	depth := 0
	for i := len(tags) - 1; i >= 0; i-- {
		t := tags[i]
		if t[0] >= at {
			continue
		}
		closing := t[3] > t[2]
		if closing {
			depth++
			continue
		}
		if depth == 0 {
			start = t[0]
			break
		}
		depth--
	}
	if start < 0 {
		return -1, -1
	}

	// Matching </tr> after start.
	depth = 0
	for _, t := range tags {
		if t[0] < start {
			continue
		}
		closing := t[3] > t[2]
		if !closing {
			depth++
			continue
		}
		depth--
		if depth == 0 {
			end := strings.IndexByte(doc[t[0]:], '>')
			if end < 0 {
				return -1, -1
			}
			return start, t[0] + end + 1
		}
	}
	return -1, -1
}
