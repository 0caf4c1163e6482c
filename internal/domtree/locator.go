package domtree

import (
	"fmt"
	"regexp"

	"golang.org/x/net/html"

	"github.com/ginjaninja78/orderdoc/internal/logging"
)

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// Diagnostic records the outcome of one anchor lookup.
type Diagnostic struct {
	Field  string
	Anchor string
	Found  bool
}

// Diagnostics is the per-conversion list of anchor lookups.
// The zero value is ready to use.
type Diagnostics struct {
	entries []Diagnostic
}

// Record appends a lookup outcome.
func (d *Diagnostics) Record(field, anchor string, found bool) {
	d.entries = append(d.entries, Diagnostic{Field: field, Anchor: anchor, Found: found})
}

// Entries returns all recorded lookups in order.
func (d *Diagnostics) Entries() []Diagnostic {
	out := make([]Diagnostic, len(d.entries))
	copy(out, d.entries)
	return out
}

// Found reports whether the last lookup recorded for field succeeded.
func (d *Diagnostics) Found(field string) bool {
	for i := len(d.entries) - 1; i >= 0; i-- {
		if d.entries[i].Field == field {
			return d.entries[i].Found
		}
	}
	return false
}

// Recorded reports whether any lookup was recorded for field.
func (d *Diagnostics) Recorded(field string) bool {
	for _, e := range d.entries {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Missing returns the fields whose last lookup failed, in first-seen order.
func (d *Diagnostics) Missing() []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range d.entries {
		if seen[e.Field] {
			continue
		}
		seen[e.Field] = true
		if !d.Found(e.Field) {
			out = append(out, e.Field)
		}
	}
	return out
}

// =============================================================================
// LOCATOR
// =============================================================================

// Locator resolves anchors against a tree. Every lookup is first match in
// document order; a miss is logged and recorded, never returned as error.
type Locator struct {
	root *html.Node
	diag *Diagnostics
	log  logging.Logger
}

// NewLocator creates a locator over root recording into diag.
func NewLocator(root *html.Node, diag *Diagnostics, log logging.Logger) *Locator {
	if diag == nil {
		diag = &Diagnostics{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Locator{root: root, diag: diag, log: log}
}

// Root returns the node lookups start from.
func (l *Locator) Root() *html.Node {
	return l.root
}

// Diagnostics returns the shared diagnostics list.
func (l *Locator) Diagnostics() *Diagnostics {
	return l.diag
}

// Within returns a locator scoped to root sharing this locator's
// diagnostics and logger.
func (l *Locator) Within(root *html.Node) *Locator {
	return &Locator{root: root, diag: l.diag, log: l.log}
}

// Hit records a successful lookup for a non-tree strategy.
func (l *Locator) Hit(field, anchor string) {
	l.diag.Record(field, anchor, true)
}

// Miss records and logs a failed lookup.
func (l *Locator) Miss(field, anchor string) {
	l.diag.Record(field, anchor, false)
	l.log.Warn("anchor not found for %s: %s", field, anchor)
}

func (l *Locator) result(field, anchor string, n *html.Node) (*html.Node, bool) {
	if n == nil {
		l.Miss(field, anchor)
		return nil, false
	}
	l.Hit(field, anchor)
	return n, true
}

// First returns the first node under the root matching m.
func (l *Locator) First(field, anchor string, m Matcher) (*html.Node, bool) {
	return l.result(field, anchor, Find(l.root, m))
}

// LabelSibling finds the first tag element whose trimmed text equals label
// and returns its next tag sibling, the value slot next to the label.
func (l *Locator) LabelSibling(field, tag, label string) (*html.Node, bool) {
	return l.LabelNext(field, tag, label, tag)
}

// LabelNext is LabelSibling for pairs whose value element differs from the
// label element, such as <dt>/<dd>.
func (l *Locator) LabelNext(field, labelTag, label, valueTag string) (*html.Node, bool) {
	anchor := fmt.Sprintf("%s[text=%q] + %s", labelTag, label, valueTag)
	labelNode := Find(l.root, All(Tag(labelTag), TextEquals(label)))
	return l.result(field, anchor, NextElementSibling(labelNode, valueTag))
}

// IconRow finds the first <img> with the given src and returns the table
// row containing it.
func (l *Locator) IconRow(field, src string) (*html.Node, bool) {
	anchor := fmt.Sprintf("img[src=%s] row", src)
	return l.result(field, anchor, iconRow(l.root, src))
}

// IconNextRow finds the first <img> with the given src and returns the row
// after the one containing it. Values are laid out one row below their
// label icon.
func (l *Locator) IconNextRow(field, src string) (*html.Node, bool) {
	anchor := fmt.Sprintf("img[src=%s] next row", src)
	return l.result(field, anchor, NextElementSibling(iconRow(l.root, src), "tr"))
}

func iconRow(root *html.Node, src string) *html.Node {
	img := Find(root, All(Tag("img"), AttrIs("src", src)))
	if img == nil {
		return nil
	}
	td := Ancestor(img, "td")
	if td == nil {
		return nil
	}
	return Ancestor(td, "tr")
}

// ClassList returns all tag elements carrying class under scope, for
// positional indexing by the caller. An empty list is recorded as a miss.
func (l *Locator) ClassList(field, tag, class string) []*html.Node {
	anchor := fmt.Sprintf("%s.%s", tag, class)
	nodes := FindAll(l.root, All(Tag(tag), HasClass(class)))
	if len(nodes) == 0 {
		l.Miss(field, anchor)
		return nil
	}
	l.Hit(field, anchor)
	return nodes
}

// =============================================================================
// TEXT REPLACEMENT
// =============================================================================

// ReplaceText applies re to every text node and attribute value under root,
// substituting repl literally. It returns the number of nodes changed.
func ReplaceText(root *html.Node, re *regexp.Regexp, repl string) int {
	changed := 0
	Walk(root, func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if re.MatchString(n.Data) {
				n.Data = re.ReplaceAllLiteralString(n.Data, repl)
				changed++
			}
		case html.ElementNode:
			for i := range n.Attr {
				if re.MatchString(n.Attr[i].Val) {
					n.Attr[i].Val = re.ReplaceAllLiteralString(n.Attr[i].Val, repl)
					changed++
				}
			}
		}
	})
	return changed
}
