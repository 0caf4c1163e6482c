package domtree

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Matcher reports whether a node satisfies a structural condition.
type Matcher func(n *html.Node) bool

// Tag matches element nodes with the given tag name.
func Tag(name string) Matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

// HasClass matches elements whose class list contains class.
func HasClass(class string) Matcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, c := range strings.Fields(AttrValue(n, "class")) {
			if c == class {
				return true
			}
		}
		return false
	}
}

// AttrIs matches elements carrying key with exactly val.
func AttrIs(key, val string) Matcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := Attr(n, key)
		return ok && v == val
	}
}

// TextEquals matches nodes whose trimmed text equals s.
func TextEquals(s string) Matcher {
	return func(n *html.Node) bool {
		return strings.TrimSpace(Text(n)) == s
	}
}

// TextContains matches nodes whose text contains s.
func TextContains(s string) Matcher {
	return func(n *html.Node) bool {
		return strings.Contains(Text(n), s)
	}
}

// TextHasPrefix matches nodes whose trimmed text starts with s.
func TextHasPrefix(s string) Matcher {
	return func(n *html.Node) bool {
		return strings.HasPrefix(strings.TrimSpace(Text(n)), s)
	}
}

// All matches when every matcher matches.
func All(ms ...Matcher) Matcher {
	return func(n *html.Node) bool {
		for _, m := range ms {
			if !m(n) {
				return false
			}
		}
		return true
	}
}

// Find returns the first descendant of root matching m, in document order.
// root itself is not considered.
func Find(root *html.Node, m Matcher) *html.Node {
	if root == nil {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			return c
		}
		if found := Find(c, m); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant of root matching m, in document order.
func FindAll(root *html.Node, m Matcher) []*html.Node {
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if m(c) {
				results = append(results, c)
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return results
}

// Text returns the concatenated text of n and its descendants.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Attr returns an attribute value and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrValue returns the value of an attribute, or "".
func AttrValue(n *html.Node, key string) string {
	v, _ := Attr(n, key)
	return v
}

// SetAttr sets or adds an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// NextElementSibling returns the next sibling element with the given tag.
func NextElementSibling(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode && s.Data == tag {
			return s
		}
	}
	return nil
}

// Ancestor returns the nearest ancestor element with the given tag.
func Ancestor(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return p
		}
	}
	return nil
}

// Children returns the direct element children of n.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Clear removes all children of n.
func Clear(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// SetText replaces the content of n with a single text node.
func SetText(n *html.Node, s string) {
	Clear(n)
	n.AppendChild(NewText(s))
}

// Remove detaches n from its parent.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// NewText creates a text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// NewElement creates an element node. attrs are key/value pairs.
func NewElement(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// AppendText appends a text node to n.
func AppendText(n *html.Node, s string) {
	n.AppendChild(NewText(s))
}

// AppendBreak appends a <br> element to n.
func AppendBreak(n *html.Node) {
	n.AppendChild(NewElement("br"))
}

// InsertAfter inserts n directly after ref.
func InsertAfter(ref, n *html.Node) {
	if ref.Parent == nil {
		return
	}
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// Walk calls fn for every node below root in document order.
func Walk(root *html.Node, fn func(*html.Node)) {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		fn(c)
		Walk(c, fn)
	}
}
