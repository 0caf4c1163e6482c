// =============================================================================
// Order Document Generator - Document Tree
// =============================================================================
//
// This package wraps golang.org/x/net/html with the small set of tree
// operations the converters need: parse, query by tag/class/attribute/text,
// sibling and ancestor navigation, in-place replacement and removal, and
// rendering back to text.
//
// PARSE MODES:
//   Template sources come in three shapes, detected from the text:
//   - full document (contains "<html"): rendered as a whole document
//   - body-rooted   (contains "<body"): rendered as the <body> element only
//   - fragment      (anything else):    parsed in a <body> context and
//                                       rendered as the top-level nodes
//
// Unmodified markup is re-serialized by the html renderer, so attribute
// quoting and entity spelling are normalized. Node structure, attribute
// values and text content are preserved.
//
// =============================================================================

package domtree

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Mode is the parse mode chosen for a source text.
type Mode int

const (
	ModeFragment Mode = iota
	ModeBody
	ModeDocument
)

func (m Mode) String() string {
	switch m {
	case ModeBody:
		return "body"
	case ModeDocument:
		return "document"
	default:
		return "fragment"
	}
}

// DetectMode picks the parse mode for src.
func DetectMode(src string) Mode {
	lower := strings.ToLower(src)
	switch {
	case strings.Contains(lower, "<html"):
		return ModeDocument
	case strings.Contains(lower, "<body"):
		return ModeBody
	default:
		return ModeFragment
	}
}

// Document is a parsed working copy of a template.
type Document struct {
	// Root is the node all queries start from: the document node, the
	// body element, or a synthetic container holding fragment nodes.
	Root *html.Node

	mode Mode
}

// Parse parses src using the mode detected from its content.
func Parse(src string) (*Document, error) {
	mode := DetectMode(src)

	if mode == ModeFragment {
		container := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
		nodes, err := html.ParseFragment(strings.NewReader(src), container)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fragment: %w", err)
		}
		for _, n := range nodes {
			container.AppendChild(n)
		}
		return &Document{Root: container, mode: mode}, nil
	}

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if mode == ModeDocument {
		return &Document{Root: doc, mode: mode}, nil
	}

	body := Find(doc, Tag("body"))
	if body == nil {
		// html.Parse always synthesizes a body; keep the whole tree if not.
		return &Document{Root: doc, mode: ModeDocument}, nil
	}
	return &Document{Root: body, mode: mode}, nil
}

// Mode returns the mode the document was parsed with.
func (d *Document) Mode() Mode {
	return d.mode
}

// Render serializes the document in the shape it was parsed from.
func (d *Document) Render() (string, error) {
	var sb strings.Builder
	if d.mode == ModeFragment {
		for c := d.Root.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&sb, c); err != nil {
				return "", fmt.Errorf("failed to render fragment: %w", err)
			}
		}
		return sb.String(), nil
	}
	if err := html.Render(&sb, d.Root); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return sb.String(), nil
}

// RenderNode serializes a single node.
func RenderNode(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}
