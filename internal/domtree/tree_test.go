package domtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMode(t *testing.T) {
	assert.Equal(t, ModeDocument, DetectMode("<!DOCTYPE html><HTML><body></body></HTML>"))
	assert.Equal(t, ModeBody, DetectMode("<body><p>x</p></body>"))
	assert.Equal(t, ModeFragment, DetectMode("<ul><li>a</li></ul>"))
	assert.Equal(t, "fragment", ModeFragment.String())
	assert.Equal(t, "body", ModeBody.String())
	assert.Equal(t, "document", ModeDocument.String())
}

func TestParseRenderModes(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		mode     Mode
		prefix   string
		contains string
	}{
		{"document", `<!DOCTYPE html><html><head></head><body><p class="a">x</p></body></html>`, ModeDocument, "<!DOCTYPE html>", `<p class="a">x</p>`},
		{"body", `<body><p>x</p></body>`, ModeBody, "<body>", "<p>x</p>"},
		{"fragment", `<ul><li>a</li></ul><p>b</p>`, ModeFragment, "<ul>", "<p>b</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.mode, doc.Mode())

			out, err := doc.Render()
			require.NoError(t, err)
			assert.Contains(t, out, tt.contains)
			assert.Regexp(t, "^"+tt.prefix, out)
		})
	}
}

func TestFragmentRenderKeepsTopLevelNodes(t *testing.T) {
	doc, err := Parse(`<ul class="list"><li>a</li><li>b</li></ul>`)
	require.NoError(t, err)

	out, err := doc.Render()
	require.NoError(t, err)
	assert.Equal(t, `<ul class="list"><li>a</li><li>b</li></ul>`, out)
}

func TestQueryHelpers(t *testing.T) {
	doc, err := Parse(`<div><span class="x y">one</span><b>two</b><span class="y" data-k="v"> three </span></div>`)
	require.NoError(t, err)
	root := doc.Root

	spans := FindAll(root, All(Tag("span"), HasClass("y")))
	require.Len(t, spans, 2)
	assert.Equal(t, "one", Text(spans[0]))
	assert.Equal(t, " three ", Text(spans[1]))
	assert.True(t, TextEquals("three")(spans[1]))
	assert.True(t, TextHasPrefix("thr")(spans[1]))
	assert.True(t, TextContains("hre")(spans[1]))

	assert.Equal(t, spans[1], Find(root, AttrIs("data-k", "v")))
	assert.Nil(t, Find(root, AttrIs("data-k", "w")))
	assert.Equal(t, spans[1], NextElementSibling(spans[0], "span"))
	assert.Equal(t, "div", Ancestor(spans[0], "div").Data)
	assert.Len(t, Children(Ancestor(spans[0], "div")), 3)

	SetAttr(spans[0], "class", "z")
	SetAttr(spans[0], "title", "t")
	assert.Equal(t, "z", AttrValue(spans[0], "class"))
	assert.Equal(t, "t", AttrValue(spans[0], "title"))

	SetText(spans[0], "uno")
	AppendBreak(spans[0])
	AppendText(spans[0], "dos")
	assert.Equal(t, `<span class="z" title="t">uno<br/>dos</span>`, RenderNode(spans[0]))

	b := Find(root, Tag("b"))
	InsertAfter(b, NewElement("i", "class", "new"))
	Remove(b)
	assert.Nil(t, Find(root, Tag("b")))
	assert.Equal(t, "new", AttrValue(Find(root, Tag("i")), "class"))
}

func TestReplaceText(t *testing.T) {
	doc, err := Parse(`<p title="OR123">주문 OR123 / OR123</p><p>none</p>`)
	require.NoError(t, err)

	n := ReplaceText(doc.Root, regexpMust(`OR\d+`), "$1X")
	assert.Equal(t, 2, n)
	out, err := doc.Render()
	require.NoError(t, err)
	assert.Equal(t, `<p title="$1X">주문 $1X / $1X</p><p>none</p>`, out)
}
