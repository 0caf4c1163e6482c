package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const receiptFragment = `<div class="title"><strong>카드영수증</strong></div>
<table>
  <tr><th>상품명</th><th>금액</th></tr>
  <tr><td>접이식 의자</td><td>33,000</td></tr>
</table>
<script>var x = 1;</script>`

func TestMarkdown(t *testing.T) {
	md, err := New(StylePlain, 0).Markdown(receiptFragment)
	require.NoError(t, err)

	assert.Contains(t, md, "**카드영수증**")
	assert.Contains(t, md, "접이식 의자")
	assert.Contains(t, md, "33,000")
	assert.Contains(t, md, "|")
	assert.NotContains(t, md, "var x")
}

func TestMarkdownEmpty(t *testing.T) {
	md, err := New("", 0).Markdown("  \n")
	require.NoError(t, err)
	assert.Empty(t, md)
}

func TestRenderPlain(t *testing.T) {
	p := New(StylePlain, 60)
	assert.Equal(t, 60, p.width)

	out, err := p.Render(receiptFragment)
	require.NoError(t, err)
	assert.Contains(t, out, "카드영수증")
	assert.Contains(t, out, "33,000")

	out, err = p.Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNewDefaults(t *testing.T) {
	p := New("", -1)
	assert.Equal(t, StyleAuto, p.style)
	assert.Equal(t, DefaultWidth, p.width)
}
