package digitgrid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/orderdoc/internal/domtree"
)

const nb = Blank

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   []string
	}{
		{"zero", 0, []string{nb, nb, nb, nb, nb, "0"}},
		{"four digits", 1234, []string{nb, nb, "1", "2", "3", "4"}},
		{"overflow keeps low digits", 1234567, []string{"2", "3", "4", "5", "6", "7"}},
		{"interior and trailing zeros", 100500, []string{"1", "0", "0", "5", "0", "0"}},
		{"exact width", 181818, []string{"1", "8", "1", "8", "1", "8"}},
		{"negative by magnitude", -42, []string{nb, nb, nb, nb, "4", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.amount, DefaultWidth))
		})
	}
}

func TestRenderNonPositiveWidth(t *testing.T) {
	assert.Nil(t, Render(12, 0))
}

const rowFixture = `<table>
<tr><td><img src="/img/t_supply.gif"></td><td class="num_b">9</td><td class="num_b">9</td><td class="num_b">9</td><td class="num_b">9</td><td class="num_b">9</td><td class="num_b">9</td></tr>
<tr><td><img src="/img/t_amount01.gif"></td><td class="num_b">1</td><td class="num_b">2</td><td class="num_b">3</td><td class="num_b">4</td><td class="num_b">5</td><td class="num_b">6</td></tr>
</table>`

func TestFillRow(t *testing.T) {
	doc, err := domtree.Parse(rowFixture)
	require.NoError(t, err)

	row := domtree.Ancestor(domtree.Find(doc.Root, domtree.AttrIs("src", "/img/t_supply.gif")), "tr")
	require.NotNil(t, row)

	assert.Equal(t, 6, FillRow(row, 1234, DefaultWidth))

	cells := domtree.FindAll(row, domtree.HasClass(CellClass))
	var got []string
	for _, c := range cells {
		got = append(got, domtree.Text(c))
	}
	assert.Equal(t, []string{nb, nb, "1", "2", "3", "4"}, got)
}

func TestFillCellsFewerCellsThanWidth(t *testing.T) {
	doc, err := domtree.Parse(`<table><tr><td class="num_b">x</td><td class="num_b">x</td><td class="num_b">x</td></tr></table>`)
	require.NoError(t, err)

	cells := domtree.FindAll(doc.Root, domtree.HasClass(CellClass))
	assert.Equal(t, 3, FillCells(cells, 1234, DefaultWidth))
	assert.Equal(t, "2", domtree.Text(cells[0]))
	assert.Equal(t, "4", domtree.Text(cells[2]))
}

func TestFillTextRowScopedToMarkerRow(t *testing.T) {
	out, ok := FillTextRow(rowFixture, "t_amount01.gif", 0, DefaultWidth)
	require.True(t, ok)

	lines := strings.Split(out, "\n")
	// The supply row above is untouched.
	assert.Equal(t, strings.Split(rowFixture, "\n")[1], lines[1])
	assert.Contains(t, lines[2], `<td class="num_b">`+nb+`</td>`)
	assert.Contains(t, lines[2], `<td class="num_b">0</td></tr>`)
	assert.NotContains(t, lines[2], ">6<")
}

func TestFillTextRowMarkerMissing(t *testing.T) {
	out, ok := FillTextRow(rowFixture, "t_total.gif", 5, DefaultWidth)
	assert.False(t, ok)
	assert.Equal(t, rowFixture, out)
}

func TestEnclosingRowNested(t *testing.T) {
	doc := `<table><tr><td><table><tr><td>inner</td></tr></table>MARK</td><td class="num_b">1</td></tr></table>`
	start, end := enclosingRow(doc, strings.Index(doc, "MARK"))
	require.GreaterOrEqual(t, start, 0)
	assert.Equal(t, "<table>", doc[:start])
	assert.Equal(t, "</table>", doc[end:])
}

func TestFillTextRowMatchesClassToken(t *testing.T) {
	doc := `<table><tr><td>MARK</td><td class="num_b right">9</td><td class="num_bx">9</td><td class="cell num_b">9</td></tr></table>`
	out, ok := FillTextRow(doc, "MARK", 12, 2)
	require.True(t, ok)
	assert.Equal(t, `<table><tr><td>MARK</td><td class="num_b right">1</td><td class="num_bx">9</td><td class="cell num_b">2</td></tr></table>`, out)
}
