package pattern

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var reAmount = regexp.MustCompile(`(<dd class="v">)[\d,]+`)

func TestKeepPrefix(t *testing.T) {
	src := `<dd class="v">1,000</dd><dd class="v">2,000</dd>`

	out, ok := KeepPrefix(src, reAmount, "$1 3,000")
	assert.True(t, ok)
	assert.Equal(t, `<dd class="v">$1 3,000</dd><dd class="v">$1 3,000</dd>`, out)

	out, ok = KeepPrefix("<p>none</p>", reAmount, "5")
	assert.False(t, ok)
	assert.Equal(t, "<p>none</p>", out)
}

func TestReplace(t *testing.T) {
	re := regexp.MustCompile(`\d+`)

	out, ok := ReplaceFirst("a1 b2", re, `\0`)
	assert.True(t, ok)
	assert.Equal(t, `a\0 b2`, out)

	out, ok = ReplaceAll("a1 b2", re, "${0}")
	assert.True(t, ok)
	assert.Equal(t, "a${0} b${0}", out)

	out, ok = ReplaceAll("ab", re, "n")
	assert.False(t, ok)
	assert.Equal(t, "ab", out)

	_, ok = ReplaceFirst("ab", re, "n")
	assert.False(t, ok)
}
