package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxWidthBounds(t *testing.T) {
	assert.Equal(t, 0, boxWidth(0))
	assert.Equal(t, 40, boxWidth(10))
	assert.Equal(t, 70, boxWidth(100))
	assert.Equal(t, 88, boxWidth(200))
}

func TestTitledBoxIncludesTitle(t *testing.T) {
	out := TitledBox("Requests", "Content", 80)
	assert.Contains(t, out, "Requests")
	assert.Contains(t, out, "Content")
}

func TestTitledBoxEmptyTitleFallsBack(t *testing.T) {
	out := TitledBox("", "Content", 80)
	assert.Contains(t, out, "Content")
}

func TestErrorBoxIncludesMessage(t *testing.T) {
	out := ErrorBox("Error", "request 7: tags: HTTP 503", 80)
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "HTTP 503")
}

func TestClampTextWidthAddsEllipsis(t *testing.T) {
	assert.Equal(t, "abc", ClampTextWidth("abc", 5))
	assert.Equal(t, "abcd…", ClampTextWidth("abcdefgh", 5))
	assert.Equal(t, "a b", ClampTextWidth("a\nb", 0))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", truncateRunes("abc", 0))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "日本", truncateRunes("日本語", 2))
}

func TestInfoRowSanitizesLabelAndValue(t *testing.T) {
	out := InfoRow("Title\x1b[31m", "Laptop\nfor Sam")
	assert.NotContains(t, out, "\x1b[31m")
	assert.Contains(t, out, "Laptop for Sam")
}

func TestIndentPadsEveryLine(t *testing.T) {
	out := Indent("a\nb", 2)
	assert.Equal(t, "  a\n  b", out)
}

func TestCenterLineAddsLeftPadding(t *testing.T) {
	out := CenterLine("hi", 100)
	assert.True(t, strings.HasPrefix(out, " "))
	assert.Equal(t, "hi", CenterLine("hi", 0))
}
