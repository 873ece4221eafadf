package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHintIncludesKeyAndDesc(t *testing.T) {
	out := Hint("ctrl+s", "Update")
	assert.Contains(t, out, "ctrl+s")
	assert.Contains(t, out, "Update")
}

func TestStatusBarShowsModeAndHints(t *testing.T) {
	out := StatusBar("edit", []string{Hint("enter", "Edit"), Hint("q", "Quit")}, 0)
	assert.Contains(t, out, "EDIT")
	assert.Contains(t, out, "Edit")
	assert.Contains(t, out, "Quit")
}

func TestStatusBarDropsHintsPastWidth(t *testing.T) {
	out := StatusBar("", []string{"aaaa", "bbbb", "cccc"}, 16)
	assert.Equal(t, "  aaaa · bbbb", out)
}

func TestStatusBarWithoutHints(t *testing.T) {
	assert.Equal(t, "  ", StatusBar("", nil, 40))
}
