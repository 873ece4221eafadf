package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
	keyCapStyle = lipgloss.NewStyle().
			Foreground(colorDark).
			Background(colorCap).
			Bold(true).
			Padding(0, 1)
	modeStyle = lipgloss.NewStyle().
			Foreground(colorDark).
			Background(colorPrimary).
			Bold(true).
			Padding(0, 1)
	hintSep = lipgloss.NewStyle().
		Foreground(colorBorder).
		Render(" · ")
)

const statusBarIndent = 2

// StatusBar renders a mode badge followed by key hints on a single line.
// Hints that would overflow width are dropped from the end.
func StatusBar(mode string, hints []string, width int) string {
	parts := make([]string, 0, len(hints)+1)
	used := 0
	if mode != "" {
		badge := modeStyle.Render(strings.ToUpper(mode))
		parts = append(parts, badge)
		used = lipgloss.Width(badge)
	}
	budget := width - statusBarIndent
	for _, h := range hints {
		w := lipgloss.Width(h)
		if len(parts) > 0 {
			w += lipgloss.Width(hintSep)
		}
		if width > 0 && used+w > budget {
			break
		}
		parts = append(parts, h)
		used += w
	}
	return strings.Repeat(" ", statusBarIndent) + strings.Join(parts, hintSep)
}

// Hint formats one key hint, e.g. Hint("ctrl+s", "Update").
func Hint(key, desc string) string {
	return keyCapStyle.Render(key) + " " + hintDescStyle.Render(desc)
}
