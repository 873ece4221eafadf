package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			Width(44)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	buttonFocusedStyle = buttonStyle.
				Foreground(colorDark).
				Background(colorPrimary).
				BorderForeground(colorPrimary).
				Bold(true)

	buttonDisabledStyle = buttonStyle.Faint(true)
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	header := boxHeaderStyle.Render(title)
	body := boxMutedStyle.Render(message)
	hint := boxMutedStyle.Render("\ny: confirm | n: cancel")
	return dialogStyle.Render(header + "\n\n" + body + hint)
}

// Button renders a push button.
func Button(label string, focused, disabled bool) string {
	switch {
	case disabled:
		return buttonDisabledStyle.Render(label)
	case focused:
		return buttonFocusedStyle.Render(label)
	}
	return buttonStyle.Render(label)
}

// Buttons lays out buttons side by side, one space apart.
func Buttons(buttons ...string) string {
	spaced := make([]string, 0, len(buttons)*2)
	for i, b := range buttons {
		if i > 0 {
			spaced = append(spaced, " ")
		}
		spaced = append(spaced, b)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, spaced...)
}

// Checkbox renders "[x] label" or "[ ] label".
func Checkbox(label string, checked bool) string {
	mark := "[ ]"
	if checked {
		mark = lipgloss.NewStyle().Foreground(colorMark).Bold(true).Render("[x]")
	}
	return mark + " " + SanitizeOneLine(label)
}

// Pills joins labels as inline chips, or returns "-" for none.
func Pills(labels []string) string {
	if len(labels) == 0 {
		return "-"
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = "[" + SanitizeOneLine(l) + "]"
	}
	return strings.Join(out, " ")
}
