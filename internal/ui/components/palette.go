package components

import "github.com/charmbracelet/lipgloss"

// Palette shared by every component. ui/styles.go exposes the same colors
// to the screens.
const (
	colorPrimary = lipgloss.Color("#7f57b4")
	colorLabel   = lipgloss.Color("#436b77")
	colorText    = lipgloss.Color("#d7d9da")
	colorMuted   = lipgloss.Color("#9ba0bf")
	colorBorder  = lipgloss.Color("#273540")
	colorDark    = lipgloss.Color("#16161d")
	colorCap     = lipgloss.Color("#888ba4")
	colorRowBg   = lipgloss.Color("#1f2530")
	colorErrLine = lipgloss.Color("#7a2f3a")
	colorErrHead = lipgloss.Color("#e06c75")
	colorErrBody = lipgloss.Color("#d6b5b5")
	colorMark    = lipgloss.Color("#d1606b")
)
