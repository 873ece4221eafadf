package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
 ┬─┐┌─┐┌─┐ ┌┬┐┌─┐┌─┐┬┌─
 ├┬┘├┤ │─┼┐ ││├┤ └─┐├┴┐
 ┴└─└─┘└─┘└─┴┘└─┘└─┘┴ ┴`

// RenderBanner returns the title art with the signed-in user and role.
func RenderBanner(username string, manager bool) string {
	lines := strings.Split(strings.TrimPrefix(bannerArt, "\n"), "\n")
	width := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(BannerStyle.Render(line))
		b.WriteString("\n")
	}

	who := "request tracking"
	if username != "" {
		who = username
	}
	role := "requester"
	if manager {
		role = "manager"
	}
	subtitle := MutedStyle.Render(who) + " " + RoleBadgeStyle.Render(role)
	underline := lipgloss.NewStyle().Foreground(ColorBorder).Render(strings.Repeat("─", width))
	return "\n" + b.String() + subtitle + "\n" + underline + "\n"
}
