// ============================================================================
// StormSQL - SQL Front-End Toolkit
// ============================================================================
//
// Package:     explorer
// Description: Styles for the SQL explorer TUI
// Author:      StormSQL Authors
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package explorer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/stormsql/internal/render"
)

// Additional colors on top of the render palette
var (
	ColorDimmed  = lipgloss.Color("#374151") // Dark Gray
	ColorBgPanel = lipgloss.Color("#1E293B") // Slate 800

	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
)

// Header styles
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(render.ColorPrimary).
			Bold(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(render.ColorPrimary).
			Padding(0, 2)
)

// Panel styles
var (
	InputPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(render.ColorPrimary).
			Padding(0, 1)

	ResultPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorDimmed).
				Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(render.ColorText).
			Padding(0, 1)
)

// Tab styles
var (
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(render.ColorPrimary).
			Bold(true).
			Underline(true)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(render.ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Logo
const Logo = "StormSQL Explorer"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// RenderTab renders a result tab title
func RenderTab(name string, active bool) string {
	if active {
		return TabActiveStyle.Render(name)
	}
	return TabInactiveStyle.Render(name)
}
