// ============================================================================
// StormSQL - SQL Front-End Toolkit
// ============================================================================
//
// Package:     render
// Description: Styles for coloured terminal output
// Author:      StormSQL Authors
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/stormsql/foundation/stormsql/token"
)

// Color Palette - shared with the explorer TUI
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorAccent    = lipgloss.Color("#F59E0B") // Amber
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

// Token kind styles
var (
	KeywordStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	SymbolStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	IdentifierStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	StringStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	NumberStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	CommentStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)

// Message styles
var (
	LocationStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	OKStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)
)

// KindStyle returns the style used for tokens of kind
func KindStyle(kind token.Kind) lipgloss.Style {
	switch kind {
	case token.Keyword:
		return KeywordStyle
	case token.Symbol:
		return SymbolStyle
	case token.StringLiteral:
		return StringStyle
	case token.NumericLiteral:
		return NumberStyle
	case token.Comment:
		return CommentStyle
	default:
		return IdentifierStyle
	}
}
