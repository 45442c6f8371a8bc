// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     tui
// Description: Styles for the deepclock terminal view
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/deepclock/internal/clock"
)

// Color Palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel = lipgloss.Color("#1E293B") // Slate 800

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500

	// Tier colors
	ColorRecent   = lipgloss.Color("#10B981")
	ColorGeologic = lipgloss.Color("#B45309")
	ColorPreEarth = lipgloss.Color("#6366F1")
)

var (
	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2).
			MarginBottom(1)

	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	// The projected date, the main readout
	DisplayStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true).
			Padding(1, 0)

	TimeAgoStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)
)

// Input styles
var (
	InputLabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Width(8)

	FocusedInputLabelStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Width(8)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusLiveStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StatusScrubStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)
)

// Help styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Logo
const Logo = "deepclock"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// RenderRow renders a label/value line of the details panel
func RenderRow(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

// RenderTier renders the tier badge
func RenderTier(t clock.Tier) string {
	switch t.Kind {
	case clock.TierRecent:
		return lipgloss.NewStyle().Foreground(ColorRecent).Bold(true).Render("recent")
	case clock.TierGeologic:
		return lipgloss.NewStyle().Foreground(ColorGeologic).Bold(true).
			Render(fmt.Sprintf("geologic #%d", t.Image))
	case clock.TierPreEarth:
		return lipgloss.NewStyle().Foreground(ColorPreEarth).Bold(true).Render("before Earth")
	default:
		return HelpDescStyle.Render("unknown")
	}
}
