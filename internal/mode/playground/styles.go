package playground

import "github.com/charmbracelet/lipgloss"

var (
	textPrimaryColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	textMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}
	borderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	borderFocusColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"}
	selectionColor     = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#FFFFFF"}
	errorColor         = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	insertColor        = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(textPrimaryColor)
	mutedStyle    = lipgloss.NewStyle().Foreground(textMutedColor)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(selectionColor)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(textMutedColor)

	// Rendered <button> elements.
	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#2D3436"))
	buttonFocusedStyle = buttonStyle.
				Background(lipgloss.Color("#3498DB")).
				Bold(true).
				Underline(true)

	diffInsertStyle = lipgloss.NewStyle().Foreground(insertColor)
	diffDeleteStyle = lipgloss.NewStyle().Foreground(errorColor).Strikethrough(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderDefaultColor).
			Padding(0, 1)
)
