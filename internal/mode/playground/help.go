package playground

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/vellum/internal/keys"
	"github.com/zjrosen/vellum/internal/log"
)

var helpSections = []string{"Demos", "Buttons", "State", "General"}

// helpMarkdown lists the keybindings and the demos.
func helpMarkdown(demos []Demo) string {
	var b strings.Builder
	b.WriteString("# Playground\n\n")
	b.WriteString("Each demo defines components on a fresh runtime and renders the root. ")
	b.WriteString("Clicking a button dispatches its curried handler, then the renderer settles.\n\n")

	for i, group := range keys.Playground.FullHelp() {
		fmt.Fprintf(&b, "## %s\n\n", helpSections[i])
		b.WriteString("| Key | Action |\n|---|---|\n")
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Demo list\n\n")
	for _, d := range demos {
		fmt.Fprintf(&b, "- **%s**: %s\n", d.Name, d.Description)
	}
	return b.String()
}

// renderHelp renders markdown with glamour. style is "dark" or "light".
// The raw markdown is returned when rendering fails.
func renderHelp(markdown string, width int, style string) string {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to create help renderer", err, "style", style)
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to render help", err)
		return markdown
	}
	return out
}
