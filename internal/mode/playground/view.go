package playground

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/vellum/internal/keys"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		md := renderHelp(helpMarkdown(m.demos), max(m.width-4, 20), m.opts.MarkdownStyle)
		return zone.Scan(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, md))
	}

	sidebarWidth := m.sidebarWidth()
	demoWidth := max(m.width-sidebarWidth-1, 30)
	bodyHeight := m.height - 2
	if m.opts.ShowLog {
		bodyHeight -= logPaneHeight + 2
	}
	bodyHeight = max(bodyHeight, 8)

	sidebar := paneStyle.
		Width(sidebarWidth - 2).
		Height(bodyHeight - 2).
		Render(m.renderSidebar())
	demo := paneStyle.
		BorderForeground(borderFocusColor).
		Width(demoWidth - 2).
		Height(bodyHeight - 2).
		Render(m.renderDemo(demoWidth - 4))

	sections := []string{lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", demo)}
	if m.opts.ShowLog {
		sections = append(sections, paneStyle.Width(m.width-2).Render(m.logView.View()))
	}
	sections = append(sections, m.renderFooter())

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// sidebarWidth is 30% of the width, clamped to [20, 32].
func (m Model) sidebarWidth() int {
	return max(min(m.width*30/100, 32), 20)
}

func (m Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Demos"))
	sb.WriteString("\n\n")
	for i, d := range m.demos {
		if i == m.selected {
			sb.WriteString(selectedStyle.Render("● " + d.Name))
		} else {
			sb.WriteString(mutedStyle.Render("  " + d.Name))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderDemo(width int) string {
	demo := m.demos[m.selected]
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(demo.Name))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(wordwrap.String(demo.Description, width)))
	sb.WriteString("\n\n")

	if m.scene != nil {
		sb.WriteString(sectionStyle.Render("Markup"))
		sb.WriteString("\n")
		sb.WriteString(wordwrap.String(m.scene.Renderer.Markup(), width))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderButtons())
		sb.WriteString("\n\n")

		sb.WriteString(sectionStyle.Render("Activity"))
		sb.WriteString("\n")
		activity := m.scene.Activity()
		if len(activity) > maxActivity {
			activity = activity[len(activity)-maxActivity:]
		}
		for _, line := range activity {
			sb.WriteString(ansi.Truncate(line, width, "…"))
			sb.WriteString("\n")
		}
	}

	if m.opts.ShowDiff && m.diff != "" {
		sb.WriteString("\n")
		sb.WriteString(sectionStyle.Render("Last change"))
		sb.WriteString("\n")
		sb.WriteString(wordwrap.String(m.diff, width))
		sb.WriteString("\n")
	}

	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(wordwrap.String("error: "+m.err.Error(), width)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderButtons draws each rendered <button> as a clickable zone.
func (m Model) renderButtons() string {
	buttons := m.buttons()
	if len(buttons) == 0 {
		return mutedStyle.Render("(no buttons)")
	}
	parts := make([]string, 0, len(buttons))
	for i, el := range buttons {
		style := buttonStyle
		if i == m.focus {
			style = buttonFocusedStyle
		}
		parts = append(parts, zone.Mark(makeButtonZoneID(i), style.Render(el.Text())))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderFooter() string {
	left := m.help.ShortHelpView(keys.Playground.ShortHelp())
	right := m.status
	if m.passes > 0 {
		right += mutedStyle.Render(m.counters())
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return ansi.Truncate(left+strings.Repeat(" ", gap)+right, m.width, "")
}

// counters summarizes pass, memo and delivery counts for the footer.
func (m Model) counters() string {
	s := fmt.Sprintf("  passes %d  rev %d", m.passes, m.revision)
	if memo := m.opts.Env.Memo; memo != nil {
		hits, misses := memo.Stats()
		s += fmt.Sprintf("  memo %d/%d", hits, hits+misses)
	}
	if m.scene != nil {
		if dropped := m.scene.Renderer.Broker().Dropped(); dropped > 0 {
			s += fmt.Sprintf("  dropped %d", dropped)
		}
	}
	return s
}

func (m Model) logWidth() int {
	return max(m.width-4, 10)
}

// refreshLog wraps the buffered entries to the pane width and scrolls to
// the newest one.
func (m *Model) refreshLog() {
	width := m.logWidth()
	var lines []string
	for _, entry := range m.logLines {
		wrapped := wordwrap.String(strings.TrimRight(entry, "\n"), width)
		for _, line := range strings.Split(wrapped, "\n") {
			lines = append(lines, ansi.Truncate(line, width, ""))
		}
	}
	m.logView.SetContent(strings.Join(lines, "\n"))
	m.logView.GotoBottom()
}
