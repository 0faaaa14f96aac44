package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskloop/internal/query"
	"taskloop/internal/task"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	tabStyle   = lipgloss.NewStyle().Padding(0, 1)
	activeTab  = tabStyle.Bold(true).Underline(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	focusedCard = cardStyle.BorderForeground(lipgloss.Color("12"))

	priorityColors = map[task.Priority]lipgloss.Color{
		task.PriorityLow:    lipgloss.Color("10"),
		task.PriorityMedium: lipgloss.Color("11"),
		task.PriorityHigh:   lipgloss.Color("9"),
	}
)

// minCardWidth fits "[x] " plus the longest title on one line. lipgloss
// counts the horizontal padding inside Width.
const minCardWidth = len("[x] ") + task.MaxTitleLen + 2

var filterLabels = map[query.Filter]string{
	query.FilterAll:       "All",
	query.FilterCompleted: "Completed",
	query.FilterPending:   "Pending",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n")
	b.WriteString(m.renderToolbar())
	b.WriteString("\n")

	if msg := m.sess.Err(); msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
	}

	b.WriteString(m.renderCards())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ move  space toggle  d delete  f filter  s sort  / search  r refresh  q quit"))
	return b.String()
}

func (m Model) renderToolbar() string {
	cur := m.sess.Filter()
	tabs := make([]string, 0, len(query.Filters))
	for _, f := range query.Filters {
		style := tabStyle
		if f == cur {
			style = activeTab
		}
		tabs = append(tabs, style.Render(filterLabels[f]))
	}

	search := m.sess.Search()
	if m.searching {
		search = m.input + "▏"
	}
	if search == "" {
		search = "-"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(tabs, ""),
		fmt.Sprintf("  sort: %s  search: %s", m.sess.Sort().Label(), search),
	)
}

func (m Model) renderCards() string {
	win := m.engine.Window()
	if len(win) == 0 {
		return helpStyle.Render("No tasks found.")
	}

	visible := m.engine.Visible()
	if !m.engine.Active() {
		visible = len(win)
	}
	width := max(m.width/max(visible, 1)-2, minCardWidth)

	focused, _ := m.Focused()
	cards := make([]string, 0, len(win))
	for _, t := range win {
		style := cardStyle
		if t.ID == focused.ID {
			style = focusedCard
		}
		cards = append(cards, style.Width(width).Render(renderCard(t)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderCard(t task.Task) string {
	check := "[ ]"
	title := t.Title
	if t.Completed {
		check = "[x]"
		title = lipgloss.NewStyle().Strikethrough(true).Render(title)
	}
	badge := lipgloss.NewStyle().Foreground(priorityColors[t.Priority]).Render(string(t.Priority))
	return strings.Join([]string{
		check + " " + title,
		badge,
		t.Description,
		helpStyle.Render(t.CreatedAt.Format("Jan 2, 2006")),
	}, "\n")
}

func (m Model) renderStatus() string {
	parts := []string{}
	if n := m.engine.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", m.engine.Offset()+1, n))
	}
	if m.engine.Locked() {
		parts = append(parts, "moving")
	}
	if m.busy {
		parts = append(parts, "loading")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return helpStyle.Render(strings.Join(parts, "  "))
}
