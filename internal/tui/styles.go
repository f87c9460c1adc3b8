package tui

import "github.com/charmbracelet/lipgloss"

// Styles collects the lipgloss styles used by the chat view.
type Styles struct {
	Title       lipgloss.Style
	UserLabel   lipgloss.Style
	BotLabel    lipgloss.Style
	MessageText lipgloss.Style
	Card        lipgloss.Style
	CardTitle   lipgloss.Style
	Bullet      lipgloss.Style
	Warning     lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	StatusBar   lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the default chat styling.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		BotLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		MessageText: lipgloss.NewStyle(),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1),
		CardTitle: lipgloss.NewStyle().
			Bold(true),
		Bullet: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245")),
		TableCell: lipgloss.NewStyle(),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
