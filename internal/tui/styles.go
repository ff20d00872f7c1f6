package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	hint    lipgloss.Style
	label   lipgloss.Style
	price   lipgloss.Style
	errBox  lipgloss.Style
	card    lipgloss.Style
	company lipgloss.Style
	tooltip lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#667eea")).MarginBottom(1),
		hint:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16),
		price: lipgloss.NewStyle().Bold(true),
		errBox: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c53030")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#f56565")).
			Padding(0, 1),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		company: lipgloss.NewStyle().Bold(true),
		tooltip: lipgloss.NewStyle().Foreground(lipgloss.Color("#e2e8f0")).Background(lipgloss.Color("#2d3748")).Padding(0, 1),
	}
}

// trendStyle colors text with a #rrggbb value from the panel.
func trendStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
