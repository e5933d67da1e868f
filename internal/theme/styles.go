package theme

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Text      lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style
	Bold      lipgloss.Style
	Thinking  lipgloss.Style
	// Badge is the upper-case tool label of the droid variant.
	Badge lipgloss.Style
	Box   lipgloss.Style
}

// Styles builds the style set for t.
func (t Theme) Styles() Styles {
	c := t.Colors
	fg := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	border := lipgloss.NormalBorder()
	if t.Border.Rounded {
		border = lipgloss.RoundedBorder()
	}
	s := Styles{
		Primary:   fg(c.Primary),
		Secondary: fg(c.Secondary),
		Success:   fg(c.Success),
		Error:     fg(c.Error),
		Warning:   fg(c.Warning),
		Info:      fg(c.Info),
		Text:      fg(c.Text),
		Dim:       fg(c.Dim),
		Highlight: fg(c.Highlight),
		Bold:      lipgloss.NewStyle().Bold(true),
		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Background)).
			Background(lipgloss.Color(c.Primary)).
			Padding(0, 1),
		Box: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color(t.Border.Color)).
			Padding(0, 1),
	}
	if t.IsDroid() {
		s.Thinking = fg(c.Primary).Italic(true)
	} else {
		s.Thinking = fg(c.Dim).Italic(true)
	}
	return s
}
