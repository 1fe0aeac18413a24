package presence

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	dayHead   lipgloss.Style
	person    lipgloss.Style
	office    lipgloss.Style
	home      lipgloss.Style
	unknown   lipgloss.Style
	assumed   lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
	roomName  lipgloss.Style
	roomMeta  lipgloss.Style
	roomEvent lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		dayHead:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		person:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		office:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		home:      lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		unknown:   lipgloss.NewStyle().Faint(true),
		assumed:   lipgloss.NewStyle().Faint(true).Italic(true),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
		roomName:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		roomMeta:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		roomEvent: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}
