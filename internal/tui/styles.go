package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/pilightctl/internal/form"
	"github.com/muurk/pilightctl/internal/version"
)

// AppName is shown in the container header.
const AppName = "PILIGHT CONTROL PANEL"

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72
	MaxContentWidth  = 120
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	TextColor      = lipgloss.Color("#FFFFFF")
	SubtleColor    = lipgloss.Color("#626262")
	BorderColor    = PrimaryColor
	HighlightColor = SecondaryColor
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(HighlightColor).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ErrorColor).
				Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(0, 2)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Bold(true).
			Padding(0, 2)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1)

	SelectedCardStyle = CardStyle.
				BorderForeground(HighlightColor)

	ModifiedStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	ParamNameStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(18)

	ReadOnlyStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)
)

// statusStyles colour a field by its validation status.
var statusStyles = map[form.Status]lipgloss.Style{
	form.StatusNone:    lipgloss.NewStyle().Foreground(TextColor),
	form.StatusSuccess: lipgloss.NewStyle().Foreground(SecondaryColor),
	form.StatusError:   lipgloss.NewStyle().Foreground(ErrorColor).Underline(true),
}

// FieldStyle returns the style of a field in the given status.
func FieldStyle(s form.Status) lipgloss.Style {
	return statusStyles[s]
}

// RenderMenuItem renders a list entry with a selection indicator
func RenderMenuItem(text string, selected bool) string {
	if selected {
		return SelectedStyle.Render("→ " + text)
	}
	return "  " + text
}

// BuildHeaderContent creates header content with app name, version and
// the backend URL.
func BuildHeaderContent(server string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " " + version.Version)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(server)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps a screen with the header, a bordered
// body and a footer carrying the context help.
func RenderApplicationContainer(server, content, footerText string, terminalWidth, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}
	if terminalHeight < 10 {
		terminalHeight = 10
	}

	styledHeader := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1).
		Render(BuildHeaderContent(server))

	styledFooter := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText))

	styledContent := lipgloss.NewStyle().
		Width(terminalWidth - 4).
		Render(content)

	inner := lipgloss.JoinVertical(lipgloss.Left, styledHeader, styledContent, styledFooter)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}
