package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled command output to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width.
func (p *Printer) SetWidth(width int) *Printer {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	p.width = width
	return p
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	p.Println(RenderHeader(title, command, params, p.width))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details map[string]string) {
	p.Println(RenderSuccessBox(title, details, p.width))
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(RenderErrorBox(title, err, troubleshooting, p.width))
}

// PrintWarning prints a warning box
func (p *Printer) PrintWarning(title string, lines []string) {
	p.Println(RenderWarningBox(title, lines, p.width))
}

// PrintTable prints rows under column headers. Rows whose index is in
// marked are highlighted.
func (p *Printer) PrintTable(headers []string, rows [][]string, marked map[int]bool) {
	p.Println(RenderTable(headers, rows, marked))
}

// PrintStrip prints one colored block per light after label.
func (p *Printer) PrintStrip(label string, colors []string) {
	p.Println(RenderStrip(label, colors, p.width))
}

// RenderHeader renders a command header box
func RenderHeader(title, command string, params map[string]string, width int) string {
	topSection := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(title)),
		HeaderCommandStyle.Render(command),
	)
	if len(params) == 0 {
		return HeaderBorderStyle(width).Render(topSection)
	}

	var paramLines []string
	for _, key := range sortedKeys(params) {
		paramLines = append(paramLines,
			HeaderParamKeyStyle.Render(key+":")+" "+HeaderParamValueStyle.Render(params[key]))
	}

	dividerWidth := width - 6
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		topSection,
		RenderHorizontalDivider(dividerWidth, "─"),
		strings.Join(paramLines, "\n"),
	)
	return HeaderBorderStyle(width).Render(content)
}

// RenderSuccessBox renders a success result box
func RenderSuccessBox(title string, details map[string]string, width int) string {
	lines := []string{
		"",
		SuccessTitleStyle.Render("   " + SuccessMarker + "  SUCCESS  ─  " + title),
		"",
	}
	for _, key := range sortedKeys(details) {
		lines = append(lines,
			ResultKeyStyle.Render("   "+key+":")+" "+ResultValueStyle.Render(details[key]))
	}
	lines = append(lines, "")
	return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders an error result box with troubleshooting
func RenderErrorBox(title string, err error, troubleshooting []string, width int) string {
	lines := []string{
		"",
		ErrorTitleStyle.Render("   " + FailureMarker + "  FAILED  ─  " + title),
		"",
	}

	if err != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+err.Error()), "")
	}

	if len(troubleshooting) > 0 {
		troubleLines := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
		for _, tip := range troubleshooting {
			troubleLines = append(troubleLines, TroubleshootingItemStyle.Render("  • "+tip))
		}
		lines = append(lines,
			TroubleshootingBoxStyle(width).Render(strings.Join(troubleLines, "\n")),
			"")
	}

	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderWarningBox renders a warning box with bullet lines
func RenderWarningBox(title string, bullets []string, width int) string {
	lines := []string{
		"",
		WarningTitleStyle.Render("   " + WarningMarker + "  WARNING  ─  " + title),
		"",
	}
	for _, b := range bullets {
		lines = append(lines, ResultValueStyle.Render("   • "+b))
	}
	lines = append(lines, "")
	return WarningBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderTable lays rows out in aligned columns.
func RenderTable(headers []string, rows [][]string, marked map[int]bool) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = TableHeaderStyle.Width(widths[i] + 2).Render(h)
	}
	b.WriteString("  " + lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	for r, row := range rows {
		style := TableCellStyle
		marker := "  "
		if marked[r] {
			style = TableMarkedCellStyle
			marker = CurrentMarker + " "
		}
		cells := make([]string, len(headers))
		for i := range headers {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = style.Width(widths[i] + 2).Render(cell)
		}
		b.WriteString("\n" + marker + lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return b.String()
}

// RenderStrip renders colors as blocks, wrapping rows under label so they
// fit width.
func RenderStrip(label string, colors []string, width int) string {
	label = ResultKeyStyle.Render(label) + " "
	indent := strings.Repeat(" ", lipgloss.Width(label))
	perRow := width - len(indent)
	if perRow < 8 {
		perRow = 8
	}

	var b strings.Builder
	b.WriteString(label)
	for i, c := range colors {
		if i > 0 && i%perRow == 0 {
			b.WriteString("\n" + indent)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(StripBlock))
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
