package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm displays a warning box and asks the user to type expect to
// proceed. It returns true only on an exact match.
func (p *Printer) Confirm(in io.Reader, title string, warnings []string, expect string) bool {
	p.PrintWarning(title, warnings)
	p.Newline()

	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	_, _ = fmt.Fprint(p.out, promptStyle.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", expect)))

	input, err := bufio.NewReader(in).ReadString('\n')
	p.Newline()
	if err != nil && input == "" {
		return false
	}

	if strings.TrimSpace(input) == expect {
		return true
	}

	p.Println(lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	return false
}
