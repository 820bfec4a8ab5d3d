package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPrinterSuccess(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	p.PrintSuccess("Config saved", map[string]string{"Name": "evening", "Configs": "3"})

	out := buf.String()
	for _, want := range []string{"SUCCESS", "Config saved", "Name:", "evening", "Configs:", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Configs:") > strings.Index(out, "Name:") {
		t.Error("details should be sorted by key")
	}
}

func TestPrinterError(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	p.PrintError("Load failed", errors.New("backend refused connection"), []string{"Check the URL"})

	out := buf.String()
	for _, want := range []string{"FAILED", "Load failed", "backend refused connection", "Troubleshooting:", "Check the URL"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrinterHeader(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	p.PrintHeader("Start driver", "pilightctl driver start", map[string]string{"Server": "http://pi:8000"})

	out := buf.String()
	for _, want := range []string{"START DRIVER", "pilightctl driver start", "Server:", "http://pi:8000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSetWidthClamps(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}).SetWidth(10)
	if p.Width() != MinTerminalWidth {
		t.Errorf("Width() = %d, want %d", p.Width(), MinTerminalWidth)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"ID", "NAME"},
		[][]string{{"1", "morning"}, {"12", "evening"}},
		map[int]bool{1: true},
	)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], CurrentMarker) {
		t.Errorf("marked row should start with %q: %q", CurrentMarker, lines[2])
	}
	if strings.HasPrefix(lines[1], CurrentMarker) {
		t.Errorf("unmarked row has marker: %q", lines[1])
	}
	col := func(line, word string) int { return lipgloss.Width(line[:strings.Index(line, word)]) }
	if col(lines[1], "morning") != col(lines[2], "evening") {
		t.Errorf("columns not aligned:\n%s", out)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact", "evening\n", true},
		{"surrounding space", "  evening  \n", true},
		{"no newline", "evening", true},
		{"wrong", "morning\n", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf).SetWidth(80)

			got := p.Confirm(strings.NewReader(tt.input), "Delete config", []string{"This cannot be undone"}, "evening")
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(buf.String(), "This cannot be undone") {
				t.Error("warning not printed")
			}
		})
	}
}

func TestRenderStrip(t *testing.T) {
	colors := make([]string, 20)
	for i := range colors {
		colors[i] = "#ff0000"
	}

	out := RenderStrip("frame 1", colors, 16)
	if !strings.Contains(out, "frame 1") {
		t.Errorf("strip missing label:\n%s", out)
	}
	if got := strings.Count(out, StripBlock); got != 20 {
		t.Errorf("blocks = %d, want 20", got)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("rows = %d, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "        ") {
		t.Errorf("wrapped row not indented under label: %q", lines[1])
	}
}
