package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/store"
)

// PreviewInterval is the time between simulated frames.
const PreviewInterval = 100 * time.Millisecond

type previewTickMsg struct{}

func previewTick() tea.Cmd {
	return tea.Tick(PreviewInterval, func(time.Time) tea.Msg { return previewTickMsg{} })
}

// Brush defaults
const (
	defaultRadius  = 3
	defaultOpacity = 50
	opacityStep    = 5
)

type colorTarget int

const (
	targetBrush colorTarget = iota
	targetFill
)

// lightsModel is the base colors tab: a strip of lights, a brush and a fill
// action.
type lightsModel struct {
	cursor int
	brush  api.Stroke

	picking   bool
	target    colorTarget
	colorIn   textinput.Model
	colorErr  error
	strokeErr error

	keys lightsKeyMap
}

func newLightsModel(keys lightsKeyMap) lightsModel {
	in := textinput.New()
	in.Placeholder = "#rrggbb"
	in.CharLimit = 7
	in.Width = 10
	return lightsModel{
		brush: api.Stroke{
			Tool:    api.ToolSolid,
			Radius:  defaultRadius,
			Opacity: defaultOpacity,
			Color:   "#ffffff",
		},
		colorIn: in,
		keys:    keys,
	}
}

func (m lightsModel) inputActive() bool { return m.picking }

func (m lightsModel) update(msg tea.KeyMsg, st store.State) (lightsModel, tea.Cmd) {
	if m.picking {
		return m.updatePicking(msg)
	}
	m.strokeErr = nil

	lights := len(st.BaseColors)
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Right):
		if m.cursor < lights-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Tool):
		if m.brush.Tool == api.ToolSolid {
			m.brush.Tool = api.ToolSmooth
			m.brush.Radius = max(m.brush.Radius, 1)
		} else {
			m.brush.Tool = api.ToolSolid
		}

	case key.Matches(msg, m.keys.Wider):
		m.brush.Radius = min(m.brush.Radius+1, api.MaxRadius)

	case key.Matches(msg, m.keys.Narrower):
		floor := 0
		if m.brush.Tool == api.ToolSmooth {
			floor = 1
		}
		m.brush.Radius = max(m.brush.Radius-1, floor)

	case key.Matches(msg, m.keys.Stronger):
		m.brush.Opacity = min(m.brush.Opacity+opacityStep, api.MaxOpacity)

	case key.Matches(msg, m.keys.Weaker):
		m.brush.Opacity = max(m.brush.Opacity-opacityStep, api.MinOpacity)

	case key.Matches(msg, m.keys.Color):
		return m.startPicking(targetBrush)

	case key.Matches(msg, m.keys.Fill):
		return m.startPicking(targetFill)

	case key.Matches(msg, m.keys.Paint):
		stroke := m.brush
		stroke.Index = m.cursor
		if err := stroke.Validate(st.NumLights); err != nil {
			m.strokeErr = err
			return m, nil
		}
		return m, emit(store.ApplyTool{Stroke: stroke})

	case key.Matches(msg, m.keys.Reload):
		return m, emit(store.LoadBaseColors{})

	case key.Matches(msg, m.keys.Preview):
		return m, emit(store.RunPreview{})
	}
	return m, nil
}

func (m lightsModel) startPicking(target colorTarget) (lightsModel, tea.Cmd) {
	m.picking = true
	m.target = target
	m.colorErr = nil
	m.colorIn.SetValue(m.brush.Color)
	m.colorIn.CursorEnd()
	return m, m.colorIn.Focus()
}

func (m lightsModel) updatePicking(msg tea.KeyMsg) (lightsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.picking = false
		m.colorErr = nil
		m.colorIn.Blur()
		return m, nil

	case "enter":
		color, err := api.ParseColor(m.colorIn.Value())
		if err != nil {
			m.colorErr = err
			return m, nil
		}
		m.picking = false
		m.colorErr = nil
		m.colorIn.Blur()
		m.brush.Color = color
		if m.target == targetFill {
			return m, emit(store.FillColor{Color: color})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.colorIn, cmd = m.colorIn.Update(msg)
	return m, cmd
}

// clamp keeps the cursor on a light after the strip changed.
func (m lightsModel) clamp(st store.State) lightsModel {
	if m.cursor >= len(st.BaseColors) {
		m.cursor = len(st.BaseColors) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m lightsModel) view(st store.State, width int) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Base Colors"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d lights • brush: %s r%d %d%% ",
		len(st.BaseColors), m.brush.Tool, m.brush.Radius, m.brush.Opacity)))
	b.WriteString(swatch(m.brush.Color))
	b.WriteString("\n\n")

	if st.BaseColors == nil {
		b.WriteString(SubtitleStyle.Render("  Base colors not loaded; press R"))
		b.WriteString("\n")
	} else {
		b.WriteString(renderStrip(st.BaseColors, m.cursor, width))
		b.WriteString("\n")
		if m.cursor < len(st.BaseColors) {
			b.WriteString(SubtitleStyle.Render(fmt.Sprintf("light %d: %s", m.cursor, st.BaseColors[m.cursor])))
			b.WriteString("\n")
		}
	}

	if m.picking {
		label := "Brush color: "
		if m.target == targetFill {
			label = "Fill all with: "
		}
		b.WriteString("\n  " + label + m.colorIn.View())
		b.WriteString("\n")
	}
	for _, err := range []error{m.colorErr, m.strokeErr} {
		if err != nil {
			b.WriteString(ModifiedStyle.Render("  " + err.Error()))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// swatch renders one block in color.
func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█")
}

// renderStrip renders colors as rows of blocks that fit width. A cursor
// outside the strip marks nothing.
func renderStrip(colors []string, cursor, width int) string {
	perRow := max(width-8, 8)
	var rows []string
	for start := 0; start < len(colors); start += perRow {
		end := min(start+perRow, len(colors))
		var line strings.Builder
		line.WriteString("  ")
		for _, c := range colors[start:end] {
			line.WriteString(swatch(c))
		}
		rows = append(rows, line.String())
		if cursor >= start && cursor < end {
			rows = append(rows, "  "+strings.Repeat(" ", cursor-start)+SelectedStyle.Render("^"))
		}
	}
	return strings.Join(rows, "\n")
}

// previewView renders the current frame of a running preview.
func previewView(st store.State, frame, width int) string {
	if st.PreviewPending {
		return SubtitleStyle.Render("Simulating preview...")
	}
	if frame >= len(st.PreviewFrames) {
		return ""
	}
	title := SubtitleStyle.Render(fmt.Sprintf("Preview frame %d/%d", frame+1, len(st.PreviewFrames)))
	return title + "\n" + renderStrip(st.PreviewFrames[frame], -1, width)
}
