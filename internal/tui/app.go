package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/pilightctl/internal/form"
	"github.com/muurk/pilightctl/internal/logging"
	"github.com/muurk/pilightctl/internal/store"
)

// Tab is one of the control panel's pages.
type Tab int

const (
	TabControls Tab = iota
	TabTransforms
	TabVariables
	TabLights
)

var tabNames = []string{"Controls", "Transforms", "Variables", "Lights"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "unknown"
}

// AppModel is the top-level model. It owns the Store and routes every
// non-key message through it, then reconciles the editors against the new
// state.
type AppModel struct {
	Store  store.Store
	Server string

	Tab        Tab
	Controls   controlsModel
	Transforms editorPane
	Variables  editorPane
	Lights     lightsModel

	// frame is the preview frame on screen while a preview plays
	frame     int
	animating bool

	Spinner spinner.Model
	Help    help.Model
	Keys    globalKeyMap
	Input   inputKeyMap

	Width  int
	Height int
}

// NewAppModel creates the control panel for a store talking to server.
func NewAppModel(s store.Store, server string) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	g := newGlobalKeyMap()
	m := AppModel{
		Store:      s,
		Server:     server,
		Tab:        TabControls,
		Controls:   newControlsModel(newControlsKeyMap(g)),
		Transforms: newEditorPane(form.EditorTransform, newEditorKeyMap(g)),
		Variables:  newEditorPane(form.EditorVariable, newEditorKeyMap(g)),
		Lights:     newLightsModel(newLightsKeyMap(g)),
		Spinner:    sp,
		Help:       help.New(),
		Keys:       g,
		Input:      newInputKeyMap(),
		Width:      MinTerminalWidth,
		Height:     24,
	}
	return m.sync()
}

// Init starts the first bootstrap.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.Store.Init(), m.Spinner.Tick)
}

// Update handles all messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case previewTickMsg:
		return m.advancePreview()
	}

	logging.Debug("Store message", zap.String("type", fmt.Sprintf("%T", msg)))
	var storeCmd, blinkCmd, tickCmd tea.Cmd
	m.Store, storeCmd = m.Store.Update(msg)
	m, blinkCmd = m.updateInputs(msg)
	switch frames := len(m.Store.State().PreviewFrames); {
	case frames > 0 && !m.animating:
		m.animating = true
		m.frame = 0
		tickCmd = previewTick()
	case frames == 0:
		m.animating = false
		m.frame = 0
	}
	return m.sync(), tea.Batch(storeCmd, blinkCmd, tickCmd)
}

// advancePreview shows the next preview frame. After the last one the
// preview is cleared; animating stays set until the store drops the frames.
func (m AppModel) advancePreview() (tea.Model, tea.Cmd) {
	if !m.animating {
		return m, nil
	}
	if m.frame+1 < len(m.Store.State().PreviewFrames) {
		m.frame++
		return m, previewTick()
	}
	return m, emit(store.SetPreview{})
}

// updateInputs forwards non-key messages (cursor blink) to focused inputs.
func (m AppModel) updateInputs(msg tea.Msg) (AppModel, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.Controls.naming:
		m.Controls.nameInput, cmd = m.Controls.nameInput.Update(msg)
	case m.Transforms.editing:
		m.Transforms.input, cmd = m.Transforms.input.Update(msg)
	case m.Variables.editing:
		m.Variables.input, cmd = m.Variables.input.Update(msg)
	case m.Lights.picking:
		m.Lights.colorIn, cmd = m.Lights.colorIn.Update(msg)
	}
	return m, cmd
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	st := m.Store.State()
	if !m.inputActive() {
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.Keys.NextTab):
			return m.switchTab((m.Tab + 1) % Tab(len(tabNames)))
		case key.Matches(msg, m.Keys.PrevTab):
			return m.switchTab((m.Tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames)))
		case key.Matches(msg, m.Keys.Help):
			m.Help.ShowAll = !m.Help.ShowAll
			return m, nil
		case key.Matches(msg, m.Keys.ClearError):
			return m, emit(store.ClearError{})
		case key.Matches(msg, m.Keys.Reload):
			return m, emit(store.Bootstrap{})
		}
	}

	var cmd tea.Cmd
	switch m.Tab {
	case TabControls:
		m.Controls, cmd = m.Controls.update(msg, st)
	case TabTransforms:
		m.Transforms, cmd = m.Transforms.update(msg, st.AvailableTransforms)
	case TabVariables:
		m.Variables, cmd = m.Variables.update(msg, st.AvailableTransforms)
	case TabLights:
		m.Lights, cmd = m.Lights.update(msg, st)
	}
	return m, cmd
}

// switchTab changes tab. The lights tab loads base colors the first time it
// opens.
func (m AppModel) switchTab(t Tab) (tea.Model, tea.Cmd) {
	m.Tab = t
	if t == TabLights && m.Store.State().BaseColors == nil {
		return m, emit(store.LoadBaseColors{})
	}
	return m, nil
}

func (m AppModel) inputActive() bool {
	switch m.Tab {
	case TabControls:
		return m.Controls.inputActive()
	case TabTransforms:
		return m.Transforms.inputActive()
	case TabVariables:
		return m.Variables.inputActive()
	case TabLights:
		return m.Lights.inputActive()
	}
	return false
}

// sync pushes confirmed state into every editor.
func (m AppModel) sync() AppModel {
	st := m.Store.State()
	schema := form.Schema{Defs: st.Defs, Variables: st.VariablesByType}
	m.Transforms = m.Transforms.sync(st.Transforms, schema)
	m.Variables = m.Variables.sync(st.Variables, schema)
	m.Controls = m.Controls.clamp(st)
	m.Lights = m.Lights.clamp(st)
	return m
}

// View renders the active tab
func (m AppModel) View() string {
	st := m.Store.State()

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if st.HasError() {
		b.WriteString(ErrorBannerStyle.Render("✗ " + st.ErrorMessage))
		b.WriteString("\n")
	}

	if st.Loading() {
		b.WriteString("\n")
		b.WriteString(SpinnerStyle.Render(m.Spinner.View() + " Loading from backend..."))
		b.WriteString("\n")
	} else {
		if st.PreviewActive() {
			b.WriteString(previewView(st, m.frame, m.Width))
			b.WriteString("\n\n")
		}
		bodyHeight := m.Height - 10 - strings.Count(b.String(), "\n")
		switch m.Tab {
		case TabControls:
			b.WriteString(m.Controls.view(st))
		case TabTransforms:
			b.WriteString(m.Transforms.view(st, bodyHeight))
		case TabVariables:
			b.WriteString(m.Variables.view(st, bodyHeight))
		case TabLights:
			b.WriteString(m.Lights.view(st, m.Width))
		}
	}

	return RenderApplicationContainer(m.Server, b.String(), m.helpView(), m.Width, m.Height)
}

func (m AppModel) helpView() string {
	if m.inputActive() {
		return m.Help.View(m.Input)
	}
	switch m.Tab {
	case TabControls:
		return m.Help.View(m.Controls.keys)
	case TabLights:
		return m.Help.View(m.Lights.keys)
	}
	return m.Help.View(m.Transforms.keys)
}

func (m AppModel) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.Tab {
			tabs[i] = ActiveTabStyle.Render(name)
		} else {
			tabs[i] = TabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// Run starts the control panel full-screen and blocks until it exits.
func Run(ctx context.Context, s store.Store, server string) error {
	p := tea.NewProgram(NewAppModel(s, server), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
