package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/store"
)

// emit wraps a store message as a command so it comes back through Update.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// controlsModel is the top-level controls tab: the config list with
// load/save/delete, the driver buttons and the playlist selector.
type controlsModel struct {
	cursor int

	naming    bool
	nameInput textinput.Model

	// pendingDelete is the config id awaiting a second press of Delete
	pendingDelete *int

	keys controlsKeyMap
}

func newControlsModel(keys controlsKeyMap) controlsModel {
	in := textinput.New()
	in.Placeholder = "config name"
	in.CharLimit = 64
	in.Width = 32
	return controlsModel{nameInput: in, keys: keys}
}

// inputActive reports whether keystrokes belong to the name input.
func (m controlsModel) inputActive() bool { return m.naming }

func (m controlsModel) update(msg tea.KeyMsg, st store.State) (controlsModel, tea.Cmd) {
	if m.naming {
		return m.updateNaming(msg)
	}

	if !key.Matches(msg, m.keys.Delete) {
		m.pendingDelete = nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(st.Configs)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Load):
		if c, ok := m.current(st); ok {
			return m, emit(store.LoadConfig{ID: c.ID})
		}

	case key.Matches(msg, m.keys.Save):
		m.naming = true
		m.nameInput.SetValue(st.SelectedConfig)
		m.nameInput.CursorEnd()
		return m, m.nameInput.Focus()

	case key.Matches(msg, m.keys.Delete):
		c, ok := m.current(st)
		if !ok {
			return m, nil
		}
		if m.pendingDelete != nil && *m.pendingDelete == c.ID {
			m.pendingDelete = nil
			return m, emit(store.DeleteConfig{ID: c.ID})
		}
		id := c.ID
		m.pendingDelete = &id

	case key.Matches(msg, m.keys.Start):
		return m, emit(store.StartDriver{})

	case key.Matches(msg, m.keys.Stop):
		return m, emit(store.StopDriver{})

	case key.Matches(msg, m.keys.Restart):
		return m, emit(store.RestartDriver{})

	case key.Matches(msg, m.keys.Playlist):
		return m, emit(store.SelectPlaylist{ID: nextPlaylist(st.Playlists)})

	case key.Matches(msg, m.keys.Preview):
		return m, emit(store.RunPreview{})
	}

	return m, nil
}

func (m controlsModel) updateNaming(msg tea.KeyMsg) (controlsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.naming = false
		m.nameInput.Blur()
		return m, nil

	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		m.naming = false
		m.nameInput.Blur()
		if name == "" {
			return m, nil
		}
		return m, emit(store.SaveConfig{Name: name})
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// clamp keeps the cursor inside the config list after it changed.
func (m controlsModel) clamp(st store.State) controlsModel {
	if m.cursor >= len(st.Configs) {
		m.cursor = len(st.Configs) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m controlsModel) current(st store.State) (api.Config, bool) {
	if m.cursor < 0 || m.cursor >= len(st.Configs) {
		return api.Config{}, false
	}
	return st.Configs[m.cursor], true
}

// nextPlaylist cycles none → first → ... → last → none.
func nextPlaylist(p api.Playlists) *int {
	if len(p.Items) == 0 {
		return nil
	}
	if p.CurrentID == nil {
		id := p.Items[0].ID
		return &id
	}
	for i, item := range p.Items {
		if item.ID == *p.CurrentID && i+1 < len(p.Items) {
			id := p.Items[i+1].ID
			return &id
		}
	}
	return nil
}

func playlistName(p api.Playlists) string {
	if p.CurrentID == nil {
		return "none"
	}
	for _, item := range p.Items {
		if item.ID == *p.CurrentID {
			return item.Name
		}
	}
	return fmt.Sprintf("#%d", *p.CurrentID)
}

func (m controlsModel) view(st store.State) string {
	var b strings.Builder

	selected := st.SelectedConfig
	if selected == "" {
		selected = "(unsaved)"
	}
	b.WriteString(TitleStyle.Render("Config: " + selected))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d lights • playlist: %s", st.NumLights, playlistName(st.Playlists))))
	b.WriteString("\n\n")

	if m.naming {
		b.WriteString("  Save as: ")
		b.WriteString(m.nameInput.View())
		b.WriteString("\n\n")
	}

	if len(st.Configs) == 0 {
		b.WriteString(SubtitleStyle.Render("  No saved configs"))
		b.WriteString("\n")
	}
	for i, c := range st.Configs {
		label := c.Name
		if c.Name == st.SelectedConfig {
			label += " " + ModifiedStyle.Render("(current)")
		}
		if m.pendingDelete != nil && *m.pendingDelete == c.ID {
			label += " " + ModifiedStyle.Render("press D again to delete")
		}
		b.WriteString(RenderMenuItem(label, i == m.cursor))
		b.WriteString("\n")
	}

	return b.String()
}
