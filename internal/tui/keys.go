package tui

import "github.com/charmbracelet/bubbles/key"

// globalKeyMap holds bindings available on every tab
type globalKeyMap struct {
	NextTab    key.Binding
	PrevTab    key.Binding
	ClearError key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// controlsKeyMap defines key bindings for the controls tab
type controlsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Load     key.Binding
	Save     key.Binding
	Delete   key.Binding
	Start    key.Binding
	Stop     key.Binding
	Restart  key.Binding
	Playlist key.Binding
	Preview  key.Binding
	global   globalKeyMap
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k controlsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Load, k.Save, k.Start, k.Stop, k.global.NextTab, k.global.Help, k.global.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k controlsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Load, k.Save, k.Delete},
		{k.Start, k.Stop, k.Restart, k.Playlist, k.Preview},
		{k.global.NextTab, k.global.PrevTab, k.global.Reload, k.global.ClearError, k.global.Help, k.global.Quit},
	}
}

// lightsKeyMap defines key bindings for the base colors tab
type lightsKeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Paint    key.Binding
	Tool     key.Binding
	Wider    key.Binding
	Narrower key.Binding
	Stronger key.Binding
	Weaker   key.Binding
	Color    key.Binding
	Fill     key.Binding
	Reload   key.Binding
	Preview  key.Binding
	global   globalKeyMap
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k lightsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Paint, k.Color, k.Fill, k.Preview, k.global.NextTab, k.global.Help, k.global.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k lightsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Paint, k.Tool, k.Color},
		{k.Wider, k.Narrower, k.Stronger, k.Weaker, k.Fill, k.Reload, k.Preview},
		{k.global.NextTab, k.global.PrevTab, k.global.ClearError, k.global.Help, k.global.Quit},
	}
}

// editorKeyMap defines key bindings for the transforms and variables tabs
type editorKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Edit     key.Binding
	EditAdd  key.Binding
	Toggle   key.Binding
	Variable key.Binding
	Save     key.Binding
	Delete   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	New      key.Binding
	global   globalKeyMap
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Toggle, k.Save, k.Delete, k.global.NextTab, k.global.Help, k.global.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Edit, k.EditAdd, k.Toggle, k.Variable},
		{k.Save, k.Delete, k.MoveUp, k.MoveDown, k.New},
		{k.global.NextTab, k.global.PrevTab, k.global.Reload, k.global.ClearError, k.global.Help, k.global.Quit},
	}
}

// inputKeyMap defines key bindings while a text input has focus
type inputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k inputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k inputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

func newGlobalKeyMap() globalKeyMap {
	return globalKeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		ClearError: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear error"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func newControlsKeyMap(g globalKeyMap) controlsKeyMap {
	return controlsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load config"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save config"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete config"),
		),
		Start: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Playlist: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "next playlist"),
		),
		Preview: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "preview"),
		),
		global: g,
	}
}

func newLightsKeyMap(g globalKeyMap) lightsKeyMap {
	return lightsKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous light"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next light"),
		),
		Paint: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "paint"),
		),
		Tool: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "solid/smooth"),
		),
		Wider: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "radius up"),
		),
		Narrower: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "radius down"),
		),
		Stronger: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "opacity up"),
		),
		Weaker: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "opacity down"),
		),
		Color: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "brush color"),
		),
		Fill: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fill all"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload colors"),
		),
		Preview: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "preview"),
		),
		global: g,
	}
}

func newEditorKeyMap(g globalKeyMap) editorKeyMap {
	return editorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		EditAdd: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "edit offset"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bind/unbind"),
		),
		Variable: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "next variable"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move transform up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "move transform down"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "add transform"),
		),
		global: g,
	}
}

func newInputKeyMap() inputKeyMap {
	return inputKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}
