package tui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/pilightctl/internal/discovery"
)

// Pick is the backend chosen in the picker.
type Pick struct {
	Name   string
	URL    string
	Host   string
	Manual bool
}

// ScanFunc looks for backends. The picker runs it off the UI goroutine.
type ScanFunc func() ([]*discovery.Backend, error)

type scanStartMsg struct{}
type scanDoneMsg struct {
	backends []*discovery.Backend
	err      error
}

// pickerKeyMap defines key bindings for the picker
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Choose, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Choose}, {k.Rescan, k.Manual, k.Quit}}
}

func newPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "connect"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "enter URL"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// backendItem wraps a Pick for bubbles/list
type backendItem struct{ pick Pick }

func (b backendItem) FilterValue() string { return b.pick.Name + " " + b.pick.URL }

// backendDelegate renders backends as cards
type backendDelegate struct{ width int }

func (d backendDelegate) Height() int { return 4 }

func (d backendDelegate) Spacing() int { return 1 }

func (d backendDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d backendDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	bi, ok := item.(backendItem)
	if !ok {
		return
	}
	selected := index == m.Index()

	name := bi.pick.Name
	if bi.pick.Manual {
		name = "Manual: " + name
	}
	var b strings.Builder
	b.WriteString(RenderMenuItem(name, selected))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  URL:  %s", bi.pick.URL))
	if bi.pick.Host != "" {
		b.WriteString(fmt.Sprintf("\n  Host: %s", bi.pick.Host))
	}

	style := CardStyle
	if selected {
		style = SelectedCardStyle
	}
	cardWidth := min(max(d.width-6, MinTerminalWidth-6), MaxContentWidth-6)
	fmt.Fprint(w, style.Width(cardWidth).Render(b.String()))
}

// PickerModel finds a backend to connect to when none is configured.
type PickerModel struct {
	Scanning  bool
	Backends  list.Model
	Err       error
	Picked    *Pick
	Manual    bool
	URLInput  textinput.Model
	ScanStart time.Time
	Timeout   time.Duration

	Width    int
	Height   int
	Spinner  spinner.Model
	Progress progress.Model
	Help     help.Model
	Keys     pickerKeyMap
	Input    inputKeyMap

	scan ScanFunc
}

// NewPickerModel creates a picker that runs scan, which is expected to take
// about timeout.
func NewPickerModel(scan ScanFunc, timeout time.Duration) PickerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	in := textinput.New()
	in.Placeholder = "http://pilight.local:8000"
	in.CharLimit = 200
	in.Width = 40

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	backends := list.New(nil, backendDelegate{width: MinTerminalWidth}, MinTerminalWidth-4, 16)
	backends.Title = "Discovered Backends"
	backends.SetShowStatusBar(false)
	backends.SetFilteringEnabled(false)
	backends.SetShowHelp(false)
	backends.Styles.Title = TitleStyle

	return PickerModel{
		Backends: backends,
		URLInput: in,
		Timeout:  timeout,
		Spinner:  sp,
		Progress: bar,
		Help:     help.New(),
		Keys:     newPickerKeyMap(),
		Input:    newInputKeyMap(),
		scan:     scan,
	}
}

// Init starts the first scan.
func (m PickerModel) Init() tea.Cmd {
	return m.startScan()
}

func (m PickerModel) startScan() tea.Cmd {
	scan := m.scan
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		func() tea.Msg {
			backends, err := scan()
			return scanDoneMsg{backends: backends, err: err}
		},
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.Help.Width = msg.Width
		m.Backends.SetDelegate(backendDelegate{width: msg.Width})
		m.Backends.SetSize(msg.Width-4, max(msg.Height-10, 4))
		return m, nil

	case scanStartMsg:
		m.Scanning = true
		m.Err = nil
		m.ScanStart = time.Now()
		return m, nil

	case scanDoneMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, 0, len(msg.backends))
		for _, b := range msg.backends {
			items = append(items, backendItem{pick: Pick{Name: b.Name(), URL: b.URL(), Host: strings.TrimSuffix(b.Hostname, ".")}})
		}
		return m, m.Backends.SetItems(items)

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Manual {
			return m.updateManual(msg)
		}
		return m.updateList(msg)
	}

	if m.Manual {
		var cmd tea.Cmd
		m.URLInput, cmd = m.URLInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m PickerModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Manual):
		m.Manual = true
		m.URLInput.SetValue("")
		return m, m.URLInput.Focus()

	case m.Scanning:
		return m, nil

	case key.Matches(msg, m.Keys.Choose):
		if item, ok := m.Backends.SelectedItem().(backendItem); ok {
			pick := item.pick
			m.Picked = &pick
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		cmd := m.Backends.SetItems(nil)
		return m, tea.Batch(cmd, m.startScan())

	case key.Matches(msg, m.Keys.Up), key.Matches(msg, m.Keys.Down):
		var cmd tea.Cmd
		m.Backends, cmd = m.Backends.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m PickerModel) updateManual(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Input.Cancel):
		m.Manual = false
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.Input.Confirm):
		pick, err := ManualPick(m.URLInput.Value())
		if err != nil {
			m.Err = err
			return m, nil
		}
		m.Manual = false
		m.URLInput.Blur()
		m.Err = nil
		cmd := m.Backends.InsertItem(0, backendItem{pick: pick})
		m.Backends.Select(0)
		return m, cmd
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// ManualPick turns a typed address into a Pick. A missing scheme means
// http.
func ManualPick(raw string) (Pick, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Pick{}, fmt.Errorf("enter a backend URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return Pick{}, fmt.Errorf("invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Pick{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	name := strings.ToLower(strings.ReplaceAll(u.Hostname(), ".", "-"))
	name = strings.TrimSuffix(name, "-local")
	return Pick{
		Name:   name,
		URL:    strings.TrimRight(u.String(), "/"),
		Host:   u.Host,
		Manual: true,
	}, nil
}

// View renders the picker
func (m PickerModel) View() string {
	var content, footer string
	switch {
	case m.Manual:
		content = m.renderManual()
		footer = m.Help.View(m.Input)
	case m.Scanning:
		content = m.renderScanning()
		footer = m.Help.View(m.Keys)
	default:
		content = m.renderResults()
		footer = m.Help.View(m.Keys)
	}
	return RenderApplicationContainer("no server selected", content, footer, m.Width, m.Height)
}

func (m PickerModel) renderScanning() string {
	elapsed := time.Since(m.ScanStart)
	fraction := 1.0
	if m.Timeout > 0 {
		fraction = min(1, elapsed.Seconds()/m.Timeout.Seconds())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		TitleStyle.Render(m.Spinner.View()+" SEARCHING FOR PILIGHT BACKENDS"),
		"",
		SubtitleStyle.Render("Listening for mDNS announcements on the local network..."),
		"",
		"  "+m.Progress.ViewAs(fraction),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
	)
}

func (m PickerModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(ErrorBannerStyle.Render("✗ " + m.Err.Error()))
		b.WriteString("\n\n")
	}

	if len(m.Backends.Items()) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render("  ⚠ No pilight backends found"))
		b.WriteString("\n\n  Troubleshooting:\n")
		b.WriteString("    • Ensure the backend web server is running\n")
		b.WriteString("    • Check that this machine is on the same network\n")
		b.WriteString("    • Press 'm' to type the backend URL\n")
		return b.String()
	}

	b.WriteString(m.Backends.View())
	return b.String()
}

func (m PickerModel) renderManual() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(TitleStyle.Render("Backend URL"))
	b.WriteString("\n\n  ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render("Host and port, e.g. 192.168.1.20:8000. http:// is assumed."))
	if m.Err != nil {
		b.WriteString("\n\n")
		b.WriteString(ErrorBannerStyle.Render("✗ " + m.Err.Error()))
	}
	return b.String()
}

// RunPicker scans for backends and lets the user choose one. It returns
// false when the user quits without choosing.
func RunPicker(ctx context.Context, timeout time.Duration) (Pick, bool, error) {
	scan := func() ([]*discovery.Backend, error) {
		return discovery.Scan(ctx, timeout)
	}
	p := tea.NewProgram(NewPickerModel(scan, timeout), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Pick{}, false, err
	}
	m, ok := final.(PickerModel)
	if !ok || m.Picked == nil {
		return Pick{}, false, nil
	}
	return *m.Picked, true, nil
}
