package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/config"
	"github.com/muurk/pilightctl/internal/discovery"
	"github.com/muurk/pilightctl/internal/params"
	"github.com/muurk/pilightctl/internal/store"
	"github.com/muurk/pilightctl/internal/tui"
	"github.com/muurk/pilightctl/internal/ui"
)

// Command flags
var (
	scanWait     int
	scanAdd      bool
	outputFormat string
	loginSave    bool
)

func init() {
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(loginCmd)
}

// tuiCmd launches the control panel
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive control panel",
	Long: `Launch the full-screen control panel.

The panel has three tabs: Controls (saved configs, playlist and driver),
Transforms (the active transform chain) and Variables. Logs go to the
file given by --log-file or the registry preference, never the terminal.`,
	Example: `  # Use the default server from the registry
  pilightctl tui

  # Use a backend by URL, logging to a file
  pilightctl tui --server http://pilight.local:8000 --log-level debug --log-file /tmp/pilight.log`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	ctx := cmd.Context()

	sess, err := openSession(registry, serverArg)
	if errors.Is(err, errNoServer) {
		sess, err = pickServer(ctx)
		if sess == nil && err == nil {
			return nil
		}
	}
	if err != nil {
		return err
	}

	if err := sess.connect(ctx, registry); err != nil {
		return fail(p, "Cannot reach "+sess.label(), err)
	}
	return tui.Run(ctx, sess.newStore(ctx), sess.label())
}

// pickServer lets the user choose a discovered backend and registers it.
// It returns nil when the user quits without choosing.
func pickServer(ctx context.Context) (*session, error) {
	pick, ok, err := tui.RunPicker(ctx, registry.Preferences.DiscoverTimeoutDuration())
	if err != nil || !ok {
		return nil, err
	}

	srv := registry.AddServer(pick.Name, pick.URL, "")
	srv.Source = config.SourceMDNS
	if pick.Manual {
		srv.Source = config.SourceManual
	}
	if err := registry.Save(); err != nil {
		return nil, fmt.Errorf("failed to save registry: %w", err)
	}
	return openSession(registry, pick.Name)
}

// scanCmd discovers backends on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for pilight backends on the network",
	Long: `Scan for pilight backends using mDNS/DNS-SD discovery.

Backends announce an HTTP service whose instance name or TXT record
identifies them as pilight. Found backends can be added to the registry
so later commands can refer to them by name.`,
	Example: `  # Scan using the registry's discovery timeout
  pilightctl scan

  # Longer scan, registering everything found
  pilightctl scan --wait 15 --add`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanWait, "wait", 0, "Scan duration in seconds (default: registry preference)")
	scanCmd.Flags().BoolVar(&scanAdd, "add", false, "Add discovered backends to the registry")
}

func runScan(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	wait := registry.Preferences.DiscoverTimeoutDuration()
	if scanWait > 0 {
		wait = time.Duration(scanWait) * time.Second
	}

	p.Println(fmt.Sprintf("Scanning for pilight backends (timeout: %s)...", wait))
	p.Newline()

	backends, err := discovery.Scan(cmd.Context(), wait)
	if err != nil {
		return fail(p, "Scan failed", err)
	}

	if len(backends) == 0 {
		p.PrintWarning("No backends found", []string{
			"Ensure the backend web server is running",
			"Check that this machine is on the same network segment",
			"Try increasing --wait for slower networks",
			"Use --server with a URL if discovery is blocked",
		})
		return nil
	}

	headers, rows, marked := scanTable(registry, backends)
	p.Println(fmt.Sprintf("Found %d backend(s):", len(backends)))
	p.Newline()
	p.PrintTable(headers, rows, marked)
	p.Newline()

	if !scanAdd {
		p.Println("Use 'pilightctl scan --add' to register them")
		return nil
	}

	added := addDiscovered(registry, backends)
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}
	p.PrintSuccess("Registry updated", map[string]string{
		"Added":   strconv.Itoa(added),
		"Default": registry.Preferences.DefaultServer,
	})
	return nil
}

// scanTable lays backends out for printing. Rows already in the registry
// are marked.
func scanTable(reg *config.Registry, backends []*discovery.Backend) ([]string, [][]string, map[int]bool) {
	headers := []string{"NAME", "URL", "HOST"}
	rows := make([][]string, len(backends))
	marked := map[int]bool{}
	for i, b := range backends {
		rows[i] = []string{b.Name(), b.URL(), strings.TrimSuffix(b.Hostname, ".")}
		if srv := reg.GetServer(b.Name()); srv != nil && srv.URL == b.URL() {
			marked[i] = true
		}
	}
	return headers, rows, marked
}

// addDiscovered registers backends and returns how many were new or moved.
func addDiscovered(reg *config.Registry, backends []*discovery.Backend) int {
	added := 0
	for _, b := range backends {
		if srv := reg.GetServer(b.Name()); srv != nil && srv.URL == b.URL() {
			reg.MarkSeen(b.Name())
			continue
		}
		srv := reg.AddServer(b.Name(), b.URL(), "")
		srv.Source = config.SourceMDNS
		srv.LastSeen = b.DiscoveredAt
		added++
	}
	return added
}

// showCmd prints the backend's current state
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the backend's current state",
	Long: `Bootstrap from the backend and print its state: lights, saved
configs, playlists, active transforms and variables.`,
	Example: `  # Tables for humans
  pilightctl show

  # YAML for scripting
  pilightctl show --server living-room --format yaml`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "Output format (table, yaml)")
}

func runShow(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	if outputFormat != "table" && outputFormat != "yaml" {
		return fmt.Errorf("invalid format %q: use table or yaml", outputFormat)
	}

	sess, err := openSession(registry, serverArg)
	if err != nil {
		return err
	}
	s, err := sess.bootstrap(cmd.Context(), registry)
	if err != nil {
		return fail(p, "Cannot load "+sess.label(), err)
	}
	st := s.State()

	if outputFormat == "yaml" {
		out, err := yaml.Marshal(newSnapshot(sess.label(), st))
		if err != nil {
			return fmt.Errorf("failed to encode state: %w", err)
		}
		p.Println(strings.TrimRight(string(out), "\n"))
		return nil
	}

	printState(p, sess.label(), st)
	return nil
}

// snapshot is the YAML form of the session state.
type snapshot struct {
	Server         string          `yaml:"server"`
	NumLights      int             `yaml:"num_lights"`
	SelectedConfig string          `yaml:"selected_config,omitempty"`
	Configs        []api.Config    `yaml:"configs"`
	Playlists      api.Playlists   `yaml:"playlists"`
	Transforms     []params.Entity `yaml:"transforms"`
	Variables      []params.Entity `yaml:"variables"`
}

func newSnapshot(server string, st store.State) snapshot {
	return snapshot{
		Server:         server,
		NumLights:      st.NumLights,
		SelectedConfig: st.SelectedConfig,
		Configs:        st.Configs,
		Playlists:      st.Playlists,
		Transforms:     st.Transforms,
		Variables:      st.Variables,
	}
}

func printState(p *ui.Printer, server string, st store.State) {
	p.PrintHeader("pilight backend", server, map[string]string{
		"Lights":   strconv.Itoa(st.NumLights),
		"Config":   orNone(st.SelectedConfig),
		"Playlist": orNone(playlistName(st.Playlists)),
	})
	p.Newline()

	configRows := make([][]string, len(st.Configs))
	configMarked := map[int]bool{}
	for i, c := range st.Configs {
		configRows[i] = []string{strconv.Itoa(c.ID), c.Name}
		configMarked[i] = c.Name == st.SelectedConfig
	}
	p.Println(ui.HeaderTitleStyle.Render("Configs"))
	p.PrintTable([]string{"ID", "NAME"}, configRows, configMarked)
	p.Newline()

	p.Println(ui.HeaderTitleStyle.Render("Transforms"))
	p.PrintTable([]string{"ID", "NAME", "PARAMS"}, entityRows(st.Transforms, st.Defs), nil)
	p.Newline()

	p.Println(ui.HeaderTitleStyle.Render("Variables"))
	p.PrintTable([]string{"ID", "NAME", "PARAMS"}, entityRows(st.Variables, st.Defs), nil)
}

func entityRows(list []params.Entity, defs params.Defs) [][]string {
	rows := make([][]string, len(list))
	for i, e := range list {
		name := e.Name
		if e.LongName != "" {
			name = e.LongName
		}
		rows[i] = []string{strconv.Itoa(e.ID), name, paramSummary(e, defs)}
	}
	return rows
}

// paramSummary renders an entity's params as name=value pairs sorted by
// name. Bound params show their binding instead of the literal.
func paramSummary(e params.Entity, defs params.Defs) string {
	names := make([]string, 0, len(e.Params))
	for name := range e.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		if b, ok := e.VariableParams[name]; ok && b.HasVariable() {
			parts[i] = name + "=(" + b.String() + ")"
			continue
		}
		var t params.ParamType
		if def, ok := defs.Lookup(name); ok {
			t = def.Type
		}
		parts[i] = name + "=" + params.FormatValue(t, e.Params[name])
	}
	return strings.Join(parts, " ")
}

func playlistName(p api.Playlists) string {
	if p.CurrentID == nil {
		return ""
	}
	for _, item := range p.Items {
		if item.ID == *p.CurrentID {
			return item.Name
		}
	}
	return fmt.Sprintf("#%d", *p.CurrentID)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// loginCmd checks credentials against the backend
var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Check a backend login and remember the username",
	Long: `Log in to the backend and verify the session works.

The password is read from PILIGHT_PASSWORD, a terminal prompt, or the
first line of standard input. Passwords are never stored. With --save the
username is kept in the registry and later commands log in as that user,
asking for the password each time.`,
	Example: `  # Interactive prompt
  pilightctl login admin --save

  # Scripted
  PILIGHT_PASSWORD=secret pilightctl login admin`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&loginSave, "save", false, "Remember the username for this server")
}

func runLogin(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	username = args[0]

	sess, err := openSession(registry, serverArg)
	if err != nil {
		return err
	}
	if err := sess.connect(cmd.Context(), registry); err != nil {
		return fail(p, "Login failed", err)
	}

	details := map[string]string{"Server": sess.label(), "User": username}
	if loginSave {
		if sess.name == "" {
			return fmt.Errorf("cannot save a username for an unregistered URL; use 'pilightctl server add' first")
		}
		registry.EnsureServer(sess.name).Username = username
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save registry: %w", err)
		}
		details["Saved"] = "yes"
	}
	p.PrintSuccess("Logged in", details)
	return nil
}
