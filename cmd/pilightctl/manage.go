package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/config"
	"github.com/muurk/pilightctl/internal/store"
	"github.com/muurk/pilightctl/internal/ui"
)

// Management command flags
var (
	forceDelete    bool
	driverPlaylist string
	serverDefault  bool
)

func init() {
	configCmd.AddCommand(configListCmd, configSaveCmd, configLoadCmd, configDeleteCmd)
	driverCmd.AddCommand(driverStartCmd, driverStopCmd, driverRestartCmd)
	serverCmd.AddCommand(serverAddCmd, serverListCmd, serverRemoveCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(driverCmd)
	rootCmd.AddCommand(serverCmd)

	configDeleteCmd.Flags().BoolVarP(&forceDelete, "force", "y", false, "Delete without confirmation")
	driverStartCmd.Flags().StringVarP(&driverPlaylist, "playlist", "p", "", "Playlist name or id to run")
	serverAddCmd.Flags().BoolVar(&serverDefault, "default", false, "Make this the default server")
}

// configCmd groups saved config commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage saved configs",
	Long: `List, save, load and delete the backend's saved configs.

A config is a named snapshot of the lights and the transform chain.`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved configs",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current setup as a config",
	Example: `  pilightctl config save evening
  pilightctl config save "movie night" --server living-room`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSave,
}

var configLoadCmd = &cobra.Command{
	Use:   "load <name|id>",
	Short: "Make a saved config current",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigLoad,
}

var configDeleteCmd = &cobra.Command{
	Use:   "delete <name|id>",
	Short: "Delete a saved config",
	Example: `  # Asks for confirmation
  pilightctl config delete party

  # Scripted
  pilightctl config delete 7 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigDelete,
}

// runStoreCommand bootstraps a session, runs msgs through its store and
// reports the outcome. It returns the final store for callers that print
// more.
func runStoreCommand(cmd *cobra.Command, title string, build func(st store.State) ([]tea.Msg, error)) (*session, store.Store, error) {
	p := ui.NewPrinter(cmd.OutOrStdout())
	sess, err := openSession(registry, serverArg)
	if err != nil {
		return nil, store.Store{}, err
	}

	s, err := sess.bootstrap(cmd.Context(), registry)
	if err != nil {
		return sess, s, fail(p, "Cannot load "+sess.label(), err)
	}

	msgs, err := build(s.State())
	if err != nil {
		return sess, s, err
	}
	if s, err = run(s, msgs...); err != nil {
		return sess, s, fail(p, title+" failed", err)
	}
	return sess, s, nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	sess, s, err := runStoreCommand(cmd, "List configs", noMessages)
	if err != nil {
		return err
	}
	st := s.State()
	p := ui.NewPrinter(cmd.OutOrStdout())

	if len(st.Configs) == 0 {
		p.Println(fmt.Sprintf("No saved configs on %s.", sess.label()))
		return nil
	}

	rows := make([][]string, len(st.Configs))
	marked := map[int]bool{}
	for i, c := range st.Configs {
		rows[i] = []string{strconv.Itoa(c.ID), c.Name}
		marked[i] = c.Name == lastConfig(registry, sess)
	}
	p.PrintTable([]string{"ID", "NAME"}, rows, marked)
	return nil
}

func runConfigSave(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("config name cannot be empty")
	}

	sess, s, err := runStoreCommand(cmd, "Save config", func(store.State) ([]tea.Msg, error) {
		return []tea.Msg{store.SaveConfig{Name: name}}, nil
	})
	if err != nil {
		return err
	}

	rememberConfig(sess, name)
	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Config saved", map[string]string{
		"Server":  sess.label(),
		"Name":    name,
		"Configs": strconv.Itoa(len(s.State().Configs)),
	})
	return nil
}

func runConfigLoad(cmd *cobra.Command, args []string) error {
	var target api.Config
	sess, s, err := runStoreCommand(cmd, "Load config", func(st store.State) ([]tea.Msg, error) {
		c, err := findConfig(st.Configs, args[0])
		if err != nil {
			return nil, err
		}
		target = c
		return []tea.Msg{store.LoadConfig{ID: c.ID}}, nil
	})
	if err != nil {
		return err
	}

	rememberConfig(sess, target.Name)
	st := s.State()
	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Config loaded", map[string]string{
		"Server":     sess.label(),
		"Name":       target.Name,
		"Transforms": strconv.Itoa(len(st.Transforms)),
		"Variables":  strconv.Itoa(len(st.Variables)),
	})
	return nil
}

func runConfigDelete(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	var target api.Config
	cancelled := false
	sess, _, err := runStoreCommand(cmd, "Delete config", func(st store.State) ([]tea.Msg, error) {
		c, err := findConfig(st.Configs, args[0])
		if err != nil {
			return nil, err
		}
		target = c

		if !forceDelete {
			warnings := []string{
				fmt.Sprintf("Config %q (id %d) will be removed from the backend", c.Name, c.ID),
				"This cannot be undone",
			}
			if !p.Confirm(os.Stdin, "Delete config", warnings, c.Name) {
				cancelled = true
				return nil, nil
			}
		}
		return []tea.Msg{store.DeleteConfig{ID: c.ID}}, nil
	})
	if err != nil || cancelled {
		return err
	}

	if lastConfig(registry, sess) == target.Name {
		rememberConfig(sess, "")
	}
	p.PrintSuccess("Config deleted", map[string]string{
		"Server": sess.label(),
		"Name":   target.Name,
	})
	return nil
}

// findConfig matches arg against config names first, then ids.
func findConfig(configs []api.Config, arg string) (api.Config, error) {
	for _, c := range configs {
		if c.Name == arg {
			return c, nil
		}
	}
	if id, err := strconv.Atoi(arg); err == nil {
		if name, ok := api.FindConfig(configs, id); ok {
			return api.Config{ID: id, Name: name}, nil
		}
	}
	return api.Config{}, fmt.Errorf("no config named %q", arg)
}

// findPlaylist matches arg against playlist names first, then ids.
func findPlaylist(playlists api.Playlists, arg string) (int, error) {
	for _, item := range playlists.Items {
		if item.Name == arg {
			return item.ID, nil
		}
	}
	if id, err := strconv.Atoi(arg); err == nil {
		for _, item := range playlists.Items {
			if item.ID == id {
				return id, nil
			}
		}
	}
	return 0, fmt.Errorf("no playlist named %q", arg)
}

func noMessages(store.State) ([]tea.Msg, error) { return nil, nil }

func lastConfig(reg *config.Registry, sess *session) string {
	if srv := reg.GetServer(sess.name); srv != nil {
		return srv.LastConfig
	}
	return ""
}

func rememberConfig(sess *session, name string) {
	if sess.name == "" {
		return
	}
	registry.SetLastConfig(sess.name, name)
	if err := registry.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save registry: %v\n", err)
	}
}

// driverCmd groups light driver commands
var driverCmd = &cobra.Command{
	Use:   "driver",
	Short: "Control the light driver",
	Long: `Start, stop or restart the process that drives the lights.

Restart after editing transforms so the driver picks up the new chain.`,
}

var driverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the driver",
	Example: `  # Run the backend's current playlist, if any
  pilightctl driver start

  # Cycle through a playlist
  pilightctl driver start --playlist "all night"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDriver(cmd, "Start driver", func(st store.State) ([]tea.Msg, error) {
			if driverPlaylist == "" {
				return []tea.Msg{store.StartDriver{}}, nil
			}
			id, err := findPlaylist(st.Playlists, driverPlaylist)
			if err != nil {
				return nil, err
			}
			return []tea.Msg{store.SelectPlaylist{ID: &id}, store.StartDriver{}}, nil
		})
	},
}

var driverStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the driver",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDriver(cmd, "Stop driver", func(store.State) ([]tea.Msg, error) {
			return []tea.Msg{store.StopDriver{}}, nil
		})
	},
}

var driverRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the driver",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDriver(cmd, "Restart driver", func(store.State) ([]tea.Msg, error) {
			return []tea.Msg{store.RestartDriver{}}, nil
		})
	},
}

func runDriver(cmd *cobra.Command, title string, build func(st store.State) ([]tea.Msg, error)) error {
	sess, s, err := runStoreCommand(cmd, title, build)
	if err != nil {
		return err
	}
	details := map[string]string{"Server": sess.label()}
	if name := playlistName(s.State().Playlists); name != "" && title == "Start driver" {
		details["Playlist"] = name
	}
	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess(title, details)
	return nil
}

// serverCmd groups registry commands
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage known backends",
	Long: `Add, list and remove the backends kept in the registry file.

Registered backends can be passed to --server by name. The first backend
added becomes the default.`,
	// Registry only, no backend contact
}

var serverAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Register a backend",
	Example: `  pilightctl server add living-room http://192.168.1.20:8000
  pilightctl server add garage http://garage.local:8000 --user admin --default`,
	Args: cobra.ExactArgs(2),
	RunE: runServerAdd,
}

var serverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered backends",
	Args:  cobra.NoArgs,
	RunE:  runServerList,
}

var serverRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Forget a backend",
	Args:  cobra.ExactArgs(1),
	RunE:  runServerRemove,
}

func runServerAdd(cmd *cobra.Command, args []string) error {
	name, url := args[0], args[1]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("invalid url %q: must start with http:// or https://", url)
	}

	srv := registry.AddServer(name, url, username)
	srv.Source = config.SourceManual
	if serverDefault {
		registry.Preferences.DefaultServer = name
	}
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Server added", map[string]string{
		"Name":    name,
		"URL":     srv.URL,
		"Default": registry.Preferences.DefaultServer,
	})
	return nil
}

func runServerList(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	names := registry.ServerNames()
	if len(names) == 0 {
		p.Println("No servers registered. Use 'pilightctl scan --add' or 'pilightctl server add'.")
		return nil
	}

	headers, rows, marked := serverTable(registry)
	p.PrintTable(headers, rows, marked)
	return nil
}

// serverTable lays the registry out for printing. The default server is
// marked.
func serverTable(reg *config.Registry) ([]string, [][]string, map[int]bool) {
	headers := []string{"NAME", "URL", "USER", "LAST CONFIG", "LAST SEEN", "SOURCE"}
	names := reg.ServerNames()
	rows := make([][]string, len(names))
	marked := map[int]bool{}
	for i, name := range names {
		srv := reg.GetServer(name)
		seen := "never"
		if !srv.LastSeen.IsZero() {
			seen = srv.LastSeen.Format(time.DateTime)
		}
		rows[i] = []string{name, srv.URL, srv.Username, srv.LastConfig, seen, srv.Source}
		marked[i] = name == reg.Preferences.DefaultServer
	}
	return headers, rows, marked
}

func runServerRemove(cmd *cobra.Command, args []string) error {
	if !registry.RemoveServer(args[0]) {
		return fmt.Errorf("no server named %q", args[0])
	}
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}
	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Server removed", map[string]string{"Name": args[0]})
	return nil
}
