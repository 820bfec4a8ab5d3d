package config

import (
	"sort"
	"strings"
	"time"
)

// CurrentVersion is the registry file format version.
const CurrentVersion = 1

// Registry represents the entire user configuration file: the known pilight
// backends and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Servers     map[string]*Server `yaml:"servers,omitempty"` // Keyed by short server name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Server represents one pilight backend the user talks to.
type Server struct {
	URL        string    `yaml:"url"`                   // Backend root, e.g. http://pilight.local:8000
	Username   string    `yaml:"username,omitempty"`    // Login name; passwords are never stored
	LastConfig string    `yaml:"last_config,omitempty"` // Name of the last config saved or loaded
	LastSeen   time.Time `yaml:"last_seen,omitempty"`   // Last successful bootstrap or discovery
	Source     string    `yaml:"source,omitempty"`      // "manual" or "mdns"
}

// Server sources
const (
	SourceManual = "manual"
	SourceMDNS   = "mdns"
)

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultServer   string `yaml:"default_server,omitempty"` // Server name used when --server is absent
	DiscoverTimeout int    `yaml:"discover_timeout"`         // mDNS discovery timeout in seconds
	RequestTimeout  int    `yaml:"request_timeout"`          // Per-request HTTP timeout in seconds
	LogFile         string `yaml:"log_file,omitempty"`       // TUI log destination when logging is enabled
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DiscoverTimeout: 5,
		RequestTimeout:  10,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Servers:     make(map[string]*Server),
		Preferences: defaultPreferences(),
	}
}

// DiscoverTimeoutDuration returns the discovery timeout as a duration.
func (p *Preferences) DiscoverTimeoutDuration() time.Duration {
	if p == nil || p.DiscoverTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.DiscoverTimeout) * time.Second
}

// RequestTimeoutDuration returns the HTTP timeout as a duration.
func (p *Preferences) RequestTimeoutDuration() time.Duration {
	if p == nil || p.RequestTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.RequestTimeout) * time.Second
}

// GetServer retrieves a server by name.
// Returns nil if the server doesn't exist in the registry.
func (r *Registry) GetServer(name string) *Server {
	return r.Servers[name]
}

// EnsureServer ensures a server entry exists in the registry and returns it.
func (r *Registry) EnsureServer(name string) *Server {
	if r.Servers == nil {
		r.Servers = make(map[string]*Server)
	}

	if server, exists := r.Servers[name]; exists {
		return server
	}

	server := &Server{Source: SourceManual}
	r.Servers[name] = server
	return server
}

// AddServer adds or updates a server. The first server added becomes the
// default.
func (r *Registry) AddServer(name, url, username string) *Server {
	server := r.EnsureServer(name)
	server.URL = strings.TrimRight(url, "/")
	if username != "" {
		server.Username = username
	}
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	if r.Preferences.DefaultServer == "" {
		r.Preferences.DefaultServer = name
	}
	return server
}

// RemoveServer deletes a server. It reports whether the server existed.
// Removing the default server clears the default.
func (r *Registry) RemoveServer(name string) bool {
	if _, ok := r.Servers[name]; !ok {
		return false
	}
	delete(r.Servers, name)
	if r.Preferences != nil && r.Preferences.DefaultServer == name {
		r.Preferences.DefaultServer = ""
	}
	return true
}

// ServerNames returns the server names in sorted order.
func (r *Registry) ServerNames() []string {
	names := make([]string, 0, len(r.Servers))
	for name := range r.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a --server argument into a backend URL. The argument may be
// a registered server name, a URL, or empty for the default server.
func (r *Registry) Resolve(arg string) (name, url string, ok bool) {
	if arg == "" && r.Preferences != nil {
		arg = r.Preferences.DefaultServer
	}
	if arg == "" {
		return "", "", false
	}
	if server, exists := r.Servers[arg]; exists && server.URL != "" {
		return arg, server.URL, true
	}
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return "", strings.TrimRight(arg, "/"), true
	}
	return "", "", false
}

// MarkSeen updates the last seen timestamp of a server.
func (r *Registry) MarkSeen(name string) {
	if server := r.GetServer(name); server != nil {
		server.LastSeen = time.Now()
	}
}

// SetLastConfig records the config last saved or loaded on a server.
func (r *Registry) SetLastConfig(name, config string) {
	if server := r.GetServer(name); server != nil {
		server.LastConfig = config
	}
}
