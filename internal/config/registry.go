package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ConfigEnvVar names a registry file to use instead of the default one.
const ConfigEnvVar = "PILIGHTCTL_CONFIG"

const (
	appDir   = "pilightctl"
	fileName = "config.yaml"
)

const fileHeader = `# pilightctl registry: known pilight backends and preferences.
# Passwords are never stored here; 'pilightctl login' asks for them and the
# session ends with the process.
# Location: %s

`

// saveMu serializes writers within the process.
var saveMu sync.Mutex

// ConfigPath returns the registry file path: $PILIGHTCTL_CONFIG when set,
// else config.yaml under the user config dir ($XDG_CONFIG_HOME or ~/.config
// on Linux, ~/Library/Application Support on macOS, %AppData% on Windows).
func ConfigPath() (string, error) {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("no user config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// LoadRegistry reads the registry from ConfigPath.
func LoadRegistry() (*Registry, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadRegistryFrom(path)
}

// LoadRegistryFrom reads the registry at path. A missing file is an empty
// registry, not an error.
func LoadRegistryFrom(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NewRegistry(), nil
	case err != nil:
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	reg := &Registry{}
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	if reg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", reg.Version, CurrentVersion)
	}
	reg.fillDefaults()
	return reg, nil
}

func (r *Registry) fillDefaults() {
	if r.Servers == nil {
		r.Servers = map[string]*Server{}
	}
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
}

// Save writes the registry to ConfigPath.
func (r *Registry) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return r.SaveTo(path)
}

// SaveTo writes the registry to path, replacing any existing file with a
// single rename.
func (r *Registry) SaveTo(path string) error {
	body, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	data := append([]byte(fmt.Sprintf(fileHeader, path)), body...)

	saveMu.Lock()
	defer saveMu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return replaceFile(path, data)
}

// replaceFile writes data to a temp file beside path and renames it over
// path. CreateTemp makes the file 0600.
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+fileName+"-*")
	if err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after the rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
