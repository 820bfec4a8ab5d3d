// Package config provides user configuration management for pilightctl.
//
// This package manages a YAML-based configuration file that stores the known
// pilight backends (by short name) and application preferences.
//
// # Configuration File Location
//
// config.yaml under pilightctl/ in os.UserConfigDir, or the file named by
// $PILIGHTCTL_CONFIG:
//
//   - Linux: $XDG_CONFIG_HOME/pilightctl/config.yaml or $HOME/.config/pilightctl/config.yaml
//   - macOS: $HOME/Library/Application Support/pilightctl/config.yaml
//   - Windows: %AppData%\pilightctl\config.yaml
//
// # Security
//
// Passwords are never written to the file. Only the login name is kept.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//
//	registry.AddServer("living-room", "http://pilight.local:8000", "admin")
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//
//	name, url, ok := registry.Resolve("") // the default server
//
// Saves replace the file with a single rename, so a crash mid-write leaves
// the previous registry intact.
package config
