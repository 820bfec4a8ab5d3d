package discovery

import (
	"fmt"
	"strings"
	"time"
)

// Backend represents a discovered pilight backend on the network
type Backend struct {
	// Instance is the advertised service instance name (e.g., "pilight living room")
	Instance string

	// Hostname is the mDNS hostname (e.g., "raspberrypi.local.")
	Hostname string

	// IP is the address, IPv6 addresses in brackets
	IP string

	// Port is the HTTP port
	Port int

	// Path is the URL prefix from the "path" TXT record, if any
	Path string

	// Metadata contains the mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the backend was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the backend
func (b *Backend) String() string {
	return fmt.Sprintf("%s (%s) at %s", b.Instance, b.Hostname, b.URL())
}

// URL returns the HTTP base URL for the backend
func (b *Backend) URL() string {
	path := strings.TrimRight(b.Path, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("http://%s:%d%s", b.IP, b.Port, path)
}

// Name returns a registry-friendly short name derived from the instance.
func (b *Backend) Name() string {
	name := strings.ToLower(strings.TrimSpace(b.Instance))
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		return strings.TrimSuffix(strings.TrimSuffix(b.Hostname, "."), ".local")
	}
	return name
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Backend) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
