package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/pilightctl/internal/logging"
)

const (
	// ServiceType is the mDNS service type pilight web servers advertise
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the Django development server port pilight ships with
	DefaultPort = 8000

	// appKey and appValue mark a pilight backend in the TXT records
	appKey   = "app"
	appValue = "pilight"
)

// Scanner handles mDNS backend discovery
type Scanner struct {
	// Timeout is the maximum time to wait for discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers pilight backends on the local network until the timeout
// expires or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context) ([]*Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu       sync.Mutex
		backends = make([]*Backend, 0)
		seen     = make(map[string]bool)
	)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			backend := parseServiceEntry(entry)
			if backend == nil {
				continue
			}
			mu.Lock()
			if !seen[backend.URL()] {
				seen[backend.URL()] = true
				backends = append(backends, backend)
				logging.Debug("Discovered pilight backend",
					zap.String("instance", backend.Instance),
					zap.String("url", backend.URL()),
				)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	out := make([]*Backend, len(backends))
	copy(out, backends)
	return out, nil
}

// isPilight reports whether an advertised HTTP service is a pilight backend:
// either its TXT records say app=pilight or its instance name mentions it.
func isPilight(entry *zeroconf.ServiceEntry, metadata map[string]string) bool {
	if strings.EqualFold(metadata[appKey], appValue) {
		return true
	}
	return strings.Contains(strings.ToLower(entry.Instance), appValue)
}

// parseServiceEntry converts a zeroconf service entry to a Backend.
// Returns nil if the entry is not a pilight backend or has no address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Backend {
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	if !isPilight(entry, metadata) {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = "[" + entry.AddrIPv6[0].String() + "]"
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Backend{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Path:         metadata["path"],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Scan is a convenience function to scan with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Backend, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}
