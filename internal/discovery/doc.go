// Package discovery finds pilight backends on the local network with mDNS.
//
// pilight's web server advertises itself as an "_http._tcp" service. Many
// other devices do too, so an entry counts as a pilight backend only when
// its TXT records contain app=pilight or its instance name contains
// "pilight".
//
// # Usage Example
//
//	backends, err := discovery.Scan(ctx, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, b := range backends {
//	    fmt.Printf("%s -> %s\n", b.Name(), b.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Backends must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
