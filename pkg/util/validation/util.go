package validation

import "net"

// ValidHostPort reports whether hostAndPort splits into a host and a port.
func ValidHostPort(hostAndPort string) error {
	_, _, err := net.SplitHostPort(hostAndPort)
	return err
}
