package netutil

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultPort is the port of a Minecraft server if none is given.
const DefaultPort = 25565

// UnixPrefix marks a target as Unix domain socket path.
const UnixPrefix = "unix://"

// Target is the server address bots connect to.
type Target struct {
	Network string // "tcp" or "unix"
	Address string // The address to dial.
	// Host and Port are announced in the handshake.
	Host string
	Port uint16
}

// String returns the target as it was configured.
func (t *Target) String() string {
	if t.Network == "unix" {
		return UnixPrefix + t.Address
	}
	return t.Address
}

// Addr returns the dial address as net.Addr.
func (t *Target) Addr() net.Addr { return NewAddr(t.Address, t.Network) }

// ParseTarget parses "host[:port]" or "unix:///path/to/socket".
// A missing port defaults to DefaultPort.
func ParseTarget(s string) (*Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty target address")
	}
	if path, ok := strings.CutPrefix(s, UnixPrefix); ok {
		if path == "" {
			return nil, fmt.Errorf("missing socket path in %q", s)
		}
		return &Target{
			Network: "unix",
			Address: path,
			Host:    "localhost",
			Port:    DefaultPort,
		}, nil
	}
	host, port, err := splitHostPort(s)
	if err != nil {
		return nil, fmt.Errorf("invalid target address %q: %w", s, err)
	}
	if host == "" {
		return nil, fmt.Errorf("missing host in target address %q", s)
	}
	if port == 0 {
		port = DefaultPort
	}
	return &Target{
		Network: "tcp",
		Address: net.JoinHostPort(host, strconv.Itoa(int(port))),
		Host:    host,
		Port:    port,
	}, nil
}
