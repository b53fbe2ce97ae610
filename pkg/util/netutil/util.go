package netutil

import (
	"errors"
	"net"
	"strconv"
)

// HostPort returns the split host and port of a net.Addr.
func HostPort(addr net.Addr) (host string, port uint16) {
	host, port, _ = splitHostPort(addr.String())
	return
}

// NewAddr creates a new net.Addr without format validation.
func NewAddr(addr, network string) net.Addr {
	return &address{addr: addr, network: network}
}

func splitHostPort(addr string) (host string, port uint16, err error) {
	portInt := 0
	portStr := ""
	host, portStr, err = net.SplitHostPort(addr)
	if err == nil {
		portInt, err = strconv.Atoi(portStr)
		if err == nil && (portInt < 0 || portInt > 0xFFFF) {
			err = &net.AddrError{Err: "invalid port", Addr: addr}
		}
	} else if isMissingPortErr(err) {
		host = addr
		err = nil
	}
	return host, uint16(portInt), err
}

type address struct{ network, addr string }

func (c *address) Network() string { return c.network }
func (c *address) String() string  { return c.addr }

var _ net.Addr = (*address)(nil)

func isMissingPortErr(err error) bool {
	var addrErr *net.AddrError
	return err != nil && errors.As(err, &addrErr) && addrErr.Err == "missing port in address"
}
