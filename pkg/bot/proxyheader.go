package bot

import (
	"encoding/binary"
	"fmt"
	"net"
	"net/netip"

	"github.com/pires/go-proxyproto"
)

// sourceAddr returns the id-th host address of prefix, wrapping
// around when the prefix has fewer hosts than bots.
func sourceAddr(prefix netip.Prefix, id int) netip.Addr {
	prefix = prefix.Masked()
	base := prefix.Addr()
	b := base.As16()
	hostBits := base.BitLen() - prefix.Bits()

	offset := uint64(id) + 1 // skip the network address
	if hostBits < 64 {
		offset &= 1<<hostBits - 1
	}
	lo := binary.BigEndian.Uint64(b[8:])
	sum := lo + offset
	binary.BigEndian.PutUint64(b[8:], sum)
	if sum < lo { // carry
		hi := binary.BigEndian.Uint64(b[:8])
		binary.BigEndian.PutUint64(b[:8], hi+1)
	}
	addr := netip.AddrFrom16(b)
	if base.Is4() {
		addr = addr.Unmap()
	}
	return addr
}

// writeProxyHeader writes a PROXY protocol v2 header announcing src as client address.
func writeProxyHeader(conn net.Conn, src netip.Addr) error {
	dst, ok := conn.RemoteAddr().(*net.TCPAddr)
	if !ok {
		return fmt.Errorf("PROXY protocol needs a TCP connection, got %s", conn.RemoteAddr().Network())
	}
	if (dst.IP.To4() != nil) != src.Is4() {
		return fmt.Errorf("source %s and target %s are of different address families", src, dst)
	}
	srcAddr := net.TCPAddrFromAddrPort(netip.AddrPortFrom(src, 0))
	header := proxyproto.HeaderProxyFromAddrs(2, srcAddr, dst)
	if _, err := header.WriteTo(conn); err != nil {
		return fmt.Errorf("error writing PROXY protocol header: %w", err)
	}
	return nil
}
