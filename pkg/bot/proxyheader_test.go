package bot

import (
	"bufio"
	"net"
	"net/netip"
	"testing"

	"github.com/pires/go-proxyproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceAddr(t *testing.T) {
	tests := []struct {
		prefix string
		id     int
		want   string
	}{
		{"10.0.0.0/8", 0, "10.0.0.1"},
		{"10.0.0.0/8", 254, "10.0.0.255"},
		{"10.0.0.0/8", 255, "10.0.1.0"},
		{"10.1.2.3/8", 0, "10.0.0.1"},
		{"192.168.1.0/30", 2, "192.168.1.3"},
		{"192.168.1.0/30", 3, "192.168.1.0"},
		{"2001:db8::/64", 0, "2001:db8::1"},
		{"2001:db8::/64", 0xFFFF, "2001:db8::1:0"},
	}
	for _, tt := range tests {
		got := sourceAddr(netip.MustParsePrefix(tt.prefix), tt.id)
		assert.Equal(t, tt.want, got.String(), "%s #%d", tt.prefix, tt.id)
	}
}

func TestWriteProxyHeader(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	type result struct {
		header *proxyproto.Header
		err    error
	}
	got := make(chan result, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			got <- result{err: err}
			return
		}
		defer conn.Close()
		h, err := proxyproto.Read(bufio.NewReader(conn))
		got <- result{h, err}
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, writeProxyHeader(conn, netip.MustParseAddr("10.0.0.7")))

	res := <-got
	require.NoError(t, res.err)
	src, ok := res.header.SourceAddr.(*net.TCPAddr)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.7", src.IP.String())
	assert.Equal(t, ln.Addr().String(), res.header.DestinationAddr.String())

	assert.Error(t, writeProxyHeader(conn, netip.MustParseAddr("2001:db8::1")), "mixed families")
}
