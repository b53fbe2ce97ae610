package bot

import (
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/codec"
	"go.minekube.com/stampede/pkg/proto/packet"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
)

// fakeServer is a minimal server walking bots through login,
// configuration and their first teleport.
type fakeServer struct {
	t  *testing.T
	ln net.Listener

	// kick returns a login disconnect reason for a bot or "".
	kick func(name string) string
	// silent servers accept connections but never answer.
	silent bool
	// compression threshold announced in login, -1 disables.
	compression int

	mu        sync.Mutex
	logins    []string
	confirmed map[string]int // teleport confirms per bot
	moves     map[string]int // position updates per bot
	wg        sync.WaitGroup
}

func newFakeServer(t *testing.T) *fakeServer {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeServer{
		t:           t,
		ln:          ln,
		compression: -1,
		confirmed:   map[string]int{},
		moves:       map[string]int{},
	}
	t.Cleanup(s.close)
	return s
}

func (s *fakeServer) addr() string { return s.ln.Addr().String() }

func (s *fakeServer) start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.ln.Accept()
			if err != nil {
				return
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer conn.Close()
				if err := s.serve(conn); err != nil && !errors.Is(err, net.ErrClosed) {
					s.t.Logf("fake server: %v", err)
				}
			}()
		}
	}()
}

func (s *fakeServer) close() {
	_ = s.ln.Close()
	s.wg.Wait()
}

func (s *fakeServer) snapshot() (logins []string, confirmed, moves map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	confirmed = make(map[string]int, len(s.confirmed))
	for k, v := range s.confirmed {
		confirmed[k] = v
	}
	moves = make(map[string]int, len(s.moves))
	for k, v := range s.moves {
		moves[k] = v
	}
	return append([]string(nil), s.logins...), confirmed, moves
}

type serverConn struct {
	conn       net.Conn
	state      proto.State
	compressor *codec.Compressor
}

func (c *serverConn) send(p packet.Packet) error {
	body := util.NewBuf(0)
	ctx := &proto.PacketContext{Direction: proto.ClientBound, Protocol: proto.DefaultVersion.Protocol, State: c.state}
	if err := packet.Encode(ctx, body, p); err != nil {
		return err
	}
	payload := body.Bytes()
	if c.compressor != nil {
		out := util.NewBuf(0)
		if err := c.compressor.Compress(out, payload); err != nil {
			return err
		}
		payload = out.Bytes()
	}
	frame := util.NewBuf(0)
	if err := codec.WriteFrame(frame, payload); err != nil {
		return err
	}
	_, err := frame.WriteTo(c.conn)
	return err
}

func (s *fakeServer) serve(conn net.Conn) error {
	c := &serverConn{conn: conn, state: proto.HandshakeState}
	frames := codec.NewFrameReader(1024)
	buf := make([]byte, 4096)
	var name string
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return nil // bot left
		}
		if s.silent {
			continue
		}
		frames.Feed(buf[:n])
		for {
			frame, ok, err := frames.Next()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			if c.compressor != nil {
				if frame, err = c.compressor.Decompress(frame); err != nil {
					return err
				}
			}
			rd := util.BufOf(frame)
			id := proto.PacketID(rd.VarIntVal())
			kind := state.FromDirection(proto.ServerBound, state.ByState(c.state), proto.DefaultVersion.Protocol).Kind(id)
			ctx := &proto.PacketContext{Direction: proto.ServerBound, Protocol: proto.DefaultVersion.Protocol, State: c.state}

			switch kind {
			case state.Handshake:
				var hs packet.Handshake
				if err := packet.Decode(ctx, rd, &hs); err != nil {
					return err
				}
				c.state = proto.LoginState
				if hs.NextState == packet.NextStatus {
					c.state = proto.StatusState
				}
			case state.StatusRequest:
				if err := c.send(&packet.StatusResponse{Status: `{"version":{"name":"fake","protocol":767}}`}); err != nil {
					return err
				}
			case state.StatusPing:
				var ping packet.StatusPing
				if err := packet.Decode(ctx, rd, &ping); err != nil {
					return err
				}
				if err := c.send(&ping); err != nil {
					return err
				}
			case state.ServerLogin:
				var login packet.ServerLogin
				if err := packet.Decode(ctx, rd, &login); err != nil {
					return err
				}
				name = login.Username
				s.mu.Lock()
				s.logins = append(s.logins, name)
				s.mu.Unlock()
				if s.kick != nil {
					if reason := s.kick(name); reason != "" {
						return c.send(&packet.Disconnect{Reason: reason})
					}
				}
				if s.compression >= 0 {
					if err := c.send(&packet.SetCompression{Threshold: s.compression}); err != nil {
						return err
					}
					if c.compressor, err = codec.NewCompressor(s.compression, codec.DefaultLevel); err != nil {
						return err
					}
				}
				if err := c.send(&packet.ServerLoginSuccess{UUID: login.PlayerID, Username: name}); err != nil {
					return err
				}
			case state.LoginAcknowledged:
				c.state = proto.ConfigState
				if err := c.send(&packet.KeepAlive{RandomID: 5}); err != nil {
					return err
				}
				if err := c.send(&packet.FinishedUpdate{}); err != nil {
					return err
				}
			case state.FinishedUpdate:
				c.state = proto.PlayState
				if err := c.send(&packet.JoinGame{EntityID: 42}); err != nil {
					return err
				}
				if err := c.send(&packet.PositionSync{X: 0.5, Y: 64, Z: 0.5, TeleportID: 1}); err != nil {
					return err
				}
			case state.TeleportConfirm:
				s.mu.Lock()
				s.confirmed[name]++
				s.mu.Unlock()
			case state.PlayerPosition:
				s.mu.Lock()
				s.moves[name]++
				s.mu.Unlock()
			}
		}
	}
}
