package bot

import (
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/require"

	"go.minekube.com/stampede/pkg/config"
	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/codec"
	"go.minekube.com/stampede/pkg/proto/packet"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
)

func testConfig(mutate ...func(c *config.Config)) *config.Config {
	cfg := config.DefaultConfig
	cfg.Behavior.ChatMessages = append([]string(nil), cfg.Behavior.ChatMessages...)
	for _, fn := range mutate {
		fn(&cfg)
	}
	return &cfg
}

func newTestSwarm(t *testing.T, opts Options) *Swarm {
	t.Helper()
	if opts.Config == nil {
		opts.Config = testConfig()
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = testr.New(t)
	}
	sw, err := New(opts)
	require.NoError(t, err)
	return sw
}

// newTestSession returns an unconnected session in the given state.
func newTestSession(t *testing.T, st proto.State) *Session {
	t.Helper()
	sw := newTestSwarm(t, Options{})
	sc := sw.newScheduler(schedulerOptions{count: 1, perTick: 1})
	s := newSession(sc, 0, time.Now())
	s.State = st
	return s
}

// serverFrame encodes p as the server would send it in state st.
func serverFrame(t *testing.T, st proto.State, c *codec.Compressor, p packet.Packet) []byte {
	t.Helper()
	body := util.NewBuf(0)
	ctx := &proto.PacketContext{
		Direction: proto.ClientBound,
		Protocol:  proto.DefaultVersion.Protocol,
		State:     st,
	}
	require.NoError(t, packet.Encode(ctx, body, p))
	payload := body.Bytes()
	if c != nil {
		out := util.NewBuf(0)
		require.NoError(t, c.Compress(out, payload))
		payload = out.Bytes()
	}
	frame := util.NewBuf(0)
	require.NoError(t, codec.WriteFrame(frame, payload))
	return frame.Bytes()
}

// receive delivers p to s as if the server sent it in the session's state.
func receive(t *testing.T, s *Session, p packet.Packet) {
	t.Helper()
	s.receive(serverFrame(t, s.State, s.compressor, p))
}

// nextSent pops the oldest queued packet of s and decodes it into p.
// st is the state the packet was sent in.
func nextSent(t *testing.T, s *Session, st proto.State, p packet.Packet) {
	t.Helper()
	require.NotZero(t, s.outbound.Len(), "no packet queued")
	frame := s.outbound.PopFront()

	r := codec.NewFrameReader(frame.Readable())
	r.Feed(frame.Bytes())
	payload, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	if s.compressor != nil {
		d, err := codec.NewCompressor(0, codec.DefaultLevel)
		require.NoError(t, err)
		payload, err = d.Decompress(payload)
		require.NoError(t, err)
	}

	rd := util.BufOf(payload)
	id := proto.PacketID(rd.VarIntVal())
	reg := state.FromDirection(proto.ServerBound, state.ByState(st), proto.DefaultVersion.Protocol)
	require.NotNil(t, reg)
	require.Equal(t, p.Kind(), reg.Kind(id), "packet id %s in %s state", id, st)
	ctx := &proto.PacketContext{
		Direction: proto.ServerBound,
		Protocol:  proto.DefaultVersion.Protocol,
		State:     st,
	}
	require.NoError(t, packet.Decode(ctx, rd, p))
	require.Zero(t, rd.Readable(), "unread bytes in %s", p.Kind())
}
