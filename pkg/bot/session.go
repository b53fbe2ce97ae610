package bot

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gammazero/deque"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/codec"
	"go.minekube.com/stampede/pkg/proto/packet"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
	"go.minekube.com/stampede/pkg/util/errs"
)

const initialFrameBuffer = 4096

// ErrSessionClosed is returned when sending on a disconnected Session.
var ErrSessionClosed = errors.New("session is disconnected")

// Session is the connection of one bot.
//
// A Session is owned by the scheduler of its shard and
// must only be used from the scheduler's goroutine.
type Session struct {
	ID       int
	Name     string
	PlayerID uuid.UUID
	Shard    int

	State      proto.State
	EntityID   int32
	X, Y, Z    float64
	Joined     bool // Login start was sent.
	Teleported bool // The server positioned the bot at least once.

	playing   bool // entered the play state at least once
	sneaking  bool
	sprinting bool

	sc         *scheduler
	log        logr.Logger
	layout     *state.Layout
	conn       net.Conn
	admittedAt time.Time

	frames     *codec.FrameReader
	compressor *codec.Compressor // nil while compression is off
	outbound   deque.Deque[*util.Buf]

	disconnected bool
	reason       string
	err          error

	// server list ping mode
	status       string
	statusSentAt time.Time
}

func newSession(sc *scheduler, id int, now time.Time) *Session {
	name := fmt.Sprintf("%s%d", sc.cfg.NamePrefix, id)
	s := &Session{
		ID:         id,
		Name:       name,
		PlayerID:   uuid.New(),
		Shard:      sc.shard,
		State:      proto.HandshakeState,
		sc:         sc,
		log:        sc.log.WithValues("bot", name),
		layout:     state.LayoutOf(sc.protocol),
		admittedAt: now,
		frames:     codec.NewFrameReader(initialFrameBuffer),
	}
	return s
}

// Disconnected reports whether the session was marked disconnected.
func (s *Session) Disconnected() bool { return s.disconnected }

// Reason returns the reason the session was disconnected for.
func (s *Session) Reason() string { return s.reason }

// Err returns the error that disconnected the session, if any.
func (s *Session) Err() error { return s.err }

// Compression returns the compression threshold or -1 if compression is off.
func (s *Session) Compression() int {
	if s.compressor == nil {
		return -1
	}
	return s.compressor.Threshold()
}

// Pending returns the number of packets queued for the next flush.
func (s *Session) Pending() int { return s.outbound.Len() }

// Disconnect marks the session disconnected. The scheduler closes
// the connection and removes the session at the end of the current phase.
// Only the first reason is kept.
func (s *Session) Disconnect(reason string, err error) {
	if s.disconnected {
		return
	}
	s.disconnected = true
	s.reason = reason
	s.err = err
}

func (s *Session) packetContext(direction proto.Direction) *proto.PacketContext {
	return &proto.PacketContext{
		Direction: direction,
		Protocol:  s.sc.protocol,
		State:     s.State,
	}
}

func (s *Session) setState(to proto.State) {
	s.log.V(1).Info("state change", "from", s.State, "to", to)
	s.State = to
}

// Send encodes p in the current state and queues it for the next flush.
// Errors are local encoding errors and disconnect the session.
func (s *Session) Send(p packet.Packet) error {
	if s.disconnected {
		return ErrSessionClosed
	}
	if err := s.send(p); err != nil {
		s.Disconnect("encode "+p.Kind().String(), err)
		return err
	}
	return nil
}

func (s *Session) send(p packet.Packet) error {
	body := util.NewBuf(0)
	if err := packet.Encode(s.packetContext(proto.ServerBound), body, p); err != nil {
		return err
	}
	payload := body.Bytes()
	if s.compressor != nil {
		compressed := util.NewBuf(util.MaxVarIntLen + len(payload))
		if err := s.compressor.Compress(compressed, payload); err != nil {
			return fmt.Errorf("error compressing %s: %w", p.Kind(), err)
		}
		payload = compressed.Bytes()
	}
	frame := util.NewBuf(codec.MaxFrameHeaderLen + len(payload))
	if err := codec.WriteFrame(frame, payload); err != nil {
		return fmt.Errorf("error framing %s: %w", p.Kind(), err)
	}
	s.outbound.PushBack(frame)
	s.sc.stats.PacketsOut.Inc()
	return nil
}

// flush writes all queued packets to the connection.
func (s *Session) flush() {
	if s.conn == nil || s.outbound.Len() == 0 || s.disconnected {
		return
	}
	bufs := make(net.Buffers, 0, s.outbound.Len())
	for s.outbound.Len() != 0 {
		bufs = append(bufs, s.outbound.PopFront().Bytes())
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.sc.cfg.WriteTimeout)); err != nil {
		s.Disconnect("write failed", err)
		return
	}
	n, err := bufs.WriteTo(s.conn)
	s.sc.stats.BytesOut.Add(uint64(n))
	if err != nil {
		s.Disconnect("write failed", err)
	}
}

// receive runs received bytes through framing,
// decompression and dispatch of every complete packet.
func (s *Session) receive(data []byte) {
	s.sc.stats.BytesIn.Add(uint64(len(data)))
	s.frames.Feed(data)
	for !s.disconnected {
		frame, ok, err := s.frames.Next()
		if err != nil {
			s.Disconnect("bad frame", errs.WrapSilent(err))
			return
		}
		if !ok {
			return
		}
		payload := frame
		if s.compressor != nil {
			payload, err = s.compressor.Decompress(frame)
			if err != nil {
				s.Disconnect("bad compression", errs.WrapSilent(err))
				return
			}
		}
		s.sc.stats.PacketsIn.Inc()
		s.sc.dispatcher.Dispatch(s, payload)
	}
}

// close closes the connection and drops queued packets.
func (s *Session) close() {
	s.outbound.Clear()
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

func (s *Session) String() string {
	return fmt.Sprintf("%s[%d]", s.Name, s.ID)
}
