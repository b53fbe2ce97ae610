package bot

import (
	"fmt"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/packet"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
	"go.minekube.com/stampede/pkg/util/errs"
)

// Handler handles the payload of a received packet after its packet id.
type Handler func(s *Session, rd *util.Buf) error

// handle returns a Handler decoding the packet type P before calling fn.
func handle[P any, PP interface {
	*P
	packet.Packet
}](fn func(s *Session, p PP) error) Handler {
	return func(s *Session, rd *util.Buf) error {
		p := PP(new(P))
		if err := packet.Decode(s.packetContext(proto.ClientBound), rd, p); err != nil {
			return errs.NewSilentErr("error decoding %s: %w", p.Kind(), err)
		}
		return fn(s, p)
	}
}

// Dispatcher routes received packets by connection state and packet id.
//
// It is built once per protocol version and never modified afterwards,
// so all shards of a swarm share one Dispatcher.
type Dispatcher struct {
	protocol proto.Protocol
	table    [proto.States]map[proto.PacketID]route
}

type route struct {
	kind    state.Kind
	handler Handler
}

// NewDispatcher builds the dispatch table for a protocol version from
// the client bound packet ids of the protocol and the bot's handlers.
func NewDispatcher(protocol proto.Protocol) (*Dispatcher, error) {
	return newDispatcher(protocol, handlers)
}

func newDispatcher(protocol proto.Protocol, byState map[proto.State]map[state.Kind]Handler) (*Dispatcher, error) {
	if !protocol.Supported() {
		return nil, fmt.Errorf("unsupported protocol %s, supported versions are %s",
			protocol, proto.SupportedVersionsString)
	}
	d := &Dispatcher{protocol: protocol}
	for st, kinds := range byState {
		reg := state.FromDirection(proto.ClientBound, state.ByState(st), protocol)
		if reg == nil {
			return nil, fmt.Errorf("no %s packets registered for protocol %s", st, protocol)
		}
		routes := make(map[proto.PacketID]route, len(kinds))
		for kind, h := range kinds {
			id, ok := reg.PacketID(kind)
			if !ok {
				return nil, fmt.Errorf("%s has no packet id in %s state of protocol %s", kind, st, protocol)
			}
			routes[id] = route{kind: kind, handler: h}
		}
		d.table[st] = routes
	}
	return d, nil
}

// Protocol returns the protocol the Dispatcher was built for.
func (d *Dispatcher) Protocol() proto.Protocol { return d.protocol }

// Lookup returns the handler for a packet id in a state.
func (d *Dispatcher) Lookup(st proto.State, id proto.PacketID) (Handler, bool) {
	if int(st) >= len(d.table) {
		return nil, false
	}
	r, ok := d.table[st][id]
	return r.handler, ok
}

// Dispatch reads the packet id of payload and invokes its handler.
// Packets without handler are discarded. A failing handler
// disconnects the session.
func (d *Dispatcher) Dispatch(s *Session, payload []byte) {
	rd := util.BufOf(payload)
	err := util.RecoverFunc(func() error {
		id := proto.PacketID(rd.VarIntVal())
		h, ok := d.Lookup(s.State, id)
		if !ok {
			return nil
		}
		return h(s, rd)
	})
	if err != nil {
		s.Disconnect("packet handling failed", err)
	}
}
