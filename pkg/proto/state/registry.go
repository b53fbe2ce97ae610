package state

import (
	"fmt"

	"go.minekube.com/stampede/pkg/proto"
)

// Registry stores server/client bound packets of a connection state.
type Registry struct {
	proto.State
	ServerBound *PacketRegistry
	ClientBound *PacketRegistry
}

func NewRegistry(state proto.State) *Registry {
	return &Registry{
		State:       state,
		ServerBound: NewPacketRegistry(proto.ServerBound),
		ClientBound: NewPacketRegistry(proto.ClientBound),
	}
}

// PacketRegistry stores the packets of each protocol version sent in one direction.
type PacketRegistry struct {
	Direction proto.Direction                      // The direction the registered packets are send to.
	Protocols map[proto.Protocol]*ProtocolRegistry // The protocol versions.
}

func NewPacketRegistry(direction proto.Direction) *PacketRegistry {
	r := &PacketRegistry{
		Direction: direction,
		Protocols: make(map[proto.Protocol]*ProtocolRegistry, len(proto.Versions)),
	}
	for _, ver := range proto.Versions {
		r.Protocols[ver.Protocol] = &ProtocolRegistry{
			Protocol:  ver.Protocol,
			PacketIDs: map[proto.PacketID]Kind{},
			Kinds:     map[Kind]proto.PacketID{},
		}
	}
	return r
}

// ProtocolRegistry returns the ProtocolRegistry for a protocol or nil if unsupported.
func (p *PacketRegistry) ProtocolRegistry(protocol proto.Protocol) *ProtocolRegistry {
	return p.Protocols[protocol]
}

// ProtocolRegistry stores the packets of a protocol version.
type ProtocolRegistry struct {
	Protocol  proto.Protocol          // The protocol version of the registered packets.
	PacketIDs map[proto.PacketID]Kind // Gets packet kind by packet id.
	Kinds     map[Kind]proto.PacketID // Gets packet id by packet kind.
}

// PacketID gets the packet id of a registered packet kind.
func (r *ProtocolRegistry) PacketID(of Kind) (id proto.PacketID, found bool) {
	id, found = r.Kinds[of]
	return
}

// Kind returns the packet kind registered for id or UnknownPacket.
func (r *ProtocolRegistry) Kind(id proto.PacketID) Kind {
	return r.PacketIDs[id]
}

// Register maps kind to the packet id it has starting with the protocol of
// each mapping until the next mapping or the maximum version.
func (p *PacketRegistry) Register(kind Kind, mappings ...*PacketMapping) {
	var (
		next *PacketMapping
		from proto.Protocol
		to   proto.Protocol
	)
	for i, current := range mappings {
		from = current.Protocol
		if i < len(mappings)-1 {
			next = mappings[i+1]
			to = next.Protocol
		} else {
			next = current
			to = proto.MaximumVersion.Protocol
		}

		if from >= to && from != proto.MaximumVersion.Protocol {
			panic(fmt.Sprintf("Next mapping version (%s) should be lower then current (%s)", to, from))
		}

		versionRange(proto.Versions, from, to, func(protocol proto.Protocol) bool {
			if protocol == to && next != current {
				return false
			}
			registry, ok := p.Protocols[protocol]
			if !ok {
				panic(fmt.Sprintf("Unknown protocol version %s", current.Protocol))
			}
			if other, ok := registry.PacketIDs[current.ID]; ok {
				panic(fmt.Sprintf("Can not register %s with id %s for protocol %s "+
					"because %s is already registered", kind, current.ID, registry.Protocol, other))
			}
			if _, ok = registry.Kinds[kind]; ok {
				panic(fmt.Sprintf("%s is already registered for protocol %s", kind, registry.Protocol))
			}
			registry.PacketIDs[current.ID] = kind
			registry.Kinds[kind] = current.ID
			return true
		})
	}
}

// FromDirection returns the packets of a state in a direction and protocol.
func FromDirection(direction proto.Direction, state *Registry, protocol proto.Protocol) *ProtocolRegistry {
	if direction == proto.ServerBound {
		return state.ServerBound.ProtocolRegistry(protocol)
	}
	return state.ClientBound.ProtocolRegistry(protocol)
}

type PacketMapping struct {
	ID       proto.PacketID
	Protocol proto.Protocol
}

func m(id proto.PacketID, version *proto.Version) *PacketMapping {
	return &PacketMapping{
		ID:       id,
		Protocol: version.Protocol,
	}
}

func versionRange(
	versions []*proto.Version,
	from, to proto.Protocol,
	fn func(p proto.Protocol) bool,
) {
	var inRange bool
	for _, ver := range versions {
		if ver.Protocol == from {
			inRange = true
		} else if ver.Protocol == to {
			fn(ver.Protocol)
			return
		}
		if inRange {
			if !fn(ver.Protocol) {
				return
			}
		}
	}
}
