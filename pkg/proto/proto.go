// Package proto contains the protocol primitives shared by the bot engine:
// protocol versions, connection states and packet ids.
package proto

import (
	"fmt"
	"strconv"
)

// PacketID identifies a packet in a protocol version and state.
// PacketIDs vary by Protocol version.
type PacketID int

// String implements fmt.Stringer.
func (id PacketID) String() string {
	return fmt.Sprintf("%#02x", int(id))
}

// State is the state of a Java edition connection.
// Each state has its own packet id space.
type State uint8

// The states a bot connection can be in.
const (
	HandshakeState State = iota
	StatusState
	LoginState
	ConfigState
	PlayState

	stateCount
)

// States is the number of connection states.
const States = int(stateCount)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case HandshakeState:
		return "Handshake"
	case StatusState:
		return "Status"
	case LoginState:
		return "Login"
	case ConfigState:
		return "Config"
	case PlayState:
		return "Play"
	}
	return "UnknownState(" + strconv.Itoa(int(s)) + ")"
}

// Direction is the direction a packet is bound to.
//   - Receiving a packet from a server is ClientBound.
//   - Sending a packet to a server is ServerBound.
type Direction uint8

// Available packet bound directions.
const (
	ClientBound Direction = iota // A packet is bound to a client.
	ServerBound                  // A packet is bound to a server.
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case ServerBound:
		return "ServerBound"
	case ClientBound:
		return "ClientBound"
	}
	return "UnknownBound"
}

// Protocol is a protocol version id specified by Mojang.
type Protocol int

// String implements fmt.Stringer.
func (p Protocol) String() string {
	v, ok := ProtocolToVersion[p]
	if !ok {
		return strconv.Itoa(int(p))
	}
	return fmt.Sprintf("%s(%d)", v, int(p))
}

// GreaterEqual is true when this Protocol is
// greater or equal then another Version's Protocol.
func (p Protocol) GreaterEqual(then *Version) bool {
	return p >= then.Protocol
}

// Lower is true when this Protocol is
// lower then another Version's Protocol.
func (p Protocol) Lower(then *Version) bool {
	return p < then.Protocol
}

// Version is a named protocol version.
type Version struct {
	Protocol          // The protocol number of the version.
	Names    []string // The names in this protocol version (at least one).
}

// FirstName returns the user-friendly name of
// the version this protocol was introduced in.
func (v *Version) FirstName() string {
	if len(v.Names) == 0 {
		return ""
	}
	return v.Names[0]
}

// LastName returns the user-friendly name of
// the last version of this protocol.
func (v *Version) LastName() string {
	if len(v.Names) == 0 {
		return ""
	}
	return v.Names[len(v.Names)-1]
}

// String returns the user-friendly name of this protocol version.
// If this version has multiple names it returns {first}-{last} version.
func (v Version) String() string {
	if len(v.Names) > 1 {
		return fmt.Sprintf("%s-%s", v.FirstName(), v.LastName())
	}
	return v.FirstName()
}

// PacketContext carries the connection properties
// a packet is encoded or decoded with.
type PacketContext struct {
	Direction Direction
	Protocol  Protocol
	State     State
}
