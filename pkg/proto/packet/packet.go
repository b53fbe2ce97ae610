// Package packet contains the packets bots exchange with a server.
package packet

import (
	"fmt"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
)

// Packet is a packet that can be written to and read from a util.Buf.
//
// Decode implementations read with the panicking Buf readers;
// use Decode to turn a short packet into an error.
type Packet interface {
	Kind() state.Kind
	Encode(c *proto.PacketContext, wr *util.Buf) error
	Decode(c *proto.PacketContext, rd *util.Buf) error
}

// Decode decodes p from rd and recovers read errors.
func Decode(c *proto.PacketContext, rd *util.Buf, p Packet) error {
	return util.RecoverFunc(func() error {
		return p.Decode(c, rd)
	})
}

// Encode writes the packet id of p in c's state and protocol followed by p's fields.
func Encode(c *proto.PacketContext, wr *util.Buf, p Packet) error {
	reg := state.FromDirection(c.Direction, state.ByState(c.State), c.Protocol)
	if reg == nil {
		return fmt.Errorf("protocol %s is not supported", c.Protocol)
	}
	id, ok := reg.PacketID(p.Kind())
	if !ok {
		return fmt.Errorf("%s is not registered for %s in %s state of protocol %s",
			p.Kind(), c.Direction, c.State, c.Protocol)
	}
	wr.WriteVarInt(int(id))
	return util.RecoverFunc(func() error {
		return p.Encode(c, wr)
	})
}
