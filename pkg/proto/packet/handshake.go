package packet

import (
	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
)

// Next states a Handshake can request.
const (
	NextStatus = 1
	NextLogin  = 2
)

type Handshake struct {
	ProtocolVersion int
	ServerAddress   string
	Port            int
	NextState       int
}

func (h *Handshake) Kind() state.Kind { return state.Handshake }

func (h *Handshake) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteVarInt(h.ProtocolVersion)
	wr.WriteSizedString(h.ServerAddress)
	wr.WriteU16(uint16(h.Port))
	wr.WriteVarInt(h.NextState)
	return nil
}

func (h *Handshake) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	h.ProtocolVersion = rd.VarIntVal()
	h.ServerAddress = rd.ReadSizedString()
	h.Port = int(rd.ReadU16())
	h.NextState = rd.VarIntVal()
	return nil
}

var _ Packet = (*Handshake)(nil)
