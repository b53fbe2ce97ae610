package packet

import (
	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
)

type KeepAlive struct {
	RandomID int64
}

func (k *KeepAlive) Kind() state.Kind { return state.KeepAlive }

func (k *KeepAlive) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteI64(k.RandomID)
	return nil
}

func (k *KeepAlive) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	k.RandomID = rd.ReadI64()
	return nil
}

// Ping is the config and play state ping answered with a Pong.
type Ping struct {
	ID int32
}

func (p *Ping) Kind() state.Kind { return state.Ping }

func (p *Ping) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteI32(p.ID)
	return nil
}

func (p *Ping) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	p.ID = rd.ReadI32()
	return nil
}

type Pong struct {
	ID int32
}

func (p *Pong) Kind() state.Kind { return state.Pong }

func (p *Pong) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteI32(p.ID)
	return nil
}

func (p *Pong) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	p.ID = rd.ReadI32()
	return nil
}

var (
	_ Packet = (*KeepAlive)(nil)
	_ Packet = (*Ping)(nil)
	_ Packet = (*Pong)(nil)
)
