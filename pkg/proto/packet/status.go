package packet

import (
	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
)

type StatusRequest struct{}

func (StatusRequest) Kind() state.Kind                             { return state.StatusRequest }
func (StatusRequest) Encode(*proto.PacketContext, *util.Buf) error { return nil }
func (StatusRequest) Decode(*proto.PacketContext, *util.Buf) error { return nil }

// StatusResponse holds the JSON server list response.
type StatusResponse struct {
	Status string
}

func (r *StatusResponse) Kind() state.Kind { return state.StatusResponse }

func (r *StatusResponse) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteSizedString(r.Status)
	return nil
}

func (r *StatusResponse) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	r.Status = rd.ReadSizedString()
	return nil
}

// StatusPing is sent by the client and echoed by the server.
type StatusPing struct {
	RandomID int64
}

func (p *StatusPing) Kind() state.Kind { return state.StatusPing }

func (p *StatusPing) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteI64(p.RandomID)
	return nil
}

func (p *StatusPing) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	p.RandomID = rd.ReadI64()
	return nil
}

var (
	_ Packet = (*StatusRequest)(nil)
	_ Packet = (*StatusResponse)(nil)
	_ Packet = (*StatusPing)(nil)
)
