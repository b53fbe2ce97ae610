package packet

import (
	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
	"go.minekube.com/stampede/pkg/util/errs"
)

// FinishedUpdate is the finish configuration packet when clientbound
// and its acknowledgement when serverbound.
type FinishedUpdate struct{}

func (FinishedUpdate) Kind() state.Kind                             { return state.FinishedUpdate }
func (FinishedUpdate) Encode(*proto.PacketContext, *util.Buf) error { return nil }
func (FinishedUpdate) Decode(*proto.PacketContext, *util.Buf) error { return nil }

// StartUpdate moves a playing client back to config state.
type StartUpdate struct{}

func (StartUpdate) Kind() state.Kind                             { return state.StartUpdate }
func (StartUpdate) Encode(*proto.PacketContext, *util.Buf) error { return nil }
func (StartUpdate) Decode(*proto.PacketContext, *util.Buf) error { return nil }

// StartUpdateAcknowledged acknowledges a StartUpdate.
type StartUpdateAcknowledged struct{}

func (StartUpdateAcknowledged) Kind() state.Kind                             { return state.StartUpdateAcknowledged }
func (StartUpdateAcknowledged) Encode(*proto.PacketContext, *util.Buf) error { return nil }
func (StartUpdateAcknowledged) Decode(*proto.PacketContext, *util.Buf) error { return nil }

const MaxLengthPacks = 64

// ErrTooManyPacks is returned when a server sends too many packs.
var ErrTooManyPacks = errs.NewSilentErr("too many packs")

type KnownPacks struct {
	Packs []KnownPack
}

type KnownPack struct {
	Namespace string
	ID        string
	Version   string
}

func (p *KnownPacks) Kind() state.Kind { return state.KnownPacks }

func (p *KnownPacks) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteVarInt(len(p.Packs))
	for _, pack := range p.Packs {
		wr.WriteSizedString(pack.Namespace)
		wr.WriteSizedString(pack.ID)
		wr.WriteSizedString(pack.Version)
	}
	return nil
}

func (p *KnownPacks) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	packCount := rd.VarIntVal()
	if packCount < 0 || packCount > MaxLengthPacks {
		return ErrTooManyPacks
	}
	p.Packs = make([]KnownPack, packCount)
	for i := range p.Packs {
		p.Packs[i] = KnownPack{
			Namespace: rd.ReadSizedString(),
			ID:        rd.ReadSizedString(),
			Version:   rd.ReadSizedString(),
		}
	}
	return nil
}

// Transfer tells the client to connect to another server.
type Transfer struct {
	Host string
	Port int
}

func (t *Transfer) Kind() state.Kind { return state.Transfer }

func (t *Transfer) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteSizedString(t.Host)
	wr.WriteVarInt(t.Port)
	return nil
}

func (t *Transfer) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	t.Host = rd.ReadSizedString()
	t.Port = rd.VarIntVal()
	return nil
}

// Main hands of ClientSettings.
const (
	LeftHand  = 0
	RightHand = 1
)

type ClientSettings struct {
	Locale               string
	ViewDistance         byte
	ChatVisibility       int
	ChatColors           bool
	SkinParts            byte
	MainHand             int
	TextFiltering        bool
	ClientListingAllowed bool
}

func (s *ClientSettings) Kind() state.Kind { return state.ClientSettings }

func (s *ClientSettings) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteSizedString(s.Locale)
	wr.WriteU8(s.ViewDistance)
	wr.WriteVarInt(s.ChatVisibility)
	wr.WriteBool(s.ChatColors)
	wr.WriteU8(s.SkinParts)
	wr.WriteVarInt(s.MainHand)
	wr.WriteBool(s.TextFiltering)
	wr.WriteBool(s.ClientListingAllowed)
	return nil
}

func (s *ClientSettings) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	s.Locale = rd.ReadSizedString()
	s.ViewDistance = rd.ReadU8()
	s.ChatVisibility = rd.VarIntVal()
	s.ChatColors = rd.ReadBool()
	s.SkinParts = rd.ReadU8()
	s.MainHand = rd.VarIntVal()
	s.TextFiltering = rd.ReadBool()
	s.ClientListingAllowed = rd.ReadBool()
	return nil
}

var (
	_ Packet = (*FinishedUpdate)(nil)
	_ Packet = (*StartUpdate)(nil)
	_ Packet = (*StartUpdateAcknowledged)(nil)
	_ Packet = (*KnownPacks)(nil)
	_ Packet = (*Transfer)(nil)
	_ Packet = (*ClientSettings)(nil)
)
