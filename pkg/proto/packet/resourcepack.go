package packet

import (
	"github.com/google/uuid"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
)

// ResourcePackRequest is the add resource pack packet.
// The optional prompt is not decoded.
type ResourcePackRequest struct {
	ID     uuid.UUID
	URL    string
	Hash   string
	Forced bool
}

func (r *ResourcePackRequest) Kind() state.Kind { return state.ResourcePackRequest }

func (r *ResourcePackRequest) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteUUID(r.ID)
	wr.WriteSizedString(r.URL)
	wr.WriteSizedString(r.Hash)
	wr.WriteBool(r.Forced)
	wr.WriteBool(false) // no prompt
	return nil
}

func (r *ResourcePackRequest) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	r.ID = rd.ReadUUID()
	r.URL = rd.ReadSizedString()
	r.Hash = rd.ReadSizedString()
	r.Forced = rd.ReadBool()
	rd.Skip(rd.Readable())
	return nil
}

// ResourcePackResponseStatus is the result a client reports for a resource pack.
type ResourcePackResponseStatus int

const (
	SuccessfulResourcePackResponseStatus ResourcePackResponseStatus = iota
	DeclinedResourcePackResponseStatus
	FailedDownloadResourcePackResponseStatus
	AcceptedResourcePackResponseStatus
	DownloadedResourcePackResponseStatus
	InvalidURLResourcePackResponseStatus
	FailedToReloadResourcePackResponseStatus
	DiscardedResourcePackResponseStatus
)

type ResourcePackResponse struct {
	ID     uuid.UUID
	Status ResourcePackResponseStatus
}

func (r *ResourcePackResponse) Kind() state.Kind { return state.ResourcePackResponse }

func (r *ResourcePackResponse) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteUUID(r.ID)
	wr.WriteVarInt(int(r.Status))
	return nil
}

func (r *ResourcePackResponse) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	r.ID = rd.ReadUUID()
	r.Status = ResourcePackResponseStatus(rd.VarIntVal())
	return nil
}

var (
	_ Packet = (*ResourcePackRequest)(nil)
	_ Packet = (*ResourcePackResponse)(nil)
)
