package packet

import (
	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
	"go.minekube.com/stampede/pkg/util/errs"
)

const MaxCookieLen = 5 * 1024

// CookieRequest asks for a cookie stored under Key.
type CookieRequest struct {
	Key string
}

func (c *CookieRequest) Kind() state.Kind { return state.CookieRequest }

func (c *CookieRequest) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteSizedString(c.Key)
	return nil
}

func (c *CookieRequest) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	c.Key = rd.ReadSizedString()
	return nil
}

// CookieResponse answers a CookieRequest. A nil Payload means no cookie is stored.
type CookieResponse struct {
	Key     string
	Payload []byte
}

func (c *CookieResponse) Kind() state.Kind { return state.CookieResponse }

func (c *CookieResponse) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteSizedString(c.Key)
	hasPayload := c.Payload != nil
	wr.WriteBool(hasPayload)
	if hasPayload {
		wr.WriteBytes(c.Payload)
	}
	return nil
}

func (c *CookieResponse) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	c.Key = rd.ReadSizedString()
	if rd.ReadBool() {
		c.Payload = rd.ReadBytes()
		if len(c.Payload) > MaxCookieLen {
			return errs.NewSilentErr("cookie payload of %d bytes exceeds %d", len(c.Payload), MaxCookieLen)
		}
	}
	return nil
}

var (
	_ Packet = (*CookieRequest)(nil)
	_ Packet = (*CookieResponse)(nil)
)
