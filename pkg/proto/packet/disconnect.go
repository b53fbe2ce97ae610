package packet

import (
	"fmt"

	"github.com/Tnze/go-mc/nbt"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
)

// Disconnect is sent by the server before closing the connection.
//
// In login state the reason is a JSON text component,
// in config and play state a network NBT text component.
// Reason holds the JSON or the stringified NBT respectively.
// Encoding outside login state writes Reason as plain string tag.
type Disconnect struct {
	Reason string
}

func (d *Disconnect) Kind() state.Kind { return state.Disconnect }

func (d *Disconnect) Encode(c *proto.PacketContext, wr *util.Buf) error {
	if c.State == proto.LoginState {
		wr.WriteSizedString(d.Reason)
		return nil
	}
	// plain string tag
	wr.WriteU8(nbt.TagString)
	wr.WriteU16(uint16(len(d.Reason)))
	_, _ = wr.Write([]byte(d.Reason))
	return nil
}

func (d *Disconnect) Decode(c *proto.PacketContext, rd *util.Buf) (err error) {
	if c.State == proto.LoginState {
		d.Reason = rd.ReadSizedString()
		return nil
	}
	d.Reason, err = ReadComponentReason(rd)
	return err
}

// ReadComponentReason reads a network NBT text component and returns it as SNBT.
func ReadComponentReason(rd *util.Buf) (string, error) {
	dec := nbt.NewDecoder(rd)
	dec.NetworkFormat(true)
	var m nbt.RawMessage
	if _, err := dec.Decode(&m); err != nil {
		return "", fmt.Errorf("error decoding text component: %w", err)
	}
	return m.String(), nil
}

var _ Packet = (*Disconnect)(nil)
