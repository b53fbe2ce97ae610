package packet

import (
	"time"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
)

// JoinGame is the play state login packet. Only the entity id is decoded.
type JoinGame struct {
	EntityID int32
}

func (j *JoinGame) Kind() state.Kind { return state.JoinGame }

func (j *JoinGame) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteI32(j.EntityID)
	return nil
}

func (j *JoinGame) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	j.EntityID = rd.ReadI32()
	rd.Skip(rd.Readable())
	return nil
}

// PositionSync is the synchronize player position packet.
// Flags mark coordinates as relative, see state.TeleportFlags.
type PositionSync struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      uint8
	TeleportID int
}

func (p *PositionSync) Kind() state.Kind { return state.PositionSync }

func (p *PositionSync) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteF64(p.X)
	wr.WriteF64(p.Y)
	wr.WriteF64(p.Z)
	wr.WriteF32(p.Yaw)
	wr.WriteF32(p.Pitch)
	wr.WriteU8(p.Flags)
	wr.WriteVarInt(p.TeleportID)
	return nil
}

func (p *PositionSync) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	p.X = rd.ReadF64()
	p.Y = rd.ReadF64()
	p.Z = rd.ReadF64()
	p.Yaw = rd.ReadF32()
	p.Pitch = rd.ReadF32()
	p.Flags = rd.ReadU8()
	p.TeleportID = rd.VarIntVal()
	return nil
}

type TeleportConfirm struct {
	TeleportID int
}

func (t *TeleportConfirm) Kind() state.Kind { return state.TeleportConfirm }

func (t *TeleportConfirm) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteVarInt(t.TeleportID)
	return nil
}

func (t *TeleportConfirm) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	t.TeleportID = rd.VarIntVal()
	return nil
}

// PlayerPosition is the set player position packet.
type PlayerPosition struct {
	X, Y, Z  float64
	OnGround bool
}

func (p *PlayerPosition) Kind() state.Kind { return state.PlayerPosition }

func (p *PlayerPosition) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteF64(p.X)
	wr.WriteF64(p.Y)
	wr.WriteF64(p.Z)
	wr.WriteBool(p.OnGround)
	return nil
}

func (p *PlayerPosition) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	p.X = rd.ReadF64()
	p.Y = rd.ReadF64()
	p.Z = rd.ReadF64()
	p.OnGround = rd.ReadBool()
	return nil
}

// Chat is an unsigned chat message.
type Chat struct {
	Message   string
	Timestamp time.Time
	Salt      int64
}

func (c *Chat) Kind() state.Kind { return state.Chat }

func (c *Chat) Encode(ctx *proto.PacketContext, wr *util.Buf) error {
	wr.WriteSizedString(c.Message)
	wr.WriteI64(c.Timestamp.UnixMilli())
	wr.WriteI64(c.Salt)
	wr.WriteBool(false) // no signature
	wr.WriteVarInt(0)   // acknowledged message count
	ackBytes := 3
	if l := state.LayoutOf(ctx.Protocol); l != nil {
		ackBytes = l.ChatAckBytes
	}
	for i := 0; i < ackBytes; i++ {
		wr.WriteU8(0)
	}
	return nil
}

func (c *Chat) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	c.Message = rd.ReadSizedString()
	c.Timestamp = time.UnixMilli(rd.ReadI64())
	c.Salt = rd.ReadI64()
	rd.Skip(rd.Readable())
	return nil
}

// PlayerCommand actions.
const (
	StartSneaking  = 0
	StopSneaking   = 1
	LeaveBed       = 2
	StartSprinting = 3
	StopSprinting  = 4
)

// PlayerCommand is the entity action packet.
type PlayerCommand struct {
	EntityID  int
	Action    int
	JumpBoost int
}

func (p *PlayerCommand) Kind() state.Kind { return state.PlayerCommand }

func (p *PlayerCommand) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteVarInt(p.EntityID)
	wr.WriteVarInt(p.Action)
	wr.WriteVarInt(p.JumpBoost)
	return nil
}

func (p *PlayerCommand) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	p.EntityID = rd.VarIntVal()
	p.Action = rd.VarIntVal()
	p.JumpBoost = rd.VarIntVal()
	return nil
}

// HeldItemChange selects a hotbar slot 0-8.
type HeldItemChange struct {
	Slot int16
}

func (h *HeldItemChange) Kind() state.Kind { return state.HeldItemChange }

func (h *HeldItemChange) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteI16(h.Slot)
	return nil
}

func (h *HeldItemChange) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	h.Slot = rd.ReadI16()
	return nil
}

// SwingArm is the arm animation packet.
type SwingArm struct {
	Hand int
}

func (s *SwingArm) Kind() state.Kind { return state.SwingArm }

func (s *SwingArm) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteVarInt(s.Hand)
	return nil
}

func (s *SwingArm) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	s.Hand = rd.VarIntVal()
	return nil
}

var (
	_ Packet = (*JoinGame)(nil)
	_ Packet = (*PositionSync)(nil)
	_ Packet = (*TeleportConfirm)(nil)
	_ Packet = (*PlayerPosition)(nil)
	_ Packet = (*Chat)(nil)
	_ Packet = (*PlayerCommand)(nil)
	_ Packet = (*HeldItemChange)(nil)
	_ Packet = (*SwingArm)(nil)
)
