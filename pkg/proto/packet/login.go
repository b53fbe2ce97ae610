package packet

import (
	"github.com/google/uuid"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
	"go.minekube.com/stampede/pkg/util/errs"
)

// MaxUsernameLen is the longest name a server accepts in ServerLogin.
const MaxUsernameLen = 16

var ErrUsernameTooLong = errs.NewSilentErr("username exceeds %d characters", MaxUsernameLen)

// ServerLogin is the login start packet.
type ServerLogin struct {
	Username string
	PlayerID uuid.UUID
}

func (s *ServerLogin) Kind() state.Kind { return state.ServerLogin }

func (s *ServerLogin) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	if len(s.Username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	wr.WriteSizedString(s.Username)
	wr.WriteUUID(s.PlayerID)
	return nil
}

func (s *ServerLogin) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	s.Username = rd.ReadSizedString()
	s.PlayerID = rd.ReadUUID()
	return nil
}

// ServerLoginSuccess completes the login. Game profile properties are skipped.
type ServerLoginSuccess struct {
	UUID     uuid.UUID
	Username string
}

func (s *ServerLoginSuccess) Kind() state.Kind { return state.ServerLoginSuccess }

func (s *ServerLoginSuccess) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteUUID(s.UUID)
	wr.WriteSizedString(s.Username)
	wr.WriteVarInt(0)  // properties
	wr.WriteBool(true) // strict error handling
	return nil
}

func (s *ServerLoginSuccess) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	s.UUID = rd.ReadUUID()
	s.Username = rd.ReadSizedString()
	return nil
}

type SetCompression struct {
	Threshold int
}

func (s *SetCompression) Kind() state.Kind { return state.SetCompression }

func (s *SetCompression) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteVarInt(s.Threshold)
	return nil
}

func (s *SetCompression) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	s.Threshold = rd.VarIntVal()
	return nil
}

// EncryptionRequest is only decoded far enough to report it.
type EncryptionRequest struct {
	ServerID string
}

func (e *EncryptionRequest) Kind() state.Kind { return state.EncryptionRequest }

func (e *EncryptionRequest) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteSizedString(e.ServerID)
	return nil
}

func (e *EncryptionRequest) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	e.ServerID = rd.ReadSizedString()
	return nil
}

type LoginPluginMessage struct {
	ID      int
	Channel string
	Data    []byte
}

func (l *LoginPluginMessage) Kind() state.Kind { return state.LoginPluginMessage }

func (l *LoginPluginMessage) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteVarInt(l.ID)
	wr.WriteSizedString(l.Channel)
	_, _ = wr.Write(l.Data)
	return nil
}

func (l *LoginPluginMessage) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	l.ID = rd.VarIntVal()
	l.Channel = rd.ReadSizedString()
	l.Data = append([]byte(nil), rd.Bytes()...)
	rd.Skip(rd.Readable())
	return nil
}

type LoginPluginResponse struct {
	ID      int
	Success bool
	Data    []byte
}

func (l *LoginPluginResponse) Kind() state.Kind { return state.LoginPluginResponse }

func (l *LoginPluginResponse) Encode(_ *proto.PacketContext, wr *util.Buf) error {
	wr.WriteVarInt(l.ID)
	wr.WriteBool(l.Success)
	_, _ = wr.Write(l.Data)
	return nil
}

func (l *LoginPluginResponse) Decode(_ *proto.PacketContext, rd *util.Buf) error {
	l.ID = rd.VarIntVal()
	l.Success = rd.ReadBool()
	l.Data = append([]byte(nil), rd.Bytes()...)
	rd.Skip(rd.Readable())
	return nil
}

type LoginAcknowledged struct{}

func (LoginAcknowledged) Kind() state.Kind                             { return state.LoginAcknowledged }
func (LoginAcknowledged) Encode(*proto.PacketContext, *util.Buf) error { return nil }
func (LoginAcknowledged) Decode(*proto.PacketContext, *util.Buf) error { return nil }

var (
	_ Packet = (*ServerLogin)(nil)
	_ Packet = (*ServerLoginSuccess)(nil)
	_ Packet = (*SetCompression)(nil)
	_ Packet = (*EncryptionRequest)(nil)
	_ Packet = (*LoginPluginMessage)(nil)
	_ Packet = (*LoginPluginResponse)(nil)
	_ Packet = (*LoginAcknowledged)(nil)
)
