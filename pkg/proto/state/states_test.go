package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.minekube.com/stampede/pkg/proto"
)

func TestRegistriesCoverSupportedVersions(t *testing.T) {
	for _, ver := range proto.Versions {
		for s := proto.State(0); int(s) < proto.States; s++ {
			reg := ByState(s)
			require.NotNil(t, reg, s.String())
			require.NotNil(t, FromDirection(proto.ServerBound, reg, ver.Protocol))
			require.NotNil(t, FromDirection(proto.ClientBound, reg, ver.Protocol))
		}
		require.NotNil(t, LayoutOf(ver.Protocol))
	}
	require.Nil(t, LayoutOf(47))
	require.Nil(t, Play.ClientBound.ProtocolRegistry(47))
}

func TestPacketIDs(t *testing.T) {
	tests := []struct {
		reg  *Registry
		dir  proto.Direction
		kind Kind
		id   proto.PacketID
	}{
		{Handshaking, proto.ServerBound, Handshake, 0x00},
		{Login, proto.ServerBound, ServerLogin, 0x00},
		{Login, proto.ServerBound, LoginAcknowledged, 0x03},
		{Login, proto.ClientBound, ServerLoginSuccess, 0x02},
		{Login, proto.ClientBound, SetCompression, 0x03},
		{Config, proto.ClientBound, FinishedUpdate, 0x03},
		{Config, proto.ServerBound, FinishedUpdate, 0x03},
		{Config, proto.ServerBound, ClientSettings, 0x00},
		{Play, proto.ClientBound, KeepAlive, 0x26},
		{Play, proto.ServerBound, KeepAlive, 0x18},
		{Play, proto.ClientBound, JoinGame, 0x2B},
		{Play, proto.ClientBound, PositionSync, 0x40},
		{Play, proto.ServerBound, PlayerPosition, 0x1A},
		{Play, proto.ServerBound, SwingArm, 0x36},
	}
	for _, ver := range proto.Versions {
		for _, tt := range tests {
			r := FromDirection(tt.dir, tt.reg, ver.Protocol)
			id, ok := r.PacketID(tt.kind)
			require.True(t, ok, "%s %s %s", ver, tt.reg.State, tt.kind)
			assert.Equal(t, tt.id, id, "%s %s %s", ver, tt.reg.State, tt.kind)
			assert.Equal(t, tt.kind, r.Kind(tt.id))
		}
	}
}

func TestUnknownPacketID(t *testing.T) {
	r := FromDirection(proto.ClientBound, Play, proto.DefaultVersion.Protocol)
	assert.Equal(t, UnknownPacket, r.Kind(0x7F))
	_, ok := r.PacketID(ServerLogin)
	assert.False(t, ok)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := NewPacketRegistry(proto.ServerBound)
	r.Register(Chat, m(0x06, proto.Minecraft_1_20_5))
	assert.Panics(t, func() { r.Register(SwingArm, m(0x06, proto.Minecraft_1_21)) })
	assert.Panics(t, func() { r.Register(Chat, m(0x07, proto.Minecraft_1_21)) })
}

func TestRegisterVersionRange(t *testing.T) {
	r := NewPacketRegistry(proto.ClientBound)
	r.Register(Ping,
		m(0x10, proto.Minecraft_1_20_5),
		m(0x11, proto.Minecraft_1_21),
	)
	id, _ := r.ProtocolRegistry(proto.Minecraft_1_20_5.Protocol).PacketID(Ping)
	assert.Equal(t, proto.PacketID(0x10), id)
	id, _ = r.ProtocolRegistry(proto.Minecraft_1_21.Protocol).PacketID(Ping)
	assert.Equal(t, proto.PacketID(0x11), id)
}

func TestTeleportFlags(t *testing.T) {
	f := LayoutOf(proto.DefaultVersion.Protocol).TeleportFlags

	x, y, z := f.Apply(0, 1, 2, 3, 10, 20, 30)
	assert.Equal(t, [3]float64{10, 20, 30}, [3]float64{x, y, z})

	x, y, z = f.Apply(0b10100, 5, 5, 5, 1, 20, 2)
	assert.Equal(t, [3]float64{6, 20, 7}, [3]float64{x, y, z})

	x, y, z = f.Apply(0b11100, 5, 5, 5, 1, 1, 1)
	assert.Equal(t, [3]float64{6, 6, 6}, [3]float64{x, y, z})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "PositionSync", PositionSync.String())
	assert.Equal(t, "Kind(200)", Kind(200).String())
}
