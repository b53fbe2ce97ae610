package state

import (
	. "go.minekube.com/stampede/pkg/proto"
)

// The registries storing the packets for a connection state.
var (
	Handshaking = NewRegistry(HandshakeState)
	Status      = NewRegistry(StatusState)
	Login       = NewRegistry(LoginState)
	Config      = NewRegistry(ConfigState)
	Play        = NewRegistry(PlayState)
)

// ByState returns the Registry of a connection state.
func ByState(s State) *Registry {
	switch s {
	case HandshakeState:
		return Handshaking
	case StatusState:
		return Status
	case LoginState:
		return Login
	case ConfigState:
		return Config
	case PlayState:
		return Play
	}
	return nil
}

func init() {
	Handshaking.ServerBound.Register(Handshake,
		m(0x00, Minecraft_1_20_5))

	Status.ServerBound.Register(StatusRequest,
		m(0x00, Minecraft_1_20_5))
	Status.ServerBound.Register(StatusPing,
		m(0x01, Minecraft_1_20_5))

	Status.ClientBound.Register(StatusResponse,
		m(0x00, Minecraft_1_20_5))
	Status.ClientBound.Register(StatusPing,
		m(0x01, Minecraft_1_20_5))

	Login.ServerBound.Register(ServerLogin,
		m(0x00, Minecraft_1_20_5))
	Login.ServerBound.Register(LoginPluginResponse,
		m(0x02, Minecraft_1_20_5))
	Login.ServerBound.Register(LoginAcknowledged,
		m(0x03, Minecraft_1_20_5))
	Login.ServerBound.Register(CookieResponse,
		m(0x04, Minecraft_1_20_5))

	Login.ClientBound.Register(Disconnect,
		m(0x00, Minecraft_1_20_5))
	Login.ClientBound.Register(EncryptionRequest,
		m(0x01, Minecraft_1_20_5))
	Login.ClientBound.Register(ServerLoginSuccess,
		m(0x02, Minecraft_1_20_5))
	Login.ClientBound.Register(SetCompression,
		m(0x03, Minecraft_1_20_5))
	Login.ClientBound.Register(LoginPluginMessage,
		m(0x04, Minecraft_1_20_5))
	Login.ClientBound.Register(CookieRequest,
		m(0x05, Minecraft_1_20_5))

	Config.ServerBound.Register(ClientSettings,
		m(0x00, Minecraft_1_20_5))
	Config.ServerBound.Register(CookieResponse,
		m(0x01, Minecraft_1_20_5))
	Config.ServerBound.Register(FinishedUpdate,
		m(0x03, Minecraft_1_20_5))
	Config.ServerBound.Register(KeepAlive,
		m(0x04, Minecraft_1_20_5))
	Config.ServerBound.Register(Pong,
		m(0x05, Minecraft_1_20_5))
	Config.ServerBound.Register(ResourcePackResponse,
		m(0x06, Minecraft_1_20_5))
	Config.ServerBound.Register(KnownPacks,
		m(0x07, Minecraft_1_20_5))

	Config.ClientBound.Register(CookieRequest,
		m(0x00, Minecraft_1_20_5))
	Config.ClientBound.Register(Disconnect,
		m(0x02, Minecraft_1_20_5))
	Config.ClientBound.Register(FinishedUpdate,
		m(0x03, Minecraft_1_20_5))
	Config.ClientBound.Register(KeepAlive,
		m(0x04, Minecraft_1_20_5))
	Config.ClientBound.Register(Ping,
		m(0x05, Minecraft_1_20_5))
	Config.ClientBound.Register(ResourcePackRequest,
		m(0x09, Minecraft_1_20_5))
	Config.ClientBound.Register(Transfer,
		m(0x0B, Minecraft_1_20_5))
	Config.ClientBound.Register(KnownPacks,
		m(0x0E, Minecraft_1_20_5))

	Play.ServerBound.Register(TeleportConfirm,
		m(0x00, Minecraft_1_20_5))
	Play.ServerBound.Register(Chat,
		m(0x06, Minecraft_1_20_5))
	Play.ServerBound.Register(ClientSettings,
		m(0x0A, Minecraft_1_20_5))
	Play.ServerBound.Register(StartUpdateAcknowledged,
		m(0x0C, Minecraft_1_20_5))
	Play.ServerBound.Register(CookieResponse,
		m(0x11, Minecraft_1_20_5))
	Play.ServerBound.Register(KeepAlive,
		m(0x18, Minecraft_1_20_5))
	Play.ServerBound.Register(PlayerPosition,
		m(0x1A, Minecraft_1_20_5))
	Play.ServerBound.Register(PlayerCommand,
		m(0x25, Minecraft_1_20_5))
	Play.ServerBound.Register(Pong,
		m(0x27, Minecraft_1_20_5))
	Play.ServerBound.Register(ResourcePackResponse,
		m(0x2B, Minecraft_1_20_5))
	Play.ServerBound.Register(HeldItemChange,
		m(0x2F, Minecraft_1_20_5))
	Play.ServerBound.Register(SwingArm,
		m(0x36, Minecraft_1_20_5))

	Play.ClientBound.Register(CookieRequest,
		m(0x16, Minecraft_1_20_5))
	Play.ClientBound.Register(Disconnect,
		m(0x1D, Minecraft_1_20_5))
	Play.ClientBound.Register(KeepAlive,
		m(0x26, Minecraft_1_20_5))
	Play.ClientBound.Register(JoinGame,
		m(0x2B, Minecraft_1_20_5))
	Play.ClientBound.Register(Ping,
		m(0x35, Minecraft_1_20_5))
	Play.ClientBound.Register(PositionSync,
		m(0x40, Minecraft_1_20_5))
	Play.ClientBound.Register(ResourcePackRequest,
		m(0x46, Minecraft_1_20_5))
	Play.ClientBound.Register(StartUpdate,
		m(0x69, Minecraft_1_20_5))
}
