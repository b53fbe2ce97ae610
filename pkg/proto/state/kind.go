package state

import "strconv"

// Kind identifies a packet independently of the id it has in a protocol version.
// The same Kind may be registered in several states and both directions.
type Kind uint8

// UnknownPacket is the Kind of every packet id without registration.
const UnknownPacket Kind = 0

const (
	Handshake Kind = iota + 1

	StatusRequest
	StatusResponse
	StatusPing

	ServerLogin
	ServerLoginSuccess
	EncryptionRequest
	SetCompression
	LoginPluginMessage
	LoginPluginResponse
	LoginAcknowledged
	CookieRequest
	CookieResponse

	Disconnect
	ClientSettings
	FinishedUpdate
	KeepAlive
	Ping
	Pong
	ResourcePackRequest
	ResourcePackResponse
	KnownPacks
	Transfer

	JoinGame
	PositionSync
	TeleportConfirm
	PlayerPosition
	Chat
	PlayerCommand
	HeldItemChange
	SwingArm
	StartUpdate
	StartUpdateAcknowledged

	kindCount
)

var kindNames = [...]string{
	UnknownPacket:           "UnknownPacket",
	Handshake:               "Handshake",
	StatusRequest:           "StatusRequest",
	StatusResponse:          "StatusResponse",
	StatusPing:              "StatusPing",
	ServerLogin:             "ServerLogin",
	ServerLoginSuccess:      "ServerLoginSuccess",
	EncryptionRequest:       "EncryptionRequest",
	SetCompression:          "SetCompression",
	LoginPluginMessage:      "LoginPluginMessage",
	LoginPluginResponse:     "LoginPluginResponse",
	LoginAcknowledged:       "LoginAcknowledged",
	CookieRequest:           "CookieRequest",
	CookieResponse:          "CookieResponse",
	Disconnect:              "Disconnect",
	ClientSettings:          "ClientSettings",
	FinishedUpdate:          "FinishedUpdate",
	KeepAlive:               "KeepAlive",
	Ping:                    "Ping",
	Pong:                    "Pong",
	ResourcePackRequest:     "ResourcePackRequest",
	ResourcePackResponse:    "ResourcePackResponse",
	KnownPacks:              "KnownPacks",
	Transfer:                "Transfer",
	JoinGame:                "JoinGame",
	PositionSync:            "PositionSync",
	TeleportConfirm:         "TeleportConfirm",
	PlayerPosition:          "PlayerPosition",
	Chat:                    "Chat",
	PlayerCommand:           "PlayerCommand",
	HeldItemChange:          "HeldItemChange",
	SwingArm:                "SwingArm",
	StartUpdate:             "StartUpdate",
	StartUpdateAcknowledged: "StartUpdateAcknowledged",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}
