package bot

import (
	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/state"
)

// handlers are the packets a bot reacts to per connection state.
// Everything else the server sends is read and discarded.
var handlers = map[proto.State]map[state.Kind]Handler{
	proto.StatusState: {
		state.StatusResponse: handle((*Session).handleStatusResponse),
		state.StatusPing:     handle((*Session).handleStatusPong),
	},
	proto.LoginState: {
		state.ServerLoginSuccess: handle((*Session).handleLoginSuccess),
		state.SetCompression:     handle((*Session).handleSetCompression),
		state.Disconnect:         handle((*Session).handleDisconnect),
		state.EncryptionRequest:  handle((*Session).handleEncryptionRequest),
		state.LoginPluginMessage: handle((*Session).handleLoginPluginMessage),
		state.CookieRequest:      handle((*Session).handleCookieRequest),
	},
	proto.ConfigState: {
		state.FinishedUpdate:      handle((*Session).handleFinishedUpdate),
		state.KeepAlive:           handle((*Session).handleKeepAlive),
		state.Ping:                handle((*Session).handlePing),
		state.CookieRequest:       handle((*Session).handleCookieRequest),
		state.ResourcePackRequest: handle((*Session).handleResourcePackRequest),
		state.KnownPacks:          handle((*Session).handleKnownPacks),
		state.Transfer:            handle((*Session).handleTransfer),
		state.Disconnect:          handle((*Session).handleDisconnect),
	},
	proto.PlayState: {
		state.KeepAlive:           handle((*Session).handleKeepAlive),
		state.JoinGame:            handle((*Session).handleJoinGame),
		state.PositionSync:        handle((*Session).handlePositionSync),
		state.Ping:                handle((*Session).handlePing),
		state.CookieRequest:       handle((*Session).handleCookieRequest),
		state.ResourcePackRequest: handle((*Session).handleResourcePackRequest),
		state.StartUpdate:         handle((*Session).handleStartUpdate),
		state.Disconnect:          handle((*Session).handleDisconnect),
	},
}
