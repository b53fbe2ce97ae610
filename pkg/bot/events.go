package bot

import (
	"time"

	"github.com/google/uuid"
)

// Info identifies a bot in events.
type Info struct {
	ID       int
	Name     string
	PlayerID uuid.UUID
	Shard    int
}

func (s *Session) info() Info {
	return Info{ID: s.ID, Name: s.Name, PlayerID: s.PlayerID, Shard: s.Shard}
}

// Events are fired on the scheduler goroutine of the bot's shard,
// subscribers should not block.

// SessionConnectedEvent is fired when a bot connected and sent its login.
type SessionConnectedEvent struct {
	Bot Info
	// Local address of the TCP connection, empty for Unix sockets.
	LocalHost string
	LocalPort uint16
}

// SessionPlayEvent is fired when a bot finished configuration and entered the play state.
type SessionPlayEvent struct {
	Bot Info
}

// SessionDisconnectedEvent is fired when a bot was removed from the swarm.
type SessionDisconnectedEvent struct {
	Bot    Info
	Reason string
	Err    error // nil if the server closed the session on purpose
}

// StatusPingEvent is fired when a status ping completed.
type StatusPingEvent struct {
	Bot     Info
	Status  string // The JSON status response.
	Latency time.Duration
}
