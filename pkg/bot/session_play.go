package bot

import (
	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/packet"
)

func (s *Session) handleJoinGame(p *packet.JoinGame) error {
	s.EntityID = p.EntityID
	s.log.V(1).Info("joined game", "entityID", p.EntityID)
	return nil
}

// handlePositionSync moves the bot where the server placed it
// and confirms the teleport.
func (s *Session) handlePositionSync(p *packet.PositionSync) error {
	s.X, s.Y, s.Z = s.layout.TeleportFlags.Apply(p.Flags, s.X, s.Y, s.Z, p.X, p.Y, p.Z)
	if err := s.Send(&packet.TeleportConfirm{TeleportID: p.TeleportID}); err != nil {
		return err
	}
	if !s.Teleported {
		s.Teleported = true
		s.sc.stats.Teleported.Inc()
	}
	return nil
}

// handleStartUpdate follows the server back into the config state.
func (s *Session) handleStartUpdate(*packet.StartUpdate) error {
	if err := s.Send(&packet.StartUpdateAcknowledged{}); err != nil {
		return err
	}
	s.setState(proto.ConfigState)
	return nil
}
