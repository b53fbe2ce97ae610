package bot

import (
	"fmt"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/packet"
)

func (s *Session) handleFinishedUpdate(*packet.FinishedUpdate) error {
	if err := s.Send(&packet.FinishedUpdate{}); err != nil {
		return err
	}
	s.setState(proto.PlayState)
	if !s.playing {
		s.playing = true
		s.sc.stats.Playing.Inc()
		s.sc.event.Fire(&SessionPlayEvent{Bot: s.info()})
	}
	return nil
}

func (s *Session) handleKeepAlive(p *packet.KeepAlive) error {
	return s.Send(&packet.KeepAlive{RandomID: p.RandomID})
}

func (s *Session) handlePing(p *packet.Ping) error {
	return s.Send(&packet.Pong{ID: p.ID})
}

func (s *Session) handleResourcePackRequest(p *packet.ResourcePackRequest) error {
	if err := s.Send(&packet.ResourcePackResponse{
		ID:     p.ID,
		Status: packet.AcceptedResourcePackResponseStatus,
	}); err != nil {
		return err
	}
	return s.Send(&packet.ResourcePackResponse{
		ID:     p.ID,
		Status: packet.SuccessfulResourcePackResponseStatus,
	})
}

// handleKnownPacks claims to know every pack the server offered.
func (s *Session) handleKnownPacks(p *packet.KnownPacks) error {
	return s.Send(&packet.KnownPacks{Packs: p.Packs})
}

func (s *Session) handleTransfer(p *packet.Transfer) error {
	s.Disconnect(fmt.Sprintf("transfer unsupported: %s:%d", p.Host, p.Port), nil)
	return nil
}
