package bot

import (
	"time"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/packet"
)

// startStatus sends the handshake and status request of a server list ping.
func (s *Session) startStatus() error {
	if err := s.Send(s.handshake(packet.NextStatus)); err != nil {
		return err
	}
	s.setState(proto.StatusState)
	return s.Send(&packet.StatusRequest{})
}

func (s *Session) handleStatusResponse(p *packet.StatusResponse) error {
	s.status = p.Status
	s.statusSentAt = time.Now()
	return s.Send(&packet.StatusPing{RandomID: s.statusSentAt.UnixMilli()})
}

func (s *Session) handleStatusPong(p *packet.StatusPing) error {
	latency := time.Since(s.statusSentAt)
	s.log.V(1).Info("status ping", "latency", latency)
	s.sc.event.Fire(&StatusPingEvent{
		Bot:     s.info(),
		Status:  s.status,
		Latency: latency,
	})
	s.Disconnect("status ping complete", nil)
	return nil
}
