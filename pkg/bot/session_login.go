package bot

import (
	"errors"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/codec"
	"go.minekube.com/stampede/pkg/proto/packet"
)

// ErrOnlineMode is the error of bots connecting to a server with authentication.
var ErrOnlineMode = errors.New("online-mode servers are unsupported")

// startLogin sends the handshake and login start right after connecting.
func (s *Session) startLogin() error {
	if err := s.Send(s.handshake(packet.NextLogin)); err != nil {
		return err
	}
	s.setState(proto.LoginState)
	if err := s.Send(&packet.ServerLogin{
		Username: s.Name,
		PlayerID: s.PlayerID,
	}); err != nil {
		return err
	}
	s.Joined = true
	return nil
}

func (s *Session) handshake(next int) *packet.Handshake {
	t := s.sc.target
	return &packet.Handshake{
		ProtocolVersion: int(s.sc.protocol),
		ServerAddress:   t.Host,
		Port:            int(t.Port),
		NextState:       next,
	}
}

func (s *Session) handleLoginSuccess(p *packet.ServerLoginSuccess) error {
	s.log.V(1).Info("logged in", "uuid", p.UUID)
	if err := s.Send(&packet.LoginAcknowledged{}); err != nil {
		return err
	}
	s.setState(proto.ConfigState)
	s.sc.stats.Configured.Inc()
	return s.Send(s.clientSettings())
}

func (s *Session) clientSettings() *packet.ClientSettings {
	ci := s.sc.cfg.ClientInformation
	return &packet.ClientSettings{
		Locale:               ci.Locale,
		ViewDistance:         byte(ci.ViewDistance),
		ChatVisibility:       0, // full
		ChatColors:           true,
		SkinParts:            0xFF,
		MainHand:             packet.RightHand,
		TextFiltering:        false,
		ClientListingAllowed: true,
	}
}

func (s *Session) handleSetCompression(p *packet.SetCompression) error {
	if p.Threshold < 0 {
		s.compressor = nil
		return nil
	}
	if s.compressor != nil {
		s.compressor.SetThreshold(p.Threshold)
		return nil
	}
	c, err := codec.NewCompressor(p.Threshold, s.sc.cfg.Compression.Level)
	if err != nil {
		return err
	}
	s.compressor = c
	s.log.V(1).Info("compression enabled", "threshold", p.Threshold)
	return nil
}

func (s *Session) handleDisconnect(p *packet.Disconnect) error {
	s.Disconnect("kicked: "+p.Reason, nil)
	return nil
}

func (s *Session) handleEncryptionRequest(*packet.EncryptionRequest) error {
	s.Disconnect("encryption requested", ErrOnlineMode)
	return nil
}

func (s *Session) handleLoginPluginMessage(p *packet.LoginPluginMessage) error {
	return s.Send(&packet.LoginPluginResponse{ID: p.ID, Success: false})
}

func (s *Session) handleCookieRequest(p *packet.CookieRequest) error {
	return s.Send(&packet.CookieResponse{Key: p.Key})
}
