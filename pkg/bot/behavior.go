package bot

import (
	"math/rand/v2"
	"time"

	"go.minekube.com/stampede/pkg/config"
	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/packet"
)

// action is a synthetic player action.
type action func(b *behavior, s *Session) error

var actions = []action{
	(*behavior).chat,
	(*behavior).swingArm,
	(*behavior).toggleSneak,
	(*behavior).toggleSprint,
	(*behavior).heldItem,
}

// behavior makes teleported bots look like players.
type behavior struct {
	move       bool
	actEnabled bool
	interval   uint64
	messages   []string
	rand       *rand.Rand
}

func newBehavior(c config.Behavior, r *rand.Rand) *behavior {
	interval := c.ActionInterval
	if interval < 1 {
		interval = 1
	}
	return &behavior{
		move:       c.Move,
		actEnabled: c.Act,
		interval:   uint64(interval),
		messages:   c.ChatMessages,
		rand:       r,
	}
}

// act runs one tick of behavior for s. Only bots the server
// already positioned move or act.
func (b *behavior) act(s *Session, tick uint64) error {
	if !s.Teleported || s.State != proto.PlayState {
		return nil
	}
	if b.move {
		s.X += b.rand.Float64() - 0.5
		s.Z += b.rand.Float64() - 0.5
		if err := s.Send(&packet.PlayerPosition{X: s.X, Y: s.Y, Z: s.Z, OnGround: true}); err != nil {
			return err
		}
	}
	if !b.actEnabled || (tick+uint64(s.ID))%b.interval != 0 {
		return nil
	}
	n := len(actions)
	if len(b.messages) == 0 {
		n-- // skip chat
		return actions[1+b.rand.IntN(n)](b, s)
	}
	return actions[b.rand.IntN(n)](b, s)
}

func (b *behavior) chat(s *Session) error {
	return s.Send(&packet.Chat{
		Message:   b.messages[b.rand.IntN(len(b.messages))],
		Timestamp: time.Now(),
		Salt:      b.rand.Int64(),
	})
}

func (b *behavior) swingArm(s *Session) error {
	return s.Send(&packet.SwingArm{Hand: b.rand.IntN(2)})
}

func (b *behavior) toggleSneak(s *Session) error {
	a := packet.StartSneaking
	if s.sneaking {
		a = packet.StopSneaking
	}
	s.sneaking = !s.sneaking
	return s.Send(&packet.PlayerCommand{EntityID: int(s.EntityID), Action: a})
}

func (b *behavior) toggleSprint(s *Session) error {
	a := packet.StartSprinting
	if s.sprinting {
		a = packet.StopSprinting
	}
	s.sprinting = !s.sprinting
	return s.Send(&packet.PlayerCommand{EntityID: int(s.EntityID), Action: a})
}

func (b *behavior) heldItem(s *Session) error {
	return s.Send(&packet.HeldItemChange{Slot: int16(b.rand.IntN(9))})
}
