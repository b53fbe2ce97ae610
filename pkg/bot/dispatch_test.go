package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/packet"
	"go.minekube.com/stampede/pkg/proto/state"
	"go.minekube.com/stampede/pkg/proto/util"
)

func TestNewDispatcher(t *testing.T) {
	for _, v := range proto.Versions {
		t.Run(v.String(), func(t *testing.T) {
			d, err := NewDispatcher(v.Protocol)
			require.NoError(t, err)
			assert.Equal(t, v.Protocol, d.Protocol())

			for st, kinds := range handlers {
				reg := state.FromDirection(proto.ClientBound, state.ByState(st), v.Protocol)
				for kind := range kinds {
					id, ok := reg.PacketID(kind)
					require.True(t, ok)
					_, ok = d.Lookup(st, id)
					assert.True(t, ok, "%s in %s", kind, st)
				}
			}
		})
	}

	_, err := NewDispatcher(47)
	assert.Error(t, err)
}

func TestNewDispatcher_unregisteredKind(t *testing.T) {
	_, err := newDispatcher(proto.DefaultVersion.Protocol, map[proto.State]map[state.Kind]Handler{
		proto.StatusState: {state.JoinGame: nil},
	})
	assert.Error(t, err)
}

func TestDispatcher_sameIDDifferentStates(t *testing.T) {
	d, err := NewDispatcher(proto.DefaultVersion.Protocol)
	require.NoError(t, err)

	// 0x00 is status response in status and login disconnect in login state
	_, ok := d.Lookup(proto.StatusState, 0x00)
	assert.True(t, ok)
	_, ok = d.Lookup(proto.LoginState, 0x00)
	assert.True(t, ok)
	_, ok = d.Lookup(proto.HandshakeState, 0x00)
	assert.False(t, ok)
	_, ok = d.Lookup(proto.State(200), 0x00)
	assert.False(t, ok)
}

func TestDispatcher_handlerError(t *testing.T) {
	var calls int
	d, err := newDispatcher(proto.DefaultVersion.Protocol, map[proto.State]map[state.Kind]Handler{
		proto.PlayState: {
			state.KeepAlive: handle(func(s *Session, p *packet.KeepAlive) error {
				calls++
				return assert.AnError
			}),
		},
	})
	require.NoError(t, err)

	s := newTestSession(t, proto.PlayState)
	body := util.NewBuf(0)
	ctx := &proto.PacketContext{Direction: proto.ClientBound, Protocol: proto.DefaultVersion.Protocol, State: proto.PlayState}
	require.NoError(t, packet.Encode(ctx, body, &packet.KeepAlive{RandomID: 1}))

	d.Dispatch(s, body.Bytes())
	assert.Equal(t, 1, calls)
	assert.True(t, s.Disconnected())
	assert.ErrorIs(t, s.Err(), assert.AnError)
}
