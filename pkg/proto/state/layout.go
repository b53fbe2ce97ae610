package state

import "go.minekube.com/stampede/pkg/proto"

// TeleportFlags are the bit masks in the flags byte of a PositionSync
// packet marking an axis as relative to the current position.
type TeleportFlags struct {
	X, Y, Z uint8
}

// apply returns cur+v if mask is set in flags and v otherwise.
func (f TeleportFlags) apply(flags, mask uint8, cur, v float64) float64 {
	if flags&mask != 0 {
		return cur + v
	}
	return v
}

// Apply returns the position after a PositionSync with the given flags.
func (f TeleportFlags) Apply(flags uint8, x, y, z, dx, dy, dz float64) (float64, float64, float64) {
	return f.apply(flags, f.X, x, dx),
		f.apply(flags, f.Y, y, dy),
		f.apply(flags, f.Z, z, dz)
}

// Layout holds the field layout choices of a protocol version that
// are not expressed by packet ids.
type Layout struct {
	Protocol      proto.Protocol
	TeleportFlags TeleportFlags
	// ChatAckBytes is the size of the acknowledged messages bitset of a Chat packet.
	ChatAckBytes int
}

var defaultLayout = Layout{
	TeleportFlags: TeleportFlags{X: 0b10000, Y: 0b01000, Z: 0b00100},
	ChatAckBytes:  3,
}

var layouts = func() map[proto.Protocol]*Layout {
	l := make(map[proto.Protocol]*Layout, len(proto.Versions))
	for _, ver := range proto.Versions {
		v := defaultLayout
		v.Protocol = ver.Protocol
		l[ver.Protocol] = &v
	}
	return l
}()

// LayoutOf returns the Layout of a protocol or nil if unsupported.
func LayoutOf(protocol proto.Protocol) *Layout {
	return layouts[protocol]
}
