package proto

import "fmt"

func s(names ...string) []string { return names }

var (
	Minecraft_1_20_5 = &Version{Protocol: 766, Names: s("1.20.5", "1.20.6")}
	Minecraft_1_21   = &Version{Protocol: 767, Names: s("1.21", "1.21.1")}

	// Versions ordered from lowest to highest.
	Versions = []*Version{
		Minecraft_1_20_5,
		Minecraft_1_21,
	}
)

var (
	// ProtocolToVersion maps a protocol id to its Version.
	ProtocolToVersion = func() map[Protocol]*Version {
		m := make(map[Protocol]*Version, len(Versions))
		for _, v := range Versions {
			m[v.Protocol] = v
		}
		return m
	}()

	// MinimumVersion is the lowest supported version.
	MinimumVersion = Versions[0]
	// MaximumVersion is the highest supported version.
	MaximumVersion = Versions[len(Versions)-1]
	// DefaultVersion is the version bots claim to speak unless configured otherwise.
	DefaultVersion = Minecraft_1_21
	// SupportedVersionsString is the supported versions range as a string.
	SupportedVersionsString = fmt.Sprintf("%s-%s", MinimumVersion, MaximumVersion)
)

// Supported returns true if bots can speak the protocol version.
func (p Protocol) Supported() bool {
	_, ok := ProtocolToVersion[p]
	return ok
}
