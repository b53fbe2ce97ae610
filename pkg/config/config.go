// Package config holds the configuration of a stampede run.
package config

import (
	"fmt"
	"net/netip"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"go.minekube.com/stampede/pkg/proto"
	"go.minekube.com/stampede/pkg/proto/packet"
	"go.minekube.com/stampede/pkg/util/configutil"
	"go.minekube.com/stampede/pkg/util/errs"
	"go.minekube.com/stampede/pkg/util/netutil"
	"go.minekube.com/stampede/pkg/util/validation"
)

// DefaultConfig is the default configuration.
var DefaultConfig = Config{
	Target:       "localhost:25565",
	Count:        1,
	Shards:       1,
	Protocol:     int(proto.DefaultVersion.Protocol),
	Tick:         50 * time.Millisecond,
	WriteTimeout: 5 * time.Second,
	DialTimeout:  10 * time.Second,
	StallTimeout: 0, // disabled
	NamePrefix:   "Bot_",
	NameOffset:   0,
	Admission: Admission{
		AvgJoinsPerTick:      5,
		MaxConnectsPerSecond: 0, // unlimited
	},
	Behavior: Behavior{
		Move:           true,
		Act:            true,
		ActionInterval: 4,
		ChatMessages: []string{
			"This is a chat message!",
			"Wow",
			"Server = on?",
		},
	},
	ClientInformation: ClientInformation{
		Locale:       "en_US",
		ViewDistance: 10,
	},
	Compression: Compression{
		Level: -1, // zlib default
	},
	ProxyProtocol: ProxyProtocol{
		Enabled:    false,
		SourceCIDR: "10.0.0.0/8",
	},
	Metrics: Metrics{
		Enabled: false,
		Bind:    "localhost:9464",
		Path:    "/metrics",
	},
}

// Config is the configuration of a stampede run.
type Config struct {
	Target string // host[:port] or unix:///path of the server under test.
	Count  int    // Total number of bots.
	Shards int    // Number of independent schedulers the bots are split across.

	Protocol int // Protocol version the bots announce.

	Tick         time.Duration // Length of a scheduler tick.
	WriteTimeout time.Duration
	DialTimeout  time.Duration
	// Disconnects bots not in play state this long after admission.
	// Zero disables the check.
	StallTimeout time.Duration

	NamePrefix string // Bots are named NamePrefix + index.
	NameOffset int    // Index of the first bot.

	Admission         Admission
	Behavior          Behavior
	ClientInformation ClientInformation
	Compression       Compression
	ProxyProtocol     ProxyProtocol
	Metrics           Metrics

	Debug bool
}

type (
	Admission struct {
		// Average number of bots admitted per tick across all shards.
		AvgJoinsPerTick float64
		// Upper limit of connection attempts per second per shard, 0 means unlimited.
		MaxConnectsPerSecond float64
	}
	Behavior struct {
		Move           bool // Random walk after the first teleport.
		Act            bool // Chat, swing, sneak, sprint and slot changes after the first teleport.
		ActionInterval int  // A bot acts every ActionInterval ticks.
		ChatMessages   []string
	}
	ClientInformation struct {
		Locale       string
		ViewDistance int
	}
	Compression struct {
		Level int // zlib level used when the server enables compression.
	}
	// ProxyProtocol sends a HAProxy PROXY protocol header with a distinct
	// source address per bot taken from SourceCIDR.
	ProxyProtocol struct {
		Enabled    bool
		SourceCIDR string
	}
	Metrics struct {
		Enabled bool
		Bind    string
		Path    string
	}
)

// SetDefaults registers DefaultConfig as defaults.
func SetDefaults(v configutil.SetDefault) {
	d := DefaultConfig
	v.SetDefault("target", d.Target)
	v.SetDefault("count", d.Count)
	v.SetDefault("shards", d.Shards)
	v.SetDefault("protocol", d.Protocol)
	v.SetDefault("tick", d.Tick)
	v.SetDefault("writeTimeout", d.WriteTimeout)
	v.SetDefault("dialTimeout", d.DialTimeout)
	v.SetDefault("stallTimeout", d.StallTimeout)
	v.SetDefault("namePrefix", d.NamePrefix)
	v.SetDefault("nameOffset", d.NameOffset)

	v.SetDefault("admission.avgJoinsPerTick", d.Admission.AvgJoinsPerTick)
	v.SetDefault("admission.maxConnectsPerSecond", d.Admission.MaxConnectsPerSecond)

	v.SetDefault("behavior.move", d.Behavior.Move)
	v.SetDefault("behavior.act", d.Behavior.Act)
	v.SetDefault("behavior.actionInterval", d.Behavior.ActionInterval)
	v.SetDefault("behavior.chatMessages", d.Behavior.ChatMessages)

	v.SetDefault("clientInformation.locale", d.ClientInformation.Locale)
	v.SetDefault("clientInformation.viewDistance", d.ClientInformation.ViewDistance)

	v.SetDefault("compression.level", d.Compression.Level)

	v.SetDefault("proxyProtocol.enabled", d.ProxyProtocol.Enabled)
	v.SetDefault("proxyProtocol.sourceCIDR", d.ProxyProtocol.SourceCIDR)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.bind", d.Metrics.Bind)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("debug", d.Debug)
}

// Load reads the Config from v.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		return nil, errs.ErrMissingConfig
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return &c, nil
}

// Validate validates a Config.
func (c *Config) Validate() (warns []error, errs []error) {
	e := func(m string, args ...any) { errs = append(errs, fmt.Errorf(m, args...)) }
	w := func(m string, args ...any) { warns = append(warns, fmt.Errorf(m, args...)) }
	if c == nil {
		e("config must not be nil")
		return
	}

	target, err := netutil.ParseTarget(c.Target)
	if err != nil {
		e("Invalid target: %v", err)
	}
	if c.Count < 1 {
		e("Invalid count %d, use a number >= 1", c.Count)
	}
	if c.Shards < 1 {
		e("Invalid shards %d, use a number >= 1", c.Shards)
	} else if c.Count > 0 && c.Shards > c.Count {
		w("More shards (%d) than bots (%d), %d shards will stay idle", c.Shards, c.Count, c.Shards-c.Count)
	}
	if !proto.Protocol(c.Protocol).Supported() {
		e("Unsupported protocol %d, supported versions are %s", c.Protocol, proto.SupportedVersionsString)
	}

	if c.Tick <= 0 {
		e("Invalid tick %s, must be > 0", c.Tick)
	}
	if c.WriteTimeout <= 0 {
		e("Invalid writeTimeout %s, must be > 0", c.WriteTimeout)
	}
	if c.DialTimeout <= 0 {
		e("Invalid dialTimeout %s, must be > 0", c.DialTimeout)
	}
	if c.StallTimeout < 0 {
		e("Invalid stallTimeout %s, must be >= 0", c.StallTimeout)
	}

	if c.NameOffset < 0 {
		e("Invalid nameOffset %d, use a number >= 0", c.NameOffset)
	}
	if c.Count > 0 {
		longest := c.NamePrefix + strconv.Itoa(c.NameOffset+c.Count-1)
		if len(longest) > packet.MaxUsernameLen {
			e("Bot names up to %q exceed %d characters, use a shorter namePrefix", longest, packet.MaxUsernameLen)
		}
	}

	if c.Admission.AvgJoinsPerTick <= 0 {
		e("Invalid admission.avgJoinsPerTick %v, must be > 0", c.Admission.AvgJoinsPerTick)
	}
	if c.Admission.MaxConnectsPerSecond < 0 {
		e("Invalid admission.maxConnectsPerSecond %v, must be >= 0", c.Admission.MaxConnectsPerSecond)
	}

	if c.Behavior.ActionInterval < 1 {
		e("Invalid behavior.actionInterval %d, use a number >= 1", c.Behavior.ActionInterval)
	}
	if c.Behavior.Act && len(c.Behavior.ChatMessages) == 0 {
		w("No behavior.chatMessages configured, bots will not chat")
	}

	if c.ClientInformation.ViewDistance < 2 || c.ClientInformation.ViewDistance > 32 {
		e("Invalid clientInformation.viewDistance %d, must be 2..32", c.ClientInformation.ViewDistance)
	}

	if c.Compression.Level < -1 || c.Compression.Level > 9 {
		e("Unsupported compression level %d: must be -1..9", c.Compression.Level)
	}

	if c.ProxyProtocol.Enabled {
		if _, err := netip.ParsePrefix(c.ProxyProtocol.SourceCIDR); err != nil {
			e("Invalid proxyProtocol.sourceCIDR %q: %v", c.ProxyProtocol.SourceCIDR, err)
		}
		if target != nil && target.Network == "unix" {
			e("proxyProtocol requires a tcp target, got %s", c.Target)
		}
	}

	if c.Metrics.Enabled {
		if err := validation.ValidHostPort(c.Metrics.Bind); err != nil {
			e("Invalid metrics bind address %q: %v", c.Metrics.Bind, err)
		}
		if c.Metrics.Path == "" || c.Metrics.Path[0] != '/' {
			e("Invalid metrics path %q, must start with /", c.Metrics.Path)
		}
	}
	return
}
