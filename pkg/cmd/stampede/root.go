// Package stampede is the command line interface of stampede.
package stampede

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/robinbraemer/event"
	"github.com/rs/xid"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"go.minekube.com/stampede/pkg/bot"
	"go.minekube.com/stampede/pkg/config"
	"go.minekube.com/stampede/pkg/telemetry"
	"go.minekube.com/stampede/pkg/util/interrupt"
	"go.minekube.com/stampede/pkg/version"
)

const envPrefix = "STAMPEDE"

// Execute runs App() and calls os.Exit when finished.
func Execute() {
	if err := App().Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// App returns the stampede cli app.
func App() *cli.App {
	app := cli.NewApp()
	app.Name = "stampede"
	app.Usage = "Minecraft Java edition load testing bots"
	app.Description = `Stampede connects a swarm of bots to a Minecraft Java edition server.
The bots log in offline-mode, walk around randomly and chat until stopped.

	stampede localhost:25565 500
	stampede --joins 2 --stall-timeout 30s mc.example.com 2000 8
	stampede ping localhost:25565

Options are read from flags, environment variables prefixed with ` + envPrefix + `_
and the config file, in this order of precedence.`
	app.ArgsUsage = "<target> <count> [shards]"
	app.Version = version.String()
	app.HideHelpCommand = true

	// -v is used for verbosity
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}

	app.Flags = flags()
	app.Commands = []*cli.Command{
		configCommand(),
		pingCommand(),
	}
	app.Action = func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return cli.Exit(err, 1)
		}
		log, err := newLogger(cfg.Debug, c.Int("verbosity"))
		if err != nil {
			return cli.Exit(fmt.Errorf("error initializing logger: %w", err), 1)
		}
		ctx, stop := interrupt.TerminationContext(logr.NewContext(c.Context, log))
		defer stop()
		if err := run(ctx, cfg, c.Duration("report")); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}
	return app
}

// flagKeys maps flags to the config keys they override.
var flagKeys = map[string]string{
	"target":        "target",
	"count":         "count",
	"shards":        "shards",
	"protocol":      "protocol",
	"tick":          "tick",
	"stall-timeout": "stallTimeout",
	"name-prefix":   "namePrefix",
	"name-offset":   "nameOffset",
	"joins":         "admission.avgJoinsPerTick",
	"max-connects":  "admission.maxConnectsPerSecond",
	"move":          "behavior.move",
	"act":           "behavior.act",
	"proxy-cidr":    "proxyProtocol.sourceCIDR",
	"metrics":       "metrics.bind",
	"debug":         "debug",
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file, ignored if the default one does not exist",
			Value:   "stampede.yml",
			EnvVars: []string{envPrefix + "_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "enable debug logging",
		},
		&cli.IntFlag{
			Name:    "verbosity",
			Aliases: []string{"v"},
			Usage:   "log verbosity level, higher logs more",
		},
		&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Usage: "server address, host[:port] or unix:///path", DefaultText: config.DefaultConfig.Target},
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "number of bots", DefaultText: strconv.Itoa(config.DefaultConfig.Count)},
		&cli.IntFlag{Name: "shards", Aliases: []string{"s"}, Usage: "number of schedulers", DefaultText: "number of CPUs"},
		&cli.IntFlag{Name: "protocol", Aliases: []string{"p"}, Usage: "protocol version the bots announce", DefaultText: strconv.Itoa(config.DefaultConfig.Protocol)},
		&cli.DurationFlag{Name: "tick", Usage: "scheduler tick length", DefaultText: config.DefaultConfig.Tick.String()},
		&cli.DurationFlag{Name: "stall-timeout", Usage: "disconnect bots not playing after this long, 0 disables", DefaultText: config.DefaultConfig.StallTimeout.String()},
		&cli.StringFlag{Name: "name-prefix", Usage: "bot name prefix", DefaultText: config.DefaultConfig.NamePrefix},
		&cli.IntFlag{Name: "name-offset", Usage: "index of the first bot name", DefaultText: strconv.Itoa(config.DefaultConfig.NameOffset)},
		&cli.Float64Flag{Name: "joins", Aliases: []string{"j"}, Usage: "average bots admitted per tick", DefaultText: strconv.FormatFloat(config.DefaultConfig.Admission.AvgJoinsPerTick, 'g', -1, 64)},
		&cli.Float64Flag{Name: "max-connects", Usage: "connection attempts per second and shard, 0 is unlimited"},
		&cli.BoolFlag{Name: "move", Usage: "walk around randomly once spawned", Value: config.DefaultConfig.Behavior.Move},
		&cli.BoolFlag{Name: "act", Usage: "chat, swing, sneak, sprint and switch slots once spawned", Value: config.DefaultConfig.Behavior.Act},
		&cli.StringFlag{Name: "proxy-cidr", Usage: "send PROXY protocol headers with source addresses from this CIDR"},
		&cli.StringFlag{Name: "metrics", Usage: "serve prometheus metrics on this address"},
		&cli.DurationFlag{Name: "report", Usage: "interval of progress logs, 0 disables", Value: 5 * time.Second},
	}
}

// loadConfig builds the Config from defaults, the config file,
// environment variables, flags and positional arguments.
func loadConfig(c *cli.Context) (*config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)
	v.SetDefault("shards", runtime.NumCPU())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := c.String("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			if c.IsSet("config") || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file %q: %w", file, err)
			}
		}
	}

	for name, key := range flagKeys {
		if c.IsSet(name) {
			v.Set(key, c.Value(name))
		}
	}
	if c.IsSet("proxy-cidr") {
		v.Set("proxyProtocol.enabled", true)
	}
	if c.IsSet("metrics") {
		v.Set("metrics.enabled", true)
	}
	if err := bindArgs(v, c.Args().Slice()); err != nil {
		return nil, err
	}
	return config.Load(v)
}

// bindArgs applies the positional arguments <target> <count> [shards].
func bindArgs(v *viper.Viper, args []string) error {
	if len(args) > 3 {
		return fmt.Errorf("too many arguments, usage: <target> <count> [shards]")
	}
	if len(args) > 0 {
		v.Set("target", args[0])
	}
	for i, key := range []string{"count", "shards"} {
		if len(args) <= i+1 {
			break
		}
		n, err := strconv.Atoi(args[i+1])
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, args[i+1], err)
		}
		v.Set(key, n)
	}
	return nil
}

// validate logs config warnings and joins its errors.
func validate(log logr.Logger, cfg *config.Config) error {
	warns, errs := cfg.Validate()
	for _, w := range warns {
		log.Info("config validation warning", "warn", w.Error())
	}
	if len(errs) != 0 {
		return fmt.Errorf("config validation error: %w", errors.Join(errs...))
	}
	return nil
}

func run(ctx context.Context, cfg *config.Config, reportEvery time.Duration) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("run", xid.New().String())
	ctx = logr.NewContext(ctx, log)
	if err := validate(log, cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mgr := event.New()
	reasons := newReasonSummary(mgr)

	if cfg.Metrics.Enabled {
		tel, err := telemetry.New(ctx, cfg.Metrics, telemetry.Options{Logger: log, Global: true})
		if err != nil {
			return fmt.Errorf("error initializing telemetry: %w", err)
		}
		defer func() { _ = tel.Shutdown(context.Background()) }()
		if err := tel.InstrumentSwarm(mgr); err != nil {
			return fmt.Errorf("error instrumenting swarm: %w", err)
		}
		go func() {
			if err := tel.Serve(ctx); err != nil {
				log.Error(err, "metrics endpoint failed")
			}
		}()
	}

	sw, err := bot.New(bot.Options{Config: cfg, Logger: log, Event: mgr})
	if err != nil {
		return err
	}
	go report(ctx, log, sw.Stats(), reportEvery)

	err = sw.Run(ctx)
	if kv := reasons.keysAndValues(); len(kv) != 0 {
		log.Info("disconnect reasons", kv...)
	}
	return err
}
