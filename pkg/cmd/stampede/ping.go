package stampede

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/robinbraemer/event"
	"github.com/urfave/cli/v2"

	"go.minekube.com/stampede/pkg/bot"
)

func pingCommand() *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "Ping a server and print its status",
		ArgsUsage: "<target>",
		Description: `Does a server list ping the same way the bots connect
and prints the status response and the round trip time.

	stampede ping localhost:25565`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "give up after this long",
				Value: 10 * time.Second,
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() > 1 {
				return cli.Exit("usage: stampede ping <target>", 1)
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			cfg.Count, cfg.Shards = 1, 1

			log, err := newLogger(cfg.Debug, c.Int("verbosity"))
			if err != nil {
				return cli.Exit(fmt.Errorf("error initializing logger: %w", err), 1)
			}
			if err := validate(log, cfg); err != nil {
				return cli.Exit(err, 1)
			}

			ctx, cancel := context.WithTimeout(logr.NewContext(c.Context, log), c.Duration("timeout"))
			defer cancel()

			var (
				result *bot.StatusPingEvent
				reason string
			)
			mgr := event.New()
			event.Subscribe(mgr, 0, func(e *bot.StatusPingEvent) { result = e })
			event.Subscribe(mgr, 0, func(e *bot.SessionDisconnectedEvent) { reason = e.Reason })

			sw, err := bot.New(bot.Options{Config: cfg, Logger: log, Event: mgr, Ping: true})
			if err != nil {
				return cli.Exit(err, 1)
			}
			if err := sw.Run(ctx); err != nil {
				return cli.Exit(err, 1)
			}
			if result == nil {
				if ctx.Err() != nil {
					reason = "timed out"
				}
				return cli.Exit(fmt.Sprintf("ping %s failed: %s", cfg.Target, reason), 1)
			}
			_, _ = fmt.Fprintf(c.App.Writer, "%s\nlatency: %s\n", result.Status, result.Latency)
			return nil
		},
	}
}
