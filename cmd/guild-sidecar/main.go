package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/guild-sidecar/app"
	guildevents "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/domain/events"
	guildhooks "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/hooks"
	guildproducer "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/infrastructure/producer"
	"github.com/Black-And-White-Club/guild-sidecar/config"
	"github.com/Black-And-White-Club/guild-sidecar/pkg/eventbus"
	"github.com/Black-And-White-Club/guild-sidecar/pkg/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	cliApp := &cli.App{
		Name:    "guild-sidecar",
		Usage:   "dispatch guild membership events to game server hooks",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			newRunCommand(),
			newPublishCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, *observability.Observability, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := cfg.Observability.Level()
	if err != nil {
		return nil, nil, err
	}

	obs, err := observability.Init(c.Context, observability.Config{
		ServiceName:     "guild-sidecar",
		Environment:     cfg.Observability.Environment,
		Version:         version,
		LogLevel:        level,
		Output:          os.Stdout,
		OTLPEndpoint:    cfg.Observability.OTLPEndpoint,
		TraceSampleRate: cfg.Observability.TraceSampleRate,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return cfg, obs, nil
}

func newRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "consume guild member events and log each hook call",
		Action: func(c *cli.Context) error {
			cfg, obs, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger := obs.Logger

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApp(ctx, cfg, obs)
			if err != nil {
				return err
			}

			bindLoggingHooks(application.GuildModule.Hooks, logger)

			runErr := application.Run(ctx)
			stop()

			closeErr := application.Close(context.Background())
			return errors.Join(runErr, closeErr)
		},
	}
}

// bindLoggingHooks stands in for a game server binding its own callbacks.
func bindLoggingHooks(hooks *guildhooks.Registry, logger *slog.Logger) {
	for _, kind := range guildhooks.Kinds() {
		hooks.Set(kind, guildhooks.HandlerFunc(func(guildID, playerGUID uint64) {
			logger.Info("Guild hook fired",
				"hook", kind.String(),
				"guild_id", guildID,
				"player_guid", playerGUID,
			)
		}))
	}
}

func newPublishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "publish a single guild member event",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Value: "added", Usage: "added, left or kicked"},
			&cli.Uint64Flag{Name: "guild", Required: true, Usage: "guild id"},
			&cli.Uint64Flag{Name: "player", Required: true, Usage: "member GUID"},
			&cli.UintFlag{Name: "realm", Usage: "realm id (defaults to guild.realm_id)"},
			&cli.Uint64Flag{Name: "kicker", Usage: "kicker GUID for kicked events"},
		},
		Action: func(c *cli.Context) error {
			cfg, obs, err := loadConfig(c)
			if err != nil {
				return err
			}

			defer func() { _ = obs.Shutdown(context.Background()) }()

			bus, err := eventbus.NewEventBus(eventbus.Config{
				URL:        cfg.NATS.URL,
				ClientName: cfg.NATS.ClientName + "-publish",
				NKeySeed:   cfg.NATS.NKeySeed,
			}, obs.Logger, watermill.NewSlogLogger(obs.Logger))
			if err != nil {
				return err
			}
			defer bus.Close()

			realmID := cfg.Guild.RealmID
			if c.IsSet("realm") {
				realmID = uint32(c.Uint("realm"))
			}
			base := guildevents.GenericGuildEvent{RealmID: realmID, GuildID: c.Uint64("guild")}
			player := c.Uint64("player")

			producer := guildproducer.NewProducer(bus, cfg.Guild.EventVersion)
			switch c.String("kind") {
			case "added":
				err = producer.MemberAdded(&guildevents.MemberAddedPayload{GenericGuildEvent: base, MemberGUID: player})
			case "left":
				err = producer.MemberLeft(&guildevents.MemberLeftPayload{GenericGuildEvent: base, MemberGUID: player})
			case "kicked":
				err = producer.MemberKicked(&guildevents.MemberKickedPayload{
					GenericGuildEvent: base,
					MemberGUID:        player,
					KickerGUID:        c.Uint64("kicker"),
				})
			default:
				return fmt.Errorf("unknown event kind %q", c.String("kind"))
			}
			if err != nil {
				return fmt.Errorf("failed to publish: %w", err)
			}

			obs.Logger.Info("Published guild event", "kind", c.String("kind"), "guild_id", base.GuildID, "player_guid", player)
			return nil
		},
	}
}
