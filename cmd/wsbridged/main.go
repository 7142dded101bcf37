// File: cmd/wsbridged/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Command wsbridged runs the wsbridge protocol adapter as a standalone
// daemon hosting the built-in echo application. Real deployments embed
// server.Server with their own api.App instead.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/momentics/wsbridge/adapters"
	"github.com/momentics/wsbridge/api"
	"github.com/momentics/wsbridge/control"
	"github.com/momentics/wsbridge/server"
	"github.com/momentics/wsbridge/transport/tcp"
)

func main() {
	cmd := &cli.Command{
		Name:  "wsbridged",
		Usage: "WebSocket protocol bridge daemon",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML configuration file",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides the config file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger := initLogger(cmd.Bool("debug"))

	cfg := control.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := control.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.Addr = addr
	}

	store := control.NewConfigStore(cfg)
	metrics := control.NewMetricsRegistry()
	access := adapters.NewAccessLogger(logger)
	srv := server.New(echoApp, store, access, logger, metrics)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := tcp.Listen(ctx, cfg.Addr)
	if err != nil {
		return err
	}
	logger.Info().Str("addr", cfg.Addr).Int("max_message_size", cfg.MaxMessageSize).Msg("wsbridged listening")
	return srv.Serve(ctx, ln)
}

func initLogger(debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "wsbridged").Logger()
}

// echoApp accepts every handshake and mirrors each message back.
func echoApp(ctx context.Context, _ *api.Scope, receive api.ReceiveFunc, send api.SendFunc) error {
	for {
		ev, err := receive(ctx)
		if err != nil {
			return err
		}
		switch ev := ev.(type) {
		case api.Connected:
			if err := send(ctx, api.Accept{}); err != nil {
				return err
			}
		case api.Received:
			if err := send(ctx, api.Send{Bytes: ev.Bytes, Text: ev.Text}); err != nil {
				return err
			}
		case api.Disconnected:
			return nil
		}
	}
}
