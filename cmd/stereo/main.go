package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "stereo",
		Usage:   "command-line client for the stereotype template service",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Usage:   "method, hostname, and port of the template service",
				EnvVars: []string{"STEREOTYPE_HOST"},
			},
			&cli.StringFlag{
				Name:     "access-token",
				Usage:    "bearer token for the template service",
				Required: true,
				EnvVars:  []string{"STEREOTYPE_ACCESS_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity: debug, info, warn, error",
				Value:   "info",
				EnvVars: []string{"STEREO_LOG_LEVEL"},
			},
		},
		Before: func(cctx *cli.Context) error {
			configLogger(cctx, os.Stderr)
			return nil
		},
	}
	app.Commands = []*cli.Command{
		cmdLs,
		cmdGet,
		cmdPut,
		cmdRm,
		cmdMaterialize,
		cmdExpand,
		cmdCheck,
	}
	return app.Run(args)
}

func configLogger(cctx *cli.Context, writer *os.File) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cctx.String("log-level")) {
	case "error":
		level = slog.LevelError
	case "warn":
		level = slog.LevelWarn
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}
