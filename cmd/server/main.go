package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:   "startpage",
		Usage:  "Self-hosted new tab page: shortcuts, search and suggestions",
		Action: serve,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Log at debug level",
				Sources: cli.EnvVars("DEBUG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: serve,
			},
			{
				Name:      "resolve",
				Usage:     "Print where a query would take you",
				ArgsUsage: "<query>",
				Action:    resolve,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "suggest",
						Usage: "Also print suggestions",
					},
				},
			},
			{
				Name:  "shortcuts",
				Usage: "Inspect and edit the stored shortcuts",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "Print every shortcut",
						Action: listShortcuts,
					},
					{
						Name:   "export",
						Usage:  "Print the shortcuts as a config file",
						Action: exportShortcuts,
					},
					{
						Name:      "import",
						Usage:     "Replace the shortcuts with those from a config file",
						ArgsUsage: "<file>",
						Action:    importShortcuts,
					},
					{
						Name:   "reset",
						Usage:  "Restore the built-in shortcuts",
						Action: resetShortcuts,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("startpage: error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cmd *cli.Command) *slog.Logger {
	level := slog.LevelInfo
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
