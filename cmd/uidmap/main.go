// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/poiesic/uidmap/config"
	"github.com/poiesic/uidmap/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "uidmap",
		Usage: "Load uid/phone dumps into an indexed store and query it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML or TOML config file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the store file (directory for badger)",
				Value:   config.DefaultStorePath,
			},
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "Store backend (sqlite, badger, bolt)",
				Value:   string(storage.BackendSQLite),
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import qb*.txt dumps into the store",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "source-dir",
						Aliases: []string{"s"},
						Usage:   "Directory scanned for dump files",
						Value:   config.DefaultSourceDir,
					},
					&cli.StringFlag{
						Name:  "pattern",
						Usage: "File name glob inside the source directory",
						Value: config.DefaultPattern,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records committed per transaction",
						Value: config.DefaultBatchSize,
					},
					&cli.StringFlag{
						Name:  "metrics-file",
						Usage: "Write Prometheus metrics to this file after the run",
					},
					&cli.BoolFlag{
						Name:  "no-fallback",
						Usage: "Do not look in the working directory when the source directory has no dumps",
					},
				},
			},
			{
				Name:      "lookup",
				Usage:     "Look identifiers up by uid, then by phone number",
				ArgsUsage: "ID...",
				Action:    lookupCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "region",
						Usage: "Default region for phone number formatting",
						Value: config.DefaultRegion,
					},
				},
			},
			{
				Name:      "status",
				Usage:     "Report whether identifiers exist as a uid or phone number",
				ArgsUsage: "ID...",
				Action:    statusCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show store statistics",
				Action: statsCommand,
			},
			{
				Name:   "console",
				Usage:  "Interactive lookup console",
				Action: consoleCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "region",
						Usage: "Default region for phone number formatting",
						Value: config.DefaultRegion,
					},
				},
			},
		},
	}
}

// loadConfig builds the config from the optional file and the flags that
// were set explicitly. Flags win over the file.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var opts []config.Option
	if c.IsSet("db") {
		opts = append(opts, config.WithStorePath(c.String("db")))
	}
	if c.IsSet("backend") {
		opts = append(opts, config.WithBackend(storage.Backend(c.String("backend"))))
	}
	if c.IsSet("source-dir") {
		opts = append(opts, config.WithSourceDir(c.String("source-dir")))
	}
	if c.IsSet("pattern") {
		opts = append(opts, config.WithPattern(c.String("pattern")))
	}
	if c.IsSet("batch-size") {
		opts = append(opts, config.WithBatchSize(c.Int("batch-size")))
	}
	if c.IsSet("metrics-file") {
		opts = append(opts, config.WithMetricsFile(c.String("metrics-file")))
	}
	if c.Bool("no-fallback") {
		opts = append(opts, config.WithFallbackToCWD(false))
	}
	if c.IsSet("region") {
		opts = append(opts, config.WithRegion(c.String("region")))
	}
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// signalContext returns a context canceled on interrupt.
func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
