package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chzyer/readline"
	"github.com/example/admin-dashboard/internal/config"
	"github.com/example/admin-dashboard/internal/console"
	"github.com/example/admin-dashboard/internal/infrastructure/kafka"
	"github.com/example/admin-dashboard/internal/infrastructure/store"
	"github.com/example/admin-dashboard/internal/query"
	"github.com/example/admin-dashboard/internal/readmodel"
	"github.com/example/admin-dashboard/internal/resource"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "dashboard",
		Usage: "browse products, users and medicines from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "optional .env file to load before reading the environment",
			},
			&cli.StringFlag{
				Name:  "resource",
				Value: readmodel.ResourceProducts,
				Usage: "table to open first (products, users or medicines)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level for the console session",
			},
			&cli.StringFlag{
				Name:  "history",
				Usage: "readline history file (default ~/.dashboard_history)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-request timeout, overrides DASHBOARD_REQUEST_TIMEOUT",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	bootLogger := logrus.New()
	var files []string
	if f := c.String("env-file"); f != "" {
		files = append(files, f)
	}
	cfg, err := config.Load(bootLogger, files...)
	if err != nil {
		return err
	}
	if d := c.Duration("timeout"); d > 0 {
		cfg.RequestTimeout = d
	}

	logger := config.NewLogger(c.String("log-level"), "text")
	logger.SetOutput(os.Stderr)

	var observer resource.Observer
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer producer.Close()
		observer = kafka.NewFetchPublisher(producer)
	}

	clients := query.NewClients(cfg.Endpoints(), store.NewMemoryCache(), observer, logger)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyFile(c.String("history")),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize readline")
	}
	defer rl.Close()

	con, err := console.New(clients.Handler(), rl.Stdout(), logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	if name := c.String("resource"); name != readmodel.ResourceProducts {
		if _, err := con.Execute(ctx, "use "+name); err != nil {
			return err
		}
	}

	start := time.Now()
	err = con.Run(ctx, rl)
	logger.Debugf("Session ended after %s", time.Since(start).Round(time.Second))
	return err
}

func historyFile(flag string) string {
	if flag != "" {
		return flag
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".dashboard_history")
}
