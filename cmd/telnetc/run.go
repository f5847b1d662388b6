package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/Versifine/telnetc/internal/client"
	"github.com/Versifine/telnetc/internal/config"
	"github.com/Versifine/telnetc/internal/connector"
	"github.com/Versifine/telnetc/internal/logger"
)

func run(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit(fmt.Sprintf("Usage: %s [--timeout 10s] host port", c.App.Name), exitUsage)
	}
	host, port := c.Args().Get(0), c.Args().Get(1)

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to load config: %v", err), exitStartup)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: c.App.ErrWriter,
		File:   cfg.Logging.File,
	}); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to set up logging: %v", err), exitStartup)
	}
	defer func() { _ = logger.Close() }()

	timeout, err := config.ParseTimeout(cfg.Connect.Timeout)
	if err != nil {
		fmt.Fprintf(c.App.ErrWriter, "Invalid timeout syntax: %s\n", cfg.Connect.Timeout)
		fmt.Fprintln(c.App.ErrWriter, "Must consist of numbers and end in 's'.")
		fmt.Fprintln(c.App.ErrWriter, "Using default timeout of 10s.")
	}

	cl := client.New(client.Options{
		Host:       host,
		Port:       port,
		Timeout:    timeout,
		Greeting:   cfg.Connect.Greeting,
		BufferSize: cfg.Pump.BufferSize,
		Stdin:      c.App.Reader,
		Stdout:     c.App.Writer,
		Status:     c.App.ErrWriter,
	})
	res, err := cl.Run(c.Context)
	if err != nil {
		slog.Debug("Session did not start", "error", err)
		return cli.Exit(startupMessage(err), exitStartup)
	}
	slog.Debug("Exiting", "outcome", res.Outcome.String())
	// Every session ending, including reset and read errors, exits 0.
	return nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	// Explicit flags win over the file.
	if c.IsSet("timeout") || c.String("config") == "" {
		cfg.Connect.Timeout = c.String("timeout")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Logging.Format = c.String("log-format")
	}
	return cfg, nil
}

func startupMessage(err error) string {
	var kind string
	switch {
	case errors.Is(err, connector.ErrResolution):
		kind = "Could not resolve address"
	case errors.Is(err, connector.ErrConnectTimeout):
		kind = "Connection timed out"
	case errors.Is(err, connector.ErrInitialWrite):
		kind = "Could not send greeting"
	default:
		kind = "Could not connect"
	}
	return fmt.Sprintf("%s: %v", kind, err)
}
