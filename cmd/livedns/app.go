package main

import (
	"context"
	"fmt"
	"io"

	"github.com/catalystcommunity/livedns/internal/config"
	"github.com/catalystcommunity/livedns/internal/credentials"
	"github.com/catalystcommunity/livedns/internal/livedns"
	"github.com/catalystcommunity/livedns/internal/logging"
	"github.com/catalystcommunity/livedns/internal/output"
	"github.com/catalystcommunity/livedns/internal/zone"
	"github.com/urfave/cli/v3"
)

// NewApp builds the root command writing to stdout and stderr
func NewApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "livedns",
		Usage:   "Manage LiveDNS zone records",
		Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		Description: `View, export and re-import Gandi LiveDNS zones.

The API key is read from the key file (--key-file, default ./api.key), then
from the GANDI_API_KEY environment variable, then from the OS keyring
(service "livedns", account "api-key").

Typical workflow:
  1. livedns pull          - Write every zone to ./zones/<name>_<uuid>.txt
  2. edit the zone files
  3. livedns push          - Replace the remote records with the file contents`,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("LIVEDNS_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "LiveDNS API base URL",
				Sources: cli.EnvVars("LIVEDNS_API_URL"),
			},
			&cli.StringFlag{
				Name:    "key-file",
				Usage:   "file holding the API key",
				Sources: cli.EnvVars("LIVEDNS_KEY_FILE"),
			},
			&cli.StringFlag{
				Name:    "zones-dir",
				Usage:   "directory holding the zone files",
				Sources: cli.EnvVars("LIVEDNS_ZONES_DIR"),
			},
			&cli.StringFlag{
				Name:    "color",
				Usage:   "colour output: auto, always or never",
				Sources: cli.EnvVars("LIVEDNS_COLOR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "diagnostic log level: debug, info, warn or error",
				Sources: cli.EnvVars("LIVEDNS_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "diagnostic log format: text or json",
				Sources: cli.EnvVars("LIVEDNS_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "zone-name",
				Aliases: []string{"n"},
				Usage:   "only handle the zone with this name (view, pull, push)",
			},
		},
		Commands: zoneCommands(),
		Action:   runRoot,
	}
}

// runRoot is reached only when no known command was given
func runRoot(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("%w: a command is required (choose from view, pull, push, new)", zone.ErrUsage)
	}
	_, err := zone.ParseCommand(cmd.Args().First())
	return err
}

func zoneCommands() []*cli.Command {
	commands := make([]*cli.Command, 0, len(zone.Commands()))
	for _, c := range zone.Commands() {
		commands = append(commands, &cli.Command{
			Name:      c.String(),
			Usage:     c.Usage(),
			ArgsUsage: c.ArgsUsage(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runZoneCommand(ctx, cmd, c)
			},
		})
	}
	return commands
}

func runZoneCommand(ctx context.Context, cmd *cli.Command, c zone.Command) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	stdout := cmd.Root().Writer
	stderr := cmd.Root().ErrWriter
	if _, err := logging.Configure(stderr, cfg.Log.Level, cfg.Log.Format, output.ColorEnabled(cfg.Color, stderr)); err != nil {
		return err
	}

	key, err := credentials.Default(cfg.KeyFile, credentials.DefaultEnvVar).Resolve()
	if err != nil {
		return err
	}
	cfg.APIKey = key

	client := livedns.NewClient(cfg.APIURL, cfg.APIKey)
	svc := zone.NewService(client, output.New(stdout, output.ColorEnabled(cfg.Color, stdout)), cfg.ZonesDir)

	opts := zone.Options{Args: cmd.Args().Slice()}
	if c.FiltersByZone() {
		opts.ZoneName = cmd.String("zone-name")
	}
	return svc.Dispatch(ctx, c, opts)
}

// buildConfig layers defaults, the config file and flags/environment
func buildConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Resolve(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// colorMode resolves the colour setting like buildConfig does,
// falling back to auto when the configuration cannot be loaded
func colorMode(cmd *cli.Command) string {
	cfg, err := config.Resolve(cmd.String("config"))
	if err != nil {
		cfg = &config.Config{}
	}
	applyFlags(cmd, cfg)
	if !output.ValidColorMode(cfg.Color) {
		return output.ColorAuto
	}
	return cfg.Color
}

// applyFlags overrides cfg with every flag or environment value that is set
func applyFlags(cmd *cli.Command, cfg *config.Config) {
	overrides := []struct {
		flag   string
		target *string
	}{
		{"api-url", &cfg.APIURL},
		{"key-file", &cfg.KeyFile},
		{"zones-dir", &cfg.ZonesDir},
		{"color", &cfg.Color},
		{"log-level", &cfg.Log.Level},
		{"log-format", &cfg.Log.Format},
	}
	for _, o := range overrides {
		if v := cmd.String(o.flag); v != "" {
			*o.target = v
		}
	}
}
