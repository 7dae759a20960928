package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/logging"
	"github.com/MikeSquared-Agency/Topsis/internal/ranking"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

var version = "dev"

// app carries what every subcommand shares once the root has loaded it.
type app struct {
	configPath string
	envFile    string
	debug      bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "topsis",
		Short: "Rank alternatives against weighted criteria with TOPSIS",
		Long: `topsis ranks a set of alternatives by their closeness to the ideal
solution over weighted benefit and cost criteria.

Run it as an HTTP service (serve), rank a CSV file from the terminal (rank),
or load a CSV into the Postgres catalog (import).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// serve logs like a service; the others keep stdout for results
			w := cmd.ErrOrStderr()
			if cmd.Name() == "serve" {
				w = cmd.OutOrStdout()
			}
			return a.load(w)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return asConfigError(err)
	})

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the config, ignored when missing")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newServeCommand(a))
	cmd.AddCommand(newRankCommand(a))
	cmd.AddCommand(newImportCommand(a))

	return cmd
}

func (a *app) load(logOut io.Writer) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return asConfigError(err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return asConfigError(err)
	}
	if a.debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return asConfigError(err)
	}
	logger, err := logging.New(cfg.Logging, logOut)
	if err != nil {
		return asConfigError(err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) engine() *topsis.Engine {
	return topsis.NewEngine(a.cfg.Engine.Epsilon)
}

func (a *app) rankingOptions() ranking.Options {
	return ranking.Options{
		DefaultTopN: a.cfg.Ranking.DefaultTopN,
		PodiumSize:  a.cfg.Ranking.PodiumSize,
	}
}
