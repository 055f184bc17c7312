package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wonderfulspam/shapesmith/pkg/config"
)

var (
	configPath string
	logLevel   string

	// appConfig is populated by the root command before any subcommand runs
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "shapesmith",
	Short: "JSON response shape comparison and migration risk scoring",
	Long: `Shapesmith compares an old and a new version of a JSON API response,
reports every added, removed and retyped field, and rates the migration
risk of the change on a 0-100 scale.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd.ErrOrStderr(), logLevel); err != nil {
			return err
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appConfig = cfg

		log.Debug().
			Str("config", configPath).
			Int("max_depth", cfg.Limits.MaxDepth).
			Int64("max_bytes", cfg.Limits.MaxBytes).
			Msg("Configuration loaded")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML configuration file (default: ./shapesmith.toml, ~/.shapesmith.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

func setupLogging(w io.Writer, level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
