package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sufield/confdesk"
	"github.com/sufield/confdesk/internal/adapters/outbound/compose"
	"github.com/sufield/confdesk/internal/app"
	"github.com/sufield/confdesk/internal/config"
	"github.com/sufield/confdesk/internal/logging"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "confdesk",
		Short: "Conference back-office: ticket sales, sponsors and proposals",
		Long: `confdesk tracks ticket sales against a target curve, summarises the
sponsor pipeline and drives the proposal review workflow.

Slack and email messages go to the configured notifier (log or NATS).
Configuration is read from --config or CONFDESK_CONFIG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML); defaults to $"+confdesk.ConfigEnv)
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Override log format (json, console)")

	cmd.AddCommand(
		serveCmd(flags),
		salesCmd(flags),
		sponsorsCmd(flags),
		proposalCmd(flags),
		validateCmd(flags),
		versionCmd(),
	)
	return cmd
}

// loadConfig resolves and loads the configuration, applying the log flags.
func (f *globalFlags) loadConfig() (*config.Config, string, error) {
	path := confdesk.ResolveConfigPath(f.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to load config: %w", err)
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	return cfg, path, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

// withApp bootstraps the application for a one-off command and tears it
// down afterwards. The scheduler is never started here.
func (f *globalFlags) withApp(ctx context.Context, fn func(*app.Application) error) (err error) {
	cfg, _, err := f.loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	application, err := app.Bootstrap(ctx, cfg, compose.NewAdapterFactory(logger), logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := application.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(application)
}

// exactArgs is cobra.ExactArgs with the argument names in the error.
func exactArgs(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != len(names) {
			return fmt.Errorf("%s requires %d argument(s): %s (got %d)",
				cmd.CommandPath(), len(names), strings.Join(names, " "), len(args))
		}
		return nil
	}
}
