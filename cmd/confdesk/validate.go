package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sufield/confdesk/internal/adapters/outbound/compose"
	"github.com/sufield/confdesk/internal/config"
)

func validateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file and its seed data",
		Example: `  confdesk validate confdesk.yaml

  # Use in CI/CD pipelines
  if confdesk validate deploy/production.yaml; then
      echo "Configuration is valid"
  fi`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.configPath = args[0]
			}
			cfg, path, err := flags.loadConfig()
			if err != nil {
				return err
			}

			var seedSummary string
			if cfg.Storage.SeedFile != "" {
				seed, err := compose.LoadSeed(cfg.Storage.SeedFile)
				if err != nil {
					return err
				}
				if err := seed.Validate(); err != nil {
					return fmt.Errorf("invalid seed file: %w", err)
				}
				seedSummary = fmt.Sprintf("%d conferences, %d sponsor deals, %d proposals",
					len(seed.Conferences), len(seed.SponsorDeals), len(seed.Proposals))
			}

			if path == "" {
				path = "(defaults)"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ %s is valid\n\n", path)
			printConfigSummary(cmd, cfg, seedSummary)
			return nil
		},
	}
}

func printConfigSummary(cmd *cobra.Command, cfg *config.Config, seedSummary string) {
	t := newTableWriter("Setting", "Value")
	t.addRow("Listen address", cfg.Server.ListenAddr)
	t.addRow("TLS mode", cfg.Server.TLS.Mode)
	if cfg.Server.TLS.Mode == config.TLSModeSPIFFE {
		switch {
		case cfg.Server.TLS.AllowedClientSPIFFEID != "":
			t.addRow("Allowed client", cfg.Server.TLS.AllowedClientSPIFFEID)
		case cfg.Server.TLS.AllowedClientTrustDomain != "":
			t.addRow("Allowed trust domain", cfg.Server.TLS.AllowedClientTrustDomain)
		default:
			t.addRow("Allowed clients", "server trust domain")
		}
	}
	t.addRow("Storage", cfg.Storage.Driver)
	if seedSummary != "" {
		t.addRow("Seed", seedSummary)
	}
	t.addRow("Notifier", cfg.Notify.Driver)
	if cfg.SalesUpdate.Enabled {
		t.addRow("Sales update", fmt.Sprintf("every %s for %s", cfg.SalesUpdate.Interval, strings.Join(cfg.SalesUpdate.Conferences, ", ")))
	} else {
		t.addRow("Sales update", "disabled")
	}
	t.write(cmd.OutOrStdout())
}
