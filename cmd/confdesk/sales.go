package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sufield/confdesk/internal/app"
	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/notify"
	"github.com/sufield/confdesk/internal/ports"
)

func salesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Ticket sales analysis and updates",
	}
	cmd.AddCommand(salesAnalyzeCmd(flags), salesUpdateCmd(flags), salesImportCmd(flags))
	return cmd
}

func salesAnalyzeCmd(flags *globalFlags) *cobra.Command {
	var (
		now     string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:     "analyze <conference-id>",
		Short:   "Print ticket statistics and target performance",
		Example: "  confdesk sales analyze cnd-2026 --now 2026-03-01T09:00:00Z",
		Args:    exactArgs("conference-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			return flags.withApp(commandContext(cmd), func(a *app.Application) error {
				report, err := a.Sales.Analyze(commandContext(cmd), args[0], at)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				printSalesReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&now, "now", "", "Evaluate at this RFC 3339 time instead of the current time")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the report as JSON")
	return cmd
}

func salesUpdateCmd(flags *globalFlags) *cobra.Command {
	var now string
	cmd := &cobra.Command{
		Use:   "update <conference-id>",
		Short: "Send the Slack sales update now",
		Args:  exactArgs("conference-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}
			return flags.withApp(commandContext(cmd), func(a *app.Application) error {
				report, err := a.Sales.SendUpdate(commandContext(cmd), args[0], at)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sales update sent for %s (%d tickets)\n",
					report.Conference.ID, report.Analysis.Statistics.TotalTickets)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&now, "now", "", "Evaluate at this RFC 3339 time instead of the current time")
	return cmd
}

func salesImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "import <conference-id> <orders.yaml>",
		Short:   "Import (upsert) ticket orders from a YAML export",
		Example: "  confdesk sales import cnd-2026 ./orders.yaml",
		Args:    exactArgs("conference-id", "orders.yaml"),
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := readOrders(args[1])
			if err != nil {
				return err
			}
			return flags.withApp(commandContext(cmd), func(a *app.Application) error {
				n, err := a.Sales.ImportOrders(commandContext(cmd), args[0], orders)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d ticket rows into %s\n", n, args[0])
				return nil
			})
		},
	}
}

// readOrders decodes a YAML list of ticket rows.
func readOrders(path string) ([]domain.TicketOrder, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 - path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read orders file: %w", err)
	}
	var orders []domain.TicketOrder
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&orders); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse orders file: %w", err)
	}
	return orders, nil
}

func printSalesReport(w io.Writer, report *ports.SalesReport) {
	conf := report.Conference
	stats := report.Analysis.Statistics

	fmt.Fprintf(w, "%s (%s)\n\n", conf.Title, conf.ID)

	t := newTableWriter("Metric", "Value")
	t.addRow("Tickets", strconv.Itoa(stats.TotalTickets))
	t.addRow("Paid", strconv.Itoa(stats.PaidTickets))
	t.addRow("Free", strconv.Itoa(stats.FreeTickets))
	t.addRow("Revenue", notify.FormatMoney(stats.TotalRevenue, conf.Currency))
	t.addRow("Outstanding", notify.FormatMoney(stats.OutstandingRevenue, conf.Currency))
	t.addRow("Average price", notify.FormatMoney(stats.AverageTicketPrice, conf.Currency))
	if stats.Capacity > 0 {
		t.addRow("Capacity used", fmt.Sprintf("%s of %d", pct(stats.CapacityUsed), stats.Capacity))
	}
	t.addRow("Speakers missing tickets", strconv.Itoa(stats.SpeakerTicketsMissing))
	t.write(w)

	if len(stats.Categories) > 0 {
		fmt.Fprintln(w)
		c := newTableWriter("Category", "Kind", "Tickets", "Paid", "Revenue")
		for _, cat := range stats.Categories {
			c.addRow(cat.Category, string(cat.Kind), strconv.Itoa(cat.Tickets),
				strconv.Itoa(cat.PaidTickets), notify.FormatMoney(cat.Revenue, conf.Currency))
		}
		c.write(w)
	}

	if perf := report.Analysis.Performance; perf != nil {
		fmt.Fprintln(w)
		p := newTableWriter("Target", "Value")
		p.addRow("Status", string(perf.Status))
		p.addRow("Actual", pct(perf.CurrentPercentage))
		p.addRow("Target", pct(perf.TargetPercentage))
		p.addRow("Variance", fmt.Sprintf("%+.1f pp (%+d tickets)", perf.Variance, perf.VarianceTickets))
		if perf.NextMilestone != nil {
			p.addRow("Next milestone", fmt.Sprintf("%s in %d days", perf.NextMilestone.Label, perf.DaysUntilNextMilestone))
		}
		p.addRow("Days to conference", strconv.Itoa(perf.DaysUntilConference))
		p.write(w)
	}
}
