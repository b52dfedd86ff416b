package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sufield/confdesk/internal/app"
	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/notify"
	"github.com/sufield/confdesk/internal/ports"
)

func sponsorsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sponsors",
		Short: "Sponsor pipeline summary and deal updates",
	}
	cmd.AddCommand(sponsorsSummaryCmd(flags), sponsorsNotifyCmd(flags), sponsorsSetCmd(flags))
	return cmd
}

func sponsorsSummaryCmd(flags *globalFlags) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "summary <conference-id>",
		Short: "Print the sponsor pipeline summary",
		Args:  exactArgs("conference-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(commandContext(cmd), func(a *app.Application) error {
				report, err := a.Sponsors.Summary(commandContext(cmd), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				printSponsorReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the summary as JSON")
	return cmd
}

func sponsorsNotifyCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "notify <conference-id>",
		Short: "Send the pipeline summary to Slack",
		Args:  exactArgs("conference-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(commandContext(cmd), func(a *app.Application) error {
				report, err := a.Sponsors.Notify(commandContext(cmd), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pipeline summary sent for %s (%d deals)\n",
					report.Conference.ID, report.Summary.TotalDeals)
				return nil
			})
		},
	}
}

func sponsorsSetCmd(flags *globalFlags) *cobra.Command {
	var (
		deal  domain.SponsorDeal
		value string
	)
	cmd := &cobra.Command{
		Use:   "set <conference-id> <sponsor-name>",
		Short: "Create or update a sponsor deal",
		Example: `  confdesk sponsors set cnd-2026 Acme --tier Gold --status negotiating --assigned-to kari
  confdesk sponsors set cnd-2026 Acme --id deal-acme --status closed-won --contract contract-signed --value 50000`,
		Args: exactArgs("conference-id", "sponsor-name"),
		RunE: func(cmd *cobra.Command, args []string) error {
			deal.ConferenceID = args[0]
			deal.SponsorName = args[1]
			if value != "" {
				v, err := decimal.NewFromString(value)
				if err != nil {
					return fmt.Errorf("invalid --value %q: %w", value, err)
				}
				deal.ContractValue = v
			}
			return flags.withApp(commandContext(cmd), func(a *app.Application) error {
				saved, err := a.Sponsors.UpsertDeal(commandContext(cmd), deal)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved deal %s (%s, %s)\n", saved.ID, saved.SponsorName, saved.Status)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&deal.ID, "id", "", "Deal ID; generated when empty")
	f.StringVar(&deal.Tier, "tier", "", "Sponsorship tier")
	f.StringVar((*string)(&deal.Status), "status", string(domain.SponsorProspect), "Pipeline status")
	f.StringVar((*string)(&deal.ContractStatus), "contract", "", "Contract status")
	f.StringVar((*string)(&deal.InvoiceStatus), "invoice", "", "Invoice status")
	f.StringVar(&value, "value", "", "Contract value")
	f.StringVar(&deal.Currency, "currency", "", "Currency; defaults to the conference currency")
	f.StringVar(&deal.AssignedTo, "assigned-to", "", "Organizer owning the deal")
	return cmd
}

func printSponsorReport(w io.Writer, report *ports.SponsorReport) {
	conf := report.Conference
	s := report.Summary

	fmt.Fprintf(w, "%s (%s)\n\n", conf.Title, conf.ID)

	t := newTableWriter("Metric", "Value")
	t.addRow("Deals", strconv.Itoa(s.TotalDeals))
	t.addRow("Won", strconv.Itoa(s.WonDeals))
	t.addRow("Lost", strconv.Itoa(s.LostDeals))
	t.addRow("Active", strconv.Itoa(s.ActiveDeals))
	t.addRow("Win rate", pct(s.WinRate))
	t.addRow("Closed won", notify.FormatMoney(s.ClosedWonValue, conf.Currency))
	t.addRow("Invoiced", notify.FormatMoney(s.InvoicedValue, conf.Currency))
	t.addRow("Paid", notify.FormatMoney(s.PaidValue, conf.Currency))
	t.addRow("Overdue", notify.FormatMoney(s.OverdueValue, conf.Currency))
	t.write(w)

	fmt.Fprintln(w)
	st := newTableWriter("Status", "Deals")
	for _, k := range sortedKeys(s.ByStatus) {
		st.addRow(k, strconv.Itoa(s.ByStatus[k]))
	}
	st.write(w)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
