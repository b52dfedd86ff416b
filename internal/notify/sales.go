package notify

import (
	"fmt"
	"strings"

	"github.com/sufield/confdesk/internal/domain"
)

const maxCategories = 5

var statusEmoji = map[domain.SalesStatus]string{
	domain.SalesAhead:   ":rocket:",
	domain.SalesOnTrack: ":white_check_mark:",
	domain.SalesBehind:  ":warning:",
}

var statusLabel = map[domain.SalesStatus]string{
	domain.SalesAhead:   "Ahead of target",
	domain.SalesOnTrack: "On track",
	domain.SalesBehind:  "Behind target",
}

// SalesUpdateMessage builds the periodic ticket sales update.
func SalesUpdateMessage(conf *domain.Conference, a *domain.TicketAnalysis) SlackMessage {
	stats := a.Statistics
	name := conf.DisplayName()

	msg := SlackMessage{
		Channel: conf.SlackChannel,
		Text: fmt.Sprintf("Ticket sales update for %s: %d paid tickets, %s revenue",
			name, stats.PaidTickets, FormatMoney(stats.TotalRevenue, conf.Currency)),
	}

	msg.Blocks = append(msg.Blocks,
		headerBlock("Ticket sales update: "+name),
		fieldsBlock(
			fmt.Sprintf("*Paid tickets*\n%d", stats.PaidTickets),
			fmt.Sprintf("*Free tickets*\n%d", stats.FreeTickets),
			fmt.Sprintf("*Revenue*\n%s", FormatMoney(stats.TotalRevenue, conf.Currency)),
			fmt.Sprintf("*Average price*\n%s", FormatMoney(stats.AverageTicketPrice, conf.Currency)),
			fmt.Sprintf("*Capacity used*\n%.1f%% (%d left)", stats.CapacityUsed, stats.CapacityRemaining),
			fmt.Sprintf("*Orders*\n%d", stats.TotalOrders),
		),
	)

	if p := a.Performance; p != nil {
		msg.Blocks = append(msg.Blocks, sectionBlock(performanceLine(p)))
	}

	if len(stats.Categories) > 0 {
		msg.Blocks = append(msg.Blocks, dividerBlock(), sectionBlock(categoryLines(stats.Categories, conf.Currency)))
	}

	if alloc := allocationLine(stats); alloc != "" {
		msg.Blocks = append(msg.Blocks, contextBlock(alloc))
	}

	var ctx []string
	if p := a.Performance; p != nil && p.NextMilestone != nil {
		m := p.NextMilestone
		label := m.Label
		if label == "" {
			label = m.Date.Format("Jan 2")
		}
		ctx = append(ctx, fmt.Sprintf(":calendar: Next milestone: *%s* (%.0f%%) in %s",
			escapeMrkdwn(label), m.TargetPercentage, pluralDays(p.DaysUntilNextMilestone)))
	}
	if p := a.Performance; p != nil {
		ctx = append(ctx, fmt.Sprintf(":hourglass: %s until the conference", pluralDays(p.DaysUntilConference)))
	}
	if len(ctx) > 0 {
		msg.Blocks = append(msg.Blocks, contextBlock(ctx...))
	}
	return msg
}

func performanceLine(p *domain.SalesPerformance) string {
	return fmt.Sprintf("%s *%s*: %.1f%% sold vs %.1f%% target (%+.1f pp, %+d tickets)",
		statusEmoji[p.Status], statusLabel[p.Status],
		p.CurrentPercentage, p.TargetPercentage, p.Variance, p.VarianceTickets)
}

func categoryLines(cats []domain.CategoryStat, currency string) string {
	var b strings.Builder
	b.WriteString("*Top categories*")
	for i, c := range cats {
		if i == maxCategories {
			fmt.Fprintf(&b, "\n_and %d more_", len(cats)-maxCategories)
			break
		}
		fmt.Fprintf(&b, "\n• %s: %d (%s)", escapeMrkdwn(c.Category), c.Tickets, FormatMoney(c.Revenue, currency))
	}
	return b.String()
}

func allocationLine(stats domain.TicketStatistics) string {
	var parts []string
	if stats.SponsorTickets > 0 {
		parts = append(parts, fmt.Sprintf("%d sponsor tickets (%.0f%% of allowance)", stats.SponsorTickets, stats.SponsorAllowanceUsed))
	}
	if stats.SpeakerTickets > 0 || stats.SpeakerTicketsMissing > 0 {
		parts = append(parts, fmt.Sprintf("%d speaker tickets", stats.SpeakerTickets))
	}
	if stats.SpeakerTicketsMissing > 0 {
		parts = append(parts, fmt.Sprintf(":bell: %d confirmed speakers without a ticket", stats.SpeakerTicketsMissing))
	}
	return strings.Join(parts, " · ")
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
