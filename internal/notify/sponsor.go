package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sufield/confdesk/internal/domain"
)

// SponsorPipelineMessage summarises the sponsor funnel of a conference.
func SponsorPipelineMessage(conf *domain.Conference, s domain.PipelineSummary) SlackMessage {
	name := conf.DisplayName()
	msg := SlackMessage{
		Channel: conf.SlackChannel,
		Text: fmt.Sprintf("Sponsor pipeline for %s: %d won, %d active, %s closed",
			name, s.WonDeals, s.ActiveDeals, FormatMoney(s.ClosedWonValue, conf.Currency)),
	}

	msg.Blocks = append(msg.Blocks,
		headerBlock("Sponsor pipeline: "+name),
		fieldsBlock(
			fmt.Sprintf("*Closed won*\n%d (%s)", s.WonDeals, FormatMoney(s.ClosedWonValue, conf.Currency)),
			fmt.Sprintf("*Active*\n%d", s.ActiveDeals),
			fmt.Sprintf("*Prospects*\n%d", s.Prospects),
			fmt.Sprintf("*Win rate*\n%.1f%%", s.WinRate),
			fmt.Sprintf("*Signed contracts*\n%d", s.SignedContracts),
			fmt.Sprintf("*Paid*\n%s", FormatMoney(s.PaidValue, conf.Currency)),
		),
	)

	funnel := []string{"*Funnel*"}
	for _, st := range domain.SponsorStatuses() {
		funnel = append(funnel, fmt.Sprintf("• %s: %d", st, s.ByStatus[string(st)]))
	}
	if n := s.ByStatus[domain.UnknownKey]; n > 0 {
		funnel = append(funnel, fmt.Sprintf("• %s: %d", domain.UnknownKey, n))
	}
	msg.Blocks = append(msg.Blocks, sectionBlock(strings.Join(funnel, "\n")))

	if !s.OverdueValue.IsZero() {
		msg.Blocks = append(msg.Blocks, sectionBlock(fmt.Sprintf(":warning: %s in overdue invoices",
			FormatMoney(s.OverdueValue, conf.Currency))))
	}

	if len(s.OpenByAssignee) > 0 {
		names := make([]string, 0, len(s.OpenByAssignee))
		for n := range s.OpenByAssignee {
			names = append(names, n)
		}
		sort.Strings(names)
		owners := make([]string, 0, len(names))
		for _, n := range names {
			owners = append(owners, fmt.Sprintf("%s: %d", escapeMrkdwn(n), s.OpenByAssignee[n]))
		}
		msg.Blocks = append(msg.Blocks, contextBlock("Open deals by owner: "+strings.Join(owners, ", ")))
	}
	return msg
}
