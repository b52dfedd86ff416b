package notify

import (
	"fmt"

	"github.com/sufield/confdesk/internal/domain"
)

var actionVerb = map[domain.ProposalAction]string{
	domain.ActionSubmit:   "submitted",
	domain.ActionUnsubmit: "moved back to draft",
	domain.ActionAccept:   "accepted",
	domain.ActionReject:   "rejected",
	domain.ActionConfirm:  "confirmed",
	domain.ActionWithdraw: "withdrew",
	domain.ActionRemind:   "sent a reminder for",
	domain.ActionDelete:   "deleted",
}

var actionEmoji = map[domain.ProposalAction]string{
	domain.ActionSubmit:   ":inbox_tray:",
	domain.ActionAccept:   ":tada:",
	domain.ActionReject:   ":x:",
	domain.ActionConfirm:  ":white_check_mark:",
	domain.ActionWithdraw: ":wave:",
	domain.ActionRemind:   ":bell:",
}

// ProposalActionMessage tells organizers what happened to a proposal.
// p is the proposal after the action was applied.
func ProposalActionMessage(conf *domain.Conference, p domain.Proposal, action domain.ProposalAction, actor string) SlackMessage {
	if actor == "" {
		actor = "Someone"
	}
	verb, ok := actionVerb[action]
	if !ok {
		verb = string(action)
	}
	speaker := p.SpeakerName
	if speaker == "" {
		speaker = "unknown speaker"
	}

	text := fmt.Sprintf("%s %s %q by %s", actor, verb, p.Title, speaker)
	line := fmt.Sprintf("%s %s %s *%s* by %s",
		actionEmoji[action], escapeMrkdwn(actor), verb, escapeMrkdwn(p.Title), escapeMrkdwn(speaker))

	ctx := []string{fmt.Sprintf("Status: *%s*", p.Status), escapeMrkdwn(conf.DisplayName())}
	if p.Format != "" {
		ctx = append(ctx, escapeMrkdwn(p.Format))
	}

	return SlackMessage{
		Channel: conf.SlackChannel,
		Text:    text,
		Blocks:  []Block{sectionBlock(line), contextBlock(ctx...)},
	}
}
