package notify

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"sync"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/sufield/confdesk/internal/domain"
)

// ErrMissingRecipient is returned when an email has nobody to go to.
var ErrMissingRecipient = errors.New("email has no recipient")

// Email is a multipart message ready for an SMTP or API based mailer.
type Email struct {
	From    string   `json:"from,omitempty"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html"`
}

type emailCopy struct {
	subject string
	intro   string
}

var proposalEmails = map[domain.ProposalAction]emailCopy{
	domain.ActionSubmit: {
		subject: "We received your proposal %q for %s",
		intro:   "Thanks for submitting your proposal. The program committee will review it and get back to you.",
	},
	domain.ActionAccept: {
		subject: "Your talk %q was accepted for %s",
		intro:   "Great news: your talk was accepted! Please confirm that you are still able to present.",
	},
	domain.ActionReject: {
		subject: "Update on your proposal %q for %s",
		intro:   "Thank you for your proposal. Unfortunately we were not able to include it in the program this time.",
	},
	domain.ActionConfirm: {
		subject: "Thanks for confirming %q for %s",
		intro:   "Your talk is confirmed. We will be in touch with schedule and travel details.",
	},
	domain.ActionWithdraw: {
		subject: "Your talk %q was withdrawn from %s",
		intro:   "We have recorded that you withdrew your talk. We hope to see you at a future event.",
	},
	domain.ActionRemind: {
		subject: "Reminder: please confirm %q for %s",
		intro:   "Your talk was accepted but we have not heard back from you yet. Please confirm your participation.",
	},
}

// HasProposalEmail reports whether action sends the speaker an email.
func HasProposalEmail(action domain.ProposalAction) bool {
	_, ok := proposalEmails[action]
	return ok
}

const textBody = `Hi {{.Speaker}},

{{.Intro}}
{{if .Comment}}
Note from the organizers:

{{.Comment}}
{{end}}
Talk: {{.Title}}
Status: {{.Status}}

The {{.Conference}} team
`

const htmlBody = `<!DOCTYPE html>
<html>
<body>
<p>Hi {{.Speaker}},</p>
<p>{{.Intro}}</p>
{{- if .CommentHTML}}
<h4>Note from the organizers</h4>
<div class="comment">{{.CommentHTML}}</div>
{{- end}}
<p><strong>Talk:</strong> {{.Title}}<br><strong>Status:</strong> {{.Status}}</p>
<p>The {{.Conference}} team</p>
</body>
</html>
`

var (
	textTemplate = template.Must(template.New("proposal.txt").Parse(textBody))
	htmlTemplate = htmltemplate.Must(htmltemplate.New("proposal.html").Parse(htmlBody))
)

// The goldmark instance is configured once; Convert is safe for concurrent use.
var (
	markdownOnce sync.Once
	markdownConv goldmark.Markdown
)

func markdownConverter() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownConv = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownConv
}

// RenderMarkdown converts organizer supplied Markdown to HTML. Raw HTML in
// the input is dropped.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdownConverter().Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

type emailData struct {
	Speaker     string
	Intro       string
	Comment     string
	CommentHTML htmltemplate.HTML
	Title       string
	Status      domain.ProposalStatus
	Conference  string
}

// ProposalActionEmail builds the email sent to the speaker after action.
// comment is optional Markdown written by the organizer.
func ProposalActionEmail(conf *domain.Conference, p domain.Proposal, action domain.ProposalAction, comment string) (Email, error) {
	copyText, ok := proposalEmails[action]
	if !ok {
		return Email{}, fmt.Errorf("no email for action %q", action)
	}
	if strings.TrimSpace(p.SpeakerEmail) == "" {
		return Email{}, fmt.Errorf("%w: proposal %s has no speaker email", ErrMissingRecipient, p.ID)
	}

	speaker := p.SpeakerName
	if speaker == "" {
		speaker = "there"
	}
	data := emailData{
		Speaker:    speaker,
		Intro:      copyText.intro,
		Comment:    strings.TrimSpace(comment),
		Title:      p.Title,
		Status:     p.Status,
		Conference: conf.DisplayName(),
	}
	if data.Comment != "" {
		rendered, err := RenderMarkdown(data.Comment)
		if err != nil {
			return Email{}, err
		}
		// goldmark escapes raw HTML unless WithUnsafe is set.
		data.CommentHTML = htmltemplate.HTML(rendered) //nolint:gosec
	}

	var text, html bytes.Buffer
	if err := textTemplate.Execute(&text, data); err != nil {
		return Email{}, fmt.Errorf("failed to render text body: %w", err)
	}
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return Email{}, fmt.Errorf("failed to render html body: %w", err)
	}

	return Email{
		To:      []string{p.SpeakerEmail},
		Subject: fmt.Sprintf(copyText.subject, p.Title, conf.DisplayName()),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
