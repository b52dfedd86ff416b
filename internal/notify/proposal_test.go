package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/notify"
)

func acceptedProposal() domain.Proposal {
	return domain.Proposal{
		ID:           "p-42",
		ConferenceID: "cnd-2026",
		Title:        "Scaling NATS at the edge",
		Format:       "Lightning talk",
		SpeakerName:  "Ada Lovelace",
		SpeakerEmail: "ada@example.com",
		Status:       domain.ProposalAccepted,
	}
}

func TestProposalActionMessage(t *testing.T) {
	t.Parallel()

	msg := notify.ProposalActionMessage(testConference(), acceptedProposal(), domain.ActionAccept, "program-committee")

	assert.Equal(t, `program-committee accepted "Scaling NATS at the edge" by Ada Lovelace`, msg.Text)
	require.Len(t, msg.Blocks, 2)
	assert.Equal(t, ":tada: program-committee accepted *Scaling NATS at the edge* by Ada Lovelace", msg.Blocks[0].Text.Text)
	body := allText(msg)
	assert.Contains(t, body, "Status: *accepted*")
	assert.Contains(t, body, "Lightning talk")
}

func TestProposalActionEmail(t *testing.T) {
	t.Parallel()

	comment := "Please send your **slides** by May 1st.\n\n<script>alert(1)</script>"

	// Act
	email, err := notify.ProposalActionEmail(testConference(), acceptedProposal(), domain.ActionAccept, comment)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"ada@example.com"}, email.To)
	assert.Equal(t, `Your talk "Scaling NATS at the edge" was accepted for Cloud Native Days 2026`, email.Subject)

	assert.Contains(t, email.Text, "Hi Ada Lovelace,")
	assert.Contains(t, email.Text, "Please send your **slides** by May 1st.")
	assert.Contains(t, email.Text, "Status: accepted")

	assert.Contains(t, email.HTML, "<strong>slides</strong>")
	assert.NotContains(t, email.HTML, "<script>")
	assert.Contains(t, email.HTML, "The Cloud Native Days 2026 team")
}

func TestProposalActionEmail_NoComment(t *testing.T) {
	t.Parallel()

	email, err := notify.ProposalActionEmail(testConference(), acceptedProposal(), domain.ActionRemind, "  ")

	require.NoError(t, err)
	assert.NotContains(t, email.Text, "Note from the organizers")
	assert.NotContains(t, email.HTML, "comment")
	assert.Contains(t, email.Subject, "Reminder")
}

func TestProposalActionEmail_Errors(t *testing.T) {
	t.Parallel()

	p := acceptedProposal()
	_, err := notify.ProposalActionEmail(testConference(), p, domain.ActionDelete, "")
	require.Error(t, err)
	assert.False(t, notify.HasProposalEmail(domain.ActionDelete))

	p.SpeakerEmail = ""
	_, err = notify.ProposalActionEmail(testConference(), p, domain.ActionAccept, "")
	assert.ErrorIs(t, err, notify.ErrMissingRecipient)
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	html, err := notify.RenderMarkdown("- one\n- two")

	require.NoError(t, err)
	assert.Equal(t, "<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n", html)
}
