package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProposalStatus is the lifecycle state of a talk proposal.
type ProposalStatus string

const (
	ProposalDraft     ProposalStatus = "draft"
	ProposalSubmitted ProposalStatus = "submitted"
	ProposalAccepted  ProposalStatus = "accepted"
	ProposalConfirmed ProposalStatus = "confirmed"
	ProposalRejected  ProposalStatus = "rejected"
	ProposalWithdrawn ProposalStatus = "withdrawn"
	ProposalDeleted   ProposalStatus = "deleted"
)

// ProposalAction is something a speaker or organizer does to a proposal.
type ProposalAction string

const (
	ActionSubmit   ProposalAction = "submit"
	ActionUnsubmit ProposalAction = "unsubmit"
	ActionAccept   ProposalAction = "accept"
	ActionReject   ProposalAction = "reject"
	ActionConfirm  ProposalAction = "confirm"
	ActionWithdraw ProposalAction = "withdraw"
	ActionRemind   ProposalAction = "remind"
	ActionDelete   ProposalAction = "delete"
)

var proposalActions = []ProposalAction{
	ActionSubmit, ActionUnsubmit, ActionAccept, ActionReject,
	ActionConfirm, ActionWithdraw, ActionRemind, ActionDelete,
}

// ParseProposalAction converts a user supplied action name.
func ParseProposalAction(s string) (ProposalAction, error) {
	a := ProposalAction(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range proposalActions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProposalAction, s)
}

type transitionKey struct {
	from   ProposalStatus
	action ProposalAction
}

type transitionRule struct {
	to            ProposalStatus
	organizerOnly bool
}

// proposalTransitions is the complete table of allowed actions.
// Anything not listed is invalid.
var proposalTransitions = map[transitionKey]transitionRule{
	{ProposalDraft, ActionSubmit}: {to: ProposalSubmitted},
	{ProposalDraft, ActionDelete}: {to: ProposalDeleted},

	{ProposalSubmitted, ActionUnsubmit}: {to: ProposalDraft},
	{ProposalSubmitted, ActionAccept}:   {to: ProposalAccepted, organizerOnly: true},
	{ProposalSubmitted, ActionReject}:   {to: ProposalRejected, organizerOnly: true},

	{ProposalAccepted, ActionConfirm}:  {to: ProposalConfirmed},
	{ProposalAccepted, ActionWithdraw}: {to: ProposalWithdrawn},
	{ProposalAccepted, ActionRemind}:   {to: ProposalAccepted, organizerOnly: true},
	{ProposalAccepted, ActionReject}:   {to: ProposalRejected, organizerOnly: true},

	{ProposalRejected, ActionAccept}: {to: ProposalAccepted, organizerOnly: true},

	{ProposalConfirmed, ActionWithdraw}: {to: ProposalWithdrawn},
	{ProposalConfirmed, ActionReject}:   {to: ProposalRejected, organizerOnly: true},
}

// ProposalTransition looks up the status reached by applying action to a
// proposal in status current. The second result is false when the action is
// not allowed, in which case current is returned unchanged.
func ProposalTransition(current ProposalStatus, action ProposalAction, isOrganizer bool) (ProposalStatus, bool) {
	rule, ok := proposalTransitions[transitionKey{current, action}]
	if !ok || (rule.organizerOnly && !isOrganizer) {
		return current, false
	}
	return rule.to, true
}

// AllowedProposalActions lists the actions valid from current, in a stable order.
func AllowedProposalActions(current ProposalStatus, isOrganizer bool) []ProposalAction {
	var out []ProposalAction
	for _, a := range proposalActions {
		if _, ok := ProposalTransition(current, a, isOrganizer); ok {
			out = append(out, a)
		}
	}
	return out
}

// Proposal is a talk submitted to a conference's call for papers.
type Proposal struct {
	ID           string         `json:"id" yaml:"id"`
	ConferenceID string         `json:"conference_id" yaml:"conference_id"`
	Title        string         `json:"title" yaml:"title"`
	Format       string         `json:"format,omitempty" yaml:"format"`
	SpeakerName  string         `json:"speaker_name" yaml:"speaker_name"`
	SpeakerEmail string         `json:"speaker_email" yaml:"speaker_email"`
	Status       ProposalStatus `json:"status" yaml:"status"`
	UpdatedAt    time.Time      `json:"updated_at" yaml:"updated_at"`
}

// Validate checks the fields needed to route notifications.
// Returns ErrInvalidProposal if validation fails.
func (p Proposal) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidProposal)
	}
	if strings.TrimSpace(p.ConferenceID) == "" {
		return fmt.Errorf("%w: conference_id cannot be empty", ErrInvalidProposal)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidProposal)
	}
	switch p.Status {
	case ProposalDraft, ProposalSubmitted, ProposalAccepted, ProposalConfirmed,
		ProposalRejected, ProposalWithdrawn, ProposalDeleted:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidProposal, p.Status)
	}
	return nil
}

// Apply runs action through the transition table and returns the updated
// proposal. Returns ErrInvalidTransition when the action is not allowed.
func (p Proposal) Apply(action ProposalAction, isOrganizer bool, at time.Time) (Proposal, error) {
	next, ok := ProposalTransition(p.Status, action, isOrganizer)
	if !ok {
		return p, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, p.Status)
	}
	p.Status = next
	p.UpdatedAt = at
	return p, nil
}
