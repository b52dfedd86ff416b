package domain

import (
	"errors"
)

// Sentinel errors for common domain failures
// Use with errors.Is() for checking and fmt.Errorf("%w", ...) for wrapping with context

var (
	// ErrInvalidCapacity indicates the conference capacity is zero or negative
	ErrInvalidCapacity = errors.New("capacity must be greater than zero")

	// ErrInvalidSalesWindow indicates the sales start date is not before the conference date
	ErrInvalidSalesWindow = errors.New("sales window is invalid")

	// ErrUnknownTargetCurve indicates a target curve name outside the supported set
	ErrUnknownTargetCurve = errors.New("unknown target curve")

	// ErrInvalidMilestone indicates a milestone outside the sales window or out of order
	ErrInvalidMilestone = errors.New("invalid sales milestone")

	// ErrInvalidTicketOrder indicates a ticket row with impossible amounts
	ErrInvalidTicketOrder = errors.New("invalid ticket order")
)

// Validation errors for specific entities

var (
	// ErrInvalidSponsorDeal indicates sponsor deal validation failed
	ErrInvalidSponsorDeal = errors.New("sponsor deal validation failed")

	// ErrInvalidConference indicates conference validation failed
	ErrInvalidConference = errors.New("conference validation failed")

	// ErrInvalidProposal indicates proposal validation failed
	ErrInvalidProposal = errors.New("proposal validation failed")

	// ErrUnknownProposalAction indicates an action name outside the supported set
	ErrUnknownProposalAction = errors.New("unknown proposal action")

	// ErrInvalidTransition indicates the action is not allowed from the current status
	ErrInvalidTransition = errors.New("proposal action not allowed in current status")
)
