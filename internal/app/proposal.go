package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/notify"
	"github.com/sufield/confdesk/internal/ports"
)

// ProposalService applies proposal actions and notifies organizers and
// speakers.
type ProposalService struct {
	store        ports.Store
	notifier     ports.Notifier
	logger       *zap.Logger
	slackChannel string
	emailFrom    string
	opts         options
}

var _ ports.ProposalWorkflow = (*ProposalService)(nil)

// ProposalServiceOptions configures notification routing.
type ProposalServiceOptions struct {
	SlackChannel string
	EmailFrom    string
}

// NewProposalService wires a ProposalService.
func NewProposalService(store ports.Store, notifier ports.Notifier, logger *zap.Logger, cfg ProposalServiceOptions, opts ...Option) *ProposalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProposalService{
		store:        store,
		notifier:     notifier,
		logger:       logger.With(zap.String("service", "proposals")),
		slackChannel: cfg.SlackChannel,
		emailFrom:    cfg.EmailFrom,
		opts:         buildOptions(opts),
	}
}

// Get returns the proposal with the actions actor may take on it.
func (s *ProposalService) Get(ctx context.Context, proposalID string, actor ports.Actor) (*ports.ProposalView, error) {
	p, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("load proposal: %w", err)
	}
	return &ports.ProposalView{
		Proposal:       *p,
		AllowedActions: domain.AllowedProposalActions(p.Status, actor.IsOrganizer),
	}, nil
}

// Act applies action to the proposal, stores the new status and sends the
// notifications for it. Unsubmitting and deleting are silent. Notification
// failures are logged and do not undo the transition.
func (s *ProposalService) Act(ctx context.Context, proposalID string, action domain.ProposalAction, comment string, actor ports.Actor) (*ports.ProposalActionResult, error) {
	action, err := domain.ParseProposalAction(string(action))
	if err != nil {
		return nil, err
	}

	p, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("load proposal: %w", err)
	}

	now := s.opts.now().UTC()
	next, err := p.Apply(action, actor.IsOrganizer, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveProposal(ctx, next); err != nil {
		return nil, fmt.Errorf("save proposal %s: %w", next.ID, err)
	}

	log := s.logger.With(
		zap.String("proposal", next.ID),
		zap.String("action", string(action)),
		zap.String("actor", actor.ID),
		zap.String("status", string(next.Status)))
	log.Info("proposal action applied", zap.String("previous_status", string(p.Status)))

	result := &ports.ProposalActionResult{Proposal: next, PreviousStatus: p.Status}
	if silentAction(action) {
		return result, nil
	}

	conf, err := s.store.GetConference(ctx, next.ConferenceID)
	if err != nil {
		log.Warn("skipping proposal notifications", zap.Error(err))
		return result, nil
	}

	for _, n := range s.buildNotifications(conf, next, action, comment, actor, now, log) {
		if err := s.notifier.Notify(ctx, n); err != nil {
			log.Warn("proposal notification failed",
				zap.String("channel", string(n.Channel)),
				zap.Error(err))
			continue
		}
		result.Notifications++
	}
	return result, nil
}

func (s *ProposalService) buildNotifications(conf *domain.Conference, p domain.Proposal, action domain.ProposalAction, comment string, actor ports.Actor, now time.Time, log *zap.Logger) []ports.Notification {
	var out []ports.Notification

	msg := notify.ProposalActionMessage(conf, p, action, actor.ID)
	if msg.Channel == "" {
		msg.Channel = s.slackChannel
	}
	if n, err := slackNotification(s.opts.newID(), ports.KindProposalAction, conf.ID, msg, now); err != nil {
		log.Warn("failed to build slack notification", zap.Error(err))
	} else {
		out = append(out, n)
	}

	if !notify.HasProposalEmail(action) {
		return out
	}
	email, err := notify.ProposalActionEmail(conf, p, action, comment)
	switch {
	case errors.Is(err, notify.ErrMissingRecipient):
		log.Info("proposal has no speaker email, skipping email")
		return out
	case err != nil:
		log.Warn("failed to build proposal email", zap.Error(err))
		return out
	}
	email.From = s.emailFrom
	if n, err := emailNotification(s.opts.newID(), ports.KindProposalAction, conf.ID, email, now); err != nil {
		log.Warn("failed to encode proposal email", zap.Error(err))
	} else {
		out = append(out, n)
	}
	return out
}

func silentAction(action domain.ProposalAction) bool {
	return action == domain.ActionUnsubmit || action == domain.ActionDelete
}
