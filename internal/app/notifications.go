package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sufield/confdesk/internal/notify"
	"github.com/sufield/confdesk/internal/ports"
)

func slackNotification(id, kind, conferenceID string, msg notify.SlackMessage, at time.Time) (ports.Notification, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return ports.Notification{}, fmt.Errorf("encode slack message: %w", err)
	}
	return ports.Notification{
		ID:           id,
		Kind:         kind,
		Channel:      ports.ChannelSlack,
		ConferenceID: conferenceID,
		Recipient:    msg.Channel,
		Payload:      payload,
		CreatedAt:    at.UTC(),
	}, nil
}

func emailNotification(id, kind, conferenceID string, email notify.Email, at time.Time) (ports.Notification, error) {
	payload, err := json.Marshal(email)
	if err != nil {
		return ports.Notification{}, fmt.Errorf("encode email: %w", err)
	}
	return ports.Notification{
		ID:           id,
		Kind:         kind,
		Channel:      ports.ChannelEmail,
		ConferenceID: conferenceID,
		Recipient:    strings.Join(email.To, ","),
		Subject:      email.Subject,
		Payload:      payload,
		CreatedAt:    at.UTC(),
	}, nil
}
