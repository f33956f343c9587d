package line

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Webhook is the body LINE posts to the callback endpoint
type Webhook struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

type Event struct {
	Type           string   `json:"type"`
	ReplyToken     string   `json:"replyToken"`
	WebhookEventID string   `json:"webhookEventId"`
	Timestamp      int64    `json:"timestamp"`
	Source         Source   `json:"source"`
	Message        *Message `json:"message,omitempty"`
}

type Source struct {
	Type    string `json:"type"` // user | group | room
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TextEvent is an inbound text message ready for dispatch
type TextEvent struct {
	ReplyToken string
	UserID     string
	Text       string
}

// ParseWebhook decodes a callback body
func ParseWebhook(body []byte) (*Webhook, error) {
	var hook Webhook
	if err := sonic.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}
	return &hook, nil
}

// TextEvents returns the text message events in delivery order
func (w *Webhook) TextEvents() []TextEvent {
	var events []TextEvent
	for _, e := range w.Events {
		if e.Type != "message" || e.Message == nil || e.Message.Type != "text" {
			continue
		}
		if e.ReplyToken == "" || e.Source.UserID == "" {
			continue
		}
		events = append(events, TextEvent{
			ReplyToken: e.ReplyToken,
			UserID:     e.Source.UserID,
			Text:       e.Message.Text,
		})
	}
	return events
}
