package model

import "time"

// MaxButtons is the number of quick-reply buttons LINE accepts in one message.
const MaxButtons = 13

// MaxButtonLabel is the maximum quick-reply label length in characters.
const MaxButtonLabel = 20

// Dish is one recipe listed under a category
type Dish struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Format renders the dish as the answer sent when a user picks it
func (d Dish) Format() string {
	return d.Name + ": " + d.Description
}

// MemoRecord is one stored question/answer pair of a user
type MemoRecord struct {
	UserID   string    `json:"user_id"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// Button is a quick-reply action: Label is shown, Payload is sent back as the user's message
type Button struct {
	Label   string `json:"label"`
	Payload string `json:"payload"`
}

// Reply is one outbound message
type Reply struct {
	Text    string   `json:"text"`
	Buttons []Button `json:"buttons,omitempty"`
}

// TextReply builds a reply without buttons
func TextReply(text string) Reply {
	return Reply{Text: text}
}

// NewButton truncates the label to MaxButtonLabel characters and keeps the full text as payload
func NewButton(text string) Button {
	label := text
	if r := []rune(text); len(r) > MaxButtonLabel {
		label = string(r[:MaxButtonLabel])
	}
	return Button{Label: label, Payload: text}
}

// NewButtons builds at most MaxButtons buttons from the given texts, in order
func NewButtons(texts []string) []Button {
	if len(texts) > MaxButtons {
		texts = texts[:MaxButtons]
	}
	buttons := make([]Button, 0, len(texts))
	for _, t := range texts {
		buttons = append(buttons, NewButton(t))
	}
	return buttons
}
