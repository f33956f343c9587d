package line

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chefbot/src/model"

	"github.com/bytedance/sonic"
)

const replyPath = "/v2/bot/message/reply"

// Client sends replies through the LINE Messaging API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(config model.LineConfig) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(config.APIBaseURL, "/"),
		token:   config.ChannelToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

type textMessage struct {
	Type       string      `json:"type"`
	Text       string      `json:"text"`
	QuickReply *quickReply `json:"quickReply,omitempty"`
}

type quickReply struct {
	Items []quickReplyItem `json:"items"`
}

type quickReplyItem struct {
	Type   string        `json:"type"`
	Action messageAction `json:"action"`
}

type messageAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

func buildReply(replyToken string, reply model.Reply) replyRequest {
	msg := textMessage{Type: "text", Text: reply.Text}
	if len(reply.Buttons) > 0 {
		items := make([]quickReplyItem, len(reply.Buttons))
		for i, b := range reply.Buttons {
			items[i] = quickReplyItem{
				Type:   "action",
				Action: messageAction{Type: "message", Label: b.Label, Text: b.Payload},
			}
		}
		msg.QuickReply = &quickReply{Items: items}
	}
	return replyRequest{ReplyToken: replyToken, Messages: []textMessage{msg}}
}

// Reply answers one event. Failures are returned as is and never retried.
func (c *Client) Reply(ctx context.Context, replyToken string, reply model.Reply) error {
	payload, err := sonic.Marshal(buildReply(replyToken, reply))
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+replyPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("reply rejected with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
