package lark

import (
	"context"
	"encoding/json"
	"fmt"

	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
)

// Messenger delivers workflow notifications as Lark post messages addressed
// by email. Implements port.Notifier.
type Messenger struct {
	client *Client
	logger *zap.Logger
}

// NewMessenger creates a new Lark messenger.
func NewMessenger(client *Client, logger *zap.Logger) *Messenger {
	return &Messenger{client: client, logger: logger}
}

// Send delivers a subject/body notification to the recipient's email.
func (m *Messenger) Send(ctx context.Context, recipientEmail, subject, body string) error {
	if recipientEmail == "" {
		return fmt.Errorf("recipient email cannot be empty")
	}

	content, err := postContent(subject, body)
	if err != nil {
		return fmt.Errorf("failed to build message content: %w", err)
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType("email").
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(recipientEmail).
			MsgType("post").
			Content(content).
			Build()).
		Build()

	resp, err := m.client.client.Im.Message.Create(ctx, req)
	if err != nil {
		m.logger.Error("Failed to send message",
			zap.String("recipient", recipientEmail),
			zap.Error(err))
		return fmt.Errorf("failed to send message: %w", err)
	}

	if !resp.Success() {
		m.logger.Error("API returned failure",
			zap.String("recipient", recipientEmail),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return fmt.Errorf("API error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	m.logger.Info("Notification sent",
		zap.String("recipient", recipientEmail),
		zap.String("subject", subject))
	return nil
}

// postContent builds the rich-text post payload for a subject and body.
func postContent(subject, body string) (string, error) {
	payload := map[string]interface{}{
		"zh_cn": map[string]interface{}{
			"title": subject,
			"content": [][]map[string]string{
				{{"tag": "text", "text": body}},
			},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var _ port.Notifier = (*Messenger)(nil)
