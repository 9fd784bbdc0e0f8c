package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const sendMessageURL = "https://api.telegram.org/bot%s/sendMessage"

// TelegramClient sends workshop notifications to masters through the
// Telegram Bot API.
type TelegramClient struct {
	botToken   string
	httpClient *http.Client
}

// NewTelegramClient builds a client with the given bot token.
func NewTelegramClient(botToken string) *TelegramClient {
	return &TelegramClient{
		botToken:   botToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage delivers one Markdown-formatted message to a chat.
func (c *TelegramClient) SendMessage(ctx context.Context, chatID, text string) error {
	if chatID == "" {
		return fmt.Errorf("empty chat ID")
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf(sendMessageURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}

// OrderAssignedMessage formats the notification a master receives when an
// order they are assigned to changes state.
func OrderAssignedMessage(orderID, status, carLabel string) string {
	msg := fmt.Sprintf("*Order update*\nOrder: `%s`\nStatus: *%s*", orderID, status)
	if carLabel != "" {
		msg += fmt.Sprintf("\nCar: %s", carLabel)
	}
	return msg
}
