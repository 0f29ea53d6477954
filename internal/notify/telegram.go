package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hodastore/store-api/internal/apperr"
)

const telegramAPI = "https://api.telegram.org"

// TelegramSender posts to the Bot API sendMessage endpoint. BaseURL is
// overridable for tests.
type TelegramSender struct {
	HTTP    *http.Client
	Token   string
	ChatID  string
	BaseURL string
}

func (s *TelegramSender) Send(ctx context.Context, msg Message) error {
	base := s.BaseURL
	if base == "" {
		base = telegramAPI
	}
	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	text := msg.Body
	if msg.Subject != "" {
		text = msg.Subject + "\n\n" + msg.Body
	}
	body, err := json.Marshal(map[string]string{"chat_id": s.ChatID, "text": text})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", base, s.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrNotification, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrNotification, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: telegram responded %d", apperr.ErrNotification, resp.StatusCode)
	}
	return nil
}
