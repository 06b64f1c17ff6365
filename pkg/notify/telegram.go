package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// EventType identifies the side-channel alert to send.
type EventType string

const (
	EventMeetingCreated      EventType = "meetingCreated"
	EventMeetingEdited       EventType = "meetingEdited"
	EventMeetingNeedApproval EventType = "meetingNeedApproval"
	EventMeetingAccepted     EventType = "meetingAccepted"
	EventMeetingRejected     EventType = "meetingRejected"
	EventUserCreated         EventType = "userCreated"
)

var eventTexts = map[EventType]string{
	EventMeetingCreated:      "🟢 # Meetings #\nThe Meeting %s it is created by admin",
	EventMeetingEdited:       "🟢 # Meetings #\nThe Meeting %s it is edited by admin",
	EventMeetingNeedApproval: "🟠 # Meetings #\nThe Meeting %s it is created and needs approval.",
	EventMeetingAccepted:     "🟢 # Meetings #\nThe Meeting %s is now accepted by admin",
	EventMeetingRejected:     "🔴 # Meetings #\nThe Meeting %s is rejected by admin",
	EventUserCreated:         "🟢 # Contacts #\nA new contact %s it is created",
}

// TelegramConfig holds bot credentials.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	Timeout  time.Duration
	// BaseURL overrides the Telegram API host, used by tests.
	BaseURL string
}

// TelegramNotifier posts alert messages to a Telegram chat. Failures are
// reported to the caller but never block application flows.
type TelegramNotifier struct {
	cfg    TelegramConfig
	client *http.Client
}

// NewTelegramNotifier constructs a notifier with sane timeouts.
func NewTelegramNotifier(cfg TelegramConfig) *TelegramNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.telegram.org"
	}
	return &TelegramNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send posts the alert identified by event, interpolating the reference
// (meeting code or contact name) into the message body.
func (n *TelegramNotifier) Send(ctx context.Context, event EventType, reference string) error {
	template, ok := eventTexts[event]
	if !ok {
		return fmt.Errorf("unknown notification event %q", event)
	}

	footer := fmt.Sprintf("\nAt %s\n@ Fashion Week APP.", time.Now().Format("02/01/2006 - 15:04"))
	text := fmt.Sprintf(template, reference) + footer

	form := url.Values{}
	form.Set("chat_id", n.cfg.ChatID)
	form.Set("text", text)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.cfg.BaseURL, n.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var body struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode telegram response: %w", err)
	}
	if !body.OK {
		return fmt.Errorf("telegram rejected message (status %d)", resp.StatusCode)
	}
	return nil
}
