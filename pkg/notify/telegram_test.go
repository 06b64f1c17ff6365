package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramSend(t *testing.T) {
	var gotPath, gotChatID, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotChatID = r.PostFormValue("chat_id")
		gotText = r.PostFormValue("text")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	notifier := NewTelegramNotifier(TelegramConfig{
		BotToken: "bot-token",
		ChatID:   "-100",
		BaseURL:  server.URL,
	})

	err := notifier.Send(context.Background(), EventMeetingCreated, "m-2026-001")
	require.NoError(t, err)
	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "-100", gotChatID)
	assert.Contains(t, gotText, "The Meeting m-2026-001 it is created by admin")
	assert.Contains(t, gotText, "@ Fashion Week APP.")
}

func TestTelegramSendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok": false}`))
	}))
	defer server.Close()

	notifier := NewTelegramNotifier(TelegramConfig{BotToken: "x", ChatID: "1", BaseURL: server.URL})

	err := notifier.Send(context.Background(), EventUserCreated, "Lena Petit")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "telegram rejected"))
}

func TestTelegramSendUnknownEvent(t *testing.T) {
	notifier := NewTelegramNotifier(TelegramConfig{BotToken: "x", ChatID: "1"})

	err := notifier.Send(context.Background(), EventType("nope"), "ref")
	assert.Error(t, err)
}
