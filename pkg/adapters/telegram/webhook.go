package telegram

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aretw0/tinderbolt/internal/logging"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SecretHeader carries the secret token registered with SetWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Webhook implements ports.EventSource for webhook delivery.
// Mount it as the http.Handler of the webhook route.
type Webhook struct {
	client *Client
	secret string
	events chan domain.Event
	logger *slog.Logger
}

var (
	_ ports.EventSource = (*Webhook)(nil)
	_ http.Handler      = (*Webhook)(nil)
)

// NewWebhook creates a Webhook. A non-empty secret is required on every delivery.
// client may be nil, in which case button presses are not acknowledged.
func NewWebhook(client *Client, secret string, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Webhook{
		client: client,
		secret: secret,
		events: make(chan domain.Event, 64),
		logger: logger,
	}
}

// Events returns the stream fed by ServeHTTP.
func (w *Webhook) Events(ctx context.Context) (<-chan domain.Event, error) {
	return w.events, nil
}

// ServeHTTP accepts one update. It answers as soon as the update is queued;
// handling happens on the dispatcher.
func (w *Webhook) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if w.secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretHeader)), []byte(w.secret)) != 1 {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}

	var u tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(rw, "invalid update", http.StatusBadRequest)
		return
	}

	ev, ok := EventOf(u)
	if !ok {
		rw.WriteHeader(http.StatusOK)
		return
	}
	if ev.IsCallback() && w.client != nil {
		ackCallback(r.Context(), w.client, w.logger, ev.CallbackID)
	}

	select {
	case w.events <- ev:
		rw.WriteHeader(http.StatusOK)
	case <-r.Context().Done():
		// Telegram redelivers unacknowledged updates.
		http.Error(rw, "busy", http.StatusServiceUnavailable)
	}
}
