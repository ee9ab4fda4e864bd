package telegram

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/tinderbolt/internal/logging"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
)

// DefaultPollTimeout is the long-poll window of getUpdates.
const DefaultPollTimeout = 30 * time.Second

// pollRetryDelay is the pause after a failed getUpdates call.
const pollRetryDelay = 2 * time.Second

// Poller implements ports.EventSource with getUpdates long polling.
type Poller struct {
	client  *Client
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.EventSource = (*Poller)(nil)

// PollerOption configures the Poller.
type PollerOption func(*Poller)

// WithPollTimeout overrides DefaultPollTimeout.
func WithPollTimeout(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d >= 0 {
			p.timeout = d
		}
	}
}

// WithPollerLogger configures a logger for the Poller.
func WithPollerLogger(logger *slog.Logger) PollerOption {
	return func(p *Poller) {
		p.logger = logger
	}
}

// NewPoller creates a Poller.
func NewPoller(client *Client, opts ...PollerOption) *Poller {
	p := &Poller{
		client:  client,
		timeout: DefaultPollTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Events starts polling and returns the event stream.
// The channel is closed once ctx is done. Failed polls are logged and retried.
func (p *Poller) Events(ctx context.Context) (<-chan domain.Event, error) {
	// A registered webhook makes getUpdates fail.
	if err := p.client.DeleteWebhook(ctx); err != nil {
		return nil, err
	}

	out := make(chan domain.Event)
	go func() {
		defer close(out)
		var offset int
		for ctx.Err() == nil {
			updates, err := p.client.GetUpdates(ctx, offset, p.timeout)
			if err != nil {
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return
				}
				p.logger.Warn("getUpdates failed", "err", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(pollRetryDelay):
				}
				continue
			}

			for _, u := range updates {
				offset = u.UpdateID + 1
				ev, ok := EventOf(u)
				if !ok {
					continue
				}
				if ev.IsCallback() {
					ackCallback(ctx, p.client, p.logger, ev.CallbackID)
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func ackCallback(ctx context.Context, c *Client, logger *slog.Logger, id string) {
	if id == "" {
		return
	}
	if err := c.AnswerCallbackQuery(ctx, id); err != nil {
		logger.Debug("answerCallbackQuery failed", "err", err)
	}
}
