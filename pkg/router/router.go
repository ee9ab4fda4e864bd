package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tinderbolt/internal/logging"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/outbound"
	"github.com/aretw0/tinderbolt/pkg/ports"
	"github.com/aretw0/tinderbolt/pkg/session"
)

// Router resolves the session of each event under its lock and runs the matching handler.
type Router struct {
	sessions      *session.Manager
	sender        *outbound.Sender
	assets        ports.AssetLoader
	logger        *slog.Logger
	hooks         domain.LifecycleHooks
	openerSummary bool
	now           func() time.Time
}

// Option configures the Router.
type Option func(*Router)

// WithLogger configures a logger for the Router.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Router) {
		r.hooks = hooks
	}
}

// WithOpenerSummary makes the opener interview submit the whole collected profile
// instead of the last answer only.
func WithOpenerSummary(enabled bool) Option {
	return func(r *Router) {
		r.openerSummary = enabled
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		r.now = now
	}
}

// New creates a Router.
func New(sessions *session.Manager, sender *outbound.Sender, assets ports.AssetLoader, opts ...Option) *Router {
	r := &Router{
		sessions: sessions,
		sender:   sender,
		assets:   assets,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle processes one event to completion, including any exchange with the conversation service.
// Events of the same user are serialized; a gateway failure is returned and the event is dropped.
func (r *Router) Handle(ctx context.Context, ev domain.Event) error {
	return r.sessions.WithLock(ctx, ev.UserID, ev.ChatID, func(ctx context.Context, s *session.State) error {
		if err := r.route(ctx, s, ev); err != nil {
			return fmt.Errorf("handle update %d in mode %s: %w", ev.UpdateID, s.Mode(), err)
		}
		return nil
	})
}

func (r *Router) route(ctx context.Context, s *session.State, ev domain.Event) error {
	if ev.IsCommand() {
		switch ev.Command {
		case CmdStart:
			return r.start(ctx, s)
		case CmdGpt:
			return r.enterGpt(ctx, s)
		case CmdDate:
			return r.enterDate(ctx, s)
		case CmdMessage:
			return r.enterMessage(ctx, s)
		case CmdProfile:
			return r.enterInterview(ctx, s, domain.ProfileInterview)
		case CmdOpener:
			return r.enterInterview(ctx, s, domain.OpenerInterview)
		}
		return r.fallback(ctx, s, ev)
	}

	switch d := s.Dialog.(type) {
	case domain.GptDialog:
		if ev.Kind == domain.EventText {
			return r.gptText(ctx, s, ev)
		}
	case domain.DateDialog:
		if key, ok := r.personaKey(ev); ok {
			return r.datePick(ctx, s, key)
		}
		if ev.Kind == domain.EventText {
			return r.dateText(ctx, s, ev)
		}
	case domain.MessageDialog:
		if key, ok := messageKey(ev); ok {
			return r.messageSuggest(ctx, s, d, key)
		}
		if ev.Kind == domain.EventText {
			return r.messageAppend(s, d, ev)
		}
	case domain.InterviewDialog:
		if ev.Kind == domain.EventText {
			return r.interviewAnswer(ctx, s, d, ev)
		}
	}

	return r.fallback(ctx, s, ev)
}

// enter switches the dialog and reports the transition.
func (r *Router) enter(ctx context.Context, s *session.State, d domain.Dialog) {
	from := s.Mode()
	s.Enter(d)
	r.logger.Debug("mode entered", "user_id", s.UserID, "from", from, "to", d.Mode())
	if r.hooks.OnModeEnter != nil {
		r.hooks.OnModeEnter(ctx, &domain.ModeEvent{
			HookEventBase: domain.HookEventBase{
				Timestamp: r.now(),
				Type:      domain.HookModeEnter,
				UserID:    s.UserID,
			},
			From: from,
			To:   d.Mode(),
		})
	}
}

// greet sends the mode image followed by its message asset.
func (r *Router) greet(ctx context.Context, s *session.State, key string) error {
	if _, err := r.sender.SendPhoto(ctx, s.ChatID, key); err != nil {
		return err
	}
	text, err := r.assets.LoadMessage(key)
	if err != nil {
		return err
	}
	_, err = r.sender.SendText(ctx, s.ChatID, text)
	return err
}

func (r *Router) start(ctx context.Context, s *session.State) error {
	r.enter(ctx, s, domain.IdleDialog{})
	s.Conversation.Reset()

	if err := r.greet(ctx, s, KeyMain); err != nil {
		return err
	}
	return r.sender.ShowMainMenu(ctx, s.ChatID, MainMenu...)
}
