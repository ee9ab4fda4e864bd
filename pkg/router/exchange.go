package router

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/session"
)

const (
	exchangeStart    = "start"
	exchangeContinue = "continue"
)

// exchange shows a placeholder, runs call and edits the placeholder with the reply.
// A failed exchange is reported to the user by editing the placeholder with a notice;
// it is not returned, so the dialog stays where it was and the user can retry.
func (r *Router) exchange(ctx context.Context, s *session.State, placeholderKey, kind string, call func(context.Context) (string, error)) error {
	placeholderText, err := r.assets.LoadMessage(placeholderKey)
	if err != nil {
		return err
	}
	placeholder, err := r.sender.SendText(ctx, s.ChatID, placeholderText)
	if err != nil {
		return err
	}

	started := r.now()
	reply, err := call(ctx)
	r.reportExchange(ctx, s, kind, r.now().Sub(started), err)

	if err != nil {
		if !errors.Is(err, domain.ErrExchangeFailed) {
			return err
		}
		r.logger.Warn("exchange failed",
			"user_id", s.UserID,
			"mode", s.Mode(),
			"err", err,
		)
		notice, lerr := r.assets.LoadMessage(KeyExchangeFailed)
		if lerr != nil {
			return lerr
		}
		return r.sender.EditText(ctx, placeholder, notice)
	}

	return r.sender.EditText(ctx, placeholder, reply)
}

func (r *Router) reportExchange(ctx context.Context, s *session.State, kind string, d time.Duration, err error) {
	if r.hooks.OnExchange == nil {
		return
	}
	r.hooks.OnExchange(ctx, &domain.ExchangeEvent{
		HookEventBase: domain.HookEventBase{
			Timestamp: r.now(),
			Type:      domain.HookExchange,
			UserID:    s.UserID,
		},
		Mode:     s.Mode(),
		Kind:     kind,
		Duration: d,
		Err:      err,
	})
}
