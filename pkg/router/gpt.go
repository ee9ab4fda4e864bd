package router

import (
	"context"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/session"
)

func (r *Router) enterGpt(ctx context.Context, s *session.State) error {
	r.enter(ctx, s, domain.GptDialog{})
	return r.greet(ctx, s, CmdGpt)
}

// gptText answers every message with a fresh single-shot exchange.
func (r *Router) gptText(ctx context.Context, s *session.State, ev domain.Event) error {
	if ev.Text == "" {
		return nil
	}
	prompt, err := r.assets.LoadPrompt(CmdGpt)
	if err != nil {
		return err
	}
	return r.exchange(ctx, s, KeyThinking, exchangeStart, func(ctx context.Context) (string, error) {
		return s.Conversation.StartExchange(ctx, prompt, ev.Text)
	})
}
