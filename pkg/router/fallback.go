package router

import (
	"context"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/session"
)

// fallback echoes unmatched input with a formatting demo. The dialog is left as it was.
func (r *Router) fallback(ctx context.Context, s *session.State, ev domain.Event) error {
	input := ev.Text
	if ev.IsCallback() {
		input = ev.Data
	}

	for _, text := range []string{"*Hello!*", "_Hello!_", "You wrote " + input} {
		if _, err := r.sender.SendText(ctx, s.ChatID, text); err != nil {
			return err
		}
	}
	_, err := r.sender.SendButtons(ctx, s.ChatID, "Choose a mode:", FallbackButtons...)
	return err
}
