package router

import (
	"context"
	"strings"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/session"
)

func (r *Router) enterDate(ctx context.Context, s *session.State) error {
	r.enter(ctx, s, domain.DateDialog{})

	if _, err := r.sender.SendPhoto(ctx, s.ChatID, CmdDate); err != nil {
		return err
	}
	text, err := r.assets.LoadMessage(CmdDate)
	if err != nil {
		return err
	}
	_, err = r.sender.SendButtons(ctx, s.ChatID, text, Personas...)
	return err
}

// personaKey returns the persona chosen by a button press.
// Keys with the date prefix that name no known persona are not accepted.
func (r *Router) personaKey(ev domain.Event) (string, bool) {
	key := ev.ButtonKey()
	if !strings.HasPrefix(key, DatePrefix) {
		return "", false
	}
	for i := 1; i < len(Personas); i += 2 {
		if Personas[i] == key {
			return key, true
		}
	}
	r.logger.Debug("unknown persona", "key", key)
	return "", false
}

// datePick seeds the conversation with the persona and shows the scenario.
func (r *Router) datePick(ctx context.Context, s *session.State, key string) error {
	prompt, err := r.assets.LoadPrompt(key)
	if err != nil {
		return err
	}
	s.Conversation.SetSystemPrompt(prompt)
	s.Dialog = domain.DateDialog{Persona: key}

	if _, err := r.sender.SendPhoto(ctx, s.ChatID, key); err != nil {
		return err
	}
	scenario, err := r.assets.LoadMessage(KeyDateScenario)
	if err != nil {
		return err
	}
	_, err = r.sender.SendText(ctx, s.ChatID, scenario)
	return err
}

// dateText continues the role-play with the chosen persona.
func (r *Router) dateText(ctx context.Context, s *session.State, ev domain.Event) error {
	if ev.Text == "" {
		return nil
	}
	return r.exchange(ctx, s, KeyDateTyping, exchangeContinue, func(ctx context.Context) (string, error) {
		return s.Conversation.ContinueExchange(ctx, ev.Text)
	})
}
