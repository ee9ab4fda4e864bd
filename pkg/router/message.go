package router

import (
	"context"
	"strings"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/session"
)

// TranscriptSeparator joins collected chat lines before submission.
const TranscriptSeparator = "\n\n"

func (r *Router) enterMessage(ctx context.Context, s *session.State) error {
	r.enter(ctx, s, domain.MessageDialog{})

	if _, err := r.sender.SendPhoto(ctx, s.ChatID, CmdMessage); err != nil {
		return err
	}
	text, err := r.assets.LoadMessage(CmdMessage)
	if err != nil {
		return err
	}
	_, err = r.sender.SendButtons(ctx, s.ChatID, text, MessageButtons...)
	return err
}

func messageKey(ev domain.Event) (string, bool) {
	key := ev.ButtonKey()
	if !strings.HasPrefix(key, MessagePrefix) {
		return "", false
	}
	switch key {
	case KeyMessageNext, KeyMessageDate:
		return key, true
	}
	return "", false
}

// messageAppend buffers a pasted chat line. Nothing is sent back.
func (r *Router) messageAppend(s *session.State, d domain.MessageDialog, ev domain.Event) error {
	if ev.Text == "" {
		return nil
	}
	d.Transcript = append(d.Transcript, ev.Text)
	s.Dialog = d
	return nil
}

// messageSuggest asks for the next line of the buffered chat. The buffer is kept.
func (r *Router) messageSuggest(ctx context.Context, s *session.State, d domain.MessageDialog, key string) error {
	prompt, err := r.assets.LoadPrompt(key)
	if err != nil {
		return err
	}
	transcript := strings.Join(d.Transcript, TranscriptSeparator)
	return r.exchange(ctx, s, KeyThinking, exchangeStart, func(ctx context.Context) (string, error) {
		return s.Conversation.StartExchange(ctx, prompt, transcript)
	})
}
