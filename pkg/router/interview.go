package router

import (
	"context"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/session"
)

func (r *Router) enterInterview(ctx context.Context, s *session.State, kind domain.InterviewKind) error {
	iv := domain.NewInterview(kind)
	r.enter(ctx, s, iv)

	if _, err := r.sender.SendPhoto(ctx, s.ChatID, string(kind)); err != nil {
		return err
	}
	return r.ask(ctx, s, iv)
}

// ask sends the question of the current step.
func (r *Router) ask(ctx context.Context, s *session.State, iv domain.InterviewDialog) error {
	question, err := r.assets.LoadMessage(questionKey(string(iv.Kind), iv.Step))
	if err != nil {
		return err
	}
	_, err = r.sender.SendText(ctx, s.ChatID, question)
	return err
}

// interviewAnswer stores the answer of the current step. Before the last step it asks
// the next question; on the last step it submits the result, and any later answer
// overwrites the last field and submits again.
func (r *Router) interviewAnswer(ctx context.Context, s *session.State, iv domain.InterviewDialog, ev domain.Event) error {
	if ev.Text == "" {
		return nil
	}

	final := iv.Final()
	iv = iv.Answer(ev.Text)
	s.Dialog = iv

	if !final {
		return r.ask(ctx, s, iv)
	}

	prompt, err := r.assets.LoadPrompt(string(iv.Kind))
	if err != nil {
		return err
	}
	input := iv.Profile.Summary()
	if iv.Kind == domain.OpenerInterview && !r.openerSummary {
		input = ev.Text
	}
	return r.exchange(ctx, s, KeyThinking, exchangeStart, func(ctx context.Context) (string, error) {
		return s.Conversation.StartExchange(ctx, prompt, input)
	})
}
