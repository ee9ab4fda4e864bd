// Package conversation owns the turn history of one session's exchange with
// the external conversation service.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
)

// Model parameters of the conversation service.
const (
	DefaultModel       = "gpt-4-turbo"
	DefaultMaxTokens   = 3000
	DefaultTemperature = 0.9
)

var errEmptyReply = errors.New("empty reply")

// Adapter threads the history through every call, since the service keeps no memory.
// It is not safe for concurrent use; the session lock serializes access.
type Adapter struct {
	completer ports.Completer
	history   []domain.Turn
}

// New creates an Adapter with an empty history.
func New(completer ports.Completer) *Adapter {
	return &Adapter{completer: completer}
}

// StartExchange discards prior history, submits [system, user] and appends the reply.
func (a *Adapter) StartExchange(ctx context.Context, systemPrompt, firstUserMessage string) (string, error) {
	turns := []domain.Turn{
		domain.SystemTurn(systemPrompt),
		domain.UserTurn(firstUserMessage),
	}
	return a.submit(ctx, turns)
}

// ContinueExchange appends a user message to the history, submits it all and appends the reply.
func (a *Adapter) ContinueExchange(ctx context.Context, userMessage string) (string, error) {
	turns := make([]domain.Turn, 0, len(a.history)+2)
	turns = append(turns, a.history...)
	turns = append(turns, domain.UserTurn(userMessage))
	return a.submit(ctx, turns)
}

// SetSystemPrompt resets the history to the system instruction alone.
func (a *Adapter) SetSystemPrompt(systemPrompt string) {
	a.history = []domain.Turn{domain.SystemTurn(systemPrompt)}
}

// Reset drops the whole history.
func (a *Adapter) Reset() {
	a.history = nil
}

// History returns a copy of the current turns.
func (a *Adapter) History() []domain.Turn {
	return append([]domain.Turn(nil), a.history...)
}

// Len returns the number of turns in the history.
func (a *Adapter) Len() int {
	return len(a.history)
}

// submit sends turns and commits them with the reply only on success,
// so a failed attempt leaves the history as it was.
func (a *Adapter) submit(ctx context.Context, turns []domain.Turn) (string, error) {
	if a.completer == nil {
		return "", fmt.Errorf("%w: no conversation service configured", domain.ErrExchangeFailed)
	}

	reply, err := a.completer.Complete(ctx, turns)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExchangeFailed, err)
	}
	if strings.TrimSpace(reply.Content) == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrExchangeFailed, errEmptyReply)
	}
	reply.Role = domain.RoleAssistant

	a.history = append(turns, reply)
	return reply.Content, nil
}
