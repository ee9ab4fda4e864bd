package ports

import (
	"context"

	"github.com/aretw0/tinderbolt/pkg/domain"
)

// Completer is the external conversation service.
// It is stateless per request: the full history, led by the system turn, is sent every time.
// Model identifier, token budget and temperature are fixed when the Completer is built.
type Completer interface {
	Complete(ctx context.Context, turns []domain.Turn) (domain.Turn, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, turns []domain.Turn) (domain.Turn, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, turns []domain.Turn) (domain.Turn, error) {
	return f(ctx, turns)
}
