package testutils

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/tinderbolt/pkg/adapters/memory"
	"github.com/aretw0/tinderbolt/pkg/domain"
)

// ErrScripted is returned by a Completer told to fail.
var ErrScripted = errors.New("scripted failure")

// NewAssets builds an asset set holding every given key.
// Texts are derived from the key with underscores replaced, so they are valid markdown.
func NewAssets(prompts, messages, images []string) *memory.Assets {
	a := memory.NewAssets()
	for _, k := range prompts {
		a.Prompts[k] = PromptText(k)
	}
	for _, k := range messages {
		a.Messages[k] = MessageText(k)
	}
	for _, k := range images {
		a.Images[k] = []byte("jpeg:" + k)
	}
	return a
}

// PromptText is the content NewAssets stores for a prompt key.
func PromptText(key string) string {
	return "prompt " + strings.ReplaceAll(key, "_", "-")
}

// MessageText is the content NewAssets stores for a message key.
func MessageText(key string) string {
	return "message " + strings.ReplaceAll(key, "_", "-")
}

// Completer is a scripted conversation service.
// It records every request and answers with Reply, or fails while Fail is set.
// Safe for concurrent use.
type Completer struct {
	mu    sync.Mutex
	calls [][]domain.Turn
	fail  bool
	reply func(turns []domain.Turn) string
}

// NewCompleter creates a Completer answering "reply <n>" to its n-th call.
func NewCompleter() *Completer {
	return &Completer{}
}

// Complete implements ports.Completer.
func (c *Completer) Complete(ctx context.Context, turns []domain.Turn) (domain.Turn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, append([]domain.Turn(nil), turns...))
	if c.fail {
		return domain.Turn{}, ErrScripted
	}
	if c.reply != nil {
		return domain.AssistantTurn(c.reply(turns)), nil
	}
	return domain.AssistantTurn("reply " + strconv.Itoa(len(c.calls))), nil
}

// Fail toggles failure of every later call.
func (c *Completer) Fail(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = fail
}

// ReplyWith replaces the default answers.
func (c *Completer) ReplyWith(fn func(turns []domain.Turn) string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reply = fn
}

// Calls returns a copy of every request received so far.
func (c *Completer) Calls() [][]domain.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]domain.Turn(nil), c.calls...)
}

// Last returns the most recent request, or nil.
func (c *Completer) Last() []domain.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		return nil
	}
	return c.calls[len(c.calls)-1]
}
