// Package openai implements ports.Completer with the OpenAI Chat Completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/tinderbolt/pkg/conversation"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrNoChoices is returned when the service answers without any completion.
var ErrNoChoices = errors.New("no choices returned")

// Options configure the Completer. Zero values fall back to the conversation defaults.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
	// MaxRetries enables the client's automatic retries. Zero sends each request once.
	MaxRetries  int
}

// Completer sends the whole history on every call; the service keeps no state.
type Completer struct {
	client *openai.Client
	opts   Options
}

var _ ports.Completer = (*Completer)(nil)

func defaults(optFns []func(*Options)) Options {
	opts := Options{
		Model:       conversation.DefaultModel,
		Temperature: conversation.DefaultTemperature,
		MaxTokens:   conversation.DefaultMaxTokens,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// New creates a Completer with its own client.
func New(optFns ...func(o *Options)) *Completer {
	opts := defaults(optFns)

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(opts.Timeout))
	}
	clientOpts = append(clientOpts, option.WithMaxRetries(max(opts.MaxRetries, 0)))

	client := openai.NewClient(clientOpts...)
	return &Completer{client: &client, opts: opts}
}

// NewFromClient creates a Completer from an existing client.
// Connection fields of Options are ignored.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Completer {
	return &Completer{client: client, opts: defaults(optFns)}
}

// Complete implements ports.Completer.
func (c *Completer) Complete(ctx context.Context, turns []domain.Turn) (domain.Turn, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(turns),
		Model:               openai.ChatModel(c.opts.Model),
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxTokens),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return domain.Turn{}, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Turn{}, ErrNoChoices
	}
	return domain.AssistantTurn(resp.Choices[0].Message.Content), nil
}

func buildMessages(turns []domain.Turn) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case domain.RoleSystem:
			messages = append(messages, openai.SystemMessage(t.Content))
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(t.Content))
		default:
			messages = append(messages, openai.UserMessage(t.Content))
		}
	}
	return messages
}
