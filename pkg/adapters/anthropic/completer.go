// Package anthropic implements ports.Completer with the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aretw0/tinderbolt/pkg/conversation"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
)

// DefaultModel is used when Options.Model is empty.
const DefaultModel = "claude-3-5-sonnet-latest"

// ErrNoText is returned when the reply carries no text block.
var ErrNoText = errors.New("no text in response")

// Options configure the Completer.
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

// Completer maps the leading system turn to the system parameter and sends the rest as messages.
type Completer struct {
	client *anthropic.Client
	opts   Options
}

var _ ports.Completer = (*Completer)(nil)

func defaults(optFns []func(*Options)) Options {
	opts := Options{
		Model:       DefaultModel,
		Temperature: conversation.DefaultTemperature,
		MaxTokens:   conversation.DefaultMaxTokens,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	// The Messages API caps temperature at 1.
	if opts.Temperature > 1 {
		opts.Temperature = 1
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

	client := anthropic.NewClient(clientOpts...)
	return &Completer{client: &client, opts: opts}
}

// NewFromClient creates a Completer from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Completer {
	return &Completer{client: client, opts: defaults(optFns)}
}

// Complete implements ports.Completer.
func (c *Completer) Complete(ctx context.Context, turns []domain.Turn) (domain.Turn, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.opts.Model),
		Messages:    buildMessages(turns),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
	}
	if system := extractSystem(turns); len(system) > 0 {
		params.System = system
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return domain.Turn{}, fmt.Errorf("anthropic api error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	if text.Len() == 0 {
		return domain.Turn{}, ErrNoText
	}
	return domain.AssistantTurn(text.String()), nil
}

func buildMessages(turns []domain.Turn) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case domain.RoleSystem:
			continue
		case domain.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		}
	}
	return messages
}

func extractSystem(turns []domain.Turn) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, t := range turns {
		if t.Role == domain.RoleSystem && t.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: t.Content})
		}
	}
	return blocks
}
