// Package telegram binds the gateway and event source ports to the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aretw0/tinderbolt/internal/logging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// ErrMessageNotModified is matched by an edit that would not change the message.
var ErrMessageNotModified = errors.New("message is not modified")

// Client performs Bot API calls through the SDK. It is safe for concurrent use.
type Client struct {
	bot     *tgbotapi.BotAPI
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL points the client at another Bot API server.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger configures a logger for the Client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the bot token. The token is verified with getMe.
func New(ctx context.Context, token string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 90 * time.Second},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, c.baseURL+"/bot%s/%s", c.bind(ctx))
	if err != nil {
		return nil, wrap("getMe", err)
	}
	c.bot = bot
	return c, nil
}

// Self returns the bot's own user as reported by getMe.
func (c *Client) Self() tgbotapi.User {
	return c.bot.Self
}

// api returns a copy of the SDK client whose requests carry ctx.
func (c *Client) api(ctx context.Context) *tgbotapi.BotAPI {
	api := *c.bot
	api.Client = c.bind(ctx)
	return &api
}

func (c *Client) bind(ctx context.Context) contextClient {
	return contextClient{ctx: ctx, client: c.http, logger: c.logger}
}

// contextClient attaches a context to every request the SDK builds.
type contextClient struct {
	ctx    context.Context
	client *http.Client
	logger *slog.Logger
}

func (cc contextClient) Do(req *http.Request) (*http.Response, error) {
	cc.logger.Debug("telegram call", "method", path.Base(req.URL.Path))
	return cc.client.Do(req.WithContext(cc.ctx))
}

func wrap(method string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, ErrMessageNotModified.Error()) {
		return fmt.Errorf("telegram %s: %w: %w", method, ErrMessageNotModified, err)
	}
	return fmt.Errorf("telegram %s: %w", method, err)
}

// AnswerCallbackQuery stops the client-side progress indicator of a button press.
func (c *Client) AnswerCallbackQuery(ctx context.Context, id string) error {
	_, err := c.api(ctx).Request(tgbotapi.NewCallback(id, ""))
	return wrap("answerCallbackQuery", err)
}

// SetWebhook registers url for update delivery. Telegram echoes secret in a header of every delivery.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	_, err := c.api(ctx).MakeRequest("setWebhook", params)
	return wrap("setWebhook", err)
}

// DeleteWebhook switches the bot back to getUpdates delivery.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	_, err := c.api(ctx).Request(tgbotapi.DeleteWebhookConfig{})
	return wrap("deleteWebhook", err)
}

// GetUpdates long-polls for updates after offset.
func (c *Client) GetUpdates(ctx context.Context, offset int, timeout time.Duration) ([]tgbotapi.Update, error) {
	updates, err := c.api(ctx).GetUpdates(tgbotapi.UpdateConfig{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: []string{"message", "callback_query"},
	})
	return updates, wrap("getUpdates", err)
}
