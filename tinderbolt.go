package tinderbolt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tinderbolt/internal/logging"
	"github.com/aretw0/tinderbolt/pkg/adapters/memory"
	"github.com/aretw0/tinderbolt/pkg/assets"
	"github.com/aretw0/tinderbolt/pkg/dispatch"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/metrics"
	"github.com/aretw0/tinderbolt/pkg/outbound"
	"github.com/aretw0/tinderbolt/pkg/ports"
	"github.com/aretw0/tinderbolt/pkg/router"
	"github.com/aretw0/tinderbolt/pkg/session"
)

// Bot is the high-level entry point of the library.
// It wires the session store, the router and the dispatcher around one gateway.
type Bot struct {
	gateway       ports.Gateway
	completer     ports.Completer
	assets        ports.AssetLoader
	locker        ports.DistributedLocker
	lockTTL       time.Duration
	dedup         ports.Deduplicator
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	workers       int
	openerSummary bool

	sessions   *session.Manager
	router     *router.Router
	dispatcher *dispatch.Dispatcher
	metrics    *metrics.Metrics
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithAssets replaces the embedded assets.
func WithAssets(loader ports.AssetLoader) Option {
	return func(b *Bot) {
		b.assets = loader
	}
}

// WithLocker serializes each user across replicas. ttl bounds how long a lock outlives a crashed holder.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(b *Bot) {
		b.locker = locker
		b.lockTTL = ttl
	}
}

// WithDeduplicator replaces the in-process update window.
func WithDeduplicator(dedup ports.Deduplicator) Option {
	return func(b *Bot) {
		b.dedup = dedup
	}
}

// WithLifecycleHooks registers observability hooks. They run after the metrics hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bot) {
		b.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithWorkers bounds how many events are handled at once.
func WithWorkers(n int) Option {
	return func(b *Bot) {
		b.workers = n
	}
}

// WithOpenerSummary makes the opener interview submit the whole profile.
func WithOpenerSummary(enabled bool) Option {
	return func(b *Bot) {
		b.openerSummary = enabled
	}
}

// New initializes a Bot sending through gateway and talking to completer.
// Assets default to the embedded set and are checked for every key the router needs.
func New(gateway ports.Gateway, completer ports.Completer, opts ...Option) (*Bot, error) {
	if gateway == nil {
		return nil, errors.New("gateway is required")
	}
	if completer == nil {
		return nil, errors.New("completer is required")
	}

	b := &Bot{
		gateway:   gateway,
		completer: completer,
		workers:   dispatch.DefaultWorkers,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if b.assets == nil {
		b.assets = assets.Default()
	}
	if b.dedup == nil {
		b.dedup = memory.NewDeduplicator(memory.DefaultDedupWindow)
	}

	req := router.RequiredAssets()
	if err := assets.Validate(b.assets, req.Prompts, req.Messages, req.Images); err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}

	sessionOpts := []session.Option{
		session.WithCompleter(b.completer),
		session.WithLogger(b.logger),
	}
	if b.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(b.locker), session.WithLockTTL(b.lockTTL))
	}
	b.sessions = session.NewManager(sessionOpts...)
	b.metrics = metrics.New(b.sessions.Len)

	sender := outbound.NewSender(b.gateway, b.assets, outbound.WithSenderLogger(b.logger))
	b.router = router.New(b.sessions, sender, b.assets,
		router.WithLogger(b.logger),
		router.WithHooks(chainHooks(b.metrics.Hooks(), b.hooks)),
		router.WithOpenerSummary(b.openerSummary),
	)
	b.dispatcher = dispatch.New(b.router,
		dispatch.WithWorkers(b.workers),
		dispatch.WithDeduplicator(b.dedup),
		dispatch.WithObserver(b.metrics),
		dispatch.WithLogger(b.logger),
	)
	return b, nil
}

// Handle runs one event through the router, bypassing deduplication and the worker pool.
func (b *Bot) Handle(ctx context.Context, ev domain.Event) error {
	return b.router.Handle(ctx, ev)
}

// Process runs one event the way Run does and returns its outcome.
func (b *Bot) Process(ctx context.Context, ev domain.Event) string {
	return b.dispatcher.Process(ctx, ev)
}

// Run consumes src until it closes or ctx is done.
func (b *Bot) Run(ctx context.Context, src ports.EventSource) error {
	events, err := src.Events(ctx)
	if err != nil {
		return fmt.Errorf("open event source: %w", err)
	}
	return b.dispatcher.Run(ctx, events)
}

// Sessions returns the session store.
func (b *Bot) Sessions() *session.Manager {
	return b.sessions
}

// Metrics returns the collectors fed by the router and the dispatcher.
func (b *Bot) Metrics() *metrics.Metrics {
	return b.metrics
}

func chainHooks(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModeEnter: func(ctx context.Context, e *domain.ModeEvent) {
			for _, h := range hooks {
				if h.OnModeEnter != nil {
					h.OnModeEnter(ctx, e)
				}
			}
		},
		OnExchange: func(ctx context.Context, e *domain.ExchangeEvent) {
			for _, h := range hooks {
				if h.OnExchange != nil {
					h.OnExchange(ctx, e)
				}
			}
		},
	}
}
