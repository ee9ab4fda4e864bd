package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/tinderbolt"
	"github.com/aretw0/tinderbolt/internal/config"
	"github.com/aretw0/tinderbolt/pkg/adapters/anthropic"
	"github.com/aretw0/tinderbolt/pkg/adapters/openai"
	"github.com/aretw0/tinderbolt/pkg/adapters/redis"
	"github.com/aretw0/tinderbolt/pkg/assets"
	"github.com/aretw0/tinderbolt/pkg/ports"
	"github.com/aretw0/tinderbolt/pkg/router"
	backend "github.com/redis/go-redis/v9"
)

// NewCompleter builds the conversation service client selected by cfg.Provider.
func NewCompleter(cfg config.LLMConfig) (ports.Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.New(func(o *openai.Options) {
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.Temperature = cfg.Temperature
			o.MaxTokens = cfg.MaxTokens
			o.Timeout = cfg.Timeout
		}), nil
	case config.ProviderAnthropic:
		return anthropic.New(func(o *anthropic.Options) {
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.Temperature = cfg.Temperature
			o.MaxTokens = cfg.MaxTokens
			o.Timeout = cfg.Timeout
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", config.ErrInvalid, cfg.Provider)
	}
}

// LoadAssets returns the embedded assets, overlaid by dir when set.
func LoadAssets(dir string) (ports.AssetLoader, error) {
	if dir == "" {
		return assets.Default(), nil
	}
	return assets.FromDir(dir)
}

// ValidateAssets checks that every key the router needs resolves in dir.
func ValidateAssets(dir string) error {
	loader, err := LoadAssets(dir)
	if err != nil {
		return err
	}
	req := router.RequiredAssets()
	return assets.Validate(loader, req.Prompts, req.Messages, req.Images)
}

// botOptions maps cfg onto Bot options. The returned close func releases the
// redis client, if one was opened.
func botOptions(cfg *config.Config, logger *slog.Logger) ([]tinderbolt.Option, func() error, error) {
	loader, err := LoadAssets(cfg.Assets.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load assets: %w", err)
	}

	opts := []tinderbolt.Option{
		tinderbolt.WithAssets(loader),
		tinderbolt.WithLogger(logger),
		tinderbolt.WithWorkers(cfg.Dispatch.Workers),
		tinderbolt.WithOpenerSummary(cfg.Router.OpenerSummary),
	}
	closer := func() error { return nil }

	if cfg.Redis.URL != "" {
		redisOpts, err := backend.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: redis.url: %w", config.ErrInvalid, err)
		}
		client := backend.NewClient(redisOpts)
		closer = client.Close

		opts = append(opts,
			tinderbolt.WithLocker(redis.NewLocker(client, cfg.Redis.Prefix), cfg.Redis.LockTTL),
			tinderbolt.WithDeduplicator(redis.NewDeduplicator(client, cfg.Redis.Prefix, redis.DefaultDedupTTL)),
		)
		logger.Info("redis coordination enabled", "addr", redisOpts.Addr, "prefix", cfg.Redis.Prefix)
	}
	return opts, closer, nil
}
