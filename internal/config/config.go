// Package config loads the process configuration from a YAML file overlaid with
// TINDERBOLT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override file values.
// TINDERBOLT_LLM_API_KEY sets llm.api_key: the first underscore after the prefix splits section from key.
const EnvPrefix = "TINDERBOLT_"

// Telegram delivery modes.
const (
	ModePoll    = "poll"
	ModeWebhook = "webhook"
)

// Conversation service providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("invalid configuration")
)

type TelegramConfig struct {
	Token         string        `mapstructure:"token"`
	BotName       string        `mapstructure:"bot_name"`
	Mode          string        `mapstructure:"mode"`
	WebhookURL    string        `mapstructure:"webhook_url"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	PollTimeout   time.Duration `mapstructure:"poll_timeout"`
	BaseURL       string        `mapstructure:"base_url"`
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int64         `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	RedactSessions bool   `mapstructure:"redact_sessions"`
}

// RedisConfig enables cross-replica locking and deduplication when URL is set.
type RedisConfig struct {
	URL     string        `mapstructure:"url"`
	Prefix  string        `mapstructure:"prefix"`
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

type AssetsConfig struct {
	Dir string `mapstructure:"dir"`
}

type DispatchConfig struct {
	Workers int `mapstructure:"workers"`
}

type RouterConfig struct {
	OpenerSummary bool `mapstructure:"opener_summary"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the whole process configuration.
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Router   RouterConfig   `mapstructure:"router"`
	Log      LogConfig      `mapstructure:"log"`
}

func defaults() map[string]any {
	return map[string]any{
		"telegram": map[string]any{
			"mode":         ModePoll,
			"poll_timeout": "30s",
		},
		"llm": map[string]any{
			"provider":    ProviderOpenAI,
			"max_tokens":  3000,
			"temperature": 0.9,
			"timeout":     "60s",
		},
		"server": map[string]any{
			"addr":            ":8080",
			"redact_sessions": true,
		},
		"redis": map[string]any{
			"prefix":   "tinderbolt:",
			"lock_ttl": "2m",
		},
		"dispatch": map[string]any{
			"workers": 16,
		},
		"log": map[string]any{
			"level":  "info",
			"format": "text",
		},
	}
}

// Load reads path (optional, "" skips the file), applies the process environment and validates.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Environ())
}

// LoadWithEnv is Load with an explicit environment, as KEY=VALUE pairs.
func LoadWithEnv(path string, environ []string) (*Config, error) {
	raw := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		merge(raw, file)
	}

	merge(raw, fromEnv(environ))

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	cfg.LLM.APIKey = ExpandAPIKey(cfg.LLM.APIKey)
	cfg.Telegram.BotName = strings.TrimPrefix(cfg.Telegram.BotName, "@")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fromEnv maps TINDERBOLT_SECTION_KEY=value into {section: {key: value}}.
func fromEnv(environ []string) map[string]any {
	out := map[string]any{}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_")
		if !ok || section == "" || key == "" {
			continue
		}
		sub, _ := out[section].(map[string]any)
		if sub == nil {
			sub = map[string]any{}
			out[section] = sub
		}
		sub[key] = value
	}
	return out
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			merge(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
}

// ExpandAPIKey turns the "gpt:<reversed>" shorthand into "sk-proj-<key>".
// Any other value is returned unchanged.
func ExpandAPIKey(key string) string {
	rest, ok := strings.CutPrefix(key, "gpt:")
	if !ok {
		return key
	}
	r := []rune(rest)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return "sk-proj-" + string(r)
}

// Validate checks values that do not depend on which command runs.
func (c *Config) Validate() error {
	var errs []error
	switch c.Telegram.Mode {
	case ModePoll, ModeWebhook:
	default:
		errs = append(errs, fmt.Errorf("telegram.mode must be %q or %q, got %q", ModePoll, ModeWebhook, c.Telegram.Mode))
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenAI, ProviderAnthropic, c.LLM.Provider))
	}
	if c.LLM.MaxTokens <= 0 {
		errs = append(errs, errors.New("llm.max_tokens must be positive"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, errors.New("llm.temperature must be within 0..2"))
	}
	if c.Dispatch.Workers <= 0 {
		errs = append(errs, errors.New("dispatch.workers must be positive"))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// RequireServe checks what `serve` needs on top of Validate.
func (c *Config) RequireServe() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("telegram.token is required"))
	}
	if c.Telegram.Mode == ModeWebhook && c.Telegram.WebhookURL == "" {
		errs = append(errs, errors.New("telegram.webhook_url is required in webhook mode"))
	}
	if err := c.RequireLLM(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// RequireTelegram checks that the Bot API can be reached.
func (c *Config) RequireTelegram() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram.token is required", ErrInvalid)
	}
	return nil
}

// RequireLLM checks that the conversation service can be reached.
func (c *Config) RequireLLM() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: llm.api_key is required", ErrInvalid)
	}
	return nil
}
