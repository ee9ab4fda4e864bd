package domain

import (
	"context"
	"time"
)

// HookEventType defines the category of a lifecycle event.
type HookEventType string

const (
	HookModeEnter HookEventType = "mode_enter"
	HookExchange  HookEventType = "exchange"
)

// HookEventBase contains common fields for all lifecycle events.
type HookEventBase struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      HookEventType `json:"type"`
	UserID    int64         `json:"user_id"`
}

// ModeEvent is emitted when a mode-entry command resets a session.
type ModeEvent struct {
	HookEventBase
	From Mode `json:"from"`
	To   Mode `json:"to"`
}

// ExchangeEvent is emitted after every call to the conversation service.
type ExchangeEvent struct {
	HookEventBase
	Mode     Mode          `json:"mode"`
	Kind     string        `json:"kind"` // start or continue
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for router observability.
type LifecycleHooks struct {
	OnModeEnter func(context.Context, *ModeEvent)
	OnExchange  func(context.Context, *ExchangeEvent)
}
