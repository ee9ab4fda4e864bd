package memory

import (
	"context"
	"sync"

	"github.com/aretw0/tinderbolt/pkg/domain"
)

// Gateway method names, as recorded in Outbound.Method.
const (
	MethodSendMessage    = "sendMessage"
	MethodSendPhoto      = "sendPhoto"
	MethodEditMessage    = "editMessageText"
	MethodGetCommands    = "getMyCommands"
	MethodSetCommands    = "setMyCommands"
	MethodDeleteCommands = "deleteMyCommands"
	MethodSetMenuButton  = "setChatMenuButton"
)

// Outbound is one recorded gateway call.
type Outbound struct {
	Method    string
	ChatID    int64
	MessageID int64
	Text      string
	ParseMode domain.ParseMode
	Buttons   [][]domain.Button
	Photo     string
	Caption   string
	Commands  []domain.BotCommand
	Menu      domain.MenuButtonKind
}

// Gateway implements ports.Gateway in memory.
// It records every call and keeps per-chat command menus.
// Safe for concurrent use.
type Gateway struct {
	mu       sync.Mutex
	nextID   int64
	calls    []Outbound
	commands map[int64][]domain.BotCommand
	menus    map[int64]domain.MenuButtonKind
	failures map[string]error
}

// NewGateway creates a new in-memory gateway.
func NewGateway() *Gateway {
	return &Gateway{
		commands: make(map[int64][]domain.BotCommand),
		menus:    make(map[int64]domain.MenuButtonKind),
		failures: make(map[string]error),
	}
}

// FailOn makes every later call of method return err. A nil err clears it.
func (g *Gateway) FailOn(method string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.failures, method)
		return
	}
	g.failures[method] = err
}

func (g *Gateway) record(o Outbound) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failures[o.Method]; err != nil {
		return err
	}
	g.calls = append(g.calls, o)
	return nil
}

func (g *Gateway) newID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	return g.nextID
}

// SendMessage records a text send.
func (g *Gateway) SendMessage(ctx context.Context, req domain.SendMessageRequest) (domain.SentMessage, error) {
	id := g.newID()
	err := g.record(Outbound{
		Method:    MethodSendMessage,
		ChatID:    req.ChatID,
		MessageID: id,
		Text:      req.Text,
		ParseMode: req.ParseMode,
		Buttons:   req.Buttons,
	})
	if err != nil {
		return domain.SentMessage{}, err
	}
	return domain.SentMessage{ChatID: req.ChatID, MessageID: id}, nil
}

// SendPhoto records an image send.
func (g *Gateway) SendPhoto(ctx context.Context, req domain.SendPhotoRequest) (domain.SentMessage, error) {
	id := g.newID()
	err := g.record(Outbound{
		Method:    MethodSendPhoto,
		ChatID:    req.ChatID,
		MessageID: id,
		Photo:     req.Filename,
		Caption:   req.Caption,
	})
	if err != nil {
		return domain.SentMessage{}, err
	}
	return domain.SentMessage{ChatID: req.ChatID, MessageID: id}, nil
}

// EditMessageText records an edit.
func (g *Gateway) EditMessageText(ctx context.Context, req domain.EditMessageRequest) error {
	return g.record(Outbound{
		Method:    MethodEditMessage,
		ChatID:    req.ChatID,
		MessageID: req.MessageID,
		Text:      req.Text,
	})
}

// GetCommands returns the stored menu of the chat.
func (g *Gateway) GetCommands(ctx context.Context, chatID int64) ([]domain.BotCommand, error) {
	if err := g.record(Outbound{Method: MethodGetCommands, ChatID: chatID}); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.BotCommand(nil), g.commands[chatID]...), nil
}

// SetCommands stores the menu of the chat.
func (g *Gateway) SetCommands(ctx context.Context, chatID int64, commands []domain.BotCommand) error {
	cmds := append([]domain.BotCommand(nil), commands...)
	if err := g.record(Outbound{Method: MethodSetCommands, ChatID: chatID, Commands: cmds}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.commands[chatID] = cmds
	return nil
}

// DeleteCommands clears the menu of the chat.
func (g *Gateway) DeleteCommands(ctx context.Context, chatID int64) error {
	if err := g.record(Outbound{Method: MethodDeleteCommands, ChatID: chatID}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.commands, chatID)
	return nil
}

// SetMenuButton stores the menu button kind of the chat.
func (g *Gateway) SetMenuButton(ctx context.Context, chatID int64, kind domain.MenuButtonKind) error {
	if err := g.record(Outbound{Method: MethodSetMenuButton, ChatID: chatID, Menu: kind}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.menus[chatID] = kind
	return nil
}

// Calls returns a copy of every recorded call in order.
func (g *Gateway) Calls() []Outbound {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Outbound(nil), g.calls...)
}

// Count returns how many calls of method were recorded.
func (g *Gateway) Count(method string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Drain removes and returns the recorded calls of one chat.
func (g *Gateway) Drain(chatID int64) []Outbound {
	g.mu.Lock()
	defer g.mu.Unlock()

	var taken, kept []Outbound
	for _, c := range g.calls {
		if c.ChatID == chatID {
			taken = append(taken, c)
		} else {
			kept = append(kept, c)
		}
	}
	g.calls = kept
	return taken
}

// Menu returns the menu button kind last set for the chat.
func (g *Gateway) Menu(chatID int64) domain.MenuButtonKind {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.menus[chatID]
}
