// Package console runs the bot against a terminal: stdin lines become events and
// outbound messages are rendered to stdout.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// UserID is the identity of the local user; it doubles as the chat ID.
const UserID int64 = 1

// Console implements ports.Gateway and ports.EventSource over a terminal.
type Console struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	render      func(string) (string, error)
	profile     termenv.Profile

	mu       sync.Mutex
	nextID   int64
	buttons  []domain.Button
	commands []domain.BotCommand
}

var (
	_ ports.Gateway     = (*Console)(nil)
	_ ports.EventSource = (*Console)(nil)
)

// Option configures the Console.
type Option func(*Console)

// WithPlain disables markdown rendering and colors.
func WithPlain() Option {
	return func(c *Console) {
		c.render = nil
		c.profile = termenv.Ascii
	}
}

// New creates a Console. Rendering is enabled when out is a terminal.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in:      in,
		out:     out,
		profile: termenv.Ascii,
	}
	if f, ok := in.(*os.File); ok {
		c.interactive = term.IsTerminal(int(f.Fd()))
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.profile = termenv.ColorProfile()
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle()); err == nil {
			c.render = r.Render
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Console) id() int64 {
	c.nextID++
	return c.nextID
}

func (c *Console) dim(s string) string {
	if c.profile == termenv.Ascii {
		return s
	}
	return termenv.String(s).Foreground(c.profile.Color("#a78bfa")).String()
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// SendMessage implements ports.Gateway.
func (c *Console) SendMessage(ctx context.Context, req domain.SendMessageRequest) (domain.SentMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := req.Text
	if req.ParseMode == domain.ParseMarkdown && c.render != nil {
		if rendered, err := c.render(text); err == nil {
			text = strings.TrimRight(rendered, "\n")
		}
	}
	id := c.id()
	c.printf("%s\n", text)

	if len(req.Buttons) > 0 {
		c.buttons = c.buttons[:0]
		for _, row := range req.Buttons {
			c.buttons = append(c.buttons, row...)
		}
		for i, b := range c.buttons {
			c.printf("  %s %s\n", c.dim(fmt.Sprintf("[%d]", i+1)), b.Label)
		}
	}
	return domain.SentMessage{ChatID: req.ChatID, MessageID: id}, nil
}

// SendPhoto implements ports.Gateway. Only the file name is shown.
func (c *Console) SendPhoto(ctx context.Context, req domain.SendPhotoRequest) (domain.SentMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("%s\n", c.dim(fmt.Sprintf("[photo %s, %d bytes]", req.Filename, len(req.Image))))
	if req.Caption != "" {
		c.printf("%s\n", req.Caption)
	}
	return domain.SentMessage{ChatID: req.ChatID, MessageID: c.id()}, nil
}

// EditMessageText implements ports.Gateway. A terminal cannot rewrite history, so the edit is printed.
func (c *Console) EditMessageText(ctx context.Context, req domain.EditMessageRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("%s %s\n", c.dim(fmt.Sprintf("[#%d edited]", req.MessageID)), req.Text)
	return nil
}

// GetCommands implements ports.Gateway.
func (c *Console) GetCommands(ctx context.Context, chatID int64) ([]domain.BotCommand, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.BotCommand(nil), c.commands...), nil
}

// SetCommands implements ports.Gateway and lists the menu.
func (c *Console) SetCommands(ctx context.Context, chatID int64, commands []domain.BotCommand) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.commands = append([]domain.BotCommand(nil), commands...)
	for _, cmd := range commands {
		c.printf("  %s %s\n", c.dim("/"+cmd.Command), cmd.Description)
	}
	return nil
}

// DeleteCommands implements ports.Gateway.
func (c *Console) DeleteCommands(ctx context.Context, chatID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands = nil
	return nil
}

// SetMenuButton implements ports.Gateway. The terminal has no menu button.
func (c *Console) SetMenuButton(ctx context.Context, chatID int64, kind domain.MenuButtonKind) error {
	return nil
}

// Events reads one event per input line until EOF or ctx is done.
// A line holding the number of a listed button presses it.
func (c *Console) Events(ctx context.Context) (<-chan domain.Event, error) {
	out := make(chan domain.Event)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(c.in)
		var updateID int64
		for {
			c.prompt()
			if !scanner.Scan() {
				return
			}
			updateID++
			ev := c.parse(updateID, strings.TrimSpace(scanner.Text()))
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *Console) prompt() {
	if c.interactive {
		c.mu.Lock()
		c.printf("%s", c.dim("> "))
		c.mu.Unlock()
	}
}

func (c *Console) parse(updateID int64, line string) domain.Event {
	if n, err := strconv.Atoi(line); err == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if n >= 1 && n <= len(c.buttons) {
			b := c.buttons[n-1]
			return domain.NewCallbackEvent(updateID, UserID, UserID, 0, "", b.Value)
		}
	}
	return domain.NewTextEvent(updateID, UserID, UserID, 0, line)
}
