// Package mcp exposes a running bot as an MCP server, so an agent can drive
// sessions as a user would and inspect their state.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/aretw0/tinderbolt/internal/logging"
	"github.com/aretw0/tinderbolt/pkg/adapters/memory"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SessionsURI is the resource listing every session.
const SessionsURI = "tinderbolt://sessions"

// Handler runs one event to completion.
type Handler interface {
	Handle(ctx context.Context, ev domain.Event) error
}

// Sessions is the read side of the session store.
type Sessions interface {
	Get(userID int64) (domain.Snapshot, error)
	List() []int64
}

// Reply is what the bot sent back for one tool call.
type Reply struct {
	Messages []Message       `json:"messages" jsonschema_description:"Messages sent by the bot, in order"`
	Mode     domain.Mode     `json:"mode" jsonschema_description:"Dialog mode after the event"`
	Step     int             `json:"step,omitempty" jsonschema_description:"Interview step after the event"`
	Buttons  []domain.Button `json:"buttons,omitempty" jsonschema_description:"Buttons of the last keyboard, pressable with press_button"`
}

// Message is one outbound call, flattened for an agent.
type Message struct {
	Kind      string `json:"kind" jsonschema_description:"text, photo or edit"`
	MessageID int64  `json:"message_id"`
	Text      string `json:"text,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

type sendArgs struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

type pressArgs struct {
	UserID int64  `json:"user_id"`
	Key    string `json:"key"`
}

// Server wraps the router and exposes it as an MCP Server.
// Outbound messages are captured by gateway and returned as tool results.
type Server struct {
	handler   Handler
	sessions  Sessions
	gateway   *memory.Gateway
	logger    *slog.Logger
	updateID  atomic.Int64
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
// gateway must be the gateway the handler sends through.
func NewServer(handler Handler, sessions Sessions, gateway *memory.Gateway, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		handler:   handler,
		sessions:  sessions,
		gateway:   gateway,
		logger:    logger,
		mcpServer: server.NewMCPServer("tinderbolt-mcp", strings.TrimSpace(version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// TOOL: send_message
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send a chat message as the given user. Commands start with '/': /start, /gpt, /date, /message, /profile, /opener."),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Telegram user ID of the simulated user")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Message text")),
		mcp.WithOutputSchema[Reply](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSend))

	// TOOL: press_button
	pressTool := mcp.NewTool("press_button",
		mcp.WithDescription("Press an inline button as the given user."),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Telegram user ID of the simulated user")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Button value, e.g. date_grande or message_next")),
		mcp.WithOutputSchema[Reply](),
	)
	s.mcpServer.AddTool(pressTool, mcp.NewStructuredToolHandler(s.handlePress))

	// TOOL: inspect_session
	s.mcpServer.AddTool(mcp.NewTool("inspect_session",
		mcp.WithDescription("Get the dialog state and conversation history of a user."),
		mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Telegram user ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := request.RequireInt("user_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		snap, err := s.sessions.Get(int64(userID))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(snap)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleSend(ctx context.Context, request mcp.CallToolRequest, args sendArgs) (Reply, error) {
	ev := domain.NewTextEvent(s.updateID.Add(1), args.UserID, args.UserID, 0, args.Text)
	return s.run(ctx, ev)
}

func (s *Server) handlePress(ctx context.Context, request mcp.CallToolRequest, args pressArgs) (Reply, error) {
	ev := domain.NewCallbackEvent(s.updateID.Add(1), args.UserID, args.UserID, 0, "", args.Key)
	return s.run(ctx, ev)
}

func (s *Server) run(ctx context.Context, ev domain.Event) (Reply, error) {
	if ev.UserID == 0 {
		return Reply{}, fmt.Errorf("user_id is required")
	}
	err := s.handler.Handle(ctx, ev)
	calls := s.gateway.Drain(ev.ChatID)
	if err != nil {
		s.logger.Error("MCP: event failed", "user_id", ev.UserID, "err", err)
		return Reply{}, fmt.Errorf("event failed: %w", err)
	}

	var reply Reply
	for _, c := range calls {
		switch c.Method {
		case memory.MethodSendMessage:
			reply.Messages = append(reply.Messages, Message{Kind: "text", MessageID: c.MessageID, Text: c.Text})
			if len(c.Buttons) > 0 {
				reply.Buttons = reply.Buttons[:0]
				for _, row := range c.Buttons {
					reply.Buttons = append(reply.Buttons, row...)
				}
			}
		case memory.MethodSendPhoto:
			reply.Messages = append(reply.Messages, Message{Kind: "photo", MessageID: c.MessageID, Photo: c.Photo})
		case memory.MethodEditMessage:
			reply.Messages = append(reply.Messages, Message{Kind: "edit", MessageID: c.MessageID, Text: c.Text})
		}
	}
	if snap, err := s.sessions.Get(ev.UserID); err == nil {
		reply.Mode = snap.Mode
		reply.Step = snap.Step
	}
	return reply, nil
}

func (s *Server) registerResources() {
	// EXPOSE: tinderbolt://sessions
	s.mcpServer.AddResource(mcp.NewResource(SessionsURI, "Known sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		var snaps []domain.Snapshot
		for _, id := range s.sessions.List() {
			if snap, err := s.sessions.Get(id); err == nil {
				snaps = append(snaps, snap)
			}
		}
		jsonBytes, _ := json.Marshal(snaps)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SessionsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
