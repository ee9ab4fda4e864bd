package cli

import (
	"log/slog"

	"github.com/aretw0/tinderbolt"
	"github.com/aretw0/tinderbolt/internal/config"
	"github.com/aretw0/tinderbolt/pkg/adapters/mcp"
	"github.com/aretw0/tinderbolt/pkg/adapters/memory"
	"github.com/aretw0/tinderbolt/pkg/ports"
)

// NewMCPServer builds an MCP server whose tools drive sessions over an in-memory gateway.
func NewMCPServer(cfg *config.Config, completer ports.Completer, logger *slog.Logger) (*mcp.Server, func() error, error) {
	opts, closeRedis, err := botOptions(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	gateway := memory.NewGateway()
	bot, err := tinderbolt.New(gateway, completer, opts...)
	if err != nil {
		closeRedis()
		return nil, nil, err
	}
	return mcp.NewServer(bot, bot.Sessions(), gateway, tinderbolt.Version, logger), closeRedis, nil
}

// ServeMCP runs the MCP server on stdio until the client disconnects.
func ServeMCP(cfg *config.Config, completer ports.Completer, logger *slog.Logger) error {
	srv, closeRedis, err := NewMCPServer(cfg, completer, logger)
	if err != nil {
		return err
	}
	defer closeRedis()

	logger.Info("starting MCP server (stdio)")
	return handleExecutionError(srv.ServeStdio())
}
