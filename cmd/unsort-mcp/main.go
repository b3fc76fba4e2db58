package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "unsort/internal/adapters/mcp"
	"unsort/internal/bootstrap"
	"unsort/internal/config"
	"unsort/internal/logging"
)

func main() {
	var opts config.Options
	flag.StringVar(&opts.ConfigPath, "config", "", "path to the config file")
	flag.StringVar(&opts.DataDir, "data-dir", "", "directory holding notes and preferences")
	flag.StringVar(&opts.Store, "store", "", "document store: json or sqlite")
	flag.StringVar(&opts.MemUURL, "memu-url", "", "memory service base URL")
	flag.StringVar(&opts.LogLevel, "log-level", "", "log level")
	flag.StringVar(&opts.LogFile, "log-file", "", "log file (default stderr)")
	flag.BoolVar(&opts.Offline, "offline", false, "do not contact the memory service")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "unsort-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(opts config.Options) error {
	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}

	// stdout carries the protocol
	logger, closer, err := logging.Open(cfg.LogFile.Value, cfg.LogLevel.Value, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	ws, err := bootstrap.Workspace(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer ws.Close()

	mcpServer := server.NewMCPServer(
		"unsort-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, ws)
	mcpadapter.RegisterWriteTools(mcpServer, ws)

	logger.Info("serving MCP over stdio", "online", ws.Online(), "store", cfg.Store.Value)
	return server.ServeStdio(mcpServer)
}
