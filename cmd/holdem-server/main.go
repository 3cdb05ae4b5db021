package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/tablecraft/holdem/internal/server"
)

var CLI struct {
	Config   string `short:"c" default:"holdem.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Bind address host:port (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("holdem-server"),
		kong.Description("Multiplayer Texas Hold'em WebSocket server"))

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		kctx.Exit(1)
	}

	if CLI.Addr != "" {
		host, portStr, err := net.SplitHostPort(CLI.Addr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid addr %q: %v\n", CLI.Addr, err)
			kctx.Exit(1)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid port %q: %v\n", portStr, err)
			kctx.Exit(1)
		}
		cfg.Server.Address = host
		cfg.Server.Port = port
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("starting holdem server", "addr", cfg.Addr(), "tables", len(cfg.Tables))

	wsServer := server.NewServer(cfg.Addr(), logger)
	gameService := server.NewGameService(wsServer, logger, quartz.NewReal(), cfg.Tables)
	wsServer.SetGameService(gameService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := gameService.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error("game service stopped", "err", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("shutting down")
		cancel()
		_ = wsServer.Stop()
		os.Exit(0)
	}()

	if err := wsServer.Start(); err != nil {
		logger.Fatal("server failed", "err", err)
	}
}
