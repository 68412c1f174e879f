// Package main runs the SYSTM MCP server, by default over stdio (for local
// Claude/Cursor use). With -env/config transport set to "http" it serves the
// same MCP server over streamable HTTP at /mcp instead.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sufferlandria/systm-mcp/internal/config"
	"github.com/sufferlandria/systm-mcp/internal/credentials"
	"github.com/sufferlandria/systm-mcp/internal/logging"
	"github.com/sufferlandria/systm-mcp/internal/server"
	"github.com/sufferlandria/systm-mcp/internal/systm"
	systmmcp "github.com/sufferlandria/systm-mcp/internal/systm/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const version = "1.0.0"

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: false,
		Environment:   cfg.Environment,
		SentryEnabled: cfg.SentryEnabled,
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		// stdout belongs to the protocol stream on stdio
		UseStderr: cfg.Transport == "stdio",
	})

	log.Debugf("running in [%s] environment, transport [%s]", cfg.Environment, cfg.Transport)

	username, password, err := credentials.NewResolver().Resolve()
	if err != nil {
		log.Fatalf("resolve credentials: %s", err)
	}

	clientCfg := config.ClientConfigFromEnv()
	httpClient := &http.Client{
		Timeout:   clientCfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	client := systm.NewClient(clientCfg, httpClient)

	// authenticate before serving a single tool call, so a bad password
	// fails loudly at startup instead of on first use
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := client.Authenticate(ctx, username, password); err != nil {
		client.Close()
		log.Fatalf("authenticate against systm api: %s", err)
	}
	log.Infof("authenticated as [%s]", username)

	switch cfg.Transport {
	case "http":
		srv := server.New(client, version)
		srv.Serve(cfg.Host, cfg.Port)

		chOsInterrupt := make(chan os.Signal, 1)
		signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
		receivedSig := <-chOsInterrupt
		log.Warnf("signal [%s] received, shutting down ...", receivedSig)

		srv.GracefulShutdown()
	default: // stdio
		runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		mcpServer := systmmcp.NewServer(client, version)
		if err := mcpServer.Run(runCtx, &mcp.StdioTransport{}); err != nil {
			client.Close()
			log.Fatalf("mcp server run: %s", err)
		}
		client.Close()
	}
}
