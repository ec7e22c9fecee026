package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexjbarnes/inventory-sync/internal/config"
	"github.com/alexjbarnes/inventory-sync/internal/console"
	"github.com/alexjbarnes/inventory-sync/internal/export"
	"github.com/alexjbarnes/inventory-sync/internal/httpapi"
	"github.com/alexjbarnes/inventory-sync/internal/inventory"
	"github.com/alexjbarnes/inventory-sync/internal/logging"
	"github.com/alexjbarnes/inventory-sync/internal/mcpserver"
	"github.com/alexjbarnes/inventory-sync/internal/repository"
	"github.com/alexjbarnes/inventory-sync/internal/server"
	"github.com/alexjbarnes/inventory-sync/internal/snapshot"
	"github.com/alexjbarnes/inventory-sync/internal/state"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

var Version = "dev"

func main() {
	// Handle hash-key subcommand before config loading.
	if len(os.Args) > 1 && os.Args[1] == "hash-key" {
		hashKey()
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// hashKey reads an API key from stdin and prints its bcrypt hash for
// MCP_API_KEY_HASHES.
func hashKey() {
	fmt.Fprint(os.Stderr, "Enter API key: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		fmt.Fprintln(os.Stderr, "no input")
		os.Exit(1)
	}
	key := scanner.Text()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewLogger(cfg.Environment, cfg.EffectiveLogLevel())
	logger.Info("inventory-sync starting",
		slog.String("version", Version),
		slog.String("api", cfg.APIURL),
		slog.String("data_dir", cfg.DataDir),
		slog.Bool("start_offline", cfg.StartOffline),
		slog.Bool("mcp", cfg.EnableMCP),
	)

	journal, err := state.LoadAt(cfg.StatePath())
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	defer journal.Close()

	store := snapshot.NewStore(cfg.SnapshotPath(), logger)
	api := httpapi.NewClient(httpapi.Options{
		BaseURL:      cfg.APIURL,
		Timeout:      cfg.APITimeout,
		ProbeTimeout: cfg.ProbeTimeout,
		InsecureTLS:  cfg.InsecureTLS,
	}, logger)
	repo := repository.New(api, store, logger)

	con := console.New(os.Stdin, os.Stdout, export.NewExporter(cfg.RowHeight, cfg.StripeColor), cfg.ExportPath(), logger)
	engine := inventory.NewEngine(inventory.Options{
		Repository:   repo,
		Prompter:     con,
		Journal:      journal,
		Logger:       logger,
		StartOffline: cfg.StartOffline,
	})
	con.SetEngine(engine)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := engine.Start(ctx)
	if err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}

	logger.Info("articles loaded",
		slog.String("mode", res.Mode.String()),
		slog.String("source", string(res.Source)),
		slog.Int("articles", res.Articles),
		slog.Int("pending", res.Pending),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return inventory.NewMonitor(engine, cfg.CheckInterval, logger).Run(gctx)
	})

	g.Go(func() error {
		err := store.Watch(gctx, nil)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("snapshot watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	if cfg.EnableMCP {
		g.Go(func() error {
			return runMCP(gctx, cfg, engine, logger)
		})
	}

	// The console blocks on stdin, which a signal cannot interrupt, so it
	// runs outside the group and is abandoned on shutdown.
	replDone := make(chan error, 1)
	go func() {
		replDone <- con.Run(gctx)
	}()

	var replErr error
	select {
	case replErr = <-replDone:
	case <-gctx.Done():
	}

	stop()

	if err := engine.SaveLocal(); err != nil {
		logger.Warn("final local save failed", slog.String("error", err.Error()))
	}

	return errors.Join(replErr, g.Wait())
}

// runMCP starts the MCP HTTP server.
func runMCP(ctx context.Context, cfg *config.Config, engine *inventory.Engine, logger *slog.Logger) error {
	mcpLogger := logger.With(slog.String("service", "mcp"))

	mcpServer := mcp.NewServer(
		&mcp.Implementation{Name: "inventory-sync-mcp", Version: Version},
		nil,
	)
	mcpserver.RegisterTools(mcpServer, engine)

	mcpHandler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	srv := &http.Server{
		Addr: cfg.MCPListenAddr,
		Handler: server.NewMux(server.MuxConfig{
			APIKeyHashes: cfg.ParseMCPAPIKeyHashes(),
			MCPHandler:   mcpHandler,
			Logger:       mcpLogger,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		mcpLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	mcpLogger.Info("starting server", slog.String("listen", cfg.MCPListenAddr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server: %w", err)
	}

	return nil
}
