package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/achivio/achivio-core/achivio"
	"github.com/achivio/achivio-core/achivio/logger"
	"github.com/achivio/achivio-core/backend"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	configPath := flag.String("config", "config.toml", "path to the TOML config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("achivio %s (%s)\n", version, commit)
		return
	}

	slog.Info("Starting Achivio node",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit),
	)

	cfg, err := achivio.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config",
			slog.String("type", "sys"),
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(-1)
	}

	app := achivio.New(*cfg, version, commit)

	dbStart := time.Now()
	slog.Info("Initializing database connection...", slog.String("type", "db"))
	if err := app.SetupDB(context.Background()); err != nil {
		slog.Error("Failed to initialize database",
			slog.String("type", "db"),
			slog.String("error", err.Error()),
			slog.Duration("took", time.Since(dbStart)),
		)
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("type", "db"),
		slog.Duration("took", time.Since(dbStart)),
	)

	if err := app.SetupNode(context.Background()); err != nil {
		slog.Error("Failed to initialize node state",
			slog.String("type", "sys"),
			slog.String("error", err.Error()),
		)
		os.Exit(-1)
	}

	app.SetupArchive()
	app.StartBackground()

	server := backend.NewServer(app, version, commit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Listen()
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down...", slog.String("type", "sys"))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Gateway shutdown error",
				slog.String("type", "api"),
				slog.String("error", err.Error()),
			)
		}
		app.Close(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		slog.Error("Node exited with error",
			slog.String("type", "sys"),
			slog.String("error", err.Error()),
		)
		os.Exit(-1)
	}

	slog.Info("Shutdown complete", slog.String("type", "sys"))
}
