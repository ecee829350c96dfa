// Command hivemeta-server serves HiveServer2-style metadata of a DuckDB
// database over Arrow Flight.
//
// Usage:
//
//	hivemeta-server -config config.yaml
//
// Every setting can also be given through HIVEMETA_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/hugr-lab/hivemeta-go"
	"github.com/hugr-lab/hivemeta-go/catalog/duckdb"
	"github.com/hugr-lab/hivemeta-go/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is canceled, then stops gracefully.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	svc, err := duckdb.Open(ctx, cfg.DuckDB.DSN, cfg.DuckDB.Init...)
	if err != nil {
		return err
	}
	defer svc.Close()

	serverConfig := hivemeta.ServerConfig{
		Service:        svc,
		Logger:         logger,
		MaxMessageSize: cfg.MaxMessageSize,
		MaxOperations:  cfg.MaxOperations,
		Address:        cfg.Address,
	}
	if cfg.Auth.Enabled() {
		serverConfig.Auth = hivemeta.StaticTokens(cfg.Auth.Tokens)
	}

	grpcServer := grpc.NewServer(hivemeta.ServerOptions(serverConfig)...)
	flightServer, err := hivemeta.NewServer(grpcServer, serverConfig)
	if err != nil {
		return err
	}
	defer flightServer.Close()

	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	logger.Info("Hive metadata server listening",
		"address", lis.Addr().String(),
		"duckdb", cfg.DuckDB.DSN,
		"auth", cfg.Auth.Enabled(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		grpcServer.GracefulStop()
		return nil
	})
	return g.Wait()
}
