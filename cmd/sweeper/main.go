package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/artchain-labs/artwork-indexer/internal/adapter"
	"github.com/artchain-labs/artwork-indexer/internal/config"
	"github.com/artchain-labs/artwork-indexer/internal/contract"
	"github.com/artchain-labs/artwork-indexer/internal/ipfs"
	"github.com/artchain-labs/artwork-indexer/internal/logger"
	"github.com/artchain-labs/artwork-indexer/internal/metadata"
	"github.com/artchain-labs/artwork-indexer/internal/store"
	"github.com/artchain-labs/artwork-indexer/internal/sweeper"
)

const HTTP_TIMEOUT = 30 * time.Second

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadSweeperConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "sweeper",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Metadata Sweeper")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	httpClient := adapter.NewHTTPClient(HTTP_TIMEOUT)
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()

	// Connect to the Ethereum node
	dialer := adapter.NewEthClientDialer()
	ethClient, err := dialer.Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.Fatal("Failed to connect to Ethereum node", zap.Error(err), zap.String("rpc_url", cfg.Ethereum.RPCURL))
	}
	defer ethClient.Close()

	// Initialize metadata resolution
	fetcher := ipfs.NewFetcher(httpClient, cfg.IPFS.Gateways)
	resolver := metadata.NewResolver(fetcher, httpClient, jsonAdapter)
	reader := contract.NewReader(ethClient)

	// Initialize metadata health sweeper
	sweeperConfig := &sweeper.MetadataHealthSweeperConfig{
		BatchSize:       cfg.MetadataHealthSweeper.BatchSize,
		WorkerPoolSize:  cfg.MetadataHealthSweeper.Worker.WorkerPoolSize,
		RecheckAfter:    cfg.MetadataHealthSweeper.RecheckAfter,
		ContractAddress: cfg.Ethereum.ContractAddress,
	}
	metadataSweeper := sweeper.NewMetadataHealthSweeper(sweeperConfig, dataStore, resolver, reader, clock)

	logger.InfoCtx(ctx, "Initialized metadata health sweeper",
		zap.Int("batch_size", sweeperConfig.BatchSize),
		zap.Int("worker_pool_size", sweeperConfig.WorkerPoolSize),
		zap.Duration("recheck_after", sweeperConfig.RecheckAfter),
	)

	// Start the sweeper in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := metadataSweeper.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := metadataSweeper.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(ctx, err)
	}

	cancel()
	logger.InfoCtx(ctx, "Metadata Sweeper stopped")
}
