package main

import (
	"context"
	"errors"
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
	"github.com/artchain-labs/artwork-indexer/internal/bidledger"
	"github.com/artchain-labs/artwork-indexer/internal/config"
	"github.com/artchain-labs/artwork-indexer/internal/contract"
	"github.com/artchain-labs/artwork-indexer/internal/ipfs"
	"github.com/artchain-labs/artwork-indexer/internal/logger"
	"github.com/artchain-labs/artwork-indexer/internal/messaging"
	"github.com/artchain-labs/artwork-indexer/internal/metadata"
	"github.com/artchain-labs/artwork-indexer/internal/reconciler"
	"github.com/artchain-labs/artwork-indexer/internal/registry"
	"github.com/artchain-labs/artwork-indexer/internal/store"
)

const HTTP_TIMEOUT = 30 * time.Second

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadIndexerConfig(*configFile, *envPath)
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
			"service": "indexer",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Artwork Indexer")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}

	// Run migrations
	if err := store.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database", zap.String("dbname", cfg.Database.DBName))

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	httpClient := adapter.NewHTTPClient(HTTP_TIMEOUT)
	jsonAdapter := adapter.NewJSON()

	// Connect to the Ethereum node
	dialer := adapter.NewEthClientDialer()
	ethClient, err := dialer.Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.Fatal("Failed to connect to Ethereum node", zap.Error(err), zap.String("rpc_url", cfg.Ethereum.RPCURL))
	}
	defer ethClient.Close()
	logger.InfoCtx(ctx, "Connected to Ethereum node", zap.String("chain_id", string(cfg.Ethereum.ChainID)))

	// Wire the reconciler
	fetcher := ipfs.NewFetcher(httpClient, cfg.IPFS.Gateways)
	resolver := metadata.NewResolver(fetcher, httpClient, jsonAdapter)
	reader := contract.NewReader(ethClient)
	accounts := registry.NewAccountRegistry(dataStore)
	bids := bidledger.NewLedger(dataStore)
	core := reconciler.NewReconciler(dataStore, accounts, bids, resolver, reader)

	// Create the event dispatcher
	dispatcher, err := messaging.NewDispatcher(messaging.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		ConsumerName:   cfg.NATS.ConsumerName,
		Subject:        cfg.NATS.Subject,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
		AckWaitTimeout: cfg.NATS.AckWait,
		MaxDeliver:     cfg.NATS.MaxDeliver,
	}, adapter.NewNatsJetStream(), core, jsonAdapter)
	if err != nil {
		logger.Fatal("Failed to create event dispatcher", zap.Error(err))
	}
	defer dispatcher.Close()

	// Run the dispatcher in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
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

	cancel()
	logger.InfoCtx(ctx, "Artwork Indexer stopped")
}
