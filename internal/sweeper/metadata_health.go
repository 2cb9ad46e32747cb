package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/artchain-labs/artwork-indexer/internal/adapter"
	"github.com/artchain-labs/artwork-indexer/internal/contract"
	"github.com/artchain-labs/artwork-indexer/internal/logger"
	"github.com/artchain-labs/artwork-indexer/internal/metadata"
	"github.com/artchain-labs/artwork-indexer/internal/store"
	"github.com/artchain-labs/artwork-indexer/internal/store/schema"
)

const (
	SWEEP_CYCLE_INTERVAL = 15 * time.Minute // Time to sleep between sweep cycles
)

// MetadataHealthSweeperConfig holds configuration for the metadata health sweeper
type MetadataHealthSweeperConfig struct {
	BatchSize       int           // Artworks to retry per batch
	WorkerPoolSize  int           // Concurrent workers
	RecheckAfter    time.Duration // Only retry artworks older than this
	ContractAddress string        // Contract to read token URIs from
}

// metadataHealthSweeper implements the Sweeper interface for retrying
// artworks whose metadata could not be resolved at mint time
type metadataHealthSweeper struct {
	config    *MetadataHealthSweeperConfig
	store     store.Store
	resolver  metadata.Resolver
	contract  contract.Reader
	pool      pond.Pool
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewMetadataHealthSweeper creates a new metadata health sweeper
func NewMetadataHealthSweeper(
	config *MetadataHealthSweeperConfig,
	st store.Store,
	resolver metadata.Resolver,
	reader contract.Reader,
	clock adapter.Clock,
) Sweeper {
	return &metadataHealthSweeper{
		config:    config,
		store:     st,
		resolver:  resolver,
		contract:  reader,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *metadataHealthSweeper) Name() string {
	return "metadata-health-sweeper"
}

// Start begins the sweeper's main loop
func (s *metadataHealthSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh) // Signal that we've stopped
	}()

	logger.InfoCtx(ctx, "Starting metadata health sweeper",
		zap.Int("batch_size", s.config.BatchSize),
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
		zap.Duration("recheck_after", s.config.RecheckAfter),
	)

	// Create worker pool
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)

	// Continuous loop - stops when context is canceled or stop is requested
	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Metadata health sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			s.cleanup()
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Metadata health sweeper stop requested")
			s.cleanup()
			return nil
		default:
			if err := s.runSweepCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err)
				}
			}
		}
	}
}

// cleanup stops the worker pool and waits for tasks to complete
func (s *metadataHealthSweeper) cleanup() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *metadataHealthSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping metadata health sweeper")

	// Signal stop to the main loop
	close(s.stopChan)

	// Wait for main loop to exit, but respect context cancellation
	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Metadata health sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Metadata health sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle runs a single sweep cycle
func (s *metadataHealthSweeper) runSweepCycle(ctx context.Context) error {
	startTime := s.clock.Now()
	logger.InfoCtx(ctx, "Starting sweep cycle")

	olderThan := startTime.Add(-s.config.RecheckAfter)
	artworks, err := s.store.ListBrokenArtworks(ctx, olderThan, s.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list broken artworks: %w", err)
	}

	if len(artworks) == 0 {
		logger.InfoCtx(ctx, "No broken artworks to retry, waiting...")
		// Context-aware sleep so we can be interrupted
		if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
			return ctx.Err()
		}
		return nil
	}

	logger.InfoCtx(ctx, "Found broken artworks to retry", zap.Int("count", len(artworks)))

	var recoveredCount, stillBrokenCount atomic.Int32

	for _, item := range artworks {
		s.pool.Submit(func() {
			s.retryArtwork(ctx, item, &recoveredCount, &stillBrokenCount)
		})
	}

	// Wait for all retries to complete
	s.pool.StopAndWait()

	// Recreate pool for next cycle
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)

	duration := s.clock.Since(startTime)
	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", duration),
		zap.Int("total_retried", len(artworks)),
		zap.Int32("recovered", recoveredCount.Load()),
		zap.Int32("still_broken", stillBrokenCount.Load()),
	)

	if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
		return ctx.Err()
	}

	return nil
}

// sleep sleeps for the given duration but can be interrupted by context cancellation
// Returns true if sleep completed normally, false if interrupted
func (s *metadataHealthSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}

// retryArtwork re-reads the token URI from the contract and re-runs metadata
// resolution for a single broken artwork
func (s *metadataHealthSweeper) retryArtwork(ctx context.Context, item *schema.Artwork, recoveredCount, stillBrokenCount *atomic.Int32) {
	logger.InfoCtx(ctx, "Retrying artwork metadata", zap.String("artwork", item.ID))

	locator, err := s.contract.TokenURI(ctx, s.config.ContractAddress, item.TokenNumber)
	if err != nil {
		logger.WarnCtx(ctx, "failed to read token URI", zap.String("artwork", item.ID), zap.Error(err))
		stillBrokenCount.Add(1)
		// Touch the row so the next cycle picks a different batch
		if err := s.store.SaveArtwork(ctx, item); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("artwork", item.ID))
		}
		return
	}

	if locator == "" {
		stillBrokenCount.Add(1)
		if err := s.store.SaveArtwork(ctx, item); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("artwork", item.ID))
		}
		return
	}

	// Clear the flag first; the resolver re-marks it when the locator still
	// yields no content id
	item.Broken = false
	s.resolver.Resolve(ctx, item, locator)

	if item.Broken {
		stillBrokenCount.Add(1)
	} else {
		recoveredCount.Add(1)
		logger.InfoCtx(ctx, "Artwork metadata recovered", zap.String("artwork", item.ID))
	}

	if err := s.store.SaveArtwork(ctx, item); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("artwork", item.ID))
	}
}
