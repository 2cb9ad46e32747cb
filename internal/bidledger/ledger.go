package bidledger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/artchain-labs/artwork-indexer/internal/logger"
	"github.com/artchain-labs/artwork-indexer/internal/store"
	"github.com/artchain-labs/artwork-indexer/internal/store/schema"
)

// Outcome is a terminal state for an open bid
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeCanceled Outcome = "canceled"
)

// Ledger maintains the append-only bid history of artworks. Only the bid
// referenced by an artwork's current_bid_id is eligible for a terminal
// transition; superseded bids are immutable history.
//
//go:generate mockgen -source=ledger.go -destination=../mocks/bid_ledger.go -package=mocks -mock_names=Ledger=MockLedger
type Ledger interface {
	// RecordBid appends a bid entry for the artwork and makes it the
	// artwork's open bid, atomically. The caller is responsible for
	// checking the artwork exists. The artwork's CurrentBidID is updated
	// in place to reference the new entry.
	RecordBid(ctx context.Context, artwork *schema.Artwork, bidder *schema.Account, amount string, timestamp time.Time) (*schema.BidLog, error)
	// ResolveCurrent applies a terminal outcome to the artwork's open bid
	// and persists the artwork's pending mutations together with the bid
	// outcome in one transaction. When no bid is referenced or the
	// referenced bid is already terminal, only the artwork is persisted.
	ResolveCurrent(ctx context.Context, artwork *schema.Artwork, outcome Outcome) error
}

type ledger struct {
	store store.Store
}

// NewLedger creates a store-backed bid ledger
func NewLedger(st store.Store) Ledger {
	return &ledger{store: st}
}

func (l *ledger) RecordBid(ctx context.Context, artwork *schema.Artwork, bidder *schema.Account, amount string, timestamp time.Time) (*schema.BidLog, error) {
	// Uniqueness relies on block-timestamp granularity per (token, bidder)
	bid := &schema.BidLog{
		ID:        fmt.Sprintf("%s-%s-%d", artwork.ID, bidder.ID, timestamp.Unix()),
		Amount:    amount,
		BidderID:  bidder.ID,
		ArtworkID: artwork.ID,
		Timestamp: timestamp,
		Accepted:  false,
		Canceled:  false,
	}

	if err := l.store.RecordBid(ctx, bid); err != nil {
		return nil, fmt.Errorf("failed to record bid %s: %w", bid.ID, err)
	}

	artwork.CurrentBidID = &bid.ID
	return bid, nil
}

func (l *ledger) ResolveCurrent(ctx context.Context, artwork *schema.Artwork, outcome Outcome) error {
	if artwork.CurrentBidID == nil {
		// No bid was ever placed; tolerated per the silent no-op policy
		logger.DebugCtx(ctx, "no open bid to resolve", zap.String("artwork", artwork.ID), zap.String("outcome", string(outcome)))
		return l.saveArtworkOnly(ctx, artwork)
	}

	bid, err := l.store.GetBidLog(ctx, *artwork.CurrentBidID)
	if err != nil {
		return fmt.Errorf("failed to load open bid %s: %w", *artwork.CurrentBidID, err)
	}
	if bid == nil {
		logger.WarnCtx(ctx, "open bid reference dangling", zap.String("artwork", artwork.ID), zap.String("bid", *artwork.CurrentBidID))
		return l.saveArtworkOnly(ctx, artwork)
	}

	// Terminal flags are one-way; a resolved bid stays resolved
	if bid.Accepted || bid.Canceled {
		return l.saveArtworkOnly(ctx, artwork)
	}

	switch outcome {
	case OutcomeAccepted:
		bid.Accepted = true
	case OutcomeCanceled:
		bid.Canceled = true
	default:
		return fmt.Errorf("unknown bid outcome: %s", outcome)
	}

	// One transaction: the sale-state change on the artwork and the bid
	// outcome are never observable separately
	if err := l.store.ResolveBid(ctx, artwork, bid); err != nil {
		return fmt.Errorf("failed to persist bid outcome: %w", err)
	}

	return nil
}

func (l *ledger) saveArtworkOnly(ctx context.Context, artwork *schema.Artwork) error {
	if err := l.store.SaveArtwork(ctx, artwork); err != nil {
		return fmt.Errorf("failed to save artwork: %w", err)
	}
	return nil
}
