package store

import (
	"context"
	"time"

	"github.com/artchain-labs/artwork-indexer/internal/store/schema"
)

// Store defines the interface for database operations.
// Get* methods return (nil, nil) when no record exists.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetArtwork retrieves an artwork by its token identifier
	GetArtwork(ctx context.Context, id string) (*schema.Artwork, error)
	// SaveArtwork creates or fully updates an artwork record
	SaveArtwork(ctx context.Context, artwork *schema.Artwork) error
	// GetAccount retrieves an account by its normalized address
	GetAccount(ctx context.Context, id string) (*schema.Account, error)
	// CreateAccount inserts an account record, doing nothing if it already exists
	CreateAccount(ctx context.Context, account *schema.Account) error
	// GetBidLog retrieves a bid log entry by its composite id
	GetBidLog(ctx context.Context, id string) (*schema.BidLog, error)
	// SaveBidLog creates or fully updates a bid log entry
	SaveBidLog(ctx context.Context, bid *schema.BidLog) error
	// RecordBid inserts a bid log entry and points the artwork's current bid
	// at it, atomically
	RecordBid(ctx context.Context, bid *schema.BidLog) error
	// ResolveBid persists the artwork and the terminal state of its open bid
	// in a single transaction
	ResolveBid(ctx context.Context, artwork *schema.Artwork, bid *schema.BidLog) error
	// ListBrokenArtworks retrieves unburned artworks whose metadata is still
	// unresolved and that have not been retried since olderThan
	ListBrokenArtworks(ctx context.Context, olderThan time.Time, limit int) ([]*schema.Artwork, error)
}
