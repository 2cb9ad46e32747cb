package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/artchain-labs/artwork-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the database schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Account{},
		&schema.Artwork{},
		&schema.BidLog{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// GetArtwork retrieves an artwork by its token identifier
func (s *pgStore) GetArtwork(ctx context.Context, id string) (*schema.Artwork, error) {
	var artwork schema.Artwork
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&artwork).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artwork: %w", err)
	}
	return &artwork, nil
}

// SaveArtwork creates or fully updates an artwork record
func (s *pgStore) SaveArtwork(ctx context.Context, artwork *schema.Artwork) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(artwork).Error
	if err != nil {
		return fmt.Errorf("failed to save artwork: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by its normalized address
func (s *pgStore) GetAccount(ctx context.Context, id string) (*schema.Account, error) {
	var account schema.Account
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// CreateAccount inserts an account record, doing nothing if it already exists
func (s *pgStore) CreateAccount(ctx context.Context, account *schema.Account) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(account).Error
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetBidLog retrieves a bid log entry by its composite id
func (s *pgStore) GetBidLog(ctx context.Context, id string) (*schema.BidLog, error) {
	var bid schema.BidLog
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bid log: %w", err)
	}
	return &bid, nil
}

// SaveBidLog creates or fully updates a bid log entry
func (s *pgStore) SaveBidLog(ctx context.Context, bid *schema.BidLog) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(bid).Error
	if err != nil {
		return fmt.Errorf("failed to save bid log: %w", err)
	}
	return nil
}

// RecordBid inserts a bid log entry and points the artwork's current bid at
// it in a single transaction, so either both mutations land or neither does
func (s *pgStore) RecordBid(ctx context.Context, bid *schema.BidLog) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Duplicate (token, bidder, timestamp) tuples can occur when the
		// event source redelivers; the first write wins.
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(bid).Error; err != nil {
			return fmt.Errorf("failed to create bid log: %w", err)
		}

		if err := tx.Model(&schema.Artwork{}).
			Where("id = ?", bid.ArtworkID).
			Update("current_bid_id", bid.ID).Error; err != nil {
			return fmt.Errorf("failed to update current bid: %w", err)
		}

		return nil
	})
}

// ResolveBid persists the artwork and the terminal state of its open bid in
// a single transaction, so a bid outcome never lands without the artwork's
// accompanying sale-state change (and vice versa)
func (s *pgStore) ResolveBid(ctx context.Context, artwork *schema.Artwork, bid *schema.BidLog) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(artwork).Error; err != nil {
			return fmt.Errorf("failed to save artwork: %w", err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(bid).Error; err != nil {
			return fmt.Errorf("failed to save bid log: %w", err)
		}

		return nil
	})
}

// ListBrokenArtworks retrieves unburned artworks whose metadata is still
// unresolved and that have not been retried since olderThan
func (s *pgStore) ListBrokenArtworks(ctx context.Context, olderThan time.Time, limit int) ([]*schema.Artwork, error) {
	var artworks []*schema.Artwork
	err := s.db.WithContext(ctx).
		Where("broken = ? AND burned = ? AND updated_at < ?", true, false, olderThan).
		Order("updated_at ASC").
		Limit(limit).
		Find(&artworks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list broken artworks: %w", err)
	}
	return artworks, nil
}
