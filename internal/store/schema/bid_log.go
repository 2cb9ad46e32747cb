package schema

import "time"

// BidLog represents the bid_logs table - an append-only log of bid events.
// A row is mutable only while referenced by its artwork's current_bid_id;
// superseded bids are immutable history. Accepted and canceled are mutually
// exclusive terminal flags.
type BidLog struct {
	// ID is the composite key tokenID-bidderID-unixTimestamp
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Amount is the bid amount in wei (string to support very large numbers)
	Amount string `gorm:"column:amount;not null;type:numeric(78,0)"`
	// BidderID references the bidding account
	BidderID string `gorm:"column:bidder_id;not null;type:text;index:idx_bid_logs_bidder"`
	// ArtworkID references the artwork the bid targets
	ArtworkID string `gorm:"column:artwork_id;not null;type:text;index:idx_bid_logs_artwork"`
	// Timestamp is the block timestamp of the bid event
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	// Accepted is set when the artwork's open bid is accepted; never unset
	Accepted bool `gorm:"column:accepted;not null;default:false"`
	// Canceled is set when the artwork's open bid is canceled; never unset
	Canceled bool `gorm:"column:canceled;not null;default:false"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Bidder Account `gorm:"foreignKey:BidderID"`
}

// TableName specifies the table name for the BidLog model
func (BidLog) TableName() string {
	return "bid_logs"
}
