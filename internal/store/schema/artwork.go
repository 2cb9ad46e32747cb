package schema

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Tags is an ordered list of metadata tags stored as JSONB in PostgreSQL
type Tags []string

// Scan implements the sql.Scanner interface for reading from database
func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, t)
}

// Value implements the driver.Valuer interface for writing to database
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Artwork represents the artworks table - the denormalized per-token record of
// ownership, sale state, and enriched metadata. Exactly one row exists per
// token id; rows are never physically deleted (burn retires them in place).
type Artwork struct {
	// ID is the token identifier as a decimal string (primary key)
	ID string `gorm:"column:id;primaryKey;type:text"`
	// TokenNumber is the on-chain token ID (string to support very large numbers)
	TokenNumber string `gorm:"column:token_number;not null;type:numeric(78,0)"`
	// CreatorID references the minting account; immutable after mint
	CreatorID string `gorm:"column:creator_id;not null;type:text;index:idx_artworks_creator"`
	// OwnerID references the current owner; retains its last value after burn
	OwnerID string `gorm:"column:owner_id;not null;type:text;index:idx_artworks_owner"`
	// CreationDate is the block timestamp of the mint event
	CreationDate time.Time `gorm:"column:creation_date;not null;type:timestamptz"`
	// Modified is the block timestamp of the most recent transfer
	Modified *time.Time `gorm:"column:modified;type:timestamptz"`
	// Removed is the block timestamp of the burn event
	Removed *time.Time `gorm:"column:removed;type:timestamptz"`
	// Burned indicates the token was transferred to the null address
	Burned bool `gorm:"column:burned;not null;default:false"`
	// ForSale indicates an approval was granted for sale
	ForSale bool `gorm:"column:for_sale;not null;default:false"`
	// Broken indicates no content id could be derived from the metadata locator
	Broken bool `gorm:"column:broken;not null;default:false;index:idx_artworks_broken"`
	// MetadataURI is the canonical gateway URL of the metadata document
	MetadataURI *string `gorm:"column:metadata_uri;type:text"`
	// MetadataHash is the content id of the metadata document
	MetadataHash *string `gorm:"column:metadata_hash;type:text"`
	// MetadataDigest is the SHA-256 of the JCS-canonicalized metadata document
	MetadataDigest *string `gorm:"column:metadata_digest;type:text"`
	// RawMetadata is the metadata document as fetched, for re-extraction and audit
	RawMetadata datatypes.JSON `gorm:"column:raw_metadata;type:jsonb"`
	// Name is the artwork title from the metadata document
	Name *string `gorm:"column:name;type:text"`
	// Description is the artwork description from the metadata document
	Description *string `gorm:"column:description;type:text"`
	// MediaURI points at the primary media (animation_url wins over image)
	MediaURI *string `gorm:"column:media_uri;type:text"`
	// MediaHash is the content id derived from MediaURI, when derivable
	MediaHash *string `gorm:"column:media_hash;type:text"`
	// MimeType is the media MIME type, declared or sniffed
	MimeType *string `gorm:"column:mime_type;type:text"`
	// Size is the declared media size in bytes (string to support large values)
	Size *string `gorm:"column:size;type:numeric(78,0)"`
	// Tags are the metadata tags in document order
	Tags Tags `gorm:"column:tags;type:jsonb"`
	// TagsString is the space-joined rendering of Tags
	TagsString *string `gorm:"column:tags_string;type:text"`
	// CurrentBidID references the open (most recent, unresolved) bid
	CurrentBidID *string `gorm:"column:current_bid_id;type:text"`
	// CreatedAt is the timestamp when this record was first indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Creator    Account `gorm:"foreignKey:CreatorID"`
	Owner      Account `gorm:"foreignKey:OwnerID"`
	CurrentBid *BidLog `gorm:"foreignKey:CurrentBidID"`
	Bids       []BidLog `gorm:"foreignKey:ArtworkID"`
}

// TableName specifies the table name for the Artwork model
func (Artwork) TableName() string {
	return "artworks"
}
