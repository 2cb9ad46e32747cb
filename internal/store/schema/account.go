package schema

import "time"

// Account represents the accounts table - one row per chain address.
// Rows are created lazily on first sight and never mutated or deleted.
type Account struct {
	// ID is the normalized (lower-case hex) chain address
	ID string `gorm:"column:id;primaryKey;type:text"`
	// CreatedAt is the timestamp when the address was first seen
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
