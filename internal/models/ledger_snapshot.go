package models

// LedgerSnapshot stores the whole ledger of a user as one JSON document.
// Version increases by one on every save.
type LedgerSnapshot struct {
	Base
	UserID  string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Data    string `gorm:"type:text;not null" json:"-"`
	Version int64  `gorm:"not null;default:0" json:"version"`
}
