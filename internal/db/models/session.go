package models

// Session is a row of the database backed session storage.
type Session struct {
	// ID is the storage key, a session id or a login attempt counter.
	ID string `gorm:"primaryKey;size:128"`
	// Value is the raw stored value.
	Value []byte
	// ExpiresAt is the unix time the entry expires at, 0 for entries that don't expire.
	ExpiresAt int64 `gorm:"index"`
}
