package models

import (
	"time"
)

// CacheEntry backs the database cache store used when Redis is disabled or
// unreachable. A zero ExpiresAt means the entry never expires.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:256"`
	Value     []byte    `gorm:"type:blob"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
