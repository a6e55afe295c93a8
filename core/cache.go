package core

import "time"

// UserCache holds user projections keyed by user id.
type UserCache interface {
	Get(userID string) (*User, error)
	Set(userID string, user *User) error
	Delete(userID string) error
	Clear() error
}

type CacheWithStats interface {
	UserCache
	Stats() CacheStats
}

type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats are simple counters for cache behavior.
// These are intended for diagnostics and monitoring.
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}
