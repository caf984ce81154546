// Package session keeps per-visitor state behind the sessionid cookie.
package session

import (
	"context"
	"time"
)

// Store persists values per session id. Values are JSON encoded.
type Store interface {
	// Get decodes the value under key into dst. It reports false when the
	// session or key does not exist.
	Get(ctx context.Context, sid, key string, dst any) (bool, error)
	Set(ctx context.Context, sid, key string, value any) error
	Delete(ctx context.Context, sid, key string) error
	Destroy(ctx context.Context, sid string) error
}

const DefaultTTL = 14 * 24 * time.Hour
