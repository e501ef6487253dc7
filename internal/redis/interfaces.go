package redis

import (
	"context"
	"time"
)

// ResponseStoreInterface defines storage for replayable HTTP responses.
// Get returns (nil, nil) on a miss.
type ResponseStoreInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Ensure concrete types implement interfaces.
var (
	_ ResponseStoreInterface = (*ResponseStore)(nil)
)
