package port

import "context"

type CartStorage interface {
	// Get returns the snapshot stored under key, or nil when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the snapshot stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the snapshot, no error when the key is absent.
	Remove(ctx context.Context, key string) error
}
