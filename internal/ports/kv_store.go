package ports

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound = errors.New("key not found")

	// ErrQuotaExceeded is returned by Set when the write would push the
	// store past its storage budget. Callers recover by clearing the store.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KeyValueStore is a persistent string-keyed store. One instance backs
// exactly one namespace (the response cache), so Clear never has to
// special-case keys that belong to somebody else.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}
