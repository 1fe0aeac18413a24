package ports

import "context"

// SecretStore holds the opaque credential blob the upstream adapter
// authenticates with. Delete on a missing credential is not an error.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
