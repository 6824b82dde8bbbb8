package object

import "context"

// Store defines the contract for persisting keyed binary objects and
// addressing groups of them by key prefix.
type Store interface {
	// Put writes data under key with the given content type, overwriting
	// any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get returns the object bytes and stored content type.
	Get(ctx context.Context, key string) (data []byte, contentType string, err error)

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// ListKeys returns every key starting with prefix, in store order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)

	// ListTopLevelPrefixes returns the distinct first path segments of all
	// stored keys, without the trailing slash.
	ListTopLevelPrefixes(ctx context.Context) ([]string, error)

	// DeletePrefix removes every object under prefix and returns how many
	// objects were deleted.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
