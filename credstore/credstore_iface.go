package credstore

import "context"

// Store is a cookie-like durable key/value store for bearer credentials.
//
// Storage failure is never surfaced to callers: a Save or Delete that cannot
// reach storage is a silent no-op and a Read that cannot reach storage reports
// the entry as absent. Higher layers treat an absent credential as "no session".
type Store interface {
	// Save persists value under key with the given cookie attributes.
	Save(ctx context.Context, key, value string, opts ...Attribute)

	// Read returns the value stored under key.
	Read(ctx context.Context, key string) (value string, ok bool)

	// Delete removes the entry stored under key.
	Delete(ctx context.Context, key string)

	// DeleteAll removes every entry in the store.
	DeleteAll(ctx context.Context)
}
