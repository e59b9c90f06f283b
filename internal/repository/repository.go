package repository

import "context"

// StateStore is a durable key-value byte store for widget state.
type StateStore interface {
	// Get returns the value stored under key. A missing key yields an error
	// wrapping apperrors.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
