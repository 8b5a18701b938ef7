package domain

import "context"

type SnapshotRepository interface {
	// EnsureSchema creates the per-provider fare tables if absent.
	EnsureSchema(ctx context.Context) error
	// InsertQuotes appends snapshot rows for one cruise. Append-only.
	InsertQuotes(ctx context.Context, p Provider, qs []FareQuote) error
	// ListQuotes returns every stored row for a provider, oldest first.
	ListQuotes(ctx context.Context, p Provider) ([]FareQuote, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
