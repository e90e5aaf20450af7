package match

import "context"

// Repository loads and flushes matches at cycle boundaries.
type Repository interface {
	ListAll(ctx context.Context) ([]Match, error)
	UpsertMany(ctx context.Context, items []Match) error
}
