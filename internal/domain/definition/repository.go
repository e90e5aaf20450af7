package definition

import "context"

// Repository persists alias definitions. UpsertMany matches rows on
// (Type, RawName) for map definitions and on TeamID for team definitions.
type Repository interface {
	ListAll(ctx context.Context) ([]Definition, error)
	UpsertMany(ctx context.Context, items []Definition) error
}
