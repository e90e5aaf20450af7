package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/definition"
)

// DefinitionRepository keys team definitions by team id and map
// definitions by raw name, like the postgres unique indexes.
type DefinitionRepository struct {
	mu     sync.RWMutex
	items  []definition.Definition
	nextID int64
}

func NewDefinitionRepository(seed []definition.Definition) *DefinitionRepository {
	r := &DefinitionRepository{}
	for _, item := range seed {
		r.upsert(item)
	}
	return r
}

func (r *DefinitionRepository) ListAll(_ context.Context) ([]definition.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]definition.Definition, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneDefinition(item))
	}
	return out, nil
}

func (r *DefinitionRepository) UpsertMany(_ context.Context, items []definition.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("upsert definition raw_name=%s: %w", item.RawName, err)
		}
	}
	for _, item := range items {
		r.upsert(item)
	}
	return nil
}

func (r *DefinitionRepository) upsert(item definition.Definition) {
	for i := range r.items {
		current := &r.items[i]
		if current.Type != item.Type {
			continue
		}
		switch item.Type {
		case definition.TypeTeam:
			if current.TeamID != nil && item.TeamID != nil && *current.TeamID == *item.TeamID {
				current.RawName = item.RawName
				return
			}
		case definition.TypeMap:
			if current.RawName == item.RawName {
				current.DisplayName = item.DisplayName
				return
			}
		}
	}

	r.nextID++
	item = cloneDefinition(item)
	item.ID = r.nextID
	r.items = append(r.items, item)
}

func cloneDefinition(item definition.Definition) definition.Definition {
	if item.TeamID != nil {
		id := *item.TeamID
		item.TeamID = &id
	}
	return item
}
