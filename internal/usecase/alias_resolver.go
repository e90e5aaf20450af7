package usecase

import "github.com/riskibarqy/tourney-sheet-sync/internal/domain/definition"

// AliasResolver maps raw scraped names to sheet display names.
type AliasResolver struct {
	byKey map[definition.Key]definition.Definition
}

func NewAliasResolver(defs []definition.Definition) *AliasResolver {
	byKey := make(map[definition.Key]definition.Definition, len(defs))
	for _, def := range defs {
		key := def.Key()
		if _, exists := byKey[key]; exists {
			continue
		}
		byKey[key] = def
	}
	return &AliasResolver{byKey: byKey}
}

// Resolve returns the display name defined for (kind, raw), or raw itself.
func (r *AliasResolver) Resolve(raw string, kind definition.Type) string {
	if raw == "" || r == nil {
		return raw
	}
	def, ok := r.byKey[definition.Key{Type: kind, Raw: raw}]
	if !ok {
		return raw
	}
	return def.Display()
}
