// models/models.go - shared model helpers
package models

import "github.com/google/uuid"

// FeedRow is implemented by rows the change feed watches. FeedKeys returns the
// column values subscribers may filter on.
type FeedRow interface {
	FeedKeys() map[string]string
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// keys builds a FeedKeys map from column/id pairs, leaving out unset ids so a
// partially loaded row still reaches filtered subscribers.
func keys(pairs ...any) map[string]string {
	out := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		col, _ := pairs[i].(string)
		id, _ := pairs[i+1].(uuid.UUID)
		if col == "" || id == uuid.Nil {
			continue
		}
		out[col] = id.String()
	}
	return out
}
