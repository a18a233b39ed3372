package storage

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"vizstudio/internal/query"
)

// MaxSavedViews caps the saved view list at the most recent entries.
const MaxSavedViews = 30

// Saved-view mutation is expressed as pure list computation: compute the
// next list, then pass it through the gateway. The gateway itself knows
// nothing about views beyond structural validation.

// AppendView prepends a new view snapshotting q. The name is trimmed; an
// empty name rejects the append and returns the list unchanged.
func AppendView(views []SavedView, name string, q query.Query) ([]SavedView, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return views, false
	}

	next := make([]SavedView, 0, len(views)+1)
	next = append(next, SavedView{
		ID:        uuid.NewString(),
		Name:      name,
		Query:     q.Clone(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	next = append(next, views...)

	if len(next) > MaxSavedViews {
		next = next[:MaxSavedViews]
	}
	return next, true
}

// RemoveView drops the view with the given id, if present.
func RemoveView(views []SavedView, id string) []SavedView {
	next := make([]SavedView, 0, len(views))
	for _, view := range views {
		if view.ID != id {
			next = append(next, view)
		}
	}
	return next
}
