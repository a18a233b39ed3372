package storage

import (
	"time"

	"vizstudio/internal/query"
)

// SchemaVersion is the persisted blob's schema version. Stored content with
// any other version is discarded wholesale; there is no migration path.
const SchemaVersion = 1

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// SavedView is a named snapshot of a query.
type SavedView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Query     query.Query `json:"query"`
	CreatedAt string      `json:"createdAt"` // ISO-8601
}

// State is the single versioned blob the gateway persists.
type State struct {
	Version    int         `json:"version"`
	Theme      Theme       `json:"theme"`
	SavedViews []SavedView `json:"savedViews"`
}

// DefaultState returns the state used when nothing is stored or the stored
// payload is invalid.
func DefaultState() State {
	return State{
		Version:    SchemaVersion,
		Theme:      ThemeDark,
		SavedViews: []SavedView{},
	}
}

func (s State) clone() State {
	out := s
	out.SavedViews = make([]SavedView, len(s.SavedViews))
	for i, v := range s.SavedViews {
		out.SavedViews[i] = v
		out.SavedViews[i].Query = v.Query.Clone()
	}
	return out
}

// normalizeState repairs a raw state into a well-formed one: the current
// schema version, a valid theme (dark by default), and only structurally
// sound saved views.
func normalizeState(raw State) State {
	out := State{
		Version:    SchemaVersion,
		Theme:      normalizeTheme(raw.Theme),
		SavedViews: []SavedView{},
	}

	for _, view := range raw.SavedViews {
		if view.ID == "" || view.Name == "" {
			continue
		}
		if view.CreatedAt == "" {
			view.CreatedAt = time.Now().UTC().Format(time.RFC3339)
		}
		out.SavedViews = append(out.SavedViews, view)
	}
	if len(out.SavedViews) > MaxSavedViews {
		out.SavedViews = out.SavedViews[:MaxSavedViews]
	}
	return out
}

func normalizeTheme(t Theme) Theme {
	if t == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// MemoryCell is the process-scoped in-memory mirror of the persisted state.
// It is injected into the gateway so tests and callers control its lifetime
// explicitly; there is no ambient global.
type MemoryCell struct {
	state State
}

// NewMemoryCell returns a cell initialized to the default state.
func NewMemoryCell() *MemoryCell {
	return &MemoryCell{state: DefaultState()}
}

// Reset restores the cell to the default state.
func (c *MemoryCell) Reset() {
	c.state = DefaultState()
}

func (c *MemoryCell) set(s State) {
	c.state = s.clone()
}

func (c *MemoryCell) get() State {
	return c.state.clone()
}
