package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Gateway persists the versioned state blob to a single JSON file, degrading
// to the injected memory cell whenever the file is unreadable, corrupted, or
// unwritable. Neither Read nor Write can fail outright: both always return a
// usable state, with Err and UsedFallback describing what went wrong.
type Gateway struct {
	path string
	cell *MemoryCell
}

// Outcome is the result of a gateway operation. State is always usable;
// Err is a non-fatal description when persistence degraded.
type Outcome struct {
	State        State
	Err          error
	UsedFallback bool
}

// Partial is a partial state update. Nil fields are left unchanged.
type Partial struct {
	Theme      *Theme
	SavedViews *[]SavedView
}

// NewGateway creates a gateway writing to path, mirrored in cell.
func NewGateway(path string, cell *MemoryCell) *Gateway {
	return &Gateway{path: path, cell: cell}
}

// Read loads the persisted state. A missing file yields defaults with no
// error; an unreadable or corrupt file yields the last in-memory state with
// a descriptive error; a schema version mismatch discards the stored payload
// and yields defaults.
func (g *Gateway) Read() Outcome {
	raw, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			st := DefaultState()
			g.cell.set(st)
			return Outcome{State: st}
		}
		return Outcome{
			State:        g.cell.get(),
			Err:          fmt.Errorf("state file is unreadable, keeping in-memory state for this session: %w", err),
			UsedFallback: true,
		}
	}

	var parsed State
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Outcome{
			State:        g.cell.get(),
			Err:          fmt.Errorf("state file is corrupted, keeping in-memory state for this session: %w", err),
			UsedFallback: true,
		}
	}

	if parsed.Version != SchemaVersion {
		// Old or future schema: drop it wholesale, no migration.
		log.Warn().Int("stored", parsed.Version).Int("expected", SchemaVersion).
			Msg("Discarding persisted state with mismatched schema version")
		parsed = DefaultState()
	}

	st := normalizeState(parsed)
	g.cell.set(st)
	return Outcome{State: st}
}

// Write merges a partial update into the current state, updates the memory
// cell unconditionally, then attempts the physical write. A failed write
// still returns the updated state so application state stays consistent.
func (g *Gateway) Write(partial Partial) Outcome {
	current := g.Read().State

	if partial.Theme != nil {
		current.Theme = *partial.Theme
	}
	if partial.SavedViews != nil {
		current.SavedViews = *partial.SavedViews
	}

	next := normalizeState(current)
	g.cell.set(next)

	if err := g.writeFile(next); err != nil {
		return Outcome{
			State:        next,
			Err:          fmt.Errorf("could not persist state, using memory fallback: %w", err),
			UsedFallback: true,
		}
	}
	return Outcome{State: next}
}

func (g *Gateway) writeFile(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(g.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the blob.
	tmpPath := g.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmpPath, g.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// ReadTheme returns the persisted theme preference.
func (g *Gateway) ReadTheme() (Theme, Outcome) {
	out := g.Read()
	return out.State.Theme, out
}

// WriteTheme persists a theme preference, coercing unknown values to dark.
func (g *Gateway) WriteTheme(t Theme) Outcome {
	t = normalizeTheme(t)
	return g.Write(Partial{Theme: &t})
}
